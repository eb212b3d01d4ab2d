// Package config binds every runtime-tunable constant named across the
// driver/executor/mempool/proof packages into one viper-backed Config,
// loaded from <home>/config/casino.toml with CLI flag overrides — the
// generalization of the teacher's bare flag.String trio in
// apps/chain/cmd/ocpd/main.go into a real config layer, following the
// viper.AutomaticEnv/viper.GetString idiom orbas1-Synnergy's
// cmd/explorer/main.go uses.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"casinochain/internal/executor"
	"casinochain/internal/mempool"
)

// Config is the fully-resolved runtime configuration for one casinod
// process.
type Config struct {
	Home      string
	ListenAddr string
	Transport  string

	Executor executor.Config
	Mempool  mempool.Config

	ProofMaxNodes int
	ProofMaxOps   int
}

// Default mirrors executor.DefaultConfig/mempool.DefaultConfig so a node
// started with no config file at all still boots with the values
// spec.md's end-to-end scenarios (§8) exercise.
func Default() Config {
	return Config{
		Home:          ".casino",
		ListenAddr:    "tcp://127.0.0.1:26658",
		Transport:     "socket",
		Executor:      executor.DefaultConfig(),
		Mempool:       mempool.DefaultConfig(),
		ProofMaxNodes: 4096,
		ProofMaxOps:   1024,
	}
}

// Load reads <home>/config/casino.toml (if present), layers in any
// environment variables viper.AutomaticEnv already picked up, and
// returns the resolved Config. A missing config file is not an error —
// the defaults in Default() apply — matching the teacher's own
// "ledgerPath == '' -> fallback" pattern rather than failing the
// process over an optional file.
func Load(home string) (Config, error) {
	cfg := Default()
	cfg.Home = home

	v := viper.New()
	v.SetConfigName("casino")
	v.SetConfigType("toml")
	v.AddConfigPath(filepath.Join(home, "config"))
	v.SetEnvPrefix("CASINO")
	v.AutomaticEnv()

	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("config: read casino.toml: %w", err)
		}
	}

	cfg.ListenAddr = v.GetString("listen_addr")
	cfg.Transport = v.GetString("transport")
	cfg.Executor.DefaultChips = v.GetUint64("executor.default_chips")
	cfg.Executor.DepositCooldownBlocks = v.GetUint64("executor.deposit_cooldown_blocks")
	cfg.Executor.TournamentReg = v.GetUint64("executor.tournament_registration_blocks")
	cfg.Executor.TournamentActive = v.GetUint64("executor.tournament_active_blocks")
	cfg.Executor.StakeMaxLockBlocks = v.GetUint64("executor.stake_max_lock_blocks")
	cfg.Executor.StakeEpochBlocks = v.GetUint64("executor.stake_epoch_blocks")
	cfg.Executor.StakeRewardBps = v.GetUint64("executor.stake_reward_bps")
	cfg.Mempool.MaxBacklog = v.GetInt("mempool.max_backlog")
	cfg.Mempool.MaxPerAccount = v.GetInt("mempool.max_per_account")
	cfg.ProofMaxNodes = v.GetInt("proof.max_nodes")
	cfg.ProofMaxOps = v.GetInt("proof.max_ops")
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("listen_addr", cfg.ListenAddr)
	v.SetDefault("transport", cfg.Transport)
	v.SetDefault("executor.default_chips", cfg.Executor.DefaultChips)
	v.SetDefault("executor.deposit_cooldown_blocks", cfg.Executor.DepositCooldownBlocks)
	v.SetDefault("executor.tournament_registration_blocks", cfg.Executor.TournamentReg)
	v.SetDefault("executor.tournament_active_blocks", cfg.Executor.TournamentActive)
	v.SetDefault("executor.stake_max_lock_blocks", cfg.Executor.StakeMaxLockBlocks)
	v.SetDefault("executor.stake_epoch_blocks", cfg.Executor.StakeEpochBlocks)
	v.SetDefault("executor.stake_reward_bps", cfg.Executor.StakeRewardBps)
	v.SetDefault("mempool.max_backlog", cfg.Mempool.MaxBacklog)
	v.SetDefault("mempool.max_per_account", cfg.Mempool.MaxPerAccount)
	v.SetDefault("proof.max_nodes", cfg.ProofMaxNodes)
	v.SetDefault("proof.max_ops", cfg.ProofMaxOps)
}
