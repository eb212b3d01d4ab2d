package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"casinochain/internal/ledger"
	"casinochain/internal/state"
	"casinochain/internal/storage"
)

func loadAccount(adb *storage.ADB, pub [32]byte) (state.Account, bool, error) {
	raw, ok, err := adb.Get(state.AccountKey(pub))
	if err != nil || !ok {
		return state.Account{}, ok, err
	}
	acct, err := state.DecodeAccount(raw)
	return acct, true, err
}

// newQueryCmd reads the node's on-disk state store directly, the same
// lookups internal/app.CasinoApp.Query serves over ABCI, for offline
// inspection of a stopped node's data directory.
func newQueryCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "query",
		Short: "inspect casinod's on-disk state",
	}
	c.AddCommand(newQueryPlayerCmd())
	c.AddCommand(newQueryLeaderboardCmd())
	return c
}

func openState() (*storage.ADB, func(), error) {
	adb, err := storage.Open(filepath.Join(homeDir, "data", "state"))
	if err != nil {
		return nil, nil, fmt.Errorf("open state store: %w", err)
	}
	return adb, func() { _ = adb.Close() }, nil
}

func newQueryPlayerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "player <pubkey-hex>",
		Short: "print a player's account state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pub [32]byte
			if n, err := fmt.Sscanf(args[0], "%x", &pub); err != nil || n != 1 {
				return fmt.Errorf("invalid pubkey hex %q", args[0])
			}
			adb, closeFn, err := openState()
			if err != nil {
				return err
			}
			defer closeFn()
			p, ok, err := ledger.LoadPlayer(readOnlyStore{adb}, pub)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("player %s not found", args[0])
			}
			acct, _, err := loadAccount(adb, pub)
			if err != nil {
				return err
			}
			fmt.Printf("pubkey=%x name=%q chips=%d vusdt=%d nonce=%d\n", pub, p.Name, p.Chips, p.VUsdt, acct.Nonce)
			return nil
		},
	}
}

func newQueryLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "print the top-10 chip leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			adb, closeFn, err := openState()
			if err != nil {
				return err
			}
			defer closeFn()
			raw, ok, err := adb.Get(state.LeaderboardKey())
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("leaderboard empty")
				return nil
			}
			board, err := state.DecodeLeaderboard(raw)
			if err != nil {
				return err
			}
			for i, e := range board.Entries {
				fmt.Printf("%2d. %x  %q  %d chips\n", i+1, e.Player, e.Name, e.Chips)
			}
			return nil
		},
	}
}

// readOnlyStore adapts *storage.ADB to kv.Store for read-only lookups, the
// same adapter internal/app.adbStore provides for ABCI Query.
type readOnlyStore struct{ adb *storage.ADB }

func (s readOnlyStore) Get(key []byte) ([]byte, bool, error) { return s.adb.Get(key) }
func (s readOnlyStore) Put([]byte, []byte)                   {}
func (s readOnlyStore) Delete([]byte)                        {}
func (s readOnlyStore) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	return s.adb.Iterate(prefix, fn)
}
