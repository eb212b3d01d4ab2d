package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cometbft/cometbft/abci/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"casinochain/internal/app"
	"casinochain/internal/config"
)

// newStartCmd generalizes the teacher's bare main() (apps/chain/cmd/ocpd/
// main.go): load a Config instead of three flags, then the same
// New -> server.NewServer -> srv.Start -> wait-for-signal sequence.
func newStartCmd() *cobra.Command {
	var addr, transport string

	c := &cobra.Command{
		Use:   "start",
		Short: "run the casinod ABCI application",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(homeDir)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if addr != "" {
				cfg.ListenAddr = addr
			}
			if transport != "" {
				cfg.Transport = transport
			}

			log := logrus.New()
			log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

			a, err := app.New(cfg, log)
			if err != nil {
				return fmt.Errorf("init app: %w", err)
			}

			srv, err := server.NewServer(cfg.ListenAddr, cfg.Transport, a)
			if err != nil {
				return fmt.Errorf("start abci server: %w", err)
			}
			if err := srv.Start(); err != nil {
				return fmt.Errorf("abci server start: %w", err)
			}
			defer func() { _ = srv.Stop() }()

			log.WithFields(logrus.Fields{"addr": cfg.ListenAddr, "transport": cfg.Transport}).Info("casinod listening")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh
			return nil
		},
	}
	c.Flags().StringVar(&addr, "addr", "", "ABCI listen address (overrides config)")
	c.Flags().StringVar(&transport, "transport", "", "ABCI transport: socket|grpc (overrides config)")
	return c
}
