package main

import (
	"context"
	"os/signal"
	"runtime"
	"syscall"

	"backend-farmacia/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithContext(ctx).Fatal(err)
	}

	logger := config.NewLogger(cfg.LogLevel)

	root := &cobra.Command{
		Use:   "farmacia",
		Short: "Antrian loket apotek",
	}
	root.AddCommand(serveCommand(ctx, cfg, logger))

	if err := root.Execute(); err != nil {
		logger.WithContext(ctx).Fatalf("failed to execute root command: \n%v", err)
	}
}

func serveCommand(ctx context.Context, cfg *config.Config, logger *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "jalankan HTTP server antrian apotek",
		RunE: func(_ *cobra.Command, _ []string) error {
			return serve(ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&cfg.AppHost, "host", cfg.AppHost, "alamat listen")
	cmd.Flags().IntVar(&cfg.AppPort, "port", cfg.AppPort, "port listen")
	return cmd
}
