package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"quire/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(cmd, "Serve")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.CheckStorage(ctx); err != nil {
			return err
		}

		srv := server.NewServer(a.Service(), a.Logger(), cfg.Server)
		fmt.Printf("Listening on %s\n", cfg.Server.Addr)
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}
