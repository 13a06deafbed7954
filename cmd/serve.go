package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/atlastravel/atlas/internal/db"
	"github.com/atlastravel/atlas/internal/history"
	"github.com/atlastravel/atlas/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and WebSocket chat server",
	Long: `Starts an HTTP server exposing the planning API (generate, save,
trips, profile) and a WebSocket chat endpoint at /ws/chat.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides config)")
	serveCmd.Flags().Bool("allow-all", false, "allow any CORS origin")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.CheckCredentials(); err != nil {
		return err
	}

	svc, engine, st, err := buildService(ctx, cfg)
	if err != nil {
		return err
	}

	database, err := db.Open(filepath.Join(cfg.DataDir, "atlas.db"))
	if err != nil {
		return fmt.Errorf("opening chat database: %w", err)
	}
	defer database.Close()
	hist := history.NewStore(database)

	srvCfg := server.Config{Port: cfg.Server.Port, AllowAll: cfg.Server.AllowAll}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		srvCfg.Port = port
	}
	if allowAll, _ := cmd.Flags().GetBool("allow-all"); allowAll {
		srvCfg.AllowAll = true
	}

	srv := server.New(srvCfg, svc, engine, st, hist)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Printf("received %s, shutting down", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
