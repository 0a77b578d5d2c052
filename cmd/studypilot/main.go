// StudyPilot Daemon - the background service serving the student assistant.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/studypilot/studypilot/internal/agent"
	"github.com/studypilot/studypilot/internal/api"
	"github.com/studypilot/studypilot/internal/config"
	"github.com/studypilot/studypilot/internal/llm"
	"github.com/studypilot/studypilot/internal/logging"
	"github.com/studypilot/studypilot/internal/session"
)

var (
	dataDir    string
	configPath string
	port       int
	debug      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "studypilot",
		Short: "StudyPilot Daemon - Your AI study companion",
		RunE:  runDaemon,
	}

	home, _ := os.UserHomeDir()
	defaultDataDir := filepath.Join(home, ".studypilot")

	rootCmd.Flags().StringVar(&dataDir, "data-dir", defaultDataDir, "Data directory")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Config file path")
	rootCmd.Flags().IntVar(&port, "port", 0, "HTTP server port (overrides config)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runDaemon(cmd *cobra.Command, args []string) error {
	fmt.Println("🚀 Starting StudyPilot Daemon...")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = dataDir
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if debug || cfg.Features.DebugMode {
		logging.SetLevel(logging.DEBUG)
	}

	// Session registry; databases open lazily per session token
	sessions := session.NewRegistry(cfg.DataDir)
	defer sessions.Close()

	// LLM client
	llmClient := llm.NewClient(llm.Config{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	if !llmClient.IsConfigured() {
		fmt.Println("⚠️  STUDYPILOT_LLM_BASE_URL not set - chat will be unavailable")
	} else {
		fmt.Printf("✅ LLM configured (%s)\n", cfg.LLM.Model)
	}

	orchestrator := agent.New(sessions, llmClient)

	server := api.New(api.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		Orchestrator:    orchestrator,
		Sessions:        sessions,
		EnableWebSocket: cfg.Features.EnableWebSocket,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("📚 Sessions stored under %s\n", filepath.Join(cfg.DataDir, "sessions"))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		fmt.Printf("\n👋 Received %s, shutting down...\n", sig)
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logging.Error("shutdown error: %v", err)
	}

	return nil
}
