// Package cmd provides the CLI commands for docchat.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docchat/internal/api"
	"docchat/internal/auth"
	"docchat/internal/chat"
	"docchat/internal/config"
	"docchat/internal/db"
	"docchat/internal/debug"
	"docchat/internal/document"
	"docchat/internal/pubsub"
	"docchat/internal/storage"
	"docchat/internal/tui"
	"docchat/internal/upload"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docchat",
		Short: "Chat with your documents from the terminal",
		Long: `docchat is a terminal client for a document question answering
service. Upload PDF and Word files, then ask questions against all of
them or a single selected document.

Sign in once; the session is restored on the next start.`,
		RunE: runTUI,
	}

	cmd.Flags().Bool("debug", false, "Enable debug logging")
	cmd.Flags().String("api-url", "", "Override the API base URL")
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Enable debug logging if requested.
	debugMode, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return fmt.Errorf("getting debug flag: %w", err)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		cfg = config.NewConfig()
	}

	if debugMode {
		cfg.Options.Debug = true
	}
	if cfg.Options.Debug {
		logPath := filepath.Join(cfg.DataDir(), "debug.log")
		if debugErr := debug.Enable(logPath); debugErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to enable debug logging: %v\n", debugErr)
		} else {
			defer debug.Disable()
			fmt.Fprintf(os.Stderr, "Debug: %s\n", logPath)
		}
	}

	apiURL, err := cmd.Flags().GetString("api-url")
	if err != nil {
		return fmt.Errorf("getting api-url flag: %w", err)
	}
	if apiURL != "" && apiURL != cfg.APIBaseURL {
		cfg.APIBaseURL = apiURL
		// Persist the override so the next start talks to the same
		// deployment without the flag.
		if setErr := config.SetField("api_base_url", apiURL); setErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to save API URL: %v\n", setErr)
		}
	}

	// Open the local database for chat history and the document cache.
	database, err := db.Open(filepath.Join(cfg.DataDir(), "docchat.db"))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire the services.
	client := api.New(cfg.APIBaseURL)
	store := storage.NewFileStore(filepath.Join(cfg.DataDir(), "state"))

	hub := pubsub.NewHub()
	defer hub.Shutdown()

	authSvc := auth.NewService(client, store, hub)
	registry := document.NewRegistry(client, document.NewCache(database), hub)
	coordinator := upload.NewCoordinator(client, registry, hub)
	chatMgr := chat.NewManager(client, chat.NewSQLiteStore(database), registry, hub)

	// Restore a previous session before the UI starts, so the first frame
	// is already the chat page when a valid record exists.
	if _, ok := authSvc.Restore(); ok {
		debug.Event("cmd", "restore", "session restored")
	}

	return tui.Run(tui.Services{
		Auth:        authSvc,
		Registry:    registry,
		Coordinator: coordinator,
		Chat:        chatMgr,
		Hub:         hub,
	})
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
