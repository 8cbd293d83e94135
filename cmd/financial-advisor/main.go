package main

import (
	"context"
	"fmt"
	"os"

	"github.com/junaidjmomin/financial/config"
	"github.com/junaidjmomin/financial/internal/chat"
	"github.com/junaidjmomin/financial/internal/conversation"
	"github.com/junaidjmomin/financial/internal/dispatch"
	"github.com/junaidjmomin/financial/internal/gemini"
	"github.com/junaidjmomin/financial/internal/tui"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Initialize the Gemini client
	ctx := context.Background()
	client, err := gemini.NewClient(ctx, cfg.Gemini.Model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing Gemini client: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	// Wire the session: store -> dispatcher -> provider
	dispatcher := dispatch.NewDispatcher(client, cfg.Retry.MaxRetries, cfg.BaseDelay())
	store := conversation.NewStore(cfg.Chat.WelcomeMessage)
	session := chat.NewSession(store, dispatcher, cfg.Chat.SystemPrompt)

	// Create and run TUI
	app := tui.NewApp(cfg, session)
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}
