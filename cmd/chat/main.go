// Command chat is a terminal client for the portfolio chatbot gateway. The
// transcript is kept in a local SQLite file between runs.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"portfolio-chatbot/backend/internal/client"
	"portfolio-chatbot/backend/internal/ui"
	"portfolio-chatbot/backend/pkg/logger"
)

func main() {
	configDir := flag.String("config", "", "Directory containing chat.yaml")
	flag.Parse()

	cfg, err := loadConfig(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file
	logConfig := logger.DefaultConfig()
	logConfig.Level = cfg.LogLevel
	log, logFile, err := logger.NewFile(cfg.LogPath, logConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger.SetGlobal(log)

	store, err := client.NewSQLiteStore(cfg.StorePath)
	if err != nil {
		log.LogError(err, "Failed to open transcript store", "path", cfg.StorePath)
		fmt.Fprintf(os.Stderr, "Error opening transcript store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	// Session changes arrive from the sending goroutine; the UI only needs
	// to know that something changed, so pending signals are coalesced.
	updates := make(chan struct{}, 1)
	notify := func() {
		select {
		case updates <- struct{}{}:
		default:
		}
	}

	session := client.NewSession(
		client.NewGatewayClient(cfg.ServerURL, cfg.RequestTimeout),
		store,
		client.WithOnChange(notify),
		client.WithSessionLogger(log.WithComponent("session")),
	)

	var notice string
	if err := session.Hydrate(context.Background()); err != nil {
		log.LogError(err, "Failed to restore transcript")
		notice = "Previous conversation could not be restored"
	}

	log.Info("Chat client starting", "server_url", cfg.ServerURL, "store", cfg.StorePath)

	p := tea.NewProgram(
		ui.New(session, ui.Options{
			AssistantName: cfg.AssistantName,
			Updates:       updates,
			Notice:        notice,
			PlainText:     cfg.PlainText,
		}),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	if _, err := p.Run(); err != nil {
		log.LogError(err, "Chat client failed")
		fmt.Fprintf(os.Stderr, "Error running chat: %v\n", err)
		os.Exit(1)
	}
}
