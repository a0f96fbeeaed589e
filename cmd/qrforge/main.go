package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"qrforge/internal/client"
	"qrforge/internal/engine/history"
	"qrforge/internal/engine/session"
	"qrforge/internal/pkg/logger"
	"qrforge/internal/platform/config"
	"qrforge/internal/platform/kv"
	"qrforge/internal/tui"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging)

	store, err := kv.OpenSQLite(cfg.Client.HistoryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open history store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	hist := history.NewStore(store)
	uploader := client.NewUploader(cfg.Client.ServerURL)

	sess := session.New(hist, uploader)
	sess.SetExportTargets(cfg.Client.DownloadsDir, cfg.Client.ShareCommand)

	p := tea.NewProgram(tui.NewModel(sess), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
