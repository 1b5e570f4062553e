package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"safeboard/pkg/autosafe"
	"safeboard/pkg/config"
	"safeboard/pkg/export"
	"safeboard/pkg/logging"
	"safeboard/pkg/storage"
	"safeboard/pkg/ui"
	"safeboard/pkg/watcher"
)

const minCols, minRows = 80, 24

func main() {
	configPath := flag.String("config", config.DefaultPath(), "Config file path")
	dataDir := flag.String("data", "", "Data directory (overrides config)")
	year := flag.Int("year", 0, "Safety record year (overrides config)")
	backend := flag.String("backend", "", "Storage backend: file or sqlite (overrides config)")
	exportDir := flag.String("export-dir", "", "Write the trend chart and calendar image to this directory and exit")
	help := flag.Bool("help", false, "Show help")
	version := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *help {
		fmt.Println("Usage: sb [options]")
		fmt.Println("\nA safety dashboard for the terminal.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *version {
		fmt.Println("sb version 0.1.0")
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *year != 0 {
		cfg.Year = *year
	}
	if *backend != "" {
		cfg.Backend = config.Backend(*backend)
		if cfg.Backend != config.BackendFile && cfg.Backend != config.BackendSQLite {
			fmt.Printf("Unknown backend %q\n", *backend)
			os.Exit(1)
		}
	}

	logging.Setup(cfg.DataDir, cfg.LogLevel)

	var (
		kv        storage.KV
		fileStore *storage.FileStore
		closeKV   func() error
	)
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := storage.OpenSQLiteStore(cfg.StorePath())
		if err != nil {
			fmt.Printf("Error opening store: %v\n", err)
			os.Exit(1)
		}
		kv = db
		closeKV = db.Close
	default:
		fs, err := storage.OpenFileStore(cfg.StorePath())
		if err != nil {
			fmt.Printf("Error opening store: %v\n", err)
			os.Exit(1)
		}
		kv = fs
		fileStore = fs
	}

	store := storage.Open(kv, storage.Options{
		Year:       cfg.Year,
		CutoffHour: cfg.CutoffHour,
	})
	store.Load()

	if *exportDir != "" {
		if err := export.Bundle(*exportDir, store.Safety()); err != nil {
			fmt.Printf("Error exporting: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported trend chart and calendar to %s\n", *exportDir)
		store.Close()
		if closeKV != nil {
			closeKV()
		}
		os.Exit(0)
	}

	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && (w < minCols || h < minRows) {
		fmt.Printf("Terminal is %dx%d; the board needs at least %dx%d.\n", w, h, minCols, minRows)
		os.Exit(1)
	}

	m := ui.New(store)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())

	// The daily backfill and the store watcher run off the event loop and
	// reach the model through messages, keeping state mutation single-writer.
	sched := autosafe.New(nil, store.CutoffHour(), func() {
		p.Send(ui.AutoSafeMsg{})
	})
	sched.Start()
	defer sched.Stop()

	if fileStore != nil {
		w, err := watcher.WatchFile(fileStore.Path(), func() {
			if err := fileStore.Reload(); err != nil {
				logrus.WithError(err).Warn("store reload failed")
				return
			}
			p.Send(ui.StoreChangedMsg{})
		})
		if err != nil {
			logrus.WithError(err).Warn("store watch unavailable")
		} else {
			defer w.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running safety board: %v\n", err)
		os.Exit(1)
	}

	store.Flush()
	store.Close()
	if closeKV != nil {
		closeKV()
	}
}
