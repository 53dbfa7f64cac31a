package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/sitemap-panel/internal/backend"
	"github.com/atomicstack/sitemap-panel/internal/logging/events"
	"github.com/atomicstack/sitemap-panel/internal/openhab"
	"github.com/atomicstack/sitemap-panel/internal/panel"
	"github.com/atomicstack/sitemap-panel/internal/ui"
	"github.com/atomicstack/sitemap-panel/internal/ui/command"
)

// Config describes user-provided application options.
type Config struct {
	Host      string
	Port      int
	Sitemap   string
	Refresh   time.Duration
	Sample    string
	TouchWait time.Duration
	Width     int
	Height    int
	Dump      bool
	// TermWidth and TermHeight hold the terminal size detected at startup.
	TermWidth  int
	TermHeight int
}

// dumpTimeout bounds the single fetch made by -dump.
const dumpTimeout = 10 * time.Second

// newSource picks the sitemap source. Sample files have no item endpoint,
// so commands are only sent when talking to a server.
func newSource(cfg Config) (backend.Source, command.Sender, error) {
	if cfg.Sample != "" {
		return backend.NewFileSource(cfg.Sample, 0), nil, nil
	}
	client, err := openhab.NewClient(openhab.BaseURL(cfg.Host, cfg.Port), cfg.Sitemap)
	if err != nil {
		return nil, nil, fmt.Errorf("create client: %w", err)
	}
	return client, client, nil
}

// Run bootstraps and executes the Bubble Tea program, or prints the page
// outline when Dump is set.
func Run(cfg Config) error {
	source, sender, err := newSource(cfg)
	if err != nil {
		return err
	}
	if cfg.Dump {
		ctx, cancel := context.WithTimeout(context.Background(), dumpTimeout)
		defer cancel()
		return Dump(ctx, os.Stdout, source)
	}

	engine := panel.NewEngine(panel.DefaultLayout(), cfg.TouchWait)
	watcher := backend.NewWatcher(source, backend.Options{Refresh: cfg.Refresh})
	defer watcher.Stop()
	model := ui.NewModel(ui.Options{
		Engine:     engine,
		Watcher:    watcher,
		Bus:        command.New(sender, 0),
		Width:      cfg.Width,
		Height:     cfg.Height,
		TermWidth:  cfg.TermWidth,
		TermHeight: cfg.TermHeight,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		events.App.Stop("killed")
		return nil
	}
	events.App.Stop("quit")
	return err
}
