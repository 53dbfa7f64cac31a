package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/atomicstack/sitemap-panel/internal/app"
	"github.com/atomicstack/sitemap-panel/internal/config"
	"github.com/atomicstack/sitemap-panel/internal/logging"
	"github.com/atomicstack/sitemap-panel/internal/logging/events"
)

func main() {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	terminal := probeTerminal([]*os.File{os.Stdout, os.Stdin, os.Stderr})
	runtimeCfg.App = applyTerminalSize(runtimeCfg.App, terminal)
	events.App.Start(startupTracePayload(runtimeCfg, terminal))

	if err := app.Run(runtimeCfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// terminalInfo records which standard descriptors are terminals and the
// size of the first one that reported it.
type terminalInfo struct {
	Size        *terminalSize   `json:"size,omitempty"`
	Descriptors []descriptorTTY `json:"descriptors"`
}

type terminalSize struct {
	From string `json:"from"`
	Cols int    `json:"cols"`
	Rows int    `json:"rows"`
}

type descriptorTTY struct {
	Name     string `json:"name"`
	Terminal bool   `json:"terminal"`
	Cols     int    `json:"cols,omitempty"`
	Rows     int    `json:"rows,omitempty"`
	Error    string `json:"error,omitempty"`
}

// probeTerminal checks files in order; the panel draws on stdout, so it is
// listed first and wins when several descriptors know a size.
func probeTerminal(files []*os.File) terminalInfo {
	var info terminalInfo
	for _, f := range files {
		d := descriptorTTY{Name: f.Name()}
		fd := int(f.Fd())
		if fd >= 0 && term.IsTerminal(fd) {
			d.Terminal = true
			cols, rows, err := term.GetSize(fd)
			switch {
			case err != nil:
				d.Error = err.Error()
			case info.Size == nil:
				info.Size = &terminalSize{From: d.Name, Cols: cols, Rows: rows}
				fallthrough
			default:
				d.Cols, d.Rows = cols, rows
			}
		}
		info.Descriptors = append(info.Descriptors, d)
	}
	return info
}

// applyTerminalSize hands the detected size to the panel so its first frame
// is drawn at the real size instead of the built-in default. Explicit
// -width/-height still pin their axis.
func applyTerminalSize(cfg app.Config, info terminalInfo) app.Config {
	if info.Size == nil {
		return cfg
	}
	cfg.TermWidth = info.Size.Cols
	cfg.TermHeight = info.Size.Rows
	return cfg
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config, terminal terminalInfo) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath

	source := cfg.App.Sample
	if source == "" {
		source = fmt.Sprintf("%s:%d/%s", cfg.App.Host, cfg.App.Port, cfg.App.Sitemap)
	}
	payload := map[string]interface{}{
		"argv":       cfg.Args,
		"flags":      flags,
		"config":     cfg,
		"configFile": cfg.File,
		"source":     source,
		"terminal":   terminal,
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	}
	return payload
}
