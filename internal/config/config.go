package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/atomicstack/sitemap-panel/internal/app"
	"github.com/atomicstack/sitemap-panel/internal/panel"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	File    string
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envConfig    = "PANEL_CONFIG"
	envHost      = "PANEL_HOST"
	envPort      = "PANEL_PORT"
	envSitemap   = "PANEL_SITEMAP"
	envRefresh   = "PANEL_REFRESH"
	envSample    = "PANEL_SAMPLE"
	envTouchWait = "PANEL_TOUCH_WAIT"
	envWidth     = "PANEL_WIDTH"
	envHeight    = "PANEL_HEIGHT"
	envTrace     = "PANEL_TRACE"
	envLogFile   = "PANEL_LOG_FILE"
)

const (
	defaultPort    = 8080
	defaultSitemap = "default"
	defaultRefresh = 120 * time.Second
)

// fileConfig mirrors the TOML config file layout.
type fileConfig struct {
	OpenHAB struct {
		Host    string `toml:"host"`
		Port    int    `toml:"port"`
		Sitemap string `toml:"sitemap"`
		Refresh string `toml:"refresh"`
		Sample  string `toml:"sample"`
	} `toml:"openhab"`
	Panel struct {
		TouchWait string `toml:"touch_wait"`
		Width     int    `toml:"width"`
		Height    int    `toml:"height"`
	} `toml:"panel"`
	Logging struct {
		File  string `toml:"file"`
		Trace bool   `toml:"trace"`
	} `toml:"logging"`
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Values resolve
// as defaults < config file < environment < flags.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	path := configPath(args, env)
	var file fileConfig
	if path != "" {
		if _, err := toml.DecodeFile(path, &file); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	fileRefresh, err := parseDuration("openhab.refresh", file.OpenHAB.Refresh, defaultRefresh)
	if err != nil {
		return Config{}, err
	}
	fileWait, err := parseDuration("panel.touch_wait", file.Panel.TouchWait, panel.DefaultWait)
	if err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("sitemap-panel", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.String("config", path, "path to a TOML config file")
	host := fs.String("host", envOrDefault(env, envHost, file.OpenHAB.Host), "openHAB host name or address")
	port := fs.Int("port", envOrInt(env, envPort, orInt(file.OpenHAB.Port, defaultPort)), "openHAB REST port")
	sitemapName := fs.String("sitemap", envOrDefault(env, envSitemap, orString(file.OpenHAB.Sitemap, defaultSitemap)), "sitemap to display")
	refresh := fs.Duration("refresh", envOrDuration(env, envRefresh, fileRefresh), "interval between full sitemap reloads (0 disables)")
	sample := fs.String("sample", envOrDefault(env, envSample, file.OpenHAB.Sample), "serve a sitemap file instead of a server")
	touchWait := fs.Duration("touch-wait", envOrDuration(env, envTouchWait, fileWait), "how long an event waits for the panel before it is dropped")
	width := fs.Int("width", envOrInt(env, envWidth, file.Panel.Width), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, file.Panel.Height), "desired viewport height in rows (0 uses terminal height)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, file.Logging.Trace), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, file.Logging.File), "path to the log file")
	dump := fs.Bool("dump", false, "print the built page tree and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}

	cfg := Config{
		App: app.Config{
			Host:      *host,
			Port:      *port,
			Sitemap:   *sitemapName,
			Refresh:   *refresh,
			Sample:    *sample,
			TouchWait: *touchWait,
			Width:     *width,
			Height:    *height,
			Dump:      *dump,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		File: path,
		Flags: map[string]string{
			"config":    path,
			"host":      *host,
			"port":      strconv.Itoa(*port),
			"sitemap":   *sitemapName,
			"refresh":   refresh.String(),
			"sample":    *sample,
			"touchWait": touchWait.String(),
			"width":     strconv.Itoa(*width),
			"height":    strconv.Itoa(*height),
			"trace":     strconv.FormatBool(*trace),
			"logFile":   *logFile,
			"dump":      strconv.FormatBool(*dump),
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// configPath finds -config before the full parse so the file can seed the
// flag defaults.
func configPath(args []string, env map[string]string) string {
	path := env[envConfig]
	for i := 0; i < len(args); i++ {
		arg := strings.TrimLeft(args[i], "-")
		if args[i] == arg {
			continue
		}
		switch {
		case arg == "config" && i+1 < len(args):
			path = args[i+1]
			i++
		case strings.HasPrefix(arg, "config="):
			path = strings.TrimPrefix(arg, "config=")
		}
	}
	return path
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func parseDuration(key, value string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func orString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func orInt(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures a sitemap source is configured.
func Validate(cfg Config) error {
	if cfg.App.Sample == "" && strings.TrimSpace(cfg.App.Host) == "" {
		return errors.New("either -host or -sample is required")
	}
	if cfg.App.Sample == "" && (cfg.App.Port <= 0 || cfg.App.Port > 65535) {
		return fmt.Errorf("port out of range (got %d)", cfg.App.Port)
	}
	if cfg.App.Refresh < 0 {
		return fmt.Errorf("refresh must be >= 0 (got %s)", cfg.App.Refresh)
	}
	if cfg.App.TouchWait <= 0 {
		return fmt.Errorf("touch-wait must be > 0 (got %s)", cfg.App.TouchWait)
	}
	return nil
}
