// Package main is the entry point for the figkit script runner.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/figkit/figkit/internal/config"
	"github.com/figkit/figkit/internal/host"
	"github.com/figkit/figkit/internal/logging"
	"github.com/figkit/figkit/internal/net"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	configPath string
	listen     string
	connect    string
	logLevel   string
	dataDir    string
	scripts    []string
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	applyOverrides(&cfg, opts)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log := logging.Console(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.IsViewer() {
		return runViewer(ctx, cfg, log)
	}
	return runHost(ctx, cfg, log, opts.configPath)
}

// runHost serves the viewer hub, loads the scripts and drives the tick
// loop until interrupted.
func runHost(ctx context.Context, cfg config.Config, log zerolog.Logger, configPath string) int {
	hub := net.NewHub(logging.Component(log, "hub"))
	defer hub.Close()

	sender := host.SenderFunc(func(name string, args []any) error {
		frame, err := net.EncodePing(name, args)
		if err != nil {
			return err
		}
		hub.Broadcast(frame)
		return nil
	})

	engine := host.NewEngine(
		host.WithLogger(logging.Component(log, "engine")),
		host.WithHostMode(true),
		host.WithSender(sender),
		host.WithDataDir(cfg.DataDir),
		host.WithTickRate(cfg.TickRate),
	)
	defer engine.Close()

	if err := loadScripts(engine, log, cfg.Scripts, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if cfg.Listen != "" {
		srv := &http.Server{Addr: cfg.Listen, Handler: hub}
		go func() {
			log.Info().Str("addr", cfg.Listen).Msg("serving viewer hub")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("viewer hub failed")
			}
		}()
		defer srv.Close()
	}

	// Live reload picks up scripts added to the config while running.
	if configPath != "" {
		loaded := make(map[string]bool, len(cfg.Scripts))
		for _, s := range cfg.Scripts {
			loaded[s] = true
		}
		watcher, err := config.NewWatcher(configPath, logging.Component(log, "config"), func(next config.Config) {
			if err := loadScripts(engine, log, next.Scripts, loaded); err != nil {
				log.Error().Err(err).Msg("script reload failed")
			}
		})
		if err != nil {
			log.Warn().Err(err).Msg("config watch unavailable")
		} else {
			go watcher.Run(ctx)
		}
	}

	log.Info().Str("version", version).Int("tick_rate", cfg.TickRate).Msg("figkit host running")
	if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	log.Info().Msg("shut down")
	return 0
}

// runViewer connects to a host and mirrors its broadcasts into the local
// engine.
func runViewer(ctx context.Context, cfg config.Config, log zerolog.Logger) int {
	engine := host.NewEngine(
		host.WithLogger(logging.Component(log, "engine")),
		host.WithDataDir(cfg.DataDir),
		host.WithTickRate(cfg.TickRate),
	)
	defer engine.Close()

	if err := loadScripts(engine, log, cfg.Scripts, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	client, err := net.Dial(ctx, cfg.Connect, logging.Component(log, "client"), func(name string, args []any) {
		if err := engine.HandlePing(name, args); err != nil {
			log.Warn().Err(err).Str("ping", name).Msg("dropping ping")
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer client.Close()

	clientErr := make(chan error, 1)
	go func() { clientErr <- client.Run(ctx) }()

	log.Info().Str("version", version).Str("host", cfg.Connect).Msg("figkit viewer running")

	loopErr := make(chan error, 1)
	go func() { loopErr <- engine.Run(ctx) }()

	select {
	case err := <-clientErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	case err := <-loopErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	log.Info().Msg("shut down")
	return 0
}

// loadScripts runs each script once. When seen is non-nil, already-loaded
// paths are skipped and newly loaded ones recorded, for live reload.
func loadScripts(engine *host.Engine, log zerolog.Logger, scripts []string, seen map[string]bool) error {
	for _, path := range scripts {
		if seen != nil && seen[path] {
			continue
		}
		if err := engine.LoadScript(path); err != nil {
			return err
		}
		if seen != nil {
			seen[path] = true
		}
		log.Info().Str("script", path).Msg("script loaded")
	}
	return nil
}

func applyOverrides(cfg *config.Config, opts options) {
	if opts.listen != "" {
		cfg.Listen = opts.listen
	}
	if opts.connect != "" {
		cfg.Connect = opts.connect
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
	}
	cfg.Scripts = append(cfg.Scripts, opts.scripts...)
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "figkit.toml", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "figkit.toml", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.listen, "host", "", "Serve the viewer hub on this address (host mode)")
	flag.StringVar(&opts.connect, "connect", "", "Connect to a host at this URL (viewer mode)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flag.StringVar(&opts.dataDir, "data-dir", "", "Directory for persistent script data")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "figkit - avatar script runner\n\n")
		fmt.Fprintf(os.Stderr, "Usage: figkit [options] [scripts...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  figkit avatar.lua                 Run a script standalone\n")
		fmt.Fprintf(os.Stderr, "  figkit -host :8420 avatar.lua     Host with a viewer hub\n")
		fmt.Fprintf(os.Stderr, "  figkit -connect ws://h:8420       Mirror a remote host\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("figkit %s (%s)\n", version, commit)
		os.Exit(0)
	}

	opts.scripts = flag.Args()
	return opts
}
