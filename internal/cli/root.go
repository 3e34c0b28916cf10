// Package cli holds the cheesefinder commands
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"cheesefinder/internal/config"
	"cheesefinder/internal/engine"
	"cheesefinder/internal/eventbus"
	"cheesefinder/internal/logging"
	"cheesefinder/internal/scheduler"
	"cheesefinder/internal/ui"
)

// e2eEnv makes the screen print a ready marker for the pty tests
const e2eEnv = "CHEESEFINDER_E2E_TEST"

type rootFlags struct {
	configPath string
	catalog    string
	backend    string
	debounce   time.Duration
	latency    time.Duration
	logLevel   string
	logFile    string
	watch      bool
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "cheesefinder",
		Short: "Search a cheese catalog as you type",
		Long: `cheesefinder opens a search screen over a cheese catalog.

Typing searches once you have entered at least two characters and stopped
for a moment; Enter searches right away with whatever is in the field.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			return runScreen(cmd.Context(), cfg)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "config file (default: user config dir)")
	pf.StringVar(&flags.catalog, "catalog", "", "catalog file, one name per line (default: built-in list)")
	pf.StringVar(&flags.backend, "backend", "", "search backend: substring or bleve")
	pf.DurationVar(&flags.debounce, "debounce", 0, "quiet period before a typed query is searched")
	pf.DurationVar(&flags.latency, "latency", 0, "artificial delay added to every search")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&flags.logFile, "log-file", "", "log file path")
	pf.BoolVar(&flags.watch, "watch", false, "reload the catalog file when it changes")

	cmd.AddCommand(newSearchCommand(flags), newConfigCommand(flags))
	return cmd
}

// Execute runs the root command
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func (f *rootFlags) service() config.ConfigService {
	if f.configPath != "" {
		return config.NewConfigServiceAt(f.configPath)
	}
	return config.NewConfigService()
}

// load reads the config file and applies the flags that were set explicitly
func (f *rootFlags) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := f.service().Load()
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("catalog") {
		cfg.Catalog.Path = f.catalog
	}
	if changed("backend") {
		cfg.Search.Backend = f.backend
	}
	if changed("debounce") {
		cfg.Search.DebounceMs = int(f.debounce / time.Millisecond)
	}
	if changed("latency") {
		cfg.Search.LatencyMs = int(f.latency / time.Millisecond)
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("log-file") {
		cfg.Log.File = f.logFile
	}
	if changed("watch") {
		cfg.Catalog.Watch = f.watch
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func engineOptions(cfg *config.Config) engine.Options {
	return engine.Options{
		Backend:   cfg.Search.Backend,
		CacheSize: cfg.Search.CacheSize,
		Latency:   cfg.Search.Latency(),
	}
}

func runScreen(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, cleanup, err := logging.Setup(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := eventbus.New(logger)
	defer bus.Close()

	searcher, err := engine.NewReloadable(cfg.Catalog.Path, engineOptions(cfg), bus, logger)
	if err != nil {
		return err
	}
	if cfg.Catalog.Watch {
		go func() {
			if err := searcher.Watch(ctx); err != nil {
				logger.Error("catalog watch stopped", "error", err)
			}
		}()
	}

	background := scheduler.NewBackground(cfg.Search.MaxConcurrent, logger)
	defer background.Close()

	model := ui.NewModel(ui.Deps{
		Config:     cfg,
		Searcher:   searcher,
		Background: background,
		Bus:        bus,
		Logger:     logger,
		E2E:        os.Getenv(e2eEnv) == "1",
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))
	model.SetProgram(p)

	// Forward events the screen shows to the UI
	forward := func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	}
	bus.Subscribe(eventbus.EventCatalogReloaded, forward)
	bus.Subscribe(eventbus.EventError, forward)
	bus.Subscribe(eventbus.EventSearchCompleted, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.SearchCompletedEvent); ok {
			logger.Debug("search completed", slog.String("query", ev.Query), slog.Int("matches", ev.Matches), slog.Duration("took", ev.Took))
		}
	})

	logger.Info("starting ui", "catalog", searcher.Catalog().Source, "entries", searcher.Catalog().Len())
	_, runErr := p.Run()
	model.Close()

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		logger.Error("ui exited with error", "error", runErr)
		return errors.Wrap(runErr, "running ui")
	}
	logger.Info("ui exited normally")
	return nil
}
