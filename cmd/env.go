package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/cogniscreen/internal/assessment"
	"github.com/abhisek/cogniscreen/internal/auth"
	"github.com/abhisek/cogniscreen/internal/config"
	"github.com/abhisek/cogniscreen/internal/llm"
	"github.com/abhisek/cogniscreen/internal/logging"
	"github.com/abhisek/cogniscreen/internal/reports"
	"github.com/abhisek/cogniscreen/internal/screen"
	"github.com/abhisek/cogniscreen/internal/store"
)

// environment is everything a command needs: configuration, logger, the
// seeded store and the services built on it.
type environment struct {
	cfg       *config.Config
	logger    *zap.Logger
	store     *store.Store
	catalog   *assessment.Catalog
	directory *auth.Directory
	reports   *reports.Service
	provider  llm.Provider

	closers []func() error
}

// setup builds the environment. console tees log entries to the command's
// stderr; the TUI passes false since it owns the terminal.
func setup(cmd *cobra.Command, console bool) (*environment, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(file)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if path, _ := cmd.Flags().GetString("log-file"); path != "" {
		cfg.Log.File = path
	}

	var w io.Writer
	if console {
		w = cmd.ErrOrStderr()
	}
	logger, closeLog, err := logging.New(cfg.Log, w)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	env := &environment{cfg: cfg, logger: logger, closers: []func() error{closeLog}}

	env.store, err = store.OpenMemory(store.WithLogger(logger))
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	env.closers = append(env.closers, env.store.Close)

	if env.catalog, err = assessment.DefaultCatalog(time.Now()); err != nil {
		env.Close()
		return nil, fmt.Errorf("load definitions: %w", err)
	}
	if env.directory, err = auth.DefaultDirectory(); err != nil {
		env.Close()
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	if pc, ok := cfg.LLM.ProviderConfig(); ok {
		p, err := llm.NewProvider(context.Background(), pc, env.store.Events(), logger)
		if err != nil {
			logger.Warn("LLM provider unavailable, using template narratives", zap.Error(err))
		} else {
			env.provider = p
			logger.Info("LLM provider ready", zap.String("provider", p.Name()), zap.String("model", p.ModelID()))
		}
	}
	env.reports = reports.NewService(env.provider, reports.DefaultConfig(), logger)

	logger.Debug("environment ready", zap.String("config", cfg.File))
	return env, nil
}

// deps returns the screen dependencies for the TUI.
func (e *environment) deps() screen.Deps {
	return screen.Deps{
		Store:     e.store,
		Catalog:   e.catalog,
		Directory: e.directory,
		Reports:   e.reports,
		Deliverer: reports.Deliverer{
			ExportDir: e.cfg.Reports.ExportDir,
			Format:    reports.FormatMarkdown,
			Logger:    e.logger,
		},
		Logger:    e.logger,
		TimeLimit: e.cfg.Assessment.TimeLimit,
		Template:  e.cfg.Reports.DefaultTemplate,
		Clinic:    e.cfg.Clinic.Name,
	}
}

// Close releases the store and flushes the log, last opened first.
func (e *environment) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i]())
	}
	e.closers = nil
	return errors.Join(errs...)
}
