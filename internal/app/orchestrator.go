package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/quantmind-br/repolens/internal/backend/github"
	"github.com/quantmind-br/repolens/internal/backend/local"
	"github.com/quantmind-br/repolens/internal/clone"
	"github.com/quantmind-br/repolens/internal/config"
	"github.com/quantmind-br/repolens/internal/domain"
	"github.com/quantmind-br/repolens/internal/plugins"
	"github.com/quantmind-br/repolens/internal/report"
	"github.com/quantmind-br/repolens/internal/utils"
)

// Progress is reported before each plugin runs
type Progress struct {
	// Percentage is i*100/n for plugin i of n; it never reaches 100
	Percentage int
}

// ProgressFunc receives progress synchronously from the examining goroutine
type ProgressFunc func(Progress)

// Request describes a single examination run
type Request struct {
	Repository string
	Reference  string
	// Plugins is the whitelist; empty selects every plugin
	Plugins  []string
	Progress ProgressFunc
}

// Options are the caller-facing options of Local and Remote
type Options struct {
	Reference string
	Plugins   []string
	Progress  ProgressFunc
}

// Orchestrator runs plugins against backends and merges their results
type Orchestrator struct {
	config        *config.Config
	plugins       []plugins.Plugin
	cloner        *clone.Manager
	localFactory  domain.BackendFactory
	remoteFactory domain.BackendFactory
	logger        *utils.Logger
}

// OrchestratorOptions contains options for creating an orchestrator.
// Zero values select the built-in collaborators.
type OrchestratorOptions struct {
	Config        *config.Config
	Verbose       bool
	Plugins       []plugins.Plugin
	Cloner        *clone.Manager
	LocalFactory  domain.BackendFactory
	RemoteFactory domain.BackendFactory
	Logger        *utils.Logger
}

// NewOrchestrator creates a new orchestrator with the given configuration
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			Verbose: opts.Verbose,
		})
	}

	registered := opts.Plugins
	if registered == nil {
		registered = plugins.Builtin()
	}

	cloner := opts.Cloner
	if cloner == nil {
		cloner = clone.NewManager(clone.ManagerOptions{
			TempDir: cfg.Clone.TempDir,
			Logger:  logger,
		})
	}

	localFactory := opts.LocalFactory
	if localFactory == nil {
		localFactory = local.Factory(nil)
	}

	remoteFactory := opts.RemoteFactory
	if remoteFactory == nil {
		var err error
		remoteFactory, err = github.NewFactory(github.Options{
			Client: github.ClientOptions{
				Token:     os.Getenv(config.TokenEnv),
				BaseURL:   cfg.GitHub.BaseURL,
				UploadURL: cfg.GitHub.UploadURL,
				Timeout:   cfg.GitHub.Timeout,
			},
			Retry: github.RetrierOptions{
				MaxRetries: cfg.GitHub.MaxRetries,
			},
			Logger: logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create hosted backend: %w", err)
		}
	}

	return &Orchestrator{
		config:        cfg,
		plugins:       registered,
		cloner:        cloner,
		localFactory:  localFactory,
		remoteFactory: remoteFactory,
		logger:        logger,
	}, nil
}

// Plugins returns the registered plugins in canonical order
func (o *Orchestrator) Plugins() []plugins.Plugin {
	return append([]plugins.Plugin(nil), o.plugins...)
}

// Run executes the selected plugins one after the other, each against a
// fresh backend from factory, and deep-merges their partial results.
//
// The first failing Init or Extract aborts the run: no later plugin runs
// and no partial report is returned. The error is a *domain.PluginError
// wrapping the original failure.
func (o *Orchestrator) Run(ctx context.Context, req Request, factory domain.BackendFactory) (report.Report, error) {
	startTime := time.Now()
	logger := o.logger.WithRun(req.Repository, uuid.NewString())

	selected := plugins.Select(o.plugins, req.Plugins)
	for _, name := range plugins.Unknown(o.plugins, req.Plugins) {
		logger.Debug().Str("plugin", name).Msg("Ignoring unknown plugin")
	}

	logger.Info().
		Str("reference", req.Reference).
		Int("plugins", len(selected)).
		Msg("Starting examination")

	acc := report.New()
	n := len(selected)
	for i, p := range selected {
		if req.Progress != nil {
			req.Progress(Progress{Percentage: i * 100 / n})
		}

		pluginLogger := logger.WithPlugin(p.Name)
		pluginLogger.Debug().Int("index", i).Msg("Running plugin")

		backend := factory(req.Repository, req.Reference)
		if err := backend.Init(ctx); err != nil {
			pluginLogger.Debug().Err(err).Msg("Backend initialization failed")
			return nil, &domain.PluginError{Plugin: p.Name, Index: i, Stage: domain.StageInit, Err: err}
		}

		partial, err := p.Extract(ctx, backend)
		if err != nil {
			pluginLogger.Debug().Err(err).Msg("Plugin failed")
			return nil, &domain.PluginError{Plugin: p.Name, Index: i, Stage: domain.StageExtract, Err: err}
		}

		report.Merge(acc, partial)
		pluginLogger.Debug().Int("fields", len(partial)).Msg("Plugin completed")
	}

	logger.Info().
		Dur("duration", time.Since(startTime)).
		Int("fields", len(acc)).
		Msg("Examination completed")

	return acc, nil
}

// Local examines the repository at path through an isolated clone, which
// is removed before Local returns whatever the outcome
func (o *Orchestrator) Local(ctx context.Context, path string, opts Options) (report.Report, error) {
	c, err := o.cloner.Prepare(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := c.Close(); err != nil {
			o.logger.Warn().Err(err).Str("path", c.Path()).Msg("Failed to remove clone")
		}
	}()

	return o.Run(ctx, o.request(c.Path(), opts), o.localFactory)
}

// Remote examines a hosted repository through its API
func (o *Orchestrator) Remote(ctx context.Context, url string, opts Options) (report.Report, error) {
	return o.Run(ctx, o.request(url, opts), o.remoteFactory)
}

// Cleanup removes clones still alive, for use from a signal handler
func (o *Orchestrator) Cleanup() error {
	return o.cloner.Cleanup()
}

func (o *Orchestrator) request(repository string, opts Options) Request {
	whitelist := opts.Plugins
	if len(whitelist) == 0 {
		whitelist = o.config.Plugins
	}
	return Request{
		Repository: repository,
		Reference:  opts.Reference,
		Plugins:    whitelist,
		Progress:   opts.Progress,
	}
}
