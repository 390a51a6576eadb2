// Package bootstrap wires all dependencies for the command line.
// Configuration comes from judegen.yaml with JUDEGEN_* overrides.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/artpar/judegen/adapters/clock"
	"github.com/artpar/judegen/adapters/hasher"
	apihttp "github.com/artpar/judegen/adapters/http"
	"github.com/artpar/judegen/adapters/idgen"
	"github.com/artpar/judegen/adapters/metrics"
	"github.com/artpar/judegen/adapters/output"
	"github.com/artpar/judegen/adapters/source"
	"github.com/artpar/judegen/app"
	"github.com/artpar/judegen/config"
	"github.com/artpar/judegen/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// App represents the running application.
type App struct {
	Logger   zerolog.Logger
	Config   *config.Holder
	Metrics  *metrics.Collector // nil unless metrics are enabled
	Compiler *app.CompileService
	Browser  *apihttp.Browser

	HTTPServer *http.Server

	onSession func(app.Result, error)
}

// Options provides optional overrides for application initialization.
type Options struct {
	// ConfigPath is the configuration file. A missing file falls back to
	// defaults and environment variables.
	ConfigPath string

	// LogOutput receives log lines (default: stderr).
	LogOutput io.Writer

	// Registry receives metrics instead of the default Prometheus registry.
	Registry *prometheus.Registry

	// Source and Output replace the filesystem adapters.
	Source ports.DocumentSource
	Output ports.OutputWriter

	// OnSession is called after every session.
	OnSession func(app.Result, error)
}

// New creates and initializes the application.
func New(opts Options) (*App, error) {
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	holder, err := config.NewHolder(opts.ConfigPath, zerolog.Nop())
	if err != nil {
		return nil, err
	}
	cfg := holder.Get()

	logger := SetupLogger(cfg.Logging, opts.LogOutput)
	holder.SetLogger(logger)

	a := &App{
		Logger:    logger,
		Config:    holder,
		Browser:   apihttp.NewBrowser(clock.Real{}),
		onSession: opts.OnSession,
	}

	deps := app.CompileDeps{
		Source: opts.Source,
		Output: opts.Output,
		Clock:  clock.Real{},
		IDGen:  idgen.UUID{},
	}
	if deps.Source == nil {
		deps.Source = source.FS{}
	}
	if deps.Output == nil {
		deps.Output = output.NewFS(hasher.Blake2b{})
	}

	if cfg.Metrics.Enabled {
		if opts.Registry != nil {
			a.Metrics = metrics.NewWithRegistry(opts.Registry)
		} else {
			a.Metrics = metrics.New()
		}
		deps.Metrics = a.Metrics
		logger.Debug().Msg("prometheus metrics enabled")
	}

	a.Compiler = app.NewCompileService(deps, compileConfig(cfg), logger)

	holder.OnChange(func(cfg *config.Config) {
		if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			zerolog.SetGlobalLevel(level)
		}
		a.Compiler.UpdateConfig(compileConfig(cfg))
	})

	return a, nil
}

func compileConfig(cfg *config.Config) app.CompileConfig {
	return app.CompileConfig{
		OutputDir: cfg.Output.Dir,
		Format:    cfg.Output.Format,
		Emit:      cfg.Emit(),
	}
}

// Compile runs one session for root and publishes a successful bundle to
// the browser.
func (a *App) Compile(ctx context.Context, root string) (app.Result, error) {
	res, err := a.Compiler.Compile(ctx, root)
	a.finish(res, err)
	return res, err
}

// Check runs one session for root without writing output.
func (a *App) Check(ctx context.Context, root string) (app.Result, error) {
	res, err := a.Compiler.Check(ctx, root)
	a.finish(res, err)
	return res, err
}

func (a *App) finish(res app.Result, err error) {
	if err == nil {
		a.Browser.Publish(res.Session, res.Bundle)
	}
	if a.Metrics != nil {
		if path := a.Config.Get().Metrics.Textfile; path != "" {
			if werr := a.Metrics.WriteToTextfile(path); werr != nil {
				a.Logger.Warn().Err(werr).Str("path", path).Msg("metrics textfile export failed")
			}
		}
	}
	if a.onSession != nil {
		a.onSession(res, err)
	}
}

// Handler returns the descriptor browser's HTTP handler.
func (a *App) Handler() http.Handler {
	cfg := a.Config.Get()
	rc := apihttp.RouterConfig{Timeout: cfg.Serve.Timeout}
	if a.Metrics != nil {
		rc.MetricsHandler = promhttp.HandlerFor(a.Metrics.Gatherer(), promhttp.HandlerOpts{})
	}
	return apihttp.NewRouter(a.Browser, a.Logger, rc)
}

// Serve compiles roots, then serves the browser and recompiles on changes
// until ctx is cancelled.
func (a *App) Serve(ctx context.Context, roots []string) error {
	cfg := a.Config.Get()
	a.HTTPServer = &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		a.Logger.Info().Str("addr", a.HTTPServer.Addr).Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := a.Watch(watchCtx, roots); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.Shutdown()
		return err
	case <-ctx.Done():
	}
	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
		}
	}
	a.Config.Stop()

	a.Logger.Debug().Msg("shutdown complete")
	return nil
}
