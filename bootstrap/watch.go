package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/artpar/judegen/config"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// schemaWatch tracks the documents of the last sessions and the directories
// watched for them.
type schemaWatch struct {
	app     *App
	fs      *fsnotify.Watcher
	roots   []string
	dirs    map[string]bool
	sources map[string]bool
}

// Watch compiles roots once, then recompiles all of them whenever one of
// their documents or the config file changes. Sessions run one at a time on
// the calling goroutine; bursts of events are debounced and sessions are
// spaced at least watch.min_interval apart. Watch returns when ctx is done.
func (a *App) Watch(ctx context.Context, roots []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	reload := make(chan struct{}, 1)
	a.Config.OnChange(func(*config.Config) {
		select {
		case reload <- struct{}{}:
		default:
		}
	})
	if err := a.Config.WatchFile(); err != nil {
		a.Logger.Debug().Err(err).Msg("config file not watched")
	}

	cfg := a.Config.Get().Watch
	limiter := rate.NewLimiter(rate.Every(cfg.MinInterval), 1)

	w := &schemaWatch{
		app:     a,
		fs:      watcher,
		roots:   roots,
		dirs:    make(map[string]bool),
		sources: make(map[string]bool),
	}
	limiter.Allow()
	w.compileAll(ctx)

	debounce := time.NewTimer(cfg.Debounce)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			a.Logger.Debug().
				Str("event", event.Op.String()).
				Str("file", event.Name).
				Msg("schema changed")
			debounce.Reset(cfg.Debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.Logger.Error().Err(err).Msg("file watcher error")

		case <-reload:
			debounce.Reset(cfg.Debounce)

		case <-debounce.C:
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			w.compileAll(ctx)
		}
	}
}

func (w *schemaWatch) compileAll(ctx context.Context) {
	for _, root := range w.roots {
		w.track(root)

		res, err := w.app.Compile(ctx, root)
		for _, src := range res.Sources {
			w.track(src)
		}
		if err != nil {
			w.app.Logger.Error().Err(err).Str("session", res.Session).Str("root", root).Msg("compile failed")
		}
	}
}

func (w *schemaWatch) track(path string) {
	path = filepath.Clean(path)
	w.sources[path] = true

	dir := filepath.Dir(path)
	if w.dirs[dir] {
		return
	}
	// Watch the directory (more reliable for editors that do atomic saves)
	if err := w.fs.Add(dir); err != nil {
		w.app.Logger.Warn().Err(err).Str("dir", dir).Msg("cannot watch directory")
		return
	}
	w.dirs[dir] = true
}

func (w *schemaWatch) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return w.sources[filepath.Clean(event.Name)]
}
