package config

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/philipp01105/logproxy/logger"
)

const (
	// flushTimeout bounds how long a reload waits for queued messages to
	// reach the old sink before closing it.
	flushTimeout = 5 * time.Second
	// DefaultDebounce is the quiet period after the last file event before
	// the file is read again.
	DefaultDebounce = 100 * time.Millisecond
)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets the logger for the watcher's own diagnostics
// (default: zap.NewNop()).
func WithLogger(l *zap.Logger) WatcherOption {
	return func(w *Watcher) {
		w.log = l
	}
}

// WithOnReload registers a callback invoked after every reload attempt with
// the loaded config and the error, if any. Skipped empty reads are not
// reported.
func WithOnReload(fn func(Config, error)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// WithParser replaces Parse for turning the file's contents into a Config,
// e.g. to apply environment or command-line overrides on every reload.
func WithParser(parse func([]byte) (Config, error)) WatcherOption {
	return func(w *Watcher) {
		w.parse = parse
	}
}

// WithDebounce sets the quiet period between the last file event and the
// reload (default: DefaultDebounce). Zero reloads on every event.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// Watcher applies a config file to a Dispatcher and re-applies it whenever
// the file is written or recreated. An invalid file is logged and leaves
// the dispatcher as it was. So does an empty file seen after an event,
// which is what an in-place rewrite looks like between truncate and write.
type Watcher struct {
	path     string
	d        *logger.Dispatcher
	log      *zap.Logger
	onReload func(Config, error)
	parse    func([]byte) (Config, error)
	debounce time.Duration

	mu      sync.Mutex
	closer  io.Closer
	cancel  context.CancelFunc
	started bool
	done    chan struct{}
}

// NewWatcher creates a watcher for path. Nothing happens until Start.
func NewWatcher(path string, d *logger.Dispatcher, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:     path,
		d:        d,
		log:      zap.NewNop(),
		parse:    Parse,
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start applies the file once and then watches it until ctx is done or
// Close is called. The initial apply must succeed.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.reload(false); err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	// The directory is watched so editors that replace the file by rename
	// keep triggering events.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		_ = fw.Close()
		return fmt.Errorf("failed to watch config dir: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.cancel = cancel
	w.started = true
	w.mu.Unlock()

	go w.watch(ctx, fw)
	return nil
}

// Done is closed when the watch loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Close stops the watch loop, waits for it to exit and then releases the
// sink opened by the last successful reload.
func (w *Watcher) Close() error {
	w.mu.Lock()
	cancel, started := w.cancel, w.started
	w.mu.Unlock()
	if started {
		cancel()
		<-w.done
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closer == nil {
		return nil
	}
	err := w.closer.Close()
	w.closer = nil
	return err
}

func (w *Watcher) watch(ctx context.Context, fw *fsnotify.Watcher) {
	defer close(w.done)
	defer fw.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	target := filepath.Clean(w.path)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if w.debounce <= 0 {
				w.reloadOnEvent(ctx)
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.reloadOnEvent(ctx)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.log.Error("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reloadOnEvent(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := w.reload(true); err != nil {
		w.log.Warn("config reload failed", zap.String("path", w.path), zap.Error(err))
	}
}

// reload reads and applies the file. With skipEmpty an empty file is left
// alone.
func (w *Watcher) reload(skipEmpty bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	raw, err := os.ReadFile(w.path)
	if err != nil {
		err = fmt.Errorf("read config: %w", err)
		if w.onReload != nil {
			w.onReload(Config{}, err)
		}
		return err
	}
	if skipEmpty && len(bytes.TrimSpace(raw)) == 0 {
		w.log.Debug("config file empty, keeping current settings", zap.String("path", w.path))
		return nil
	}

	cfg, err := w.parse(raw)
	if err == nil {
		var closer io.Closer
		closer, err = Apply(w.d, cfg)
		if err == nil {
			w.retire(w.closer)
			w.closer = closer
			w.log.Info("config applied",
				zap.String("path", w.path),
				zap.String("level", w.d.AcceptLevel().String()),
				zap.Bool("async", w.d.Async()),
			)
		}
	}
	if w.onReload != nil {
		w.onReload(cfg, err)
	}
	return err
}

// retire flushes messages still queued for the replaced sink and closes it.
func (w *Watcher) retire(c io.Closer) {
	if c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := w.d.Flush(ctx); err != nil {
		w.log.Warn("flush before sink close", zap.Error(err))
	}
	if err := c.Close(); err != nil {
		w.log.Warn("close replaced sink", zap.Error(err))
	}
}
