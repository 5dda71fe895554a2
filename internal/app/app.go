// Package app wires parlance's subsystems into a running process.
//
// New loads the speech model once, resolves the upload root and dictionary
// and builds the [engine.Engine]. Run serves the diagnostic endpoints until
// the context is cancelled, and Close releases the model.
//
// For testing, inject a model with [WithModel] or an engine registry with
// [WithLoaders], and a metrics registry with [WithGatherer]. When no model is
// injected, New loads one from the config and keeps running without it when
// loading fails.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/MrWong99/parlance/internal/config"
	"github.com/MrWong99/parlance/internal/engine"
	"github.com/MrWong99/parlance/internal/health"
	"github.com/MrWong99/parlance/internal/observe"
	"github.com/MrWong99/parlance/internal/pronounce"
	"github.com/MrWong99/parlance/internal/resilience"
	"github.com/MrWong99/parlance/internal/uploads"
	"github.com/MrWong99/parlance/pkg/speech"
	"github.com/MrWong99/parlance/pkg/textcheck"
)

// shutdownTimeout bounds the graceful HTTP shutdown in [App.Run].
const shutdownTimeout = 10 * time.Second

// App owns the model and the diagnostic server.
type App struct {
	cfg      *config.Config
	model    speech.Model
	resolver *uploads.Resolver
	breaker  *resilience.Breaker
	engine   *engine.Engine
	metrics  *observe.Metrics
	gatherer prometheus.Gatherer
	loaders  speech.Loaders

	modelInjected bool
	closeOnce     sync.Once
}

// Option is a functional option for New.
type Option func(*App)

// WithModel injects a loaded model instead of loading one from the config.
// A nil model runs the process without recognition.
func WithModel(m speech.Model) Option {
	return func(a *App) {
		a.model = m
		a.modelInjected = true
	}
}

// WithLoaders replaces the engine registry used to load the configured
// model. Default: the vosk and whisper engines.
func WithLoaders(l speech.Loaders) Option {
	return func(a *App) { a.loaders = l }
}

// WithGatherer sets the Prometheus registry served on /metrics. Default:
// [prometheus.DefaultGatherer].
func WithGatherer(g prometheus.Gatherer) Option {
	return func(a *App) { a.gatherer = g }
}

// WithMetrics overrides the metric instruments. Default:
// [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// New creates an App from cfg. It fails only on a dictionary that cannot be
// read; a missing model or upload directory is logged and tolerated.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	a := &App{cfg: cfg}
	for _, o := range opts {
		o(a)
	}
	if a.metrics == nil {
		a.metrics = observe.DefaultMetrics()
	}
	if a.gatherer == nil {
		a.gatherer = prometheus.DefaultGatherer
	}
	if a.loaders == nil {
		a.loaders = defaultLoaders()
	}

	// ── 1. Speech model ──────────────────────────────────────────────────
	if !a.modelInjected {
		a.model = a.loadModel(ctx)
	}

	// ── 2. Text checkers ─────────────────────────────────────────────────
	dict := textcheck.DefaultDictionary()
	if path := cfg.Text.MisspellingsFile; path != "" {
		var err error
		if dict, err = textcheck.LoadDictionary(path); err != nil {
			a.Close()
			return nil, fmt.Errorf("app: load misspellings: %w", err)
		}
	}
	analyzer := textcheck.NewAnalyzer(textcheck.NewSpellChecker(dict))

	// ── 3. Uploads ───────────────────────────────────────────────────────
	a.resolver = uploads.NewResolver(cfg.Uploads.Dir)
	if err := a.resolver.Check(ctx); err != nil {
		slog.Warn("upload directory not usable; audio references will fall back", "dir", a.resolver.Root(), "err", err)
	}

	// ── 4. Engine ────────────────────────────────────────────────────────
	a.breaker = resilience.New(resilience.Config{
		Name:        "recognizer",
		MaxFailures: cfg.Recognizer.MaxFailures,
		Cooldown:    cfg.Recognizer.Cooldown,
		IsFailure:   pronounce.IsRecognizerFault,
	})
	scorer := pronounce.New(a.model, a.resolver,
		pronounce.WithMetrics(a.metrics),
		pronounce.WithBreaker(a.breaker),
		pronounce.WithTranscribeOptions(
			speech.WithSampleRate(cfg.Speech.SampleRate),
			speech.WithChunkSize(cfg.Speech.ChunkSize),
		),
	)
	a.engine = engine.New(scorer,
		engine.WithMetrics(a.metrics),
		engine.WithTextAnalyzer(analyzer),
	)

	slog.Info("parlance ready",
		"model_loaded", a.engine.ModelLoaded(),
		"engine", cfg.Speech.Engine,
		"uploads", a.resolver.Root(),
		"misspellings", len(dict),
	)
	return a, nil
}

func (a *App) loadModel(ctx context.Context) speech.Model {
	m, err := a.loaders.Load(speech.LoadConfig{
		Engine:    a.cfg.Speech.Engine,
		ModelPath: a.cfg.Speech.ModelPath,
		Language:  a.cfg.Speech.Language,
	})
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, speech.ErrModelNotFound) {
			level = slog.LevelError
		}
		slog.Log(ctx, level, "speech model unavailable; pronunciation will use fallback scores",
			"engine", a.cfg.Speech.Engine, "path", a.cfg.Speech.ModelPath, "err", err)
		return nil
	}
	slog.Info("speech model loaded", "engine", m.Engine(), "path", a.cfg.Speech.ModelPath)
	return m
}

// Engine returns the analysis facade.
func (a *App) Engine() *engine.Engine { return a.engine }

// Handler returns the diagnostic HTTP handler: /healthz, /readyz and
// /metrics, wrapped in the request metrics middleware.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	health.New(
		health.Checker{Name: "uploads", Check: a.resolver.Check},
		health.ModelChecker(a.engine.ModelLoaded),
		health.Checker{Name: "recognizer", Optional: true, Check: a.checkRecognizer},
	).Register(mux)
	mux.Handle("GET /metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))

	return observe.Middleware(a.metrics, observe.WithQuietPaths("/healthz", "/readyz", "/metrics"))(mux)
}

func (a *App) checkRecognizer(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if st := a.breaker.State(); st != resilience.StateClosed {
		return fmt.Errorf("circuit %s after repeated recognition failures", st)
	}
	return nil
}

// Run serves the diagnostic endpoints on cfg.Server.ListenAddr and blocks
// until ctx is cancelled. It returns nil after a clean shutdown.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Server.ListenAddr)
	if err != nil {
		return fmt.Errorf("app: listen %q: %w", a.cfg.Server.ListenAddr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve is like Run but uses an existing listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("diagnostic server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("app: serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("app: shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// Close releases the speech model. It is safe to call more than once.
func (a *App) Close() error {
	var err error
	a.closeOnce.Do(func() {
		if a.model == nil {
			return
		}
		if err = a.model.Close(); err != nil {
			slog.Warn("speech model close error", "err", err)
		}
	})
	return err
}
