package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/rs/xid"

	"github.com/kochabonline/boot/container"
	"github.com/kochabonline/boot/errors"
	"github.com/kochabonline/boot/event"
	"github.com/kochabonline/boot/log"
)

// Lifecycle events published on the application's emitter. All four are
// payload-less.
const (
	EventStarting   = "starting"
	EventBooted     = "booted"
	EventShutdown   = "shutdown"
	EventTerminated = "terminated"
)

const DefaultShutdownTimeout = 30 * time.Second

// DefaultSignals are the termination signals that trigger graceful shutdown.
var DefaultSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

var (
	ErrAlreadyBooted = errors.Conflict("application already booted")
)

// BootedCallback runs after every provider has booted.
type BootedCallback func(ctx context.Context) error

// App composes the service container, the provider collection and the
// lifecycle event emitter. It boots providers in topological order, rolls
// back on boot failure and tears providers down in reverse boot-completion
// order under a hard deadline.
//
// A single logical caller is expected to drive Start and Shutdown;
// concurrent invocation from multiple callers is unsupported.
type App struct {
	id        string
	container *container.Container
	emitter   *event.Emitter
	log       *log.Logger

	mu           sync.RWMutex
	providers    []Provider
	booted       []Provider
	bootedFlag   bool
	shuttingDown bool
	onBooted     []BootedCallback
	sigCh        chan os.Signal

	shutdownTimeout time.Duration
	signals         []os.Signal
	exit            func(code int)
}

// New creates an application with its own container and emitter. Options
// may swap either, set the logger, the shutdown timeout or the signal set.
func New(options ...Option) *App {
	app := &App{
		id:              xid.New().String(),
		container:       container.New(),
		emitter:         event.NewEmitter(),
		log:             log.DefaultLogger,
		shutdownTimeout: DefaultShutdownTimeout,
		signals:         make([]os.Signal, len(DefaultSignals)),
		exit:            os.Exit,
	}

	copy(app.signals, DefaultSignals)

	for _, opt := range options {
		opt.apply(app)
	}

	return app
}

// Container returns the application's service container.
func (app *App) Container() *container.Container {
	return app.container
}

// Emitter returns the application's lifecycle event emitter.
func (app *App) Emitter() *event.Emitter {
	return app.emitter
}

// Logger returns the application logger.
func (app *App) Logger() *log.Logger {
	return app.log
}

// ID returns the application instance id, unique per process.
func (app *App) ID() string {
	return app.id
}

// Use adds a provider. Valid only before the application has booted.
func (app *App) Use(p Provider) error {
	if p == nil {
		return errors.BadRequest("provider cannot be nil")
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	if app.bootedFlag {
		return ErrAlreadyBooted
	}

	app.providers = append(app.providers, p)
	return nil
}

// IsBooted reports whether every provider completed boot.
func (app *App) IsBooted() bool {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.bootedFlag
}

// IsShuttingDown reports whether a shutdown sweep is in progress.
func (app *App) IsShuttingDown() bool {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.shuttingDown
}

// OnBooted invokes cb immediately when the application is already booted,
// otherwise queues it to run after the boot phase, in registration order.
func (app *App) OnBooted(ctx context.Context, cb BootedCallback) error {
	if cb == nil {
		return errors.BadRequest("callback cannot be nil")
	}

	app.mu.Lock()
	if app.bootedFlag {
		app.mu.Unlock()
		return cb(ctx)
	}
	app.onBooted = append(app.onBooted, cb)
	app.mu.Unlock()
	return nil
}

// Start sorts the providers topologically, runs the register phase in
// sorted order, then the boot phase in sorted order with each provider
// awaited before the next begins. A boot failure rolls back every already
// booted provider in reverse completion order and returns the original
// error, leaving the application un-booted. On success the application is
// marked booted, OnBooted callbacks run in registration order, signal
// handlers are installed and the "booted" event is published.
func (app *App) Start(ctx context.Context) error {
	if err := app.emitter.Emit(ctx, EventStarting, nil); err != nil {
		return err
	}

	app.mu.RLock()
	providers := slices.Clone(app.providers)
	app.mu.RUnlock()

	sorted, err := sortProviders(providers)
	if err != nil {
		return err
	}

	for _, p := range sorted {
		if err := p.Register(app); err != nil {
			return err
		}
		app.log.Debug().Str("app", app.id).Str("provider", p.Name()).Msg("provider registered")
	}

	for _, p := range sorted {
		if err := app.bootProvider(ctx, p); err != nil {
			app.log.Error().Err(err).Str("app", app.id).Str("provider", p.Name()).Msg("provider boot failed, rolling back")
			app.rollback(ctx)
			return err
		}

		app.mu.Lock()
		app.booted = append(app.booted, p)
		app.mu.Unlock()

		app.log.Info().Str("app", app.id).Str("provider", p.Name()).Msg("provider booted")
	}

	app.mu.Lock()
	app.bootedFlag = true
	callbacks := slices.Clone(app.onBooted)
	app.onBooted = nil
	app.mu.Unlock()

	for _, cb := range callbacks {
		if err := cb(ctx); err != nil {
			return err
		}
	}

	app.watchSignals()

	app.log.Info().Str("app", app.id).Int("providers", len(sorted)).Msg("application booted")

	return app.emitter.Emit(ctx, EventBooted, nil)
}

// bootProvider awaits one provider's Boot, converting a panic into an error
// so the rollback path still runs.
func (app *App) bootProvider(ctx context.Context, p Provider) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider %s boot panic: %v", p.Name(), r)
		}
	}()

	return p.Boot(ctx, app)
}

// rollback shuts down every provider that completed boot, in reverse of the
// completion order, then clears the booted list.
func (app *App) rollback(ctx context.Context) {
	app.mu.Lock()
	booted := slices.Clone(app.booted)
	app.booted = nil
	app.mu.Unlock()

	for i := len(booted) - 1; i >= 0; i-- {
		app.shutdownProvider(ctx, booted[i])
	}
}

// Shutdown tears down every booted provider in exact reverse of the
// realized boot-completion order. It is idempotent: a call while a sweep is
// already in progress is a no-op. A deadline timer guards the sweep; when
// it fires first, the process is terminated with a failure exit status.
func (app *App) Shutdown(ctx context.Context) error {
	app.mu.Lock()
	if app.shuttingDown {
		app.mu.Unlock()
		return nil
	}
	app.shuttingDown = true
	booted := slices.Clone(app.booted)
	app.mu.Unlock()

	if err := app.emitter.Emit(ctx, EventShutdown, nil); err != nil {
		app.log.Error().Err(err).Str("app", app.id).Msg("shutdown event listener failed")
	}

	deadline := time.AfterFunc(app.shutdownTimeout, func() {
		app.log.Error().Str("app", app.id).Dur("timeout", app.shutdownTimeout).Msg("shutdown deadline exceeded, terminating")
		app.exit(1)
	})

	for i := len(booted) - 1; i >= 0; i-- {
		app.shutdownProvider(ctx, booted[i])
	}

	deadline.Stop()

	app.mu.Lock()
	if app.sigCh != nil {
		signal.Stop(app.sigCh)
		close(app.sigCh)
		app.sigCh = nil
	}
	app.booted = nil
	app.bootedFlag = false
	app.shuttingDown = false
	app.mu.Unlock()

	return app.emitter.Emit(ctx, EventTerminated, nil)
}

// shutdownProvider awaits one provider's Shutdown. Errors and panics are
// logged and swallowed so the remaining providers still get their call.
func (app *App) shutdownProvider(ctx context.Context, p Provider) {
	defer func() {
		if r := recover(); r != nil {
			app.log.Error().Any("panic", r).Str("app", app.id).Str("provider", p.Name()).Msg("provider shutdown panic")
		}
	}()

	if err := p.Shutdown(ctx, app); err != nil {
		app.log.Error().Err(err).Str("app", app.id).Str("provider", p.Name()).Msg("provider shutdown failed")
		return
	}

	app.log.Info().Str("app", app.id).Str("provider", p.Name()).Msg("provider shut down")
}

// watchSignals installs the termination signal handlers. Receipt triggers a
// full shutdown followed by process exit.
func (app *App) watchSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, app.signals...)

	app.mu.Lock()
	app.sigCh = sigCh
	app.mu.Unlock()

	go func() {
		sig, ok := <-sigCh
		if !ok {
			return
		}

		app.log.Info().Str("app", app.id).Str("signal", sig.String()).Msg("received termination signal")

		if err := app.Shutdown(context.Background()); err != nil {
			app.log.Error().Err(err).Str("app", app.id).Msg("shutdown after signal failed")
		}
		app.exit(0)
	}()
}

// Run starts the application and blocks until ctx is cancelled, then shuts
// it down. Signal-triggered shutdown remains active while blocked.
func (app *App) Run(ctx context.Context) error {
	if err := app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	return app.Shutdown(context.Background())
}

// Info reports current application state.
func (app *App) Info() Info {
	app.mu.RLock()
	defer app.mu.RUnlock()

	return Info{
		ID:            app.id,
		Booted:        app.bootedFlag,
		ShuttingDown:  app.shuttingDown,
		ProviderCount: len(app.providers),
		BootedCount:   len(app.booted),
	}
}

// Info provides application state information.
type Info struct {
	ID            string `json:"id"`
	Booted        bool   `json:"booted"`
	ShuttingDown  bool   `json:"shutting_down"`
	ProviderCount int    `json:"provider_count"`
	BootedCount   int    `json:"booted_count"`
}
