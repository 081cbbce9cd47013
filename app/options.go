package app

import (
	"os"
	"time"

	"github.com/kochabonline/boot/container"
	"github.com/kochabonline/boot/event"
	"github.com/kochabonline/boot/log"
)

// Option configures an App during construction.
type Option interface {
	apply(*App)
}

type optionFunc func(*App)

func (f optionFunc) apply(app *App) {
	f(app)
}

// WithContainer replaces the default service container.
func WithContainer(c *container.Container) Option {
	return optionFunc(func(app *App) {
		if c != nil {
			app.container = c
		}
	})
}

// WithEmitter replaces the default lifecycle event emitter.
func WithEmitter(e *event.Emitter) Option {
	return optionFunc(func(app *App) {
		if e != nil {
			app.emitter = e
		}
	})
}

// WithLogger sets the application logger.
func WithLogger(logger *log.Logger) Option {
	return optionFunc(func(app *App) {
		if logger != nil {
			app.log = logger
		}
	})
}

// WithShutdownTimeout sets the hard deadline for the shutdown sweep.
func WithShutdownTimeout(timeout time.Duration) Option {
	return optionFunc(func(app *App) {
		if timeout > 0 {
			app.shutdownTimeout = timeout
		}
	})
}

// WithSignals sets the termination signals that trigger shutdown.
func WithSignals(signals ...os.Signal) Option {
	return optionFunc(func(app *App) {
		if len(signals) > 0 {
			app.signals = make([]os.Signal, len(signals))
			copy(app.signals, signals)
		}
	})
}

// WithProviders adds providers at construction time, equivalent to calling
// Use for each.
func WithProviders(providers ...Provider) Option {
	return optionFunc(func(app *App) {
		for _, p := range providers {
			if p != nil {
				app.providers = append(app.providers, p)
			}
		}
	})
}
