package app

import "context"

// Provider encapsulates registration, boot and shutdown of one service.
// Register runs synchronously and must only bind factories into the
// container; Boot and Shutdown may perform I/O such as opening and closing
// connections. Dependencies lists the names of providers whose Boot must
// complete before this provider's Boot begins.
type Provider interface {
	Name() string
	Dependencies() []string
	Register(app *App) error
	Boot(ctx context.Context, app *App) error
	Shutdown(ctx context.Context, app *App) error
}

// BaseProvider supplies no-op defaults for the optional lifecycle methods.
// Embed it and implement Name and Register, overriding Boot, Shutdown or
// Dependencies as needed.
type BaseProvider struct{}

func (BaseProvider) Dependencies() []string {
	return nil
}

func (BaseProvider) Boot(ctx context.Context, app *App) error {
	return nil
}

func (BaseProvider) Shutdown(ctx context.Context, app *App) error {
	return nil
}
