package config

import (
	"context"

	"github.com/kochabonline/boot/app"
	"github.com/kochabonline/boot/container"
)

// ProviderName is the container key and provider name for the config service.
const ProviderName = "config"

// Provider exposes a Config as an application service. It has no
// dependencies and is usually the first provider to boot.
type Provider struct {
	app.BaseProvider

	config *Config
	watch  bool
}

type ProviderOption func(*Provider)

// WithWatch enables hot reloading of the configuration file after boot.
func WithWatch() ProviderOption {
	return func(p *Provider) {
		p.watch = true
	}
}

func NewProvider(config *Config, opts ...ProviderOption) *Provider {
	p := &Provider{config: config}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Name() string {
	return ProviderName
}

func (p *Provider) Register(a *app.App) error {
	return a.Container().Singleton(ProviderName, func(c *container.Container) (any, error) {
		return p.config, nil
	})
}

func (p *Provider) Boot(ctx context.Context, a *app.App) error {
	if err := p.config.ReadInConfig(); err != nil {
		return err
	}

	if p.watch {
		return p.config.WatchConfig()
	}

	return nil
}
