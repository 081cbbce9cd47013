package redis

import (
	"context"

	"github.com/kochabonline/boot/app"
	"github.com/kochabonline/boot/config"
	"github.com/kochabonline/boot/container"
)

// ProviderName is the container key and provider name for the redis client.
const ProviderName = "redis"

// Provider wires a standalone redis client into the application. The client
// configuration is read from the "redis" section of the config service; an
// explicit Config overrides it.
type Provider struct {
	app.BaseProvider

	config *Config
	client *Single
}

type ProviderOption func(*Provider)

// WithConfig bypasses the config service and uses the given settings.
func WithConfig(c *Config) ProviderOption {
	return func(p *Provider) {
		p.config = c
	}
}

func NewProvider(opts ...ProviderOption) *Provider {
	p := &Provider{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Name() string {
	return ProviderName
}

func (p *Provider) Dependencies() []string {
	if p.config != nil {
		return nil
	}
	return []string{config.ProviderName}
}

func (p *Provider) Register(a *app.App) error {
	return a.Container().Singleton(ProviderName, func(c *container.Container) (any, error) {
		if err := p.ensureClient(c); err != nil {
			return nil, err
		}
		return p.client, nil
	})
}

func (p *Provider) Boot(ctx context.Context, a *app.App) error {
	if err := p.ensureClient(a.Container()); err != nil {
		return err
	}
	return p.client.Ping(ctx)
}

func (p *Provider) Shutdown(ctx context.Context, a *app.App) error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

func (p *Provider) ensureClient(c *container.Container) error {
	if p.client != nil {
		return nil
	}

	if p.config == nil {
		resolved, err := c.Resolve(config.ProviderName)
		if err != nil {
			return err
		}
		cfg := &Config{}
		if err := resolved.(*config.Config).UnmarshalKey(ProviderName, cfg); err != nil {
			return err
		}
		p.config = cfg
	}

	client, err := NewClient(p.config)
	if err != nil {
		return err
	}
	p.client = client
	return nil
}
