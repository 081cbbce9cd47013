package mysql

import (
	"context"

	"github.com/kochabonline/boot/app"
	"github.com/kochabonline/boot/config"
	"github.com/kochabonline/boot/container"
)

// ProviderName is the container key and provider name for the mysql handle.
const ProviderName = "mysql"

// Provider wires a gorm-backed mysql handle into the application. Settings
// come from the "mysql" section of the config service unless an explicit
// Config is supplied.
type Provider struct {
	app.BaseProvider

	config *Config
	db     *Mysql
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
		if err := p.ensureHandle(c); err != nil {
			return nil, err
		}
		return p.db, nil
	})
}

func (p *Provider) Boot(ctx context.Context, a *app.App) error {
	if err := p.ensureHandle(a.Container()); err != nil {
		return err
	}
	return p.db.Ping(ctx)
}

func (p *Provider) Shutdown(ctx context.Context, a *app.App) error {
	if p.db == nil {
		return nil
	}
	return p.db.Close()
}

func (p *Provider) ensureHandle(c *container.Container) error {
	if p.db != nil {
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

	db, err := New(p.config)
	if err != nil {
		return err
	}
	p.db = db
	return nil
}
