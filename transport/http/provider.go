package http

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/kochabonline/boot/app"
	"github.com/kochabonline/boot/config"
	"github.com/kochabonline/boot/container"
	"github.com/kochabonline/boot/transport/http/middleware"
)

// ProviderName is the container key and provider name for the http server.
const ProviderName = "http"

// ProviderConfig is the "http" section of the application configuration.
type ProviderConfig struct {
	Addr    string        `json:"addr" mapstructure:"addr" default:":8080"`
	Metrics MetricsOption `json:"metrics" mapstructure:"metrics"`
	Health  HealthOption  `json:"health" mapstructure:"health"`
}

// Provider runs an http server as part of the application lifecycle. Boot
// binds the listener and serves in the background; Shutdown drains in-flight
// requests.
type Provider struct {
	app.BaseProvider

	config   *ProviderConfig
	handler  http.Handler
	server   *Server
	listener net.Listener
	group    errgroup.Group
}

type ProviderOption func(*Provider)

// WithConfig bypasses the config service and uses the given settings.
func WithConfig(c *ProviderConfig) ProviderOption {
	return func(p *Provider) {
		p.config = c
	}
}

// WithHandler sets the handler the server dispatches to. Without it the
// provider serves a gin engine with logging and recovery middleware.
func WithHandler(handler http.Handler) ProviderOption {
	return func(p *Provider) {
		p.handler = handler
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
		if err := p.ensureServer(c); err != nil {
			return nil, err
		}
		return p.server, nil
	})
}

func (p *Provider) Boot(ctx context.Context, a *app.App) error {
	if err := p.ensureServer(a.Container()); err != nil {
		return err
	}

	// Bind here so a bad address fails the boot instead of a background
	// goroutine.
	listener, err := net.Listen("tcp", p.server.Addr())
	if err != nil {
		return err
	}
	p.listener = listener

	p.group.Go(func() error {
		if err := p.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	return nil
}

// ListenAddr returns the bound address, or nil before Boot. Useful when the
// configured address requests an ephemeral port.
func (p *Provider) ListenAddr() net.Addr {
	if p.listener == nil {
		return nil
	}
	return p.listener.Addr()
}

func (p *Provider) Shutdown(ctx context.Context, a *app.App) error {
	if p.server == nil {
		return nil
	}

	if err := p.server.Shutdown(ctx); err != nil {
		return err
	}

	return p.group.Wait()
}

func (p *Provider) ensureServer(c *container.Container) error {
	if p.server != nil {
		return nil
	}

	if p.config == nil {
		resolved, err := c.Resolve(config.ProviderName)
		if err != nil {
			return err
		}
		cfg := &ProviderConfig{}
		if err := resolved.(*config.Config).UnmarshalKey(ProviderName, cfg); err != nil {
			return err
		}
		p.config = cfg
	}
	if p.config.Addr == "" {
		p.config.Addr = defaultAddr
	}

	if p.handler == nil {
		gin.SetMode(gin.ReleaseMode)
		r := gin.New()
		r.Use(middleware.GinLogger(), middleware.GinRecovery())
		p.handler = r
	}

	p.server = NewServer(p.config.Addr, p.handler,
		WithMetricsOptions(p.config.Metrics),
		WithHealthOptions(p.config.Health),
	)

	return nil
}
