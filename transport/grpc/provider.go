package grpc

import (
	"context"
	"net"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/kochabonline/boot/app"
	"github.com/kochabonline/boot/config"
	"github.com/kochabonline/boot/container"
)

// ProviderName is the container key and provider name for the grpc server.
const ProviderName = "grpc"

// ProviderConfig is the "grpc" section of the application configuration.
type ProviderConfig struct {
	Addr string `json:"addr" mapstructure:"addr" default:":50051"`
}

// Provider runs a grpc server as part of the application lifecycle. Services
// are attached through RegisterService callbacks before boot.
type Provider struct {
	app.BaseProvider

	config    *ProviderConfig
	server    *Server
	listener  net.Listener
	group     errgroup.Group
	registers []func(*grpc.Server)
}

type ProviderOption func(*Provider)

// WithConfig bypasses the config service and uses the given settings.
func WithConfig(c *ProviderConfig) ProviderOption {
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

// RegisterService queues a service registration to run once the server is
// constructed. Must be called before Start.
func (p *Provider) RegisterService(register func(*grpc.Server)) {
	p.registers = append(p.registers, register)
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

	listener, err := net.Listen("tcp", p.server.Addr())
	if err != nil {
		return err
	}
	p.listener = listener

	p.group.Go(func() error {
		if err := p.server.Serve(listener); err != nil && err != grpc.ErrServerStopped {
			return err
		}
		return nil
	})

	return nil
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

// ListenAddr returns the bound address, or nil before Boot.
func (p *Provider) ListenAddr() net.Addr {
	if p.listener == nil {
		return nil
	}
	return p.listener.Addr()
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

	p.server = NewServer(p.config.Addr)
	for _, register := range p.registers {
		register(p.server.Registrar())
	}

	return nil
}
