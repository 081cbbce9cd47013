package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/kochabonline/boot/log"
	"github.com/kochabonline/boot/transport"
)

var _ transport.Server = (*Server)(nil)

const (
	defaultAddr = ":50051"
)

type Server struct {
	addr   string
	server *grpc.Server
	log    *log.Logger
}

type Option func(*Server)

func WithLogger(log *log.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

func WithServerOptions(opts ...grpc.ServerOption) Option {
	return func(s *Server) {
		s.server = grpc.NewServer(opts...)
	}
}

func NewServer(addr string, opts ...Option) *Server {
	s := &Server{
		addr:   addr,
		server: grpc.NewServer(),
		log:    log.DefaultLogger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Registrar exposes the underlying server for service registration. Services
// must be registered before Run or Serve.
func (s *Server) Registrar() *grpc.Server {
	return s.server
}

func (s *Server) Addr() string {
	return s.addr
}

func (s *Server) Run() error {
	if s.server == nil {
		return grpc.ErrServerStopped
	}

	if ok := transport.ValidateAddress(s.addr); !ok {
		s.log.Warn().Msgf("invalid address %s, using default address: %s", s.addr, defaultAddr)
		s.addr = defaultAddr
	}

	listen, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	return s.Serve(listen)
}

// Serve accepts connections on an already bound listener.
func (s *Server) Serve(listener net.Listener) error {
	if s.server == nil {
		return grpc.ErrServerStopped
	}

	s.log.Info().Msgf("grpc server listening on %s", listener.Addr())

	return s.server.Serve(listener)
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return grpc.ErrServerStopped
	}

	// GracefulStop blocks until in-flight rpcs finish; honor the caller's
	// deadline by falling back to a hard stop.
	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.server.Stop()
		return ctx.Err()
	}
}
