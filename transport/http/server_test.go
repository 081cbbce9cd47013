package http

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabonline/boot/app"
	"github.com/kochabonline/boot/config"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestServeAndShutdown(t *testing.T) {
	r := newTestEngine()
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewServer(listener.Addr().String(), r)
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(listener)
	}()

	resp, err := http.Get(fmt.Sprintf("http://%s/ping", listener.Addr()))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	require.NoError(t, s.Shutdown(context.Background()))
	assert.ErrorIs(t, <-done, http.ErrServerClosed)
}

func TestHealthAddon(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewServer(listener.Addr().String(), newTestEngine(),
		WithHealthOptions(HealthOption{Enabled: true}),
	)
	go s.Serve(listener)
	defer s.Shutdown(context.Background())

	resp, err := http.Get(fmt.Sprintf("http://%s/health", listener.Addr()))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsAddon(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewServer(listener.Addr().String(), newTestEngine(),
		WithMetricsOptions(MetricsOption{Enabled: true, EnabledGoCollector: true}),
	)
	go s.Serve(listener)
	defer s.Shutdown(context.Background())

	resp, err := http.Get(fmt.Sprintf("http://%s/metrics", listener.Addr()))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProviderLifecycle(t *testing.T) {
	provider := NewProvider(WithConfig(&ProviderConfig{
		Addr:   "127.0.0.1:0",
		Health: HealthOption{Enabled: true, Path: "/health"},
	}))
	assert.Equal(t, "http", provider.Name())
	assert.Empty(t, provider.Dependencies())

	a := app.New(app.WithProviders(provider))
	require.NoError(t, a.Start(context.Background()))

	resolved, err := a.Container().Resolve(ProviderName)
	require.NoError(t, err)
	assert.IsType(t, &Server{}, resolved)

	// port 0 resolved to an ephemeral port at bind time
	addr := provider.ListenAddr()
	require.NotNil(t, addr)
	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/health", addr))
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, a.Shutdown(context.Background()))
}

func TestProviderDependsOnConfigService(t *testing.T) {
	provider := NewProvider()
	assert.Equal(t, []string{config.ProviderName}, provider.Dependencies())
}

func TestProviderBootFailsOnBadAddress(t *testing.T) {
	provider := NewProvider(WithConfig(&ProviderConfig{Addr: "256.256.256.256:1"}))

	a := app.New(app.WithProviders(provider))
	assert.Error(t, a.Start(context.Background()))
}
