package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	booterrors "github.com/kochabonline/boot/errors"
)

// recorder collects lifecycle calls across providers in invocation order.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) count(event string) int {
	n := 0
	for _, e := range r.snapshot() {
		if e == event {
			n++
		}
	}
	return n
}

type testProvider struct {
	name        string
	deps        []string
	rec         *recorder
	bootErr     error
	shutdownErr error
}

func newTestProvider(name string, deps []string) *testProvider {
	return &testProvider{name: name, deps: deps}
}

func (p *testProvider) withRecorder(rec *recorder) *testProvider {
	p.rec = rec
	return p
}

func (p *testProvider) Name() string {
	return p.name
}

func (p *testProvider) Dependencies() []string {
	return p.deps
}

func (p *testProvider) Register(app *App) error {
	if p.rec != nil {
		p.rec.add("register:" + p.name)
	}
	return nil
}

func (p *testProvider) Boot(ctx context.Context, app *App) error {
	if p.rec != nil {
		p.rec.add("boot:" + p.name)
	}
	return p.bootErr
}

func (p *testProvider) Shutdown(ctx context.Context, app *App) error {
	if p.rec != nil {
		p.rec.add("shutdown:" + p.name)
	}
	return p.shutdownErr
}

func newTestApp(t *testing.T, providers ...Provider) (*App, *recorder) {
	t.Helper()

	rec := &recorder{}
	app := New(WithProviders(providers...))
	app.exit = func(code int) {
		t.Fatalf("unexpected process exit with code %d", code)
	}

	for _, p := range providers {
		if tp, ok := p.(*testProvider); ok {
			tp.rec = rec
		}
	}

	return app, rec
}

func TestStartBootsInTopologicalOrder(t *testing.T) {
	// Added out of order on purpose: auth -> database -> config.
	auth := newTestProvider("auth", []string{"database"})
	database := newTestProvider("database", []string{"config"})
	config := newTestProvider("config", nil)

	app, rec := newTestApp(t, auth, database, config)
	require.NoError(t, app.Start(context.Background()))

	assert.Equal(t, []string{
		"register:config", "register:database", "register:auth",
		"boot:config", "boot:database", "boot:auth",
	}, rec.snapshot())
	assert.True(t, app.IsBooted())
}

func TestStartFailsOnDuplicateNameBeforeAnyBoot(t *testing.T) {
	a := newTestProvider("config", nil)
	b := newTestProvider("config", nil)

	app, rec := newTestApp(t, a, b)
	err := app.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(409), booterrors.FromError(err).GetCode())
	assert.Empty(t, rec.snapshot())
	assert.False(t, app.IsBooted())
}

func TestStartFailsOnCycle(t *testing.T) {
	a := newTestProvider("a", []string{"b"})
	b := newTestProvider("b", []string{"a"})

	app, rec := newTestApp(t, a, b)
	err := app.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(508), booterrors.FromError(err).GetCode())
	assert.Empty(t, rec.snapshot())
}

func TestBootFailureRollsBackInReverseOrder(t *testing.T) {
	config := newTestProvider("config", nil)
	database := newTestProvider("database", []string{"config"})
	auth := newTestProvider("auth", []string{"database"})

	bootErr := errors.New("connection refused")
	database.bootErr = bootErr

	app, rec := newTestApp(t, config, database, auth)
	err := app.Start(context.Background())
	require.ErrorIs(t, err, bootErr)

	events := rec.snapshot()
	assert.Contains(t, events, "boot:config")
	assert.Contains(t, events, "boot:database")
	assert.NotContains(t, events, "boot:auth")
	assert.Equal(t, 1, rec.count("shutdown:config"))
	assert.False(t, app.IsBooted())
	assert.Equal(t, 0, app.Info().BootedCount)
}

func TestBootPanicTriggersRollback(t *testing.T) {
	config := newTestProvider("config", nil)
	app, rec := newTestApp(t, config, &panicProvider{})

	err := app.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boot panic")
	assert.Equal(t, 1, rec.count("shutdown:config"))
}

type panicProvider struct {
	BaseProvider
}

func (*panicProvider) Name() string {
	return "panicky"
}

func (*panicProvider) Dependencies() []string {
	return []string{"config"}
}

func (*panicProvider) Register(app *App) error {
	return nil
}

func (*panicProvider) Boot(ctx context.Context, app *App) error {
	panic("kaboom")
}

func TestShutdownReversesRealizedBootOrder(t *testing.T) {
	config := newTestProvider("config", nil)
	database := newTestProvider("database", []string{"config"})
	auth := newTestProvider("auth", []string{"database"})

	app, rec := newTestApp(t, config, database, auth)
	require.NoError(t, app.Start(context.Background()))
	require.NoError(t, app.Shutdown(context.Background()))

	events := rec.snapshot()
	assert.Equal(t, []string{"shutdown:auth", "shutdown:database", "shutdown:config"}, events[len(events)-3:])
	assert.False(t, app.IsBooted())
	assert.False(t, app.IsShuttingDown())
}

func TestShutdownErrorDoesNotAbortSweep(t *testing.T) {
	config := newTestProvider("config", nil)
	database := newTestProvider("database", []string{"config"})
	database.shutdownErr = errors.New("close failed")

	app, rec := newTestApp(t, config, database)
	require.NoError(t, app.Start(context.Background()))
	require.NoError(t, app.Shutdown(context.Background()))

	assert.Equal(t, 1, rec.count("shutdown:database"))
	assert.Equal(t, 1, rec.count("shutdown:config"))
}

func TestShutdownIsIdempotentWhileInProgress(t *testing.T) {
	app, _ := newTestApp(t)

	reentrant := &reentrantShutdownProvider{}
	require.NoError(t, app.Use(reentrant))
	require.NoError(t, app.Start(context.Background()))
	require.NoError(t, app.Shutdown(context.Background()))

	assert.Equal(t, 1, reentrant.calls)
}

type reentrantShutdownProvider struct {
	BaseProvider
	calls int
}

func (*reentrantShutdownProvider) Name() string {
	return "reentrant"
}

func (*reentrantShutdownProvider) Register(app *App) error {
	return nil
}

func (p *reentrantShutdownProvider) Shutdown(ctx context.Context, app *App) error {
	p.calls++
	// A second call while the sweep is in progress must be a no-op.
	return app.Shutdown(ctx)
}

func TestShutdownDeadlineTerminatesProcess(t *testing.T) {
	slow := &slowShutdownProvider{delay: 300 * time.Millisecond}

	exitCh := make(chan int, 1)
	app := New(WithProviders(slow), WithShutdownTimeout(50*time.Millisecond))
	app.exit = func(code int) {
		select {
		case exitCh <- code:
		default:
		}
	}

	require.NoError(t, app.Start(context.Background()))
	require.NoError(t, app.Shutdown(context.Background()))

	select {
	case code := <-exitCh:
		assert.Equal(t, 1, code)
	case <-time.After(time.Second):
		t.Fatal("deadline timer did not fire")
	}
}

type slowShutdownProvider struct {
	BaseProvider
	delay time.Duration
}

func (*slowShutdownProvider) Name() string {
	return "slow"
}

func (*slowShutdownProvider) Register(app *App) error {
	return nil
}

func (p *slowShutdownProvider) Shutdown(ctx context.Context, app *App) error {
	time.Sleep(p.delay)
	return nil
}

func TestUseAfterBootFails(t *testing.T) {
	app, _ := newTestApp(t, newTestProvider("config", nil))
	require.NoError(t, app.Start(context.Background()))

	err := app.Use(newTestProvider("late", nil))
	assert.ErrorIs(t, err, ErrAlreadyBooted)
}

func TestUseNilProvider(t *testing.T) {
	app, _ := newTestApp(t)
	assert.Error(t, app.Use(nil))
}

func TestOnBootedQueuedCallbacksRunInOrder(t *testing.T) {
	app, _ := newTestApp(t, newTestProvider("config", nil))

	var order []string
	require.NoError(t, app.OnBooted(context.Background(), func(ctx context.Context) error {
		order = append(order, "first")
		return nil
	}))
	require.NoError(t, app.OnBooted(context.Background(), func(ctx context.Context) error {
		order = append(order, "second")
		return nil
	}))

	require.NoError(t, app.Start(context.Background()))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestOnBootedRunsImmediatelyWhenBooted(t *testing.T) {
	app, _ := newTestApp(t, newTestProvider("config", nil))
	require.NoError(t, app.Start(context.Background()))

	called := false
	require.NoError(t, app.OnBooted(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	}))
	assert.True(t, called)
}

func TestLifecycleEventsArePublished(t *testing.T) {
	app, _ := newTestApp(t, newTestProvider("config", nil))

	var mu sync.Mutex
	var seen []string
	listen := func(name string) {
		app.Emitter().On(name, func(ctx context.Context, payload any) error {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, name)
			return nil
		})
	}
	listen(EventStarting)
	listen(EventBooted)
	listen(EventShutdown)
	listen(EventTerminated)

	require.NoError(t, app.Start(context.Background()))
	require.NoError(t, app.Shutdown(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{EventStarting, EventBooted, EventShutdown, EventTerminated}, seen)
}

func TestStartPropagatesStartingListenerFailure(t *testing.T) {
	app, rec := newTestApp(t, newTestProvider("config", nil))

	listenerErr := errors.New("not ready")
	app.Emitter().On(EventStarting, func(ctx context.Context, payload any) error {
		return listenerErr
	})

	err := app.Start(context.Background())
	require.ErrorIs(t, err, listenerErr)
	assert.Empty(t, rec.snapshot())
}

func TestRunShutsDownOnContextCancel(t *testing.T) {
	config := newTestProvider("config", nil)
	app, rec := newTestApp(t, config)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.Run(ctx)
	}()

	// Give Start time to complete before cancelling.
	require.Eventually(t, app.IsBooted, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}

	assert.Equal(t, 1, rec.count("shutdown:config"))
}

func TestInfo(t *testing.T) {
	app, _ := newTestApp(t, newTestProvider("config", nil))

	info := app.Info()
	assert.False(t, info.Booted)
	assert.Equal(t, 1, info.ProviderCount)

	require.NoError(t, app.Start(context.Background()))
	info = app.Info()
	assert.True(t, info.Booted)
	assert.Equal(t, 1, info.BootedCount)
	assert.NotEmpty(t, info.ID)
}
