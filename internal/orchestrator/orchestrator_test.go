package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"continuum/internal/api"
	"continuum/internal/daemon"
	"continuum/internal/dependency"
)

// callLog records lifecycle calls across a set of scripted daemons so
// ordering assertions cover the whole collection.
type callLog struct {
	mu      sync.Mutex
	entries []string
}

func (l *callLog) add(entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

func (l *callLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *callLog) filter(suffix string) []string {
	var out []string
	for _, e := range l.all() {
		if len(e) > len(suffix) && e[len(e)-len(suffix):] == suffix {
			out = append(out, e[:len(e)-len(suffix)])
		}
	}
	return out
}

// scriptedDaemon is a controllable daemon for lifecycle tests.
type scriptedDaemon struct {
	*daemon.BaseDaemon
	log        *callLog
	startErr   error
	stopErr    error
	unhealthy  bool
	startCalls int
}

func newScripted(name string, log *callLog) *scriptedDaemon {
	return &scriptedDaemon{BaseDaemon: daemon.NewBaseDaemon(name), log: log}
}

func (d *scriptedDaemon) Start(ctx context.Context) error {
	d.startCalls++
	d.log.add(d.Name() + ":start")
	if d.startErr != nil {
		d.UpdateState(daemon.StateFailed, d.startErr)
		return d.startErr
	}
	d.UpdateState(daemon.StateRunning, nil)
	return nil
}

func (d *scriptedDaemon) Stop(ctx context.Context) error {
	d.log.add(d.Name() + ":stop")
	if d.stopErr != nil {
		return d.stopErr
	}
	d.UpdateState(daemon.StateStopped, nil)
	return nil
}

func (d *scriptedDaemon) HandleMessage(ctx context.Context, req api.Request) api.Result {
	if d.unhealthy {
		return api.Fail("health check failed")
	}
	return api.Ok(map[string]any{"daemon": d.Name()})
}

type fixture struct {
	log      *callLog
	registry *daemon.Registry
	daemons  map[string]*scriptedDaemon
}

func newFixture(t *testing.T, decls []dependency.Declaration) *fixture {
	t.Helper()
	f := &fixture{
		log:      &callLog{},
		registry: daemon.NewRegistry(),
		daemons:  make(map[string]*scriptedDaemon),
	}
	for _, decl := range decls {
		d := newScripted(decl.Name, f.log)
		f.daemons[decl.Name] = d
		require.NoError(t, f.registry.Register(d))
	}
	return f
}

func chainDecls() []dependency.Declaration {
	return []dependency.Declaration{
		{Name: "A", Required: true, HealthCheck: "ping"},
		{Name: "B", Required: true, HealthCheck: "ping", DependsOn: []string{"A"}},
		{Name: "C", Required: true, HealthCheck: "ping", DependsOn: []string{"A", "B"}},
	}
}

func TestInitializeStartsInDependencyOrder(t *testing.T) {
	decls := chainDecls()
	f := newFixture(t, decls)

	o, err := New(f.registry, decls)
	require.NoError(t, err)

	require.NoError(t, o.Initialize(context.Background()))
	assert.Equal(t, []string{"A", "B", "C"}, f.log.filter(":start"))
	assert.Equal(t, []string{"A", "B", "C"}, o.StartupOrder())
}

func TestInitializeIsIdempotent(t *testing.T) {
	decls := chainDecls()
	f := newFixture(t, decls)

	o, err := New(f.registry, decls)
	require.NoError(t, err)

	require.NoError(t, o.Initialize(context.Background()))
	require.NoError(t, o.Initialize(context.Background()))

	for name, d := range f.daemons {
		assert.Equal(t, 1, d.startCalls, "daemon %s must start exactly once", name)
	}
}

func TestStartFailureRollsBackStartedDaemonsInReverse(t *testing.T) {
	decls := []dependency.Declaration{
		{Name: "A", Required: true, HealthCheck: "ping"},
		{Name: "B", Required: true, HealthCheck: "ping", DependsOn: []string{"A"}},
		{Name: "C", Required: true, HealthCheck: "ping", DependsOn: []string{"B"}},
		{Name: "D", Required: true, HealthCheck: "ping", DependsOn: []string{"C"}},
	}
	f := newFixture(t, decls)
	bootFailure := errors.New("port already in use")
	f.daemons["C"].startErr = bootFailure

	o, err := New(f.registry, decls)
	require.NoError(t, err)

	err = o.Initialize(context.Background())
	require.Error(t, err)

	var startupErr *api.StartupError
	require.ErrorAs(t, err, &startupErr)
	assert.Equal(t, "C", startupErr.Daemon)
	assert.ErrorIs(t, err, bootFailure)

	// D was never reached; the failed C and its predecessors stop in
	// reverse start order.
	assert.Equal(t, []string{"A", "B", "C"}, f.log.filter(":start"))
	assert.Equal(t, []string{"C", "B", "A"}, f.log.filter(":stop"))
	assert.Equal(t, 0, f.daemons["D"].startCalls)
}

func TestStartFailureOriginalErrorSurvivesCleanupFailures(t *testing.T) {
	decls := chainDecls()
	f := newFixture(t, decls)
	bootFailure := errors.New("bind refused")
	f.daemons["C"].startErr = bootFailure
	f.daemons["A"].stopErr = errors.New("stop also broken")

	o, err := New(f.registry, decls)
	require.NoError(t, err)

	err = o.Initialize(context.Background())
	require.ErrorIs(t, err, bootFailure)
}

func TestUnhealthyRequiredDaemonFailsInitialize(t *testing.T) {
	decls := chainDecls()
	f := newFixture(t, decls)
	f.daemons["B"].unhealthy = true

	o, err := New(f.registry, decls)
	require.NoError(t, err)

	err = o.Initialize(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "degraded")

	// Health verification failure rolls the whole set back.
	assert.Equal(t, []string{"C", "B", "A"}, f.log.filter(":stop"))
	assert.Empty(t, o.StartupOrder())
}

func TestShutdownReversesRecordedStartupOrder(t *testing.T) {
	decls := chainDecls()
	f := newFixture(t, decls)

	o, err := New(f.registry, decls)
	require.NoError(t, err)
	require.NoError(t, o.Initialize(context.Background()))

	require.NoError(t, o.Shutdown(context.Background()))
	assert.Equal(t, []string{"C", "B", "A"}, f.log.filter(":stop"))
}

func TestShutdownSwallowsIndividualStopFailures(t *testing.T) {
	decls := chainDecls()
	f := newFixture(t, decls)
	f.daemons["B"].stopErr = errors.New("refuses to die")

	o, err := New(f.registry, decls)
	require.NoError(t, err)
	require.NoError(t, o.Initialize(context.Background()))

	require.NoError(t, o.Shutdown(context.Background()))
	// Best-effort: A still stops even though B failed.
	assert.Equal(t, []string{"C", "B", "A"}, f.log.filter(":stop"))
}

func TestShutdownWithoutInitializeIsNoOp(t *testing.T) {
	decls := chainDecls()
	f := newFixture(t, decls)

	o, err := New(f.registry, decls)
	require.NoError(t, err)

	require.NoError(t, o.Shutdown(context.Background()))
	assert.Empty(t, f.log.filter(":stop"))
}

func TestStatusAggregation(t *testing.T) {
	tests := []struct {
		name      string
		unhealthy []string
		optional  map[string]bool
		expect    api.IntegrationHealth
	}{
		{name: "all healthy", expect: api.HealthHealthy},
		{name: "one unhealthy", unhealthy: []string{"B"}, expect: api.HealthDegraded},
		{name: "all unhealthy", unhealthy: []string{"A", "B", "C"}, expect: api.HealthFailed},
		{
			name:      "optional daemon failure does not degrade",
			unhealthy: []string{"C"},
			optional:  map[string]bool{"C": true},
			expect:    api.HealthHealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decls := chainDecls()
			for i := range decls {
				if tt.optional[decls[i].Name] {
					decls[i].Required = false
				}
			}
			f := newFixture(t, decls)
			for _, name := range tt.unhealthy {
				f.daemons[name].unhealthy = true
			}

			o, err := New(f.registry, decls)
			require.NoError(t, err)

			status := o.Status(context.Background())
			assert.Equal(t, tt.expect, status.Health)
			assert.Len(t, status.Daemons, len(decls))
		})
	}
}

func TestNewRejectsCyclicDeclarations(t *testing.T) {
	decls := []dependency.Declaration{
		{Name: "A", HealthCheck: "ping", DependsOn: []string{"B"}},
		{Name: "B", HealthCheck: "ping", DependsOn: []string{"A"}},
	}
	registry := daemon.NewRegistry()

	_, err := New(registry, decls)
	require.Error(t, err)
	assert.True(t, api.IsConfigurationError(err))
}

func TestNewRejectsUnregisteredDaemon(t *testing.T) {
	decls := []dependency.Declaration{{Name: "ghost", HealthCheck: "ping"}}
	registry := daemon.NewRegistry()

	_, err := New(registry, decls)
	require.Error(t, err)
	assert.True(t, api.IsConfigurationError(err))
}

func TestStateChangeSubscription(t *testing.T) {
	decls := []dependency.Declaration{{Name: "solo", Required: true, HealthCheck: "ping"}}
	f := newFixture(t, decls)

	o, err := New(f.registry, decls)
	require.NoError(t, err)

	events := o.SubscribeStateChanges()
	require.NoError(t, o.Initialize(context.Background()))

	event := <-events
	assert.Equal(t, "solo", event.Name)
	assert.Equal(t, api.StateRunning, event.NewState)
}
