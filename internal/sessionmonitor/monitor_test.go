package sessionmonitor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testClock struct {
	tickC         chan time.Time
	timers        chan chan time.Time
	tickerStopped atomic.Bool
	timersStopped atomic.Int32
}

func newTestClock() *testClock {
	return &testClock{
		tickC:  make(chan time.Time),
		timers: make(chan chan time.Time, 10),
	}
}

func (c *testClock) NewTicker(time.Duration) (<-chan time.Time, func()) {
	return c.tickC, func() { c.tickerStopped.Store(true) }
}

func (c *testClock) NewTimer(time.Duration) (<-chan time.Time, func() bool) {
	timerC := make(chan time.Time, 1)
	c.timers <- timerC
	return timerC, func() bool {
		c.timersStopped.Add(1)
		return true
	}
}

func (c *testClock) tick() {
	c.tickC <- time.Now()
}

// fireWarning waits for the next armed timer and fires it.
func (c *testClock) fireWarning(t *testing.T) {
	t.Helper()
	select {
	case timerC := <-c.timers:
		timerC <- time.Now()
	case <-time.After(time.Second):
		t.Fatal("no warning timer armed")
	}
}

type testSessionAPI struct {
	mutex       sync.Mutex
	results     []bool
	err         error
	validations int
	logouts     int
}

func (a *testSessionAPI) ValidateSession(context.Context) (bool, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.validations++
	if a.err != nil {
		return false, a.err
	}
	if len(a.results) == 0 {
		return true, nil
	}
	res := a.results[0]
	a.results = a.results[1:]
	return res, nil
}

func (a *testSessionAPI) Logout(context.Context) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.logouts++
	return nil
}

func (a *testSessionAPI) counts() (int, int) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.validations, a.logouts
}

func runMonitor(ctx context.Context, m *Monitor) <-chan StopReason {
	done := make(chan StopReason, 1)
	go func() {
		done <- m.Run(ctx)
	}()
	return done
}

func waitStop(t *testing.T, done <-chan StopReason) StopReason {
	t.Helper()
	select {
	case reason := <-done:
		return reason
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
	return StopCancelled
}

func TestMonitor_InvalidOnTick(t *testing.T) {
	clock := newTestClock()
	api := &testSessionAPI{results: []bool{true, false}}

	var invalidErr error
	invalidCalls := 0
	m := NewMonitor(api, Config{
		Clock: clock,
		OnInvalid: func(err error) {
			invalidCalls++
			invalidErr = err
		},
	})
	done := runMonitor(context.Background(), m)

	clock.tick()
	clock.tick()

	assert.Equal(t, StopInvalid, waitStop(t, done))
	assert.Equal(t, 1, invalidCalls)
	assert.NoError(t, invalidErr)
	validations, logouts := api.counts()
	assert.Equal(t, 2, validations)
	assert.Equal(t, 0, logouts)
	assert.True(t, clock.tickerStopped.Load())
	assert.Equal(t, int32(1), clock.timersStopped.Load())
}

func TestMonitor_ValidationError(t *testing.T) {
	clock := newTestClock()
	api := &testSessionAPI{err: errors.New("connection refused")}

	var invalidErr error
	m := NewMonitor(api, Config{
		Clock:     clock,
		OnInvalid: func(err error) { invalidErr = err },
	})
	done := runMonitor(context.Background(), m)

	clock.tick()
	assert.Equal(t, StopInvalid, waitStop(t, done))
	assert.EqualError(t, invalidErr, "connection refused")
}

func TestMonitor_ExtendThenLogout(t *testing.T) {
	clock := newTestClock()
	api := &testSessionAPI{}

	decisions := make(chan Decision, 2)
	decisions <- Extend
	decisions <- Logout
	warnings := 0
	m := NewMonitor(api, Config{
		Clock: clock,
		OnExpiringSoon: func(context.Context) Decision {
			warnings++
			return <-decisions
		},
	})
	done := runMonitor(context.Background(), m)

	clock.fireWarning(t)
	// extending re-arms the warning
	clock.fireWarning(t)

	assert.Equal(t, StopLoggedOut, waitStop(t, done))
	assert.Equal(t, 2, warnings)
	validations, logouts := api.counts()
	assert.Equal(t, 1, validations)
	assert.Equal(t, 1, logouts)
}

func TestMonitor_ExtendOnInvalidSession(t *testing.T) {
	clock := newTestClock()
	api := &testSessionAPI{results: []bool{false}}

	invalidCalls := 0
	m := NewMonitor(api, Config{
		Clock:          clock,
		OnInvalid:      func(error) { invalidCalls++ },
		OnExpiringSoon: func(context.Context) Decision { return Extend },
	})
	done := runMonitor(context.Background(), m)

	clock.fireWarning(t)
	assert.Equal(t, StopInvalid, waitStop(t, done))
	assert.Equal(t, 1, invalidCalls)
}

func TestMonitor_Cancelled(t *testing.T) {
	clock := newTestClock()
	api := &testSessionAPI{}

	ctx, cancel := context.WithCancel(context.Background())
	done := runMonitor(ctx, NewMonitor(api, Config{Clock: clock}))

	clock.tick()
	cancel()

	assert.Equal(t, StopCancelled, waitStop(t, done))
	assert.True(t, clock.tickerStopped.Load())
	validations, logouts := api.counts()
	assert.Equal(t, 1, validations)
	assert.Equal(t, 0, logouts)
}

func TestMonitor_RealClock(t *testing.T) {
	api := &testSessionAPI{results: []bool{true, true, false}}
	m := NewMonitor(api, Config{
		CheckInterval: 5 * time.Millisecond,
		WarningAfter:  time.Hour,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.Equal(t, StopInvalid, m.Run(ctx))
	validations, _ := api.counts()
	assert.Equal(t, 3, validations)
}

func TestShouldRun(t *testing.T) {
	assert.True(t, ShouldRun("/admin", "abc"))
	assert.True(t, ShouldRun("/admin/news", "abc"))
	assert.False(t, ShouldRun("/admin/news", ""))
	assert.False(t, ShouldRun("/news", "abc"))
	assert.False(t, ShouldRun("/auth", "abc"))
	assert.Equal(t, "logged-out", StopLoggedOut.String())
}
