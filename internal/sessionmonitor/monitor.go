package sessionmonitor

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultCheckInterval = time.Minute
	// DefaultWarningAfter is when the extend-or-logout prompt shows up after the monitor starts.
	DefaultWarningAfter = 19 * time.Minute
)

type Decision int

const (
	Extend Decision = iota
	Logout
)

type StopReason int

const (
	StopCancelled StopReason = iota
	StopInvalid
	StopLoggedOut
)

func (r StopReason) String() string {
	switch r {
	case StopCancelled:
		return "cancelled"
	case StopInvalid:
		return "invalid"
	case StopLoggedOut:
		return "logged-out"
	}
	return "unknown"
}

type sessionAPI interface {
	ValidateSession(ctx context.Context) (bool, error)
	Logout(ctx context.Context) error
}

// Clock creates the monitor's ticker and timers. The returned funcs stop them.
type Clock interface {
	NewTicker(d time.Duration) (<-chan time.Time, func())
	NewTimer(d time.Duration) (<-chan time.Time, func() bool)
}

type realClock struct{}

func (realClock) NewTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

func (realClock) NewTimer(d time.Duration) (<-chan time.Time, func() bool) {
	t := time.NewTimer(d)
	return t.C, t.Stop
}

type Config struct {
	CheckInterval time.Duration
	WarningAfter  time.Duration

	// OnInvalid is called once the session is found invalid; err is set when validation itself failed.
	OnInvalid func(err error)
	// OnExpiringSoon blocks the monitor until the admin picks Extend or Logout.
	OnExpiringSoon func(ctx context.Context) Decision

	Clock Clock
}

// Monitor keeps an eye on one admin session from the client side.
type Monitor struct {
	api sessionAPI
	cfg Config
}

func NewMonitor(api sessionAPI, cfg Config) *Monitor {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = DefaultCheckInterval
	}
	if cfg.WarningAfter <= 0 {
		cfg.WarningAfter = DefaultWarningAfter
	}
	if cfg.OnInvalid == nil {
		cfg.OnInvalid = func(error) {}
	}
	if cfg.OnExpiringSoon == nil {
		cfg.OnExpiringSoon = func(context.Context) Decision { return Extend }
	}
	if cfg.Clock == nil {
		cfg.Clock = realClock{}
	}
	return &Monitor{
		api: api,
		cfg: cfg,
	}
}

// ShouldRun reports whether a monitor belongs on path: admin pages with a stored session.
func ShouldRun(path, sessionID string) bool {
	return strings.HasPrefix(path, "/admin") && sessionID != ""
}

// Run blocks until ctx is done, the session turns invalid, or the admin logs out.
func (m *Monitor) Run(ctx context.Context) StopReason {
	tickC, stopTicker := m.cfg.Clock.NewTicker(m.cfg.CheckInterval)
	defer stopTicker()

	warnC, stopWarning := m.cfg.Clock.NewTimer(m.cfg.WarningAfter)
	defer func() { stopWarning() }()

	for {
		select {
		case <-ctx.Done():
			return StopCancelled

		case <-tickC:
			if !m.check(ctx) {
				return StopInvalid
			}

		case <-warnC:
			switch m.cfg.OnExpiringSoon(ctx) {
			case Extend:
				// validating bumps the session's last activity
				if !m.check(ctx) {
					return StopInvalid
				}
				stopWarning()
				warnC, stopWarning = m.cfg.Clock.NewTimer(m.cfg.WarningAfter)
				log.Debugf("session monitor: session extended")
			default:
				if err := m.api.Logout(ctx); err != nil {
					log.Errorf("session monitor: logout: %s", err)
				}
				return StopLoggedOut
			}
		}
	}
}

func (m *Monitor) check(ctx context.Context) bool {
	valid, err := m.api.ValidateSession(ctx)
	if err != nil {
		if ctx.Err() != nil {
			// shutting down, the next loop iteration returns
			return true
		}
		log.Errorf("session monitor: validate session: %s", err)
		m.cfg.OnInvalid(err)
		return false
	}
	if !valid {
		m.cfg.OnInvalid(nil)
		return false
	}
	return true
}
