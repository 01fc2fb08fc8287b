package services

import (
	"sync"
	"time"

	"github.com/benmeehan/absensi-agent/internal/gate"
	"github.com/benmeehan/absensi-agent/internal/metrics"
	"github.com/benmeehan/absensi-agent/internal/panel"
	"github.com/benmeehan/absensi-agent/internal/session"
)

// Clock returns the current wall-clock time in the office time zone.
type Clock func() time.Time

// NewClock returns a Clock reading time.Now in loc.
func NewClock(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}

// ControlRefresher recomputes both action controls from the clock reading and
// the session location. It is called on every clock tick and every location
// update; nothing is latched between calls.
type ControlRefresher struct {
	policy  gate.OfficePolicy
	session *session.Session
	panel   *panel.Panel
	metrics *metrics.Collector

	mu sync.Mutex
}

func NewControlRefresher(policy gate.OfficePolicy, sess *session.Session, p *panel.Panel, m *metrics.Collector) *ControlRefresher {
	return &ControlRefresher{policy: policy, session: sess, panel: p, metrics: m}
}

// Refresh updates the panel controls for now and returns the new states.
func (c *ControlRefresher) Refresh(now time.Time) map[gate.Kind]gate.ControlState {
	c.mu.Lock()
	defer c.mu.Unlock()

	var rng *gate.Decision
	if loc, err := c.session.Location(); err == nil {
		d := gate.EvaluateRange(loc, c.policy)
		rng = &d
	}

	states := make(map[gate.Kind]gate.ControlState, len(gate.Kinds))
	for _, kind := range gate.Kinds {
		state := gate.ControlStateFor(kind, now, rng)
		states[kind] = state
		c.panel.SetControl(kind, state)
		c.metrics.SetControlEnabled(string(kind), state == gate.Enabled)
	}
	return states
}
