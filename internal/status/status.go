// Package status provides a thread-safe status tracker for the led-scheduler
// daemon. It is read by HTTP handlers and serialized into MQTT system events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/led-scheduler/internal/schedule"
)

// Config contains daemon configuration for display.
type Config struct {
	IntervalMs        int64
	FetchTimeoutMs    int64
	ActuatorTimeoutMs int64
	HeartbeatMs       int64
	StoreURL          string
	ActuatorURL       string
	Broker            string
	HTTPAddr          string
	StoreMode         string // "sdk", "rest", or "fake"
}

// ExecutionCounts tracks actuation outcomes since startup.
type ExecutionCounts struct {
	On     int
	Off    int
	Failed int
}

// Execution describes the most recent successful execution.
type Execution struct {
	ScheduleID string
	Owner      string
	Action     schedule.Action
	At         string // scheduled trigger time
	Time       time.Time
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	LastTick      time.Time
	TickCount     int
	SchedulesSeen int // records returned by the most recent fetch
	LedgerSize    int
	Counts        ExecutionCounts
	LastExecution *Execution
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// RecordTick notes a completed tick: when it ran, how many records the fetch
// produced, and the current ledger size. Called from the poll loop on every
// tick.
func (t *Tracker) RecordTick(at time.Time, records, ledgerSize int) {
	t.mu.Lock()
	t.snap.LastTick = at
	t.snap.TickCount++
	t.snap.SchedulesSeen = records
	t.snap.LedgerSize = ledgerSize
	t.mu.Unlock()
}

// RecordExecution notes a successful actuation.
func (t *Tracker) RecordExecution(e Execution) {
	t.mu.Lock()
	switch e.Action {
	case schedule.ActionOn:
		t.snap.Counts.On++
	case schedule.ActionOff:
		t.snap.Counts.Off++
	}
	ec := e
	t.snap.LastExecution = &ec
	t.mu.Unlock()
}

// RecordFailure notes a failed actuation attempt.
func (t *Tracker) RecordFailure() {
	t.mu.Lock()
	t.snap.Counts.Failed++
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
