package status

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/led-scheduler/internal/schedule"
)

func testConfig() Config {
	return Config{
		IntervalMs:        60000,
		FetchTimeoutMs:    10000,
		ActuatorTimeoutMs: 5000,
		HeartbeatMs:       900000,
		StoreURL:          "https://store.example",
		ActuatorURL:       "http://device.local:8080",
		Broker:            "tcp://192.168.1.200:1883",
		HTTPAddr:          ":8090",
		StoreMode:         "rest",
	}
}

func TestTrackerInitialState(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(start, testConfig())

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.TickCount != 0 || snap.SchedulesSeen != 0 || snap.LedgerSize != 0 {
		t.Errorf("counters should start at zero, got %+v", snap)
	}
	if !snap.LastTick.IsZero() {
		t.Error("LastTick should start zero")
	}
	if snap.LastExecution != nil {
		t.Error("LastExecution should start nil")
	}
}

func TestTrackerRecordTick(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(start, testConfig())

	at := start.Add(time.Minute)
	tr.RecordTick(at, 3, 1)
	tr.RecordTick(at.Add(time.Minute), 2, 2)

	snap := tr.Snapshot()
	if snap.TickCount != 2 {
		t.Errorf("TickCount: got %d, want 2", snap.TickCount)
	}
	if snap.SchedulesSeen != 2 {
		t.Errorf("SchedulesSeen: got %d, want 2", snap.SchedulesSeen)
	}
	if snap.LedgerSize != 2 {
		t.Errorf("LedgerSize: got %d, want 2", snap.LedgerSize)
	}
	if !snap.LastTick.Equal(at.Add(time.Minute)) {
		t.Errorf("LastTick: got %v", snap.LastTick)
	}
}

func TestTrackerRecordExecution(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	tr.RecordExecution(Execution{ScheduleID: "s1", Owner: "user1", Action: schedule.ActionOn, At: "07:30"})
	tr.RecordExecution(Execution{ScheduleID: "s2", Owner: "user1", Action: schedule.ActionOff, At: "22:00"})
	tr.RecordFailure()

	snap := tr.Snapshot()
	if snap.Counts.On != 1 || snap.Counts.Off != 1 || snap.Counts.Failed != 1 {
		t.Errorf("Counts: got %+v", snap.Counts)
	}
	if snap.LastExecution == nil || snap.LastExecution.ScheduleID != "s2" {
		t.Errorf("LastExecution: got %+v", snap.LastExecution)
	}
}

func TestSnapshotIsDetachedCopy(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())
	tr.RecordExecution(Execution{ScheduleID: "s1", Action: schedule.ActionOn})

	snap := tr.Snapshot()
	tr.RecordExecution(Execution{ScheduleID: "s2", Action: schedule.ActionOn})

	if snap.LastExecution.ScheduleID != "s1" {
		t.Error("snapshot should not observe later mutations")
	}
	if snap.Counts.On != 1 {
		t.Errorf("snapshot Counts.On: got %d, want 1", snap.Counts.On)
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(start, testConfig())
	tr.RecordTick(start.Add(time.Minute), 3, 1)
	tr.RecordExecution(Execution{
		ScheduleID: "s1",
		Owner:      "user1",
		Action:     schedule.ActionOn,
		At:         "07:30",
		Time:       start.Add(time.Minute),
	})
	tr.SetMQTTConnected(true)

	var sj StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &sj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if sj.Status.StoreMode != "rest" {
		t.Errorf("store_mode: got %q, want rest", sj.Status.StoreMode)
	}
	if sj.Status.TickCount != 1 || sj.Status.SchedulesSeen != 3 {
		t.Errorf("tick fields: got %+v", sj.Status)
	}
	if sj.Status.Counts.On != 1 {
		t.Errorf("counts.on: got %d, want 1", sj.Status.Counts.On)
	}
	if sj.Status.LastExecution == nil || sj.Status.LastExecution.ScheduleID != "s1" {
		t.Errorf("last_execution: got %+v", sj.Status.LastExecution)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("mqtt.connected: got false")
	}
	if sj.Status.Event != "" {
		t.Errorf("web JSON should carry no event, got %q", sj.Status.Event)
	}
	if sj.Status.Config.IntervalMs != 60000 {
		t.Errorf("config.interval_ms: got %d", sj.Status.Config.IntervalMs)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	var sj StatusJSON
	if err := json.Unmarshal(FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM"), &sj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if sj.Status.Event != "SHUTDOWN" {
		t.Errorf("event: got %q, want SHUTDOWN", sj.Status.Event)
	}
	if sj.Status.Reason != "SIGTERM" {
		t.Errorf("reason: got %q, want SIGTERM", sj.Status.Reason)
	}
}

func TestFormatJSONOmitsEmptyLastTick(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	var raw map[string]map[string]any
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, present := raw["status"]["last_tick"]; present {
		t.Error("last_tick should be omitted before the first tick")
	}
}
