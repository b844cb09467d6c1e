package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event           string         `json:"event,omitempty"`
	Reason          string         `json:"reason,omitempty"`
	StoreMode       string         `json:"store_mode"`
	LastTick        string         `json:"last_tick,omitempty"`
	TickCount       int            `json:"tick_count"`
	SchedulesSeen   int            `json:"schedules_seen"`
	LedgerSize      int            `json:"ledger_size"`
	UptimeSeconds   int64          `json:"uptime_seconds"`
	StartTime       string         `json:"start_time"`
	Timestamp       string         `json:"timestamp"`
	MQTT            MQTTStatus     `json:"mqtt"`
	Counts          CountsJSON     `json:"execution_counts"`
	LastExecution   *ExecutionJSON `json:"last_execution,omitempty"`
	Config          ConfigJSON     `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of execution counts.
type CountsJSON struct {
	On     int `json:"on"`
	Off    int `json:"off"`
	Failed int `json:"failed"`
}

// ExecutionJSON is the JSON representation of the last execution.
type ExecutionJSON struct {
	ScheduleID string `json:"schedule_id"`
	Owner      string `json:"owner"`
	Action     string `json:"action"`
	At         string `json:"at"`
	Timestamp  string `json:"timestamp"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	IntervalMs        int64  `json:"interval_ms"`
	FetchTimeoutMs    int64  `json:"fetch_timeout_ms"`
	ActuatorTimeoutMs int64  `json:"actuator_timeout_ms"`
	HeartbeatMs       int64  `json:"heartbeat_ms"`
	StoreURL          string `json:"store_url"`
	ActuatorURL       string `json:"actuator_url"`
	Broker            string `json:"broker"`
	HTTPAddr          string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		StoreMode:     snap.Config.StoreMode,
		TickCount:     snap.TickCount,
		SchedulesSeen: snap.SchedulesSeen,
		LedgerSize:    snap.LedgerSize,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			On:     snap.Counts.On,
			Off:    snap.Counts.Off,
			Failed: snap.Counts.Failed,
		},
		Config: ConfigJSON{
			IntervalMs:        snap.Config.IntervalMs,
			FetchTimeoutMs:    snap.Config.FetchTimeoutMs,
			ActuatorTimeoutMs: snap.Config.ActuatorTimeoutMs,
			HeartbeatMs:       snap.Config.HeartbeatMs,
			StoreURL:          snap.Config.StoreURL,
			ActuatorURL:       snap.Config.ActuatorURL,
			Broker:            snap.Config.Broker,
			HTTPAddr:          snap.Config.HTTPAddr,
		},
	}

	if !snap.LastTick.IsZero() {
		inner.LastTick = snap.LastTick.UTC().Format(time.RFC3339)
	}
	if snap.LastExecution != nil {
		inner.LastExecution = &ExecutionJSON{
			ScheduleID: snap.LastExecution.ScheduleID,
			Owner:      snap.LastExecution.Owner,
			Action:     string(snap.LastExecution.Action),
			At:         snap.LastExecution.At,
			Timestamp:  snap.LastExecution.Time.UTC().Format(time.RFC3339),
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
