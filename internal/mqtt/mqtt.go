// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/led-scheduler/internal/schedule"
)

// Topic is the MQTT topic for schedule execution events.
const Topic = "home/led/scheduler/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "home/led/scheduler/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// PublishExecution sends a schedule execution event to the broker.
	// Returns error if publishing fails (should not crash the process).
	PublishExecution(event ExecutionEvent) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// ExecutionEvent represents one successful schedule execution.
type ExecutionEvent struct {
	Timestamp  time.Time
	ScheduleID string
	Owner      string
	Action     schedule.Action
	At         string // scheduled trigger time, "HH:MM"
	OneTime    bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Execution ExecutionPayload `json:"execution"`
}

// ExecutionPayload contains the execution event details.
type ExecutionPayload struct {
	Timestamp  string `json:"timestamp"`
	ScheduleID string `json:"schedule_id"`
	Owner      string `json:"owner"`
	Action     string `json:"action"`
	At         string `json:"at"`
	OneTime    bool   `json:"one_time"`
}

// FormatExecutionPayload creates the JSON payload for an execution event.
func FormatExecutionPayload(event ExecutionEvent) ([]byte, error) {
	payload := Payload{
		Execution: ExecutionPayload{
			Timestamp:  event.Timestamp.UTC().Format(time.RFC3339),
			ScheduleID: event.ScheduleID,
			Owner:      event.Owner,
			Action:     string(event.Action),
			At:         event.At,
			OneTime:    event.OneTime,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
