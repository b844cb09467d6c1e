// Package actuator commands the external LED server over HTTP.
// The real implementation talks to the device endpoint; the fake allows
// testing without a device.
package actuator

import (
	"context"

	"github.com/sweeney/led-scheduler/internal/schedule"
)

// Client sends a state-change command to the device.
type Client interface {
	// Send commands the device into the given state. A nil return means the
	// device accepted the command; any transport error, timeout, or
	// non-success status is an error. No retries happen inside the call;
	// a still-due schedule is retried naturally on a later tick.
	Send(ctx context.Context, action schedule.Action) error
}

// command is the wire shape of the device command body.
type command struct {
	State string `json:"state"`
}
