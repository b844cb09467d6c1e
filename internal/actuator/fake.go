package actuator

import (
	"context"

	"github.com/sweeney/led-scheduler/internal/schedule"
)

// FakeClient records commands for test assertions.
type FakeClient struct {
	// Sent contains every action passed to Send, in order.
	Sent []schedule.Action

	// SendError, if set, will be returned by Send.
	SendError error

	// FailNext holds per-call errors: call i returns FailNext[i] if present
	// and non-nil. Takes precedence over SendError.
	FailNext []error

	calls int
}

// NewFakeClient creates a FakeClient.
func NewFakeClient() *FakeClient {
	return &FakeClient{}
}

// Send records the action, or fails as scripted. Failed sends are recorded
// too, since the scheduler attempted them.
func (f *FakeClient) Send(_ context.Context, action schedule.Action) error {
	i := f.calls
	f.calls++
	f.Sent = append(f.Sent, action)

	if i < len(f.FailNext) && f.FailNext[i] != nil {
		return f.FailNext[i]
	}
	return f.SendError
}

// Reset clears recorded commands.
func (f *FakeClient) Reset() {
	f.Sent = nil
	f.SendError = nil
	f.FailNext = nil
	f.calls = 0
}
