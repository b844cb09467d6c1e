package store

import (
	"context"

	"github.com/sweeney/led-scheduler/internal/schedule"
)

// FakeSource is a test double that returns scripted record sets.
type FakeSource struct {
	// Sets contains scripted results. Each call to Fetch consumes the next
	// set; once exhausted, the last set is returned repeatedly.
	Sets [][]schedule.Record

	// FetchCalls counts Fetch invocations.
	FetchCalls int

	// index tracks current position in Sets
	index int
}

// NewFakeSource creates a FakeSource with the given scripted sets.
func NewFakeSource(sets ...[]schedule.Record) *FakeSource {
	return &FakeSource{Sets: sets}
}

// Fetch returns the next scripted record set. With no sets configured it
// behaves like a permanently failing source and returns nil.
func (f *FakeSource) Fetch(_ context.Context) []schedule.Record {
	f.FetchCalls++

	if len(f.Sets) == 0 {
		return nil
	}

	set := f.Sets[f.index]
	if f.index < len(f.Sets)-1 {
		f.index++
	}
	return set
}

// Mode identifies the fake strategy.
func (f *FakeSource) Mode() string {
	return "fake"
}

// Reset rewinds the scripted sets.
func (f *FakeSource) Reset() {
	f.index = 0
	f.FetchCalls = 0
}
