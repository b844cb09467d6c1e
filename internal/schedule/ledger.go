package schedule

// Ledger tracks the last calendar day each schedule successfully executed.
// It lives only in process memory: restart resets it, and growth is unbounded
// but acceptable for small schedule sets.
//
// Not safe for concurrent use; owned solely by the poll loop.
type Ledger struct {
	executed map[string]string // record key -> date (DateLayout)
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{executed: make(map[string]string)}
}

// MarkExecuted records that the schedule with the given key fired on date.
// Overwrites any previous date for the key.
func (l *Ledger) MarkExecuted(key, date string) {
	l.executed[key] = date
}

// LastExecuted returns the date the schedule last fired, if any.
func (l *Ledger) LastExecuted(key string) (string, bool) {
	d, ok := l.executed[key]
	return d, ok
}

// Len returns the number of tracked schedules.
func (l *Ledger) Len() int {
	return len(l.executed)
}
