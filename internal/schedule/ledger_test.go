package schedule

import "testing"

func TestLedgerEmpty(t *testing.T) {
	l := NewLedger()
	if l.Len() != 0 {
		t.Errorf("new ledger should be empty, got %d entries", l.Len())
	}
	if _, ok := l.LastExecuted("user1/s1"); ok {
		t.Error("LastExecuted on empty ledger should report not found")
	}
}

func TestLedgerMarkAndLookup(t *testing.T) {
	l := NewLedger()
	l.MarkExecuted("user1/s1", "2026-09-01")

	d, ok := l.LastExecuted("user1/s1")
	if !ok {
		t.Fatal("expected entry for user1/s1")
	}
	if d != "2026-09-01" {
		t.Errorf("date: got %q, want 2026-09-01", d)
	}
}

func TestLedgerOverwrite(t *testing.T) {
	// One date per key: marking again replaces, never accumulates.
	l := NewLedger()
	l.MarkExecuted("user1/s1", "2026-09-01")
	l.MarkExecuted("user1/s1", "2026-09-02")

	d, _ := l.LastExecuted("user1/s1")
	if d != "2026-09-02" {
		t.Errorf("date after overwrite: got %q, want 2026-09-02", d)
	}
	if l.Len() != 1 {
		t.Errorf("expected 1 entry after overwrite, got %d", l.Len())
	}
}

func TestLedgerIndependentKeys(t *testing.T) {
	l := NewLedger()
	l.MarkExecuted("user1/s1", "2026-09-01")
	l.MarkExecuted("user2/s1", "2026-09-02")

	if l.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", l.Len())
	}
	d1, _ := l.LastExecuted("user1/s1")
	d2, _ := l.LastExecuted("user2/s1")
	if d1 != "2026-09-01" || d2 != "2026-09-02" {
		t.Errorf("got %q/%q, want 2026-09-01/2026-09-02", d1, d2)
	}
}
