// Package schedule contains pure scheduling logic for the led-scheduler daemon.
// This package has NO external dependencies (no Firebase, HTTP, OS, or time.Sleep).
// Time is always injectable via string/weekday parameters.
package schedule

import "time"

// Action is the device state a schedule drives.
type Action string

const (
	ActionOn  Action = "ON"
	ActionOff Action = "OFF"
)

// Weekday tokens as stored in schedule records (Mon, Tue, ...).
var weekdayTokens = map[time.Weekday]string{
	time.Monday:    "Mon",
	time.Tuesday:   "Tue",
	time.Wednesday: "Wed",
	time.Thursday:  "Thu",
	time.Friday:    "Fri",
	time.Saturday:  "Sat",
	time.Sunday:    "Sun",
}

// WeekdayToken returns the record-format token for a weekday.
func WeekdayToken(d time.Weekday) string {
	return weekdayTokens[d]
}

// ValidWeekdayToken reports whether s is one of Mon..Sun.
func ValidWeekdayToken(s string) bool {
	for _, tok := range weekdayTokens {
		if s == tok {
			return true
		}
	}
	return false
}

// Record is one schedule rule, flattened from the store's owner→id nesting.
type Record struct {
	// ID is unique within the owner's sub-collection only.
	ID string
	// Owner is the id of the entity that created the rule.
	Owner string
	// Time is the trigger time-of-day in 24-hour "HH:MM" form.
	Time string
	// Action is the device state to command.
	Action Action
	// Enabled gates evaluation entirely.
	Enabled bool
	// Repeat lists weekday tokens the rule recurs on.
	// Empty means one-time: fire on the next matching minute only.
	Repeat []string
}

// Key returns the ledger key for the record. Schedule ids are only unique
// within an owner, so the key combines both.
func (r Record) Key() string {
	return r.Owner + "/" + r.ID
}

// OneTime reports whether the record is a one-time rule.
func (r Record) OneTime() bool {
	return len(r.Repeat) == 0
}

// RepeatsOn reports whether the record recurs on the given weekday token.
func (r Record) RepeatsOn(day string) bool {
	for _, d := range r.Repeat {
		if d == day {
			return true
		}
	}
	return false
}

// Valid reports whether the record carries the fields evaluation requires.
// Records failing this are malformed and skipped individually.
func (r Record) Valid() bool {
	if !ValidTimeOfDay(r.Time) {
		return false
	}
	if r.Action != ActionOn && r.Action != ActionOff {
		return false
	}
	return true
}

// ValidTimeOfDay reports whether s is a 24-hour "HH:MM" string.
func ValidTimeOfDay(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	hh := digits2(s[0], s[1])
	mm := digits2(s[3], s[4])
	return hh >= 0 && hh <= 23 && mm >= 0 && mm <= 59
}

func digits2(a, b byte) int {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return -1
	}
	return int(a-'0')*10 + int(b-'0')
}

// Clock formats used throughout the daemon.
const (
	// TimeLayout is the trigger-time format ("HH:MM").
	TimeLayout = "15:04"
	// DateLayout is the ledger date format.
	DateLayout = "2006-01-02"
)
