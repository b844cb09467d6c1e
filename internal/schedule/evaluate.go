package schedule

// IsDue decides whether a record should fire at the current evaluation tick.
//
// Checks short-circuit in order: disabled records never fire; the trigger
// time must equal the current minute exactly (no tolerance window); a
// one-time record fires only if it has not already fired today; a recurring
// record fires whenever today's weekday is listed, without consulting the
// ledger. The one-time/recurring asymmetry is deliberate: within a matching
// minute a recurring rule can fire on every tick, a one-time rule cannot.
//
// nowHHMM is the current minute in TimeLayout, day the current weekday token,
// today the current date in DateLayout.
func IsDue(r Record, nowHHMM, day, today string, ledger *Ledger) bool {
	if !r.Enabled {
		return false
	}

	if r.Time != nowHHMM {
		return false
	}

	if r.OneTime() {
		if last, ok := ledger.LastExecuted(r.Key()); ok && last == today {
			return false
		}
		return true
	}

	return r.RepeatsOn(day)
}
