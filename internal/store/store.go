// Package store fetches schedule records from the remote schedule store.
// Two interchangeable strategies exist: the Firebase Admin SDK (privileged)
// and the public REST endpoint (fallback). The fake implementation allows
// testing without a store.
package store

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/sweeney/led-scheduler/internal/metrics"
	"github.com/sweeney/led-scheduler/internal/schedule"
)

// Path of the schedule tree within the store.
const schedulesPath = "schedules"

// Source fetches the current full schedule set.
//
// Fetch never reports failure to the caller: transport and parse errors are
// logged, counted, and surface as an empty slice. An empty result therefore
// means "no schedules" or "fetch failed" indistinguishably, and each tick
// re-fetches from scratch.
type Source interface {
	Fetch(ctx context.Context) []schedule.Record

	// Mode identifies the retrieval strategy for status display.
	Mode() string
}

// recordJSON is the wire shape of one schedule record.
type recordJSON struct {
	Time    string   `json:"time"`
	Action  string   `json:"action"`
	Enabled *bool    `json:"enabled"` // absent means enabled
	Repeat  []string `json:"repeat"`
}

// tree is the wire shape of the whole store subtree: owner id → schedule id →
// record.
type tree map[string]map[string]recordJSON

func (rj recordJSON) toRecord(id, owner string) schedule.Record {
	enabled := true
	if rj.Enabled != nil {
		enabled = *rj.Enabled
	}
	return schedule.Record{
		ID:      id,
		Owner:   owner,
		Time:    rj.Time,
		Action:  schedule.Action(rj.Action),
		Enabled: enabled,
		Repeat:  rj.Repeat,
	}
}

// flatten converts the nested owner→id→record tree into a flat record
// sequence with ID and Owner injected, sorted by owner then id so both
// strategies produce identical sequences from the same data. Malformed
// records are skipped individually.
func flatten(t tree, log zerolog.Logger, mets *metrics.Metrics) []schedule.Record {
	var records []schedule.Record

	owners := make([]string, 0, len(t))
	for owner := range t {
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	for _, owner := range owners {
		ids := make([]string, 0, len(t[owner]))
		for id := range t[owner] {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			rec := t[owner][id].toRecord(id, owner)
			if !rec.Valid() {
				log.Warn().
					Str("owner", owner).
					Str("schedule_id", id).
					Str("time", rec.Time).
					Str("action", string(rec.Action)).
					Msg("skipping malformed schedule record")
				mets.MalformedRecords.Inc()
				continue
			}
			records = append(records, rec)
		}
	}
	return records
}
