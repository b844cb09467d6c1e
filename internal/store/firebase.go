package store

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/sweeney/led-scheduler/internal/metrics"
	"github.com/sweeney/led-scheduler/internal/schedule"
)

// SDKSource reads the schedule tree through the Firebase Admin SDK using a
// service-account credentials file. This is the privileged strategy: it
// works regardless of the store's public-read rules.
type SDKSource struct {
	ref     *db.Ref
	timeout time.Duration
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// NewSDKSource initializes the Admin SDK against the given database URL.
// Returns an error if the credentials file is unusable or the app cannot be
// initialized; callers fall back to the REST strategy in that case.
func NewSDKSource(ctx context.Context, databaseURL, credentialsFile string, timeout time.Duration, log zerolog.Logger, mets *metrics.Metrics) (*SDKSource, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: databaseURL}, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("init database client: %w", err)
	}

	return &SDKSource{
		ref:     client.NewRef(schedulesPath),
		timeout: timeout,
		log:     log,
		metrics: mets,
	}, nil
}

// Fetch returns the flattened schedule set, or an empty slice on any
// transport or decode failure.
func (s *SDKSource) Fetch(ctx context.Context) []schedule.Record {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var t tree
	if err := s.ref.Get(ctx, &t); err != nil {
		s.log.Error().Err(err).Msg("schedule fetch failed")
		s.metrics.FetchFailures.Inc()
		return nil
	}
	return flatten(t, s.log, s.metrics)
}

// Mode identifies the SDK strategy.
func (s *SDKSource) Mode() string {
	return "sdk"
}
