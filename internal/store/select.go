package store

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/led-scheduler/internal/metrics"
)

// Select picks the retrieval strategy once at startup. The SDK strategy is
// used when a credentials file is configured, present, and initializes
// cleanly; anything else falls back to the public REST endpoint. The choice
// is fixed for the process lifetime.
func Select(ctx context.Context, databaseURL, credentialsFile string, timeout time.Duration, log zerolog.Logger, mets *metrics.Metrics) Source {
	if credentialsFile == "" {
		log.Info().Msg("no credentials file configured, using REST fallback")
		return NewRESTSource(databaseURL, timeout, log, mets)
	}

	if _, err := os.Stat(credentialsFile); err != nil {
		log.Warn().Err(err).Str("credentials", credentialsFile).
			Msg("credentials file not readable, using REST fallback")
		return NewRESTSource(databaseURL, timeout, log, mets)
	}

	src, err := NewSDKSource(ctx, databaseURL, credentialsFile, timeout, log, mets)
	if err != nil {
		log.Warn().Err(err).Msg("firebase init failed, using REST fallback")
		return NewRESTSource(databaseURL, timeout, log, mets)
	}

	log.Info().Msg("firebase admin SDK initialized")
	return src
}
