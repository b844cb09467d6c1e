package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/led-scheduler/internal/metrics"
	"github.com/sweeney/led-scheduler/internal/schedule"
)

// RESTSource reads the schedule tree through the store's public REST
// endpoint. It only works when the store allows unauthenticated reads; it is
// the fallback used when no credentials are available.
type RESTSource struct {
	url     string
	client  *http.Client
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// NewRESTSource creates a source reading GET <baseURL>/schedules.json with
// the given per-fetch timeout.
func NewRESTSource(baseURL string, timeout time.Duration, log zerolog.Logger, mets *metrics.Metrics) *RESTSource {
	return &RESTSource{
		url:     strings.TrimRight(baseURL, "/") + "/" + schedulesPath + ".json",
		client:  &http.Client{Timeout: timeout},
		log:     log,
		metrics: mets,
	}
}

// Fetch returns the flattened schedule set, or an empty slice on any
// transport, status, or parse failure.
func (s *RESTSource) Fetch(ctx context.Context) []schedule.Record {
	t, err := s.fetchTree(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("url", s.url).Msg("schedule fetch failed")
		s.metrics.FetchFailures.Inc()
		return nil
	}
	return flatten(t, s.log, s.metrics)
}

func (s *RESTSource) fetchTree(ctx context.Context) (tree, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get schedules: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get schedules: status %d", resp.StatusCode)
	}

	// The store returns the JSON literal "null" for an empty tree; that
	// decodes to a nil map, which flattens to no records.
	var t tree
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode schedules: %w", err)
	}
	return t, nil
}

// Mode identifies the REST strategy.
func (s *RESTSource) Mode() string {
	return "rest"
}
