// Command led-scheduler polls the schedule store and commands the LED server
// when schedules come due.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/led-scheduler/internal/actuator"
	"github.com/sweeney/led-scheduler/internal/config"
	"github.com/sweeney/led-scheduler/internal/metrics"
	"github.com/sweeney/led-scheduler/internal/mqtt"
	"github.com/sweeney/led-scheduler/internal/schedule"
	"github.com/sweeney/led-scheduler/internal/status"
	"github.com/sweeney/led-scheduler/internal/store"
	"github.com/sweeney/led-scheduler/internal/web"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "", "YAML config file path")
	storeURL := flag.String("store", "", "Schedule store base URL")
	actuatorURL := flag.String("actuator", "", "LED server base URL")
	credentials := flag.String("credentials", "", "Firebase service-account credentials file")
	interval := flag.Duration("interval", 0, "Poll interval")
	broker := flag.String("broker", "", "MQTT broker address (empty to disable)")
	heartbeat := flag.Duration("heartbeat", -1, "Heartbeat interval (0 to disable)")
	httpAddr := flag.String("http", "", "HTTP status address (empty to disable)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	pretty := flag.Bool("pretty", false, "Human-readable console logging")
	printSchedules := flag.Bool("print-schedules", false, "Fetch schedules once, print them, and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Flags set explicitly win over file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "store":
			cfg.StoreURL = *storeURL
		case "actuator":
			cfg.ActuatorURL = *actuatorURL
		case "credentials":
			cfg.CredentialsFile = *credentials
		case "interval":
			cfg.Interval = *interval
		case "broker":
			cfg.Broker = *broker
		case "heartbeat":
			cfg.Heartbeat = *heartbeat
		case "http":
			cfg.HTTPAddr = *httpAddr
		case "log-level":
			cfg.LogLevel = *logLevel
		case "pretty":
			cfg.LogPretty = *pretty
		}
	})

	log := newLogger(cfg)

	if err := run(cfg, log, *printSchedules); err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var log zerolog.Logger
	if cfg.LogPretty {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(level).With().Timestamp().Logger()
}

func run(cfg config.Config, log zerolog.Logger, printSchedules bool) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()
	registry := prometheus.NewRegistry()
	mets := metrics.New(registry)

	src := store.Select(ctx, cfg.StoreURL, cfg.CredentialsFile, cfg.FetchTimeout,
		log.With().Str("component", "store").Logger(), mets)

	// Print mode: one fetch, no loop.
	if printSchedules {
		for _, rec := range src.Fetch(ctx) {
			fmt.Printf("%s\t%s\t%s\t%s\tenabled=%v\trepeat=%v\n",
				rec.Owner, rec.ID, rec.Time, rec.Action, rec.Enabled, rec.Repeat)
		}
		return nil
	}

	act := actuator.NewHTTPClient(cfg.ActuatorURL, cfg.ActuatorTimeout)

	// Initialize MQTT
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if cfg.Broker != "" {
		real, err := mqtt.NewRealPublisher(cfg.Broker, log.With().Str("component", "mqtt").Logger())
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer real.Close()
		publisher = real
		mqttStatus = real
	}

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		IntervalMs:        cfg.Interval.Milliseconds(),
		FetchTimeoutMs:    cfg.FetchTimeout.Milliseconds(),
		ActuatorTimeoutMs: cfg.ActuatorTimeout.Milliseconds(),
		HeartbeatMs:       cfg.Heartbeat.Milliseconds(),
		StoreURL:          cfg.StoreURL,
		ActuatorURL:       cfg.ActuatorURL,
		Broker:            cfg.Broker,
		HTTPAddr:          cfg.HTTPAddr,
		StoreMode:         src.Mode(),
	})

	// Publish startup event with full status snapshot
	if publisher != nil {
		snap := tracker.Snapshot()
		startupEvent := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := publisher.PublishSystem(startupEvent); err != nil {
			log.Warn().Err(err).Msg("failed to publish startup event")
		} else {
			log.Info().Msg("published startup event")
		}
	}

	// Start HTTP status server
	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker, registry)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("http server error")
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http status server listening")
	}

	log.Info().
		Dur("interval", cfg.Interval).
		Str("store", cfg.StoreURL).
		Str("store_mode", src.Mode()).
		Str("actuator", cfg.ActuatorURL).
		Str("broker", cfg.Broker).
		Msg("started")

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(src, act, publisher, mqttStatus, tracker, mets, log,
		cfg.Heartbeat, time.Now, ticker.C, sigCh)
}

// runLoop is the scheduling core: a strictly serial tick-fetch-evaluate-act
// cycle. It owns the execution ledger and never exits on a tick failure;
// only a signal ends it.
func runLoop(src store.Source, act actuator.Client, publisher mqtt.Publisher,
	mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, mets *metrics.Metrics,
	log zerolog.Logger, heartbeat time.Duration,
	now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {

	ledger := schedule.NewLedger()
	lastHeartbeat := now()

	for {
		select {
		case s := <-sig:
			log.Info().Str("signal", signalName(s)).Msg("shutting down")
			if publisher != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event := mqtt.SystemEvent{
					Timestamp:  snap.Now,
					Event:      "SHUTDOWN",
					Reason:     signalName(s),
					Retained:   true,
					RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName(s)),
				}
				if err := publisher.PublishSystem(event); err != nil {
					log.Warn().Err(err).Msg("failed to publish shutdown event")
				} else {
					log.Info().Msg("published shutdown event")
				}
			}
			return nil

		case <-tick:
			runTick(src, act, publisher, tracker, mets, log, ledger, now)

			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}

			// Check for heartbeat
			t := now()
			if publisher != nil && heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				snap := tracker.Snapshot()
				hbEvent := mqtt.SystemEvent{
					Timestamp:  t,
					Event:      "HEARTBEAT",
					RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Warn().Err(err).Msg("heartbeat publish error")
				} else {
					log.Debug().
						Int("ticks", snap.TickCount).
						Int("ledger", snap.LedgerSize).
						Msg("heartbeat")
				}
			}
		}
	}
}

// runTick executes one fetch-evaluate-act cycle. A panic anywhere in the
// tick is recovered and turns it into a no-op tick; the loop keeps running.
func runTick(src store.Source, act actuator.Client, publisher mqtt.Publisher,
	tracker *status.Tracker, mets *metrics.Metrics, log zerolog.Logger,
	ledger *schedule.Ledger, now func() time.Time) {

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("tick abandoned after panic")
			mets.RecoveredTicks.Inc()
		}
	}()

	t := now()
	nowHHMM := t.Format(schedule.TimeLayout)
	day := schedule.WeekdayToken(t.Weekday())
	today := t.Format(schedule.DateLayout)
	mets.Ticks.Inc()

	ctx := context.Background()
	records := src.Fetch(ctx)
	mets.RecordsSeen.Add(float64(len(records)))

	for _, rec := range records {
		if !schedule.IsDue(rec, nowHHMM, day, today, ledger) {
			continue
		}

		log.Info().
			Str("owner", rec.Owner).
			Str("schedule_id", rec.ID).
			Str("action", string(rec.Action)).
			Str("at", rec.Time).
			Msg("executing schedule")

		if err := act.Send(ctx, rec.Action); err != nil {
			// Schedule stays unmarked; a still-due record retries next tick.
			log.Error().Err(err).
				Str("owner", rec.Owner).
				Str("schedule_id", rec.ID).
				Msg("actuation failed")
			mets.ActuationFailures.Inc()
			tracker.RecordFailure()
			continue
		}

		ledger.MarkExecuted(rec.Key(), today)
		mets.Executions.WithLabelValues(string(rec.Action)).Inc()
		tracker.RecordExecution(status.Execution{
			ScheduleID: rec.ID,
			Owner:      rec.Owner,
			Action:     rec.Action,
			At:         rec.Time,
			Time:       t,
		})

		if publisher != nil {
			event := mqtt.ExecutionEvent{
				Timestamp:  t,
				ScheduleID: rec.ID,
				Owner:      rec.Owner,
				Action:     rec.Action,
				At:         rec.Time,
				OneTime:    rec.OneTime(),
			}
			if err := publisher.PublishExecution(event); err != nil {
				log.Warn().Err(err).Msg("execution event publish error")
			}
		}
	}

	tracker.RecordTick(t, len(records), ledger.Len())
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
