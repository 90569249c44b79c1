package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"guildbot/domain/entities"
	"guildbot/events"
)

var (
	// ScheduledMessagesFired counts scheduled messages that were posted.
	ScheduledMessagesFired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guildbot_scheduled_messages_fired_total",
			Help: "The total number of scheduled messages delivered.",
		},
		[]string{"job_type"},
	)

	// ScheduledDeliveryFailures counts scheduled messages the platform refused.
	ScheduledDeliveryFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "guildbot_scheduled_delivery_failures_total",
			Help: "The total number of scheduled messages that could not be delivered.",
		},
	)

	// SchedulerPersistenceFailures counts jobs whose advance or delete failed.
	SchedulerPersistenceFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "guildbot_scheduler_persistence_failures_total",
			Help: "The total number of scheduled jobs that could not be advanced or deleted.",
		},
	)

	// SchedulerPollErrors counts polls that failed to list due jobs.
	SchedulerPollErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "guildbot_scheduler_poll_errors_total",
			Help: "The total number of scheduler polls that failed outright.",
		},
	)

	// SchedulerPollDuration is a histogram of poll-and-fire passes.
	SchedulerPollDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "guildbot_scheduler_poll_duration_seconds",
			Help:    "A histogram of scheduler poll duration.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		},
	)

	// GamesSettled counts resolved mini-games by game and outcome.
	GamesSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guildbot_games_settled_total",
			Help: "The total number of mini-games settled.",
		},
		[]string{"game", "outcome"},
	)

	// BalanceChanges counts ledger mutations by transaction type.
	BalanceChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guildbot_balance_changes_total",
			Help: "The total number of balance changes.",
		},
		[]string{"transaction_type"},
	)

	// ActiveGameSessions shows interactive game sessions waiting for input.
	ActiveGameSessions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "guildbot_active_game_sessions",
			Help: "The number of interactive game sessions currently open.",
		},
		[]string{"game"},
	)
)

// ObservePoll records the outcome of one scheduler pass.
func ObservePoll(report *entities.FireReport, err error, elapsed time.Duration) {
	SchedulerPollDuration.Observe(elapsed.Seconds())
	if err != nil {
		SchedulerPollErrors.Inc()
	}
	if report == nil {
		return
	}
	ScheduledDeliveryFailures.Add(float64(report.DeliveryFailures))
	SchedulerPersistenceFailures.Add(float64(report.PersistenceFailures))
}

// Subscribe feeds event-derived counters from the in-process bus.
func Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventTypeGameSettled, func(_ context.Context, e events.Event) {
		settled, ok := e.(events.GameSettledEvent)
		if !ok {
			return
		}
		outcome := "loss"
		switch {
		case settled.Won:
			outcome = "win"
		case settled.Payout == settled.Stake:
			outcome = "push"
		}
		GamesSettled.WithLabelValues(settled.Game, outcome).Inc()
	})
	bus.Subscribe(events.EventTypeBalanceChange, func(_ context.Context, e events.Event) {
		if change, ok := e.(events.BalanceChangeEvent); ok {
			BalanceChanges.WithLabelValues(string(change.TransactionType)).Inc()
		}
	})
	bus.Subscribe(events.EventTypeScheduledMessageFired, func(_ context.Context, e events.Event) {
		fired, ok := e.(events.ScheduledMessageFiredEvent)
		if !ok {
			return
		}
		jobType := string(entities.JobTypeOnce)
		if fired.Recurring {
			jobType = string(entities.JobTypeRecurring)
		}
		ScheduledMessagesFired.WithLabelValues(jobType).Inc()
	})
}

// Server exposes /metrics for scraping.
type Server struct {
	srv *http.Server
}

// NewServer creates a metrics server listening on addr.
func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", s.srv.Addr).Info("Metrics server listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}
