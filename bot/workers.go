package bot

import (
	"context"
	"sync"
	"time"

	"guildbot/domain/entities"
	"guildbot/infrastructure/metrics"

	log "github.com/sirupsen/logrus"
)

// Poller fires every scheduled message that is due at now
type Poller interface {
	PollAndFire(ctx context.Context, now time.Time) (*entities.FireReport, error)
}

// StartScheduleWorker polls for due scheduled messages every interval, starting
// immediately. Returns a cleanup function that stops the worker and waits for it.
func StartScheduleWorker(ctx context.Context, poller Poller, interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	stopChan := make(chan struct{})
	done := make(chan struct{})

	poll := func() {
		start := time.Now()
		report, err := poller.PollAndFire(ctx, start)
		metrics.ObservePoll(report, err, time.Since(start))

		if err != nil {
			log.Errorf("Error polling scheduled messages: %v", err)
		}
	}

	go func() {
		defer close(done)
		defer ticker.Stop()
		log.WithField("interval", interval).Info("Schedule worker started")

		poll()

		for {
			select {
			case <-ctx.Done():
				log.Info("Schedule worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Schedule worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				poll()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(stopChan) })
		<-done
	}
}
