package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"guildbot/domain"
	"guildbot/domain/entities"
	"guildbot/domain/interfaces"
	"guildbot/domain/schedule"
	"guildbot/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// MaxMessageLength is the longest message a channel accepts
const MaxMessageLength = 2000

type schedulerService struct {
	repo           interfaces.ScheduledJobRepository
	deliverer      interfaces.MessageDeliverer
	eventPublisher interfaces.EventPublisher
	location       *time.Location
	now            func() time.Time
	newID          func() string
}

// SchedulerOption customises a scheduler service
type SchedulerOption func(*schedulerService)

// WithClock replaces time.Now
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *schedulerService) { s.now = now }
}

// WithIDGenerator replaces the UUID generator
func WithIDGenerator(newID func() string) SchedulerOption {
	return func(s *schedulerService) { s.newID = newID }
}

// NewSchedulerService creates the scheduled message engine. All trigger times are
// normalised to location.
func NewSchedulerService(repo interfaces.ScheduledJobRepository, deliverer interfaces.MessageDeliverer, eventPublisher interfaces.EventPublisher, location *time.Location, opts ...SchedulerOption) interfaces.SchedulerService {
	s := &schedulerService{
		repo:           repo,
		deliverer:      deliverer,
		eventPublisher: eventPublisher,
		location:       location,
		now:            time.Now,
		newID:          uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *schedulerService) ScheduleOnce(ctx context.Context, guildID, channelID, userID int64, when time.Time, message string) (*entities.OneTimeJob, error) {
	message, err := validateMessage(message)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.location)
	when = when.In(s.location)
	if !when.After(now) {
		return nil, domain.NewValidationError("time", "must be in the future")
	}

	job := &entities.OneTimeJob{JobHeader: s.header(guildID, channelID, userID, when, message, now)}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, &domain.PersistenceError{Op: "create scheduled message", Err: err}
	}

	log.WithFields(log.Fields{
		"job_id":     job.ID,
		"guild_id":   guildID,
		"channel_id": channelID,
		"trigger":    when.Format(time.RFC3339),
	}).Info("Scheduled one-time message")

	return job, nil
}

func (s *schedulerService) ScheduleRecurring(ctx context.Context, guildID, channelID, userID int64, rule entities.RepeatRule, message string) (*entities.RecurringJob, error) {
	message, err := validateMessage(message)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.location)
	trigger, err := schedule.InitialTrigger(rule, now)
	if err != nil {
		// The job still gets stored and fires on the next poll.
		log.WithFields(log.Fields{
			"guild_id": guildID,
			"kind":     rule.Kind,
			"value":    rule.Value,
		}).WithError(err).Warn("Malformed repeat rule, first trigger set to now")
		trigger = now
	}

	job := &entities.RecurringJob{
		JobHeader: s.header(guildID, channelID, userID, trigger, message, now),
		Rule:      rule,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, &domain.PersistenceError{Op: "create scheduled message", Err: err}
	}

	log.WithFields(log.Fields{
		"job_id":     job.ID,
		"guild_id":   guildID,
		"channel_id": channelID,
		"rule":       schedule.Describe(rule),
		"trigger":    trigger.Format(time.RFC3339),
	}).Info("Scheduled recurring message")

	return job, nil
}

func (s *schedulerService) ListJobs(ctx context.Context, guildID int64) ([]entities.ScheduledJob, error) {
	jobs, err := s.repo.ListByGuild(ctx, guildID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list scheduled messages", Err: err}
	}
	for _, j := range jobs {
		h := j.Header()
		h.TriggerTime = h.TriggerTime.In(s.location)
	}
	return jobs, nil
}

func (s *schedulerService) CancelJob(ctx context.Context, guildID, userID int64, id string) error {
	job, err := s.repo.GetByID(ctx, guildID, id)
	if err != nil {
		return &domain.PersistenceError{Op: "get scheduled message", Err: err}
	}
	if job == nil {
		return domain.ErrJobNotFound
	}
	if job.Header().UserID != userID {
		return domain.ErrNotJobOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return &domain.PersistenceError{Op: "delete scheduled message", Err: err}
	}

	log.WithFields(log.Fields{
		"job_id":   id,
		"guild_id": guildID,
		"user_id":  userID,
	}).Info("Cancelled scheduled message")
	return nil
}

// PollAndFire delivers every due job. Each job is handled on its own: a failed delivery
// or a failed write is logged and counted, and the poll moves on. Only failing to list
// due jobs is returned as an error.
func (s *schedulerService) PollAndFire(ctx context.Context, now time.Time) (*entities.FireReport, error) {
	now = now.In(s.location)

	due, err := s.repo.GetDue(ctx, now)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list due scheduled messages", Err: err}
	}

	report := &entities.FireReport{Due: len(due)}
	for _, job := range due {
		if ctx.Err() != nil {
			log.WithField("fired", report.Delivered+report.DeliveryFailures).
				Warn("Poll cancelled before all due messages were fired")
			break
		}
		s.fire(ctx, job, report)
	}

	if report.Due > 0 {
		log.WithFields(log.Fields{
			"due":                  report.Due,
			"delivered":            report.Delivered,
			"delivery_failures":    report.DeliveryFailures,
			"persistence_failures": report.PersistenceFailures,
		}).Info("Scheduler poll complete")
	}
	return report, nil
}

func (s *schedulerService) fire(ctx context.Context, job entities.ScheduledJob, report *entities.FireReport) {
	h := job.Header()
	logger := log.WithFields(log.Fields{
		"job_id":     h.ID,
		"guild_id":   h.GuildID,
		"channel_id": h.ChannelID,
	})

	if err := s.deliverer.Deliver(ctx, h.ChannelID, h.Message); err != nil {
		var deliveryErr *domain.DeliveryError
		if !errors.As(err, &deliveryErr) {
			err = &domain.DeliveryError{ChannelID: h.ChannelID, Err: err}
		}
		logger.WithError(err).Warn("Failed to deliver scheduled message")
		report.DeliveryFailures++
		s.publish(events.ScheduledMessageFailedEvent{
			JobID:     h.ID,
			GuildID:   h.GuildID,
			ChannelID: h.ChannelID,
			Reason:    err.Error(),
		})
	} else {
		report.Delivered++
		s.publish(events.ScheduledMessageFiredEvent{
			JobID:       h.ID,
			GuildID:     h.GuildID,
			ChannelID:   h.ChannelID,
			Recurring:   job.Type() == entities.JobTypeRecurring,
			TriggerTime: h.TriggerTime,
		})
	}

	switch j := job.(type) {
	case *entities.OneTimeJob:
		s.delete(ctx, logger, j.ID, report)

	case *entities.RecurringJob:
		next, err := schedule.Advance(j.Rule, j.TriggerTime.In(s.location))
		if err != nil {
			logger.WithError(err).Warn("Recurring message has an invalid rule, removing it")
			s.delete(ctx, logger, j.ID, report)
			return
		}
		if err := s.repo.UpdateTriggerTime(ctx, j.ID, next); err != nil {
			logger.WithError(&domain.PersistenceError{Op: "advance scheduled message", Err: err}).
				Error("Failed to advance recurring message")
			report.PersistenceFailures++
			return
		}
		report.Advanced++
		logger.WithField("next", next.Format(time.RFC3339)).Debug("Advanced recurring message")

	default:
		logger.Errorf("Unknown scheduled message type %T", job)
	}
}

func (s *schedulerService) delete(ctx context.Context, logger *log.Entry, id string, report *entities.FireReport) {
	if err := s.repo.Delete(ctx, id); err != nil {
		logger.WithError(&domain.PersistenceError{Op: "delete scheduled message", Err: err}).
			Error("Failed to delete fired message")
		report.PersistenceFailures++
		return
	}
	report.Deleted++
}

func (s *schedulerService) publish(event events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish scheduler event")
	}
}

func (s *schedulerService) header(guildID, channelID, userID int64, trigger time.Time, message string, now time.Time) entities.JobHeader {
	return entities.JobHeader{
		ID:          s.newID(),
		GuildID:     guildID,
		ChannelID:   channelID,
		UserID:      userID,
		TriggerTime: trigger,
		Message:     message,
		CreatedAt:   now,
	}
}

func validateMessage(message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", domain.NewValidationError("message", "cannot be empty")
	}
	if n := utf8.RuneCountInString(message); n > MaxMessageLength {
		return "", domain.NewValidationError("message", fmt.Sprintf("must be at most %d characters, got %d", MaxMessageLength, n))
	}
	return message, nil
}
