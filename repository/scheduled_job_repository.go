package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"guildbot/database"
	"guildbot/domain/entities"

	"github.com/jackc/pgx/v5"
)

// ScheduledJobRepository stores scheduled messages for every guild
type ScheduledJobRepository struct {
	q Queryable
}

// NewScheduledJobRepository creates a new scheduled message repository
func NewScheduledJobRepository(db *database.DB) *ScheduledJobRepository {
	return &ScheduledJobRepository{q: db.Pool}
}

const jobColumns = `id::text, guild_id, channel_id, user_id, trigger_time, message, created_at, type, repeat_type, repeat_value`

// Create inserts a one-time or recurring job
func (r *ScheduledJobRepository) Create(ctx context.Context, job entities.ScheduledJob) error {
	h := job.Header()

	var repeatType, repeatValue *string
	recurring := false
	if rj, ok := job.(*entities.RecurringJob); ok {
		kind := string(rj.Rule.Kind)
		repeatType = &kind
		repeatValue = &rj.Rule.Value
		recurring = true
	}

	query := `
		INSERT INTO scheduled_messages (
			id, guild_id, channel_id, user_id, trigger_time, message,
			created_at, type, repeat_type, repeat_value, is_recurring
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.q.Exec(ctx, query,
		h.ID,
		h.GuildID,
		h.ChannelID,
		h.UserID,
		h.TriggerTime,
		h.Message,
		h.CreatedAt,
		string(job.Type()),
		repeatType,
		repeatValue,
		recurring,
	)
	if err != nil {
		return fmt.Errorf("failed to create scheduled message %s in guild %d: %w", h.ID, h.GuildID, err)
	}
	return nil
}

// GetDue returns all jobs with trigger_time <= now, oldest first
func (r *ScheduledJobRepository) GetDue(ctx context.Context, now time.Time) ([]entities.ScheduledJob, error) {
	query := `SELECT ` + jobColumns + ` FROM scheduled_messages WHERE trigger_time <= $1 ORDER BY trigger_time`
	return r.queryJobs(ctx, query, now)
}

// ListByGuild returns a guild's jobs ordered by trigger time
func (r *ScheduledJobRepository) ListByGuild(ctx context.Context, guildID int64) ([]entities.ScheduledJob, error) {
	query := `SELECT ` + jobColumns + ` FROM scheduled_messages WHERE guild_id = $1 ORDER BY trigger_time`
	return r.queryJobs(ctx, query, guildID)
}

// GetByID returns the job, or nil if it is not in the guild
func (r *ScheduledJobRepository) GetByID(ctx context.Context, guildID int64, id string) (entities.ScheduledJob, error) {
	query := `SELECT ` + jobColumns + ` FROM scheduled_messages WHERE guild_id = $1 AND id::text = $2`

	job, err := scanJob(r.q.QueryRow(ctx, query, guildID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduled message %s in guild %d: %w", id, guildID, err)
	}
	return job, nil
}

// UpdateTriggerTime moves a job to its next trigger time
func (r *ScheduledJobRepository) UpdateTriggerTime(ctx context.Context, id string, triggerTime time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE scheduled_messages SET trigger_time = $2 WHERE id = $1`, id, triggerTime)
	if err != nil {
		return fmt.Errorf("failed to update trigger time of scheduled message %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("scheduled message %s no longer exists", id)
	}
	return nil
}

// Delete removes a job. Deleting a missing job is not an error.
func (r *ScheduledJobRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM scheduled_messages WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete scheduled message %s: %w", id, err)
	}
	return nil
}

func (r *ScheduledJobRepository) queryJobs(ctx context.Context, query string, args ...any) ([]entities.ScheduledJob, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled messages: %w", err)
	}
	defer rows.Close()

	jobs := make([]entities.ScheduledJob, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheduled message: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func scanJob(row pgx.Row) (entities.ScheduledJob, error) {
	var h entities.JobHeader
	var jobType string
	var repeatType, repeatValue *string

	err := row.Scan(
		&h.ID,
		&h.GuildID,
		&h.ChannelID,
		&h.UserID,
		&h.TriggerTime,
		&h.Message,
		&h.CreatedAt,
		&jobType,
		&repeatType,
		&repeatValue,
	)
	if err != nil {
		return nil, err
	}

	switch entities.JobType(jobType) {
	case entities.JobTypeOnce:
		return &entities.OneTimeJob{JobHeader: h}, nil
	case entities.JobTypeRecurring:
		if repeatType == nil {
			return nil, fmt.Errorf("recurring message %s has no repeat type", h.ID)
		}
		rule := entities.RepeatRule{Kind: entities.RepeatKind(*repeatType)}
		if repeatValue != nil {
			rule.Value = *repeatValue
		}
		if rule.Kind == entities.RepeatHourly {
			rule.Hours, _ = strconv.Atoi(rule.Value)
		}
		return &entities.RecurringJob{JobHeader: h, Rule: rule}, nil
	}
	return nil, fmt.Errorf("scheduled message %s has unknown type %q", h.ID, jobType)
}
