package entities

import "time"

// JobType discriminates the stored scheduled message variants
type JobType string

const (
	JobTypeOnce      JobType = "once"
	JobTypeRecurring JobType = "recurring"
)

// RepeatKind is the recurrence unit of a recurring job
type RepeatKind string

const (
	RepeatHourly  RepeatKind = "hourly"
	RepeatDaily   RepeatKind = "daily"
	RepeatWeekly  RepeatKind = "weekly"
	RepeatMonthly RepeatKind = "monthly"
)

// RepeatRule describes how a recurring job advances. Value keeps the text the user
// entered ("3", "09:30", "mon 09:30", "15 09:30"); Hours is the parsed interval for
// hourly rules.
type RepeatRule struct {
	Kind  RepeatKind
	Value string
	Hours int
}

// ScheduledJob is implemented by OneTimeJob and RecurringJob
type ScheduledJob interface {
	Header() *JobHeader
	Type() JobType
}

// JobHeader holds the fields shared by every scheduled message
type JobHeader struct {
	ID          string
	GuildID     int64
	ChannelID   int64
	UserID      int64
	TriggerTime time.Time
	Message     string
	CreatedAt   time.Time
}

// OneTimeJob fires once and is then removed
type OneTimeJob struct {
	JobHeader
}

func (j *OneTimeJob) Header() *JobHeader { return &j.JobHeader }
func (j *OneTimeJob) Type() JobType      { return JobTypeOnce }

// RecurringJob fires repeatedly, advancing its trigger time by Rule after each fire
type RecurringJob struct {
	JobHeader
	Rule RepeatRule
}

func (j *RecurringJob) Header() *JobHeader { return &j.JobHeader }
func (j *RecurringJob) Type() JobType      { return JobTypeRecurring }
