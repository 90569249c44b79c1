package repository

import (
	"context"
	"testing"
	"time"

	"guildbot/domain/entities"
	"guildbot/repository/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduledJobRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewScheduledJobRepository(testDB.DB)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	onceID := uuid.NewString()
	recurringID := uuid.NewString()
	futureID := uuid.NewString()

	once := testutil.CreateTestOneTimeJob(onceID, testGuild, now.Add(-time.Minute))
	rec := testutil.CreateTestRecurringJob(recurringID, testGuild, now.Add(-2*time.Minute),
		entities.RepeatRule{Kind: entities.RepeatHourly, Value: "3", Hours: 3})
	future := testutil.CreateTestOneTimeJob(futureID, testGuild+1, now.Add(time.Hour))

	for _, job := range []entities.ScheduledJob{once, rec, future} {
		require.NoError(t, repo.Create(ctx, job))
	}

	t.Run("get due returns both variants oldest first", func(t *testing.T) {
		due, err := repo.GetDue(ctx, now)
		require.NoError(t, err)
		require.Len(t, due, 2)

		first, ok := due[0].(*entities.RecurringJob)
		require.True(t, ok)
		assert.Equal(t, recurringID, first.ID)
		assert.Equal(t, entities.RepeatHourly, first.Rule.Kind)
		assert.Equal(t, 3, first.Rule.Hours)

		second, ok := due[1].(*entities.OneTimeJob)
		require.True(t, ok)
		assert.Equal(t, onceID, second.ID)
		assert.Equal(t, "reminder", second.Message)
	})

	t.Run("list by guild", func(t *testing.T) {
		jobs, err := repo.ListByGuild(ctx, testGuild+1)
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, futureID, jobs[0].Header().ID)
	})

	t.Run("get by id is guild scoped", func(t *testing.T) {
		job, err := repo.GetByID(ctx, testGuild, onceID)
		require.NoError(t, err)
		require.NotNil(t, job)

		job, err = repo.GetByID(ctx, testGuild+1, onceID)
		require.NoError(t, err)
		assert.Nil(t, job)

		job, err = repo.GetByID(ctx, testGuild, "not-a-uuid")
		require.NoError(t, err)
		assert.Nil(t, job)
	})

	t.Run("update trigger time", func(t *testing.T) {
		next := now.Add(3 * time.Hour)
		require.NoError(t, repo.UpdateTriggerTime(ctx, recurringID, next))

		job, err := repo.GetByID(ctx, testGuild, recurringID)
		require.NoError(t, err)
		assert.True(t, next.Equal(job.Header().TriggerTime))

		assert.Error(t, repo.UpdateTriggerTime(ctx, uuid.NewString(), next))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, onceID))
		require.NoError(t, repo.Delete(ctx, onceID))

		due, err := repo.GetDue(ctx, now)
		require.NoError(t, err)
		assert.Empty(t, due)
	})
}

func TestScheduledJobRepository_RejectsInconsistentRow(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	_, err := testDB.DB.Exec(ctx, `
		INSERT INTO scheduled_messages (id, guild_id, channel_id, user_id, trigger_time, message, type, repeat_type, is_recurring)
		VALUES ($1, 1, 2, 3, NOW(), 'x', 'once', 'daily', FALSE)
	`, uuid.NewString())
	assert.Error(t, err)
}
