package schedule

import (
	"errors"
	"testing"
	"time"

	"guildbot/domain"
	"guildbot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seoul = time.FixedZone("KST", 9*60*60)

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, seoul)
}

func TestNewRepeatRule(t *testing.T) {
	rule, err := NewRepeatRule("Hourly", " 3 ")
	require.NoError(t, err)
	assert.Equal(t, entities.RepeatHourly, rule.Kind)
	assert.Equal(t, 3, rule.Hours)

	rule, err = NewRepeatRule("hourly", "abc")
	require.NoError(t, err)
	assert.Equal(t, 0, rule.Hours)

	_, err = NewRepeatRule("yearly", "1")
	var validationErr *domain.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name    string
		rule    entities.RepeatRule
		current time.Time
		want    time.Time
	}{
		{"hourly", entities.RepeatRule{Kind: entities.RepeatHourly, Value: "2", Hours: 2}, at(2024, 3, 1, 10, 0), at(2024, 3, 1, 12, 0)},
		{"daily", entities.RepeatRule{Kind: entities.RepeatDaily, Value: "09:30"}, at(2024, 3, 1, 9, 30), at(2024, 3, 2, 9, 30)},
		{"weekly", entities.RepeatRule{Kind: entities.RepeatWeekly, Value: "fri 18:00"}, at(2024, 3, 1, 18, 0), at(2024, 3, 8, 18, 0)},
		{"monthly", entities.RepeatRule{Kind: entities.RepeatMonthly, Value: "15 09:00"}, at(2024, 1, 15, 9, 0), at(2024, 2, 15, 9, 0)},
		{"monthly day missing", entities.RepeatRule{Kind: entities.RepeatMonthly, Value: "31 10:00"}, at(2024, 1, 31, 10, 0), at(2024, 3, 1, 10, 0)},
		{"monthly after clamp keeps the 1st", entities.RepeatRule{Kind: entities.RepeatMonthly, Value: "31 10:00"}, at(2024, 3, 1, 10, 0), at(2024, 4, 1, 10, 0)},
		{"monthly year rollover", entities.RepeatRule{Kind: entities.RepeatMonthly, Value: "10 08:00"}, at(2024, 12, 10, 8, 0), at(2025, 1, 10, 8, 0)},
		{"monthly malformed uses current day", entities.RepeatRule{Kind: entities.RepeatMonthly, Value: "soon"}, at(2024, 4, 20, 7, 0), at(2024, 5, 20, 7, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Advance(tt.rule, tt.current)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			assert.True(t, got.After(tt.current))
		})
	}
}

func TestAdvance_InvalidRule(t *testing.T) {
	_, err := Advance(entities.RepeatRule{Kind: entities.RepeatHourly, Hours: 0}, at(2024, 1, 1, 0, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidRepeatRule)

	_, err = Advance(entities.RepeatRule{Kind: entities.RepeatHourly, Hours: -4}, at(2024, 1, 1, 0, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidRepeatRule)

	_, err = Advance(entities.RepeatRule{Kind: "fortnightly"}, at(2024, 1, 1, 0, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidRepeatRule)
}

func TestInitialTrigger(t *testing.T) {
	// Friday 2024-03-01 10:00 KST
	now := at(2024, 3, 1, 10, 0)

	tests := []struct {
		name string
		rule entities.RepeatRule
		want time.Time
	}{
		{"hourly", entities.RepeatRule{Kind: entities.RepeatHourly, Value: "3", Hours: 3}, at(2024, 3, 1, 13, 0)},
		{"daily later today", entities.RepeatRule{Kind: entities.RepeatDaily, Value: "18:00"}, at(2024, 3, 1, 18, 0)},
		{"daily already passed", entities.RepeatRule{Kind: entities.RepeatDaily, Value: "09:00"}, at(2024, 3, 2, 9, 0)},
		{"daily exactly now", entities.RepeatRule{Kind: entities.RepeatDaily, Value: "10:00"}, at(2024, 3, 2, 10, 0)},
		{"weekly next monday", entities.RepeatRule{Kind: entities.RepeatWeekly, Value: "mon 09:30"}, at(2024, 3, 4, 9, 30)},
		{"weekly same day later", entities.RepeatRule{Kind: entities.RepeatWeekly, Value: "friday 11:00"}, at(2024, 3, 1, 11, 0)},
		{"weekly same day passed", entities.RepeatRule{Kind: entities.RepeatWeekly, Value: "fri 09:00"}, at(2024, 3, 8, 9, 0)},
		{"monthly this month", entities.RepeatRule{Kind: entities.RepeatMonthly, Value: "15 09:30"}, at(2024, 3, 15, 9, 30)},
		{"monthly passed", entities.RepeatRule{Kind: entities.RepeatMonthly, Value: "1 09:00"}, at(2024, 4, 1, 9, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InitialTrigger(tt.rule, now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestInitialTrigger_Malformed(t *testing.T) {
	now := at(2024, 3, 1, 10, 0)

	malformed := []entities.RepeatRule{
		{Kind: entities.RepeatHourly, Value: "x"},
		{Kind: entities.RepeatDaily, Value: "25:00"},
		{Kind: entities.RepeatDaily, Value: "nine"},
		{Kind: entities.RepeatWeekly, Value: "funday 10:00"},
		{Kind: entities.RepeatMonthly, Value: "32 10:00"},
		{Kind: entities.RepeatMonthly, Value: "15"},
	}

	for _, rule := range malformed {
		_, err := InitialTrigger(rule, now)
		assert.Error(t, err, "rule %+v", rule)
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "every hour", Describe(entities.RepeatRule{Kind: entities.RepeatHourly, Hours: 1}))
	assert.Equal(t, "every 6 hours", Describe(entities.RepeatRule{Kind: entities.RepeatHourly, Hours: 6}))
	assert.Equal(t, "weekly on mon 09:30", Describe(entities.RepeatRule{Kind: entities.RepeatWeekly, Value: "mon 09:30"}))
}

func TestAdvance_MonthlyFiresOncePerMonth(t *testing.T) {
	rule := entities.RepeatRule{Kind: entities.RepeatMonthly, Value: "31 09:00"}
	current := at(2025, 1, 31, 9, 0)

	var chain []time.Time
	seen := map[time.Month]bool{}
	for range 5 {
		next, err := Advance(rule, current)
		require.NoError(t, err)
		assert.False(t, seen[next.Month()], "second occurrence in %s", next.Month())
		seen[next.Month()] = true
		chain = append(chain, next)
		current = next
	}

	assert.True(t, at(2025, 3, 1, 9, 0).Equal(chain[0]))
	assert.True(t, at(2025, 4, 1, 9, 0).Equal(chain[1]))
	assert.True(t, at(2025, 5, 1, 9, 0).Equal(chain[2]))
}
