package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"guildbot/domain"
)

const (
	dateTimeLayout = "2006-01-02 15:04"
	clockLayout    = "15:04"
)

// ParseWhen reads a trigger time relative to now, in now's location. Accepted forms:
// "2025-03-01 09:30", "09:30" (the next such time today or tomorrow), and offsets such
// as "30m", "2h", "1h30m" or "3d".
func ParseWhen(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, domain.NewValidationError("when", "is required")
	}
	loc := now.Location()

	if t, err := time.ParseInLocation(dateTimeLayout, input, loc); err == nil {
		return t, nil
	}

	if clock, err := time.ParseInLocation(clockLayout, input, loc); err == nil {
		t := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
		if !t.After(now) {
			t = t.AddDate(0, 0, 1)
		}
		return t, nil
	}

	if d, ok := parseOffset(input); ok {
		if d <= 0 {
			return time.Time{}, domain.NewValidationError("when", "offset must be positive")
		}
		return now.Add(d).Truncate(time.Second), nil
	}

	return time.Time{}, domain.NewValidationError("when",
		fmt.Sprintf("%q is not a time, use YYYY-MM-DD HH:MM, HH:MM or an offset like 30m", input))
}

func parseOffset(input string) (time.Duration, bool) {
	if days, ok := strings.CutSuffix(input, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, false
		}
		return time.Duration(n) * 24 * time.Hour, true
	}
	d, err := time.ParseDuration(input)
	if err != nil {
		return 0, false
	}
	return d, true
}
