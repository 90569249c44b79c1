package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"guildbot/domain"
	"guildbot/domain/entities"
)

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// NewRepeatRule builds a rule from the kind and the raw value the user typed. Only an
// unknown kind is rejected; a malformed value is kept so the job can still be stored.
func NewRepeatRule(kind, value string) (entities.RepeatRule, error) {
	rule := entities.RepeatRule{
		Kind:  entities.RepeatKind(strings.ToLower(strings.TrimSpace(kind))),
		Value: strings.TrimSpace(value),
	}

	switch rule.Kind {
	case entities.RepeatHourly:
		hours, err := strconv.Atoi(rule.Value)
		if err == nil {
			rule.Hours = hours
		}
	case entities.RepeatDaily, entities.RepeatWeekly, entities.RepeatMonthly:
	default:
		return rule, domain.NewValidationError("repeat", fmt.Sprintf("unknown repeat type %q", kind))
	}
	return rule, nil
}

// InitialTrigger returns the first time a recurring job should fire after now. The
// returned time is in now's location. An error means the rule value could not be parsed.
func InitialTrigger(rule entities.RepeatRule, now time.Time) (time.Time, error) {
	switch rule.Kind {
	case entities.RepeatHourly:
		if rule.Hours <= 0 {
			return time.Time{}, fmt.Errorf("%w: hourly interval must be positive, got %q", domain.ErrInvalidRepeatRule, rule.Value)
		}
		return now.Add(time.Duration(rule.Hours) * time.Hour), nil

	case entities.RepeatDaily:
		hour, minute, err := parseClock(rule.Value)
		if err != nil {
			return time.Time{}, err
		}
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}
		return next, nil

	case entities.RepeatWeekly:
		weekday, hour, minute, err := parseWeekly(rule.Value)
		if err != nil {
			return time.Time{}, err
		}
		daysAhead := (int(weekday) - int(now.Weekday()) + 7) % 7
		next := time.Date(now.Year(), now.Month(), now.Day()+daysAhead, hour, minute, 0, 0, now.Location())
		if !next.After(now) {
			next = next.AddDate(0, 0, 7)
		}
		return next, nil

	case entities.RepeatMonthly:
		day, hour, minute, err := parseMonthly(rule.Value)
		if err != nil {
			return time.Time{}, err
		}
		next := monthlyOccurrence(now.Year(), now.Month(), day, hour, minute, now.Location())
		if !next.After(now) {
			next = monthlyOccurrence(now.Year(), now.Month()+1, day, hour, minute, now.Location())
		}
		return next, nil
	}

	return time.Time{}, fmt.Errorf("%w: unknown repeat type %q", domain.ErrInvalidRepeatRule, rule.Kind)
}

// Advance returns the next trigger time after current. The result is always strictly
// later than current.
func Advance(rule entities.RepeatRule, current time.Time) (time.Time, error) {
	switch rule.Kind {
	case entities.RepeatHourly:
		if rule.Hours <= 0 {
			return time.Time{}, fmt.Errorf("%w: hourly interval must be positive, got %d", domain.ErrInvalidRepeatRule, rule.Hours)
		}
		return current.Add(time.Duration(rule.Hours) * time.Hour), nil

	case entities.RepeatDaily:
		return current.AddDate(0, 0, 1), nil

	case entities.RepeatWeekly:
		return current.AddDate(0, 0, 7), nil

	case entities.RepeatMonthly:
		// Same day next month; a day the next month lacks moves to the 1st of the month
		// after. Once moved, the job keeps the new day.
		return monthlyOccurrence(current.Year(), current.Month()+1, current.Day(), current.Hour(), current.Minute(), current.Location()), nil
	}

	return time.Time{}, fmt.Errorf("%w: unknown repeat type %q", domain.ErrInvalidRepeatRule, rule.Kind)
}

// Describe renders a rule for display
func Describe(rule entities.RepeatRule) string {
	switch rule.Kind {
	case entities.RepeatHourly:
		if rule.Hours == 1 {
			return "every hour"
		}
		return fmt.Sprintf("every %d hours", rule.Hours)
	case entities.RepeatDaily:
		return "daily at " + rule.Value
	case entities.RepeatWeekly:
		return "weekly on " + rule.Value
	case entities.RepeatMonthly:
		return "monthly on day " + rule.Value
	}
	return string(rule.Kind)
}

// monthlyOccurrence returns day/hour:minute in the given month, or the 1st of the
// following month when the month is too short. month may overflow.
func monthlyOccurrence(year int, month time.Month, day, hour, minute int, loc *time.Location) time.Time {
	first := time.Date(year, month, 1, hour, minute, 0, 0, loc)
	if day > daysIn(first.Year(), first.Month()) {
		return first.AddDate(0, 1, 0)
	}
	return time.Date(first.Year(), first.Month(), day, hour, minute, 0, 0, loc)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func parseClock(value string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, 0, domain.NewValidationError("time", fmt.Sprintf("expected HH:MM, got %q", value))
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, domain.NewValidationError("time", fmt.Sprintf("invalid hour in %q", value))
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, domain.NewValidationError("time", fmt.Sprintf("invalid minute in %q", value))
	}
	return hour, minute, nil
}

func parseWeekly(value string) (time.Weekday, int, int, error) {
	fields := strings.Fields(value)
	if len(fields) != 2 {
		return 0, 0, 0, domain.NewValidationError("repeat", fmt.Sprintf("expected \"mon HH:MM\", got %q", value))
	}
	weekday, ok := weekdays[strings.ToLower(fields[0])]
	if !ok {
		return 0, 0, 0, domain.NewValidationError("repeat", fmt.Sprintf("unknown weekday %q", fields[0]))
	}
	hour, minute, err := parseClock(fields[1])
	if err != nil {
		return 0, 0, 0, err
	}
	return weekday, hour, minute, nil
}

func parseMonthly(value string) (int, int, int, error) {
	fields := strings.Fields(value)
	if len(fields) != 2 {
		return 0, 0, 0, domain.NewValidationError("repeat", fmt.Sprintf("expected \"DD HH:MM\", got %q", value))
	}
	day, err := strconv.Atoi(fields[0])
	if err != nil || day < 1 || day > 31 {
		return 0, 0, 0, domain.NewValidationError("repeat", fmt.Sprintf("invalid day of month %q", fields[0]))
	}
	hour, minute, err := parseClock(fields[1])
	if err != nil {
		return 0, 0, 0, err
	}
	return day, hour, minute, nil
}
