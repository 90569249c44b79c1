package infrastructure

import (
	"fmt"

	"guildbot/events"
)

// SubjectPrefix roots every subject the bot publishes to.
const SubjectPrefix = "guildbot"

// MapEventToSubject converts a domain event to its NATS subject
func MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeBalanceChange:
		return SubjectPrefix + ".ledger.balance_changed"
	case events.EventTypeGameSettled:
		return SubjectPrefix + ".games.settled"
	case events.EventTypeScheduledMessageFired:
		return SubjectPrefix + ".scheduler.fired"
	case events.EventTypeScheduledMessageFailed:
		return SubjectPrefix + ".scheduler.failed"
	default:
		return fmt.Sprintf("%s.unknown.%s", SubjectPrefix, event.Type())
	}
}

// ForwardedEventTypes lists the event types sent to NATS.
func ForwardedEventTypes() []events.EventType {
	return []events.EventType{
		events.EventTypeBalanceChange,
		events.EventTypeGameSettled,
		events.EventTypeScheduledMessageFired,
		events.EventTypeScheduledMessageFailed,
	}
}
