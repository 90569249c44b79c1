package events

import (
	"time"

	"guildbot/domain/entities"
)

// EventType names an event; subscribers register per type.
type EventType string

const (
	EventTypeBalanceChange          EventType = "balance_change"
	EventTypeGameSettled            EventType = "game_settled"
	EventTypeScheduledMessageFired  EventType = "scheduled_message_fired"
	EventTypeScheduledMessageFailed EventType = "scheduled_message_failed"
)

// Event is anything published on a Bus.
type Event interface {
	Type() EventType
}

// BalanceChangeEvent mirrors one balance_history row.
type BalanceChangeEvent struct {
	GuildID         int64                    `json:"guild_id"`
	UserID          int64                    `json:"user_id"`
	OldBalance      int64                    `json:"old_balance"`
	NewBalance      int64                    `json:"new_balance"`
	TransactionType entities.TransactionType `json:"transaction_type"`
	ChangeAmount    int64                    `json:"change_amount"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// GameSettledEvent is emitted once per resolved mini-game
type GameSettledEvent struct {
	GuildID int64  `json:"guild_id"`
	UserID  int64  `json:"user_id"`
	Game    string `json:"game"`
	Stake   int64  `json:"stake"`
	Payout  int64  `json:"payout"`
	Won     bool   `json:"won"`
}

func (e GameSettledEvent) Type() EventType {
	return EventTypeGameSettled
}

// ScheduledMessageFiredEvent is emitted after a scheduled message was posted
type ScheduledMessageFiredEvent struct {
	JobID       string    `json:"job_id"`
	GuildID     int64     `json:"guild_id"`
	ChannelID   int64     `json:"channel_id"`
	Recurring   bool      `json:"recurring"`
	TriggerTime time.Time `json:"trigger_time"`
}

func (e ScheduledMessageFiredEvent) Type() EventType {
	return EventTypeScheduledMessageFired
}

// ScheduledMessageFailedEvent is emitted when posting a scheduled message failed
type ScheduledMessageFailedEvent struct {
	JobID     string `json:"job_id"`
	GuildID   int64  `json:"guild_id"`
	ChannelID int64  `json:"channel_id"`
	Reason    string `json:"reason"`
}

func (e ScheduledMessageFailedEvent) Type() EventType {
	return EventTypeScheduledMessageFailed
}
