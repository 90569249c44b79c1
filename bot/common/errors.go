package common

import (
	"errors"
	"fmt"

	"guildbot/domain"
	"guildbot/domain/games"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// BotError carries the text shown to the member separately from what gets logged.
type BotError struct {
	UserMessage string
	LogMessage  string
	Err         error
}

func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError rejects a request the member can fix. It is logged at debug level.
func NewUserError(userMessage, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
	}
}

// NewSystemError wraps a failure the member cannot fix; they only see the generic reply.
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: genericFailure,
		LogMessage:  logMessage,
		Err:         err,
	}
}

// UserMessage turns an error into the text shown to the user. Anything that is not
// a user-facing domain error becomes the generic failure message.
func UserMessage(err error) string {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr.UserMessage
	}

	var fundsErr *domain.InsufficientFundsError
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &fundsErr):
		return fmt.Sprintf("Insufficient balance. You have **%s** but need **%s**.",
			FormatBits(fundsErr.Available), FormatBits(fundsErr.Required))
	case errors.As(err, &validationErr):
		return fmt.Sprintf("Invalid %s: %s.", validationErr.Field, validationErr.Reason)
	case errors.Is(err, domain.ErrDailyAlreadyClaimed):
		return "You already claimed your daily reward today. Come back tomorrow!"
	case errors.Is(err, domain.ErrJobNotFound):
		return "No scheduled message with that ID exists in this server."
	case errors.Is(err, domain.ErrNotJobOwner):
		return "Only the member who scheduled that message can cancel it."
	case errors.Is(err, games.ErrHandFinished):
		return "That hand is already over."
	case errors.Is(err, games.ErrCannotDouble):
		return "You can only double down on your first two cards."
	}
	return genericFailure
}

func isExpected(err error) bool {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr.Err == nil
	}
	return domain.IsUserFacing(err) ||
		errors.Is(err, games.ErrHandFinished) ||
		errors.Is(err, games.ErrCannotDouble)
}

func errorText(message string) string {
	return "❌ " + message
}

// RespondWithError answers the interaction with an ephemeral error line.
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := respond(s, i, discordgo.InteractionResponseChannelMessageWithSource, &discordgo.InteractionResponseData{
		Content: errorText(message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.WithField("interaction", InteractionName(i)).WithError(err).Error("Failed to send error response")
	}
}

// FollowUpWithError reports an error after the response was deferred.
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: errorText(message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.WithField("interaction", InteractionName(i)).WithError(err).Error("Failed to send error follow-up")
	}
}

// HandleError logs err and answers the interaction. User mistakes are logged at debug
// level; everything else is logged as an error and shown as a generic failure.
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	fields := log.Fields{
		"user_id":     InteractionUserID(i),
		"guild_id":    i.GuildID,
		"interaction": InteractionName(i),
		"error":       err.Error(),
	}
	if isExpected(err) {
		log.WithFields(fields).Debug("Rejected user request")
	} else {
		log.WithFields(fields).Error("Unexpected error in bot interaction")
	}

	message := UserMessage(err)
	if deferred {
		FollowUpWithError(s, i, message)
	} else {
		RespondWithError(s, i, message)
	}
}
