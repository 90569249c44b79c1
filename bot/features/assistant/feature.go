package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"guildbot/bot/common"
	"guildbot/infrastructure/openai"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const requestTimeout = 60 * time.Second

// Assistant answers questions and translates text
type Assistant interface {
	Ask(ctx context.Context, question string) (string, error)
	Translate(ctx context.Context, text, language string) (string, error)
}

// Feature serves /ask and /translate
type Feature struct {
	assistant Assistant
}

// NewFeature creates the assistant feature
func NewFeature(assistant Assistant) *Feature {
	return &Feature{assistant: assistant}
}

// HandleCommand routes /ask and /translate
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.OptionMap(i.ApplicationCommandData().Options)

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring %s: %v", common.InteractionName(i), err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var (
		reply string
		err   error
	)
	switch i.ApplicationCommandData().Name {
	case "ask":
		question := common.StringOption(opts, "question", "")
		reply, err = f.assistant.Ask(ctx, question)
		reply = formatAnswer(question, reply)
	case "translate":
		reply, err = f.assistant.Translate(ctx, common.StringOption(opts, "text", ""), common.StringOption(opts, "language", ""))
	default:
		return
	}

	if err != nil {
		common.HandleError(s, i, translateError(err), true)
		return
	}
	common.FollowUpWithContent(s, i, reply)
}

func formatAnswer(question, answer string) string {
	if answer == "" {
		return ""
	}
	return fmt.Sprintf("> %s\n\n%s", common.Truncate(strings.ReplaceAll(question, "\n", " "), 80), answer)
}

func translateError(err error) error {
	switch {
	case errors.Is(err, openai.ErrEmptyPrompt):
		return common.NewUserError("Give me something to work with first.", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return common.NewUserError("The assistant took too long to answer. Try again in a moment.", err.Error())
	}
	return common.NewSystemError(err, "assistant request failed")
}
