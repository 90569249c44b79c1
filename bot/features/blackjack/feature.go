package blackjack

import (
	"context"
	"errors"
	"strings"
	"time"

	"guildbot/bot/common"
	"guildbot/bot/session"
	"guildbot/domain/games"
	"guildbot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature serves /blackjack and its buttons
type Feature struct {
	session *discordgo.Session
	dealer  *Dealer
}

// NewFeature creates the blackjack feature
func NewFeature(s *discordgo.Session, stakes Stakes, rng games.RandomSource, timeout time.Duration) *Feature {
	f := &Feature{session: s}
	f.dealer = NewDealer(stakes, rng, timeout, f.handleTimeout)
	return f
}

// Close forgets open hands
func (f *Feature) Close() {
	f.dealer.Close()
}

// HandleCommand deals a new hand
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, userID, err := common.GuildAndUser(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	bet := common.IntOption(common.OptionMap(i.ApplicationCommandData().Options), "bet", 0)
	table, settlement, err := f.dealer.Deal(context.Background(), guildID, userID, bet, i.Interaction)
	if err != nil {
		common.HandleError(s, i, translate(err), false)
		return
	}

	if err := common.RespondWithEmbed(s, i, tableEmbed(table, settlement, false), tableComponents(table), false); err != nil {
		log.Errorf("Error responding to blackjack command: %v", err)
	}
}

// HandleInteraction handles the hit, stand and double buttons
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, userID, err := common.GuildAndUser(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	action, ownerID, err := common.ParseComponentID(componentPrefix, i.MessageComponentData().CustomID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "bad blackjack button"), false)
		return
	}
	if ownerID != userID {
		common.HandleError(s, i, common.NewUserError("This isn't your hand. Start your own with `/blackjack`.", "foreign blackjack button"), false)
		return
	}

	table, settlement, err := f.dealer.Play(context.Background(), guildID, userID, action)
	if err != nil {
		common.HandleError(s, i, translate(err), false)
		return
	}

	if err := common.UpdateComponentMessage(s, i, tableEmbed(table, settlement, false), tableComponents(table)); err != nil {
		log.Errorf("Error updating blackjack table: %v", err)
	}
}

func (f *Feature) handleTimeout(table *Table, settlement *interfaces.GameSettlement) {
	if table.Interaction == nil {
		return
	}
	if err := common.EditOriginal(f.session, table.Interaction, tableEmbed(table, settlement, true), nil); err != nil {
		log.WithError(err).Warn("Failed to update timed out blackjack table")
	}
}

// IsBlackjackComponent reports whether a custom ID belongs to this feature
func IsBlackjackComponent(customID string) bool {
	return strings.HasPrefix(customID, componentPrefix+"_")
}

func translate(err error) error {
	switch {
	case errors.Is(err, session.ErrSessionExists):
		return common.NewUserError("You already have a hand in play. Finish it first!", err.Error())
	case errors.Is(err, session.ErrSessionNotFound):
		return common.NewUserError("This hand is over. Start a new one with `/blackjack`.", err.Error())
	}
	return err
}
