package common

import (
	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func flagsFor(ephemeral bool) discordgo.MessageFlags {
	if ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, kind discordgo.InteractionResponseType, data *discordgo.InteractionResponseData) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{Type: kind, Data: data})
}

// DeferResponse acknowledges a slow command; the answer is sent later with FollowUpWithContent.
func DeferResponse(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) error {
	return respond(s, i, discordgo.InteractionResponseDeferredChannelMessageWithSource,
		&discordgo.InteractionResponseData{Flags: flagsFor(ephemeral)})
}

// RespondWithContent answers with plain text. Failures are only logged.
func RespondWithContent(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	err := respond(s, i, discordgo.InteractionResponseChannelMessageWithSource, &discordgo.InteractionResponseData{
		Content: Truncate(content, MaxMessageLength),
		Flags:   flagsFor(ephemeral),
	})
	if err != nil {
		log.WithField("interaction", InteractionName(i)).WithError(err).Error("Failed to send response")
	}
}

// RespondWithEmbed answers with one embed and optional component rows.
func RespondWithEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
		Flags:  flagsFor(ephemeral),
	}
	if len(components) > 0 {
		data.Components = components
	}
	return respond(s, i, discordgo.InteractionResponseChannelMessageWithSource, data)
}

// FollowUpWithContent fills in a deferred response.
func FollowUpWithContent(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	content = Truncate(content, MaxMessageLength)
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
		log.WithField("interaction", InteractionName(i)).WithError(err).Error("Failed to edit deferred response")
	}
}

// UpdateComponentMessage redraws the message a clicked component belongs to. Nil
// components remove every row.
func UpdateComponentMessage(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	return respond(s, i, discordgo.InteractionResponseUpdateMessage, &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: nonNilRows(components),
	})
}

// EditOriginal redraws an earlier response without a fresh interaction, used when a game
// session expires.
func EditOriginal(s *discordgo.Session, interaction *discordgo.Interaction, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	rows := nonNilRows(components)
	_, err := s.InteractionResponseEdit(interaction, &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &rows,
	})
	return err
}

// Discord keeps the old rows when the components field is omitted.
func nonNilRows(components []discordgo.MessageComponent) []discordgo.MessageComponent {
	if components == nil {
		return []discordgo.MessageComponent{}
	}
	return components
}
