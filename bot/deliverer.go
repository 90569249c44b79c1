package bot

import (
	"context"

	"guildbot/bot/common"
	"guildbot/domain"

	"github.com/bwmarrin/discordgo"
)

type channelSender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// ChannelDeliverer posts scheduled messages through the Discord session
type ChannelDeliverer struct {
	sender channelSender
}

func NewChannelDeliverer(s *discordgo.Session) *ChannelDeliverer {
	return &ChannelDeliverer{sender: s}
}

// Deliver posts content to the channel. Only user mentions ping.
func (d *ChannelDeliverer) Deliver(ctx context.Context, channelID int64, content string) error {
	_, err := d.sender.ChannelMessageSendComplex(common.FormatUserID(channelID), &discordgo.MessageSend{
		Content: common.Truncate(content, common.MaxMessageLength),
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return &domain.DeliveryError{ChannelID: channelID, Err: err}
	}
	return nil
}
