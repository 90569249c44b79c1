package ladder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"guildbot/bot/common"
	"guildbot/bot/session"
	"guildbot/domain/games"
	"guildbot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	componentPrefix = "ladder"
	pickAction      = "pick-"
	imageName       = "ladder.png"
	defaultColumns  = 4
)

// Feature serves /ladder and its column buttons
type Feature struct {
	session  *discordgo.Session
	host     *Host
	renderer *BoardRenderer
	timeout  time.Duration
}

// NewFeature creates the ladder feature
func NewFeature(s *discordgo.Session, stakes Stakes, rng games.RandomSource, timeout time.Duration) (*Feature, error) {
	renderer, err := NewBoardRenderer(DefaultBoardStyle)
	if err != nil {
		return nil, err
	}
	f := &Feature{session: s, renderer: renderer, timeout: timeout}
	f.host = NewHost(stakes, rng, timeout, f.handleTimeout)
	return f, nil
}

// Close forgets open boards
func (f *Feature) Close() {
	f.host.Close()
}

// IsLadderComponent reports whether a custom ID belongs to this feature
func IsLadderComponent(customID string) bool {
	return strings.HasPrefix(customID, componentPrefix+"_")
}

// HandleCommand opens a new board
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, userID, err := common.GuildAndUser(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	opts := common.OptionMap(i.ApplicationCommandData().Options)
	bet := common.IntOption(opts, "bet", 0)
	columns := int(common.IntOption(opts, "columns", defaultColumns))

	board, err := f.host.Open(context.Background(), guildID, userID, bet, columns, i.Interaction)
	if err != nil {
		common.HandleError(s, i, translate(err), false)
		return
	}

	png, err := f.renderer.Render(board.Ladder, nil)
	if err != nil {
		log.WithError(err).Error("Failed to render ladder board")
	}

	embed := boardEmbed(board, nil, false, png != nil)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Forfeited if no column is picked within " + common.FormatDuration(f.timeout)}
	data := &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: pickButtons(board),
	}
	if png != nil {
		data.Files = []*discordgo.File{{Name: imageName, ContentType: "image/png", Reader: bytes.NewReader(png)}}
	}
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.Errorf("Error responding to ladder command: %v", err)
	}
}

// HandleInteraction resolves a column pick
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, userID, err := common.GuildAndUser(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	start, ownerID, err := parsePick(i.MessageComponentData().CustomID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "bad ladder button"), false)
		return
	}
	if ownerID != userID {
		common.HandleError(s, i, common.NewUserError("This isn't your ladder. Start your own with `/ladder`.", "foreign ladder button"), false)
		return
	}

	board, settlement, err := f.host.Pick(context.Background(), guildID, userID, start)
	if err != nil {
		common.HandleError(s, i, translate(err), false)
		return
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		log.Errorf("Error acknowledging ladder pick: %v", err)
		return
	}

	var path []int
	if board.Result != nil {
		path = board.Ladder.Path(board.Result.Start)
	}
	f.editBoard(i.Interaction, board, settlement, path, false)
}

func (f *Feature) handleTimeout(board *Board, settlement *interfaces.GameSettlement) {
	if board.Interaction == nil {
		return
	}
	f.editBoard(board.Interaction, board, settlement, nil, true)
}

func (f *Feature) editBoard(interaction *discordgo.Interaction, board *Board, settlement *interfaces.GameSettlement, path []int, timedOut bool) {
	png, err := f.renderer.Render(board.Ladder, revealPath(path, timedOut))
	if err != nil {
		log.WithError(err).Error("Failed to render ladder board")
	}

	components := []discordgo.MessageComponent{}
	embeds := []*discordgo.MessageEmbed{boardEmbed(board, settlement, timedOut, png != nil)}
	edit := &discordgo.WebhookEdit{
		Embeds:      &embeds,
		Components:  &components,
		Attachments: &[]*discordgo.MessageAttachment{},
	}
	if png != nil {
		edit.Files = []*discordgo.File{{Name: imageName, ContentType: "image/png", Reader: bytes.NewReader(png)}}
	}

	if _, err := f.session.InteractionResponseEdit(interaction, edit); err != nil {
		log.WithError(err).Warn("Failed to update ladder board")
	}
}

// revealPath returns the path to draw; a timed out board is revealed without one.
func revealPath(path []int, timedOut bool) []int {
	if path == nil && timedOut {
		return []int{}
	}
	return path
}

func pickButtons(board *Board) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	var row []discordgo.MessageComponent
	for col := 0; col < board.Ladder.Columns; col++ {
		row = append(row, discordgo.Button{
			Label:    strconv.Itoa(col + 1),
			Style:    discordgo.PrimaryButton,
			CustomID: common.ComponentID(componentPrefix, pickAction+strconv.Itoa(col), board.UserID),
		})
		if len(row) == common.MaxButtonsPerRow {
			rows = append(rows, discordgo.ActionsRow{Components: row})
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: row})
	}
	return rows
}

func parsePick(customID string) (start int, ownerID int64, err error) {
	action, ownerID, err := common.ParseComponentID(componentPrefix, customID)
	if err != nil {
		return 0, 0, err
	}
	col, ok := strings.CutPrefix(action, pickAction)
	if !ok {
		return 0, 0, fmt.Errorf("unknown ladder action %q", action)
	}
	start, err = strconv.Atoi(col)
	if err != nil {
		return 0, 0, fmt.Errorf("bad ladder column %q: %w", col, err)
	}
	return start, ownerID, nil
}

func boardEmbed(board *Board, settlement *interfaces.GameSettlement, timedOut, withImage bool) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🪜 Ladder",
		Color: common.ColorPrimary,
		Description: fmt.Sprintf("%s bet **%s** on a %d-column ladder. One bottom slot pays **%dx**.\nPick a starting column!",
			common.GetUserMention(board.UserID), common.FormatBits(board.Bet), board.Ladder.Columns, board.Ladder.Columns),
	}
	if withImage {
		embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://" + imageName}
	}

	if settlement == nil {
		return embed
	}

	embed.Color = common.ColorDanger
	if settlement.Outcome == games.OutcomeWin {
		embed.Color = common.ColorSuccess
	}

	switch {
	case timedOut:
		embed.Description = "⏰ No column was picked in time, the ladder was forfeited."
	case board.Result != nil:
		embed.Description = fmt.Sprintf("Column **%d** led to slot **%d**. The prize was in slot **%d**.",
			board.Result.Start+1, board.Result.End+1, board.Ladder.WinningSlot+1)
	}
	embed.Description += "\n\n" + common.FormatGameResult(settlement.Result, settlement.BalanceAfter)
	return embed
}

func translate(err error) error {
	switch {
	case errors.Is(err, session.ErrSessionExists):
		return common.NewUserError("You already have a ladder open. Pick a column first!", err.Error())
	case errors.Is(err, session.ErrSessionNotFound):
		return common.NewUserError("This ladder is over. Start a new one with `/ladder`.", err.Error())
	}
	return err
}
