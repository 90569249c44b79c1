package ladder

import (
	"context"
	"fmt"
	"time"

	"guildbot/bot/session"
	"guildbot/domain/games"
	"guildbot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Stakes moves interactive game stakes on the ledger
type Stakes interface {
	OpenStake(ctx context.Context, guildID, userID int64, game string, stake int64) (int64, error)
	SettleStake(ctx context.Context, guildID, userID int64, result games.Result) (*interfaces.GameSettlement, error)
}

// Board is an open ladder waiting for the player's pick
type Board struct {
	GuildID int64
	UserID  int64
	Bet     int64
	Ladder  *games.Ladder
	Result  *games.LadderResult

	Interaction *discordgo.Interaction
}

// Host runs ladder boards against the ledger
type Host struct {
	stakes   Stakes
	rng      games.RandomSource
	boards   *session.Manager[*Board]
	onExpire func(board *Board, settlement *interfaces.GameSettlement)
}

// NewHost creates a host whose unpicked boards are forfeited after timeout
func NewHost(stakes Stakes, rng games.RandomSource, timeout time.Duration, onExpire func(*Board, *interfaces.GameSettlement)) *Host {
	h := &Host{stakes: stakes, rng: rng, onExpire: onExpire}
	h.boards = session.NewManager[*Board](games.GameLadder, timeout, h.forfeit)
	return h
}

func boardKey(guildID, userID int64) string {
	return fmt.Sprintf("%d:%d", guildID, userID)
}

// Open builds a board and takes the stake
func (h *Host) Open(ctx context.Context, guildID, userID, bet int64, columns int, interaction *discordgo.Interaction) (*Board, error) {
	key := boardKey(guildID, userID)
	if h.boards.Has(key) {
		return nil, session.ErrSessionExists
	}
	if err := games.ValidateBet(bet); err != nil {
		return nil, err
	}

	ladder, err := games.NewLadder(columns, h.rng)
	if err != nil {
		return nil, err
	}

	if _, err := h.stakes.OpenStake(ctx, guildID, userID, games.GameLadder, bet); err != nil {
		return nil, err
	}

	board := &Board{GuildID: guildID, UserID: userID, Bet: bet, Ladder: ladder, Interaction: interaction}
	if err := h.boards.Open(key, board); err != nil {
		if _, refundErr := h.stakes.SettleStake(ctx, guildID, userID, games.Result{
			Game: games.GameLadder, Bet: bet, Payout: bet, Outcome: games.OutcomePush,
		}); refundErr != nil {
			log.WithError(refundErr).Error("Failed to refund ladder stake")
		}
		return nil, err
	}
	return board, nil
}

// Pick resolves the board from a 0-based start column
func (h *Host) Pick(ctx context.Context, guildID, userID int64, start int) (*Board, *interfaces.GameSettlement, error) {
	board, finished, err := h.boards.Act(boardKey(guildID, userID), func(b *Board) (bool, error) {
		result, err := b.Ladder.Play(b.Bet, start)
		if err != nil {
			return false, err
		}
		b.Result = result
		return true, nil
	})
	if err != nil || !finished {
		return board, nil, err
	}

	settlement, err := h.stakes.SettleStake(ctx, guildID, userID, board.Result.Result)
	return board, settlement, err
}

// Close drops all open boards
func (h *Host) Close() {
	h.boards.Close()
}

func (h *Host) forfeit(_ string, board *Board) {
	result := games.Result{Game: games.GameLadder, Bet: board.Bet, Outcome: games.OutcomeLoss}
	settlement, err := h.stakes.SettleStake(context.Background(), board.GuildID, board.UserID, result)
	if err != nil {
		log.WithFields(log.Fields{
			"guild_id": board.GuildID,
			"user_id":  board.UserID,
			"error":    err,
		}).Error("Failed to settle forfeited ladder")
		return
	}
	if h.onExpire != nil {
		h.onExpire(board, settlement)
	}
}
