package blackjack

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

// Player actions on an open hand
const (
	ActionHit    = "hit"
	ActionStand  = "stand"
	ActionDouble = "double"
)

// Stakes moves interactive game stakes on the ledger
type Stakes interface {
	OpenStake(ctx context.Context, guildID, userID int64, game string, stake int64) (int64, error)
	SettleStake(ctx context.Context, guildID, userID int64, result games.Result) (*interfaces.GameSettlement, error)
}

// Table is one player's open hand
type Table struct {
	GuildID int64
	UserID  int64
	Game    *games.Blackjack

	// Interaction is the slash command that opened the table; its response is the
	// message the hand is drawn on.
	Interaction *discordgo.Interaction
}

// TimeoutNotifier is told about a hand that was forfeited for inactivity
type TimeoutNotifier func(table *Table, settlement *interfaces.GameSettlement)

// Dealer runs blackjack hands against the ledger
type Dealer struct {
	stakes   Stakes
	newGame  func(bet int64) (*games.Blackjack, error)
	tables   *session.Manager[*Table]
	onExpire TimeoutNotifier
}

// NewDealer creates a dealer whose idle hands are forfeited after timeout
func NewDealer(stakes Stakes, rng games.RandomSource, timeout time.Duration, onExpire TimeoutNotifier) *Dealer {
	d := &Dealer{
		stakes:   stakes,
		onExpire: onExpire,
		newGame: func(bet int64) (*games.Blackjack, error) {
			return games.NewBlackjack(bet, rng)
		},
	}
	d.tables = session.NewManager[*Table](games.GameBlackjack, timeout, d.forfeit)
	return d
}

func tableKey(guildID, userID int64) string {
	return fmt.Sprintf("%d:%d", guildID, userID)
}

// Deal takes the stake and deals a new hand. A hand decided by a natural is settled
// immediately and the returned settlement is non-nil.
func (d *Dealer) Deal(ctx context.Context, guildID, userID, bet int64, interaction *discordgo.Interaction) (*Table, *interfaces.GameSettlement, error) {
	key := tableKey(guildID, userID)
	if d.tables.Has(key) {
		return nil, nil, session.ErrSessionExists
	}

	game, err := d.newGame(bet)
	if err != nil {
		return nil, nil, err
	}

	if _, err := d.stakes.OpenStake(ctx, guildID, userID, games.GameBlackjack, bet); err != nil {
		return nil, nil, err
	}

	table := &Table{GuildID: guildID, UserID: userID, Game: game, Interaction: interaction}
	if game.Finished {
		settlement, err := d.stakes.SettleStake(ctx, guildID, userID, game.Result)
		return table, settlement, err
	}

	if err := d.tables.Open(key, table); err != nil {
		// Lost a race with a concurrent deal; hand the stake back.
		if _, refundErr := d.stakes.SettleStake(ctx, guildID, userID, games.Result{
			Game: games.GameBlackjack, Bet: bet, Payout: bet, Outcome: games.OutcomePush,
		}); refundErr != nil {
			log.WithError(refundErr).Error("Failed to refund blackjack stake")
		}
		return nil, nil, err
	}
	return table, nil, nil
}

// Play applies an action to the player's open hand. The settlement is non-nil once the
// hand is over.
func (d *Dealer) Play(ctx context.Context, guildID, userID int64, action string) (*Table, *interfaces.GameSettlement, error) {
	table, finished, err := d.tables.Act(tableKey(guildID, userID), func(t *Table) (bool, error) {
		switch action {
		case ActionHit:
			if err := t.Game.Hit(); err != nil {
				return false, err
			}
		case ActionStand:
			if err := t.Game.Stand(); err != nil {
				return false, err
			}
		case ActionDouble:
			if !t.Game.CanDouble() {
				return false, games.ErrCannotDouble
			}
			if _, err := d.stakes.OpenStake(ctx, guildID, userID, games.GameBlackjack, t.Game.Bet); err != nil {
				return false, err
			}
			if err := t.Game.Double(); err != nil {
				return false, err
			}
		default:
			return false, fmt.Errorf("unknown blackjack action %q", action)
		}
		return t.Game.Finished, nil
	})
	if err != nil || !finished {
		return table, nil, err
	}

	settlement, err := d.stakes.SettleStake(ctx, guildID, userID, table.Game.Result)
	return table, settlement, err
}

// Close drops all open hands, e.g. on shutdown
func (d *Dealer) Close() {
	d.tables.Close()
}

func (d *Dealer) forfeit(key string, table *Table) {
	table.Game.Forfeit()

	settlement, err := d.stakes.SettleStake(context.Background(), table.GuildID, table.UserID, table.Game.Result)
	if err != nil {
		log.WithFields(log.Fields{
			"guild_id": table.GuildID,
			"user_id":  table.UserID,
			"error":    err,
		}).Error("Failed to settle forfeited blackjack hand")
		return
	}

	if d.onExpire != nil {
		d.onExpire(table, settlement)
	}
}
