package instant

import (
	"context"

	"guildbot/bot/common"
	"guildbot/domain/games"
	"guildbot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature serves the instant games: /coinflip, /dice, /rps, /slots and /lottery
type Feature struct {
	economy common.Economy
	rng     games.RandomSource
}

// NewFeature creates the instant games feature
func NewFeature(economy common.Economy, rng games.RandomSource) *Feature {
	return &Feature{economy: economy, rng: rng}
}

// HandleCommand routes an instant game command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.OptionMap(i.ApplicationCommandData().Options)
	bet := common.IntOption(opts, "bet", 0)

	var (
		play  func() (games.Result, error)
		embed func(balance int64) *discordgo.MessageEmbed
	)

	switch i.ApplicationCommandData().Name {
	case "coinflip":
		call, err := games.ParseSide(common.StringOption(opts, "side", string(games.Heads)))
		if err != nil {
			common.HandleError(s, i, err, false)
			return
		}
		var res *games.CoinflipResult
		play = func() (games.Result, error) {
			res, err = games.Coinflip(bet, call, f.rng)
			if err != nil {
				return games.Result{}, err
			}
			return res.Result, nil
		}
		embed = func(balance int64) *discordgo.MessageEmbed { return coinflipEmbed(res, balance) }

	case "dice":
		var res *games.DiceResult
		play = func() (games.Result, error) {
			var err error
			if res, err = games.Dice(bet, f.rng); err != nil {
				return games.Result{}, err
			}
			return res.Result, nil
		}
		embed = func(balance int64) *discordgo.MessageEmbed { return diceEmbed(res, balance) }

	case "rps":
		hand, err := games.ParseHand(common.StringOption(opts, "hand", ""))
		if err != nil {
			common.HandleError(s, i, err, false)
			return
		}
		var res *games.RPSResult
		play = func() (games.Result, error) {
			if res, err = games.RockPaperScissors(bet, hand, f.rng); err != nil {
				return games.Result{}, err
			}
			return res.Result, nil
		}
		embed = func(balance int64) *discordgo.MessageEmbed { return rpsEmbed(res, balance) }

	case "slots":
		var res *games.SlotsResult
		play = func() (games.Result, error) {
			var err error
			if res, err = games.Slots(bet, f.rng); err != nil {
				return games.Result{}, err
			}
			return res.Result, nil
		}
		embed = func(balance int64) *discordgo.MessageEmbed { return slotsEmbed(res, balance) }

	case "lottery":
		bet = games.TicketPrice
		var res *games.LotteryResult
		play = func() (games.Result, error) {
			res = games.Lottery(f.rng)
			return res.Result, nil
		}
		embed = func(balance int64) *discordgo.MessageEmbed { return lotteryEmbed(res, balance) }

	default:
		return
	}

	f.play(s, i, bet, play, embed)
}

func (f *Feature) play(s *discordgo.Session, i *discordgo.InteractionCreate, bet int64, resolve func() (games.Result, error), render func(int64) *discordgo.MessageEmbed) {
	ctx := context.Background()

	guildID, userID, err := common.GuildAndUser(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var settlement *interfaces.GameSettlement
	err = f.economy.InGuild(ctx, guildID, func(_ interfaces.LedgerService, gaming interfaces.GamingService) error {
		settlement, err = gaming.PlayInstant(ctx, userID, bet, resolve)
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	log.WithFields(log.Fields{
		"guild_id": guildID,
		"user_id":  userID,
		"game":     settlement.Game,
		"bet":      settlement.Bet,
		"payout":   settlement.Payout,
	}).Debug("Instant game played")

	if err := common.RespondWithEmbed(s, i, render(settlement.BalanceAfter), nil, false); err != nil {
		log.Errorf("Error responding to %s: %v", common.InteractionName(i), err)
	}
}
