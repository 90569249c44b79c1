package games

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrHandFinished = errors.New("hand is already finished")
	ErrCannotDouble = errors.New("double down is only allowed on the first two cards")
)

// Suit of a playing card
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

func (s Suit) String() string {
	return [...]string{"♠", "♥", "♦", "♣"}[s]
}

// Card is a playing card. Rank runs 1 (ace) to 13 (king).
type Card struct {
	Rank int
	Suit Suit
}

func (c Card) String() string {
	var rank string
	switch c.Rank {
	case 1:
		rank = "A"
	case 11:
		rank = "J"
	case 12:
		rank = "Q"
	case 13:
		rank = "K"
	default:
		rank = fmt.Sprint(c.Rank)
	}
	return rank + c.Suit.String()
}

func (c Card) value() int {
	if c.Rank > 10 {
		return 10
	}
	return c.Rank
}

// BlackjackHand is the cards held by the player or the dealer
type BlackjackHand []Card

// Value returns the best total not exceeding 21 when possible, and whether an ace is
// counted as 11.
func (h BlackjackHand) Value() (total int, soft bool) {
	aces := 0
	for _, c := range h {
		total += c.value()
		if c.Rank == 1 {
			aces++
		}
	}
	if aces > 0 && total+10 <= 21 {
		return total + 10, true
	}
	return total, false
}

// Total returns the hand value
func (h BlackjackHand) Total() int {
	total, _ := h.Value()
	return total
}

// IsBlackjack reports a natural 21 on two cards
func (h BlackjackHand) IsBlackjack() bool {
	return len(h) == 2 && h.Total() == 21
}

// IsBust reports a total over 21
func (h BlackjackHand) IsBust() bool {
	return h.Total() > 21
}

func (h BlackjackHand) String() string {
	cards := make([]string, len(h))
	for i, c := range h {
		cards[i] = c.String()
	}
	return strings.Join(cards, " ")
}

// NewShoe returns a single 52-card deck shuffled with rng
func NewShoe(rng RandomSource) []Card {
	deck := make([]Card, 0, 52)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := 1; rank <= 13; rank++ {
			deck = append(deck, Card{Rank: rank, Suit: suit})
		}
	}
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}

// Blackjack is a single hand against the dealer. The dealer stands on every 17,
// soft 17 included. A natural pays 2.5x, a win 2x, a push refunds.
type Blackjack struct {
	Bet      int64
	Player   BlackjackHand
	Dealer   BlackjackHand
	Doubled  bool
	Finished bool
	Result   Result

	shoe []Card
}

// NewBlackjack deals a new hand from a fresh shoe. The hand is already finished when
// either side holds a natural.
func NewBlackjack(bet int64, rng RandomSource) (*Blackjack, error) {
	if err := ValidateBet(bet); err != nil {
		return nil, err
	}
	return NewBlackjackFromShoe(bet, NewShoe(rng)), nil
}

// NewBlackjackFromShoe deals from a prepared shoe: player, player, dealer, dealer, then
// every later draw in order. The shoe must hold enough cards for the whole hand.
func NewBlackjackFromShoe(bet int64, shoe []Card) *Blackjack {
	g := &Blackjack{Bet: bet, shoe: shoe}
	g.Player = append(g.Player, g.draw(), g.draw())
	g.Dealer = append(g.Dealer, g.draw(), g.draw())

	if g.Player.IsBlackjack() || g.Dealer.IsBlackjack() {
		g.finish()
	}
	return g
}

// Hit draws a card for the player. A bust ends the hand.
func (g *Blackjack) Hit() error {
	if g.Finished {
		return ErrHandFinished
	}
	g.Player = append(g.Player, g.draw())
	if g.Player.Total() >= 21 {
		g.dealerPlay()
	}
	return nil
}

// Stand ends the player's turn and plays out the dealer
func (g *Blackjack) Stand() error {
	if g.Finished {
		return ErrHandFinished
	}
	g.dealerPlay()
	return nil
}

// Double doubles the bet, draws exactly one card and stands. The caller must have
// collected the extra stake first.
func (g *Blackjack) Double() error {
	if g.Finished {
		return ErrHandFinished
	}
	if !g.CanDouble() {
		return ErrCannotDouble
	}
	g.Bet *= 2
	g.Doubled = true
	g.Player = append(g.Player, g.draw())
	g.dealerPlay()
	return nil
}

// CanDouble reports whether the player may still double down
func (g *Blackjack) CanDouble() bool {
	return !g.Finished && len(g.Player) == 2
}

// Forfeit ends the hand as a loss without playing the dealer
func (g *Blackjack) Forfeit() {
	if g.Finished {
		return
	}
	g.Finished = true
	g.Result = settle(GameBlackjack, g.Bet, OutcomeLoss, 0, 1)
}

func (g *Blackjack) dealerPlay() {
	if !g.Player.IsBust() {
		for g.Dealer.Total() < 17 {
			g.Dealer = append(g.Dealer, g.draw())
		}
	}
	g.finish()
}

func (g *Blackjack) finish() {
	g.Finished = true

	player, dealer := g.Player.Total(), g.Dealer.Total()
	switch {
	case g.Player.IsBlackjack() && g.Dealer.IsBlackjack():
		g.Result = settle(GameBlackjack, g.Bet, OutcomePush, 0, 1)
	case g.Player.IsBlackjack():
		g.Result = settle(GameBlackjack, g.Bet, OutcomeWin, 5, 2)
	case g.Player.IsBust():
		g.Result = settle(GameBlackjack, g.Bet, OutcomeLoss, 0, 1)
	case g.Dealer.IsBlackjack(), dealer <= 21 && dealer > player:
		g.Result = settle(GameBlackjack, g.Bet, OutcomeLoss, 0, 1)
	case g.Dealer.IsBust(), player > dealer:
		g.Result = settle(GameBlackjack, g.Bet, OutcomeWin, 2, 1)
	default:
		g.Result = settle(GameBlackjack, g.Bet, OutcomePush, 0, 1)
	}
}

func (g *Blackjack) draw() Card {
	c := g.shoe[0]
	g.shoe = g.shoe[1:]
	return c
}
