package entities

import "time"

// LedgerEntry is a user's wallet inside one guild
type LedgerEntry struct {
	GuildID   int64      `db:"guild_id"`
	UserID    int64      `db:"user_id"`
	Balance   int64      `db:"balance"`
	LastDaily *time.Time `db:"last_daily"` // calendar date in the canonical timezone
	Wins      int        `db:"wins"`
	Losses    int        `db:"losses"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

// GamesPlayed returns the total number of recorded outcomes
func (e *LedgerEntry) GamesPlayed() int {
	return e.Wins + e.Losses
}

// WinRate returns the win percentage, or 0 when nothing was played
func (e *LedgerEntry) WinRate() float64 {
	played := e.GamesPlayed()
	if played == 0 {
		return 0
	}
	return float64(e.Wins) / float64(played) * 100
}

// GameStats holds per-game win/loss counters
type GameStats struct {
	Game   string `db:"game"`
	Wins   int    `db:"wins"`
	Losses int    `db:"losses"`
}

// UserStats aggregates a user's ledger entry with per-game counters
type UserStats struct {
	Entry  *LedgerEntry
	Games  []*GameStats
	Recent []*BalanceHistory
}

// Date truncates t to midnight of its calendar day in loc
func Date(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// SameDate reports whether a and b fall on the same calendar day
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
