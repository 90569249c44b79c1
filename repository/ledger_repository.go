package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guildbot/database"
	"guildbot/domain/entities"

	"github.com/jackc/pgx/v5"
)

// LedgerRepository implements the LedgerRepository interface for one guild
type LedgerRepository struct {
	q       Queryable
	guildID int64
}

// NewLedgerRepository creates a ledger repository on the pool, scoped to guildID
func NewLedgerRepository(db *database.DB, guildID int64) *LedgerRepository {
	return &LedgerRepository{q: db.Pool, guildID: guildID}
}

// NewLedgerRepositoryScoped creates a ledger repository with a transaction and guild scope
func NewLedgerRepositoryScoped(tx Queryable, guildID int64) *LedgerRepository {
	return &LedgerRepository{q: tx, guildID: guildID}
}

const ledgerColumns = `guild_id, user_id, balance, last_daily, wins, losses, created_at, updated_at`

// GetEntry retrieves a user's ledger entry in the current guild
func (r *LedgerRepository) GetEntry(ctx context.Context, userID int64) (*entities.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM gambling_balances WHERE guild_id = $1 AND user_id = $2`

	entry, err := scanEntry(r.q.QueryRow(ctx, query, r.guildID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entry for user %d in guild %d: %w", userID, r.guildID, err)
	}
	return entry, nil
}

// GetOrCreateForUpdate creates the entry if missing and locks it for the transaction
func (r *LedgerRepository) GetOrCreateForUpdate(ctx context.Context, userID int64, startingBalance int64) (*entities.LedgerEntry, error) {
	insert := `
		INSERT INTO gambling_balances (guild_id, user_id, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, user_id) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, insert, r.guildID, userID, startingBalance); err != nil {
		return nil, fmt.Errorf("failed to create ledger entry for user %d in guild %d: %w", userID, r.guildID, err)
	}

	query := `SELECT ` + ledgerColumns + ` FROM gambling_balances WHERE guild_id = $1 AND user_id = $2 FOR UPDATE`
	entry, err := scanEntry(r.q.QueryRow(ctx, query, r.guildID, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock ledger entry for user %d in guild %d: %w", userID, r.guildID, err)
	}
	return entry, nil
}

// SetBalance upserts the user's balance
func (r *LedgerRepository) SetBalance(ctx context.Context, userID int64, amount int64) error {
	query := `
		INSERT INTO gambling_balances (guild_id, user_id, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, user_id)
		DO UPDATE SET balance = EXCLUDED.balance, updated_at = NOW()
	`
	if _, err := r.q.Exec(ctx, query, r.guildID, userID, amount); err != nil {
		return fmt.Errorf("failed to set balance for user %d in guild %d: %w", userID, r.guildID, err)
	}
	return nil
}

// AddBalance applies delta. Debits are refused when they would overdraw; credits always
// apply, even to a negative balance.
func (r *LedgerRepository) AddBalance(ctx context.Context, userID int64, delta int64) (int64, bool, error) {
	query := `
		UPDATE gambling_balances
		SET balance = balance + $3::bigint, updated_at = NOW()
		WHERE guild_id = $1 AND user_id = $2 AND ($3::bigint >= 0 OR balance + $3::bigint >= 0)
		RETURNING balance
	`

	var balance int64
	err := r.q.QueryRow(ctx, query, r.guildID, userID, delta).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to update balance for user %d in guild %d: %w", userID, r.guildID, err)
	}
	return balance, true, nil
}

// ClaimDaily credits amount unless last_daily already equals today
func (r *LedgerRepository) ClaimDaily(ctx context.Context, userID int64, today time.Time, amount int64, startingBalance int64) (int64, bool, error) {
	query := `
		INSERT INTO gambling_balances (guild_id, user_id, balance, last_daily)
		VALUES ($1, $2, $3::bigint + $4::bigint, $5::date)
		ON CONFLICT (guild_id, user_id) DO UPDATE
		SET balance = gambling_balances.balance + $4, last_daily = $5, updated_at = NOW()
		WHERE gambling_balances.last_daily IS DISTINCT FROM $5
		RETURNING balance
	`

	var balance int64
	err := r.q.QueryRow(ctx, query, r.guildID, userID, startingBalance, amount, dateOnly(today)).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to claim daily for user %d in guild %d: %w", userID, r.guildID, err)
	}
	return balance, true, nil
}

// RecordOutcome bumps the aggregate and per-game counters
func (r *LedgerRepository) RecordOutcome(ctx context.Context, userID int64, game string, won bool) error {
	wins, losses := 0, 1
	if won {
		wins, losses = 1, 0
	}

	aggregate := `
		INSERT INTO gambling_balances (guild_id, user_id, balance, wins, losses)
		VALUES ($1, $2, 0, $3, $4)
		ON CONFLICT (guild_id, user_id) DO UPDATE
		SET wins = gambling_balances.wins + $3, losses = gambling_balances.losses + $4, updated_at = NOW()
	`
	if _, err := r.q.Exec(ctx, aggregate, r.guildID, userID, wins, losses); err != nil {
		return fmt.Errorf("failed to record outcome for user %d in guild %d: %w", userID, r.guildID, err)
	}

	perGame := `
		INSERT INTO gambling_game_stats (guild_id, user_id, game, wins, losses)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (guild_id, user_id, game) DO UPDATE
		SET wins = gambling_game_stats.wins + $4, losses = gambling_game_stats.losses + $5
	`
	if _, err := r.q.Exec(ctx, perGame, r.guildID, userID, game, wins, losses); err != nil {
		return fmt.Errorf("failed to record %s outcome for user %d in guild %d: %w", game, userID, r.guildID, err)
	}
	return nil
}

// GetLeaderboard returns the top balances in the guild
func (r *LedgerRepository) GetLeaderboard(ctx context.Context, limit int) ([]*entities.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM gambling_balances
		WHERE guild_id = $1
		ORDER BY balance DESC, user_id
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, r.guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard for guild %d: %w", r.guildID, err)
	}
	defer rows.Close()

	var entries []*entities.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetGameStats returns per-game counters for a user
func (r *LedgerRepository) GetGameStats(ctx context.Context, userID int64) ([]*entities.GameStats, error) {
	query := `
		SELECT game, wins, losses
		FROM gambling_game_stats
		WHERE guild_id = $1 AND user_id = $2
		ORDER BY game
	`

	rows, err := r.q.Query(ctx, query, r.guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game stats for user %d in guild %d: %w", userID, r.guildID, err)
	}
	defer rows.Close()

	stats := make([]*entities.GameStats, 0)
	for rows.Next() {
		var s entities.GameStats
		if err := rows.Scan(&s.Game, &s.Wins, &s.Losses); err != nil {
			return nil, fmt.Errorf("failed to scan game stats: %w", err)
		}
		stats = append(stats, &s)
	}
	return stats, rows.Err()
}

func scanEntry(row pgx.Row) (*entities.LedgerEntry, error) {
	var e entities.LedgerEntry
	err := row.Scan(
		&e.GuildID,
		&e.UserID,
		&e.Balance,
		&e.LastDaily,
		&e.Wins,
		&e.Losses,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// dateOnly drops the clock and zone so the DATE column stores the calendar day of t
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
