package entities

import (
	"errors"
	"time"
)

// BalanceHistory is one recorded change to a ledger entry
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	GuildID             int64           `db:"guild_id"`
	UserID              int64           `db:"user_id"`
	BalanceBefore       int64           `db:"balance_before"`
	BalanceAfter        int64           `db:"balance_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	CreatedAt           time.Time       `db:"created_at"`
}

// Description returns a human-readable description of the transaction
func (bh *BalanceHistory) Description() string {
	switch bh.TransactionType {
	case TransactionTypeGameStake:
		return "Game stake"
	case TransactionTypeGamePayout:
		return "Game payout"
	case TransactionTypeGameRefund:
		return "Game refund"
	case TransactionTypeTransferIn:
		return "Transfer received"
	case TransactionTypeTransferOut:
		return "Transfer sent"
	case TransactionTypeDaily:
		return "Daily reward"
	case TransactionTypeAdjustment:
		return "Balance adjustment"
	default:
		return string(bh.TransactionType)
	}
}

// Validate checks that the record is internally consistent
func (bh *BalanceHistory) Validate() error {
	if bh.ChangeAmount == 0 {
		return errors.New("change amount cannot be zero")
	}
	if bh.BalanceAfter != bh.BalanceBefore+bh.ChangeAmount {
		return errors.New("balance calculation is inconsistent")
	}
	return nil
}
