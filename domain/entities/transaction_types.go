package entities

// TransactionType labels a balance_history row.
type TransactionType string

const (
	// Game transactions
	TransactionTypeGameStake  TransactionType = "game_stake"
	TransactionTypeGamePayout TransactionType = "game_payout"
	TransactionTypeGameRefund TransactionType = "game_refund"

	// Transfer transactions
	TransactionTypeTransferIn  TransactionType = "transfer_in"
	TransactionTypeTransferOut TransactionType = "transfer_out"

	// System transactions
	TransactionTypeDaily      TransactionType = "daily"
	TransactionTypeAdjustment TransactionType = "adjustment"
)
