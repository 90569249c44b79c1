package entities

// TransferResult holds both balances after a transfer
type TransferResult struct {
	Amount          int64
	SenderBalance   int64
	ReceiverBalance int64
}

// FireReport summarises one scheduler poll
type FireReport struct {
	Due                 int
	Delivered           int
	DeliveryFailures    int
	Advanced            int
	Deleted             int
	PersistenceFailures int
}
