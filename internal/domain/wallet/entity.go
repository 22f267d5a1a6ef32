package wallet

import "time"

// TransactionType marks ledger direction
type TransactionType string

const (
	TypeDeposit  TransactionType = "deposit"
	TypeWithdraw TransactionType = "withdraw"
)

// Transaction is one immutable ledger row. Rows are only ever appended,
// the running balance lives on the users table.
type Transaction struct {
	ID          int64           `db:"id" json:"id"`
	UserID      int64           `db:"user_id" json:"user_id"`
	Amount      int64           `db:"amount" json:"amount"`
	Type        TransactionType `db:"type" json:"type"`
	Description string          `db:"description" json:"description"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// Summary is the wallet view returned to the owner
type Summary struct {
	Balance      int64         `json:"balance"`
	Transactions []Transaction `json:"transactions"`
}
