package wallet

import "time"

// Transaction entry types.
const (
	TypeCredit = "credit"
	TypeDebit  = "debit"
)

// Transaction is one wallet ledger line shown in the app's history.
type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Amount      int64     `json:"amount"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summary is the wallet view the client renders: the balance fields
// from the user row plus recent history. Balance mutation belongs to
// the payment and withdrawal flows, not to this service.
type Summary struct {
	UserID        string        `json:"user_id"`
	Balance       int64         `json:"wallet_balance"`
	TotalEarnings int64         `json:"total_earnings"`
	IsPaidMember  bool          `json:"is_paid_member"`
	Transactions  []Transaction `json:"transactions"`
}
