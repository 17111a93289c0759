package domain

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar date format used for debt origination dates.
const DateLayout = "2006-01-02"

// Debt is money owed by a user to a named loaner. Amounts are minor units (cents).
// Amount is fixed at creation; only Payments and Completed change afterwards.
type Debt struct {
	ID        uuid.UUID
	UserID    string
	Loaner    string
	Amount    int64
	Concept   string
	Date      string
	Payments  []Payment
	Completed bool
	CreatedAt time.Time
}

// Payment references a transaction recorded by the transaction service
// against a debt. Seq is the 1-based application order.
type Payment struct {
	Seq           int
	TransactionID string
	Amount        int64
	Concept       string
	CreatedAt     time.Time
}

// TotalPaid returns the sum of credited payment amounts.
func (d *Debt) TotalPaid() int64 {
	var total int64
	for _, p := range d.Payments {
		total += p.Amount
	}
	return total
}

// Outstanding returns how much is still owed, never negative.
func (d *Debt) Outstanding() int64 {
	return max(d.Amount-d.TotalPaid(), 0)
}

// IsOwnedBy reports whether the debt belongs to userID.
func (d *Debt) IsOwnedBy(userID string) bool {
	return d.UserID == userID
}

// TransactionRequest asks the transaction service to record the money movement
// for a debt payment.
type TransactionRequest struct {
	UserID     string
	WalletID   string
	DebtID     uuid.UUID
	Amount     int64
	Concept    string
	CategoryID string
	Date       string
}

// TransactionRef identifies a transaction recorded by the transaction service.
type TransactionRef struct {
	ID string
}
