package testhelper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/debts-worker/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// NewUserID returns a user id that no other test uses.
func NewUserID() string {
	return "user-" + uniqueSuffix()
}

// SeedDebt creates an open debt of amount minor units owned by userID.
// Returns a filled domain.Debt with no payments.
func SeedDebt(t *testing.T, pool *pgxpool.Pool, userID string, amount int64) domain.Debt {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	debt := domain.Debt{
		ID:        uuid.New(),
		UserID:    userID,
		Loaner:    "Loaner " + uniqueSuffix(),
		Amount:    amount,
		Concept:   "seed",
		Date:      "2024-02-29",
		Payments:  []domain.Payment{},
		CreatedAt: now,
	}

	date, err := time.Parse(domain.DateLayout, debt.Date)
	if err != nil {
		t.Fatalf("testhelper: SeedDebt parse date: %v", err)
	}

	_, err = pool.Exec(context.Background(),
		`INSERT INTO debts (id, user_id, loaner, amount, concept, date, completed, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		debt.ID, debt.UserID, debt.Loaner, debt.Amount, debt.Concept, date, debt.Completed, debt.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDebt insert debt: %v", err)
	}

	return debt
}

// SeedPayments appends payments of the given amounts to debt, numbering them
// after any payments the debt already has. The completed flag is not touched.
func SeedPayments(t *testing.T, pool *pgxpool.Pool, debt *domain.Debt, amounts ...int64) {
	t.Helper()
	ctx := context.Background()

	for _, amount := range amounts {
		p := domain.Payment{
			Seq:           len(debt.Payments) + 1,
			TransactionID: "tx-" + uniqueSuffix(),
			Amount:        amount,
			Concept:       fmt.Sprintf("%s p%d", debt.Concept, len(debt.Payments)+1),
			CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
		}
		_, err := pool.Exec(ctx,
			`INSERT INTO debt_payments (debt_id, seq, transaction_id, amount, concept, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			debt.ID, p.Seq, p.TransactionID, p.Amount, p.Concept, p.CreatedAt,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedPayments insert payment %d: %v", p.Seq, err)
		}
		debt.Payments = append(debt.Payments, p)
	}
}
