package message

import (
	"context"
	"encoding/json"
	"time"

	"github.com/heartmarshall/debts-worker/internal/domain"
	"github.com/heartmarshall/debts-worker/internal/service/debt"
	"github.com/heartmarshall/debts-worker/pkg/ctxutil"
)

type debtService interface {
	AddDebt(ctx context.Context, in debt.AddDebtInput) (*domain.Debt, error)
	PayDebt(ctx context.Context, in debt.PayDebtInput) (*domain.Debt, error)
}

// RegisterDebtRoutes binds the "add" and "debt-payment" message types.
func RegisterDebtRoutes(d *Dispatcher, svc debtService) {
	d.Register(TypeAddDebt, addDebtRoute(svc))
	d.Register(TypeDebtPayment, payDebtRoute(svc))
}

type addDebtPayload struct {
	UserID  string  `json:"user_id"`
	Loaner  *string `json:"loaner"`
	Amount  Amount  `json:"amount"`
	Concept *string `json:"concept"`
	Date    string  `json:"date"`
}

type payDebtPayload struct {
	UserID   string `json:"user_id"`
	DebtID   string `json:"debt_id"`
	Amount   Amount `json:"amount"`
	WalletID string `json:"wallet_id"`
}

func addDebtRoute(svc debtService) Route {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var p addDebtPayload
		if err := decodePayload(raw, &p); err != nil {
			return nil, err
		}

		created, err := svc.AddDebt(ctxutil.WithUserID(ctx, p.UserID), debt.AddDebtInput{
			UserID:  p.UserID,
			Loaner:  p.Loaner,
			Amount:  string(p.Amount),
			Concept: p.Concept,
			Date:    p.Date,
		})
		if err != nil {
			return nil, err
		}
		return toDebtDTO(created), nil
	}
}

func payDebtRoute(svc debtService) Route {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var p payDebtPayload
		if err := decodePayload(raw, &p); err != nil {
			return nil, err
		}

		updated, err := svc.PayDebt(ctxutil.WithUserID(ctx, p.UserID), debt.PayDebtInput{
			UserID:   p.UserID,
			DebtID:   p.DebtID,
			Amount:   string(p.Amount),
			WalletID: p.WalletID,
		})
		if err != nil {
			return nil, err
		}
		return toDebtDTO(updated), nil
	}
}

// decodePayload rejects a missing or non-object payload as a field error.
func decodePayload(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return domain.NewValidationError("payload", "Payload is required")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return domain.NewValidationError("payload", "Payload is malformed")
	}
	return nil
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

type debtDTO struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Loaner    string       `json:"loaner"`
	Amount    int64        `json:"amount"`
	Concept   string       `json:"concept"`
	Date      string       `json:"date"`
	Payments  []paymentDTO `json:"payments"`
	Completed bool         `json:"completed"`
	CreatedAt time.Time    `json:"createdAt"`
}

type paymentDTO struct {
	Seq           int       `json:"seq"`
	TransactionID string    `json:"transaction_id"`
	Amount        int64     `json:"amount"`
	Concept       string    `json:"concept"`
	CreatedAt     time.Time `json:"created_at"`
}

func toDebtDTO(d *domain.Debt) debtDTO {
	payments := make([]paymentDTO, len(d.Payments))
	for i, p := range d.Payments {
		payments[i] = paymentDTO{
			Seq:           p.Seq,
			TransactionID: p.TransactionID,
			Amount:        p.Amount,
			Concept:       p.Concept,
			CreatedAt:     p.CreatedAt,
		}
	}

	return debtDTO{
		ID:        d.ID.String(),
		UserID:    d.UserID,
		Loaner:    d.Loaner,
		Amount:    d.Amount,
		Concept:   d.Concept,
		Date:      d.Date,
		Payments:  payments,
		Completed: d.Completed,
		CreatedAt: d.CreatedAt,
	}
}
