// Package debt implements the debt ledger rules: creating debts and applying
// payments to them.
package debt

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/debts-worker/internal/domain"
)

type debtRepo interface {
	Create(ctx context.Context, debt *domain.Debt) (*domain.Debt, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Debt, error)
	AddPayment(ctx context.Context, debtID uuid.UUID, payment domain.Payment, completed bool) (*domain.Debt, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type transactionRecorder interface {
	RecordPayment(ctx context.Context, req domain.TransactionRequest) (*domain.TransactionRef, error)
}

// Config holds the settings the debt rules depend on.
type Config struct {
	// PaymentCategoryID is the transaction category used for debt payments
	// (money leaving the user's wallet).
	PaymentCategoryID string
}

// Service provides debt creation and payment operations.
type Service struct {
	debts        debtRepo
	tx           txManager
	transactions transactionRecorder
	cfg          Config
	log          *slog.Logger
	now          func() time.Time
}

// NewService creates a new debt Service.
func NewService(
	log *slog.Logger,
	debts debtRepo,
	tx txManager,
	transactions transactionRecorder,
	cfg Config,
) *Service {
	return &Service{
		debts:        debts,
		tx:           tx,
		transactions: transactions,
		cfg:          cfg,
		log:          log.With("service", "debt"),
		now:          time.Now,
	}
}
