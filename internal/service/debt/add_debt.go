package debt

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/debts-worker/internal/domain"
)

// AddDebt validates input and persists a new debt with no payments.
func (s *Service) AddDebt(ctx context.Context, input AddDebtInput) (*domain.Debt, error) {
	debt, err := input.validate()
	if err != nil {
		return nil, err
	}

	debt.Completed = false
	debt.CreatedAt = s.now().UTC()

	created, err := s.debts.Create(ctx, debt)
	if err != nil {
		return nil, fmt.Errorf("create debt: %w", err)
	}

	s.log.InfoContext(ctx, "debt created",
		slog.String("user_id", created.UserID),
		slog.String("debt_id", created.ID.String()),
		slog.Int64("amount", created.Amount),
	)

	return created, nil
}
