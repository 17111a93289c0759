package debt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/debts-worker/internal/domain"
)

// PayDebt applies a payment to a debt owned by the caller.
//
// The debt row stays locked from the ownership check until the payment is
// stored, so concurrent payments on the same debt are applied one after the
// other. The payment is persisted only after the transaction service has
// confirmed the money movement; if that call fails the debt is unchanged.
func (s *Service) PayDebt(ctx context.Context, input PayDebtInput) (*domain.Debt, error) {
	var (
		updated  *domain.Debt
		recorded *domain.TransactionRef
	)

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		debt, err := s.validateDebtOwnership(ctx, input.UserID, input.DebtID)
		if err != nil {
			return err
		}

		amount, err := input.validate(debt)
		if err != nil {
			return err
		}

		plan := PlanPayment(debt, amount)
		s.log.DebugContext(ctx, "payment planned",
			slog.String("debt_id", debt.ID.String()),
			slog.String("concept", plan.Concept),
			slog.Int64("credited", plan.Credited),
		)
		if plan.Remainder > 0 {
			s.log.InfoContext(ctx, "overpayment not credited",
				slog.String("debt_id", debt.ID.String()),
				slog.Int64("remainder", plan.Remainder),
			)
		}

		recorded, err = s.transactions.RecordPayment(ctx, domain.TransactionRequest{
			UserID:     debt.UserID,
			WalletID:   input.WalletID,
			DebtID:     debt.ID,
			Amount:     plan.Credited,
			Concept:    plan.Concept,
			CategoryID: s.cfg.PaymentCategoryID,
			Date:       s.now().UTC().Format(domain.DateLayout),
		})
		if err != nil {
			return fmt.Errorf("record payment transaction: %w", err)
		}

		updated, err = s.debts.AddPayment(ctx, debt.ID, domain.Payment{
			Seq:           plan.Number,
			TransactionID: recorded.ID,
			Amount:        plan.Credited,
			Concept:       plan.Concept,
			CreatedAt:     s.now().UTC(),
		}, plan.Completes)
		if err != nil {
			return fmt.Errorf("add payment: %w", err)
		}
		return nil
	})
	if err != nil {
		if recorded != nil {
			s.log.ErrorContext(ctx, "transaction recorded but payment not stored",
				slog.String("debt_id", input.DebtID),
				slog.String("transaction_id", recorded.ID),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	s.log.InfoContext(ctx, "debt payment applied",
		slog.String("user_id", updated.UserID),
		slog.String("debt_id", updated.ID.String()),
		slog.Int("payments", len(updated.Payments)),
		slog.Bool("completed", updated.Completed),
	)

	return updated, nil
}

// validateDebtOwnership loads the debt for update and checks that it belongs
// to userID. Unknown or malformed ids are reported as authorization errors so
// callers cannot probe for other users' debts.
func (s *Service) validateDebtOwnership(ctx context.Context, userID, debtID string) (*domain.Debt, error) {
	id, err := uuid.Parse(debtID)
	if err != nil {
		return nil, CheckOwnership(nil, userID)
	}

	debt, err := s.debts.GetByIDForUpdate(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, CheckOwnership(nil, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("get debt: %w", err)
	}

	if err := CheckOwnership(debt, userID); err != nil {
		return nil, err
	}
	return debt, nil
}
