package debt

import (
	"strings"

	"github.com/heartmarshall/debts-worker/internal/domain"
)

// AddDebtInput holds the parameters for creating a debt. Loaner and Concept
// are pointers so that a missing value can be told apart from an empty one.
type AddDebtInput struct {
	UserID  string
	Loaner  *string
	Amount  string
	Concept *string
	Date    string
}

// validate runs every field validator, collects all errors and returns the
// normalized debt to persist.
func (i AddDebtInput) validate() (*domain.Debt, error) {
	var errs []domain.FieldError

	if strings.TrimSpace(i.UserID) == "" {
		errs = append(errs, domain.FieldError{Field: "user_id", Message: "User id is required"})
	}

	loaner := ValidateLoaner(i.Loaner)
	errs = append(errs, loaner.Errors...)

	amount := validatePositiveAmount(i.Amount)
	errs = append(errs, amount.Errors...)

	concept := ValidateConcept(i.Concept)
	errs = append(errs, concept.Errors...)

	date := ValidateDate(i.Date)
	errs = append(errs, date.Errors...)

	if len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}

	return &domain.Debt{
		UserID:   i.UserID,
		Loaner:   loaner.Value,
		Amount:   amount.Value,
		Concept:  concept.Value,
		Date:     i.Date,
		Payments: []domain.Payment{},
	}, nil
}

// PayDebtInput holds the parameters for paying a debt. WalletID is optional
// and passed through to the transaction service.
type PayDebtInput struct {
	UserID   string
	DebtID   string
	Amount   string
	WalletID string
}

// validate checks the payment against the already loaded debt and returns
// the requested amount in minor units.
func (i PayDebtInput) validate(debt *domain.Debt) (int64, error) {
	amount := validatePositiveAmount(i.Amount)
	errs := amount.Errors

	if debt.Completed || debt.Outstanding() == 0 {
		errs = append(errs, domain.FieldError{Field: "debt", Message: "Debt is already paid off"})
	}

	if len(errs) > 0 {
		return 0, domain.NewValidationErrors(errs)
	}
	return amount.Value, nil
}

func validatePositiveAmount(s string) Result[int64] {
	r := ValidateAmount(s)
	if r.Valid() && r.Value <= 0 {
		r.Errors = append(r.Errors, domain.FieldError{Field: "amount", Message: "Amount must be greater than zero"})
	}
	return r
}
