package debt

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/debts-worker/internal/domain"
)

// PaymentPlan is the computed effect of applying a requested amount to a debt.
type PaymentPlan struct {
	// Number is the 1-based position the payment will take.
	Number int
	// TotalPaid is what had been credited before this payment.
	TotalPaid int64
	// Credited is the part of the request actually applied.
	Credited int64
	// Remainder is the overpayment that is not credited.
	Remainder int64
	// Concept annotates the transaction, e.g. "lunch p2: 10.00/10.00".
	Concept string
	// Completes is true when the payment settles the debt.
	Completes bool
}

// PlanPayment clamps requested to the outstanding balance of debt and
// builds the transaction concept. It does not mutate debt.
func PlanPayment(debt *domain.Debt, requested int64) PaymentPlan {
	paid := debt.TotalPaid()
	credited := min(requested, debt.Outstanding())

	return PaymentPlan{
		Number:    len(debt.Payments) + 1,
		TotalPaid: paid,
		Credited:  credited,
		Remainder: requested - credited,
		Concept:   PaymentConcept(debt.Concept, len(debt.Payments)+1, paid+credited, debt.Amount),
		Completes: paid+credited >= debt.Amount,
	}
}

// PaymentConcept formats "<concept> p<n>: <paid>/<total>" with both money
// figures in major units and two decimals.
func PaymentConcept(concept string, n int, paid, total int64) string {
	return fmt.Sprintf("%s p%d: %s/%s", concept, n, FormatMinor(paid), FormatMinor(total))
}

// FormatMinor renders minor units as a major-unit string with two decimals.
func FormatMinor(v int64) string {
	return decimal.New(v, -2).StringFixed(2)
}
