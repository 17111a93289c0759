package debt

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/debts-worker/internal/domain"
)

// Result is the outcome of a single field validator. Value holds the
// normalized input and is populated even when validation fails; callers
// must check Valid before trusting it.
type Result[T any] struct {
	Value  T
	Errors []domain.FieldError
}

// Valid reports whether the validator produced no errors.
func (r Result[T]) Valid() bool { return len(r.Errors) == 0 }

var hundred = decimal.NewFromInt(100)

// Exponent window accepted by ValidateAmount. Rescaling a decimal costs time
// proportional to its exponent, so "1e50000000" must be rejected before any
// arithmetic.
const (
	minAmountExponent = -20
	maxAmountExponent = 20
)

// ValidateAmount parses a decimal amount in major units and rounds it to
// minor units, half away from zero. Amounts that do not fit in int64 minor
// units are rejected.
func ValidateAmount(amount string) Result[int64] {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil || d.Exponent() < minAmountExponent || d.Exponent() > maxAmountExponent {
		return Result[int64]{Errors: []domain.FieldError{{Field: "amount", Message: "Amount is not a number"}}}
	}

	minor := d.Mul(hundred).Round(0).BigInt()
	if !minor.IsInt64() {
		return Result[int64]{Errors: []domain.FieldError{{Field: "amount", Message: "Amount is too large"}}}
	}
	return Result[int64]{Value: minor.Int64()}
}

// ValidateLoaner checks that the counterparty name is present and returns it trimmed.
func ValidateLoaner(loaner *string) Result[string] {
	if loaner == nil {
		return Result[string]{Errors: []domain.FieldError{{Field: "loaner", Message: "Loaner cannot be noone"}}}
	}
	trimmed := strings.TrimSpace(*loaner)
	if trimmed == "" {
		return Result[string]{Value: trimmed, Errors: []domain.FieldError{{Field: "loaner", Message: "Loaner cannot be empty"}}}
	}
	return Result[string]{Value: trimmed}
}

// ValidateConcept checks that the description is present and returns it trimmed.
func ValidateConcept(concept *string) Result[string] {
	if concept == nil {
		return Result[string]{Errors: []domain.FieldError{{Field: "concept", Message: "Concept must not be empty"}}}
	}
	trimmed := strings.TrimSpace(*concept)
	if trimmed == "" {
		return Result[string]{Value: trimmed, Errors: []domain.FieldError{{Field: "concept", Message: "Concept must not be empty"}}}
	}
	return Result[string]{Value: trimmed}
}

var dateFormat = regexp.MustCompile(`^([0-9]{4})-(0[1-9]|1[0-2])-(0[1-9]|[1-2][0-9]|3[0-1])$`)

// ValidateDate checks that date is a real calendar date in YYYY-MM-DD form.
func ValidateDate(date string) Result[struct{}] {
	m := dateFormat.FindStringSubmatch(date)
	if m == nil {
		return Result[struct{}]{Errors: []domain.FieldError{{Field: "date", Message: "The date must be in YYYY-MM-DD format"}}}
	}

	// The regex guarantees the groups are numeric.
	year, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[3])

	invalid := false
	switch m[2] {
	case "02":
		invalid = day > 29 || (day == 29 && !isLeapYear(year))
	case "04", "06", "09", "11":
		invalid = day == 31
	}
	if invalid {
		return Result[struct{}]{Errors: []domain.FieldError{{Field: "date", Message: "Invalid date"}}}
	}
	return Result[struct{}]{}
}

func isLeapYear(year int) bool {
	return year%400 == 0 || (year%4 == 0 && year%100 != 0)
}

// CheckOwnership returns an AuthorizationError unless debt exists and belongs to userID.
func CheckOwnership(debt *domain.Debt, userID string) error {
	if debt == nil {
		return domain.NewAuthorizationError("debt", "Debt not found")
	}
	if userID == "" || !debt.IsOwnedBy(userID) {
		return domain.NewAuthorizationError("debt", "Debt does not belong to the user")
	}
	return nil
}
