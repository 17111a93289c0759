package debt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heartmarshall/debts-worker/internal/domain"
)

func TestPlanPayment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		debt      domain.Debt
		requested int64
		want      PaymentPlan
	}{
		{
			name:      "first partial payment",
			debt:      domain.Debt{Concept: "lunch", Amount: 1000},
			requested: 250,
			want: PaymentPlan{
				Number: 1, TotalPaid: 0, Credited: 250, Remainder: 0,
				Concept: "lunch p1: 2.50/10.00", Completes: false,
			},
		},
		{
			name: "overpayment is clamped to the outstanding amount",
			debt: domain.Debt{Concept: "lunch", Amount: 1000, Payments: []domain.Payment{
				{Seq: 1, Amount: 400},
				{Seq: 2, Amount: 300},
			}},
			requested: 500,
			want: PaymentPlan{
				Number: 3, TotalPaid: 700, Credited: 300, Remainder: 200,
				Concept: "lunch p3: 10.00/10.00", Completes: true,
			},
		},
		{
			name:      "exact settlement",
			debt:      domain.Debt{Concept: "rent", Amount: 123456, Payments: []domain.Payment{{Seq: 1, Amount: 100000}}},
			requested: 23456,
			want: PaymentPlan{
				Number: 2, TotalPaid: 100000, Credited: 23456, Remainder: 0,
				Concept: "rent p2: 1234.56/1234.56", Completes: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			debt := tt.debt
			got := PlanPayment(&debt, tt.requested)
			assert.Equal(t, tt.want, got)
			assert.Len(t, debt.Payments, len(tt.debt.Payments), "PlanPayment must not mutate the debt")
		})
	}
}

func TestFormatMinor(t *testing.T) {
	t.Parallel()

	cases := map[int64]string{
		0:      "0.00",
		5:      "0.05",
		1000:   "10.00",
		1001:   "10.01",
		123456: "1234.56",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatMinor(in), "FormatMinor(%d)", in)
	}
}
