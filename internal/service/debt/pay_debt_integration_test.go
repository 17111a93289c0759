package debt_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/debts-worker/internal/adapter/postgres"
	debtrepo "github.com/heartmarshall/debts-worker/internal/adapter/postgres/debt"
	"github.com/heartmarshall/debts-worker/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/debts-worker/internal/domain"
	"github.com/heartmarshall/debts-worker/internal/service/debt"
)

// slowRecorder confirms every transaction after a delay, keeping the debt row
// locked long enough for a concurrent payment to queue up behind it.
type slowRecorder struct {
	delay time.Duration
	n     atomic.Int64
}

func (r *slowRecorder) RecordPayment(ctx context.Context, _ domain.TransactionRequest) (*domain.TransactionRef, error) {
	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &domain.TransactionRef{ID: fmt.Sprintf("tx-%d", r.n.Add(1))}, nil
}

func TestPayDebt_Integration_ConcurrentPaymentsCreditOnce(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	userID := testhelper.NewUserID()
	d := testhelper.SeedDebt(t, pool, userID, 1000)
	testhelper.SeedPayments(t, pool, &d, 400, 300)

	recorder := &slowRecorder{delay: 200 * time.Millisecond}
	svc := debt.NewService(slog.Default(), debtrepo.New(pool), postgres.NewTxManager(pool), recorder,
		debt.Config{PaymentCategoryID: "cat-out"})

	const payers = 2
	var (
		wg      sync.WaitGroup
		start   = make(chan struct{})
		results = make([]*domain.Debt, payers)
		errs    = make([]error, payers)
	)
	for i := range payers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results[i], errs[i] = svc.PayDebt(context.Background(), debt.PayDebtInput{
				UserID: userID,
				DebtID: d.ID.String(),
				Amount: "5.00",
			})
		}()
	}
	close(start)
	wg.Wait()

	var paid, rejected int
	for i := range payers {
		if errs[i] == nil {
			paid++
			require.True(t, results[i].Completed)
			require.Len(t, results[i].Payments, 3)
			assert.Equal(t, int64(300), results[i].Payments[2].Amount)
			assert.Equal(t, "seed p3: 10.00/10.00", results[i].Payments[2].Concept)
			continue
		}
		rejected++
		var ve *domain.ValidationError
		require.True(t, errors.As(errs[i], &ve), "unexpected error: %v", errs[i])
		assert.Equal(t, "Debt is already paid off", ve.Fields()["debt"])
	}
	assert.Equal(t, 1, paid)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, int64(1), recorder.n.Load(), "only the credited payment reaches the transaction service")

	stored, err := debtrepo.New(pool).GetByID(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Payments, 3)
	assert.Equal(t, int64(1000), stored.TotalPaid())
	assert.LessOrEqual(t, stored.TotalPaid(), stored.Amount)
	assert.True(t, stored.Completed)
}
