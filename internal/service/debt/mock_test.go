package debt

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/debts-worker/internal/domain"
)

var (
	_ debtRepo            = &debtRepoMock{}
	_ txManager           = &txManagerMock{}
	_ transactionRecorder = &transactionRecorderMock{}
)

type debtRepoMock struct {
	CreateFunc           func(ctx context.Context, debt *domain.Debt) (*domain.Debt, error)
	GetByIDForUpdateFunc func(ctx context.Context, id uuid.UUID) (*domain.Debt, error)
	AddPaymentFunc       func(ctx context.Context, debtID uuid.UUID, payment domain.Payment, completed bool) (*domain.Debt, error)

	calls struct {
		Create []struct {
			Debt *domain.Debt
		}
		GetByIDForUpdate []struct {
			ID uuid.UUID
		}
		AddPayment []struct {
			DebtID    uuid.UUID
			Payment   domain.Payment
			Completed bool
		}
	}
	lockCreate           sync.RWMutex
	lockGetByIDForUpdate sync.RWMutex
	lockAddPayment       sync.RWMutex
}

func (mock *debtRepoMock) Create(ctx context.Context, debt *domain.Debt) (*domain.Debt, error) {
	if mock.CreateFunc == nil {
		panic("debtRepoMock.CreateFunc: method is nil but debtRepo.Create was just called")
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ Debt *domain.Debt }{Debt: debt})
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, debt)
}

func (mock *debtRepoMock) CreateCalls() []struct{ Debt *domain.Debt } {
	mock.lockCreate.RLock()
	defer mock.lockCreate.RUnlock()
	return mock.calls.Create
}

func (mock *debtRepoMock) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Debt, error) {
	if mock.GetByIDForUpdateFunc == nil {
		panic("debtRepoMock.GetByIDForUpdateFunc: method is nil but debtRepo.GetByIDForUpdate was just called")
	}
	mock.lockGetByIDForUpdate.Lock()
	mock.calls.GetByIDForUpdate = append(mock.calls.GetByIDForUpdate, struct{ ID uuid.UUID }{ID: id})
	mock.lockGetByIDForUpdate.Unlock()
	return mock.GetByIDForUpdateFunc(ctx, id)
}

func (mock *debtRepoMock) GetByIDForUpdateCalls() []struct{ ID uuid.UUID } {
	mock.lockGetByIDForUpdate.RLock()
	defer mock.lockGetByIDForUpdate.RUnlock()
	return mock.calls.GetByIDForUpdate
}

func (mock *debtRepoMock) AddPayment(ctx context.Context, debtID uuid.UUID, payment domain.Payment, completed bool) (*domain.Debt, error) {
	if mock.AddPaymentFunc == nil {
		panic("debtRepoMock.AddPaymentFunc: method is nil but debtRepo.AddPayment was just called")
	}
	callInfo := struct {
		DebtID    uuid.UUID
		Payment   domain.Payment
		Completed bool
	}{DebtID: debtID, Payment: payment, Completed: completed}
	mock.lockAddPayment.Lock()
	mock.calls.AddPayment = append(mock.calls.AddPayment, callInfo)
	mock.lockAddPayment.Unlock()
	return mock.AddPaymentFunc(ctx, debtID, payment, completed)
}

func (mock *debtRepoMock) AddPaymentCalls() []struct {
	DebtID    uuid.UUID
	Payment   domain.Payment
	Completed bool
} {
	mock.lockAddPayment.RLock()
	defer mock.lockAddPayment.RUnlock()
	return mock.calls.AddPayment
}

// txManagerMock runs fn directly and records whether the transaction would
// have been committed.
type txManagerMock struct {
	mu        sync.Mutex
	commits   int
	rollbacks int
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	mock.mu.Lock()
	defer mock.mu.Unlock()
	if err != nil {
		mock.rollbacks++
		return err
	}
	mock.commits++
	return nil
}

type transactionRecorderMock struct {
	RecordPaymentFunc func(ctx context.Context, req domain.TransactionRequest) (*domain.TransactionRef, error)

	calls struct {
		RecordPayment []struct {
			Req domain.TransactionRequest
		}
	}
	lockRecordPayment sync.RWMutex
}

func (mock *transactionRecorderMock) RecordPayment(ctx context.Context, req domain.TransactionRequest) (*domain.TransactionRef, error) {
	if mock.RecordPaymentFunc == nil {
		panic("transactionRecorderMock.RecordPaymentFunc: method is nil but transactionRecorder.RecordPayment was just called")
	}
	mock.lockRecordPayment.Lock()
	mock.calls.RecordPayment = append(mock.calls.RecordPayment, struct{ Req domain.TransactionRequest }{Req: req})
	mock.lockRecordPayment.Unlock()
	return mock.RecordPaymentFunc(ctx, req)
}

func (mock *transactionRecorderMock) RecordPaymentCalls() []struct{ Req domain.TransactionRequest } {
	mock.lockRecordPayment.RLock()
	defer mock.lockRecordPayment.RUnlock()
	return mock.calls.RecordPayment
}
