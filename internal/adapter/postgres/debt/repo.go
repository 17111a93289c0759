// Package debt implements the Debt repository using PostgreSQL.
// A debt row owns an ordered list of payment rows referencing transactions
// recorded by the transaction service.
package debt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/debts-worker/internal/adapter/postgres"
	"github.com/heartmarshall/debts-worker/internal/domain"
)

const (
	debtsTable    = "debts"
	paymentsTable = "debt_payments"
)

var (
	psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	debtColumns    = []string{"id", "user_id", "loaner", "amount", "concept", "date", "completed", "created_at"}
	paymentColumns = []string{"seq", "transaction_id", "amount", "concept", "created_at"}
)

// Repo provides debt persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new debt repository. db is usually a *pgxpool.Pool; calls
// made inside TxManager.RunInTx use the transaction from the context instead.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a debt with its payments in application order.
// Returns domain.ErrNotFound if the debt does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Debt, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate is GetByID with the debt row locked until the surrounding
// transaction ends. It only serializes writers when called inside RunInTx.
func (r *Repo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Debt, error) {
	return r.get(ctx, id, true)
}

func (r *Repo) get(ctx context.Context, id uuid.UUID, forUpdate bool) (*domain.Debt, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	builder := psql.Select(debtColumns...).
		From(debtsTable).
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build debt query: %w", err)
	}

	debt, err := scanDebt(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "debt", id)
	}

	payments, err := r.listPayments(ctx, q, id)
	if err != nil {
		return nil, err
	}
	debt.Payments = payments

	return debt, nil
}

func (r *Repo) listPayments(ctx context.Context, q postgres.Querier, debtID uuid.UUID) ([]domain.Payment, error) {
	sql, args, err := psql.Select(paymentColumns...).
		From(paymentsTable).
		Where(squirrel.Eq{"debt_id": debtID}).
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build payments query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "debt_payments", debtID)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.Seq, &p.TransactionID, &p.Amount, &p.Concept, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "debt_payments", debtID)
	}

	return payments, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new debt and returns it with the database-generated id.
// Payments of the input are ignored: a new debt never has payments.
func (r *Repo) Create(ctx context.Context, debt *domain.Debt) (*domain.Debt, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	date, err := time.Parse(domain.DateLayout, debt.Date)
	if err != nil {
		return nil, fmt.Errorf("debt date %q: %w", debt.Date, domain.ErrValidation)
	}

	sql, args, err := psql.Insert(debtsTable).
		Columns("user_id", "loaner", "amount", "concept", "date", "completed", "created_at").
		Values(debt.UserID, debt.Loaner, debt.Amount, debt.Concept, date, debt.Completed, debt.CreatedAt).
		Suffix("RETURNING " + strings.Join(debtColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert debt: %w", err)
	}

	created, err := scanDebt(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "debt", uuid.Nil)
	}
	created.Payments = []domain.Payment{}

	return created, nil
}

// AddPayment appends payment to the debt, stores the new completed flag and
// returns the updated debt. Must run inside RunInTx after GetByIDForUpdate.
// A payment reusing an existing seq returns domain.ErrAlreadyExists.
func (r *Repo) AddPayment(ctx context.Context, debtID uuid.UUID, payment domain.Payment, completed bool) (*domain.Debt, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := psql.Insert(paymentsTable).
		Columns("debt_id", "seq", "transaction_id", "amount", "concept", "created_at").
		Values(debtID, payment.Seq, payment.TransactionID, payment.Amount, payment.Concept, payment.CreatedAt).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert payment: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return nil, postgres.MapError(err, "debt_payment", debtID)
	}

	sql, args, err = psql.Update(debtsTable).
		Set("completed", completed).
		Where(squirrel.Eq{"id": debtID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update debt: %w", err)
	}
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "debt", debtID)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("debt %s: %w", debtID, domain.ErrNotFound)
	}

	return r.get(ctx, debtID, false)
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func scanDebt(row pgx.Row) (*domain.Debt, error) {
	var (
		d    domain.Debt
		date time.Time
	)
	if err := row.Scan(&d.ID, &d.UserID, &d.Loaner, &d.Amount, &d.Concept, &date, &d.Completed, &d.CreatedAt); err != nil {
		return nil, err
	}
	d.Date = date.Format(domain.DateLayout)
	return &d, nil
}
