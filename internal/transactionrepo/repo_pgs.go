// Package transactionrepo manages repository layer of ledger transactions.
//
// Transactions are append-only: the package exposes no update or delete.
package transactionrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/sms-ledger/internal/domain"
	"github.com/go-petr/sms-ledger/pkg/dbpkg"
	"github.com/go-petr/sms-ledger/pkg/errorspkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrTransactionNotFound indicates that no transaction matches the lookup.
var ErrTransactionNotFound = errors.New("transaction not found")

// RepoPGS facilitates transaction repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns transaction RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row scanner) (domain.Transaction, error) {
	var (
		t   domain.Transaction
		ref sql.NullString
	)

	err := row.Scan(
		&t.ID,
		&t.BusinessID,
		&t.AccountID,
		&t.AccountKind,
		&t.Kind,
		&t.Amount,
		&t.BalanceAfter,
		&t.Description,
		&ref,
		&t.CreatedAt,
	)

	t.ReferenceID = ref.String

	return t, err
}

func mapError(err error) error {
	if dbpkg.IsConcurrencyConflict(err) {
		return domain.ErrConcurrencyConflict
	}

	if dbpkg.IsNumericOutOfRange(err) {
		return domain.ErrInvalidAmount
	}

	switch dbpkg.Constraint(err) {
	case "transactions_account_id_fkey":
		return domain.ErrAccountNotFound
	case "transactions_amount_check":
		return domain.ErrNonPositiveAmount
	case "transactions_balance_after_check":
		return domain.ErrInsufficientFunds
	case "transactions_kind_check":
		return domain.ErrInvalidTransactionKind
	case "transactions_account_id_reference_id_key":
		return domain.ErrReferenceConflict
	}

	return errorspkg.ErrInternal
}

// CreateParams is the input data to append a transaction.
type CreateParams struct {
	BusinessID   string
	Account      domain.Account
	Kind         domain.TransactionKind
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	Description  string
	ReferenceID  string
}

const createQuery = `
WITH inserted AS (
    INSERT INTO
        transactions (business_id, account_id, kind, amount, balance_after, description, reference_id)
    VALUES
        ($1, $2, $3, $4, $5, $6, NULLIF($7::text, ''))
    RETURNING id, business_id, account_id, kind, amount, balance_after, description, reference_id, created_at
)
SELECT i.id, i.business_id, i.account_id, a.kind, i.kind, i.amount, i.balance_after, i.description, i.reference_id, i.created_at
FROM inserted i
JOIN accounts a ON a.id = i.account_id
`

// Create appends the transaction and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg CreateParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.BusinessID,
		arg.Account.ID,
		arg.Kind,
		arg.Amount,
		arg.BalanceAfter,
		arg.Description,
		arg.ReferenceID,
	)

	t, err := scanTransaction(row)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)
		return t, mapError(err)
	}

	return t, nil
}

const selectColumns = `
SELECT t.id, t.business_id, t.account_id, a.kind, t.kind, t.amount, t.balance_after, t.description, t.reference_id, t.created_at
FROM transactions t
JOIN accounts a ON a.id = t.account_id
`

const getByReferenceQuery = selectColumns + `
WHERE t.account_id = $1 AND t.reference_id = $2
`

// GetByReference returns the transaction recorded on the account under the reference id.
func (r *RepoPGS) GetByReference(ctx context.Context, accountID int64, referenceID string) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	t, err := scanTransaction(r.db.QueryRowContext(ctx, getByReferenceQuery, accountID, referenceID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, ErrTransactionNotFound
		}

		l.Error().Err(err).Send()

		return t, mapError(err)
	}

	return t, nil
}

const latestQuery = selectColumns + `
WHERE t.account_id = $1
ORDER BY t.id DESC
LIMIT 1
`

// Latest returns the most recent transaction of the account.
func (r *RepoPGS) Latest(ctx context.Context, accountID int64) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	t, err := scanTransaction(r.db.QueryRowContext(ctx, latestQuery, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, ErrTransactionNotFound
		}

		l.Error().Err(err).Send()

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const filters = `
WHERE t.business_id = $1
  AND ($2::text = '' OR t.kind = $2::text)
  AND ($3::text = '' OR a.kind = $3::text)
`

const listQuery = selectColumns + filters + `
ORDER BY t.id DESC
LIMIT $4 OFFSET $5
`

// List returns the specified page of the business transactions, newest first.
func (r *RepoPGS) List(ctx context.Context, arg domain.ListTransactionsParams, limit, offset int32) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery,
		arg.BusinessID,
		string(arg.Kind),
		string(arg.AccountKind),
		limit,
		offset,
	)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const countQuery = `
SELECT COUNT(*)
FROM transactions t
JOIN accounts a ON a.id = t.account_id
` + filters

// Count returns the number of the business transactions matching the filters.
func (r *RepoPGS) Count(ctx context.Context, arg domain.ListTransactionsParams) (int64, error) {
	l := zerolog.Ctx(ctx)

	var n int64

	err := r.db.QueryRowContext(ctx, countQuery, arg.BusinessID, string(arg.Kind), string(arg.AccountKind)).Scan(&n)
	if err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	return n, nil
}

const summaryQuery = `
SELECT a.kind, t.kind, COUNT(*), COALESCE(SUM(t.amount), 0)
FROM transactions t
JOIN accounts a ON a.id = t.account_id
WHERE t.business_id = $1
GROUP BY a.kind, t.kind
ORDER BY a.kind, t.kind
`

// Summary returns the count and sum of the business transactions per account kind and kind.
func (r *RepoPGS) Summary(ctx context.Context, businessID string) ([]domain.TransactionSummary, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, summaryQuery, businessID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.TransactionSummary{}

	for rows.Next() {
		var s domain.TransactionSummary
		if err := rows.Scan(&s.AccountKind, &s.Kind, &s.Count, &s.Total); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, s)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
