// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/sms-ledger/internal/domain"
	"github.com/go-petr/sms-ledger/pkg/dbpkg"
	"github.com/go-petr/sms-ledger/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const accountColumns = `id, business_id, kind, balance, currency, is_active, created_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row scanner) (domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.BusinessID,
		&a.Kind,
		&a.Balance,
		&a.Currency,
		&a.IsActive,
		&a.CreatedAt,
	)

	return a, err
}

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrAccountNotFound
	}

	if dbpkg.IsConcurrencyConflict(err) {
		return domain.ErrConcurrencyConflict
	}

	if dbpkg.IsNumericOutOfRange(err) {
		return domain.ErrInvalidAmount
	}

	switch dbpkg.Constraint(err) {
	case "accounts_balance_check":
		return domain.ErrInsufficientFunds
	case "accounts_kind_check":
		return domain.ErrInvalidAccountKind
	}

	return errorspkg.ErrInternal
}

const upsertQuery = `
INSERT INTO
    accounts (business_id, kind, currency)
VALUES
    ($1, $2, $3)
ON CONFLICT (business_id, kind) DO NOTHING
RETURNING ` + accountColumns

// GetOrCreate returns the account of the business for the given kind, creating it with zero
// balance when it does not exist yet.
//
// Concurrent callers never produce two rows: the insert is guarded by the
// accounts_business_id_kind_key constraint and the loser of a race reads the winner's row.
func (r *RepoPGS) GetOrCreate(ctx context.Context, businessID string, kind domain.AccountKind, currency string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, upsertQuery, businessID, kind, currency))
	if err == nil {
		l.Debug().Int64("account_id", a.ID).Str("kind", string(kind)).Msg("account created")
		return a, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		l.Error().Err(err).Msgf("GetOrCreate(ctx, %v, %v)", businessID, kind)
		return a, mapError(err)
	}

	return r.GetByKind(ctx, businessID, kind)
}

const getByKindQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE business_id = $1 AND kind = $2
`

// GetByKind returns the account of the business for the given kind.
func (r *RepoPGS) GetByKind(ctx context.Context, businessID string, kind domain.AccountKind) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, getByKindQuery, businessID, kind))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, mapError(err)
	}

	return a, nil
}

const getQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE id = $1
`

// Get returns the account with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, getQuery, id))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			l.Error().Err(err).Send()
		}

		return a, mapError(err)
	}

	return a, nil
}

const getForUpdateQuery = getQuery + `FOR UPDATE`

// GetForUpdate returns the account with the given id and holds its row lock until the
// surrounding transaction ends.
func (r *RepoPGS) GetForUpdate(ctx context.Context, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, getForUpdateQuery, id))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			l.Error().Err(err).Int64("account_id", id).Msg("cannot lock account")
		}

		return a, mapError(err)
	}

	return a, nil
}

const lockQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE id = ANY($1)
ORDER BY id
FOR UPDATE
`

// LockInOrder locks the accounts with the given ids in ascending id order, so two
// transactions locking the same accounts can never deadlock each other.
func (r *RepoPGS) LockInOrder(ctx context.Context, ids ...int64) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, lockQuery, pq.Array(ids))
	if err != nil {
		l.Error().Err(err).Msgf("LockInOrder(ctx, %v)", ids)
		return nil, mapError(err)
	}
	defer rows.Close()

	items := make([]domain.Account, 0, len(ids))

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, mapError(err)
		}

		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, mapError(err)
	}

	if len(items) != len(ids) {
		return nil, domain.ErrAccountNotFound
	}

	return items, nil
}

const setBalanceQuery = `
UPDATE accounts
SET balance = $1
WHERE id = $2
RETURNING ` + accountColumns

// SetBalance stores the new balance of the account and returns the changed account.
//
// Only the ledger engine calls it, while holding the account row lock.
func (r *RepoPGS) SetBalance(ctx context.Context, id int64, balance decimal.Decimal) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, setBalanceQuery, balance, id))
	if err != nil {
		l.Error().Err(err).Msgf("SetBalance(ctx, %v, %v)", id, balance)
		return a, mapError(err)
	}

	return a, nil
}

const listQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE business_id = $1
ORDER BY id
`

// List returns all accounts of the business.
func (r *RepoPGS) List(ctx context.Context, businessID string) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, businessID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
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
