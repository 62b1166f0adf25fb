// Package invoicerepo manages repository layer of invoices.
package invoicerepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-petr/sms-ledger/internal/domain"
	"github.com/go-petr/sms-ledger/pkg/dbpkg"
	"github.com/go-petr/sms-ledger/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates invoice repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns invoice RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const invoiceColumns = `id, business_id, invoice_number, date, amount, currency, status, type,
    payment_method, description, transaction_id, created_at, updated_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanInvoice(row scanner) (domain.Invoice, error) {
	var (
		i     domain.Invoice
		txnID sql.NullInt64
	)

	err := row.Scan(
		&i.ID,
		&i.BusinessID,
		&i.InvoiceNumber,
		&i.Date,
		&i.Amount,
		&i.Currency,
		&i.Status,
		&i.Type,
		&i.PaymentMethod,
		&i.Description,
		&txnID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)

	i.TransactionID = txnID.Int64

	return i, err
}

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrInvoiceNotFound
	}

	if dbpkg.IsConcurrencyConflict(err) {
		return domain.ErrConcurrencyConflict
	}

	if dbpkg.IsNumericOutOfRange(err) {
		return domain.ErrInvalidAmount
	}

	// A colliding random suffix; the whole unit of work can be retried.
	if dbpkg.IsUniqueViolation(err, "invoices_invoice_number_key") {
		return domain.ErrConcurrencyConflict
	}

	switch dbpkg.Constraint(err) {
	case "invoices_amount_check":
		return domain.ErrNonPositiveAmount
	case "invoices_status_check":
		return domain.ErrInvalidInvoiceStatus
	}

	return errorspkg.ErrInternal
}

const createQuery = `
INSERT INTO
    invoices (business_id, invoice_number, date, amount, currency, status, type, payment_method, description, transaction_id)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10::bigint, 0))
RETURNING ` + invoiceColumns

// Create creates the invoice and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateInvoiceParams) (domain.Invoice, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.BusinessID,
		arg.InvoiceNumber,
		arg.Date,
		arg.Amount,
		arg.Currency,
		arg.Status,
		arg.Type,
		arg.PaymentMethod,
		arg.Description,
		arg.TransactionID,
	)

	i, err := scanInvoice(row)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)
		return i, mapError(err)
	}

	return i, nil
}

const getQuery = `
SELECT ` + invoiceColumns + `
FROM invoices
WHERE business_id = $1 AND invoice_number = $2
`

// Get returns the invoice of the business with the given invoice number.
func (r *RepoPGS) Get(ctx context.Context, businessID, invoiceNumber string) (domain.Invoice, error) {
	l := zerolog.Ctx(ctx)

	i, err := scanInvoice(r.db.QueryRowContext(ctx, getQuery, businessID, invoiceNumber))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			l.Error().Err(err).Send()
		}

		return i, mapError(err)
	}

	return i, nil
}

const markOverdueQuery = `
UPDATE invoices
SET status = 'overdue', updated_at = now()
WHERE status = 'pending'
  AND date < $1
  AND ($2::text = '' OR business_id = $2::text)
`

// MarkOverdue moves pending invoices dated before the given instant to overdue and returns how
// many were changed. An empty businessID sweeps every business.
func (r *RepoPGS) MarkOverdue(ctx context.Context, businessID string, before time.Time) (int64, error) {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, markOverdueQuery, before, businessID)
	if err != nil {
		l.Error().Err(err).Send()
		return 0, mapError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	return n, nil
}

const updateStatusQuery = `
UPDATE invoices
SET status = $3, updated_at = now()
WHERE business_id = $1
  AND invoice_number = $2
  AND status = ANY($4)
RETURNING ` + invoiceColumns

// UpdateStatus moves the invoice to the status to, provided its current status is one of from.
//
// It returns domain.ErrInvalidInvoiceTransition when the invoice exists in another status.
func (r *RepoPGS) UpdateStatus(ctx context.Context, businessID, invoiceNumber string, to domain.InvoiceStatus, from []domain.InvoiceStatus) (domain.Invoice, error) {
	l := zerolog.Ctx(ctx)

	fromStrings := make([]string, len(from))
	for i, s := range from {
		fromStrings[i] = string(s)
	}

	row := r.db.QueryRowContext(ctx, updateStatusQuery, businessID, invoiceNumber, to, pq.Array(fromStrings))

	i, err := scanInvoice(row)
	if err == nil {
		return i, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		l.Error().Err(err).Send()
		return i, mapError(err)
	}

	if _, err := r.Get(ctx, businessID, invoiceNumber); err != nil {
		return domain.Invoice{}, err
	}

	return domain.Invoice{}, domain.ErrInvalidInvoiceTransition
}

const listQuery = `
SELECT ` + invoiceColumns + `
FROM invoices
WHERE business_id = $1
  AND ($2::text = '' OR status = $2::text)
ORDER BY date DESC, id DESC
LIMIT $3 OFFSET $4
`

// List returns the specified page of the business invoices, newest first.
func (r *RepoPGS) List(ctx context.Context, arg domain.ListInvoicesParams, limit, offset int32) ([]domain.Invoice, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, arg.BusinessID, string(arg.Status), limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Invoice{}

	for rows.Next() {
		i, err := scanInvoice(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, i)
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
FROM invoices
WHERE business_id = $1
  AND ($2::text = '' OR status = $2::text)
`

// Count returns the number of the business invoices matching the status filter.
func (r *RepoPGS) Count(ctx context.Context, arg domain.ListInvoicesParams) (int64, error) {
	l := zerolog.Ctx(ctx)

	var n int64
	if err := r.db.QueryRowContext(ctx, countQuery, arg.BusinessID, string(arg.Status)).Scan(&n); err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	return n, nil
}

const summaryQuery = `
SELECT status, COUNT(*), COALESCE(SUM(amount), 0)
FROM invoices
WHERE business_id = $1
GROUP BY status
ORDER BY status
`

// Summary returns the count and amount sum of the business invoices per status.
func (r *RepoPGS) Summary(ctx context.Context, businessID string) ([]domain.InvoiceSummary, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, summaryQuery, businessID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.InvoiceSummary{}

	for rows.Next() {
		var s domain.InvoiceSummary
		if err := rows.Scan(&s.Status, &s.Count, &s.Total); err != nil {
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
