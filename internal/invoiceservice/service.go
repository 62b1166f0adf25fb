// Package invoiceservice manages the invoice lifecycle.
package invoiceservice

import (
	"context"
	"time"

	"github.com/go-petr/sms-ledger/internal/domain"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by invoice service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package invoiceservice
type Repo interface {
	Get(ctx context.Context, businessID, invoiceNumber string) (domain.Invoice, error)
	MarkOverdue(ctx context.Context, businessID string, before time.Time) (int64, error)
	UpdateStatus(ctx context.Context, businessID, invoiceNumber string, to domain.InvoiceStatus, from []domain.InvoiceStatus) (domain.Invoice, error)
	List(ctx context.Context, arg domain.ListInvoicesParams, limit, offset int32) ([]domain.Invoice, error)
	Count(ctx context.Context, arg domain.ListInvoicesParams) (int64, error)
	Summary(ctx context.Context, businessID string) ([]domain.InvoiceSummary, error)
}

// Service facilitates invoice service layer logic.
type Service struct {
	repo        Repo
	gracePeriod time.Duration
	now         func() time.Time
}

// New returns invoice service struct. Pending invoices dated more than gracePeriod ago are
// reported as overdue.
func New(ir Repo, gracePeriod time.Duration) *Service {
	return &Service{
		repo:        ir,
		gracePeriod: gracePeriod,
		now:         time.Now,
	}
}

// SweepOverdue moves pending invoices past the grace period to overdue. An empty businessID
// sweeps every business.
func (s *Service) SweepOverdue(ctx context.Context, businessID string) (int64, error) {
	l := zerolog.Ctx(ctx)

	before := s.now().UTC().Add(-s.gracePeriod)

	n, err := s.repo.MarkOverdue(ctx, businessID, before)
	if err != nil {
		l.Error().Err(err).Str("business_id", businessID).Msg("overdue sweep failed")
		return 0, err
	}

	if n > 0 {
		l.Info().Int64("invoices", n).Str("business_id", businessID).Msg("invoices marked overdue")
	}

	return n, nil
}

// List returns a page of invoices of the business, optionally filtered by status.
func (s *Service) List(ctx context.Context, arg domain.ListInvoicesParams) (domain.InvoicePage, error) {
	if arg.Status != "" && !arg.Status.Valid() {
		return domain.InvoicePage{}, domain.ErrInvalidInvoiceStatus
	}

	offset, err := domain.Offset(arg.Page, arg.Limit)
	if err != nil {
		return domain.InvoicePage{}, err
	}

	if _, err := s.SweepOverdue(ctx, arg.BusinessID); err != nil {
		return domain.InvoicePage{}, err
	}

	total, err := s.repo.Count(ctx, arg)
	if err != nil {
		return domain.InvoicePage{}, err
	}

	items, err := s.repo.List(ctx, arg, arg.Limit, offset)
	if err != nil {
		return domain.InvoicePage{}, err
	}

	return domain.InvoicePage{
		Items:      items,
		Pagination: domain.NewPagination(arg.Page, arg.Limit, total),
	}, nil
}

// Get returns the invoice of the business by its number.
func (s *Service) Get(ctx context.Context, businessID, invoiceNumber string) (domain.Invoice, error) {
	if _, err := s.SweepOverdue(ctx, businessID); err != nil {
		return domain.Invoice{}, err
	}

	return s.repo.Get(ctx, businessID, invoiceNumber)
}

// Cancel moves a pending or overdue invoice to cancelled.
func (s *Service) Cancel(ctx context.Context, businessID, invoiceNumber string) (domain.Invoice, error) {
	l := zerolog.Ctx(ctx)

	invoice, err := s.repo.UpdateStatus(ctx, businessID, invoiceNumber,
		domain.InvoiceStatusCancelled, domain.CancellableStatuses())
	if err != nil {
		l.Info().Err(err).Str("invoice_number", invoiceNumber).Msg("cannot cancel invoice")
		return domain.Invoice{}, err
	}

	return invoice, nil
}

// Summary returns invoice counts and totals of the business grouped by status.
func (s *Service) Summary(ctx context.Context, businessID string) ([]domain.InvoiceSummary, error) {
	if _, err := s.SweepOverdue(ctx, businessID); err != nil {
		return nil, err
	}

	return s.repo.Summary(ctx, businessID)
}
