// Package transactionservice serves read queries over the transaction history.
package transactionservice

import (
	"context"

	"github.com/go-petr/sms-ledger/internal/domain"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by transaction service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type Repo interface {
	List(ctx context.Context, arg domain.ListTransactionsParams, limit, offset int32) ([]domain.Transaction, error)
	Count(ctx context.Context, arg domain.ListTransactionsParams) (int64, error)
	Summary(ctx context.Context, businessID string) ([]domain.TransactionSummary, error)
}

// Service facilitates transaction service layer logic.
type Service struct {
	repo Repo
}

// New returns transaction service struct.
func New(tr Repo) *Service {
	return &Service{repo: tr}
}

// List returns a page of transactions of the business, newest first, optionally filtered by
// transaction kind and account kind.
func (s *Service) List(ctx context.Context, arg domain.ListTransactionsParams) (domain.TransactionPage, error) {
	l := zerolog.Ctx(ctx)

	if arg.Kind != "" && !arg.Kind.Valid() {
		return domain.TransactionPage{}, domain.ErrInvalidTransactionKind
	}

	if arg.AccountKind != "" && !arg.AccountKind.Valid() {
		return domain.TransactionPage{}, domain.ErrInvalidAccountKind
	}

	offset, err := domain.Offset(arg.Page, arg.Limit)
	if err != nil {
		return domain.TransactionPage{}, err
	}

	total, err := s.repo.Count(ctx, arg)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.TransactionPage{}, err
	}

	items, err := s.repo.List(ctx, arg, arg.Limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.TransactionPage{}, err
	}

	return domain.TransactionPage{
		Items:      items,
		Pagination: domain.NewPagination(arg.Page, arg.Limit, total),
	}, nil
}

// Summary returns transaction counts and totals of the business grouped by account kind and
// transaction kind.
func (s *Service) Summary(ctx context.Context, businessID string) ([]domain.TransactionSummary, error) {
	return s.repo.Summary(ctx, businessID)
}
