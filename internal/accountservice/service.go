// Package accountservice manages the account registry.
package accountservice

import (
	"context"

	"github.com/go-petr/sms-ledger/internal/domain"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	GetOrCreate(ctx context.Context, businessID string, kind domain.AccountKind, currency string) (domain.Account, error)
	List(ctx context.Context, businessID string) ([]domain.Account, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo           Repo
	walletCurrency string
}

// New returns account service struct to manage the account registry.
func New(ar Repo, walletCurrency string) *Service {
	return &Service{
		repo:           ar,
		walletCurrency: walletCurrency,
	}
}

// GetOrCreate returns the account of the business for the given kind, creating it with zero
// balance on first access.
func (s *Service) GetOrCreate(ctx context.Context, businessID string, kind domain.AccountKind) (domain.Account, error) {
	if !kind.Valid() {
		return domain.Account{}, domain.ErrInvalidAccountKind
	}

	return s.repo.GetOrCreate(ctx, businessID, kind, domain.CurrencyFor(kind, s.walletCurrency))
}

// GetAllBalances returns the balance of every account kind of the business.
//
// It is a read with a side effect: accounts missing for the business are created with zero
// balance, so a first balance query provisions both pools.
func (s *Service) GetAllBalances(ctx context.Context, businessID string) (domain.Balances, error) {
	l := zerolog.Ctx(ctx)

	balances := make(domain.Balances, len(domain.AccountKinds))

	for _, kind := range domain.AccountKinds {
		account, err := s.GetOrCreate(ctx, businessID, kind)
		if err != nil {
			l.Error().Err(err).Str("kind", string(kind)).Msg("cannot resolve account")
			return nil, err
		}

		balances[kind] = account.Balance
	}

	return balances, nil
}

// List returns the accounts of the business after making sure every kind exists.
func (s *Service) List(ctx context.Context, businessID string) ([]domain.Account, error) {
	if _, err := s.GetAllBalances(ctx, businessID); err != nil {
		return nil, err
	}

	return s.repo.List(ctx, businessID)
}
