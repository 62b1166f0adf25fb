// Package ledgerservice manages the purchase, deduction and transfer workflows.
package ledgerservice

import (
	"context"

	"github.com/go-petr/sms-ledger/internal/domain"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by ledger service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type Repo interface {
	Deduct(ctx context.Context, arg domain.DeductParams) (domain.EntryResult, error)
	Purchase(ctx context.Context, arg domain.PurchaseParams) (domain.PurchaseResult, error)
	Transfer(ctx context.Context, arg domain.TransferParams) (domain.TransferResult, error)
}

// Service facilitates ledger service layer logic.
type Service struct {
	repo Repo
}

// New returns ledger service struct to manage ledger workflows.
func New(lr Repo) *Service {
	return &Service{repo: lr}
}

// Deduct debits the business account as usage and reports whether the debit happened.
//
// It never returns an error: insufficient funds, invalid input and storage failures all yield
// false with nothing written, so a sending pipeline can skip the message instead of failing.
// A retried call with an already applied reference id yields true without a second debit.
func (s *Service) Deduct(ctx context.Context, arg domain.DeductParams) bool {
	l := zerolog.Ctx(ctx).With().
		Str("business_id", arg.BusinessID).
		Str("kind", string(arg.Kind)).
		Str("amount", arg.Amount.String()).
		Logger()

	if err := domain.ValidateAmount(arg.Kind, arg.Amount); err != nil {
		l.Info().Err(err).Msg("deduction rejected")
		return false
	}

	result, err := s.repo.Deduct(ctx, arg)
	if err != nil {
		l.Info().Err(err).Msg("deduction failed")
		return false
	}

	l.Debug().
		Int64("transaction_id", result.Transaction.ID).
		Bool("replayed", result.Replayed).
		Str("balance", result.Account.Balance.String()).
		Msg("deduction applied")

	return true
}

// Purchase validates the request and then credits the account and issues a paid invoice.
func (s *Service) Purchase(ctx context.Context, arg domain.PurchaseParams) (domain.PurchaseResult, error) {
	l := zerolog.Ctx(ctx)

	if err := domain.ValidateAmount(arg.Kind, arg.Amount); err != nil {
		l.Info().Err(err).Send()
		return domain.PurchaseResult{}, err
	}

	if !domain.IsSupportedPaymentMethod(arg.PaymentMethod) {
		l.Info().Str("payment_method", arg.PaymentMethod).Msg("unsupported payment method")
		return domain.PurchaseResult{}, domain.ErrInvalidPaymentMethod
	}

	return s.repo.Purchase(ctx, arg)
}

// Transfer validates the request and then moves the amount between the two accounts.
func (s *Service) Transfer(ctx context.Context, arg domain.TransferParams) (domain.TransferResult, error) {
	l := zerolog.Ctx(ctx)

	if !arg.FromKind.Valid() || !arg.ToKind.Valid() {
		return domain.TransferResult{}, domain.ErrInvalidAccountKind
	}

	if arg.FromKind == arg.ToKind {
		return domain.TransferResult{}, domain.ErrSameAccount
	}

	// Both legs move the same quantity, so it has to be valid for each side.
	for _, kind := range []domain.AccountKind{arg.FromKind, arg.ToKind} {
		if err := domain.ValidateAmount(kind, arg.Amount); err != nil {
			l.Info().Err(err).Send()
			return domain.TransferResult{}, err
		}
	}

	return s.repo.Transfer(ctx, arg)
}
