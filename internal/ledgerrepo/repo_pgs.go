// Package ledgerrepo runs the ledger workflows as atomic units of work.
//
// Every workflow begins one dbpkg.UnitOfWork, builds tx-scoped repositories on it, composes
// ApplyEntry and commits once. Any error rolls back every write of the unit.
package ledgerrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-petr/sms-ledger/internal/accountrepo"
	"github.com/go-petr/sms-ledger/internal/domain"
	"github.com/go-petr/sms-ledger/internal/invoicerepo"
	"github.com/go-petr/sms-ledger/pkg/dbpkg"
	"github.com/go-petr/sms-ledger/pkg/errorspkg"
	"github.com/go-petr/sms-ledger/pkg/randompkg"
	"github.com/rs/zerolog"
)

const invoiceSuffixLength = 9

// Options configures RepoPGS.
type Options struct {
	LockTimeout    time.Duration
	WalletCurrency string
}

// RepoPGS facilitates ledger workflows.
type RepoPGS struct {
	conn           *sql.DB
	lockTimeout    time.Duration
	walletCurrency string

	now           func() time.Time
	invoiceSuffix func() string
}

// NewRepoPGS returns ledger RepoPGS with connection to start units of work.
func NewRepoPGS(conn *sql.DB, opts Options) *RepoPGS {
	return &RepoPGS{
		conn:           conn,
		lockTimeout:    opts.LockTimeout,
		walletCurrency: opts.WalletCurrency,
		now:            time.Now,
		invoiceSuffix:  func() string { return randompkg.Base36(invoiceSuffixLength) },
	}
}

func (r *RepoPGS) currencyFor(kind domain.AccountKind) string {
	return domain.CurrencyFor(kind, r.walletCurrency)
}

// run executes fn inside one unit of work and commits it when fn succeeds.
func (r *RepoPGS) run(ctx context.Context, fn func(q dbpkg.SQLInterface) error) error {
	l := zerolog.Ctx(ctx)

	uow, err := dbpkg.Begin(ctx, r.conn, r.lockTimeout)
	if err != nil {
		l.Error().Err(err).Msg("cannot begin unit of work")
		return errorspkg.ErrInternal
	}

	defer func() {
		if err := uow.Rollback(); err != nil {
			l.Error().Err(err).Send()
		}
	}()

	if err := fn(uow.Tx()); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		l.Error().Err(err).Msg("cannot commit unit of work")

		if dbpkg.IsConcurrencyConflict(err) {
			return domain.ErrConcurrencyConflict
		}

		return errorspkg.ErrInternal
	}

	return nil
}

// Deduct debits the business account of the given kind as usage, creating the account first
// when it does not exist yet.
func (r *RepoPGS) Deduct(ctx context.Context, arg domain.DeductParams) (domain.EntryResult, error) {
	var result domain.EntryResult

	err := r.run(ctx, func(q dbpkg.SQLInterface) error {
		account, err := accountrepo.NewRepoPGS(q).GetOrCreate(ctx, arg.BusinessID, arg.Kind, r.currencyFor(arg.Kind))
		if err != nil {
			return err
		}

		result, err = ApplyEntry(ctx, q, domain.ApplyEntryParams{
			AccountID:   account.ID,
			Kind:        domain.TransactionKindUsage,
			Delta:       arg.Amount.Neg(),
			Description: arg.Description,
			ReferenceID: arg.ReferenceID,
		})

		return err
	})
	if err != nil {
		return domain.EntryResult{}, err
	}

	return result, nil
}

// Purchase credits the business account of the given kind and issues a paid invoice for it.
//
// The credit, its transaction and the invoice are committed together or not at all.
func (r *RepoPGS) Purchase(ctx context.Context, arg domain.PurchaseParams) (domain.PurchaseResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.PurchaseResult

	description := arg.Description
	if description == "" {
		description = fmt.Sprintf("Purchase of %s %s via %s", arg.Amount.String(), r.currencyFor(arg.Kind), arg.PaymentMethod)
	}

	err := r.run(ctx, func(q dbpkg.SQLInterface) error {
		account, err := accountrepo.NewRepoPGS(q).GetOrCreate(ctx, arg.BusinessID, arg.Kind, r.currencyFor(arg.Kind))
		if err != nil {
			return err
		}

		entry, err := ApplyEntry(ctx, q, domain.ApplyEntryParams{
			AccountID:   account.ID,
			Kind:        domain.TransactionKindPurchase,
			Delta:       arg.Amount,
			Description: description,
		})
		if err != nil {
			return err
		}

		now := r.now().UTC()

		invoice, err := invoicerepo.NewRepoPGS(q).Create(ctx, domain.CreateInvoiceParams{
			BusinessID:    arg.BusinessID,
			InvoiceNumber: domain.FormatInvoiceNumber(now, r.invoiceSuffix()),
			Date:          now,
			Amount:        arg.Amount,
			Currency:      account.Currency,
			Status:        domain.InvoiceStatusPaid,
			Type:          domain.InvoiceTypeFor(arg.Kind),
			PaymentMethod: arg.PaymentMethod,
			Description:   description,
			TransactionID: entry.Transaction.ID,
		})
		if err != nil {
			l.Error().Err(err).Msg("invoice creation failed, rolling back purchase")
			return err
		}

		result = domain.PurchaseResult{
			Transaction: entry.Transaction,
			Invoice:     invoice,
			NewBalance:  entry.Account.Balance,
		}

		return nil
	})
	if err != nil {
		return domain.PurchaseResult{}, err
	}

	return result, nil
}

// Transfer moves the amount between two pre-provisioned accounts of the same business.
//
// The destination is never created implicitly. Both rows are locked in ascending id order
// before either is changed, and both legs are committed together or not at all.
func (r *RepoPGS) Transfer(ctx context.Context, arg domain.TransferParams) (domain.TransferResult, error) {
	var result domain.TransferResult

	description := arg.Description
	if description == "" {
		description = fmt.Sprintf("Transfer from %s to %s", arg.FromKind, arg.ToKind)
	}

	err := r.run(ctx, func(q dbpkg.SQLInterface) error {
		accountRepo := accountrepo.NewRepoPGS(q)

		from, err := accountRepo.GetByKind(ctx, arg.BusinessID, arg.FromKind)
		if err != nil {
			return err
		}

		to, err := accountRepo.GetByKind(ctx, arg.BusinessID, arg.ToKind)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				return domain.ErrDestinationAccountMissing
			}

			return err
		}

		// To avoid deadlocks lock both rows in consistent id order before any change.
		locked, err := accountRepo.LockInOrder(ctx, from.ID, to.ID)
		if err != nil {
			return err
		}

		for _, a := range locked {
			if a.ID == from.ID {
				from = a
			}
		}

		if from.Balance.LessThan(arg.Amount) {
			return domain.ErrInsufficientFunds
		}

		out, err := ApplyEntry(ctx, q, domain.ApplyEntryParams{
			AccountID:   from.ID,
			Kind:        domain.TransactionKindTransferOut,
			Delta:       arg.Amount.Neg(),
			Description: description,
		})
		if err != nil {
			return err
		}

		in, err := ApplyEntry(ctx, q, domain.ApplyEntryParams{
			AccountID:   to.ID,
			Kind:        domain.TransactionKindTransferIn,
			Delta:       arg.Amount,
			Description: description,
		})
		if err != nil {
			return err
		}

		result = domain.TransferResult{
			FromAccount: out.Account,
			ToAccount:   in.Account,
			OutTx:       out.Transaction,
			InTx:        in.Transaction,
		}

		return nil
	})
	if err != nil {
		return domain.TransferResult{}, err
	}

	return result, nil
}
