package ledgerrepo

import (
	"context"
	"errors"

	"github.com/go-petr/sms-ledger/internal/accountrepo"
	"github.com/go-petr/sms-ledger/internal/domain"
	"github.com/go-petr/sms-ledger/internal/transactionrepo"
	"github.com/go-petr/sms-ledger/pkg/dbpkg"
	"github.com/rs/zerolog"
)

// ApplyEntry is the single balance-mutation primitive of the ledger.
//
// It must run inside a unit of work: q is the transaction the caller commits or rolls back.
// The account row stays locked from the balance read until the caller ends the unit, so two
// entries on the same account never interleave. A debit that would take the balance below zero
// fails with domain.ErrInsufficientFunds before anything is written, and a credit that would
// take it past domain.MaxAmount fails with domain.ErrInvalidAmount.
//
// When arg.ReferenceID is set and an entry with the same reference already exists on the
// account, the prior result is returned with Replayed set and nothing is written. A prior entry
// with a different kind or amount is never treated as a replay.
func ApplyEntry(ctx context.Context, q dbpkg.SQLInterface, arg domain.ApplyEntryParams) (domain.EntryResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.EntryResult

	accountRepo := accountrepo.NewRepoPGS(q)
	transactionRepo := transactionrepo.NewRepoPGS(q)

	account, err := accountRepo.GetForUpdate(ctx, arg.AccountID)
	if err != nil {
		return result, err
	}

	if arg.ReferenceID != "" {
		prior, err := transactionRepo.GetByReference(ctx, account.ID, arg.ReferenceID)

		switch {
		case err == nil:
			if prior.Kind != arg.Kind || !prior.Amount.Equal(arg.Delta) {
				l.Warn().
					Int64("account_id", account.ID).
					Str("reference_id", arg.ReferenceID).
					Msg("reference id reused for a different entry")

				return result, domain.ErrReferenceConflict
			}

			l.Info().
				Int64("account_id", account.ID).
				Str("reference_id", arg.ReferenceID).
				Msg("entry already applied, replaying prior result")

			return domain.EntryResult{Account: account, Transaction: prior, Replayed: true}, nil
		case !errors.Is(err, transactionrepo.ErrTransactionNotFound):
			return result, err
		}
	}

	newBalance := account.Balance.Add(arg.Delta)
	if newBalance.IsNegative() {
		return result, domain.ErrInsufficientFunds
	}

	if newBalance.GreaterThan(domain.MaxAmount) {
		return result, domain.ErrInvalidAmount
	}

	result.Account, err = accountRepo.SetBalance(ctx, account.ID, newBalance)
	if err != nil {
		return domain.EntryResult{}, err
	}

	result.Transaction, err = transactionRepo.Create(ctx, transactionrepo.CreateParams{
		BusinessID:   account.BusinessID,
		Account:      account,
		Kind:         arg.Kind,
		Amount:       arg.Delta,
		BalanceAfter: newBalance,
		Description:  arg.Description,
		ReferenceID:  arg.ReferenceID,
	})
	if err != nil {
		return domain.EntryResult{}, err
	}

	return result, nil
}
