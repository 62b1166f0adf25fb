// Package test provides shared test helpers.
package test

import (
	"context"
	"testing"
	"time"

	"github.com/go-petr/sms-ledger/internal/accountrepo"
	"github.com/go-petr/sms-ledger/internal/domain"
	"github.com/go-petr/sms-ledger/internal/invoicerepo"
	"github.com/go-petr/sms-ledger/internal/ledgerrepo"
	"github.com/go-petr/sms-ledger/pkg/currencypkg"
	"github.com/go-petr/sms-ledger/pkg/dbpkg"
	"github.com/go-petr/sms-ledger/pkg/randompkg"
	"github.com/shopspring/decimal"
)

// SeedAccount creates the account of the business and credits it with balance as a purchase,
// so the balance always matches the transaction history.
func SeedAccount(t *testing.T, q dbpkg.SQLInterface, businessID string, kind domain.AccountKind, balance decimal.Decimal) domain.Account {
	t.Helper()

	ctx := context.Background()
	currency := domain.CurrencyFor(kind, currencypkg.USD)

	account, err := accountrepo.NewRepoPGS(q).GetOrCreate(ctx, businessID, kind, currency)
	if err != nil {
		t.Fatalf("accountRepo.GetOrCreate(ctx, %v, %v, %v) returned error: %v", businessID, kind, currency, err)
	}

	if !balance.IsPositive() {
		return account
	}

	arg := domain.ApplyEntryParams{
		AccountID:   account.ID,
		Kind:        domain.TransactionKindPurchase,
		Delta:       balance,
		Description: "seed",
	}

	result, err := ledgerrepo.ApplyEntry(ctx, q, arg)
	if err != nil {
		t.Fatalf("ledgerrepo.ApplyEntry(ctx, q, %+v) returned error: %v", arg, err)
	}

	return result.Account
}

// SeedBusiness creates both accounts of a random business with the given balances.
func SeedBusiness(t *testing.T, q dbpkg.SQLInterface, wallet, sms decimal.Decimal) (string, domain.Balances) {
	t.Helper()

	businessID := randompkg.BusinessID()

	balances := domain.Balances{
		domain.AccountKindWallet: SeedAccount(t, q, businessID, domain.AccountKindWallet, wallet).Balance,
		domain.AccountKindSMS:    SeedAccount(t, q, businessID, domain.AccountKindSMS, sms).Balance,
	}

	return businessID, balances
}

// SeedInvoice creates an invoice of the business dated date with the given status.
func SeedInvoice(t *testing.T, q dbpkg.SQLInterface, businessID string, status domain.InvoiceStatus, date time.Time) domain.Invoice {
	t.Helper()

	arg := domain.CreateInvoiceParams{
		BusinessID:    businessID,
		InvoiceNumber: domain.FormatInvoiceNumber(date, randompkg.Base36(9)),
		Date:          date,
		Amount:        randompkg.MoneyAmountBetween(1, 1000),
		Currency:      currencypkg.USD,
		Status:        status,
		Type:          domain.InvoiceTypeWalletTopup,
		PaymentMethod: domain.PaymentMethodBankTransfer,
		Description:   "seed",
	}

	invoice, err := invoicerepo.NewRepoPGS(q).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("invoiceRepo.Create(ctx, %+v) returned error: %v", arg, err)
	}

	return invoice
}
