package test

import (
	"time"

	"github.com/go-petr/sms-ledger/internal/domain"
	"github.com/go-petr/sms-ledger/pkg/currencypkg"
	"github.com/go-petr/sms-ledger/pkg/randompkg"
	"github.com/shopspring/decimal"
)

// RandomAccount returns random account of the given business and kind.
func RandomAccount(businessID string, kind domain.AccountKind) domain.Account {
	balance := randompkg.MoneyAmountBetween(1000, 10_000)
	if kind.WholeUnits() {
		balance = randompkg.WholeAmountBetween(1000, 10_000)
	}

	return domain.Account{
		ID:         randompkg.IntBetween(1, 100),
		BusinessID: businessID,
		Kind:       kind,
		Balance:    balance,
		Currency:   domain.CurrencyFor(kind, currencypkg.USD),
		IsActive:   true,
		CreatedAt:  time.Now().Truncate(time.Second).UTC(),
	}
}

// RandomTransaction returns random transaction posted to the account.
func RandomTransaction(account domain.Account, kind domain.TransactionKind, amount decimal.Decimal) domain.Transaction {
	return domain.Transaction{
		ID:           randompkg.IntBetween(1, 1000),
		BusinessID:   account.BusinessID,
		AccountID:    account.ID,
		AccountKind:  account.Kind,
		Kind:         kind,
		Amount:       amount,
		BalanceAfter: account.Balance.Add(amount),
		Description:  randompkg.String(12),
		CreatedAt:    time.Now().Truncate(time.Second).UTC(),
	}
}

// RandomInvoice returns random invoice of the business with the given status.
func RandomInvoice(businessID string, status domain.InvoiceStatus) domain.Invoice {
	now := time.Now().Truncate(time.Second).UTC()

	return domain.Invoice{
		ID:            randompkg.IntBetween(1, 1000),
		BusinessID:    businessID,
		InvoiceNumber: domain.FormatInvoiceNumber(now, randompkg.Base36(9)),
		Date:          now,
		Amount:        randompkg.MoneyAmountBetween(1, 1000),
		Currency:      currencypkg.USD,
		Status:        status,
		Type:          domain.InvoiceTypeWalletTopup,
		PaymentMethod: domain.PaymentMethodCard,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
