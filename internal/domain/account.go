// Package domain provides definitions of all ledger entities.
package domain

import (
	"errors"
	"time"

	"github.com/go-petr/sms-ledger/pkg/currencypkg"
	"github.com/shopspring/decimal"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrDestinationAccountMissing indicates that the transfer destination account is not provisioned.
	ErrDestinationAccountMissing = errors.New("destination account missing")
	// ErrInvalidAccountKind indicates unknown account kind.
	ErrInvalidAccountKind = errors.New("invalid account kind")
)

// AccountKind identifies the balance pool of a business.
type AccountKind string

// Known account kinds.
const (
	// AccountKindWallet is the currency pool.
	AccountKindWallet AccountKind = "WALLET"
	// AccountKindSMS is the SMS credit pool.
	AccountKindSMS AccountKind = "SMS"
)

// AccountKinds holds every known account kind in a stable order.
var AccountKinds = []AccountKind{AccountKindWallet, AccountKindSMS}

// Valid returns true for a known account kind.
func (k AccountKind) Valid() bool {
	return k == AccountKindWallet || k == AccountKindSMS
}

// WholeUnits reports whether amounts of the kind must be integral.
func (k AccountKind) WholeUnits() bool {
	return k == AccountKindSMS
}

// CurrencyFor returns the currency label of accounts of the given kind.
func CurrencyFor(kind AccountKind, walletCurrency string) string {
	if kind == AccountKindSMS {
		return currencypkg.SMSCredits
	}

	return walletCurrency
}

// ParseAccountKind converts s into AccountKind.
func ParseAccountKind(s string) (AccountKind, error) {
	k := AccountKind(s)
	if !k.Valid() {
		return "", ErrInvalidAccountKind
	}

	return k, nil
}

// Account holds one balance pool for one business.
//
// Balance is changed only by the ledger engine.
type Account struct {
	ID         int64           `json:"id"`
	BusinessID string          `json:"business_id"`
	Kind       AccountKind     `json:"kind"`
	Balance    decimal.Decimal `json:"balance"`
	Currency   string          `json:"currency"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Balances maps account kinds of one business to their balances.
type Balances map[AccountKind]decimal.Decimal
