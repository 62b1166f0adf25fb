package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientFunds indicates that the account balance cannot cover the debit.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidAmount indicates an amount that is not representable for the account kind.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNonPositiveAmount indicates zero or negative amount.
	ErrNonPositiveAmount = errors.New("amount must be positive")
	// ErrInvalidTransactionKind indicates unknown transaction kind.
	ErrInvalidTransactionKind = errors.New("invalid transaction kind")
	// ErrReferenceConflict indicates that the reference id was already used for a different entry.
	ErrReferenceConflict = errors.New("reference id already used for a different entry")
	// ErrConcurrencyConflict indicates lock contention, the caller may retry.
	ErrConcurrencyConflict = errors.New("concurrent update conflict, retry")
)

// AmountScale is the number of decimal places stored for balances and amounts.
const AmountScale = 4

// MaxAmount is the largest amount or balance a NUMERIC(20,4) column holds.
var MaxAmount = decimal.New(1, 16).Sub(decimal.New(1, -AmountScale))

// TransactionKind classifies a balance change.
type TransactionKind string

// Known transaction kinds.
const (
	TransactionKindPurchase    TransactionKind = "PURCHASE"
	TransactionKindUsage       TransactionKind = "USAGE"
	TransactionKindTransferIn  TransactionKind = "TRANSFER_IN"
	TransactionKindTransferOut TransactionKind = "TRANSFER_OUT"
)

// Valid returns true for a known transaction kind.
func (k TransactionKind) Valid() bool {
	switch k {
	case TransactionKindPurchase, TransactionKindUsage, TransactionKindTransferIn, TransactionKindTransferOut:
		return true
	}

	return false
}

// Transaction is an immutable audit entry justifying one balance change.
type Transaction struct {
	ID           int64           `json:"id"`
	BusinessID   string          `json:"business_id"`
	AccountID    int64           `json:"account_id"`
	AccountKind  AccountKind     `json:"account_kind"`
	Kind         TransactionKind `json:"kind"`
	Amount       decimal.Decimal `json:"amount"` // can be negative or positive
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Description  string          `json:"description"`
	ReferenceID  string          `json:"reference_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ValidateAmount checks that amount is a positive quantity of the given account kind.
func ValidateAmount(kind AccountKind, amount decimal.Decimal) error {
	if !kind.Valid() {
		return ErrInvalidAccountKind
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrNonPositiveAmount
	}

	if amount.GreaterThan(MaxAmount) {
		return ErrInvalidAmount
	}

	if kind.WholeUnits() && !amount.IsInteger() {
		return ErrInvalidAmount
	}

	if !amount.Equal(amount.Truncate(AmountScale)) {
		return ErrInvalidAmount
	}

	return nil
}

// ApplyEntryParams is the input data for a single ledger entry.
type ApplyEntryParams struct {
	AccountID   int64
	Kind        TransactionKind
	Delta       decimal.Decimal // signed
	Description string
	ReferenceID string
}

// EntryResult is the result of a single ledger entry.
type EntryResult struct {
	Account     Account
	Transaction Transaction
	// Replayed is true when the entry was already applied under the same reference id.
	Replayed bool
}

// DeductParams is the input data for the deduction workflow.
type DeductParams struct {
	BusinessID  string          `json:"business_id"`
	Kind        AccountKind     `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ReferenceID string          `json:"reference_id,omitempty"`
}

// ListTransactionsParams is the input data to list transactions of a business.
type ListTransactionsParams struct {
	BusinessID  string
	Kind        TransactionKind // optional
	AccountKind AccountKind     // optional
	Page        int32
	Limit       int32
}

// TransactionPage is one page of transactions.
type TransactionPage struct {
	Items []Transaction `json:"items"`
	Pagination
}

// TransactionSummary aggregates transactions of one kind on one account kind.
type TransactionSummary struct {
	AccountKind AccountKind     `json:"account_kind"`
	Kind        TransactionKind `json:"kind"`
	Count       int64           `json:"count"`
	Total       decimal.Decimal `json:"total"`
}
