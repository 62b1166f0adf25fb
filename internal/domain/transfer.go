package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrSameAccount indicates that the transfer source and destination are the same account.
var ErrSameAccount = errors.New("transfer source and destination are the same")

// TransferParams is the input data for the transfer workflow.
type TransferParams struct {
	BusinessID  string          `json:"business_id"`
	FromKind    AccountKind     `json:"from_kind"`
	ToKind      AccountKind     `json:"to_kind"`
	Amount      decimal.Decimal `json:"amount"` // must be positive
	Description string          `json:"description"`
}

// TransferResult is the result of the transfer workflow.
type TransferResult struct {
	FromAccount Account     `json:"from_account"`
	ToAccount   Account     `json:"to_account"`
	OutTx       Transaction `json:"out_tx"`
	InTx        Transaction `json:"in_tx"`
}
