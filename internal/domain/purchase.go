package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidPaymentMethod indicates unsupported payment method.
var ErrInvalidPaymentMethod = errors.New("invalid payment method")

// Supported payment methods.
const (
	PaymentMethodCard         = "card"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodWallet       = "wallet"
	PaymentMethodCash         = "cash"
	PaymentMethodManual       = "manual"
)

// IsSupportedPaymentMethod returns true if the payment method is supported.
func IsSupportedPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodWallet, PaymentMethodCash, PaymentMethodManual:
		return true
	}

	return false
}

// PurchaseParams is the input data for the purchase workflow.
type PurchaseParams struct {
	BusinessID    string          `json:"business_id"`
	Kind          AccountKind     `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Description   string          `json:"description"`
}

// PurchaseResult is the result of the purchase workflow.
type PurchaseResult struct {
	Transaction Transaction     `json:"transaction"`
	Invoice     Invoice         `json:"invoice"`
	NewBalance  decimal.Decimal `json:"new_balance"`
}
