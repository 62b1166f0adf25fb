// Package apivalidator registers the request binding rules of the admin API.
package apivalidator

import (
	"fmt"
	"reflect"

	"github.com/go-petr/sms-ledger/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ValidAccountKind validates whether the account kind is known.
var ValidAccountKind validator.Func = func(fl validator.FieldLevel) bool {
	return domain.AccountKind(fl.Field().String()).Valid()
}

// ValidTransactionKind validates whether the transaction kind is known.
var ValidTransactionKind validator.Func = func(fl validator.FieldLevel) bool {
	return domain.TransactionKind(fl.Field().String()).Valid()
}

// ValidInvoiceStatus validates whether the invoice status is known.
var ValidInvoiceStatus validator.Func = func(fl validator.FieldLevel) bool {
	return domain.InvoiceStatus(fl.Field().String()).Valid()
}

// ValidPaymentMethod validates whether the payment method is supported.
var ValidPaymentMethod validator.Func = func(fl validator.FieldLevel) bool {
	return domain.IsSupportedPaymentMethod(fl.Field().String())
}

// ValidPositiveAmount validates whether a decimal amount is greater than zero.
var ValidPositiveAmount validator.Func = func(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && d.IsPositive()
}

// decimalValue lets decimal fields be validated through their string form.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}

	return nil
}

// Register adds every custom rule to v.
func Register(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	rules := map[string]validator.Func{
		"account_kind":     ValidAccountKind,
		"transaction_kind": ValidTransactionKind,
		"invoice_status":   ValidInvoiceStatus,
		"payment_method":   ValidPaymentMethod,
		"positive_amount":  ValidPositiveAmount,
	}

	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("cannot register %s validator: %w", tag, err)
		}
	}

	return nil
}
