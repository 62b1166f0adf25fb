package domain

import "errors"

var validationErrors = []error{
	ErrInvalidAmount,
	ErrNonPositiveAmount,
	ErrInvalidAccountKind,
	ErrInvalidTransactionKind,
	ErrInvalidInvoiceStatus,
	ErrInvalidPaymentMethod,
	ErrSameAccount,
	ErrInvalidPage,
}

// IsValidation reports whether err is caused by invalid caller input.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
