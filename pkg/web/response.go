// Package web defines common components for a web application.
package web

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// JSONError provides type for explicit json encoded error response.
type JSONError struct {
	Error string `json:"error"`
}

// Error wraps a given err into json frinedly struct.
func Error(err error) JSONError {
	return JSONError{Error: err.Error()}
}

// Response holds the common response type for all APIs.
type Response struct {
	AccessToken          string `json:"access_token,omitempty"`
	AccessTokenExpiresAt string `json:"access_token_expires_at,omitempty"`
	Data                 any    `json:"data,omitempty"`
	Error                string `json:"error,omitempty"`
}

// GetErrorMsg returns a human readable message of the failed validation rule.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " is required"
	case "min":
		return " must be at least " + fe.Param()
	case "max":
		return " must be at most " + fe.Param()
	case "account_kind":
		return " must be WALLET or SMS"
	case "transaction_kind":
		return " must be PURCHASE, USAGE, TRANSFER_IN or TRANSFER_OUT"
	case "invoice_status":
		return " must be pending, paid, overdue or cancelled"
	case "payment_method":
		return " is not a supported payment method"
	case "positive_amount":
		return " must be a positive decimal number"
	}

	return fmt.Sprintf(" failed on the '%s' rule", fe.Tag())
}
