package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvoiceNotFound indicates that the invoice is not found.
	ErrInvoiceNotFound = errors.New("invoice not found")
	// ErrInvalidInvoiceStatus indicates unknown invoice status.
	ErrInvalidInvoiceStatus = errors.New("invalid invoice status")
	// ErrInvalidInvoiceTransition indicates a status change the lifecycle does not allow.
	ErrInvalidInvoiceTransition = errors.New("invalid invoice status transition")
)

// InvoiceStatus is the state of an invoice.
type InvoiceStatus string

// Invoice statuses.
const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusPending: {InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusOverdue: {InvoiceStatusCancelled},
}

// Valid returns true for a known invoice status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}

	return false
}

// Terminal reports whether no transition leaves s.
func (s InvoiceStatus) Terminal() bool {
	return len(invoiceTransitions[s]) == 0
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	for _, allowed := range invoiceTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// CancellableStatuses lists the statuses an invoice can be cancelled from.
func CancellableStatuses() []InvoiceStatus {
	var statuses []InvoiceStatus

	for _, s := range []InvoiceStatus{InvoiceStatusPending, InvoiceStatusOverdue} {
		if s.CanTransitionTo(InvoiceStatusCancelled) {
			statuses = append(statuses, s)
		}
	}

	return statuses
}

// Invoice types.
const (
	InvoiceTypeSMSCredits  = "sms_credits"
	InvoiceTypeWalletTopup = "wallet_topup"
)

// InvoiceTypeFor returns the invoice type label of a purchase of the given kind.
func InvoiceTypeFor(kind AccountKind) string {
	if kind == AccountKindSMS {
		return InvoiceTypeSMSCredits
	}

	return InvoiceTypeWalletTopup
}

// InvoiceNumberPrefix starts every invoice number.
const InvoiceNumberPrefix = "INV"

// FormatInvoiceNumber builds the human-readable invoice number INV-<YYYY-MM-DD>-<SUFFIX>.
func FormatInvoiceNumber(date time.Time, suffix string) string {
	return InvoiceNumberPrefix + "-" + date.UTC().Format("2006-01-02") + "-" + strings.ToUpper(suffix)
}

// Invoice is a billing record of a business.
type Invoice struct {
	ID            int64           `json:"id"`
	BusinessID    string          `json:"business_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        InvoiceStatus   `json:"status"`
	Type          string          `json:"type"`
	PaymentMethod string          `json:"payment_method"`
	Description   string          `json:"description"`
	TransactionID int64           `json:"transaction_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateInvoiceParams is the input data to create an invoice.
type CreateInvoiceParams struct {
	BusinessID    string
	InvoiceNumber string
	Date          time.Time
	Amount        decimal.Decimal
	Currency      string
	Status        InvoiceStatus
	Type          string
	PaymentMethod string
	Description   string
	TransactionID int64
}

// ListInvoicesParams is the input data to list invoices of a business.
type ListInvoicesParams struct {
	BusinessID string
	Status     InvoiceStatus // optional
	Page       int32
	Limit      int32
}

// InvoicePage is one page of invoices.
type InvoicePage struct {
	Items []Invoice `json:"items"`
	Pagination
}

// InvoiceSummary aggregates invoices of one status.
type InvoiceSummary struct {
	Status InvoiceStatus   `json:"status"`
	Count  int64           `json:"count"`
	Total  decimal.Decimal `json:"total"`
}
