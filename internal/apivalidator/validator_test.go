package apivalidator

import (
	"testing"

	"github.com/go-petr/sms-ledger/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type request struct {
	Kind          domain.AccountKind     `validate:"required,account_kind"`
	TxKind        domain.TransactionKind `validate:"omitempty,transaction_kind"`
	Status        domain.InvoiceStatus   `validate:"omitempty,invoice_status"`
	PaymentMethod string                 `validate:"required,payment_method"`
	Amount        decimal.Decimal        `validate:"positive_amount"`
}

func validRequest() request {
	return request{
		Kind:          domain.AccountKindWallet,
		PaymentMethod: domain.PaymentMethodCard,
		Amount:        decimal.RequireFromString("10.5"),
	}
}

func TestRegister(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	testCases := []struct {
		name    string
		modify  func(r *request)
		wantTag string
	}{
		{
			name:   "OK",
			modify: func(r *request) {},
		},
		{
			name: "OKWithFilters",
			modify: func(r *request) {
				r.TxKind = domain.TransactionKindUsage
				r.Status = domain.InvoiceStatusOverdue
			},
		},
		{
			name:    "UnknownAccountKind",
			modify:  func(r *request) { r.Kind = "VOICE" },
			wantTag: "account_kind",
		},
		{
			name:    "UnknownTransactionKind",
			modify:  func(r *request) { r.TxKind = "REFUND" },
			wantTag: "transaction_kind",
		},
		{
			name:    "UnknownInvoiceStatus",
			modify:  func(r *request) { r.Status = "void" },
			wantTag: "invoice_status",
		},
		{
			name:    "UnknownPaymentMethod",
			modify:  func(r *request) { r.PaymentMethod = "barter" },
			wantTag: "payment_method",
		},
		{
			name:    "ZeroAmount",
			modify:  func(r *request) { r.Amount = decimal.Zero },
			wantTag: "positive_amount",
		},
		{
			name:    "NegativeAmount",
			modify:  func(r *request) { r.Amount = decimal.NewFromInt(-1) },
			wantTag: "positive_amount",
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			r := validRequest()
			tc.modify(&r)

			err := v.Struct(r)
			if tc.wantTag == "" {
				require.NoError(t, err)
				return
			}

			var ve validator.ValidationErrors
			require.ErrorAs(t, err, &ve)
			require.Len(t, ve, 1)
			require.Equal(t, tc.wantTag, ve[0].Tag())
		})
	}
}
