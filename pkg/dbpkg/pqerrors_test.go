package dbpkg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestIsConcurrencyConflict(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "Deadlock", err: &pq.Error{Code: "40P01"}, want: true},
		{name: "SerializationFailure", err: &pq.Error{Code: "40001"}, want: true},
		{name: "LockTimeout", err: fmt.Errorf("wrapped: %w", &pq.Error{Code: "55P03"}), want: true},
		{name: "CheckViolation", err: &pq.Error{Code: "23514"}, want: false},
		{name: "NotPQ", err: errors.New("boom"), want: false},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, IsConcurrencyConflict(tc.err))
		})
	}
}

func TestConstraint(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "invoices_invoice_number_key"}

	require.Equal(t, "invoices_invoice_number_key", Constraint(err))
	require.True(t, IsUniqueViolation(err, "invoices_invoice_number_key"))
	require.False(t, IsUniqueViolation(err, "accounts_business_id_kind_key"))
	require.Empty(t, Constraint(errors.New("boom")))
}

func TestIsNumericOutOfRange(t *testing.T) {
	require.True(t, IsNumericOutOfRange(&pq.Error{Code: "22003"}))
	require.True(t, IsNumericOutOfRange(fmt.Errorf("scan: %w", &pq.Error{Code: "22003"})))
	require.False(t, IsNumericOutOfRange(&pq.Error{Code: "23514"}))
	require.False(t, IsNumericOutOfRange(errors.New("boom")))
}
