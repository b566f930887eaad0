package pkg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryableTxError(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
		{name: "serialization", err: &pgconn.PgError{Code: "40001"}, want: true},
		{name: "deadlock_wrapped", err: fmt.Errorf("exec batch: %w", &pgconn.PgError{Code: "40P01"}), want: true},
		{name: "unique", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "not_null", err: &pgconn.PgError{Code: "23502"}, want: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsRetryableTxError(tc.err))
		})
	}

	assert.True(t, IsUniqueViolationError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolationError(&pgconn.PgError{Code: "40001"}))
}
