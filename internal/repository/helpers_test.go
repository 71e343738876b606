package repository

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// newMock returns an ordered pgx mock that is closed with the test.
// It satisfies the DB interface, so repositories run against it
// unchanged.
func newMock(t *testing.T) pgxmock.PgxConnIface {
	t.Helper()

	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mock.Close(context.Background()) })

	return mock
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

// decimalArg matches a decimal argument by numeric value, so a total
// computed at a different scale still compares equal.
type decimalArg struct {
	want string
}

func (a decimalArg) Match(v any) bool {
	d, ok := v.(decimal.Decimal)
	if !ok {
		return false
	}
	return d.Equal(decimal.RequireFromString(a.want))
}
