package group

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateRejectsInvalidCurrency(t *testing.T) {
	svc := NewService(nil)

	for _, currency := range []string{"US", "DOLLARS", "1234"} {
		_, err := svc.Create(context.Background(), 1, &CreateGroupRequest{
			Name:     "Trip",
			Currency: currency,
		})
		require.ErrorIs(t, err, ErrInvalidCurrency, "currency %q", currency)
	}
}
