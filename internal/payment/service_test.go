package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateRejectsSelfPayment(t *testing.T) {
	svc := NewService(nil, nil)

	_, err := svc.Create(context.Background(), 5, &CreatePaymentRequest{
		GroupID:     1,
		RecipientID: 5,
		Amount:      "10.00",
	})
	require.ErrorIs(t, err, ErrSelfPayment)
}
