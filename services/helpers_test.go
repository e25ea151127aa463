package services

import (
	"context"
	"errors"
	"testing"

	"shopez/models"
	"shopez/repository/memory"

	"github.com/stretchr/testify/require"
)

func requireValidation(t *testing.T, err error, fields ...string) {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	for _, f := range fields {
		require.Contains(t, verr.Fields, f)
	}
}

func seedProduct(t *testing.T, store *memory.Store, p models.Product) *models.Product {
	t.Helper()
	require.NoError(t, store.Products().Insert(context.Background(), &p))
	return &p
}

func validDelivery() DeliveryDetails {
	return DeliveryDetails{
		CustomerName:  "Asha Rao",
		Email:         "asha@example.com",
		Mobile:        "9876543210",
		Address:       "12 MG Road, Bengaluru",
		Pincode:       "560001",
		PaymentMethod: "cod",
	}
}
