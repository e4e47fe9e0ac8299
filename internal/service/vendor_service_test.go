package service

import (
	"context"
	"testing"

	"github.com/devxtra-community/xerocare-sub000/internal/apperror"
	"github.com/devxtra-community/xerocare-sub000/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVendorLifecycle(t *testing.T) {
	svc := NewVendorService(newStubVendorRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateVendorRequest{
		Name:  "Canon Lanka (Pvt) Ltd",
		TaxID: "LK-100200300",
	})
	require.NoError(t, err)
	assert.True(t, created.Active)

	id := uuid.MustParse(created.ID)
	newName := "Canon Lanka Limited"
	updated, err := svc.Update(ctx, id, dto.UpdateVendorRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	// TaxID untouched by update
	assert.Equal(t, "LK-100200300", updated.TaxID)

	require.NoError(t, svc.Deactivate(ctx, id))
	vendors, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, vendors)
}

func TestVendorValidation(t *testing.T) {
	svc := NewVendorService(newStubVendorRepo())

	_, err := svc.Create(context.Background(), dto.CreateVendorRequest{Name: "X"})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.StatusOf(err))

	_, err = svc.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, 404, apperror.StatusOf(err))
}
