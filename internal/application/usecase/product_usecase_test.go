package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

func newProductUseCase() (*ProductUseCase, *memory.Store) {
	store := memory.NewStore()
	return NewProductUseCase(memory.NewProductRepository(store)), store
}

func TestProductCreate_CantidadInicial(t *testing.T) {
	uc, _ := newProductUseCase()

	p, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name:            "  Martillo ",
		Price:           decimal.RequireFromString("25000.50"),
		InitialQuantity: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "Martillo", p.Name)
	assert.Equal(t, int64(12), p.InitialQuantity)
	assert.Equal(t, int64(12), p.Quantity)
}

func TestProductCreate_Validaciones(t *testing.T) {
	uc, _ := newProductUseCase()
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateProductRequest{Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "x", InitialQuantity: -1})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "initialQuantity", ve.Field)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "x", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUpdate_NoModificaCantidad(t *testing.T) {
	uc, store := newProductUseCase()
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Clavos", InitialQuantity: 10})
	require.NoError(t, err)

	// Un movimiento confirmado cambia la cantidad a 7.
	reg := inventory.NewRegisterMovementUseCase(memory.NewTxRunner(store), nil, zerolog.Nop())
	_, err = reg.RegisterMovement(ctx, inventory.MovementInputDTO{
		ProductID: created.ID, Quantity: 3, MovementType: entity.MovementTypeExit, Description: "venta",
	})
	require.NoError(t, err)

	// Un cliente que manda "quantity" en el JSON no tiene dónde ponerlo.
	var in dto.UpdateProductRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Clavos 2\"","quantity":999}`), &in))

	updated, err := uc.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, `Clavos 2"`, updated.Name)
	assert.Equal(t, int64(7), updated.Quantity)

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Quantity)
}

func TestProductDelete_OcultaDelCatalogo(t *testing.T) {
	uc, _ := newProductUseCase()
	ctx := context.Background()

	a, err := uc.Create(ctx, dto.CreateProductRequest{Name: "A"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "B"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, a.ID))
	assert.ErrorIs(t, uc.Delete(ctx, a.ID), domain.ErrNotFound)

	_, err = uc.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	name := "A2"
	_, err = uc.Update(ctx, a.ID, dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "B", list.Items[0].Name)
	assert.Equal(t, 20, list.Page.Limit)
}
