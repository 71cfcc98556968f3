package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. InitialQuantity es la única
// forma de fijar existencias fuera del ledger y solo aplica al crear.
type CreateProductRequest struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Category        string          `json:"category"`
	Brand           string          `json:"brand"`
	InitialQuantity int64           `json:"initialQuantity"`
}

// UpdateProductRequest entrada para actualizar un producto.
// No tiene campo de cantidad: un "quantity" en el JSON se ignora.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Brand       *string          `json:"brand"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Category        string          `json:"category"`
	Brand           string          `json:"brand"`
	InitialQuantity int64           `json:"initialQuantity"`
	Quantity        int64           `json:"quantity"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
