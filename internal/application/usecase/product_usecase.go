package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Quantity solo cambia vía movimientos;
// aquí se fija únicamente al crear (InitialQuantity).
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto con Quantity = InitialQuantity.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	if in.Price.IsNegative() {
		return nil, domain.NewValidationError("price", "no puede ser negativo")
	}
	if in.InitialQuantity < 0 {
		return nil, domain.NewValidationError("initialQuantity", "debe ser mayor o igual a 0")
	}
	product := &entity.Product{
		Name:            in.Name,
		Description:     in.Description,
		Price:           in.Price,
		Category:        in.Category,
		Brand:           in.Brand,
		InitialQuantity: in.InitialQuantity,
		Quantity:        in.InitialQuantity,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID. Los eliminados se reportan como ErrNotFound.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsMovable() {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza atributos descriptivos. Quantity no forma parte de la entrada.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsMovable() {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "no puede quedar vacío")
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.NewValidationError("price", "no puede ser negativo")
		}
		product.Price = *in.Price
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Brand != nil {
		product.Brand = *in.Brand
	}
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	// Releer para devolver la cantidad vigente, no la que se leyó antes del update.
	fresh, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(fresh), nil
}

// List lista productos activos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina lógicamente un producto; su historial de movimientos se conserva.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.SoftDelete(ctx, id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		Category:        p.Category,
		Brand:           p.Brand,
		InitialQuantity: p.InitialQuantity,
		Quantity:        p.Quantity,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
