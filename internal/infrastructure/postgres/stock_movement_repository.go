package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// selectMovementsWithProduct trae cada movimiento con su producto vía LEFT JOIN.
// Las columnas del producto son anulables para tolerar filas huérfanas.
const selectMovementsWithProduct = `
	SELECT m.id, m.product_id, m.movement_type, m.quantity, m.description, m.created_at,
	       p.id, p.name, p.description, p.price, p.category, p.brand,
	       p.initial_quantity, p.quantity, p.is_deleted, p.created_at, p.updated_at
	FROM stock_movements m
	LEFT JOIN products p ON p.id = m.product_id`

// StockMovementRepo implementación del ledger de stock sobre PostgreSQL. Solo inserta y lee.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta el movimiento y completa ID y CreatedAt desde la base.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (product_id, movement_type, quantity, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, m.ProductID, int16(m.MovementType), m.Quantity, m.Description).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene la fila del movimiento sin resolver el producto.
func (r *StockMovementRepo) GetByID(ctx context.Context, id int64) (*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, movement_type, quantity, description, created_at
		FROM stock_movements WHERE id = $1`
	var (
		m  entity.StockMovement
		mt int16
	)
	err := r.q.QueryRow(ctx, query, id).Scan(&m.ID, &m.ProductID, &mt, &m.Quantity, &m.Description, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	m.MovementType = entity.MovementType(mt)
	return &m, nil
}

// List devuelve el ledger completo ordenado por ID.
func (r *StockMovementRepo) List(ctx context.Context) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, selectMovementsWithProduct+` ORDER BY m.id`)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	return collectMovements(rows)
}

// ListByProduct devuelve los movimientos de un producto ordenados por ID.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, selectMovementsWithProduct+` WHERE m.product_id = $1 ORDER BY m.id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock movements by product: %w", err)
	}
	return collectMovements(rows)
}

// ListByDateRange devuelve los movimientos con created_at en [from, to].
func (r *StockMovementRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx,
		selectMovementsWithProduct+` WHERE m.created_at BETWEEN $1 AND $2 ORDER BY m.created_at, m.id`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list stock movements by date: %w", err)
	}
	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	list := make([]*entity.StockMovement, 0)
	for rows.Next() {
		var (
			m  entity.StockMovement
			mt int16

			pID              *int64
			pName, pDesc     *string
			pPrice           decimal.NullDecimal
			pCategory        *string
			pBrand           *string
			pInitial, pQty   *int64
			pDeleted         *bool
			pCreated, pUpdtd *time.Time
		)
		if err := rows.Scan(&m.ID, &m.ProductID, &mt, &m.Quantity, &m.Description, &m.CreatedAt,
			&pID, &pName, &pDesc, &pPrice, &pCategory, &pBrand,
			&pInitial, &pQty, &pDeleted, &pCreated, &pUpdtd); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.MovementType = entity.MovementType(mt)
		if pID != nil {
			m.Product = &entity.Product{
				ID:              *pID,
				Name:            *pName,
				Description:     *pDesc,
				Price:           pPrice.Decimal,
				Category:        *pCategory,
				Brand:           *pBrand,
				InitialQuantity: *pInitial,
				Quantity:        *pQty,
				IsDeleted:       *pDeleted,
				CreatedAt:       *pCreated,
				UpdatedAt:       *pUpdtd,
			}
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
