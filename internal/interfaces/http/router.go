package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/report"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// RouterDeps dependencias para montar las rutas.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	UserUC           *usecase.UserUseCase
	ProductUC        *usecase.ProductUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	MovementQuery    *inventory.QueryUseCase
	ReportUC         *report.UseCase
	JWTSecret        string
}

// Router registra las rutas bajo /api. Login es público; el resto exige JWT y,
// según la ruta, un rol mínimo.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authMW := AuthMiddleware(deps.JWTSecret)

	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/register", authMW, RequireRole(entity.RoleAdmin), authHandler.Register)
	api.Get("/auth/me", authMW, authHandler.Me)

	products := api.Group("/products", authMW)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", RequireRole(entity.RoleAdmin), productHandler.Create)
	products.Put("/:id", RequireRole(entity.RoleAdmin), productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)

	movements := api.Group("/movements", authMW)
	movementHandler := NewMovementHandler(deps.RegisterMovement, deps.MovementQuery)
	movements.Post("/", RequireRole(entity.RoleBodeguero), movementHandler.Register)
	movements.Get("/", movementHandler.List)
	movements.Get("/product/:productId/reconcile", movementHandler.Reconcile)
	movements.Get("/product/:productId", movementHandler.ListByProduct)
	movements.Get("/:id", movementHandler.GetByID)

	reportHandler := NewReportHandler(deps.ReportUC)
	api.Get("/reports/stock-movement", authMW, reportHandler.StockMovement)
}
