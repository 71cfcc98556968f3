package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/inventario-ledger/docs"
	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/report"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/backend"
	infranats "github.com/jhoicas/inventario-ledger/internal/infrastructure/nats"
	infrapdf "github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/spreadsheet"
	httpRouter "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	if err := run(*cfg, log); err != nil {
		log.Error().Err(err).Msg("aplicación finalizada con error")
		os.Exit(1)
	}
	log.Info().Msg("aplicación detenida")
}

// run arma las dependencias y sirve HTTP hasta recibir SIGINT/SIGTERM.
// Cualquier error sale por el retorno para que los defer cierren almacenamiento y NATS.
func run(cfg config.Config, log *logger.Logger) error {
	ctx := context.Background()
	store, err := backend.Open(ctx, cfg, log.Zerolog())
	if err != nil {
		return fmt.Errorf("abrir almacenamiento: %w", err)
	}
	defer store.Close()

	var publisher inventory.MovementPublisher = inventory.NopPublisher{}
	if cfg.NATS.Enabled() {
		nc, err := infranats.Connect(cfg.NATS.URL, cfg.App.Name, log.Component("nats"))
		if err != nil {
			return fmt.Errorf("conexión a NATS: %w", err)
		}
		defer nc.Drain()
		publisher = infranats.NewMovementPublisher(nc, cfg.NATS.Subject)
		log.Info().Str("subject", cfg.NATS.Subject).Msg("publicación de movimientos en NATS activa")
	}

	registerMovementUC := inventory.NewRegisterMovementUseCase(store.TxRunner, publisher, log.Zerolog())
	queryUC := inventory.NewQueryUseCase(store.TxRunner, store.Movements, store.Products)
	productUC := usecase.NewProductUseCase(store.Products)
	userUC := usecase.NewUserUseCase(store.Users)
	reportUC := report.NewUseCase(queryUC, map[report.Format]report.Renderer{
		report.FormatXLS: spreadsheet.NewWorkbookRenderer(),
		report.FormatCSV: spreadsheet.NewCSVRenderer(),
		report.FormatPDF: infrapdf.NewReportRenderer(),
	})
	authUC := auth.NewAuthUseCase(store.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Zerolog())

	if err := authUC.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return fmt.Errorf("crear administrador inicial: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		UserUC:           userUC,
		ProductUC:        productUC,
		RegisterMovement: registerMovementUC,
		MovementQuery:    queryUC,
		ReportUC:         reportUC,
		JWTSecret:        cfg.JWT.Secret,
	})

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(cfg.HTTP.Addr())
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		return fmt.Errorf("servidor HTTP: %w", err)
	case <-quit:
	}

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("apagado del servidor: %w", err)
	}
	return nil
}
