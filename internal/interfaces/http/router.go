package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/jhoicas/kontrol/internal/application/dto"
	"github.com/jhoicas/kontrol/internal/application/inventory"
	"github.com/jhoicas/kontrol/internal/application/report"
	"github.com/jhoicas/kontrol/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger    *inventory.LedgerUseCase
	ProductUC *usecase.ProductUseCase
	ReportUC  *report.ReportUseCase
	Backups   BackupService // nil si el motor no soporta copias
	JWTSecret string
	Location  *time.Location // define "un día" en reportes y filtros; nil = time.Local
	Ping      func(ctx context.Context) error
}

// NewApp crea la app fiber con recover y logging de peticiones.
func NewApp(name string, log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               name,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           60 * time.Second,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			return c.Status(code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: err.Error()})
		},
	})
	app.Use(recover.New())
	app.Use(RequestLogger(log))
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Ping != nil {
			if err := deps.Ping(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "error": err.Error()})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Bearer Token si hay JWT_SECRET; si no, operador "sistema"
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Movimientos
	movementHandler := NewMovementHandler(deps.Ledger, deps.ReportUC, loc)
	movements := api.Group("/movements")
	movements.Post("/", movementHandler.Register)
	movements.Get("/", movementHandler.List)
	movements.Get("/export.csv", movementHandler.ExportCSV)
	movements.Get("/:id/lines", movementHandler.Lines)
	movements.Put("/:id/lines", movementHandler.EditLines)
	movements.Delete("/:id", movementHandler.Reverse)
	api.Patch("/movement-lines/:id", movementHandler.EditLine)

	// Productos
	productHandler := NewProductHandler(deps.ProductUC)
	products := api.Group("/products")
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/summary", productHandler.Summary)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Reportes
	reportHandler := NewReportHandler(deps.ReportUC, loc)
	reports := api.Group("/reports")
	reports.Get("/daily", reportHandler.Daily)
	reports.Get("/monthly", reportHandler.Monthly)
	reports.Get("/products/:id/history", reportHandler.ProductHistory)

	// Copias de seguridad
	backupHandler := NewBackupHandler(deps.Backups)
	backups := api.Group("/backups")
	backups.Post("/", backupHandler.Create)
	backups.Get("/", backupHandler.List)
	backups.Get("/status", backupHandler.Status)
	backups.Post("/restore", backupHandler.Restore)
}
