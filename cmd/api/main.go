package main

import (
	"context"
	"errors"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gofiber/contrib/swagger"

	"github.com/jhoicas/kontrol/internal/application/inventory"
	"github.com/jhoicas/kontrol/internal/application/report"
	"github.com/jhoicas/kontrol/internal/application/usecase"
	"github.com/jhoicas/kontrol/internal/infrastructure/export"
	infrapdf "github.com/jhoicas/kontrol/internal/infrastructure/pdf"
	"github.com/jhoicas/kontrol/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/kontrol/internal/interfaces/http"
	"github.com/jhoicas/kontrol/pkg/config"
	"github.com/jhoicas/kontrol/pkg/logger"
)

const (
	swaggerFile     = "./docs/swagger.json"
	shutdownTimeout = 15 * time.Second
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
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}

	ledger := inventory.NewLedgerUseCase(store.Tx, store.Movements, store.Products)
	productUC := usecase.NewProductUseCase(store.Products, store.Movements)
	reportUC := report.NewReportUseCase(
		store.Reports, store.Products, ledger,
		export.NewCSVWriter(), infrapdf.NewMarotoReportGenerator(cfg.App.Name), time.Local,
	)

	deps := httpRouter.RouterDeps{
		Ledger:    ledger,
		ProductUC: productUC,
		ReportUC:  reportUC,
		JWTSecret: cfg.JWT.Secret,
		Location:  time.Local,
		Ping:      store.Ping,
	}

	// Copias automáticas en segundo plano (solo sqlite en archivo)
	backupCtx, stopBackups := context.WithCancel(ctx)
	if mgr, err := store.Backups(); err == nil {
		deps.Backups = mgr
		go mgr.Run(backupCtx)
	} else if !errors.Is(err, storage.ErrBackupUnavailable) {
		log.Fatal().Err(err).Msg("copias de seguridad")
	}

	app := httpRouter.NewApp(cfg.App.Name, log.Component("http"))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Kontrol API",
		}))
	}

	httpRouter.Router(app, deps)

	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	wait := gfshutdown.GracefulShutdown(context.Background(), shutdownTimeout, map[string]gfshutdown.Operation{
		"backups": func(context.Context) error {
			stopBackups()
			return nil
		},
		"http+storage": func(ctx context.Context) error {
			// el almacenamiento se cierra después de drenar las peticiones en curso
			if err := app.ShutdownWithContext(ctx); err != nil {
				return err
			}
			return store.Close()
		},
	})

	exitCode := <-wait
	if exitCode != 0 {
		log.Error().Int("exit_code", exitCode).Msg("apagado con errores")
		os.Exit(exitCode)
	}
	log.Info().Msg("aplicación detenida")
}
