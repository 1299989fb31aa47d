package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/kontrol/internal/infrastructure/storage"
	"github.com/jhoicas/kontrol/pkg/config"
	"github.com/jhoicas/kontrol/pkg/logger"
)

var verbose = flag.Bool("v", false, "Muestra los logs de la aplicación en stderr")

// openStore carga la configuración y abre el motor (aplica migraciones pendientes).
func openStore(ctx context.Context) (*config.Config, *storage.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.Nop()
	if *verbose {
		log = logger.New(logger.Config{Env: "development", Level: cfg.App.LogLevel, Out: os.Stderr})
	}
	store, err := storage.Open(ctx, cfg, log.Zerolog())
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
