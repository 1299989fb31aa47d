package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"

	"github.com/jhoicas/kontrol/internal/application/usecase"
)

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "aplica las migraciones pendientes" }
func (*migrateCmd) Usage() string {
	return `kontrolctl migrate

  Abre la base configurada (DB_DRIVER) y aplica las migraciones pendientes.
`
}
func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (*migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, store, err := openStore(ctx)
	if err != nil {
		fail("migrate: %v", err)
		return subcommands.ExitFailure
	}
	defer store.Close()
	fmt.Printf("esquema al día (%s)\n", cfg.DB.Driver)
	return subcommands.ExitSuccess
}

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "productos activos, stock total y movimientos de hoy" }
func (*summaryCmd) Usage() string {
	return `kontrolctl summary
`
}
func (*summaryCmd) SetFlags(*flag.FlagSet) {}

func (*summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, store, err := openStore(ctx)
	if err != nil {
		fail("summary: %v", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	sum, err := usecase.NewProductUseCase(store.Products, store.Movements).QuickSummary(ctx, time.Now())
	if err != nil {
		fail("summary: %v", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("productos activos:  %d\n", sum.TotalProducts)
	fmt.Printf("stock total:        %d\n", sum.TotalStock)
	fmt.Printf("movimientos de hoy: %d\n", sum.MovementsToday)
	return subcommands.ExitSuccess
}
