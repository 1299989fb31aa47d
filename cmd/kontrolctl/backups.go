package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
)

type backupCmd struct{}

func (*backupCmd) Name() string     { return "backup" }
func (*backupCmd) Synopsis() string { return "crea una copia manual de la base sqlite" }
func (*backupCmd) Usage() string {
	return `kontrolctl backup
`
}
func (*backupCmd) SetFlags(*flag.FlagSet) {}

func (*backupCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, store, err := openStore(ctx)
	if err != nil {
		fail("backup: %v", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	mgr, err := store.Backups()
	if err != nil {
		fail("backup: %v", err)
		return subcommands.ExitFailure
	}
	info, err := mgr.Create(ctx, true)
	if err != nil {
		fail("backup: %v", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s (%d bytes)\n", info.File, info.Size)
	return subcommands.ExitSuccess
}

type backupsCmd struct{}

func (*backupsCmd) Name() string     { return "backups" }
func (*backupsCmd) Synopsis() string { return "lista las copias, más recientes primero" }
func (*backupsCmd) Usage() string {
	return `kontrolctl backups
`
}
func (*backupsCmd) SetFlags(*flag.FlagSet) {}

func (*backupsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, store, err := openStore(ctx)
	if err != nil {
		fail("backups: %v", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	mgr, err := store.Backups()
	if err != nil {
		fail("backups: %v", err)
		return subcommands.ExitFailure
	}
	files, err := mgr.List()
	if err != nil {
		fail("backups: %v", err)
		return subcommands.ExitFailure
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ARCHIVO\tTIPO\tTAMAÑO\tFECHA")
	for _, f := range files {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", f.Name, f.Type, f.Size, f.Created.Local().Format("2006-01-02 15:04:05"))
	}
	_ = w.Flush()
	return subcommands.ExitSuccess
}

type restoreCmd struct{}

func (*restoreCmd) Name() string     { return "restore" }
func (*restoreCmd) Synopsis() string { return "restaura una copia (guarda antes el estado actual)" }
func (*restoreCmd) Usage() string {
	return `kontrolctl restore <archivo.db>

  El archivo debe estar en BACKUP_DIR. Antes de reemplazar la base se guarda
  una copia pre_restore_* del estado actual.
`
}
func (*restoreCmd) SetFlags(*flag.FlagSet) {}

func (*restoreCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return subcommands.ExitUsageError
	}
	_, store, err := openStore(ctx)
	if err != nil {
		fail("restore: %v", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	mgr, err := store.Backups()
	if err != nil {
		fail("restore: %v", err)
		return subcommands.ExitFailure
	}
	out, err := mgr.Restore(ctx, f.Arg(0))
	if err != nil {
		fail("restore: %v", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("restaurada %s (estado anterior en %s)\n", out.Restored, out.PreviousBackup)
	return subcommands.ExitSuccess
}
