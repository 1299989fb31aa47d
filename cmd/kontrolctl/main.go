// kontrolctl tareas de administración sobre la base configurada (mismas variables que la API).
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&migrateCmd{}, "database")
	commander.Register(&summaryCmd{}, "database")

	commander.Register(&backupCmd{}, "backups")
	commander.Register(&backupsCmd{}, "backups")
	commander.Register(&restoreCmd{}, "backups")

	commander.Register(&tokenCmd{}, "auth")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
