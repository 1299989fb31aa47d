package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/jhoicas/kontrol/pkg/config"
	"github.com/jhoicas/kontrol/pkg/jwt"
)

type tokenCmd struct {
	minutes int
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "emite un token JWT para un operador" }
func (*tokenCmd) Usage() string {
	return `kontrolctl token [-m <minutos>] <operador>

  Firma un token con JWT_SECRET. El operador queda registrado como autor
  de los movimientos que se hagan con ese token.
`
}

func (t *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&t.minutes, "m", 0, "Minutos de validez (por defecto JWT_EXPIRATION_MINUTES)")
}

func (t *tokenCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return subcommands.ExitUsageError
	}
	cfg, err := config.Load()
	if err != nil {
		fail("token: %v", err)
		return subcommands.ExitFailure
	}
	minutes := t.minutes
	if minutes <= 0 {
		minutes = cfg.JWT.Expiration
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, f.Arg(0), cfg.JWT.Issuer, minutes)
	if err != nil {
		fail("token: %v", err)
		return subcommands.ExitFailure
	}
	fmt.Println(tok)
	return subcommands.ExitSuccess
}
