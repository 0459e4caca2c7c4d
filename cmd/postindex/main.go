package main

import (
	"fmt"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/postindex/cmd/postindex/commands"
	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
)

func main() {
	cli := &commands.CLI{}
	global := commands.NewGlobal(os.Stdout)

	parser, err := commands.NewParser(cli, global)
	if err != nil {
		fmt.Fprintf(os.Stderr, "postindex: %v\n", err)
		os.Exit(1)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := kctx.Run(cli); err != nil {
		pierrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
