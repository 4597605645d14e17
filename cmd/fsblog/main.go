package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/fsblog/cmd/fsblog/commands"
	ferrors "git.home.luguber.info/inful/fsblog/internal/foundation/errors"
	"git.home.luguber.info/inful/fsblog/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("fsblog"),
		kong.Description("Render a blog straight from a directory of text files."),
		kong.Vars{"version": version.String()},
	)

	global := &commands.Global{Logger: slog.Default(), Out: os.Stdout}
	if err := ctx.Run(global, &cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
