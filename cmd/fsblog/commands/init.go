package commands

import (
	"fmt"
	"io"

	"git.home.luguber.info/inful/fsblog/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	return RunInit(g.out(), root.Config, i.Force)
}

// RunInit writes the example configuration to configPath.
func RunInit(w io.Writer, configPath string, force bool) error {
	fmt.Fprintln(w, "Initializing fsblog")
	fmt.Fprintf(w, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		fmt.Fprintln(w, "Initialization failed")
		return err
	}
	fmt.Fprintln(w, "initialized successfully")
	return nil
}
