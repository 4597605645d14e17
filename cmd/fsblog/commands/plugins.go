package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"git.home.luguber.info/inful/fsblog/internal/plugin/transforms"
)

// PluginsCmd implements the 'plugins' command.
type PluginsCmd struct{}

func (p *PluginsCmd) Run(g *Global, root *CLI) error {
	svc, err := root.newService()
	if err != nil {
		return err
	}
	return WritePlugins(g.out(), transforms.Builtins(), svc.ActivePlugins())
}

// WritePlugins prints every transform in reg. STEP is the position in the
// active pipeline, or "-" when the transform is not configured.
func WritePlugins(w io.Writer, reg *transforms.Registry, active []string) error {
	step := make(map[string]int, len(active))
	for i, name := range active {
		step[name] = i + 1
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STEP\tNAME\tVERSION\tFORMATS\tDESCRIPTION")
	for _, t := range reg.List() {
		m := t.Metadata()
		pos := "-"
		if n, ok := step[m.Name]; ok {
			pos = strconv.Itoa(n)
		}
		formats := "all"
		if len(m.Formats) > 0 {
			formats = strings.Join(m.Formats, ",")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", pos, m.Name, m.Version, formats, m.Description)
	}
	return tw.Flush()
}
