package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/fsblog/internal/entity"
	"git.home.luguber.info/inful/fsblog/internal/index"
)

// IndexCmd implements the 'index' command.
type IndexCmd struct {
	Kind string `short:"k" enum:"all,category,blog_post,page" default:"all" help:"Only list this kind (all, category, blog_post, page)"`
}

func (i *IndexCmd) Run(g *Global, root *CLI) error {
	svc, err := root.newService()
	if err != nil {
		return err
	}
	idx, err := svc.Index(context.Background())
	if err != nil {
		return err
	}
	return WriteIndex(g.out(), idx, i.Kind)
}

// WriteIndex prints idx as an aligned table in scan order.
func WriteIndex(w io.Writer, idx *index.Index, kind string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tURI\tTIME\tTAGS\tTITLE")
	for _, e := range idx.Entities() {
		if kind != "" && kind != "all" && e.Kind.String() != kind {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Kind, e.URIPath, formatTime(e), strings.Join(e.Tags, ","), e.Title)
	}
	return tw.Flush()
}

func formatTime(e *entity.Entity) string {
	if e.Time.IsZero() {
		return "-"
	}
	return e.Time.Format(time.RFC3339)
}
