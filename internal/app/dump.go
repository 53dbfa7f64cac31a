package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/atomicstack/sitemap-panel/internal/backend"
	"github.com/atomicstack/sitemap-panel/internal/format/table"
	"github.com/atomicstack/sitemap-panel/internal/panel"
)

// Dump fetches the sitemap once and writes the built page tree as an
// indented outline: every reachable page followed by its elements.
func Dump(ctx context.Context, w io.Writer, source backend.Source) error {
	sm, err := source.Sitemap(ctx)
	if err != nil {
		return err
	}
	tree := panel.Build(sm.Homepage)
	if _, err := fmt.Fprintf(w, "sitemap %s: %d pages\n", sm.Name, tree.PageCount()); err != nil {
		return err
	}
	for _, line := range table.Format(outline(tree), nil) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// outline lists pages in lookup order with identity, kind, title, status
// and drill-down target columns.
func outline(tree *panel.Tree) [][]string {
	layout := panel.DefaultLayout()
	var rows [][]string
	tree.Walk(func(id panel.PageID, page *panel.Page) {
		indent := strings.Repeat("  ", tree.Depth(id))
		frame := tree.Render(id, layout)
		rows = append(rows, []string{
			indent + page.Identity,
			"page",
			page.Title,
			fmt.Sprintf("%d/%d", page.Index+1, frame.Pages),
		})
		for _, eid := range page.Elements {
			el := tree.Element(eid)
			status := el.Status
			if !el.Visible {
				status = strings.TrimSpace(status + " (hidden)")
			}
			target := ""
			switch {
			case el.Choices != panel.NoPage:
				target = "-> " + tree.Identity(el.Choices)
			case el.Detail != panel.NoPage:
				target = "-> " + tree.Identity(el.Detail)
			}
			rows = append(rows, []string{indent + "  " + el.Identity, el.Kind.String(), el.Title, status, target})
		}
	})
	return rows
}
