package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/bookshelf/internal/client/services"
)

// Catalog lists authors, genres or publishers whose name matches the
// optional search term.
func (a *App) Catalog(ctx context.Context, kind services.CatalogKind, args []string) error {
	rows, err := a.catalogService.Search(ctx, kind, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintf(a.out, "No %s found\n", kind)
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\n", r.ID, r.Name)
	}
	return tw.Flush()
}

// AddCatalog prompts for a name and creates a catalog entry of kind.
func (a *App) AddCatalog(ctx context.Context, kind services.CatalogKind) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}

	e, err := a.catalogService.Create(ctx, kind, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %s %d: %s\n", strings.TrimSuffix(string(kind), "s"), e.ID, e.Name)
	return nil
}
