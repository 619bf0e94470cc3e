package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/bookshelf/internal/client/models"
	"github.com/dmitrijs2005/bookshelf/internal/client/query"
)

var errUsage = errors.New("usage")

func usage(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errUsage}, args...)...)
}

func parseID(args []string, cmd string) (int64, error) {
	if len(args) != 1 {
		return 0, usage("%s <id>", cmd)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, usage("%s <id>, id must be a positive number", cmd)
	}
	return id, nil
}

// Books lists one page of books. args follow query.ParseArgs, e.g.
// "page=2 size=20 price:>:1000 genre:isAnyOf:Fantasy,Horror -price".
func (a *App) Books(ctx context.Context, args []string) error {
	page, filters, sorts, err := query.ParseArgs(args)
	if err != nil {
		return err
	}

	res, err := a.bookService.List(ctx, page, filters, sorts)
	if err != nil {
		return err
	}

	if len(res.Rows) == 0 {
		fmt.Fprintln(a.out, "No books found")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tGENRE\tPRICE\tAVAILABLE")
	for _, b := range res.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\n", b.ID, b.Title, b.Author, b.Genre, formatPrice(b.Price), b.Availability)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	pages := (res.Count + page.Size - 1) / page.Size
	fmt.Fprintf(a.out, "Page %d of %d, %d books total\n", page.Index+1, pages, res.Count)
	return nil
}

// Book prints every field of one book.
func (a *App) Book(ctx context.Context, args []string) error {
	id, err := parseID(args, "book")
	if err != nil {
		return err
	}

	b, err := a.bookService.Get(ctx, id)
	if err != nil {
		return err
	}
	a.printBook(b)
	return nil
}

func (a *App) printBook(b *models.Book) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", b.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", b.Title)
	fmt.Fprintf(tw, "Author:\t%s\n", b.Author)
	fmt.Fprintf(tw, "Publisher:\t%s\n", b.Publisher)
	fmt.Fprintf(tw, "Genre:\t%s\n", b.Genre)
	fmt.Fprintf(tw, "Price:\t%s\n", formatPrice(b.Price))
	fmt.Fprintf(tw, "Available:\t%d\n", b.Availability)
	if b.ImageURL != "" {
		fmt.Fprintf(tw, "Cover:\t%s\n", b.ImageURL)
	}
	_ = tw.Flush()
}

// AddBook prompts for every field and creates the book.
func (a *App) AddBook(ctx context.Context) error {
	in, err := a.readBookInput(models.BookInput{})
	if err != nil {
		return err
	}

	b, err := a.bookService.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created book %d\n", b.ID)
	return nil
}

// EditBook loads a book and prompts for each field with the current value
// as default.
func (a *App) EditBook(ctx context.Context, args []string) error {
	id, err := parseID(args, "editbook")
	if err != nil {
		return err
	}

	cur, err := a.bookService.Get(ctx, id)
	if err != nil {
		return err
	}

	in, err := a.readBookInput(cur.Input())
	if err != nil {
		return err
	}

	if _, err := a.bookService.Update(ctx, id, in); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated book %d\n", id)
	return nil
}

// DeleteBook removes a book after confirmation.
func (a *App) DeleteBook(ctx context.Context, args []string) error {
	id, err := parseID(args, "delbook")
	if err != nil {
		return err
	}

	ok, err := confirm(a.reader, fmt.Sprintf("Delete book %d?", id), a.out)
	if err != nil || !ok {
		return err
	}

	if err := a.bookService.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted book %d\n", id)
	return nil
}

// Export downloads the CSV export into a local file.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("export <file>")
	}
	n, err := a.bookService.Export(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %d bytes to %s\n", n, args[0])
	return nil
}

// Import uploads a local CSV file.
func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("import <file>")
	}
	n, err := a.bookService.Import(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Imported %d books\n", n)
	return nil
}

// readBookInput prompts for the book form. def supplies the values shown in
// brackets; an empty answer keeps them. The cover prompt accepts a local file
// or an http(s) URL.
func (a *App) readBookInput(def models.BookInput) (models.BookInput, error) {
	in := def

	text := []struct {
		prompt string
		dst    *string
	}{
		{"Title", &in.Title},
		{"Author", &in.Author},
		{"Publisher", &in.Publisher},
		{"Genre", &in.Genre},
	}
	for _, f := range text {
		v, err := getTextWithDefault(a.reader, f.prompt, *f.dst, a.out)
		if err != nil {
			return in, err
		}
		*f.dst = v
	}

	price, err := getTextWithDefault(a.reader, "Price", formatPrice(def.Price), a.out)
	if err != nil {
		return in, err
	}
	if in.Price, err = strconv.ParseFloat(price, 64); err != nil {
		return in, fmt.Errorf("%w: price %q is not a number", models.ErrInvalidBook, price)
	}

	avail, err := getTextWithDefault(a.reader, "Available copies", strconv.Itoa(def.Availability), a.out)
	if err != nil {
		return in, err
	}
	if in.Availability, err = strconv.Atoi(avail); err != nil {
		return in, fmt.Errorf("%w: availability %q is not a whole number", models.ErrInvalidBook, avail)
	}

	cover, err := getTextWithDefault(a.reader, "Cover image (file or URL, optional)", def.ImageURL, a.out)
	if err != nil {
		return in, err
	}
	switch {
	case cover == "" || cover == def.ImageURL:
	case strings.HasPrefix(cover, "http://"), strings.HasPrefix(cover, "https://"):
		in.ImageURL = cover
	default:
		img, err := a.bookService.LoadImage(cover)
		if err != nil {
			return in, err
		}
		in.Image = img
	}

	return in, in.Validate()
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
