package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bookshelf/internal/client/services"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Books(ctx context.Context, args []string) error
	Book(ctx context.Context, args []string) error
	AddBook(ctx context.Context) error
	EditBook(ctx context.Context, args []string) error
	DeleteBook(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
	Catalog(ctx context.Context, kind services.CatalogKind, args []string) error
	AddCatalog(ctx context.Context, kind services.CatalogKind) error
}

const (
	helpGuest = "Available commands: login, status, help, exit"
	helpUser  = "Available commands: books [page=N size=N field:op[:value] +field|-field], book <id>, " +
		"addbook, editbook <id>, delbook <id>, export <file>, import <file>, " +
		"authors|genres|publishers [term], addauthor, addgenre, addpublisher, status, logout, exit"
)

// runREPL starts a simple read-eval-print loop for the bookshelf CLI.
//
// It reads a line from reader, parses the first token as the command and
// the rest as its arguments, and dispatches to methods on 'a'. Unknown
// commands are reported back to the user. The loop exits on EOF, on ctx
// cancellation, or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always:
//	  - help                      show available commands
//	  - login | logout | status   manage the session
//	  - exit | quit               leave the program
//
//	Books:
//	  - books [terms]             list books; see query.ParseArgs
//	  - book <id>                 show one book
//	  - addbook                   create a book (interactive)
//	  - editbook <id>             update a book (interactive)
//	  - delbook <id>              delete a book
//	  - export <file>             save the CSV export
//	  - import <file>             upload a CSV file
//
//	Catalogs:
//	  - authors | genres | publishers [term]  search
//	  - addauthor | addgenre | addpublisher   create
//
// Errors returned by command handlers are printed with describeError and
// never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("bs (%s)> ", statusFn()))

		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpUser)
			} else {
				printlnFn(helpGuest)
			}

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "status":
			err = a.Status(ctx)

		case "books", "ls":
			err = a.Books(ctx, args)

		case "book", "show":
			err = a.Book(ctx, args)

		case "addbook":
			err = a.AddBook(ctx)

		case "editbook":
			err = a.EditBook(ctx, args)

		case "delbook":
			err = a.DeleteBook(ctx, args)

		case "export":
			err = a.Export(ctx, args)

		case "import":
			err = a.Import(ctx, args)

		case "authors":
			err = a.Catalog(ctx, services.Authors, args)

		case "genres":
			err = a.Catalog(ctx, services.Genres, args)

		case "publishers":
			err = a.Catalog(ctx, services.Publishers, args)

		case "addauthor":
			err = a.AddCatalog(ctx, services.Authors)

		case "addgenre":
			err = a.AddCatalog(ctx, services.Genres)

		case "addpublisher":
			err = a.AddCatalog(ctx, services.Publishers)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn(describeError(err))
		}
	}
}
