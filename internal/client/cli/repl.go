package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/auditdesk/internal/client/register"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to. The real
// App type satisfies it; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error

	Category(ctx context.Context, args []string) error
	Reload(ctx context.Context) error
	Search(ctx context.Context, args []string) error
	Location(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Show(ctx context.Context, args []string) error

	Edit(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
	Evidence(ctx context.Context, args []string) error
	Attach(ctx context.Context, args []string) error
	ClearEvidence(ctx context.Context, args []string) error
	SelectImport(ctx context.Context, args []string) error
	Import(ctx context.Context) error
	Users(ctx context.Context) error
}

const helpLoggedOut = `Available commands: login, exit`

const helpLoggedIn = `Available commands:
  category <internal|external>   switch record set
  reload                         fetch the record set again
  search [text]                  filter by text (empty clears)
  location [name|all]            list or pick a location
  (l)ist                         show the filtered records
  show <row>                     show every field of a row
  edit <row> <field> [value]     change an editable field
  status <row> <open|closed>     change the status
  evidence <row> [path]          show evidence or pick a file to attach
  attach <row>                   upload the picked evidence file
  clear-evidence <row>           remove the evidence (admin)
  select-import [path]           pick a .xlsx or .csv register (admin)
  import                         upload the picked register (admin)
  users                          list users for responsibility
  whoami, logout, exit`

// runREPL reads commands line by line from reader and dispatches them to a
// until EOF, "exit" or "quit". Row arguments are 1-based positions in the
// current filtered list.
//
// Handler errors are printed unless the register already raised a notice
// for them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("audit> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue
		case "login":
			report(a.Login(ctx))
			continue
		}

		if !a.isLoggedIn() {
			printlnFn("Please log in first")
			continue
		}

		switch cmd {
		case "logout":
			report(a.Logout(ctx))
		case "whoami":
			report(a.WhoAmI(ctx))
		case "category":
			report(a.Category(ctx, args))
		case "reload":
			report(a.Reload(ctx))
		case "search":
			report(a.Search(ctx, args))
		case "location":
			report(a.Location(ctx, args))
		case "l", "list":
			report(a.List(ctx))
		case "show":
			report(a.Show(ctx, args))
		case "edit":
			report(a.Edit(ctx, args))
		case "status":
			report(a.Status(ctx, args))
		case "evidence":
			report(a.Evidence(ctx, args))
		case "attach":
			report(a.Attach(ctx, args))
		case "clear-evidence":
			report(a.ClearEvidence(ctx, args))
		case "select-import":
			report(a.SelectImport(ctx, args))
		case "import":
			report(a.Import(ctx))
		case "users":
			report(a.Users(ctx))
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func report(err error) {
	if err == nil || notified(err) {
		return
	}
	printlnFn("Error:", err)
}

// notified reports whether the register already told the user about err.
func notified(err error) bool {
	var (
		loadErr    *register.LoadError
		saveErr    *register.SaveError
		uploadErr  *register.UploadError
		missingErr *register.MissingIdentifierError
	)
	switch {
	case errors.As(err, &loadErr),
		errors.As(err, &saveErr),
		errors.As(err, &uploadErr),
		errors.As(err, &missingErr),
		errors.Is(err, register.ErrNoFileSelected),
		register.IsStale(err):
		return true
	}
	return false
}
