package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/auditdesk/internal/client/models"
	"github.com/dmitrijs2005/auditdesk/internal/client/register"
)

var errUsage = errors.New("usage")

func usage(format string) error {
	return fmt.Errorf("%w: %s", errUsage, format)
}

// parseRow converts a 1-based row argument into a view index.
func parseRow(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", register.ErrRowOutOfRange, arg)
	}
	return n - 1, nil
}

// Category switches the record set: category <internal|external>.
func (a *App) Category(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("category <internal|external>")
	}
	c, err := models.ParseCategory(args[0])
	if err != nil {
		return err
	}
	if err := a.engine.SetCategory(ctx, c); err != nil {
		a.expireOn(ctx, err)
		return err
	}
	if err := a.prefs.Remember(ctx, c); err != nil {
		a.log.Warn(ctx, "category not remembered", "error", err)
	}
	renderSummary(a.out, a.engine)
	return nil
}

// Reload fetches the active category again.
func (a *App) Reload(ctx context.Context) error {
	if err := a.engine.Load(ctx); err != nil {
		a.expireOn(ctx, err)
		return err
	}
	renderSummary(a.out, a.engine)
	return nil
}

// Search sets the free-text query; without arguments it clears it.
func (a *App) Search(ctx context.Context, args []string) error {
	a.engine.SetQuery(strings.Join(args, " "))
	renderSummary(a.out, a.engine)
	return nil
}

// Location lists the facet options, or selects one. "all" selects every
// location.
func (a *App) Location(ctx context.Context, args []string) error {
	if len(args) == 0 {
		_, current := a.engine.Filter()
		for _, loc := range a.engine.Locations() {
			marker := " "
			if loc == current {
				marker = "*"
			}
			fmt.Fprintf(a.out, "%s %s\n", marker, loc)
		}
		return nil
	}
	loc := strings.Join(args, " ")
	if strings.EqualFold(loc, "all") {
		loc = register.AllLocations
	}
	if err := a.engine.SetLocation(loc); err != nil {
		return fmt.Errorf("%w: %q", err, loc)
	}
	renderSummary(a.out, a.engine)
	return nil
}

// List prints the current view.
func (a *App) List(ctx context.Context) error {
	renderSummary(a.out, a.engine)
	renderTable(a.out, a.engine.Rows())
	return nil
}

// Show prints every field of one row.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("show <row>")
	}
	row, err := parseRow(args[0])
	if err != nil {
		return err
	}
	r, err := a.engine.Row(row)
	if err != nil {
		return err
	}
	staged, _ := a.engine.StagedEvidence(row)
	renderRecord(a.out, r, a.evidenceBase(), staged)
	return nil
}

func (a *App) evidenceBase() string {
	if a.config == nil {
		return ""
	}
	return a.config.EvidenceBaseURL
}

// Edit changes one editable field: edit <row> <field> [value...]. Without a
// value the new one is prompted for. For responsibility, "#n" picks the
// n-th directory entry.
func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("edit <row> <field> [value]")
	}
	row, err := parseRow(args[0])
	if err != nil {
		return err
	}
	field, ok := models.ParseField(args[1])
	if !ok || !register.Editable(field) {
		return fmt.Errorf("%w: %s", register.ErrFieldReadOnly, args[1])
	}

	var value string
	if len(args) > 2 {
		value = strings.Join(args[2:], " ")
	} else {
		if field == models.FieldResponsibility {
			a.printDirectory()
		}
		value, err = getSimpleText(a.reader, "New value for "+fieldLabels[field], a.out)
		if err != nil {
			return err
		}
	}
	if field == models.FieldResponsibility {
		value = a.pickResponsible(value)
	}
	return a.save(ctx, row, field, value)
}

// Status sets the status of a row: status <row> <open|closed>.
func (a *App) Status(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("status <row> <open|closed>")
	}
	row, err := parseRow(args[0])
	if err != nil {
		return err
	}
	return a.save(ctx, row, models.FieldStatus, args[1])
}

func (a *App) save(ctx context.Context, row int, field models.Field, value string) error {
	if err := a.engine.UpdateField(ctx, row, field, value); err != nil {
		a.expireOn(ctx, err)
		return err
	}
	fmt.Fprintf(a.out, "%s saved\n", fieldLabels[field])
	return nil
}

func (a *App) printDirectory() {
	users := a.engine.Directory()
	for i, u := range users {
		fmt.Fprintf(a.out, "  #%d %s\n", i+1, u.Label())
	}
}

// pickResponsible resolves "#n" to the username of the n-th directory
// entry. Anything else is kept as typed.
func (a *App) pickResponsible(value string) string {
	if !strings.HasPrefix(value, "#") {
		return value
	}
	n, err := strconv.Atoi(value[1:])
	if err != nil {
		return value
	}
	users := a.engine.Directory()
	if n < 1 || n > len(users) {
		return value
	}
	return users[n-1].Username
}

// Evidence stages a file for a row, or shows the evidence of the row when
// no path is given: evidence <row> [path].
func (a *App) Evidence(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("evidence <row> [path]")
	}
	row, err := parseRow(args[0])
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return a.engine.StageEvidence(row, strings.Join(args[1:], " "))
	}

	r, err := a.engine.Row(row)
	if err != nil {
		return err
	}
	switch staged, ok := a.engine.StagedEvidence(row); {
	case r.Evidence != "":
		fmt.Fprintln(a.out, register.EvidenceURL(a.evidenceBase(), r.Evidence))
	case ok:
		fmt.Fprintf(a.out, "Staged: %s (run 'attach %d' to upload)\n", staged, row+1)
	default:
		fmt.Fprintln(a.out, "No evidence")
	}
	return nil
}

// Attach uploads the file staged for a row.
func (a *App) Attach(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("attach <row>")
	}
	row, err := parseRow(args[0])
	if err != nil {
		return err
	}
	err = a.engine.AttachEvidence(ctx, row)
	a.expireOn(ctx, err)
	return err
}

// ClearEvidence detaches the evidence of a row after a confirmation.
func (a *App) ClearEvidence(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("clear-evidence <row>")
	}
	row, err := parseRow(args[0])
	if err != nil {
		return err
	}
	r, err := a.engine.Row(row)
	if err != nil {
		return err
	}
	if r.Evidence == "" {
		fmt.Fprintln(a.out, "No evidence")
		return nil
	}
	if !Confirm(a.reader, fmt.Sprintf("Remove evidence %q from row %d?", r.Evidence, row+1), a.out) {
		return nil
	}
	return a.save(ctx, row, models.FieldEvidence, "")
}

// SelectImport picks the spreadsheet to import: select-import <path>.
func (a *App) SelectImport(ctx context.Context, args []string) error {
	if len(args) < 1 {
		if path, ok := a.engine.ImportSelection(); ok {
			fmt.Fprintln(a.out, "Selected:", path)
			return nil
		}
		return usage("select-import <path>")
	}
	return a.engine.SelectImportFile(strings.Join(args, " "))
}

// Import uploads the selected spreadsheet into the active category after a
// confirmation.
func (a *App) Import(ctx context.Context) error {
	path, ok := a.engine.ImportSelection()
	if ok && !Confirm(a.reader, fmt.Sprintf("Import %s into %s records?", path, a.engine.Category()), a.out) {
		return nil
	}
	if err := a.engine.ImportFile(ctx); err != nil {
		a.expireOn(ctx, err)
		return err
	}
	renderSummary(a.out, a.engine)
	return nil
}

// Users prints the directory used to assign responsibility.
func (a *App) Users(ctx context.Context) error {
	users := a.engine.Directory()
	if len(users) == 0 {
		if err := a.engine.LoadDirectory(ctx); err != nil {
			return err
		}
		users = a.engine.Directory()
	}
	renderDirectory(a.out, users)
	return nil
}
