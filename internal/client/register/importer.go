package register

import (
	"context"
	"path/filepath"

	"github.com/dmitrijs2005/auditdesk/internal/client/models"
	"github.com/dmitrijs2005/auditdesk/internal/client/session"
	"github.com/dmitrijs2005/auditdesk/internal/filex"
)

// ImportExtensions are offered when picking a register to import.
var ImportExtensions = []string{".xlsx", ".csv"}

// SelectImportFile picks the spreadsheet ImportFile will send.
func (e *Engine) SelectImportFile(path string) error {
	if !session.CanImport(e.role) {
		return ErrForbidden
	}
	if !filex.HasExtension(path, ImportExtensions) {
		return ErrUnsupportedFile
	}
	e.mu.Lock()
	e.importPath = path
	e.mu.Unlock()
	e.notify(LevelInfo, "File selected: "+filepath.Base(path))
	return nil
}

// ImportSelection returns the file picked for import, if any.
func (e *Engine) ImportSelection() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.importPath, e.importPath != ""
}

// ImportFile uploads the selected spreadsheet into the active category and
// then reloads the whole store. The selection is consumed even when the
// upload fails.
func (e *Engine) ImportFile(ctx context.Context) error {
	if !session.CanImport(e.role) {
		return ErrForbidden
	}

	e.mu.Lock()
	path := e.importPath
	e.importPath = ""
	epoch, category := e.epoch, e.category
	e.mu.Unlock()

	if path == "" {
		e.notify(LevelWarning, "Please select a file first")
		return ErrNoFileSelected
	}

	err := e.uploadBulk(ctx, path, category)

	e.mu.Lock()
	stale := epoch != e.epoch
	e.mu.Unlock()

	if err != nil {
		e.log.Error(ctx, "import failed", "category", category, "error", err)
		if !stale {
			e.notify(LevelError, "Failed to upload file: "+err.Error())
		}
		return err
	}
	if stale {
		return ErrStale
	}

	if err := e.Load(ctx); err != nil {
		return err
	}
	e.log.Info(ctx, "register imported", "category", category, "file", filepath.Base(path))
	e.notify(LevelSuccess, "File uploaded successfully!")
	return nil
}

func (e *Engine) uploadBulk(ctx context.Context, path string, category models.Category) error {
	name, content, err := e.readFile(path)
	if err != nil {
		return &UploadError{Kind: "register", File: filepath.Base(path), Err: err}
	}
	if err := e.backend.UploadBulkFile(ctx, name, content, category); err != nil {
		return &UploadError{Kind: "register", File: name, Err: err}
	}
	return nil
}
