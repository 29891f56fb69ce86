package register

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/auditdesk/internal/client/models"
	"github.com/dmitrijs2005/auditdesk/internal/common"
	"github.com/dmitrijs2005/auditdesk/internal/filex"
)

// EvidenceExtensions are offered when picking an evidence file.
var EvidenceExtensions = []string{".pdf", ".pptx", ".png", ".jpeg", ".jpg"}

// EvidenceURL returns the download address of an evidence file.
func EvidenceURL(baseURL, filename string) string {
	return strings.TrimRight(baseURL, "/") + common.EvidencePathPrefix + filename
}

// StageEvidence selects the file to attach to the record at row. The
// selection sticks to the record, not to the row, and survives filter
// changes until the next load.
func (e *Engine) StageEvidence(row int, path string) error {
	if !filex.HasExtension(path, EvidenceExtensions) {
		return ErrUnsupportedFile
	}
	e.mu.Lock()
	h, rec, err := e.lookupRow(row)
	if err == nil && rec.Evidence != "" {
		err = ErrEvidencePresent
	}
	if err == nil {
		e.staged[h] = path
	}
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.notify(LevelInfo, "File selected for row "+strconv.Itoa(row+1)+": "+filepath.Base(path))
	return nil
}

// StagedEvidence returns the file staged for the record at row, if any.
func (e *Engine) StagedEvidence(row int) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, _, err := e.lookupRow(row)
	if err != nil {
		return "", false
	}
	path, ok := e.staged[h]
	return path, ok
}

// AttachEvidence uploads the file staged for the record at row. On success
// every stored record with the same identifier gets the returned file name
// as evidence and is closed, and the staged file is forgotten. On failure
// the staged file is kept for a retry.
func (e *Engine) AttachEvidence(ctx context.Context, row int) error {
	e.mu.Lock()
	h, rec, err := e.lookupRow(row)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	path, staged := e.staged[h]
	id, conflicting, hasEvidence := rec.ID, rec.IDConflict, rec.Evidence != ""
	epoch, category := e.epoch, e.category
	e.mu.Unlock()

	switch {
	case !staged:
		e.notify(LevelWarning, "Please select a file first")
		return ErrNoFileSelected
	case id == "":
		missing := &MissingIdentifierError{Handle: h, Conflicting: conflicting}
		e.log.Warn(ctx, "attach without identifier", "handle", h, "conflicting", conflicting)
		e.notify(LevelError, "Invalid record: "+missing.Error())
		return missing
	case hasEvidence:
		return ErrEvidencePresent
	}

	filename, err := e.uploadEvidence(ctx, path, id, category)

	e.mu.Lock()
	if epoch != e.epoch {
		e.mu.Unlock()
		if err != nil {
			return err
		}
		return ErrStale
	}
	if err != nil {
		e.mu.Unlock()
		e.log.Error(ctx, "evidence upload failed", "record", id, "error", err)
		e.notify(LevelError, "Failed to upload evidence: "+err.Error())
		return err
	}
	for i := range e.records {
		if e.records[i].ID == id {
			e.records[i].Evidence = filename
			e.records[i].Status = models.StatusClosed
		}
	}
	delete(e.staged, h)
	e.refresh()
	e.mu.Unlock()

	e.log.Info(ctx, "evidence attached", "record", id, "filename", filename)
	e.notify(LevelSuccess, "Evidence uploaded successfully!")
	return nil
}

func (e *Engine) uploadEvidence(ctx context.Context, path, id string, category models.Category) (string, error) {
	name, content, err := e.readFile(path)
	if err != nil {
		return "", &UploadError{Kind: "evidence", File: filepath.Base(path), Err: err}
	}
	filename, err := e.backend.UploadEvidence(ctx, name, content, id, category)
	if err != nil {
		return "", &UploadError{Kind: "evidence", File: name, Err: err}
	}
	return filename, nil
}
