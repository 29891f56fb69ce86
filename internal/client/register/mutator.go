package register

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/auditdesk/internal/client/models"
	"github.com/dmitrijs2005/auditdesk/internal/client/session"
)

var editableFields = map[models.Field]bool{
	models.FieldRootCause:        true,
	models.FieldCorrectiveAction: true,
	models.FieldPreventiveAction: true,
	models.FieldResponsibility:   true,
	models.FieldClosingDate:      true,
	models.FieldStatus:           true,
	models.FieldEvidence:         true,
}

// Editable reports whether field can ever be changed through UpdateField.
func Editable(field models.Field) bool {
	return editableFields[field]
}

// UpdateField sets field of the record at row of the current view and
// persists the whole record.
//
// The value is applied to the store and the view is re-derived before the
// backend is called. A failed save returns a *SaveError and leaves the new
// value in place; nothing is rolled back.
func (e *Engine) UpdateField(ctx context.Context, row int, field models.Field, value string) error {
	e.mu.Lock()
	h, rec, err := e.lookupRow(row)
	if err == nil {
		value, err = e.checkEdit(*rec, field, value)
	}
	if err != nil {
		e.mu.Unlock()
		return err
	}
	return e.applyAndPersist(ctx, h, field, value)
}

// ClearEvidence detaches the evidence file of the record at row. Admins
// only; the status is left as it is.
func (e *Engine) ClearEvidence(ctx context.Context, row int) error {
	if !session.CanManageEvidence(e.role) {
		return ErrForbidden
	}
	return e.UpdateField(ctx, row, models.FieldEvidence, "")
}

// checkEdit validates an edit against the access gate and returns the value
// to store. Must be called with e.mu held.
func (e *Engine) checkEdit(rec models.Record, field models.Field, value string) (string, error) {
	if !editableFields[field] {
		return "", fmt.Errorf("%w: %s", ErrFieldReadOnly, field)
	}
	switch field {
	case models.FieldStatus:
		if !session.CanEditStatus(e.role, rec.EffectiveStatus()) {
			return "", ErrStatusLocked
		}
		s, ok := models.ParseStatus(value)
		if !ok {
			return "", ErrInvalidStatus
		}
		return string(s), nil
	case models.FieldEvidence:
		if !session.CanManageEvidence(e.role) {
			return "", ErrForbidden
		}
		if value != "" {
			return "", fmt.Errorf("%w: evidence is set by attaching a file", ErrFieldReadOnly)
		}
	}
	return value, nil
}

// applyAndPersist is entered with e.mu held and returns with it released.
func (e *Engine) applyAndPersist(ctx context.Context, h models.Handle, field models.Field, value string) error {
	rec := e.record(h)
	rec.Set(field, value)
	e.refresh()

	key := editKey{handle: h, field: field}
	e.seq[key]++
	seq, epoch, category := e.seq[key], e.epoch, e.category
	snapshot := rec.Clone()
	e.mu.Unlock()

	err := e.backend.PersistRecord(ctx, category, snapshot)

	e.mu.Lock()
	stale := epoch != e.epoch
	superseded := e.seq[key] != seq
	e.mu.Unlock()

	if err == nil {
		e.log.Debug(ctx, "record saved", "handle", h, "field", field)
		return nil
	}

	saveErr := &SaveError{Handle: h, Field: field, Err: err}
	e.log.Error(ctx, "save failed", "handle", h, "field", field, "stale", stale, "superseded", superseded, "error", err)
	if !stale && !superseded {
		e.notify(LevelError, fmt.Sprintf("Failed to save %s: %v", field, err))
	}
	return saveErr
}
