package register

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/auditdesk/internal/client/models"
)

var (
	ErrNoFileSelected  = errors.New("no file selected")
	ErrStatusLocked    = errors.New("status of a closed record can only be changed by an admin")
	ErrForbidden       = errors.New("not allowed for this role")
	ErrFieldReadOnly   = errors.New("field is read-only")
	ErrInvalidStatus   = errors.New("status must be Open or Closed")
	ErrRowOutOfRange   = errors.New("row out of range")
	ErrUnknownLocation = errors.New("unknown location")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrEvidencePresent = errors.New("record already has evidence; clear it first")
	ErrStale           = errors.New("register was reloaded while the request was in flight")
)

// LoadError reports a failed record fetch. The store is empty afterwards.
type LoadError struct {
	Category models.Category
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s records: %v", e.Category, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SaveError reports a failed persist of an edited record. The edited value
// stays in the store.
type SaveError struct {
	Handle models.Handle
	Field  models.Field
	Err    error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save %s: %v", e.Field, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// MissingIdentifierError is returned when evidence is attached to a record
// whose identifier could not be resolved.
type MissingIdentifierError struct {
	Handle models.Handle
	// Conflicting holds the candidate keys when they disagreed.
	Conflicting []string
}

func (e *MissingIdentifierError) Error() string {
	if len(e.Conflicting) > 0 {
		return "record identifier is ambiguous (" + strings.Join(e.Conflicting, ", ") + ")"
	}
	return "record has no identifier"
}

// UploadError reports a failed bulk or evidence upload. The store is not
// modified.
type UploadError struct {
	Kind string
	File string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s %q: %v", e.Kind, e.File, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// DirectoryLoadError reports a failed user directory fetch. It is logged
// only; the directory stays empty.
type DirectoryLoadError struct {
	Err error
}

func (e *DirectoryLoadError) Error() string {
	return "load user directory: " + e.Err.Error()
}

func (e *DirectoryLoadError) Unwrap() error { return e.Err }
