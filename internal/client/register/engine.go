// Package register keeps a local mirror of one audit record set and lets
// the console filter it, edit it field by field, attach evidence files and
// bulk-import a new register.
//
// The Engine is safe for concurrent use. Local state changes happen under
// a single mutex and in call order; backend calls are made with the mutex
// released, so queries and filter changes go on while a save or upload is
// pending. Every load starts a new epoch and a response that belongs to an
// older epoch is dropped. Edits of the same field of the same record are
// numbered, and the failure of an edit that has since been superseded is
// returned to its caller without raising a notice.
//
// Records are addressed by rows of the current view. A row is resolved to a
// models.Handle when the call starts, so later view changes do not redirect
// an edit to another record.
package register

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/auditdesk/internal/client/models"
	"github.com/dmitrijs2005/auditdesk/internal/filex"
	"github.com/dmitrijs2005/auditdesk/internal/logging"
)

// Backend is the part of the server API the engine consumes.
type Backend interface {
	FetchRecords(ctx context.Context, category models.Category) ([]models.Record, error)
	PersistRecord(ctx context.Context, category models.Category, record models.Record) error
	UploadBulkFile(ctx context.Context, name string, content []byte, category models.Category) error
	UploadEvidence(ctx context.Context, name string, content []byte, recordID string, category models.Category) (string, error)
	FetchUsers(ctx context.Context) ([]models.DirectoryEntry, error)
}

// Options configure an Engine. Role is derived once per session by the
// caller (see session.DeriveRole).
type Options struct {
	Category models.Category
	Role     models.Role
	Notifier Notifier
	Logger   logging.Logger
	// ReadFile loads a file picked for upload. Defaults to filex.ReadUpload.
	ReadFile func(path string) (name string, content []byte, err error)
}

type editKey struct {
	handle models.Handle
	field  models.Field
}

type Engine struct {
	backend  Backend
	role     models.Role
	notifier Notifier
	log      logging.Logger
	readFile func(string) (string, []byte, error)

	mu         sync.Mutex
	category   models.Category
	epoch      uint64
	nextHandle models.Handle

	records    []models.Record
	index      map[models.Handle]int
	view       []models.Handle
	query      string
	location   string
	locations  []string
	lastUpload time.Time

	seq        map[editKey]uint64
	staged     map[models.Handle]string
	importPath string
	directory  []models.DirectoryEntry
}

func New(backend Backend, opts Options) *Engine {
	e := &Engine{
		backend:  backend,
		role:     opts.Role,
		notifier: opts.Notifier,
		log:      opts.Logger,
		readFile: opts.ReadFile,
		category: opts.Category,
	}
	if e.notifier == nil {
		e.notifier = discardNotifier{}
	}
	if e.log == nil {
		e.log = logging.Nop()
	}
	e.log = e.log.With("module", "register")
	if e.readFile == nil {
		e.readFile = filex.ReadUpload
	}
	if e.category == "" {
		e.category = models.CategoryInternal
	}
	e.reset(nil)
	return e
}

// Role returns the role the engine was created with.
func (e *Engine) Role() models.Role {
	return e.role
}

// Category returns the active record set.
func (e *Engine) Category() models.Category {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.category
}

// Close discards the store. The engine can be reused after another Load.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.epoch++
	e.reset(nil)
}

func (e *Engine) notify(level Level, msg string) {
	e.notifier.Notify(Notice{Level: level, Message: msg})
}
