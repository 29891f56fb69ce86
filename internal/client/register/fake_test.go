package register

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/auditdesk/internal/client/models"
)

var errBoom = errors.New("boom")

type persistCall struct {
	category models.Category
	record   models.Record
}

type evidenceCall struct {
	name     string
	content  []byte
	recordID string
	category models.Category
}

type fakeBackend struct {
	mu sync.Mutex

	records   map[models.Category][]models.Record
	fetchErr  error
	fetches   []models.Category
	persisted []persistCall
	persist   func(call persistCall) error

	bulk      []evidenceCall
	bulkErr   error
	onBulk    func(category models.Category)
	evidence  []evidenceCall
	uploadErr error
	filename  string
	users     []models.DirectoryEntry
	usersErr  error
}

func newFakeBackend(internal ...models.Record) *fakeBackend {
	return &fakeBackend{
		records:  map[models.Category][]models.Record{models.CategoryInternal: internal},
		filename: "stored.pdf",
	}
}

func (f *fakeBackend) FetchRecords(ctx context.Context, category models.Category) ([]models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches = append(f.fetches, category)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]models.Record(nil), f.records[category]...), nil
}

func (f *fakeBackend) PersistRecord(ctx context.Context, category models.Category, record models.Record) error {
	f.mu.Lock()
	call := persistCall{category: category, record: record}
	f.persisted = append(f.persisted, call)
	hook := f.persist
	f.mu.Unlock()
	if hook != nil {
		return hook(call)
	}
	return nil
}

func (f *fakeBackend) UploadBulkFile(ctx context.Context, name string, content []byte, category models.Category) error {
	f.mu.Lock()
	f.bulk = append(f.bulk, evidenceCall{name: name, content: content, category: category})
	hook, err := f.onBulk, f.bulkErr
	f.mu.Unlock()
	if hook != nil {
		hook(category)
	}
	return err
}

func (f *fakeBackend) UploadEvidence(ctx context.Context, name string, content []byte, recordID string, category models.Category) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evidence = append(f.evidence, evidenceCall{name: name, content: content, recordID: recordID, category: category})
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return f.filename, nil
}

func (f *fakeBackend) FetchUsers(ctx context.Context) ([]models.DirectoryEntry, error) {
	return f.users, f.usersErr
}

func (f *fakeBackend) setRecords(c models.Category, recs ...models.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[c] = recs
}

// gate blocks a backend call until released, so a test can act while the
// call is in flight.
type gate struct {
	entered chan struct{}
	release chan error
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}, 1), release: make(chan error, 1)}
}

func (g *gate) wait() error {
	g.entered <- struct{}{}
	return <-g.release
}

type recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) levels() []Level {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Level, 0, len(r.notices))
	for _, n := range r.notices {
		out = append(out, n.Level)
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = nil
}

func fakeReadFile(path string) (string, []byte, error) {
	if path == "/missing.pdf" {
		return "", nil, errors.New("no such file")
	}
	return path[1:], []byte("content of " + path), nil
}

func rec(id, location string, status models.Status) models.Record {
	return models.Record{ID: id, IDKey: "ID", Location: location, Status: status}
}

func newEngine(b *fakeBackend, role models.Role) (*Engine, *recorder) {
	n := &recorder{}
	e := New(b, Options{Category: models.CategoryInternal, Role: role, Notifier: n, ReadFile: fakeReadFile})
	return e, n
}

func ids(records []models.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}
