package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/auditdesk/internal/client/models"
	"github.com/dmitrijs2005/auditdesk/internal/client/register"
	"github.com/dmitrijs2005/auditdesk/internal/client/services"
	"github.com/dmitrijs2005/auditdesk/internal/client/session"
	"github.com/dmitrijs2005/auditdesk/internal/logging"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemRepo() *memRepo { return &memRepo{data: map[string][]byte{}} }

func (m *memRepo) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memRepo) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memRepo) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memRepo) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	return time.Time{}, nil
}

func (m *memRepo) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = map[string][]byte{}
	return nil
}

type upload struct {
	name     string
	recordID string
	category models.Category
}

type fakeBackend struct {
	mu        sync.Mutex
	records   map[models.Category][]models.Record
	fetchErr  error
	persisted []models.Record
	bulk      []upload
	evidence  []upload
	users     []models.DirectoryEntry
}

func (f *fakeBackend) FetchRecords(ctx context.Context, c models.Category) ([]models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]models.Record(nil), f.records[c]...), nil
}

func (f *fakeBackend) PersistRecord(ctx context.Context, c models.Category, r models.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.persisted = append(f.persisted, r)
	return nil
}

func (f *fakeBackend) UploadBulkFile(ctx context.Context, name string, content []byte, c models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulk = append(f.bulk, upload{name: name, category: c})
	return nil
}

func (f *fakeBackend) UploadEvidence(ctx context.Context, name string, content []byte, id string, c models.Category) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evidence = append(f.evidence, upload{name: name, recordID: id, category: c})
	return "42-" + name, nil
}

func (f *fakeBackend) FetchUsers(ctx context.Context) ([]models.DirectoryEntry, error) {
	return f.users, nil
}

// fakeAuth stores the session it hands out so DeriveRole sees it.
type fakeAuth struct {
	store    *session.Store
	session  models.Session
	loginErr error
	logouts  int
}

func (f *fakeAuth) Login(ctx context.Context, username string, password []byte) (models.Session, error) {
	if f.loginErr != nil {
		return models.Session{}, f.loginErr
	}
	sess := f.session
	sess.Username = username
	return sess, f.store.Save(ctx, sess)
}

func (f *fakeAuth) Restore(ctx context.Context) (models.Session, error) {
	return f.store.Load(ctx)
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.logouts++
	return f.store.Clear(ctx)
}

func (f *fakeAuth) Ping(ctx context.Context) error  { return nil }
func (f *fakeAuth) Close(ctx context.Context) error { return nil }

var _ services.AuthService = (*fakeAuth)(nil)

func readFake(path string) (string, []byte, error) {
	if strings.Contains(path, "missing") {
		return "", nil, errors.New("no such file")
	}
	i := strings.LastIndex(path, "/")
	return path[i+1:], []byte(path), nil
}

type testApp struct {
	*App
	backend *fakeBackend
	auth    *fakeAuth
	buf     *bytes.Buffer
}

// newTestApp builds an App with no engine; input feeds the prompts.
func newTestApp(t *testing.T, input string, records ...models.Record) *testApp {
	t.Helper()
	repo := newMemRepo()
	store := session.NewStore(repo)
	backend := &fakeBackend{
		records: map[models.Category][]models.Record{models.CategoryInternal: records},
		users: []models.DirectoryEntry{
			{ID: "1", Username: "jdoe", CompanyName: "Acme"},
			{ID: "2", Username: "asmith", CompanyName: "Globex"},
		},
	}
	auth := &fakeAuth{store: store, session: models.Session{ID: "7", Role: models.RoleAdmin, AccessToken: "tok"}}
	buf := &bytes.Buffer{}
	app := &App{
		log:      logging.Nop(),
		api:      backend,
		auth:     auth,
		sessions: store,
		prefs:    services.NewCategoryPreference(repo),
		reader:   bufio.NewReader(strings.NewReader(input)),
		out:      buf,
	}
	return &testApp{App: app, backend: backend, auth: auth, buf: buf}
}

// withEngine installs a loaded engine for role, bypassing login.
func (ta *testApp) withEngine(t *testing.T, role models.Role) *testApp {
	t.Helper()
	ta.user = &models.Session{Username: "tester", Role: role}
	ta.engine = register.New(ta.backend, register.Options{
		Category: models.CategoryInternal,
		Role:     role,
		Notifier: ta.App,
		ReadFile: readFake,
	})
	require.NoError(t, ta.engine.Load(context.Background()))
	ta.buf.Reset()
	return ta
}

func finding(id, sn, location, observation string, status models.Status) models.Record {
	return models.Record{ID: id, IDKey: "ID", SN: sn, Location: location, Observation: observation, Status: status}
}
