package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/auditdesk/internal/common"
	"github.com/dmitrijs2005/auditdesk/internal/dbx"
	"github.com/dmitrijs2005/auditdesk/internal/server/models"
	"github.com/dmitrijs2005/auditdesk/internal/server/repositories/records"
	"github.com/dmitrijs2005/auditdesk/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	byName    map[string]*models.User
	getErr    error
	created   []*models.User
	createErr error
	listErr   error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = "new-id"
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, name string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []*models.User{}
	for _, u := range f.byName {
		out = append(out, u)
	}
	return out, nil
}

type mergeCall struct {
	id    int64
	patch map[string]any
}

type fakeRecordsRepo struct {
	stored    map[int64]*models.Record
	listErr   error
	inserted  []*models.Record
	insertErr error
	deleted   []models.Category
	replaced  map[int64]map[string]any
	merged    []mergeCall
}

func newFakeRecordsRepo(recs ...*models.Record) *fakeRecordsRepo {
	f := &fakeRecordsRepo{stored: map[int64]*models.Record{}, replaced: map[int64]map[string]any{}}
	for _, r := range recs {
		f.stored[r.ID] = r
	}
	return f
}

func (f *fakeRecordsRepo) ListByCategory(ctx context.Context, c models.Category) ([]*models.Record, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []*models.Record{}
	for _, r := range f.stored {
		if r.Category == c {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecordsRepo) Get(ctx context.Context, c models.Category, id int64) (*models.Record, error) {
	r, ok := f.stored[id]
	if !ok || r.Category != c {
		return nil, common.ErrorNotFound
	}
	return r, nil
}

func (f *fakeRecordsRepo) Insert(ctx context.Context, r *models.Record) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	r.ID = int64(100 + len(f.inserted))
	f.inserted = append(f.inserted, r)
	return nil
}

func (f *fakeRecordsRepo) ReplaceData(ctx context.Context, c models.Category, id int64, data map[string]any) error {
	if _, err := f.Get(ctx, c, id); err != nil {
		return err
	}
	f.replaced[id] = data
	return nil
}

func (f *fakeRecordsRepo) MergeData(ctx context.Context, c models.Category, id int64, patch map[string]any) error {
	if _, err := f.Get(ctx, c, id); err != nil {
		return err
	}
	f.merged = append(f.merged, mergeCall{id: id, patch: patch})
	return nil
}

func (f *fakeRecordsRepo) DeleteCategory(ctx context.Context, c models.Category) (int64, error) {
	f.deleted = append(f.deleted, c)
	return 0, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRecordsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.u }
func (m *fakeRepoManager) Records(db dbx.DBTX) records.Repository       { return m.r }
