package grpc

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/auditdesk/internal/common"
	"github.com/dmitrijs2005/auditdesk/internal/logging"
	"github.com/dmitrijs2005/auditdesk/internal/server/models"
	"github.com/dmitrijs2005/auditdesk/internal/server/services"
)

type fakeUsers struct {
	login    *services.LoginResult
	loginErr error
	list     []*models.User
	listErr  error
}

func (f *fakeUsers) Login(ctx context.Context, userName, password string) (*services.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if f.login == nil || f.login.User.UserName != userName || password != "pw" {
		return nil, common.ErrorUnauthorized
	}
	return f.login, nil
}

func (f *fakeUsers) List(ctx context.Context) ([]*models.User, error) {
	return f.list, f.listErr
}

type updateCall struct {
	role     models.Role
	category models.Category
	id       int64
	data     map[string]any
}

type uploadCall struct {
	category models.Category
	id       int64
	name     string
	content  []byte
}

type fakeRecords struct {
	mu        sync.Mutex
	records   map[models.Category][]*models.Record
	listErr   error
	updates   []updateCall
	updateErr error
	imports   []uploadCall
	importErr error
	evidence  []uploadCall
	attachErr error
}

func (f *fakeRecords) List(ctx context.Context, c models.Category) ([]*models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[c], f.listErr
}

func (f *fakeRecords) Update(ctx context.Context, role models.Role, c models.Category, id int64, data map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, updateCall{role: role, category: c, id: id, data: data})
	return f.updateErr
}

func (f *fakeRecords) Import(ctx context.Context, c models.Category, name string, content []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.importErr != nil {
		return 0, f.importErr
	}
	f.imports = append(f.imports, uploadCall{category: c, name: name, content: content})
	return 1, nil
}

func (f *fakeRecords) AttachEvidence(ctx context.Context, c models.Category, id int64, name string, content []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attachErr != nil {
		return "", f.attachErr
	}
	f.evidence = append(f.evidence, uploadCall{category: c, id: id, name: name, content: content})
	return "stored.pdf", nil
}

const testSecret = "secret"

func newTestServer(us *fakeUsers, rs *fakeRecords) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", logging.Nop(), us, rs, nil, testSecret, 1<<20)
}
