package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dmitrijs2005/auditdesk/internal/common"
	"github.com/dmitrijs2005/auditdesk/internal/rpc"
	"github.com/dmitrijs2005/auditdesk/internal/server/auth"
	"github.com/dmitrijs2005/auditdesk/internal/server/models"
	"github.com/dmitrijs2005/auditdesk/internal/server/services"
)

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func uploadCtx(kv ...string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(kv...))
}

func TestToStatus(t *testing.T) {
	s := newTestServer(&fakeUsers{}, &fakeRecords{})
	ctx := context.Background()

	cases := []struct {
		err  error
		code codes.Code
	}{
		{common.ErrorNotFound, codes.NotFound},
		{fmt.Errorf("%w: bad", common.ErrorValidation), codes.InvalidArgument},
		{common.ErrorUnauthorized, codes.Unauthenticated},
		{common.ErrorForbidden, codes.PermissionDenied},
		{errors.New("db exploded"), codes.Internal},
	}
	for _, c := range cases {
		assert.Equal(t, c.code, status.Code(s.toStatus(ctx, c.err)), c.err.Error())
	}
	assert.Equal(t, "internal error", status.Convert(s.toStatus(ctx, errors.New("db exploded"))).Message())
}

func TestLogin(t *testing.T) {
	us := &fakeUsers{login: &services.LoginResult{
		AccessToken: "tok",
		User:        &models.User{ID: "7", UserName: "alice", DisplayName: "Alice", Department: "QA", Role: models.RoleManager},
	}}
	s := newTestServer(us, &fakeRecords{})

	resp, err := s.Login(context.Background(), mustStruct(t, map[string]any{"username": "alice", "password": "pw"}))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"access_token": "tok",
		"user": map[string]any{
			"id": "7", "username": "alice", "name": "Alice", "department": "QA", "role": "manager",
		},
	}, resp.AsMap())

	_, err = s.Login(context.Background(), mustStruct(t, map[string]any{"username": "alice", "password": "no"}))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = s.Login(context.Background(), mustStruct(t, map[string]any{"username": "alice"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestListRecords(t *testing.T) {
	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	rs := &fakeRecords{records: map[models.Category][]*models.Record{
		models.CategoryInternal: {
			{ID: 1, Data: map[string]any{"SN": "1", "Location": "Pune"}, UploadedAt: at},
			{ID: 2, Data: map[string]any{"SN": "2"}},
		},
	}}
	s := newTestServer(&fakeUsers{}, rs)

	resp, err := s.ListRecords(context.Background(), wrapperspb.String("Internal"))
	require.NoError(t, err)
	items := rpc.Structs(resp)
	require.Len(t, items, 2)
	assert.Equal(t, map[string]any{"ID": "1", "SN": "1", "Location": "Pune", "lastUploadDate": "2024-06-01T09:00:00Z"}, items[0].AsMap())
	assert.Equal(t, "2", rpc.StructString(items[1], "ID"))

	_, err = s.ListRecords(context.Background(), wrapperspb.String("weekly"))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	rs.listErr = errors.New("boom")
	_, err = s.ListRecords(context.Background(), wrapperspb.String("internal"))
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestRecordID(t *testing.T) {
	cases := []struct {
		name   string
		fields map[string]any
		id     int64
		ok     bool
	}{
		{"string", map[string]any{"ID": "12"}, 12, true},
		{"number", map[string]any{"id": 13.0}, 13, true},
		{"mongo style", map[string]any{"_id": " 14 "}, 14, true},
		{"precedence", map[string]any{"ID": "1", "id": "2"}, 1, true},
		{"fraction", map[string]any{"ID": 1.5}, 0, false},
		{"garbage", map[string]any{"ID": "abc"}, 0, false},
		{"missing", map[string]any{"SN": "1"}, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			id, ok := recordID(mustStruct(t, c.fields).GetFields())
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.id, id)
		})
	}
}

func asUser(role models.Role) context.Context {
	return context.WithValue(context.Background(), principalKey, auth.Principal{UserID: "1", Role: role})
}

func TestUpdateRecord(t *testing.T) {
	rs := &fakeRecords{}
	s := newTestServer(&fakeUsers{}, rs)
	ctx := asUser(models.RoleManager)

	req := mustStruct(t, map[string]any{
		"category": "external",
		"record":   map[string]any{"ID": "9", "RootCauseAnalysis": "seal"},
	})
	_, err := s.UpdateRecord(ctx, req)
	require.NoError(t, err)
	require.Len(t, rs.updates, 1)
	assert.Equal(t, updateCall{
		role:     models.RoleManager,
		category: models.CategoryExternal,
		id:       9,
		data:     map[string]any{"ID": "9", "RootCauseAnalysis": "seal"},
	}, rs.updates[0])

	_, err = s.UpdateRecord(ctx, mustStruct(t, map[string]any{"category": "external"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.UpdateRecord(ctx, mustStruct(t, map[string]any{
		"category": "external", "record": map[string]any{"SN": "1"},
	}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	rs.updateErr = common.ErrorNotFound
	_, err = s.UpdateRecord(ctx, req)
	assert.Equal(t, codes.NotFound, status.Code(err))

	rs.updateErr = fmt.Errorf("%w: reopen", common.ErrorForbidden)
	_, err = s.UpdateRecord(ctx, req)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestUpdateRecord_RequiresPrincipal(t *testing.T) {
	rs := &fakeRecords{}
	s := newTestServer(&fakeUsers{}, rs)

	_, err := s.UpdateRecord(context.Background(), mustStruct(t, map[string]any{
		"category": "external", "record": map[string]any{"ID": "9"},
	}))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Empty(t, rs.updates)
}

func TestUploadAuditFile(t *testing.T) {
	rs := &fakeRecords{}
	s := newTestServer(&fakeUsers{}, rs)

	ctx := uploadCtx(common.FileNameHeaderName, "NC%20register.xlsx", common.CategoryHeaderName, "internal")
	_, err := s.UploadAuditFile(ctx, wrapperspb.Bytes([]byte("xlsx")))
	require.NoError(t, err)
	require.Len(t, rs.imports, 1)
	assert.Equal(t, "NC register.xlsx", rs.imports[0].name)
	assert.Equal(t, models.CategoryInternal, rs.imports[0].category)

	_, err = s.UploadAuditFile(uploadCtx(common.CategoryHeaderName, "internal"), wrapperspb.Bytes(nil))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	rs.importErr = fmt.Errorf("%w: no header", common.ErrorValidation)
	_, err = s.UploadAuditFile(ctx, wrapperspb.Bytes([]byte("xlsx")))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestUploadEvidence(t *testing.T) {
	rs := &fakeRecords{}
	s := newTestServer(&fakeUsers{}, rs)

	ctx := uploadCtx(
		common.FileNameHeaderName, "photo.pdf",
		common.CategoryHeaderName, "external",
		common.RecordIDHeaderName, "5",
	)
	resp, err := s.UploadEvidence(ctx, wrapperspb.Bytes([]byte("%PDF")))
	require.NoError(t, err)
	assert.Equal(t, "stored.pdf", rpc.StructString(resp, "filename"))
	require.Len(t, rs.evidence, 1)
	assert.Equal(t, int64(5), rs.evidence[0].id)

	noID := uploadCtx(common.FileNameHeaderName, "photo.pdf", common.CategoryHeaderName, "external")
	_, err = s.UploadEvidence(noID, wrapperspb.Bytes([]byte("%PDF")))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	rs.attachErr = common.ErrorNotFound
	_, err = s.UploadEvidence(ctx, wrapperspb.Bytes([]byte("%PDF")))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestListUsers(t *testing.T) {
	us := &fakeUsers{list: []*models.User{
		{ID: "1", UserName: "alice", CompanyName: "Acme"},
		{ID: "2", UserName: "bob"},
	}}
	s := newTestServer(us, &fakeRecords{})

	resp, err := s.ListUsers(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)
	items := rpc.Structs(resp)
	require.Len(t, items, 2)
	assert.Equal(t, map[string]any{"id": "1", "Username": "alice", "CompanyName": "Acme"}, items[0].AsMap())

	us.listErr = errors.New("boom")
	_, err = s.ListUsers(context.Background(), &emptypb.Empty{})
	assert.Equal(t, codes.Internal, status.Code(err))
}
