package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/dmitrijs2005/auditdesk/internal/client/models"
	"github.com/dmitrijs2005/auditdesk/internal/common"
	"github.com/dmitrijs2005/auditdesk/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      rpc.AuditServiceClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	return invoker(withAccessToken(ctx, s.token()), method, req, reply, cc, opts...)
}

func NewAuditClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	conn, err := grpc.NewClient(endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewAuditServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	if _, err := s.client.Ping(ctx, &emptypb.Empty{}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Login(ctx context.Context, username, password string) (models.Session, error) {
	req, err := structpb.NewStruct(map[string]any{"username": username, "password": password})
	if err != nil {
		return models.Session{}, err
	}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return models.Session{}, s.mapError(err)
	}

	token := rpc.StructString(resp, "access_token")
	user := resp.GetFields()["user"].GetStructValue()
	if token == "" || user == nil {
		return models.Session{}, ErrBadResponse
	}

	sess := models.Session{
		ID:          rpc.StructString(user, "id"),
		Username:    rpc.StructString(user, "username"),
		DisplayName: rpc.StructString(user, "name"),
		Department:  rpc.StructString(user, "department"),
		Role:        models.Role(rpc.StructString(user, "role")),
		AccessToken: token,
	}
	s.SetAccessToken(token)
	return sess, nil
}

func (s *GRPCClient) FetchRecords(ctx context.Context, category models.Category) ([]models.Record, error) {
	resp, err := s.client.ListRecords(ctx, wrapperspb.String(string(category)))
	if err != nil {
		return nil, s.mapError(err)
	}

	items := rpc.Structs(resp)
	records := make([]models.Record, 0, len(items))
	for _, item := range items {
		records = append(records, decodeRecord(item))
	}
	return records, nil
}

func (s *GRPCClient) PersistRecord(ctx context.Context, category models.Category, record models.Record) error {
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		"category": structpb.NewStringValue(string(category)),
		"record":   structpb.NewStructValue(encodeRecord(record)),
	}}
	if _, err := s.client.UpdateRecord(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func uploadContext(ctx context.Context, name string, category models.Category, kv ...string) context.Context {
	pairs := append([]string{
		common.FileNameHeaderName, url.PathEscape(name),
		common.CategoryHeaderName, string(category),
	}, kv...)
	return metadata.AppendToOutgoingContext(ctx, pairs...)
}

func (s *GRPCClient) UploadBulkFile(ctx context.Context, name string, content []byte, category models.Category) error {
	ctx = uploadContext(ctx, name, category)
	if _, err := s.client.UploadAuditFile(ctx, wrapperspb.Bytes(content)); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) UploadEvidence(ctx context.Context, name string, content []byte, recordID string, category models.Category) (string, error) {
	ctx = uploadContext(ctx, name, category, common.RecordIDHeaderName, recordID)
	resp, err := s.client.UploadEvidence(ctx, wrapperspb.Bytes(content))
	if err != nil {
		return "", s.mapError(err)
	}
	filename := rpc.StructString(resp, "filename")
	if filename == "" {
		return "", ErrBadResponse
	}
	return filename, nil
}

func (s *GRPCClient) FetchUsers(ctx context.Context) ([]models.DirectoryEntry, error) {
	resp, err := s.client.ListUsers(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}

	items := rpc.Structs(resp)
	users := make([]models.DirectoryEntry, 0, len(items))
	for _, u := range items {
		users = append(users, models.DirectoryEntry{
			ID:          rpc.StructString(u, "id"),
			Username:    rpc.StructString(u, "Username"),
			CompanyName: rpc.StructString(u, "CompanyName"),
		})
	}
	return users, nil
}

func decodeRecord(s *structpb.Struct) models.Record {
	raw := make(map[string]string, len(s.GetFields()))
	for k, v := range s.GetFields() {
		raw[k] = rpc.ValueString(v)
	}
	return models.FromRaw(raw)
}

func encodeRecord(r models.Record) *structpb.Struct {
	raw := r.Raw()
	fields := make(map[string]*structpb.Value, len(raw))
	for k, v := range raw {
		fields[k] = structpb.NewStringValue(v)
	}
	return &structpb.Struct{Fields: fields}
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.PermissionDenied:
		return ErrForbidden
	case codes.InvalidArgument, codes.NotFound:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
