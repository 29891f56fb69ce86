package grpc

import (
	"context"
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dmitrijs2005/auditdesk/internal/common"
	"github.com/dmitrijs2005/auditdesk/internal/rpc"
	"github.com/dmitrijs2005/auditdesk/internal/server/models"
)

// toStatus maps service errors onto gRPC codes. Internal details are logged,
// never returned.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, "forbidden")
	default:
		s.logger.Error(ctx, err.Error())
		return status.Error(codes.Internal, "internal error")
	}
}

func (s *GRPCServer) Ping(ctx context.Context, req *emptypb.Empty) (*emptypb.Empty, error) {
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	username := rpc.StructString(req, "username")
	password := rpc.StructString(req, "password")
	if username == "" || password == "" {
		return nil, status.Error(codes.InvalidArgument, "username and password are required")
	}

	res, err := s.users.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.logger.Warn(ctx, "Login rejected", "username", username)
		}
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Logged in", "username", username)
	return structpb.NewStruct(map[string]any{
		"access_token": res.AccessToken,
		"user": map[string]any{
			"id":         res.User.ID,
			"username":   res.User.UserName,
			"name":       res.User.DisplayName,
			"department": res.User.Department,
			"role":       string(res.User.Role),
		},
	})
}

func parseCategory(name string) (models.Category, error) {
	c, err := models.ParseCategory(name)
	if err != nil {
		return "", status.Error(codes.InvalidArgument, err.Error())
	}
	return c, nil
}

func (s *GRPCServer) ListRecords(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	category, err := parseCategory(req.GetValue())
	if err != nil {
		return nil, err
	}

	records, err := s.records.List(ctx, category)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	items := make([]*structpb.Struct, 0, len(records))
	for _, r := range records {
		item, err := structpb.NewStruct(r.Wire())
		if err != nil {
			return nil, s.toStatus(ctx, err)
		}
		items = append(items, item)
	}
	return rpc.StructList(items), nil
}

// recordID reads the identifier from whichever identifier key the record
// carries. Numbers and decimal strings are accepted.
func recordID(fields map[string]*structpb.Value) (int64, bool) {
	for _, key := range models.IdentifierKeys {
		v, ok := fields[key]
		if !ok {
			continue
		}
		switch kind := v.GetKind().(type) {
		case *structpb.Value_NumberValue:
			n := kind.NumberValue
			if n != math.Trunc(n) {
				return 0, false
			}
			return int64(n), true
		case *structpb.Value_StringValue:
			id, err := strconv.ParseInt(strings.TrimSpace(kind.StringValue), 10, 64)
			if err != nil {
				return 0, false
			}
			return id, true
		}
	}
	return 0, false
}

func (s *GRPCServer) UpdateRecord(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	category, err := parseCategory(rpc.StructString(req, "category"))
	if err != nil {
		return nil, err
	}

	record := req.GetFields()["record"].GetStructValue()
	if record == nil {
		return nil, status.Error(codes.InvalidArgument, "record is required")
	}
	id, ok := recordID(record.GetFields())
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "record identifier is missing")
	}

	p, ok := principalFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	if err := s.records.Update(ctx, p.Role, category, id, record.AsMap()); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

// uploadHeaders reads the file name and category every upload carries.
func uploadHeaders(ctx context.Context) (string, models.Category, error) {
	name, err := url.PathUnescape(metadataValue(ctx, common.FileNameHeaderName))
	if err != nil || name == "" {
		return "", "", status.Error(codes.InvalidArgument, "file name is required")
	}
	category, err := parseCategory(metadataValue(ctx, common.CategoryHeaderName))
	if err != nil {
		return "", "", err
	}
	return name, category, nil
}

func (s *GRPCServer) UploadAuditFile(ctx context.Context, req *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	name, category, err := uploadHeaders(ctx)
	if err != nil {
		return nil, err
	}

	n, err := s.records.Import(ctx, category, name, req.GetValue())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Register imported", "category", category, "file", name, "records", n)
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) UploadEvidence(ctx context.Context, req *wrapperspb.BytesValue) (*structpb.Struct, error) {
	name, category, err := uploadHeaders(ctx)
	if err != nil {
		return nil, err
	}
	id, err := strconv.ParseInt(metadataValue(ctx, common.RecordIDHeaderName), 10, 64)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "record identifier is missing")
	}

	filename, err := s.records.AttachEvidence(ctx, category, id, name, req.GetValue())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	if p, ok := principalFromContext(ctx); ok {
		s.logger.Info(ctx, "Evidence attached", "record", id, "file", filename, "user", p.UserID)
	}
	return structpb.NewStruct(map[string]any{"filename": filename})
}

func (s *GRPCServer) ListUsers(ctx context.Context, req *emptypb.Empty) (*structpb.ListValue, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	items := make([]*structpb.Struct, 0, len(users))
	for _, u := range users {
		items = append(items, &structpb.Struct{Fields: map[string]*structpb.Value{
			"id":          structpb.NewStringValue(u.ID),
			"Username":    structpb.NewStringValue(u.UserName),
			"CompanyName": structpb.NewStringValue(u.CompanyName),
		}})
	}
	return rpc.StructList(items), nil
}
