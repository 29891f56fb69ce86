// Package rpc describes the AuditService gRPC contract shared by the server
// and the console client.
//
// Payloads use protobuf well-known types so no code generation is needed:
// records travel as structpb.Struct (their keys are not fixed, the record
// identifier alone may arrive as ID, id, Id or _id), file uploads travel as
// wrapperspb.BytesValue with the form fields in request metadata (see the
// common.*HeaderName constants).
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "auditdesk.v1.AuditService"

// Full method names, as seen by interceptors.
const (
	PingMethod            = "/" + ServiceName + "/Ping"
	LoginMethod           = "/" + ServiceName + "/Login"
	ListRecordsMethod     = "/" + ServiceName + "/ListRecords"
	UpdateRecordMethod    = "/" + ServiceName + "/UpdateRecord"
	UploadAuditFileMethod = "/" + ServiceName + "/UploadAuditFile"
	UploadEvidenceMethod  = "/" + ServiceName + "/UploadEvidence"
	ListUsersMethod       = "/" + ServiceName + "/ListUsers"
)

// AuditServiceClient is the client API of AuditService.
type AuditServiceClient interface {
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
	// Login takes {"username","password"} and returns
	// {"access_token", "user": {...}}.
	Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	// ListRecords takes the category and returns one Struct per record.
	ListRecords(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.ListValue, error)
	// UpdateRecord takes {"category", "record": {...}}.
	UpdateRecord(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	// UploadAuditFile replaces a category from a spreadsheet; category and
	// file name travel in metadata.
	UploadAuditFile(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
	// UploadEvidence stores a file for one record and returns {"filename"};
	// category, record id and file name travel in metadata.
	UploadEvidence(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	// ListUsers returns {"id","Username","CompanyName"} entries.
	ListUsers(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
}

type auditServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAuditServiceClient(cc grpc.ClientConnInterface) AuditServiceClient {
	return &auditServiceClient{cc: cc}
}

func invoke[Resp proto.Message](ctx context.Context, cc grpc.ClientConnInterface, method string, in proto.Message, out Resp, opts ...grpc.CallOption) (Resp, error) {
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		var zero Resp
		return zero, err
	}
	return out, nil
}

func (c *auditServiceClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke(ctx, c.cc, PingMethod, in, new(emptypb.Empty), opts...)
}

func (c *auditServiceClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, LoginMethod, in, new(structpb.Struct), opts...)
}

func (c *auditServiceClient) ListRecords(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke(ctx, c.cc, ListRecordsMethod, in, new(structpb.ListValue), opts...)
}

func (c *auditServiceClient) UpdateRecord(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke(ctx, c.cc, UpdateRecordMethod, in, new(emptypb.Empty), opts...)
}

func (c *auditServiceClient) UploadAuditFile(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke(ctx, c.cc, UploadAuditFileMethod, in, new(emptypb.Empty), opts...)
}

func (c *auditServiceClient) UploadEvidence(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, UploadEvidenceMethod, in, new(structpb.Struct), opts...)
}

func (c *auditServiceClient) ListUsers(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke(ctx, c.cc, ListUsersMethod, in, new(structpb.ListValue), opts...)
}

// AuditServiceServer is the server API of AuditService.
type AuditServiceServer interface {
	Ping(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListRecords(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	UpdateRecord(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	UploadAuditFile(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error)
	UploadEvidence(context.Context, *wrapperspb.BytesValue) (*structpb.Struct, error)
	ListUsers(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
}

// UnimplementedAuditServiceServer answers every method with
// codes.Unimplemented. Embed it to stay forward compatible.
type UnimplementedAuditServiceServer struct{}

func (UnimplementedAuditServiceServer) Ping(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedAuditServiceServer) Login(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedAuditServiceServer) ListRecords(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method ListRecords not implemented")
}
func (UnimplementedAuditServiceServer) UpdateRecord(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateRecord not implemented")
}
func (UnimplementedAuditServiceServer) UploadAuditFile(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method UploadAuditFile not implemented")
}
func (UnimplementedAuditServiceServer) UploadEvidence(context.Context, *wrapperspb.BytesValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method UploadEvidence not implemented")
}
func (UnimplementedAuditServiceServer) ListUsers(context.Context, *emptypb.Empty) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method ListUsers not implemented")
}

// RegisterAuditServiceServer registers srv on s.
func RegisterAuditServiceServer(s grpc.ServiceRegistrar, srv AuditServiceServer) {
	s.RegisterService(&AuditServiceDesc, srv)
}

// unary builds the grpc.MethodHandler of one method: decode the request,
// then call the implementation directly or through the interceptor chain.
func unary[Req proto.Message, Resp proto.Message](
	method string,
	newReq func() Req,
	call func(AuditServiceServer, context.Context, Req) (Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		impl := srv.(AuditServiceServer)
		if interceptor == nil {
			return call(impl, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(impl, ctx, req.(Req))
		})
	}
}

func newEmpty() *emptypb.Empty           { return new(emptypb.Empty) }
func newStruct() *structpb.Struct        { return new(structpb.Struct) }
func newString() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }
func newBytes() *wrapperspb.BytesValue   { return new(wrapperspb.BytesValue) }

// AuditServiceDesc is the grpc.ServiceDesc for AuditService.
var AuditServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuditServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unary(PingMethod, newEmpty, AuditServiceServer.Ping)},
		{MethodName: "Login", Handler: unary(LoginMethod, newStruct, AuditServiceServer.Login)},
		{MethodName: "ListRecords", Handler: unary(ListRecordsMethod, newString, AuditServiceServer.ListRecords)},
		{MethodName: "UpdateRecord", Handler: unary(UpdateRecordMethod, newStruct, AuditServiceServer.UpdateRecord)},
		{MethodName: "UploadAuditFile", Handler: unary(UploadAuditFileMethod, newBytes, AuditServiceServer.UploadAuditFile)},
		{MethodName: "UploadEvidence", Handler: unary(UploadEvidenceMethod, newBytes, AuditServiceServer.UploadEvidence)},
		{MethodName: "ListUsers", Handler: unary(ListUsersMethod, newEmpty, AuditServiceServer.ListUsers)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "auditdesk/v1/audit.proto",
}
