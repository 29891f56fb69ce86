// Package client contains the console client's link to the AuditDesk
// server and its local database bootstrap.
//
// # Overview
//
// The package provides:
//  1. The Client interface: Ping, Login, record fetch/persist, bulk and
//     evidence uploads, and the user directory.
//  2. GRPCClient, a gRPC implementation over rpc.AuditServiceClient. It
//     injects the access token through a unary interceptor, converts
//     records between structpb.Struct and models.Record, and maps gRPC
//     status codes to sentinel errors.
//  3. InitDatabase, which opens the local SQLite file and applies the
//     embedded goose migrations.
//
// # Error Handling
//
// Transport conditions are exposed as sentinel errors matched with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrForbidden,
// ErrInvalidArgument, ErrBadResponse.
package client
