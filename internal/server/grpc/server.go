package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/auditdesk/internal/logging"
	"github.com/dmitrijs2005/auditdesk/internal/rpc"
	"github.com/dmitrijs2005/auditdesk/internal/server/metrics"
	"github.com/dmitrijs2005/auditdesk/internal/server/models"
	"github.com/dmitrijs2005/auditdesk/internal/server/services"
)

// UserService is the part of services.UserService the handlers use.
type UserService interface {
	Login(ctx context.Context, userName, password string) (*services.LoginResult, error)
	List(ctx context.Context) ([]*models.User, error)
}

// RecordService is the part of services.RecordService the handlers use.
type RecordService interface {
	List(ctx context.Context, category models.Category) ([]*models.Record, error)
	Update(ctx context.Context, role models.Role, category models.Category, id int64, data map[string]any) error
	Import(ctx context.Context, category models.Category, name string, content []byte) (int, error)
	AttachEvidence(ctx context.Context, category models.Category, id int64, name string, content []byte) (string, error)
}

type GRPCServer struct {
	rpc.UnimplementedAuditServiceServer
	address   string
	users     UserService
	records   RecordService
	logger    logging.Logger
	metrics   *metrics.Metrics
	jwtSecret []byte
	maxUpload int
}

func NewGRPCServer(a string, l logging.Logger, us UserService, rs RecordService, mt *metrics.Metrics, secretKey string, maxUpload int64) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		records:   rs,
		metrics:   mt,
		jwtSecret: []byte(secretKey),
		maxUpload: int(maxUpload),
	}
}

// newServer builds the grpc.Server with interceptors and the audit service
// registered.
func (s *GRPCServer) newServer() *grpc.Server {
	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.accessTokenInterceptor),
	}
	if s.maxUpload > 0 {
		// room for the protobuf framing around the file bytes
		opts = append(opts, grpc.MaxRecvMsgSize(s.maxUpload+1024))
	}
	srv := grpc.NewServer(opts...)
	rpc.RegisterAuditServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}
	<-stopped
	return nil
}
