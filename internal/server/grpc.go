package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/sevenoy/GeminiMeds/internal/config"
	myGRPC "github.com/sevenoy/GeminiMeds/internal/handler/grpc"
	"github.com/sevenoy/GeminiMeds/internal/logger"

	"google.golang.org/grpc"
)

const healthCheckInterval = 15 * time.Second

type grpcServer struct {
	handler *myGRPC.Handler

	server          *grpc.Server
	gRPCNetListener net.Listener
	stopWatch       context.CancelFunc

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) (*grpcServer, error) {
	listener, err := net.Listen("tcp", cfg.GRPCAddress)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.GRPCAddress, err)
	}

	s := grpc.NewServer()
	handler.Register(s)

	return &grpcServer{
		handler:         handler,
		server:          s,
		gRPCNetListener: listener,
		logger:          logger,
	}, nil
}

func (g *grpcServer) serve() error {
	ctx, cancel := context.WithCancel(context.Background())
	g.stopWatch = cancel
	go g.handler.Watch(ctx, healthCheckInterval)

	g.logger.Info().Str("address", g.gRPCNetListener.Addr().String()).Msg("gRPC server listening")
	if err := g.server.Serve(g.gRPCNetListener); err != nil {
		return fmt.Errorf("gRPC server: %w", err)
	}
	return nil
}

func (g *grpcServer) Shutdown() {
	g.logger.Info().Msg("GRPC server Shutdown")
	if g.stopWatch != nil {
		g.stopWatch()
	}
	g.handler.Shutdown()
	g.server.GracefulStop()
}
