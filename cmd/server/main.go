package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"github.com/rl1809/fishstock/internal/adapter/handler"
	"github.com/rl1809/fishstock/internal/adapter/handler/pb"
	"github.com/rl1809/fishstock/internal/adapter/storage"
	"github.com/rl1809/fishstock/internal/auth"
	"github.com/rl1809/fishstock/internal/config"
	"github.com/rl1809/fishstock/internal/core/service"
	"github.com/rl1809/fishstock/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	issueToken := flag.String("issue-token", "", "print a bearer token for the given subject and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	var verifier *auth.Verifier
	if cfg.Auth.Secret != "" {
		verifier = auth.NewVerifier(cfg.Auth.Secret, cfg.Auth.Issuer)
	}

	if *issueToken != "" {
		if verifier == nil {
			logger.Fatal("cannot issue a token without auth.secret")
		}
		token, err := verifier.Issue(*issueToken, cfg.Auth.TokenTTL)
		if err != nil {
			logger.WithError(err).Fatal("failed to issue token")
		}
		fmt.Println(token)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize storage
	backend, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to open storage backend")
	}
	logger.WithFields(logrus.Fields{"backend": backend.Kind, "driver": backend.Driver}).Info("storage ready")

	// Initialize services
	inventoryService := service.NewInventoryService(backend.Inventory, logger)
	transactionService := service.NewTransactionService(backend.Transactions, logger)
	reportService := service.NewReportService(backend.Inventory, backend.Transactions)

	httpHandler := handler.NewHTTPHandler(inventoryService, transactionService, reportService, backend.Kind, backend, logger)
	if verifier == nil {
		logger.Warn("auth.secret not set, mutations are open")
	}

	// Initialize gRPC server
	var grpcOpts []grpc.ServerOption
	if verifier != nil {
		grpcOpts = append(grpcOpts, grpc.ChainUnaryInterceptor(handler.TokenInterceptor(verifier)))
	}
	grpcServer := grpc.NewServer(grpcOpts...)
	pb.RegisterLedgerServer(grpcServer, handler.NewGRPCHandler(httpHandler))

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.WithError(err).Fatal("failed to listen")
	}

	go func() {
		logger.WithField("addr", cfg.Server.GRPCAddr).Info("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			logger.WithError(err).Error("gRPC server error")
		}
	}()

	// Initialize HTTP server
	httpServer := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: httpHandler.Routes(verifier),
	}

	go func() {
		logger.WithField("addr", cfg.Server.HTTPAddr).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.WithError(err).Error("HTTP server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("HTTP shutdown incomplete")
	}
	logger.Info("HTTP server stopped")

	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")

	if err := backend.Close(); err != nil {
		logger.WithError(err).Warn("failed to close storage backend")
	}
	logger.Info("connections closed")
}
