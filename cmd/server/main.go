package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"riderDeliveryPortal/internal/blob"
	"riderDeliveryPortal/internal/config"
	"riderDeliveryPortal/internal/db"
	grpcserver "riderDeliveryPortal/internal/grpc"
	"riderDeliveryPortal/internal/importer"
	"riderDeliveryPortal/internal/logging"
	"riderDeliveryPortal/internal/reconcile"
	"riderDeliveryPortal/internal/retry"
	"riderDeliveryPortal/internal/service"
	"riderDeliveryPortal/repository"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("load .env: %v", err)
	}
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("configuration loaded", zap.Stringer("config", cfg))

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

// loadConfig insists on a real JWT secret in production.
func loadConfig() (*config.Config, error) {
	if os.Getenv("APP_ENV") == "production" {
		return config.Load()
	}
	return config.LoadWithDefaults()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			logger.Warn("close db", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	blobs, err := openBlobStore(ctx, cfg.Blob)
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}

	opt := repository.WithTimeout(cfg.Database.OpTimeout)
	users := repository.NewUserRepository(d, opt)
	orders := repository.NewOrderRepository(d, opt)
	assets := repository.NewPODAssetRepository(d, opt)

	policy := retry.DefaultPolicy
	policy.MaxAttempts = uint(cfg.Retry.MaxAttempts)
	mode := importer.Lenient
	if cfg.Import.Strict {
		mode = importer.Strict
	}

	rec := reconcile.New(assets, orders, blobs, cfg.Reconcile.Grace, logger.Named("reconcile"))
	svcs := &grpcserver.Services{
		Users:      users,
		Orders:     service.NewOrderService(orders, mode, logger, policy),
		Assignment: service.NewAssignmentService(orders, users, logger, policy),
		POD:        service.NewPODService(orders, assets, blobs, logger, policy),
		Stats:      service.NewStatsService(orders, users, logger, policy),
		Profiles:   service.NewProfileService(users, logger, policy),
		Reconciler: rec,
	}

	shutdown, err := grpcserver.StartGRPC(cfg, svcs, logger.Named("grpc"))
	if err != nil {
		return fmt.Errorf("start grpc: %w", err)
	}
	logger.Info("gRPC server listening", zap.String("address", cfg.GRPC.Address))

	if cfg.Reconcile.Interval > 0 {
		go rec.Run(ctx, cfg.Reconcile.Interval)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	return nil
}

func openBlobStore(ctx context.Context, cfg config.BlobConfig) (blob.Store, error) {
	if cfg.Backend == "s3" {
		return blob.NewS3Store(ctx, blob.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.AWSRegion,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
	}
	return blob.NewLocalStore(cfg.LocalDir, cfg.LocalBaseURL)
}
