package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"preservice-attendance/internal/attendance"
	"preservice-attendance/internal/connectivity"
	"preservice-attendance/internal/excuse"
	"preservice-attendance/internal/messaging/kafka"
	"preservice-attendance/internal/shared/connection"
	syncengine "preservice-attendance/internal/sync"
	"preservice-attendance/internal/sync/queue"

	"go.uber.org/zap"
)

// RunSyncWorker drives background sync passes. It retries the queue on an
// interval and fires an extra pass whenever connectivity comes back.
func RunSyncWorker() error {
	logger := zap.L().Named("app.syncworker")

	storePath := os.Getenv("SQLITE_PATH")
	if storePath == "" {
		storePath = "attendance.db"
	}

	gormDB, err := connection.ConnectSQLiteWithRetry(storePath, 5)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		kafkaBroker = "localhost:9092"
	}
	kafkaWriter := connection.NewKafkaWriter(kafkaBroker)
	defer kafkaWriter.Close()

	attendanceRepo := attendance.NewRepository(gormDB)
	excuseRepo := excuse.NewRepository(gormDB)
	queueRepo := queue.NewRepository(sqlDB)
	publisher := kafka.NewPublisher(kafkaWriter)
	claims := syncengine.NewRedisClaimStore(redisClient, 30*time.Second)
	checker := connectivity.NewDialChecker(brokerAddrs(kafkaBroker), 2*time.Second)

	engine := syncengine.NewEngine(attendanceRepo, excuseRepo, queueRepo, publisher, claims, checker, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher := connectivity.NewWatcher(checker, 15*time.Second, func(ctx context.Context) {
		if _, err := engine.SyncAll(ctx); err != nil {
			logger.Error("reconnect sync pass failed", zap.Error(err))
		}
	}, logger)
	go watcher.Run(ctx)

	go runSyncLoop(ctx, engine, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("sync worker shutting down")
	cancel()

	return nil
}

func runSyncLoop(ctx context.Context, engine *syncengine.Engine, logger *zap.Logger) {
	interval := 30 * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("sync loop started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			logger.Info("sync loop stopped")
			return
		case <-ticker.C:
			result, err := engine.SyncAll(ctx)
			if err != nil {
				logger.Error("sync pass failed", zap.Error(err))
				continue
			}
			if result.Synced > 0 || result.Failed > 0 {
				logger.Info("sync pass",
					zap.Bool("success", result.Success),
					zap.Int("synced", result.Synced),
					zap.Int("failed", result.Failed),
				)
			}
		}
	}
}
