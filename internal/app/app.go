package app

import (
	"os"
	"time"

	"preservice-attendance/internal/middleware"
	"preservice-attendance/internal/shared/connection"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp wires infrastructure and routes into the router. The broker is
// attached lazily so the API comes up even when the device is offline.
func BuildApp(router *gin.Engine) error {
	storePath := os.Getenv("SQLITE_PATH")
	if storePath == "" {
		storePath = "attendance.db"
	}

	gormDB, err := connection.ConnectSQLiteWithRetry(storePath, 5)
	if err != nil {
		return err
	}
	zap.L().Info("local store ready")

	if err := migrate(gormDB); err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	zap.L().Info("redis ready")

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		kafkaBroker = "localhost:9092"
	}
	kafkaWriter := connection.NewKafkaWriter(kafkaBroker)

	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(),
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	return registerModules(router, sqlDB, gormDB, redisClient, kafkaWriter, kafkaBroker)
}

func corsOrigins() []string {
	if origin := os.Getenv("CORS_ORIGIN"); origin != "" {
		return []string{origin}
	}
	return []string{"http://localhost:5173"}
}
