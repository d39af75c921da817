package app

import (
	"database/sql"
	"net/http"
	"os"
	"strings"
	"time"

	"preservice-attendance/internal/attendance"
	"preservice-attendance/internal/auth"
	"preservice-attendance/internal/connectivity"
	"preservice-attendance/internal/excuse"
	"preservice-attendance/internal/messaging/kafka"
	"preservice-attendance/internal/rbac"
	syncengine "preservice-attendance/internal/sync"
	"preservice-attendance/internal/sync/queue"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"gorm.io/gorm"
)

func migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&auth.User{},
		&attendance.Attendance{},
		&excuse.Excuse{},
		&queue.Item{},
	)
}

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	kafkaWriter *kafkago.Writer,
	kafkaBroker string,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	excuseRepo := excuse.NewRepository(gormDB)
	queueRepo := queue.NewRepository(db)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Sync Core ---
	publisher := kafka.NewPublisher(kafkaWriter)
	claims := syncengine.NewRedisClaimStore(rdb, 30*time.Second)
	checker := connectivity.NewDialChecker(brokerAddrs(kafkaBroker), 2*time.Second)
	engine := syncengine.NewEngine(attendanceRepo, excuseRepo, queueRepo, publisher, claims, checker)

	// --- Services ---
	authService := auth.NewService(authRepo)
	attendanceService := attendance.NewService(db, attendanceRepo, queueRepo, excuseRepo)
	excuseService := excuse.NewService(db, excuseRepo, attendanceRepo, queueRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	attendanceHandler := attendance.NewHandlerWithRedis(attendanceService, rdb)
	excuseHandler := excuse.NewHandlerWithRedis(excuseService, rdb)
	syncHandler := syncengine.NewHandler(engine)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService, rdb)
		excuse.RegisterRoutes(api, excuseHandler, rbacService, rdb)
		syncengine.RegisterRoutes(api, syncHandler, rbacService)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return nil
}

func brokerAddrs(primary string) []string {
	addrs := []string{primary}
	if extra := os.Getenv("CONNECTIVITY_PROBE_ADDRS"); extra != "" {
		for _, addr := range strings.Split(extra, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				addrs = append(addrs, addr)
			}
		}
	}
	return addrs
}
