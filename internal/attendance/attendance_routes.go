package attendance

import (
	"preservice-attendance/internal/middleware"
	"preservice-attendance/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service, rdb *redis.Client) {
	attendances := r.Group("/attendance")
	attendances.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		attendances.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionRead), h.GetAll)
		attendances.GET("/stats", middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionRead), h.Stats)
		attendances.POST("",
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionCreate),
			middleware.Idempotency(rdb),
			h.Mark,
		)
	}
}
