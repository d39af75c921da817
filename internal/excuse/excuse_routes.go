package excuse

import (
	"preservice-attendance/internal/middleware"
	"preservice-attendance/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service, rdb *redis.Client) {
	excuses := r.Group("/excuses")
	excuses.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		excuses.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceExcuse, rbac.ActionRead), h.GetAll)
		excuses.POST("",
			middleware.RBACAuthorize(rbacService, rbac.ResourceExcuse, rbac.ActionCreate),
			middleware.Idempotency(rdb),
			h.Submit,
		)
		excuses.PATCH("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceExcuse, rbac.ActionReview), h.Review)
	}
}
