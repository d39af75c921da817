package sync

import (
	"preservice-attendance/internal/middleware"
	"preservice-attendance/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	syncs := r.Group("/sync")
	syncs.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		syncs.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceSync, rbac.ActionRun), h.Trigger)
	}
}
