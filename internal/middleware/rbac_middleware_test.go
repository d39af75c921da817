package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"preservice-attendance/internal/middleware"
	"preservice-attendance/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func reviewRouter(t *testing.T, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	rbacService, err := rbac.NewService()
	assert.NoError(t, err)

	r := gin.New()
	r.PATCH("/excuses/:id",
		func(c *gin.Context) {
			if role != "" {
				c.Set("role", role)
			}
		},
		middleware.RBACAuthorize(rbacService, rbac.ResourceExcuse, rbac.ActionReview),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	return r
}

func TestRBACAuthorize_AdminAllowed(t *testing.T) {
	r := reviewRouter(t, "admin")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/excuses/1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRBACAuthorize_NonAdminGetsUnauthorized(t *testing.T) {
	r := reviewRouter(t, "executive")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/excuses/1", nil))

	// a session without the reviewer role is treated like no session
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRBACAuthorize_MissingRole(t *testing.T) {
	r := reviewRouter(t, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/excuses/1", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
