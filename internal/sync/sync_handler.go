package sync

import (
	"net/http"

	"preservice-attendance/internal/shared/apperror"
	"preservice-attendance/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	syncer Syncer
}

func NewHandler(syncer Syncer) *Handler {
	return &Handler{syncer: syncer}
}

// Trigger runs a sync pass on demand. An offline pass still answers 200, the
// outcome lives in the result body.
func (h *Handler) Trigger(c *gin.Context) {
	result, err := h.syncer.SyncAll(c.Request.Context())
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	response.Success(c, http.StatusOK, result, nil)
}
