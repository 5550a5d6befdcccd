package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/campussim-backend/internal/logger"
	"github.com/yungbote/campussim-backend/internal/repos"
)

type RunLogHandler struct {
	log    *logger.Logger
	runLog repos.RunLogRepo
}

func NewRunLogHandler(log *logger.Logger, runLog repos.RunLogRepo) *RunLogHandler {
	return &RunLogHandler{
		log:    log.With("handler", "RunLogHandler"),
		runLog: runLog,
	}
}

// ListWindowActions returns every recorded action of one window, in
// insertion order.
func (h *RunLogHandler) ListWindowActions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_window_id", err)
		return
	}
	entries, err := h.runLog.ListByWindow(c.Request.Context(), nil, id)
	if err != nil {
		h.log.Error("ListWindowActions failed", "error", err, "window_id", id)
		RespondError(c, http.StatusInternalServerError, "load_actions_failed", err)
		return
	}
	RespondOK(c, gin.H{"actions": entries})
}
