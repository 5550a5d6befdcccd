package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/campussim-backend/internal/logger"
	pkgerr "github.com/yungbote/campussim-backend/internal/pkg/errors"
	"github.com/yungbote/campussim-backend/internal/scheduler"
)

type WindowHandler struct {
	log      *logger.Logger
	sched    *scheduler.Service
	testMode bool
}

func NewWindowHandler(log *logger.Logger, sched *scheduler.Service, testMode bool) *WindowHandler {
	return &WindowHandler{
		log:      log.With("handler", "WindowHandler"),
		sched:    sched,
		testMode: testMode,
	}
}

// RequestRerun flags a window for a forced re-run on the next tick.
// Refused outside test mode, where complete windows are final.
func (h *WindowHandler) RequestRerun(c *gin.Context) {
	if !h.testMode {
		RespondError(c, http.StatusForbidden, "rerun_disabled", errors.New("force re-run requires test mode"))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_window_id", err)
		return
	}
	if err := h.sched.RequestRerun(c.Request.Context(), id); err != nil {
		if errors.Is(err, pkgerr.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "window_not_found", err)
			return
		}
		h.log.Error("RequestRerun failed", "error", err, "window_id", id)
		RespondError(c, http.StatusInternalServerError, "rerun_request_failed", err)
		return
	}
	RespondOK(c, gin.H{"window_id": id, "force_rerun": true})
}
