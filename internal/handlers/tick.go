package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/campussim-backend/internal/logger"
	"github.com/yungbote/campussim-backend/internal/platform/redislock"
	"github.com/yungbote/campussim-backend/internal/services"
)

type TickHandler struct {
	log        *logger.Logger
	simulation services.SimulationService
	lock       *redislock.TickLock
}

func NewTickHandler(log *logger.Logger, simulation services.SimulationService, lock *redislock.TickLock) *TickHandler {
	return &TickHandler{
		log:        log.With("handler", "TickHandler"),
		simulation: simulation,
		lock:       lock,
	}
}

// Tick runs one synchronous scheduler cycle under the distributed lock
// and returns the hierarchical run summary. A held lock means another
// instance is mid-cycle; the caller retries later.
func (h *TickHandler) Tick(c *gin.Context) {
	ctx := c.Request.Context()
	if h.lock != nil {
		ok, err := h.lock.Acquire(ctx)
		if err != nil {
			h.log.Error("tick lock acquire failed", "error", err)
			RespondError(c, http.StatusInternalServerError, "tick_lock_failed", err)
			return
		}
		if !ok {
			RespondError(c, http.StatusConflict, "tick_in_progress", nil)
			return
		}
		defer func() {
			if err := h.lock.Release(ctx); err != nil {
				h.log.Warn("tick lock release failed", "error", err)
			}
		}()
	}
	summary, err := h.simulation.Tick(ctx)
	if err != nil {
		h.log.Error("tick failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "tick_failed", err)
		return
	}
	RespondOK(c, gin.H{"summary": summary})
}
