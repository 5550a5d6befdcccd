package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/campussim-backend/internal/courseprofile"
	"github.com/yungbote/campussim-backend/internal/logger"
	pkgerr "github.com/yungbote/campussim-backend/internal/pkg/errors"
	"github.com/yungbote/campussim-backend/internal/repos"
	"github.com/yungbote/campussim-backend/internal/scheduler"
	"github.com/yungbote/campussim-backend/internal/services"
)

type TermHandler struct {
	log       *logger.Logger
	sched     *scheduler.Service
	provision services.ProvisionService
	registry  *courseprofile.Registry
	terms     repos.TermRepo
	windows   repos.WindowRepo
}

func NewTermHandler(log *logger.Logger, sched *scheduler.Service, provision services.ProvisionService, registry *courseprofile.Registry, terms repos.TermRepo, windows repos.WindowRepo) *TermHandler {
	return &TermHandler{
		log:       log.With("handler", "TermHandler"),
		sched:     sched,
		provision: provision,
		registry:  registry,
		terms:     terms,
		windows:   windows,
	}
}

type createTermRequest struct {
	Name       string    `json:"name"`
	ProfileKey string    `json:"profile_key" binding:"required"`
	StartAt    time.Time `json:"start_at" binding:"required"`
	Backfill   bool      `json:"backfill"`
}

// CreateTerm creates a term, generates its window schedule and provisions
// its population in one request. Re-posting the same week and profile
// returns the existing term.
func (h *TermHandler) CreateTerm(c *gin.Context) {
	var req createTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ctx := c.Request.Context()
	term, err := h.sched.CreateTerm(ctx, scheduler.CreateTermInput{
		Name:       req.Name,
		ProfileKey: req.ProfileKey,
		StartAt:    req.StartAt,
		Backfill:   req.Backfill,
	})
	if err != nil {
		switch {
		case errors.Is(err, pkgerr.ErrUnknownProfile):
			RespondError(c, http.StatusUnprocessableEntity, "unknown_profile", err)
		case errors.Is(err, pkgerr.ErrBackfillDepthExceeded):
			RespondError(c, http.StatusUnprocessableEntity, "backfill_depth_exceeded", err)
		default:
			h.log.Error("CreateTerm failed", "error", err)
			RespondError(c, http.StatusInternalServerError, "create_term_failed", err)
		}
		return
	}
	profile, err := h.registry.ProfileFor(term.ProfileKey)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "create_term_failed", err)
		return
	}
	if err := h.provision.EnsureTermPool(ctx, term, profile); err != nil {
		h.log.Error("term pool provisioning failed", "term_id", term.ID, "error", err)
		RespondError(c, http.StatusInternalServerError, "provision_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"term": term})
}

func (h *TermHandler) ListTerms(c *gin.Context) {
	terms, err := h.terms.ListAll(c.Request.Context(), nil)
	if err != nil {
		h.log.Error("ListTerms failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "list_terms_failed", err)
		return
	}
	RespondOK(c, gin.H{"terms": terms})
}

func (h *TermHandler) GetTerm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_term_id", err)
		return
	}
	ctx := c.Request.Context()
	term, err := h.terms.GetByID(ctx, nil, id)
	if err != nil {
		h.log.Error("GetTerm failed", "error", err, "term_id", id)
		RespondError(c, http.StatusInternalServerError, "load_term_failed", err)
		return
	}
	if term == nil {
		RespondError(c, http.StatusNotFound, "term_not_found", pkgerr.ErrNotFound)
		return
	}
	windows, err := h.windows.ListByTerm(ctx, nil, id)
	if err != nil {
		h.log.Error("window listing failed", "error", err, "term_id", id)
		RespondError(c, http.StatusInternalServerError, "load_term_failed", err)
		return
	}
	RespondOK(c, gin.H{"term": term, "windows": windows})
}

func (h *TermHandler) ListProfiles(c *gin.Context) {
	RespondOK(c, gin.H{"profiles": h.registry.Keys()})
}
