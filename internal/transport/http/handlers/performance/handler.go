package performancehandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"perfsvc/internal/domain/audit"
	"perfsvc/internal/domain/auth"
	"perfsvc/internal/domain/performance"
	"perfsvc/internal/transport/http/api"
	"perfsvc/internal/transport/http/middleware"
)

type Handler struct {
	Service *performance.Service
	Perms   middleware.PermissionStore
	Audit   audit.Trail
	Logger  *slog.Logger
}

func NewHandler(service *performance.Service, perms middleware.PermissionStore, trail audit.Trail, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Service: service, Perms: perms, Audit: trail, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermPerformanceRead, h.Perms)
	write := middleware.RequirePermission(auth.PermPerformanceWrite, h.Perms)
	review := middleware.RequirePermission(auth.PermPerformanceReview, h.Perms)
	pip := middleware.RequirePermission(auth.PermPIPManage, h.Perms)

	r.Route("/employees/{employeeId}", func(r chi.Router) {
		r.With(write).Post("/goals", h.handleCreateGoal)
		r.With(read).Get("/goals", h.handleListGoals)
		r.With(review).Post("/reviews", h.handleCreateReview)
		r.With(read).Get("/reviews", h.handleListReviews)
		r.With(pip).Post("/pips", h.handleCreatePIP)
		r.With(read).Get("/pips", h.handleListPIPs)
		r.With(read).Get("/summary", h.handleSummary)
	})
	r.Route("/goals/{goalId}", func(r chi.Router) {
		r.With(read).Get("/", h.handleGetGoal)
		r.With(write).Put("/", h.handleUpdateGoal)
		r.With(write).Put("/progress", h.handleUpdateGoalProgress)
	})
	r.Route("/reviews/{reviewId}", func(r chi.Router) {
		r.With(read).Get("/", h.handleGetReview)
		r.With(write).Put("/", h.handleUpdateReviewDraft)
		r.With(review).Post("/submit", h.handleSubmitManagerReview)
		r.With(write).Post("/acknowledge", h.handleAcknowledgeReview)
		r.With(read).Get("/export.pdf", h.handleExportReview)
		r.With(write).Post("/feedback", h.handleSubmitFeedback)
		r.With(read).Get("/feedback", h.handleGetReviewFeedback)
	})
	r.Route("/pips/{pipId}", func(r chi.Router) {
		r.With(read).Get("/", h.handleGetPIP)
		r.With(pip).Put("/", h.handleUpdatePIP)
		r.With(pip).Post("/outcome", h.handleRecordPIPOutcome)
	})
}

// caller returns the authenticated user or answers 401.
func caller(w http.ResponseWriter, r *http.Request) (auth.UserContext, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return auth.UserContext{}, false
	}
	return user, true
}

// writeServiceError maps domain failures onto the response envelope.
// Expected command failures are 400 except NotFound; anything else is an
// internal error and is logged.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	message := performance.Message(err)
	switch {
	case errors.Is(err, performance.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", message, requestID)
	case errors.Is(err, performance.ErrValidation):
		api.Fail(w, http.StatusBadRequest, "validation_failed", message, requestID)
	case errors.Is(err, performance.ErrStateConflict):
		api.Fail(w, http.StatusBadRequest, "state_conflict", message, requestID)
	case errors.Is(err, performance.ErrQuotaExceeded):
		api.Fail(w, http.StatusBadRequest, "DATA_VOLUME_LIMIT_REACHED", message, requestID)
	default:
		h.Logger.Error("performance request failed", "requestId", requestID, "path", r.URL.Path, "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
	}
}

func (h *Handler) record(r *http.Request, user auth.UserContext, action, entityType, entityID string, before, after any) {
	if h.Audit == nil {
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	event, err := audit.NewEvent(user.EmployeeID.String(), action, entityType, entityID, requestID, middleware.ClientIP(r), before, after)
	if err != nil {
		h.Logger.Warn("audit event encode failed", "action", action, "err", err)
		return
	}
	if err := h.Audit.Record(r.Context(), event); err != nil {
		h.Logger.Warn("audit "+action+" failed", "requestId", requestID, "err", err)
	}
}

func (h *Handler) recordAnonymous(r *http.Request, action, entityType, entityID string) {
	if h.Audit == nil {
		return
	}
	event, err := audit.NewEvent("", action, entityType, entityID, middleware.GetRequestID(r.Context()), "", nil, nil)
	if err != nil {
		return
	}
	if err := h.Audit.Record(r.Context(), event); err != nil {
		h.Logger.Warn("audit "+action+" failed", "err", err)
	}
}
