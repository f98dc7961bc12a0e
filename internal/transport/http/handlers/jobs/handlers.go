package jobshandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"perfsvc/internal/domain/auth"
	"perfsvc/internal/platform/jobs"
	"perfsvc/internal/transport/http/api"
	"perfsvc/internal/transport/http/middleware"
)

type Runner interface {
	RunNow(ctx context.Context, name string) (any, error)
}

type Handler struct {
	Jobs  Runner
	Perms middleware.PermissionStore
}

func NewHandler(runner Runner, perms middleware.PermissionStore) *Handler {
	return &Handler{Jobs: runner, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermJobsRun, h.Perms)).Post("/jobs/{job}/run", h.handleRun)
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	name := chi.URLParam(r, "job")
	details, err := h.Jobs.RunNow(r.Context(), name)
	if errors.Is(err, jobs.ErrUnknownJob) {
		api.Fail(w, http.StatusNotFound, "not_found", "unknown job "+name, requestID)
		return
	}
	if err != nil {
		slog.Warn("job run failed", "jobType", name, "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "job_failed", "job run failed", requestID)
		return
	}
	api.Success(w, map[string]any{"job": name, "result": details}, requestID)
}
