package performancehandler

import (
	"net/http"

	"github.com/google/uuid"

	"perfsvc/internal/domain/performance"
	"perfsvc/internal/transport/http/api"
	"perfsvc/internal/transport/http/middleware"
	"perfsvc/internal/transport/http/shared"
)

const (
	defaultGoalLimit = 50
	maxGoalLimit     = 100
)

type createGoalRequest struct {
	ReviewID             *string `json:"performance_review_id" validate:"omitempty,uuid"`
	Description          string  `json:"description" validate:"max=4000"`
	SuccessCriteria      string  `json:"success_criteria" validate:"max=4000"`
	TargetCompletionDate string  `json:"target_completion_date" validate:"required"`
}

type updateGoalRequest struct {
	ReviewID             *string `json:"performance_review_id" validate:"omitempty,uuid"`
	Description          *string `json:"description" validate:"omitempty,max=4000"`
	SuccessCriteria      *string `json:"success_criteria" validate:"omitempty,max=4000"`
	TargetCompletionDate *string `json:"target_completion_date"`
}

type goalProgressRequest struct {
	Status string `json:"status" validate:"required"`
	Text   string `json:"progress_update" validate:"max=4000"`
}

func optionalUUID(raw *string) *uuid.UUID {
	if raw == nil || *raw == "" {
		return nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil
	}
	return &id
}

func (h *Handler) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	employeeID, ok := shared.UUIDParam(w, r, "employeeId", requestID)
	if !ok {
		return
	}
	var payload createGoalRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	target, _ := v.Date("target_completion_date", payload.TargetCompletionDate)
	if v.Reject(w, requestID) {
		return
	}

	goal, err := h.Service.CreateGoal(r.Context(), performance.CreateGoalInput{
		EmployeeID:           employeeID,
		ReviewID:             optionalUUID(payload.ReviewID),
		Description:          payload.Description,
		SuccessCriteria:      payload.SuccessCriteria,
		TargetCompletionDate: target,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.record(r, user, "performance.goal.create", "goal", goal.ID.String(), nil, goal)
	api.Created(w, goal, requestID)
}

func (h *Handler) handleListGoals(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID, ok := shared.UUIDParam(w, r, "employeeId", requestID)
	if !ok {
		return
	}
	page, err := shared.ParseCursor(r, defaultGoalLimit, maxGoalLimit)
	if err != nil {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "cursor", Reason: "must be a valid UUID"}})
		return
	}
	goals, err := h.Service.ListGoals(r.Context(), employeeID, page.Cursor, page.Limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.Success(w, goals, requestID)
}

func (h *Handler) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	goalID, ok := shared.UUIDParam(w, r, "goalId", requestID)
	if !ok {
		return
	}
	goal, err := h.Service.GetGoal(r.Context(), goalID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.Success(w, goal, requestID)
}

func (h *Handler) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	goalID, ok := shared.UUIDParam(w, r, "goalId", requestID)
	if !ok {
		return
	}
	var payload updateGoalRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	target := v.OptionalDate("target_completion_date", payload.TargetCompletionDate)
	if v.Reject(w, requestID) {
		return
	}

	before, err := h.Service.GetGoal(r.Context(), goalID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	goal, err := h.Service.UpdateGoal(r.Context(), goalID, performance.UpdateGoalInput{
		ReviewID:             optionalUUID(payload.ReviewID),
		Description:          payload.Description,
		SuccessCriteria:      payload.SuccessCriteria,
		TargetCompletionDate: target,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.record(r, user, "performance.goal.update", "goal", goal.ID.String(), before, goal)
	api.Success(w, goal, requestID)
}

func (h *Handler) handleUpdateGoalProgress(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	goalID, ok := shared.UUIDParam(w, r, "goalId", requestID)
	if !ok {
		return
	}
	var payload goalProgressRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	status, err := performance.ParseGoalStatus(payload.Status)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	before, err := h.Service.GetGoal(r.Context(), goalID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	goal, err := h.Service.UpdateGoalProgress(r.Context(), goalID, status, payload.Text)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.record(r, user, "performance.goal.progress", "goal", goal.ID.String(),
		map[string]any{"status": before.Status}, map[string]any{"status": goal.Status})
	api.Success(w, goal, requestID)
}
