package performancehandler

import (
	"net/http"

	"perfsvc/internal/domain/performance"
	"perfsvc/internal/transport/http/api"
	"perfsvc/internal/transport/http/middleware"
	"perfsvc/internal/transport/http/shared"
)

type createReviewRequest struct {
	ReviewerID     string `json:"reviewer_id" validate:"omitempty,uuid"`
	Cycle          string `json:"review_cycle" validate:"required"`
	PeriodStart    string `json:"review_period_start" validate:"required"`
	PeriodEnd      string `json:"review_period_end" validate:"required"`
	SelfAssessment string `json:"self_assessment" validate:"max=10000"`
}

type updateReviewRequest struct {
	SelfAssessment       *string `json:"self_assessment" validate:"omitempty,max=10000"`
	ManagerAssessment    *string `json:"manager_assessment" validate:"omitempty,max=10000"`
	SubmitSelfAssessment bool    `json:"submit_self_assessment"`
}

type submitReviewRequest struct {
	ManagerAssessment string `json:"manager_assessment" validate:"max=10000"`
	OverallRating     int    `json:"overall_rating"`
}

func (h *Handler) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	employeeID, ok := shared.UUIDParam(w, r, "employeeId", requestID)
	if !ok {
		return
	}
	var payload createReviewRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	start, _ := v.Date("review_period_start", payload.PeriodStart)
	end, _ := v.Date("review_period_end", payload.PeriodEnd)
	if v.Reject(w, requestID) {
		return
	}
	cycle, err := performance.ParseReviewCycle(payload.Cycle)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	// The caller reviews unless another reviewer is named.
	reviewerID := user.EmployeeID
	if id := optionalUUID(&payload.ReviewerID); id != nil {
		reviewerID = *id
	}

	review, err := h.Service.CreateReview(r.Context(), performance.CreateReviewInput{
		EmployeeID:     employeeID,
		ReviewerID:     reviewerID,
		Cycle:          cycle,
		PeriodStart:    start,
		PeriodEnd:      end,
		SelfAssessment: payload.SelfAssessment,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.record(r, user, "performance.review.create", "review", review.ID.String(), nil, review)
	api.Created(w, review, requestID)
}

func (h *Handler) handleListReviews(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID, ok := shared.UUIDParam(w, r, "employeeId", requestID)
	if !ok {
		return
	}
	reviews, err := h.Service.ListReviews(r.Context(), employeeID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.Success(w, reviews, requestID)
}

func (h *Handler) handleGetReview(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	reviewID, ok := shared.UUIDParam(w, r, "reviewId", requestID)
	if !ok {
		return
	}
	review, err := h.Service.GetReview(r.Context(), reviewID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.Success(w, review, requestID)
}

func (h *Handler) handleUpdateReviewDraft(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	reviewID, ok := shared.UUIDParam(w, r, "reviewId", requestID)
	if !ok {
		return
	}
	var payload updateReviewRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	before, err := h.Service.GetReview(r.Context(), reviewID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	review, err := h.Service.UpdateReviewDraft(r.Context(), reviewID, performance.UpdateReviewInput{
		SelfAssessment:       payload.SelfAssessment,
		ManagerAssessment:    payload.ManagerAssessment,
		SubmitSelfAssessment: payload.SubmitSelfAssessment,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.record(r, user, "performance.review.update", "review", review.ID.String(),
		map[string]any{"status": before.Status}, map[string]any{"status": review.Status})
	api.Success(w, review, requestID)
}

func (h *Handler) handleSubmitManagerReview(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	reviewID, ok := shared.UUIDParam(w, r, "reviewId", requestID)
	if !ok {
		return
	}
	var payload submitReviewRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	review, err := h.Service.SubmitManagerReview(r.Context(), reviewID, payload.ManagerAssessment, performance.Rating(payload.OverallRating))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.record(r, user, "performance.review.submit", "review", review.ID.String(), nil,
		map[string]any{"status": review.Status, "overall_rating": review.OverallRating})
	api.Success(w, review, requestID)
}

func (h *Handler) handleAcknowledgeReview(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	reviewID, ok := shared.UUIDParam(w, r, "reviewId", requestID)
	if !ok {
		return
	}
	review, err := h.Service.AcknowledgeReview(r.Context(), reviewID, user.EmployeeID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.record(r, user, "performance.review.acknowledge", "review", review.ID.String(), nil,
		map[string]any{"status": review.Status})
	api.Success(w, review, requestID)
}
