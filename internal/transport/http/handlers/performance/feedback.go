package performancehandler

import (
	"net/http"

	"perfsvc/internal/domain/performance"
	"perfsvc/internal/transport/http/api"
	"perfsvc/internal/transport/http/middleware"
	"perfsvc/internal/transport/http/shared"
)

type submitFeedbackRequest struct {
	Type      string `json:"feedback_type" validate:"required"`
	Text      string `json:"feedback" validate:"max=4000"`
	Anonymous bool   `json:"is_anonymous"`
}

func (h *Handler) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	reviewID, ok := shared.UUIDParam(w, r, "reviewId", requestID)
	if !ok {
		return
	}
	var payload submitFeedbackRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	if payload.Anonymous {
		middleware.SkipIdempotencyStore(r.Context())
	}
	feedbackType, err := performance.ParseFeedbackType(payload.Type)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	fb, err := h.Service.SubmitFeedback(r.Context(), performance.SubmitFeedbackInput{
		ReviewID:   reviewID,
		ProviderID: user.EmployeeID,
		Type:       feedbackType,
		Text:       payload.Text,
		Anonymous:  payload.Anonymous,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	// Anonymous submissions are audited without actor or payload so the
	// trail cannot be joined back to the provider.
	if fb.Anonymous {
		h.recordAnonymous(r, "performance.feedback.submit", "feedback", fb.ID.String())
	} else {
		h.record(r, user, "performance.feedback.submit", "feedback", fb.ID.String(), nil, fb)
	}
	api.Created(w, fb, requestID)
}

func (h *Handler) handleGetReviewFeedback(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	reviewID, ok := shared.UUIDParam(w, r, "reviewId", requestID)
	if !ok {
		return
	}
	groups, err := h.Service.GetReviewFeedback(r.Context(), reviewID, user.EmployeeID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.Success(w, groups, requestID)
}
