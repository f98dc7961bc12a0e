package performancehandler

import (
	"net/http"

	"perfsvc/internal/transport/http/api"
	"perfsvc/internal/transport/http/middleware"
	"perfsvc/internal/transport/http/shared"
)

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID, ok := shared.UUIDParam(w, r, "employeeId", requestID)
	if !ok {
		return
	}
	summary, err := h.Service.Summary(r.Context(), employeeID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.Success(w, summary, requestID)
}
