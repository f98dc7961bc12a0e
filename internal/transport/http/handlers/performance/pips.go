package performancehandler

import (
	"net/http"

	"perfsvc/internal/domain/performance"
	"perfsvc/internal/transport/http/api"
	"perfsvc/internal/transport/http/middleware"
	"perfsvc/internal/transport/http/shared"
)

type createPIPRequest struct {
	StartDate        string `json:"start_date" validate:"required"`
	EndDate          string `json:"end_date" validate:"required"`
	Reason           string `json:"reason" validate:"max=4000"`
	ImprovementAreas string `json:"improvement_areas" validate:"max=4000"`
	SuccessCriteria  string `json:"success_criteria" validate:"max=4000"`
}

type updatePIPRequest struct {
	CheckInNote      string  `json:"check_in_note" validate:"max=4000"`
	ImprovementAreas *string `json:"improvement_areas" validate:"omitempty,max=4000"`
	SuccessCriteria  *string `json:"success_criteria" validate:"omitempty,max=4000"`
}

type pipOutcomeRequest struct {
	Outcome         string  `json:"outcome" validate:"required"`
	ExtendedEndDate *string `json:"extended_end_date"`
}

func (h *Handler) handleCreatePIP(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	employeeID, ok := shared.UUIDParam(w, r, "employeeId", requestID)
	if !ok {
		return
	}
	var payload createPIPRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	start, _ := v.Date("start_date", payload.StartDate)
	end, _ := v.Date("end_date", payload.EndDate)
	if v.Reject(w, requestID) {
		return
	}

	pip, err := h.Service.CreatePIP(r.Context(), performance.CreatePIPInput{
		EmployeeID:       employeeID,
		InitiatorID:      user.EmployeeID,
		StartDate:        start,
		EndDate:          end,
		Reason:           payload.Reason,
		ImprovementAreas: payload.ImprovementAreas,
		SuccessCriteria:  payload.SuccessCriteria,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.record(r, user, "performance.pip.create", "pip", pip.ID.String(), nil, pip)
	api.Created(w, pip, requestID)
}

func (h *Handler) handleListPIPs(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID, ok := shared.UUIDParam(w, r, "employeeId", requestID)
	if !ok {
		return
	}
	pips, err := h.Service.ListPIPs(r.Context(), employeeID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.Success(w, pips, requestID)
}

func (h *Handler) handleGetPIP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	pipID, ok := shared.UUIDParam(w, r, "pipId", requestID)
	if !ok {
		return
	}
	pip, err := h.Service.GetPIP(r.Context(), pipID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.Success(w, pip, requestID)
}

func (h *Handler) handleUpdatePIP(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	pipID, ok := shared.UUIDParam(w, r, "pipId", requestID)
	if !ok {
		return
	}
	var payload updatePIPRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	pip, err := h.Service.UpdatePIP(r.Context(), pipID, performance.UpdatePIPInput{
		CheckInNote:      payload.CheckInNote,
		ImprovementAreas: payload.ImprovementAreas,
		SuccessCriteria:  payload.SuccessCriteria,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.record(r, user, "performance.pip.update", "pip", pip.ID.String(), nil, payload)
	api.Success(w, pip, requestID)
}

func (h *Handler) handleRecordPIPOutcome(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	pipID, ok := shared.UUIDParam(w, r, "pipId", requestID)
	if !ok {
		return
	}
	var payload pipOutcomeRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	extended := v.OptionalDate("extended_end_date", payload.ExtendedEndDate)
	if v.Reject(w, requestID) {
		return
	}
	outcome, err := performance.ParsePIPOutcome(payload.Outcome)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	before, err := h.Service.GetPIP(r.Context(), pipID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	pip, err := h.Service.RecordPIPOutcome(r.Context(), pipID, outcome, extended)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.record(r, user, "performance.pip.outcome", "pip", pip.ID.String(),
		map[string]any{"status": before.Status, "end_date": before.EndDate},
		map[string]any{"status": pip.Status, "end_date": pip.EndDate, "outcome": pip.Outcome})
	api.Success(w, pip, requestID)
}
