package performance

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreatePIPInput struct {
	EmployeeID       uuid.UUID
	InitiatorID      uuid.UUID
	StartDate        time.Time
	EndDate          time.Time
	Reason           string
	ImprovementAreas string
	SuccessCriteria  string
}

// UpdatePIPInput records a check-in. A blank note is ignored; the optional
// fields replace the plan text while the PIP is open.
type UpdatePIPInput struct {
	CheckInNote      string
	ImprovementAreas *string
	SuccessCriteria  *string
}

func (s *Service) CreatePIP(ctx context.Context, in CreatePIPInput) (pip PIP, err error) {
	ctx, span := s.startSpan(ctx, "CreatePIP")
	defer func() { endSpan(span, err) }()

	if !in.StartDate.Before(in.EndDate) {
		return PIP{}, validationError(msgPIPDates)
	}
	if blank(in.Reason) {
		return PIP{}, validationError(msgPIPReason)
	}
	if blank(in.ImprovementAreas) {
		return PIP{}, validationError(msgPIPImprovementAreas)
	}
	if blank(in.SuccessCriteria) {
		return PIP{}, validationError(msgPIPSuccessCriteria)
	}
	if err := s.requireEmployee(ctx, in.EmployeeID); err != nil {
		return PIP{}, err
	}
	if _, active, err := s.pips.ActivePIP(ctx, in.EmployeeID); err != nil {
		return PIP{}, err
	} else if active {
		return PIP{}, conflictError(msgPIPAlreadyActive)
	}

	now := s.clock()
	pip = PIP{
		ID:               uuid.New(),
		EmployeeID:       in.EmployeeID,
		InitiatorID:      in.InitiatorID,
		StartDate:        in.StartDate.UTC(),
		EndDate:          in.EndDate.UTC(),
		Reason:           strings.TrimSpace(in.Reason),
		ImprovementAreas: strings.TrimSpace(in.ImprovementAreas),
		SuccessCriteria:  strings.TrimSpace(in.SuccessCriteria),
		Status:           PIPStatusActive,
		ExtensionCount:   0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.pips.CreatePIP(ctx, pip); err != nil {
		if errors.Is(err, ErrStateConflict) {
			return PIP{}, conflictError(msgPIPAlreadyActive)
		}
		return PIP{}, err
	}
	s.publish(ctx, PIPInitiatedEvent{
		PIPID:       pip.ID,
		EmployeeID:  pip.EmployeeID,
		InitiatorID: pip.InitiatorID,
		StartDate:   pip.StartDate,
		EndDate:     pip.EndDate,
		Reason:      pip.Reason,
	})
	return pip, nil
}

func (s *Service) GetPIP(ctx context.Context, pipID uuid.UUID) (PIP, error) {
	return s.loadPIP(ctx, pipID)
}

func (s *Service) ListPIPs(ctx context.Context, employeeID uuid.UUID) ([]PIP, error) {
	pips, err := s.pips.ListPIPs(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if pips == nil {
		pips = []PIP{}
	}
	return pips, nil
}

func (s *Service) UpdatePIP(ctx context.Context, pipID uuid.UUID, in UpdatePIPInput) (pip PIP, err error) {
	ctx, span := s.startSpan(ctx, "UpdatePIP")
	defer func() { endSpan(span, err) }()

	pip, err = s.loadPIP(ctx, pipID)
	if err != nil {
		return PIP{}, err
	}
	editsPlan := in.ImprovementAreas != nil || in.SuccessCriteria != nil
	if editsPlan && !pip.Status.Open() {
		return PIP{}, conflictError(msgPIPClosed)
	}
	if in.ImprovementAreas != nil {
		if blank(*in.ImprovementAreas) {
			return PIP{}, validationError(msgPIPImprovementAreas)
		}
		pip.ImprovementAreas = strings.TrimSpace(*in.ImprovementAreas)
	}
	if in.SuccessCriteria != nil {
		if blank(*in.SuccessCriteria) {
			return PIP{}, validationError(msgPIPSuccessCriteria)
		}
		pip.SuccessCriteria = strings.TrimSpace(*in.SuccessCriteria)
	}

	now := s.clock()
	if !blank(in.CheckInNote) {
		pip.CheckInNotes = appendLogEntry(pip.CheckInNotes, in.CheckInNote, now)
	}
	pip.UpdatedAt = now
	if err := s.pips.UpdatePIP(ctx, pip); err != nil {
		return PIP{}, err
	}
	return pip, nil
}

// RecordPIPOutcome closes or extends a plan. ExtendedAgain is allowed once
// and only to a later end date; it keeps the plan open and records no
// outcome. Successful completes the plan, anything else terminates it.
func (s *Service) RecordPIPOutcome(ctx context.Context, pipID uuid.UUID, outcome PIPOutcome, extendedEndDate *time.Time) (pip PIP, err error) {
	ctx, span := s.startSpan(ctx, "RecordPIPOutcome")
	defer func() { endSpan(span, err) }()

	if !outcome.Valid() {
		return PIP{}, validationError("Unknown PIP outcome.")
	}
	pip, err = s.loadPIP(ctx, pipID)
	if err != nil {
		return PIP{}, err
	}
	if !pip.Status.Open() {
		return PIP{}, conflictError(msgPIPOutcomeRecorded)
	}

	now := s.clock()
	previous := pip.Status
	if outcome == PIPOutcomeExtendedAgain {
		if pip.ExtensionCount >= 1 {
			return PIP{}, conflictError(msgPIPExtensionCap)
		}
		if extendedEndDate == nil || !extendedEndDate.After(pip.EndDate) {
			return PIP{}, validationError(msgPIPExtensionDate)
		}
		if err := ValidatePIPTransition(pip.Status, PIPStatusExtended); err != nil {
			return PIP{}, err
		}
		pip.Status = PIPStatusExtended
		pip.EndDate = extendedEndDate.UTC()
		pip.ExtensionCount++
		pip.UpdatedAt = now
		if err := s.pips.UpdatePIP(ctx, pip); err != nil {
			return PIP{}, err
		}
		s.metrics.Transition("pip", string(previous), string(pip.Status))
		return pip, nil
	}

	return s.closePIP(ctx, pip, outcome, now)
}

func (s *Service) closePIP(ctx context.Context, pip PIP, outcome PIPOutcome, now time.Time) (PIP, error) {
	next := PIPStatusTerminated
	if outcome == PIPOutcomeSuccessful {
		next = PIPStatusCompleted
	}
	if err := ValidatePIPTransition(pip.Status, next); err != nil {
		return PIP{}, err
	}
	previous := pip.Status
	pip.Status = next
	pip.Outcome = &outcome
	pip.UpdatedAt = now
	if err := s.pips.UpdatePIP(ctx, pip); err != nil {
		return PIP{}, err
	}
	s.metrics.Transition("pip", string(previous), string(next))
	s.publish(ctx, PIPCompletedEvent{
		PIPID:         pip.ID,
		EmployeeID:    pip.EmployeeID,
		Outcome:       outcome,
		CompletedDate: now,
	})
	return pip, nil
}

func (s *Service) loadPIP(ctx context.Context, pipID uuid.UUID) (PIP, error) {
	pip, err := s.pips.GetPIP(ctx, pipID)
	if errors.Is(err, ErrNotFound) {
		return PIP{}, notFoundError(msgPIPNotFound)
	}
	return pip, err
}
