package performance

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateGoalInput struct {
	EmployeeID           uuid.UUID
	ReviewID             *uuid.UUID
	Description          string
	SuccessCriteria      string
	TargetCompletionDate time.Time
}

// UpdateGoalInput edits goal details. Nil fields are left unchanged.
type UpdateGoalInput struct {
	ReviewID             *uuid.UUID
	Description          *string
	SuccessCriteria      *string
	TargetCompletionDate *time.Time
}

func (s *Service) CreateGoal(ctx context.Context, in CreateGoalInput) (goal Goal, err error) {
	ctx, span := s.startSpan(ctx, "CreateGoal")
	defer func() { endSpan(span, err) }()

	now := s.clock()
	if blank(in.Description) {
		return Goal{}, validationError(msgGoalDescription)
	}
	if !in.TargetCompletionDate.After(now) {
		return Goal{}, validationError(msgGoalTargetDate)
	}
	if err := s.requireEmployee(ctx, in.EmployeeID); err != nil {
		return Goal{}, err
	}
	count, err := s.goals.CountGoals(ctx, in.EmployeeID)
	if err != nil {
		return Goal{}, err
	}
	if err := s.enforceVolume(ctx, EntityGoal, in.EmployeeID, count); err != nil {
		return Goal{}, err
	}

	goal = Goal{
		ID:                   uuid.New(),
		EmployeeID:           in.EmployeeID,
		ReviewID:             in.ReviewID,
		Description:          strings.TrimSpace(in.Description),
		SuccessCriteria:      strings.TrimSpace(in.SuccessCriteria),
		TargetCompletionDate: in.TargetCompletionDate.UTC(),
		Status:               GoalStatusNotStarted,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.goals.CreateGoal(ctx, goal); err != nil {
		return Goal{}, err
	}
	s.logger.Info("goal created", "goalId", goal.ID, "employeeId", goal.EmployeeID)
	return goal, nil
}

func (s *Service) GetGoal(ctx context.Context, goalID uuid.UUID) (Goal, error) {
	return s.loadGoal(ctx, goalID)
}

// ListGoals pages through an employee's goals ordered by id. The returned
// cursor is set when more goals follow the page.
func (s *Service) ListGoals(ctx context.Context, employeeID uuid.UUID, cursor *uuid.UUID, limit int) (GoalPage, error) {
	if limit <= 0 {
		limit = defaultGoalPageSize
	}
	if limit > maxGoalPageSize {
		limit = maxGoalPageSize
	}
	goals, err := s.goals.ListGoals(ctx, employeeID, cursor, limit+1)
	if err != nil {
		return GoalPage{}, err
	}
	page := GoalPage{Goals: goals}
	if len(goals) > limit {
		page.Goals = goals[:limit]
		next := page.Goals[limit-1].ID
		page.NextCursor = &next
	}
	if page.Goals == nil {
		page.Goals = []Goal{}
	}
	return page, nil
}

func (s *Service) UpdateGoal(ctx context.Context, goalID uuid.UUID, in UpdateGoalInput) (goal Goal, err error) {
	ctx, span := s.startSpan(ctx, "UpdateGoal")
	defer func() { endSpan(span, err) }()

	goal, err = s.loadGoal(ctx, goalID)
	if err != nil {
		return Goal{}, err
	}
	if goal.Status == GoalStatusCancelled {
		return Goal{}, conflictError(msgGoalCancelled)
	}
	now := s.clock()
	if in.Description != nil {
		if blank(*in.Description) {
			return Goal{}, validationError(msgGoalDescription)
		}
		goal.Description = strings.TrimSpace(*in.Description)
	}
	if in.SuccessCriteria != nil {
		goal.SuccessCriteria = strings.TrimSpace(*in.SuccessCriteria)
	}
	if in.TargetCompletionDate != nil {
		if !in.TargetCompletionDate.After(now) {
			return Goal{}, validationError(msgGoalTargetDate)
		}
		goal.TargetCompletionDate = in.TargetCompletionDate.UTC()
	}
	if in.ReviewID != nil {
		goal.ReviewID = in.ReviewID
	}
	goal.UpdatedAt = now
	if err := s.goals.UpdateGoal(ctx, goal); err != nil {
		return Goal{}, err
	}
	return goal, nil
}

// UpdateGoalProgress moves a goal to status and appends text to its
// progress log. Completion and at-risk side effects fire only when the
// status actually changes into those states.
func (s *Service) UpdateGoalProgress(ctx context.Context, goalID uuid.UUID, status GoalStatus, text string) (goal Goal, err error) {
	ctx, span := s.startSpan(ctx, "UpdateGoalProgress")
	defer func() { endSpan(span, err) }()

	if blank(text) {
		return Goal{}, validationError(msgProgressText)
	}
	goal, err = s.loadGoal(ctx, goalID)
	if err != nil {
		return Goal{}, err
	}
	if err := ValidateGoalTransition(goal.Status, status); err != nil {
		return Goal{}, err
	}

	now := s.clock()
	previous := goal.Status
	goal.ProgressUpdates = appendLogEntry(goal.ProgressUpdates, text, now)
	goal.Status = status

	completed := status == GoalStatusCompleted && previous != GoalStatusCompleted
	atRisk := status == GoalStatusAtRisk && previous != GoalStatusAtRisk
	if completed {
		goal.CompletionDate = &now
	}
	if previous == GoalStatusCompleted && status != GoalStatusCompleted {
		goal.CompletionDate = nil
	}
	goal.UpdatedAt = now

	if err := s.goals.UpdateGoal(ctx, goal); err != nil {
		return Goal{}, err
	}
	if previous != status {
		s.metrics.Transition("goal", string(previous), string(status))
	}

	if completed {
		s.publish(ctx, GoalCompletedEvent{
			GoalID:         goal.ID,
			EmployeeID:     goal.EmployeeID,
			Description:    goal.Description,
			CompletionDate: now,
		})
	}
	if atRisk {
		if err := s.notifier.GoalAtRisk(ctx, goal.EmployeeID, goal.ID); err != nil {
			s.logger.Warn("goal at-risk alert failed", "goalId", goal.ID, "err", err)
		}
	}
	return goal, nil
}

func (s *Service) loadGoal(ctx context.Context, goalID uuid.UUID) (Goal, error) {
	goal, err := s.goals.GetGoal(ctx, goalID)
	if errors.Is(err, ErrNotFound) {
		return Goal{}, notFoundError(msgGoalNotFound)
	}
	return goal, err
}
