package performance

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGoal(t *testing.T) {
	h := newHarness(t)
	goal := h.createGoal(t)

	assert.Equal(t, GoalStatusNotStarted, goal.Status)
	assert.Equal(t, h.employee, goal.EmployeeID)
	assert.Equal(t, fixedNow, goal.CreatedAt)
	assert.Nil(t, goal.CompletionDate)

	stored, err := h.svc.GetGoal(context.Background(), goal.ID)
	require.NoError(t, err)
	assert.Equal(t, goal, stored)
}

func TestCreateGoalValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.CreateGoal(ctx, CreateGoalInput{EmployeeID: h.employee, Description: "  ", TargetCompletionDate: h.now.AddDate(0, 1, 0)})
	requireKind(t, err, ErrValidation, "Goal description is required.")

	_, err = h.svc.CreateGoal(ctx, CreateGoalInput{EmployeeID: h.employee, Description: "Learn Go", TargetCompletionDate: h.now})
	requireKind(t, err, ErrValidation, "Target completion date must be in the future.")

	_, err = h.svc.CreateGoal(ctx, CreateGoalInput{EmployeeID: uuid.New(), Description: "Learn Go", TargetCompletionDate: h.now.AddDate(0, 1, 0)})
	requireKind(t, err, ErrNotFound, "Employee not found.")
}

func TestUpdateGoalProgressCompletesAndPublishes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	goal := h.createGoal(t)

	goal, err := h.svc.UpdateGoalProgress(ctx, goal.ID, GoalStatusInProgress, "Kicked off")
	require.NoError(t, err)
	assert.Equal(t, "[2025-03-10 09:30:00] Kicked off", goal.ProgressUpdates)

	goal, err = h.svc.UpdateGoalProgress(ctx, goal.ID, GoalStatusCompleted, "Done")
	require.NoError(t, err)
	assert.Equal(t, GoalStatusCompleted, goal.Status)
	require.NotNil(t, goal.CompletionDate)
	assert.Equal(t, fixedNow, *goal.CompletionDate)
	assert.Equal(t, 2, strings.Count(goal.ProgressUpdates, "\n")+1)
	assert.Equal(t, []string{EventGoalCompleted}, h.publisher.names())

	// a note while already completed must not re-publish
	_, err = h.svc.UpdateGoalProgress(ctx, goal.ID, GoalStatusCompleted, "Follow-up")
	require.NoError(t, err)
	assert.Len(t, h.publisher.events, 1)

	_, err = h.svc.UpdateGoalProgress(ctx, goal.ID, GoalStatusAtRisk, "Slipping after all")
	requireKind(t, err, ErrStateConflict, "Invalid status transition from Completed to AtRisk.")

	goal, err = h.svc.UpdateGoalProgress(ctx, goal.ID, GoalStatusInProgress, "Reopened")
	require.NoError(t, err)
	assert.Nil(t, goal.CompletionDate)
	assert.Contains(t, h.metrics.transitions, "goal:InProgress->Completed")
}

func TestUpdateGoalProgressAtRiskNotifies(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	goal := h.createGoal(t)

	_, err := h.svc.UpdateGoalProgress(ctx, goal.ID, GoalStatusInProgress, "Started")
	require.NoError(t, err)
	_, err = h.svc.UpdateGoalProgress(ctx, goal.ID, GoalStatusAtRisk, "Blocked on vendor")
	require.NoError(t, err)
	_, err = h.svc.UpdateGoalProgress(ctx, goal.ID, GoalStatusAtRisk, "Still blocked")
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{goal.ID}, h.notifier.atRisk)
}

func TestUpdateGoalProgressNotifierFailureDoesNotFail(t *testing.T) {
	h := newHarness(t)
	h.notifier.err = assert.AnError
	h.publisher.err = assert.AnError
	ctx := context.Background()
	goal := h.createGoal(t)

	_, err := h.svc.UpdateGoalProgress(ctx, goal.ID, GoalStatusInProgress, "Started")
	require.NoError(t, err)
	goal, err = h.svc.UpdateGoalProgress(ctx, goal.ID, GoalStatusAtRisk, "Slipping")
	require.NoError(t, err)
	goal, err = h.svc.UpdateGoalProgress(ctx, goal.ID, GoalStatusCompleted, "Recovered")
	require.NoError(t, err)
	assert.Equal(t, GoalStatusCompleted, goal.Status)
}

func TestUpdateGoalProgressRejects(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	goal := h.createGoal(t)

	_, err := h.svc.UpdateGoalProgress(ctx, goal.ID, GoalStatusInProgress, " ")
	requireKind(t, err, ErrValidation, "Progress update text is required.")

	_, err = h.svc.UpdateGoalProgress(ctx, goal.ID, GoalStatusCompleted, "Skipping ahead")
	requireKind(t, err, ErrStateConflict, "Invalid status transition from NotStarted to Completed.")

	_, err = h.svc.UpdateGoalProgress(ctx, uuid.New(), GoalStatusInProgress, "Nothing")
	requireKind(t, err, ErrNotFound, "Goal not found.")

	stored, err := h.svc.GetGoal(ctx, goal.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.ProgressUpdates)
}

func TestUpdateGoalDetails(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	goal := h.createGoal(t)

	description := "Ship the onboarding revamp v2"
	target := h.now.AddDate(0, 6, 0)
	updated, err := h.svc.UpdateGoal(ctx, goal.ID, UpdateGoalInput{Description: &description, TargetCompletionDate: &target})
	require.NoError(t, err)
	assert.Equal(t, description, updated.Description)
	assert.Equal(t, target, updated.TargetCompletionDate)
	assert.Equal(t, goal.SuccessCriteria, updated.SuccessCriteria)

	past := h.now.AddDate(0, 0, -1)
	_, err = h.svc.UpdateGoal(ctx, goal.ID, UpdateGoalInput{TargetCompletionDate: &past})
	requireKind(t, err, ErrValidation, "Target completion date must be in the future.")

	_, err = h.svc.UpdateGoalProgress(ctx, goal.ID, GoalStatusInProgress, "Start")
	require.NoError(t, err)
	_, err = h.svc.UpdateGoalProgress(ctx, goal.ID, GoalStatusCancelled, "Dropped")
	require.NoError(t, err)
	_, err = h.svc.UpdateGoal(ctx, goal.ID, UpdateGoalInput{Description: &description})
	requireKind(t, err, ErrStateConflict, "Cancelled goals cannot be edited.")
}

func TestListGoalsPages(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		h.createGoal(t)
	}

	first, err := h.svc.ListGoals(ctx, h.employee, nil, 2)
	require.NoError(t, err)
	require.Len(t, first.Goals, 2)
	require.NotNil(t, first.NextCursor)

	second, err := h.svc.ListGoals(ctx, h.employee, first.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, second.Goals, 2)

	last, err := h.svc.ListGoals(ctx, h.employee, second.NextCursor, 2)
	require.NoError(t, err)
	assert.Len(t, last.Goals, 1)
	assert.Nil(t, last.NextCursor)

	seen := map[uuid.UUID]bool{}
	for _, page := range []GoalPage{first, second, last} {
		for _, goal := range page.Goals {
			assert.False(t, seen[goal.ID])
			seen[goal.ID] = true
		}
	}
	assert.Len(t, seen, 5)

	empty, err := h.svc.ListGoals(ctx, uuid.New(), nil, 0)
	require.NoError(t, err)
	assert.NotNil(t, empty.Goals)
	assert.Empty(t, empty.Goals)
}
