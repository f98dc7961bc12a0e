package performance

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPerformanceSummary(t *testing.T) {
	meets, low := RatingMeetsExpectations, RatingBelowExpectations
	goals := []Goal{
		{Status: GoalStatusCompleted},
		{Status: GoalStatusAtRisk},
		{Status: GoalStatusInProgress},
		{Status: GoalStatusCompleted},
	}
	reviews := []Review{
		{Status: ReviewStatusAcknowledged, OverallRating: &meets},
		{Status: ReviewStatusSubmitted, OverallRating: &low},
		{Status: ReviewStatusCompleted},
		{Status: ReviewStatusDraft},
	}

	summary := buildPerformanceSummary(goals, reviews)
	assert.Equal(t, 4, summary.GoalsTotal)
	assert.Equal(t, 2, summary.GoalsCompleted)
	assert.Equal(t, 1, summary.GoalsAtRisk)
	assert.Equal(t, 2, summary.ReviewsClosed)
	assert.InDelta(t, 0.5, summary.ReviewClosureRate, 1e-9)
	assert.Equal(t, map[string]int{"4": 1, "2": 1}, summary.RatingDistribution)
}

func TestSummaryIncludesActivePIP(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.createGoal(t)
	h.createReview(t, q1)
	pip := h.createPIP(t)

	summary, err := h.svc.Summary(ctx, h.employee)
	require.NoError(t, err)
	assert.Equal(t, h.employee, summary.EmployeeID)
	assert.Equal(t, 1, summary.GoalsTotal)
	assert.Equal(t, 1, summary.ReviewsTotal)
	assert.Zero(t, summary.ReviewClosureRate)
	require.NotNil(t, summary.ActivePIP)
	assert.Equal(t, pip.ID, *summary.ActivePIP)

	empty, err := h.svc.Summary(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, empty.GoalsTotal)
	assert.Nil(t, empty.ActivePIP)
	assert.NotNil(t, empty.RatingDistribution)
}
