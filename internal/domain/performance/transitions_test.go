package performance

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGoalTransition(t *testing.T) {
	cases := []struct {
		from, to GoalStatus
		ok       bool
	}{
		{GoalStatusNotStarted, GoalStatusInProgress, true},
		{GoalStatusNotStarted, GoalStatusCompleted, false},
		{GoalStatusNotStarted, GoalStatusNotStarted, true},
		{GoalStatusInProgress, GoalStatusAtRisk, true},
		{GoalStatusInProgress, GoalStatusNotStarted, false},
		{GoalStatusAtRisk, GoalStatusInProgress, true},
		{GoalStatusCompleted, GoalStatusInProgress, true},
		{GoalStatusCompleted, GoalStatusCancelled, false},
		{GoalStatusDeferred, GoalStatusCancelled, true},
		{GoalStatusDeferred, GoalStatusCompleted, false},
		{GoalStatusCancelled, GoalStatusInProgress, false},
	}
	for _, tc := range cases {
		err := ValidateGoalTransition(tc.from, tc.to)
		if tc.ok {
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
			continue
		}
		assert.ErrorIs(t, err, ErrStateConflict, "%s -> %s", tc.from, tc.to)
	}
}

func TestValidateGoalTransitionAllPairs(t *testing.T) {
	allowed := map[GoalStatus][]GoalStatus{
		GoalStatusNotStarted: {GoalStatusInProgress},
		GoalStatusInProgress: {GoalStatusAtRisk, GoalStatusCompleted, GoalStatusDeferred, GoalStatusCancelled},
		GoalStatusAtRisk:     {GoalStatusInProgress, GoalStatusCompleted, GoalStatusDeferred, GoalStatusCancelled},
		GoalStatusCompleted:  {GoalStatusInProgress},
		GoalStatusDeferred:   {GoalStatusInProgress, GoalStatusCancelled},
		GoalStatusCancelled:  {},
	}
	statuses := GoalStatuses()
	require.Len(t, statuses, 6)
	for _, from := range statuses {
		for _, to := range statuses {
			err := ValidateGoalTransition(from, to)
			if from == to || contains(allowed[from], to) {
				assert.NoError(t, err, "%s -> %s", from, to)
				continue
			}
			require.ErrorIs(t, err, ErrStateConflict, "%s -> %s", from, to)
			assert.Equal(t, fmt.Sprintf("Invalid status transition from %s to %s.", from, to), Message(err))
		}
	}
}

func TestValidateGoalTransitionMessage(t *testing.T) {
	err := ValidateGoalTransition(GoalStatusCancelled, GoalStatusInProgress)
	assert.Equal(t, "Invalid status transition from Cancelled to InProgress.", Message(err))

	err = ValidateGoalTransition(GoalStatusInProgress, GoalStatus("Paused"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidateReviewTransition(t *testing.T) {
	assert.NoError(t, ValidateReviewTransition(ReviewStatusDraft, ReviewStatusSelfAssessmentPending))
	assert.NoError(t, ValidateReviewTransition(ReviewStatusSubmitted, ReviewStatusAcknowledged))
	for _, status := range ReviewStatuses() {
		if status == ReviewStatusCompleted {
			continue
		}
		assert.NoError(t, ValidateReviewTransition(status, ReviewStatusCompleted), status)
	}
	assert.ErrorIs(t, ValidateReviewTransition(ReviewStatusDraft, ReviewStatusSubmitted), ErrStateConflict)
	assert.ErrorIs(t, ValidateReviewTransition(ReviewStatusCompleted, ReviewStatusDraft), ErrStateConflict)
}

func TestValidatePIPTransition(t *testing.T) {
	assert.NoError(t, ValidatePIPTransition(PIPStatusActive, PIPStatusExtended))
	assert.NoError(t, ValidatePIPTransition(PIPStatusExtended, PIPStatusTerminated))
	assert.NoError(t, ValidatePIPTransition(PIPStatusActive, PIPStatusActive))
	assert.ErrorIs(t, ValidatePIPTransition(PIPStatusExtended, PIPStatusActive), ErrStateConflict)
	assert.ErrorIs(t, ValidatePIPTransition(PIPStatusCompleted, PIPStatusCompleted), ErrStateConflict)
	assert.ErrorIs(t, ValidatePIPTransition(PIPStatusTerminated, PIPStatusExtended), ErrStateConflict)
}

func TestParseEnums(t *testing.T) {
	status, err := ParseGoalStatus("AtRisk")
	assert.NoError(t, err)
	assert.Equal(t, GoalStatusAtRisk, status)

	_, err = ParseGoalStatus("atrisk")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ParseReviewCycle("Monthly")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ParsePIPOutcome("Partial")
	assert.ErrorIs(t, err, ErrValidation)

	ft, err := ParseFeedbackType("DirectReport")
	assert.NoError(t, err)
	assert.Equal(t, FeedbackTypeDirectReport, ft)

	assert.Equal(t, "MeetsExpectations", RatingMeetsExpectations.String())
	assert.False(t, Rating(0).Valid())
	assert.False(t, Rating(6).Valid())
}
