package performance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateVolume(t *testing.T) {
	limit := Limit{Max: 100, Warn: 80}
	cases := []struct {
		count   int
		allowed bool
		warn    bool
	}{
		{0, true, false},
		{79, true, false},
		{80, true, true},
		{99, true, true},
		{100, false, false},
		{150, false, false},
	}
	for _, tc := range cases {
		got := EvaluateVolume(tc.count, limit)
		assert.Equal(t, VolumeDecision{Allowed: tc.allowed, Warn: tc.warn}, got, "count %d", tc.count)
	}
}

func TestLimitsValidate(t *testing.T) {
	assert.NoError(t, DefaultLimits().Validate())

	limits := DefaultLimits()
	limits.Reviews = Limit{Max: 0, Warn: 0}
	assert.Error(t, limits.Validate())

	limits = DefaultLimits()
	limits.Feedback = Limit{Max: 10, Warn: 11}
	assert.Error(t, limits.Validate())

	_, err := NewService(NewMemoryStore().Stores(), directory{}, WithLimits(limits))
	assert.Error(t, err)
}

func TestGoalLimitRejectsAndWarns(t *testing.T) {
	h := newHarness(t, WithLimits(Limits{
		Goals:    Limit{Max: 3, Warn: 2},
		Reviews:  Limit{Max: 50, Warn: 40},
		Feedback: Limit{Max: 200, Warn: 160},
	}))
	for i := 0; i < 3; i++ {
		h.createGoal(t)
	}
	assert.Equal(t, []volumeWarning{{employee: h.employee, entity: EntityGoal, count: 2, limit: 3}}, h.notifier.warnings)

	_, err := h.svc.CreateGoal(context.Background(), CreateGoalInput{
		EmployeeID:           h.employee,
		Description:          "One too many",
		TargetCompletionDate: h.now.AddDate(0, 1, 0),
	})
	requireKind(t, err, ErrQuotaExceeded, "DATA_VOLUME_LIMIT_REACHED: Maximum of 3 goals per employee.")
	assert.Equal(t, []EntityKind{EntityGoal}, h.metrics.rejections)
	assert.Equal(t, []EntityKind{EntityGoal}, h.metrics.warnings)

	count, err := h.store.CountGoals(context.Background(), h.employee)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestFeedbackLimitCountsAcrossReviews(t *testing.T) {
	h := newHarness(t, WithLimits(Limits{
		Goals:    Limit{Max: 100, Warn: 80},
		Reviews:  Limit{Max: 50, Warn: 40},
		Feedback: Limit{Max: 2, Warn: 2},
	}))
	ctx := context.Background()
	first := h.createReview(t, q1)
	second := h.createReview(t, q1.AddDate(0, 3, 0))

	for _, review := range []Review{first, second} {
		_, err := h.svc.SubmitFeedback(ctx, SubmitFeedbackInput{ReviewID: review.ID, ProviderID: h.manager, Type: FeedbackTypeManager, Text: "ok"})
		require.NoError(t, err)
	}
	_, err := h.svc.SubmitFeedback(ctx, SubmitFeedbackInput{ReviewID: first.ID, ProviderID: h.manager, Type: FeedbackTypeManager, Text: "more"})
	requireKind(t, err, ErrQuotaExceeded, "DATA_VOLUME_LIMIT_REACHED: Maximum of 2 feedback entries per employee.")
}

func TestReviewLimit(t *testing.T) {
	h := newHarness(t, WithLimits(Limits{
		Goals:    Limit{Max: 100, Warn: 80},
		Reviews:  Limit{Max: 1, Warn: 1},
		Feedback: Limit{Max: 200, Warn: 160},
	}))
	h.createReview(t, q1)

	_, err := h.svc.CreateReview(context.Background(), CreateReviewInput{
		EmployeeID: h.employee, ReviewerID: h.manager, Cycle: ReviewCycleAnnual,
		PeriodStart: q1, PeriodEnd: q1.AddDate(1, 0, 0),
	})
	requireKind(t, err, ErrQuotaExceeded, "DATA_VOLUME_LIMIT_REACHED: Maximum of 1 reviews per employee.")
}
