package performance

import "fmt"

var goalTransitions = map[GoalStatus][]GoalStatus{
	GoalStatusNotStarted: {GoalStatusInProgress},
	GoalStatusInProgress: {GoalStatusAtRisk, GoalStatusCompleted, GoalStatusDeferred, GoalStatusCancelled},
	GoalStatusAtRisk:     {GoalStatusCompleted, GoalStatusDeferred, GoalStatusCancelled, GoalStatusInProgress},
	GoalStatusCompleted:  {GoalStatusInProgress},
	GoalStatusDeferred:   {GoalStatusInProgress, GoalStatusCancelled},
	GoalStatusCancelled:  {},
}

// Completed is reachable from every open review so that reviews can be
// closed out when the employee leaves.
var reviewTransitions = map[ReviewStatus][]ReviewStatus{
	ReviewStatusDraft:                 {ReviewStatusSelfAssessmentPending, ReviewStatusCompleted},
	ReviewStatusSelfAssessmentPending: {ReviewStatusManagerReviewPending, ReviewStatusSubmitted, ReviewStatusCompleted},
	ReviewStatusManagerReviewPending:  {ReviewStatusSubmitted, ReviewStatusCompleted},
	ReviewStatusSubmitted:             {ReviewStatusAcknowledged, ReviewStatusCompleted},
	ReviewStatusAcknowledged:          {ReviewStatusCompleted},
	ReviewStatusCompleted:             {},
}

var pipTransitions = map[PIPStatus][]PIPStatus{
	PIPStatusActive:     {PIPStatusExtended, PIPStatusCompleted, PIPStatusTerminated},
	PIPStatusExtended:   {PIPStatusCompleted, PIPStatusTerminated},
	PIPStatusCompleted:  {},
	PIPStatusTerminated: {},
}

// ValidateGoalTransition returns nil when a goal may move from current to
// requested. Staying in the same status is always allowed.
func ValidateGoalTransition(current, requested GoalStatus) error {
	if !requested.Valid() {
		return validationError(fmt.Sprintf("Unknown goal status %q.", requested))
	}
	if current == requested || contains(goalTransitions[current], requested) {
		return nil
	}
	return conflictError(fmt.Sprintf("Invalid status transition from %s to %s.", current, requested))
}

func ValidateReviewTransition(current, requested ReviewStatus) error {
	if current == requested || contains(reviewTransitions[current], requested) {
		return nil
	}
	return conflictError(fmt.Sprintf("Invalid review status transition from %s to %s.", current, requested))
}

func ValidatePIPTransition(current, requested PIPStatus) error {
	if current == requested && requested.Open() {
		return nil
	}
	if contains(pipTransitions[current], requested) {
		return nil
	}
	return conflictError(fmt.Sprintf("Invalid PIP status transition from %s to %s.", current, requested))
}

func contains[T comparable](values []T, target T) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
