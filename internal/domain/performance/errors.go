package performance

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrStateConflict = errors.New("state conflict")
	ErrQuotaExceeded = errors.New("DATA_VOLUME_LIMIT_REACHED")
)

// Error is an expected command failure. Kind is one of the sentinel errors
// above and Message is safe to return to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func notFoundError(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func validationError(message string) error {
	return &Error{Kind: ErrValidation, Message: message}
}

func conflictError(message string) error {
	return &Error{Kind: ErrStateConflict, Message: message}
}

func quotaError(message string) error {
	return &Error{Kind: ErrQuotaExceeded, Message: message}
}

// Message extracts the caller-facing message from err, falling back to
// err.Error() for unexpected errors.
func Message(err error) string {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

const (
	msgGoalNotFound          = "Goal not found."
	msgReviewNotFound        = "Performance review not found."
	msgPIPNotFound           = "PIP not found."
	msgEmployeeNotFound      = "Employee not found."
	msgGoalDescription       = "Goal description is required."
	msgGoalTargetDate        = "Target completion date must be in the future."
	msgProgressText          = "Progress update text is required."
	msgGoalCancelled         = "Cancelled goals cannot be edited."
	msgReviewPeriod          = "Review period start must be before end."
	msgReviewOverlap         = "An overlapping review period already exists for this employee."
	msgSelfAssessment        = "Self-assessment is required for submission."
	msgManagerSubmitState    = "Review must have a completed self-assessment before manager submission."
	msgRatingRange           = "Overall rating must be between 1 and 5."
	msgAcknowledgeRequester  = "Only the employee being reviewed can acknowledge it."
	msgAcknowledgeState      = "Review must be submitted by the manager before it can be acknowledged."
	msgPIPDates              = "Start date must be before end date."
	msgPIPReason             = "Reason is required."
	msgPIPImprovementAreas   = "Improvement areas are required."
	msgPIPSuccessCriteria    = "Success criteria are required."
	msgPIPAlreadyActive      = "Employee already has an active PIP."
	msgPIPOutcomeRecorded    = "PIP outcome has already been recorded."
	msgPIPExtensionCap       = "Maximum of one extension is allowed for PIP."
	msgPIPExtensionDate      = "A valid future extension end date is required."
	msgPIPClosed             = "Closed PIPs cannot be updated."
	msgFeedbackText          = "Feedback text is required."
	msgFeedbackReviewMissing = "Performance review not found."
)
