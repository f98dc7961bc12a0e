package performance

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

type SubmitFeedbackInput struct {
	ReviewID   uuid.UUID
	ProviderID uuid.UUID
	Type       FeedbackType
	Text       string
	Anonymous  bool
}

// SubmitFeedback stores feedback against a review. Anonymous feedback is
// stored under a hashed provider id; the raw id is not persisted or logged.
func (s *Service) SubmitFeedback(ctx context.Context, in SubmitFeedbackInput) (fb Feedback, err error) {
	ctx, span := s.startSpan(ctx, "SubmitFeedback")
	defer func() { endSpan(span, err) }()

	if !in.Type.Valid() {
		return Feedback{}, validationError("Unknown feedback type.")
	}
	if blank(in.Text) {
		return Feedback{}, validationError(msgFeedbackText)
	}
	review, err := s.reviews.GetReview(ctx, in.ReviewID)
	if errors.Is(err, ErrNotFound) {
		return Feedback{}, notFoundError(msgFeedbackReviewMissing)
	}
	if err != nil {
		return Feedback{}, err
	}
	count, err := s.feedback.CountFeedbackForEmployee(ctx, review.EmployeeID)
	if err != nil {
		return Feedback{}, err
	}
	if err := s.enforceVolume(ctx, EntityFeedback, review.EmployeeID, count); err != nil {
		return Feedback{}, err
	}

	providerID := in.ProviderID
	if in.Anonymous {
		existing, err := s.feedback.CountFeedbackByType(ctx, review.ID, in.Type)
		if err != nil {
			return Feedback{}, err
		}
		if existing == 0 {
			s.logger.Warn("anonymous feedback is the only entry of its type and stays hidden until another arrives",
				"reviewId", review.ID, "feedbackType", in.Type)
		}
		providerID = s.anonymizer.Anonymize(in.ProviderID)
	}

	fb = Feedback{
		ID:          uuid.New(),
		ReviewID:    review.ID,
		ProviderID:  providerID,
		Type:        in.Type,
		Text:        strings.TrimSpace(in.Text),
		Anonymous:   in.Anonymous,
		SubmittedAt: s.clock(),
	}
	if err := s.feedback.CreateFeedback(ctx, fb); err != nil {
		return Feedback{}, err
	}
	return fb, nil
}

// GetReviewFeedback returns the aggregated feedback view for a review. Only
// the reviewed employee and the reviewer can see it; anyone else gets an
// empty result.
func (s *Service) GetReviewFeedback(ctx context.Context, reviewID, requesterID uuid.UUID) ([]FeedbackGroup, error) {
	review, err := s.loadReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if requesterID != review.EmployeeID && requesterID != review.ReviewerID {
		return []FeedbackGroup{}, nil
	}
	rows, err := s.feedback.ListFeedback(ctx, review.ID)
	if err != nil {
		return nil, err
	}
	return AggregateFeedback(rows), nil
}
