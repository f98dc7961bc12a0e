package performance

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateReviewInput struct {
	EmployeeID     uuid.UUID
	ReviewerID     uuid.UUID
	Cycle          ReviewCycle
	PeriodStart    time.Time
	PeriodEnd      time.Time
	SelfAssessment string
}

// UpdateReviewInput carries a draft edit. Nil text fields are left as they
// are; SubmitSelfAssessment moves the review to SelfAssessmentPending.
type UpdateReviewInput struct {
	SelfAssessment       *string
	ManagerAssessment    *string
	SubmitSelfAssessment bool
}

func (s *Service) CreateReview(ctx context.Context, in CreateReviewInput) (review Review, err error) {
	ctx, span := s.startSpan(ctx, "CreateReview")
	defer func() { endSpan(span, err) }()

	if !in.Cycle.Valid() {
		return Review{}, validationError("Unknown review cycle.")
	}
	if !in.PeriodStart.Before(in.PeriodEnd) {
		return Review{}, validationError(msgReviewPeriod)
	}
	if err := s.requireEmployee(ctx, in.EmployeeID); err != nil {
		return Review{}, err
	}
	overlapping, err := s.reviews.ExistsOverlappingReview(ctx, in.EmployeeID, in.Cycle, in.PeriodStart, in.PeriodEnd, nil)
	if err != nil {
		return Review{}, err
	}
	if overlapping {
		return Review{}, conflictError(msgReviewOverlap)
	}
	count, err := s.reviews.CountReviews(ctx, in.EmployeeID)
	if err != nil {
		return Review{}, err
	}
	if err := s.enforceVolume(ctx, EntityReview, in.EmployeeID, count); err != nil {
		return Review{}, err
	}

	now := s.clock()
	review = Review{
		ID:             uuid.New(),
		EmployeeID:     in.EmployeeID,
		ReviewerID:     in.ReviewerID,
		Cycle:          in.Cycle,
		PeriodStart:    in.PeriodStart.UTC(),
		PeriodEnd:      in.PeriodEnd.UTC(),
		SelfAssessment: strings.TrimSpace(in.SelfAssessment),
		Status:         ReviewStatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.reviews.CreateReview(ctx, review); err != nil {
		return Review{}, err
	}
	s.publish(ctx, ReviewCreatedEvent{
		ReviewID:    review.ID,
		EmployeeID:  review.EmployeeID,
		ReviewerID:  review.ReviewerID,
		Cycle:       review.Cycle,
		PeriodStart: review.PeriodStart,
		PeriodEnd:   review.PeriodEnd,
	})
	return review, nil
}

func (s *Service) GetReview(ctx context.Context, reviewID uuid.UUID) (Review, error) {
	return s.loadReview(ctx, reviewID)
}

func (s *Service) ListReviews(ctx context.Context, employeeID uuid.UUID) ([]Review, error) {
	reviews, err := s.reviews.ListReviews(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []Review{}
	}
	return reviews, nil
}

func (s *Service) UpdateReviewDraft(ctx context.Context, reviewID uuid.UUID, in UpdateReviewInput) (review Review, err error) {
	ctx, span := s.startSpan(ctx, "UpdateReviewDraft")
	defer func() { endSpan(span, err) }()

	review, err = s.loadReview(ctx, reviewID)
	if err != nil {
		return Review{}, err
	}
	if in.SelfAssessment != nil {
		review.SelfAssessment = strings.TrimSpace(*in.SelfAssessment)
	}
	if in.ManagerAssessment != nil {
		review.ManagerAssessment = strings.TrimSpace(*in.ManagerAssessment)
	}

	now := s.clock()
	previous := review.Status
	if in.SubmitSelfAssessment {
		if blank(review.SelfAssessment) {
			return Review{}, conflictError(msgSelfAssessment)
		}
		if err := ValidateReviewTransition(review.Status, ReviewStatusSelfAssessmentPending); err != nil {
			return Review{}, err
		}
		review.Status = ReviewStatusSelfAssessmentPending
		review.SubmittedAt = &now
	}
	review.UpdatedAt = now
	if err := s.reviews.UpdateReview(ctx, review); err != nil {
		return Review{}, err
	}
	if previous != review.Status {
		s.metrics.Transition("review", string(previous), string(review.Status))
	}
	return review, nil
}

func (s *Service) SubmitManagerReview(ctx context.Context, reviewID uuid.UUID, assessment string, rating Rating) (review Review, err error) {
	ctx, span := s.startSpan(ctx, "SubmitManagerReview")
	defer func() { endSpan(span, err) }()

	review, err = s.loadReview(ctx, reviewID)
	if err != nil {
		return Review{}, err
	}
	if review.Status != ReviewStatusSelfAssessmentPending {
		return Review{}, conflictError(msgManagerSubmitState)
	}
	if !rating.Valid() {
		return Review{}, validationError(msgRatingRange)
	}

	review.ManagerAssessment = strings.TrimSpace(assessment)
	review.OverallRating = &rating
	review.Status = ReviewStatusSubmitted
	review.UpdatedAt = s.clock()
	if err := s.reviews.UpdateReview(ctx, review); err != nil {
		return Review{}, err
	}
	s.metrics.Transition("review", string(ReviewStatusSelfAssessmentPending), string(ReviewStatusSubmitted))
	return review, nil
}

func (s *Service) AcknowledgeReview(ctx context.Context, reviewID, requesterID uuid.UUID) (review Review, err error) {
	ctx, span := s.startSpan(ctx, "AcknowledgeReview")
	defer func() { endSpan(span, err) }()

	review, err = s.loadReview(ctx, reviewID)
	if err != nil {
		return Review{}, err
	}
	if review.EmployeeID != requesterID {
		return Review{}, conflictError(msgAcknowledgeRequester)
	}
	if review.Status != ReviewStatusSubmitted {
		return Review{}, conflictError(msgAcknowledgeState)
	}

	now := s.clock()
	review.AcknowledgedAt = &now
	review.Status = ReviewStatusAcknowledged
	review.UpdatedAt = now
	if err := s.reviews.UpdateReview(ctx, review); err != nil {
		return Review{}, err
	}
	s.metrics.Transition("review", string(ReviewStatusSubmitted), string(ReviewStatusAcknowledged))
	s.publish(ctx, ReviewAcknowledgedEvent{
		ReviewID:         review.ID,
		EmployeeID:       review.EmployeeID,
		OverallRating:    review.OverallRating,
		AcknowledgedDate: now,
	})
	return review, nil
}

func (s *Service) loadReview(ctx context.Context, reviewID uuid.UUID) (Review, error) {
	review, err := s.reviews.GetReview(ctx, reviewID)
	if errors.Is(err, ErrNotFound) {
		return Review{}, notFoundError(msgReviewNotFound)
	}
	return review, err
}
