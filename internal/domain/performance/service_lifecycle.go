package performance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TerminationResult struct {
	ReviewsClosed int        `json:"reviewsClosed"`
	PIPTerminated *uuid.UUID `json:"pipTerminated,omitempty"`
}

type SweepResult struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// HandleEmployeeTerminated closes every open review of a departing employee
// and terminates their open PIP as unsuccessful.
func (s *Service) HandleEmployeeTerminated(ctx context.Context, employeeID uuid.UUID) (result TerminationResult, err error) {
	ctx, span := s.startSpan(ctx, "HandleEmployeeTerminated")
	defer func() { endSpan(span, err) }()

	reviews, err := s.reviews.ListReviews(ctx, employeeID)
	if err != nil {
		return result, fmt.Errorf("list reviews: %w", err)
	}
	now := s.clock()
	for _, review := range reviews {
		if review.Status == ReviewStatusCompleted {
			continue
		}
		previous := review.Status
		review.Status = ReviewStatusCompleted
		review.UpdatedAt = now
		if err := s.reviews.UpdateReview(ctx, review); err != nil {
			return result, fmt.Errorf("close review %s: %w", review.ID, err)
		}
		s.metrics.Transition("review", string(previous), string(ReviewStatusCompleted))
		result.ReviewsClosed++
	}

	pip, active, err := s.pips.ActivePIP(ctx, employeeID)
	if err != nil {
		return result, fmt.Errorf("active pip: %w", err)
	}
	if active {
		closed, err := s.closePIP(ctx, pip, PIPOutcomeUnsuccessful, now)
		if err != nil {
			return result, fmt.Errorf("terminate pip %s: %w", pip.ID, err)
		}
		result.PIPTerminated = &closed.ID
	}
	s.logger.Info("employee termination processed", "employeeId", employeeID, "reviewsClosed", result.ReviewsClosed, "pipTerminated", active)
	return result, nil
}

// SendReviewReminders nudges whoever owns the next step of each pending
// review: the employee for a self-assessment, the reviewer otherwise.
func (s *Service) SendReviewReminders(ctx context.Context) (SweepResult, error) {
	reviews, err := s.reviews.ListReviewsByStatus(ctx, ReviewStatusSelfAssessmentPending, ReviewStatusManagerReviewPending)
	if err != nil {
		return SweepResult{}, err
	}
	var result SweepResult
	for _, review := range reviews {
		recipient, reminder := review.EmployeeID, ReminderSelfAssessment
		if review.Status == ReviewStatusManagerReviewPending {
			recipient, reminder = review.ReviewerID, ReminderManagerReview
		}
		if err := s.notifier.ReviewReminder(ctx, recipient, review.ID, reminder); err != nil {
			s.logger.Warn("review reminder failed", "reviewId", review.ID, "err", err)
			result.Failed++
			continue
		}
		result.Processed++
	}
	return result, nil
}

func (s *Service) SendPIPCheckInReminders(ctx context.Context) (SweepResult, error) {
	pips, err := s.pips.ListOpenPIPs(ctx)
	if err != nil {
		return SweepResult{}, err
	}
	now := s.clock()
	var result SweepResult
	for _, pip := range pips {
		if err := s.notifier.PIPCheckInReminder(ctx, pip.EmployeeID, pip.ID, now); err != nil {
			s.logger.Warn("pip check-in reminder failed", "pipId", pip.ID, "err", err)
			result.Failed++
			continue
		}
		result.Processed++
	}
	return result, nil
}

// ArchiveReviews flags reviews created more than retention ago.
func (s *Service) ArchiveReviews(ctx context.Context, retention time.Duration) (SweepResult, error) {
	cutoff := s.clock().Add(-retention)
	reviews, err := s.reviews.ListReviewsCreatedBefore(ctx, cutoff)
	if err != nil {
		return SweepResult{}, err
	}
	now := s.clock()
	var result SweepResult
	for _, review := range reviews {
		if review.Archived {
			continue
		}
		review.Archived = true
		review.UpdatedAt = now
		if err := s.reviews.UpdateReview(ctx, review); err != nil {
			s.logger.Warn("review archive failed", "reviewId", review.ID, "err", err)
			result.Failed++
			continue
		}
		result.Processed++
	}
	return result, nil
}
