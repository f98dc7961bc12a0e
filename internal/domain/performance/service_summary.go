package performance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func (s *Service) Summary(ctx context.Context, employeeID uuid.UUID) (PerformanceSummary, error) {
	var goals []Goal
	var cursor *uuid.UUID
	for {
		page, err := s.goals.ListGoals(ctx, employeeID, cursor, maxGoalPageSize)
		if err != nil {
			return PerformanceSummary{}, err
		}
		goals = append(goals, page...)
		if len(page) < maxGoalPageSize {
			break
		}
		last := page[len(page)-1].ID
		cursor = &last
	}
	reviews, err := s.reviews.ListReviews(ctx, employeeID)
	if err != nil {
		return PerformanceSummary{}, err
	}
	pip, active, err := s.pips.ActivePIP(ctx, employeeID)
	if err != nil {
		return PerformanceSummary{}, err
	}

	summary := buildPerformanceSummary(goals, reviews)
	summary.EmployeeID = employeeID
	if active {
		summary.ActivePIP = &pip.ID
	}
	return summary, nil
}

func buildPerformanceSummary(goals []Goal, reviews []Review) PerformanceSummary {
	summary := PerformanceSummary{
		GoalsTotal:         len(goals),
		ReviewsTotal:       len(reviews),
		RatingDistribution: map[string]int{},
	}
	for _, goal := range goals {
		switch goal.Status {
		case GoalStatusCompleted:
			summary.GoalsCompleted++
		case GoalStatusAtRisk:
			summary.GoalsAtRisk++
		}
	}
	for _, review := range reviews {
		if review.Status == ReviewStatusAcknowledged || review.Status == ReviewStatusCompleted {
			summary.ReviewsClosed++
		}
		if review.OverallRating != nil {
			summary.RatingDistribution[fmt.Sprintf("%d", int(*review.OverallRating))]++
		}
	}
	if summary.ReviewsTotal > 0 {
		summary.ReviewClosureRate = float64(summary.ReviewsClosed) / float64(summary.ReviewsTotal)
	}
	return summary
}
