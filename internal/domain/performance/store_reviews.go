package performance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const reviewColumns = `id, employee_id, reviewer_id, review_cycle, review_period_start, review_period_end,
    COALESCE(self_assessment, ''), COALESCE(manager_assessment, ''), overall_rating, status,
    submitted_at, acknowledged_at, is_archived, created_at, updated_at`

func scanReview(row pgx.Row) (Review, error) {
	var review Review
	var cycle, status string
	var rating *int16
	if err := row.Scan(
		&review.ID,
		&review.EmployeeID,
		&review.ReviewerID,
		&cycle,
		&review.PeriodStart,
		&review.PeriodEnd,
		&review.SelfAssessment,
		&review.ManagerAssessment,
		&rating,
		&status,
		&review.SubmittedAt,
		&review.AcknowledgedAt,
		&review.Archived,
		&review.CreatedAt,
		&review.UpdatedAt,
	); err != nil {
		return Review{}, err
	}
	review.Cycle = ReviewCycle(cycle)
	review.Status = ReviewStatus(status)
	if rating != nil {
		value := Rating(*rating)
		review.OverallRating = &value
	}
	return review, nil
}

func collectReviews(rows pgx.Rows) ([]Review, error) {
	defer rows.Close()
	var reviews []Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func ratingValue(rating *Rating) any {
	if rating == nil {
		return nil
	}
	return int16(*rating)
}

func (s *Store) GetReview(ctx context.Context, id uuid.UUID) (Review, error) {
	review, err := scanReview(s.DB.QueryRow(ctx, "SELECT "+reviewColumns+" FROM performance_reviews WHERE id = $1", id))
	if err != nil {
		return Review{}, notFoundOr(err)
	}
	return review, nil
}

func (s *Store) ListReviews(ctx context.Context, employeeID uuid.UUID) ([]Review, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+reviewColumns+`
    FROM performance_reviews
    WHERE employee_id = $1
    ORDER BY review_period_start DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	return collectReviews(rows)
}

func (s *Store) ListReviewsByStatus(ctx context.Context, statuses ...ReviewStatus) ([]Review, error) {
	values := make([]string, len(statuses))
	for i, status := range statuses {
		values[i] = string(status)
	}
	rows, err := s.DB.Query(ctx, `
    SELECT `+reviewColumns+`
    FROM performance_reviews
    WHERE status = ANY($1) AND NOT is_archived
    ORDER BY review_period_start DESC
  `, values)
	if err != nil {
		return nil, err
	}
	return collectReviews(rows)
}

func (s *Store) ListReviewsCreatedBefore(ctx context.Context, cutoff time.Time) ([]Review, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+reviewColumns+`
    FROM performance_reviews
    WHERE created_at < $1 AND NOT is_archived
    ORDER BY created_at
  `, cutoff)
	if err != nil {
		return nil, err
	}
	return collectReviews(rows)
}

func (s *Store) CountReviews(ctx context.Context, employeeID uuid.UUID) (int, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM performance_reviews WHERE employee_id = $1", employeeID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) ExistsOverlappingReview(ctx context.Context, employeeID uuid.UUID, cycle ReviewCycle, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (
      SELECT 1 FROM performance_reviews
      WHERE employee_id = $1
        AND review_cycle = $2
        AND status <> $3
        AND review_period_start < $5
        AND $4 < review_period_end
        AND ($6::uuid IS NULL OR id <> $6)
    )
  `, employeeID, string(cycle), string(ReviewStatusCompleted), start, end, excludeID).Scan(&exists)
	return exists, err
}

func (s *Store) CreateReview(ctx context.Context, review Review) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO performance_reviews (id, employee_id, reviewer_id, review_cycle, review_period_start, review_period_end,
      self_assessment, manager_assessment, overall_rating, status, submitted_at, acknowledged_at, is_archived,
      created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
  `, review.ID, review.EmployeeID, review.ReviewerID, string(review.Cycle), review.PeriodStart, review.PeriodEnd,
		nullIfEmpty(review.SelfAssessment), nullIfEmpty(review.ManagerAssessment), ratingValue(review.OverallRating),
		string(review.Status), review.SubmittedAt, review.AcknowledgedAt, review.Archived, review.CreatedAt, review.UpdatedAt)
	return err
}

func (s *Store) UpdateReview(ctx context.Context, review Review) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE performance_reviews
    SET self_assessment = $2,
        manager_assessment = $3,
        overall_rating = $4,
        status = $5,
        submitted_at = $6,
        acknowledged_at = $7,
        is_archived = $8,
        updated_at = $9
    WHERE id = $1
  `, review.ID, nullIfEmpty(review.SelfAssessment), nullIfEmpty(review.ManagerAssessment), ratingValue(review.OverallRating),
		string(review.Status), review.SubmittedAt, review.AcknowledgedAt, review.Archived, review.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
