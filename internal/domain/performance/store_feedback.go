package performance

import (
	"context"

	"github.com/google/uuid"
)

func (s *Store) ListFeedback(ctx context.Context, reviewID uuid.UUID) ([]Feedback, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, performance_review_id, provider_id, feedback_type, feedback, is_anonymous, submitted_at
    FROM review_feedback
    WHERE performance_review_id = $1
    ORDER BY submitted_at DESC
  `, reviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Feedback
	for rows.Next() {
		var fb Feedback
		var feedbackType string
		if err := rows.Scan(&fb.ID, &fb.ReviewID, &fb.ProviderID, &feedbackType, &fb.Text, &fb.Anonymous, &fb.SubmittedAt); err != nil {
			return nil, err
		}
		fb.Type = FeedbackType(feedbackType)
		result = append(result, fb)
	}
	return result, rows.Err()
}

func (s *Store) CountFeedbackForEmployee(ctx context.Context, employeeID uuid.UUID) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM review_feedback f
    JOIN performance_reviews r ON r.id = f.performance_review_id
    WHERE r.employee_id = $1
  `, employeeID).Scan(&count)
	return count, err
}

func (s *Store) CountFeedbackByType(ctx context.Context, reviewID uuid.UUID, feedbackType FeedbackType) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM review_feedback WHERE performance_review_id = $1 AND feedback_type = $2
  `, reviewID, string(feedbackType)).Scan(&count)
	return count, err
}

func (s *Store) CreateFeedback(ctx context.Context, fb Feedback) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO review_feedback (id, performance_review_id, provider_id, feedback_type, feedback, is_anonymous, submitted_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, fb.ID, fb.ReviewID, fb.ProviderID, string(fb.Type), fb.Text, fb.Anonymous, fb.SubmittedAt)
	return err
}
