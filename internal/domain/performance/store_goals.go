package performance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const goalColumns = `id, employee_id, performance_review_id, description, COALESCE(success_criteria, ''),
    target_completion_date, current_status, COALESCE(progress_updates, ''), completion_date, created_at, updated_at`

func scanGoal(row pgx.Row) (Goal, error) {
	var goal Goal
	var status string
	if err := row.Scan(
		&goal.ID,
		&goal.EmployeeID,
		&goal.ReviewID,
		&goal.Description,
		&goal.SuccessCriteria,
		&goal.TargetCompletionDate,
		&status,
		&goal.ProgressUpdates,
		&goal.CompletionDate,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	); err != nil {
		return Goal{}, err
	}
	goal.Status = GoalStatus(status)
	return goal, nil
}

func (s *Store) GetGoal(ctx context.Context, id uuid.UUID) (Goal, error) {
	goal, err := scanGoal(s.DB.QueryRow(ctx, "SELECT "+goalColumns+" FROM goals WHERE id = $1", id))
	if err != nil {
		return Goal{}, notFoundOr(err)
	}
	return goal, nil
}

func (s *Store) ListGoals(ctx context.Context, employeeID uuid.UUID, after *uuid.UUID, limit int) ([]Goal, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+goalColumns+`
    FROM goals
    WHERE employee_id = $1 AND ($2::uuid IS NULL OR id > $2)
    ORDER BY id
    LIMIT $3
  `, employeeID, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

func (s *Store) CountGoals(ctx context.Context, employeeID uuid.UUID) (int, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM goals WHERE employee_id = $1", employeeID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) CreateGoal(ctx context.Context, goal Goal) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO goals (id, employee_id, performance_review_id, description, success_criteria,
      target_completion_date, current_status, progress_updates, completion_date, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
  `, goal.ID, goal.EmployeeID, goal.ReviewID, goal.Description, nullIfEmpty(goal.SuccessCriteria),
		goal.TargetCompletionDate, string(goal.Status), nullIfEmpty(goal.ProgressUpdates), goal.CompletionDate,
		goal.CreatedAt, goal.UpdatedAt)
	return err
}

func (s *Store) UpdateGoal(ctx context.Context, goal Goal) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE goals
    SET performance_review_id = $2,
        description = $3,
        success_criteria = $4,
        target_completion_date = $5,
        current_status = $6,
        progress_updates = $7,
        completion_date = $8,
        updated_at = $9
    WHERE id = $1
  `, goal.ID, goal.ReviewID, goal.Description, nullIfEmpty(goal.SuccessCriteria), goal.TargetCompletionDate,
		string(goal.Status), nullIfEmpty(goal.ProgressUpdates), goal.CompletionDate, goal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
