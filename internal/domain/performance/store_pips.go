package performance

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const pipColumns = `id, employee_id, initiator_id, start_date, end_date, reason, improvement_areas, success_criteria,
    COALESCE(check_in_notes, ''), status, outcome, extension_count, created_at, updated_at`

func scanPIP(row pgx.Row) (PIP, error) {
	var pip PIP
	var status string
	var outcome *string
	if err := row.Scan(
		&pip.ID,
		&pip.EmployeeID,
		&pip.InitiatorID,
		&pip.StartDate,
		&pip.EndDate,
		&pip.Reason,
		&pip.ImprovementAreas,
		&pip.SuccessCriteria,
		&pip.CheckInNotes,
		&status,
		&outcome,
		&pip.ExtensionCount,
		&pip.CreatedAt,
		&pip.UpdatedAt,
	); err != nil {
		return PIP{}, err
	}
	pip.Status = PIPStatus(status)
	if outcome != nil {
		value := PIPOutcome(*outcome)
		pip.Outcome = &value
	}
	return pip, nil
}

func collectPIPs(rows pgx.Rows) ([]PIP, error) {
	defer rows.Close()
	var pips []PIP
	for rows.Next() {
		pip, err := scanPIP(rows)
		if err != nil {
			return nil, err
		}
		pips = append(pips, pip)
	}
	return pips, rows.Err()
}

func outcomeValue(outcome *PIPOutcome) any {
	if outcome == nil {
		return nil
	}
	return string(*outcome)
}

func (s *Store) GetPIP(ctx context.Context, id uuid.UUID) (PIP, error) {
	pip, err := scanPIP(s.DB.QueryRow(ctx, "SELECT "+pipColumns+" FROM pips WHERE id = $1", id))
	if err != nil {
		return PIP{}, notFoundOr(err)
	}
	return pip, nil
}

func (s *Store) ListPIPs(ctx context.Context, employeeID uuid.UUID) ([]PIP, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+pipColumns+" FROM pips WHERE employee_id = $1 ORDER BY start_date DESC", employeeID)
	if err != nil {
		return nil, err
	}
	return collectPIPs(rows)
}

func (s *Store) ListOpenPIPs(ctx context.Context) ([]PIP, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+pipColumns+" FROM pips WHERE status IN ($1, $2) ORDER BY end_date",
		string(PIPStatusActive), string(PIPStatusExtended))
	if err != nil {
		return nil, err
	}
	return collectPIPs(rows)
}

func (s *Store) ActivePIP(ctx context.Context, employeeID uuid.UUID) (PIP, bool, error) {
	pip, err := scanPIP(s.DB.QueryRow(ctx, `
    SELECT `+pipColumns+`
    FROM pips
    WHERE employee_id = $1 AND status IN ($2, $3)
    LIMIT 1
  `, employeeID, string(PIPStatusActive), string(PIPStatusExtended)))
	if errors.Is(err, pgx.ErrNoRows) {
		return PIP{}, false, nil
	}
	if err != nil {
		return PIP{}, false, err
	}
	return pip, true, nil
}

// CreatePIP relies on the pips_one_open_per_employee partial unique index
// to reject a second open plan written concurrently.
func (s *Store) CreatePIP(ctx context.Context, pip PIP) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO pips (id, employee_id, initiator_id, start_date, end_date, reason, improvement_areas,
      success_criteria, check_in_notes, status, outcome, extension_count, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
  `, pip.ID, pip.EmployeeID, pip.InitiatorID, pip.StartDate, pip.EndDate, pip.Reason, pip.ImprovementAreas,
		pip.SuccessCriteria, nullIfEmpty(pip.CheckInNotes), string(pip.Status), outcomeValue(pip.Outcome),
		pip.ExtensionCount, pip.CreatedAt, pip.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("create pip: %w", ErrStateConflict)
	}
	return err
}

func (s *Store) UpdatePIP(ctx context.Context, pip PIP) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE pips
    SET end_date = $2,
        improvement_areas = $3,
        success_criteria = $4,
        check_in_notes = $5,
        status = $6,
        outcome = $7,
        extension_count = $8,
        updated_at = $9
    WHERE id = $1
  `, pip.ID, pip.EndDate, pip.ImprovementAreas, pip.SuccessCriteria, nullIfEmpty(pip.CheckInNotes),
		string(pip.Status), outcomeValue(pip.Outcome), pip.ExtensionCount, pip.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update pip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
