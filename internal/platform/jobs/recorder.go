package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"perfsvc/internal/platform/querier"
)

const (
	statusRunning   = "running"
	statusCompleted = "completed"
	statusFailed    = "failed"
)

// Recorder persists one row per job run.
type Recorder interface {
	Start(ctx context.Context, jobType string) (uuid.UUID, error)
	Finish(ctx context.Context, runID uuid.UUID, status string, details []byte) error
}

type DBRecorder struct {
	DB querier.Querier
}

func NewDBRecorder(db querier.Querier) *DBRecorder {
	return &DBRecorder{DB: db}
}

func (r *DBRecorder) Start(ctx context.Context, jobType string) (uuid.UUID, error) {
	var runID uuid.UUID
	err := r.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id
  `, jobType, statusRunning).Scan(&runID)
	return runID, err
}

func (r *DBRecorder) Finish(ctx context.Context, runID uuid.UUID, status string, details []byte) error {
	_, err := r.DB.Exec(ctx, `
    UPDATE job_runs
    SET status = $1, details_json = $2, completed_at = now()
    WHERE id = $3
  `, status, details, runID)
	return err
}

type Run struct {
	ID          uuid.UUID
	JobType     string
	Status      string
	Details     []byte
	StartedAt   time.Time
	CompletedAt *time.Time
}

type MemoryRecorder struct {
	mu   sync.Mutex
	runs []Run
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (r *MemoryRecorder) Start(_ context.Context, jobType string) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run := Run{ID: uuid.New(), JobType: jobType, Status: statusRunning, StartedAt: time.Now().UTC()}
	r.runs = append(r.runs, run)
	return run.ID, nil
}

func (r *MemoryRecorder) Finish(_ context.Context, runID uuid.UUID, status string, details []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.runs {
		if r.runs[i].ID == runID {
			now := time.Now().UTC()
			r.runs[i].Status = status
			r.runs[i].Details = details
			r.runs[i].CompletedAt = &now
			return nil
		}
	}
	return nil
}

func (r *MemoryRecorder) Runs() []Run {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Run(nil), r.runs...)
}
