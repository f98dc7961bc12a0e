package performance

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps every entity in maps guarded by one lock. It satisfies
// all four store interfaces and is used for tests and local runs.
type MemoryStore struct {
	mu       sync.RWMutex
	goals    map[uuid.UUID]Goal
	reviews  map[uuid.UUID]Review
	pips     map[uuid.UUID]PIP
	feedback map[uuid.UUID]Feedback
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		goals:    map[uuid.UUID]Goal{},
		reviews:  map[uuid.UUID]Review{},
		pips:     map[uuid.UUID]PIP{},
		feedback: map[uuid.UUID]Feedback{},
	}
}

func (m *MemoryStore) Stores() Stores {
	return Stores{Goals: m, Reviews: m, PIPs: m, Feedback: m}
}

func (m *MemoryStore) GetGoal(_ context.Context, id uuid.UUID) (Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	goal, ok := m.goals[id]
	if !ok {
		return Goal{}, ErrNotFound
	}
	return goal, nil
}

func (m *MemoryStore) ListGoals(_ context.Context, employeeID uuid.UUID, after *uuid.UUID, limit int) ([]Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var goals []Goal
	for _, goal := range m.goals {
		if goal.EmployeeID != employeeID {
			continue
		}
		if after != nil && bytes.Compare(goal.ID[:], after[:]) <= 0 {
			continue
		}
		goals = append(goals, goal)
	}
	sort.Slice(goals, func(i, j int) bool {
		return bytes.Compare(goals[i].ID[:], goals[j].ID[:]) < 0
	})
	if limit > 0 && len(goals) > limit {
		goals = goals[:limit]
	}
	return goals, nil
}

func (m *MemoryStore) CountGoals(_ context.Context, employeeID uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, goal := range m.goals {
		if goal.EmployeeID == employeeID {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) CreateGoal(_ context.Context, goal Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals[goal.ID] = goal
	return nil
}

func (m *MemoryStore) UpdateGoal(_ context.Context, goal Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.goals[goal.ID]; !ok {
		return ErrNotFound
	}
	m.goals[goal.ID] = goal
	return nil
}

func (m *MemoryStore) GetReview(_ context.Context, id uuid.UUID) (Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	review, ok := m.reviews[id]
	if !ok {
		return Review{}, ErrNotFound
	}
	return review, nil
}

func (m *MemoryStore) ListReviews(_ context.Context, employeeID uuid.UUID) ([]Review, error) {
	return m.filterReviews(func(r Review) bool { return r.EmployeeID == employeeID }), nil
}

func (m *MemoryStore) ListReviewsByStatus(_ context.Context, statuses ...ReviewStatus) ([]Review, error) {
	return m.filterReviews(func(r Review) bool { return !r.Archived && contains(statuses, r.Status) }), nil
}

func (m *MemoryStore) ListReviewsCreatedBefore(_ context.Context, cutoff time.Time) ([]Review, error) {
	return m.filterReviews(func(r Review) bool { return !r.Archived && r.CreatedAt.Before(cutoff) }), nil
}

func (m *MemoryStore) filterReviews(keep func(Review) bool) []Review {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var reviews []Review
	for _, review := range m.reviews {
		if keep(review) {
			reviews = append(reviews, review)
		}
	}
	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].PeriodStart.After(reviews[j].PeriodStart)
	})
	return reviews
}

func (m *MemoryStore) CountReviews(_ context.Context, employeeID uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, review := range m.reviews {
		if review.EmployeeID == employeeID {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) ExistsOverlappingReview(_ context.Context, employeeID uuid.UUID, cycle ReviewCycle, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, review := range m.reviews {
		if review.EmployeeID != employeeID || review.Cycle != cycle || review.Status == ReviewStatusCompleted {
			continue
		}
		if excludeID != nil && review.ID == *excludeID {
			continue
		}
		if review.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) CreateReview(_ context.Context, review Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews[review.ID] = review
	return nil
}

func (m *MemoryStore) UpdateReview(_ context.Context, review Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[review.ID]; !ok {
		return ErrNotFound
	}
	m.reviews[review.ID] = review
	return nil
}

func (m *MemoryStore) GetPIP(_ context.Context, id uuid.UUID) (PIP, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pip, ok := m.pips[id]
	if !ok {
		return PIP{}, ErrNotFound
	}
	return pip, nil
}

func (m *MemoryStore) ListPIPs(_ context.Context, employeeID uuid.UUID) ([]PIP, error) {
	return m.filterPIPs(func(p PIP) bool { return p.EmployeeID == employeeID }), nil
}

func (m *MemoryStore) ListOpenPIPs(_ context.Context) ([]PIP, error) {
	return m.filterPIPs(func(p PIP) bool { return p.Status.Open() }), nil
}

func (m *MemoryStore) filterPIPs(keep func(PIP) bool) []PIP {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var pips []PIP
	for _, pip := range m.pips {
		if keep(pip) {
			pips = append(pips, pip)
		}
	}
	sort.Slice(pips, func(i, j int) bool {
		return pips[i].StartDate.After(pips[j].StartDate)
	})
	return pips
}

func (m *MemoryStore) ActivePIP(_ context.Context, employeeID uuid.UUID) (PIP, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pip, ok := m.activePIPLocked(employeeID)
	return pip, ok, nil
}

func (m *MemoryStore) activePIPLocked(employeeID uuid.UUID) (PIP, bool) {
	for _, pip := range m.pips {
		if pip.EmployeeID == employeeID && pip.Status.Open() {
			return pip, true
		}
	}
	return PIP{}, false
}

func (m *MemoryStore) CreatePIP(_ context.Context, pip PIP) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.activePIPLocked(pip.EmployeeID); exists {
		return ErrStateConflict
	}
	m.pips[pip.ID] = pip
	return nil
}

func (m *MemoryStore) UpdatePIP(_ context.Context, pip PIP) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pips[pip.ID]; !ok {
		return ErrNotFound
	}
	m.pips[pip.ID] = pip
	return nil
}

func (m *MemoryStore) ListFeedback(_ context.Context, reviewID uuid.UUID) ([]Feedback, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rows []Feedback
	for _, fb := range m.feedback {
		if fb.ReviewID == reviewID {
			rows = append(rows, fb)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].SubmittedAt.After(rows[j].SubmittedAt)
	})
	return rows, nil
}

func (m *MemoryStore) CountFeedbackForEmployee(_ context.Context, employeeID uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, fb := range m.feedback {
		if review, ok := m.reviews[fb.ReviewID]; ok && review.EmployeeID == employeeID {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) CountFeedbackByType(_ context.Context, reviewID uuid.UUID, feedbackType FeedbackType) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, fb := range m.feedback {
		if fb.ReviewID == reviewID && fb.Type == feedbackType {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) CreateFeedback(_ context.Context, fb Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedback[fb.ID] = fb
	return nil
}

var (
	_ GoalStore     = (*MemoryStore)(nil)
	_ ReviewStore   = (*MemoryStore)(nil)
	_ PIPStore      = (*MemoryStore)(nil)
	_ FeedbackStore = (*MemoryStore)(nil)
)
