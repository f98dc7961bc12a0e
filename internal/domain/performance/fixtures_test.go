package performance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

type directory map[uuid.UUID]bool

func (d directory) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return d[id], nil
}

type volumeWarning struct {
	employee uuid.UUID
	entity   EntityKind
	count    int
	limit    int
}

type sentReminder struct {
	recipient uuid.UUID
	entity    uuid.UUID
	kind      ReminderType
}

type recordingNotifier struct {
	mu        sync.Mutex
	atRisk    []uuid.UUID
	warnings  []volumeWarning
	reminders []sentReminder
	checkIns  []uuid.UUID
	err       error
}

func (n *recordingNotifier) GoalAtRisk(_ context.Context, _, goalID uuid.UUID) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.atRisk = append(n.atRisk, goalID)
	return n.err
}

func (n *recordingNotifier) DataVolumeWarning(_ context.Context, employeeID uuid.UUID, entity EntityKind, count, limit int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.warnings = append(n.warnings, volumeWarning{employee: employeeID, entity: entity, count: count, limit: limit})
	return n.err
}

func (n *recordingNotifier) ReviewReminder(_ context.Context, employeeID, reviewID uuid.UUID, kind ReminderType) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reminders = append(n.reminders, sentReminder{recipient: employeeID, entity: reviewID, kind: kind})
	return n.err
}

func (n *recordingNotifier) PIPCheckInReminder(_ context.Context, _, pipID uuid.UUID, _ time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.checkIns = append(n.checkIns, pipID)
	return n.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.events))
	for _, event := range p.events {
		names = append(names, event.EventName())
	}
	return names
}

type recordingMetrics struct {
	transitions []string
	warnings    []EntityKind
	rejections  []EntityKind
}

func (m *recordingMetrics) Transition(entity, from, to string) {
	m.transitions = append(m.transitions, entity+":"+from+"->"+to)
}

func (m *recordingMetrics) VolumeWarning(entity EntityKind)  { m.warnings = append(m.warnings, entity) }
func (m *recordingMetrics) VolumeRejected(entity EntityKind) { m.rejections = append(m.rejections, entity) }

type harness struct {
	svc       *Service
	store     *MemoryStore
	notifier  *recordingNotifier
	publisher *recordingPublisher
	metrics   *recordingMetrics
	employee  uuid.UUID
	manager   uuid.UUID
	now       time.Time
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		store:     NewMemoryStore(),
		notifier:  &recordingNotifier{},
		publisher: &recordingPublisher{},
		metrics:   &recordingMetrics{},
		employee:  uuid.New(),
		manager:   uuid.New(),
		now:       fixedNow,
	}
	base := []Option{
		WithNotifier(h.notifier),
		WithPublisher(h.publisher),
		WithMetrics(h.metrics),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time { return h.now }),
	}
	svc, err := NewService(h.store.Stores(), directory{h.employee: true, h.manager: true}, append(base, opts...)...)
	require.NoError(t, err)
	h.svc = svc
	return h
}

func (h *harness) createGoal(t *testing.T) Goal {
	t.Helper()
	goal, err := h.svc.CreateGoal(context.Background(), CreateGoalInput{
		EmployeeID:           h.employee,
		Description:          "Ship the onboarding revamp",
		SuccessCriteria:      "New hires productive in week one",
		TargetCompletionDate: h.now.AddDate(0, 3, 0),
	})
	require.NoError(t, err)
	return goal
}

func (h *harness) createReview(t *testing.T, start time.Time) Review {
	t.Helper()
	review, err := h.svc.CreateReview(context.Background(), CreateReviewInput{
		EmployeeID:  h.employee,
		ReviewerID:  h.manager,
		Cycle:       ReviewCycleQuarterly,
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, 3, -1),
	})
	require.NoError(t, err)
	return review
}

func (h *harness) createPIP(t *testing.T) PIP {
	t.Helper()
	pip, err := h.svc.CreatePIP(context.Background(), CreatePIPInput{
		EmployeeID:       h.employee,
		InitiatorID:      h.manager,
		StartDate:        h.now,
		EndDate:          h.now.AddDate(0, 0, 60),
		Reason:           "Missed delivery commitments",
		ImprovementAreas: "Planning",
		SuccessCriteria:  "Deliver two sprints on time",
	})
	require.NoError(t, err)
	return pip
}

// requireKind asserts err is a command failure of kind carrying message.
func requireKind(t *testing.T, err error, kind error, message string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, kind), "expected %v, got %v", kind, err)
	if message != "" {
		require.Equal(t, message, Message(err))
	}
}
