package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfsvc/internal/domain/performance"
	"perfsvc/internal/platform/employees"
)

type sentMail struct {
	from, to, subject string
}

type recordingMailer struct {
	sent []sentMail
	err  error
}

func (m *recordingMailer) Send(_ context.Context, from, to, subject, _ string) error {
	m.sent = append(m.sent, sentMail{from: from, to: to, subject: subject})
	return m.err
}

func TestCreatePersistsAndEmails(t *testing.T) {
	employee := uuid.New()
	store := NewMemoryStore()
	mailer := &recordingMailer{}
	dir := employees.NewStaticDirectory(employees.Employee{EmployeeID: employee, Email: "ada@example.com"})
	svc := New(store, WithMailer(mailer, dir, "perf@example.com"))

	goal := uuid.New()
	require.NoError(t, svc.GoalAtRisk(context.Background(), employee, goal))

	items, total, err := svc.List(context.Background(), employee, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, TypeGoalAtRisk, items[0].Type)
	assert.Equal(t, &goal, items[0].EntityID)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, sentMail{from: "perf@example.com", to: "ada@example.com", subject: "Goal at risk"}, mailer.sent[0])
}

func TestEmailFailureIsSwallowed(t *testing.T) {
	employee := uuid.New()
	mailer := &recordingMailer{err: errors.New("smtp down")}
	dir := employees.NewStaticDirectory(employees.Employee{EmployeeID: employee, Email: "ada@example.com"})
	svc := New(NewMemoryStore(), WithMailer(mailer, dir, ""))

	err := svc.ReviewReminder(context.Background(), employee, uuid.New(), performance.ReminderSelfAssessment)
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Self-assessment due", mailer.sent[0].subject)
}

func TestMarkReadScopedToOwner(t *testing.T) {
	owner := uuid.New()
	svc := New(NewMemoryStore(), WithClock(func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }))
	require.NoError(t, svc.PIPCheckInReminder(context.Background(), owner, uuid.New(), time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)))

	items, _, err := svc.List(context.Background(), owner, 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Contains(t, items[0].Body, "2026-03-02")

	err = svc.MarkRead(context.Background(), uuid.New(), items[0].ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.MarkRead(context.Background(), owner, items[0].ID))
	items, _, err = svc.List(context.Background(), owner, 10, 0)
	require.NoError(t, err)
	assert.NotNil(t, items[0].ReadAt)
}
