package notifications

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("notification not found")

type StoreAPI interface {
	CreateNotification(ctx context.Context, n Notification) error
	ListNotifications(ctx context.Context, employeeID uuid.UUID, limit, offset int) ([]Notification, error)
	CountNotifications(ctx context.Context, employeeID uuid.UUID) (int, error)
	// MarkRead returns ErrNotFound when the notification does not belong to
	// the employee.
	MarkRead(ctx context.Context, employeeID, notificationID uuid.UUID) error
}
