package performance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Limit caps one collection per employee. Creation is refused once the
// existing count reaches Max; a warning is sent once it reaches Warn.
type Limit struct {
	Max  int
	Warn int
}

type Limits struct {
	Goals    Limit
	Reviews  Limit
	Feedback Limit
}

func DefaultLimits() Limits {
	return Limits{
		Goals:    Limit{Max: 100, Warn: 80},
		Reviews:  Limit{Max: 50, Warn: 40},
		Feedback: Limit{Max: 200, Warn: 160},
	}
}

func (l Limits) For(kind EntityKind) Limit {
	switch kind {
	case EntityGoal:
		return l.Goals
	case EntityReview:
		return l.Reviews
	case EntityFeedback:
		return l.Feedback
	}
	return Limit{}
}

func (l Limits) Validate() error {
	for _, kind := range []EntityKind{EntityGoal, EntityReview, EntityFeedback} {
		limit := l.For(kind)
		if limit.Max <= 0 {
			return fmt.Errorf("%s limit must be positive", kind)
		}
		if limit.Warn <= 0 || limit.Warn > limit.Max {
			return fmt.Errorf("%s warning threshold must be between 1 and %d", kind, limit.Max)
		}
	}
	return nil
}

type VolumeDecision struct {
	Allowed bool
	Warn    bool
}

// EvaluateVolume decides whether one more record may be created when count
// records already exist.
func EvaluateVolume(count int, limit Limit) VolumeDecision {
	if count >= limit.Max {
		return VolumeDecision{Allowed: false}
	}
	return VolumeDecision{Allowed: true, Warn: count >= limit.Warn}
}

func limitMessage(kind EntityKind, max int) string {
	noun := "records"
	switch kind {
	case EntityGoal:
		noun = "goals"
	case EntityReview:
		noun = "reviews"
	case EntityFeedback:
		noun = "feedback entries"
	}
	return fmt.Sprintf("DATA_VOLUME_LIMIT_REACHED: Maximum of %d %s per employee.", max, noun)
}

// enforceVolume applies the limit for kind to an employee whose current
// record count is count. The warning notification is best effort.
func (s *Service) enforceVolume(ctx context.Context, kind EntityKind, employeeID uuid.UUID, count int) error {
	limit := s.limits.For(kind)
	decision := EvaluateVolume(count, limit)
	if !decision.Allowed {
		s.metrics.VolumeRejected(kind)
		s.logger.Warn("data volume limit reached", "entity", kind, "employeeId", employeeID, "count", count, "limit", limit.Max)
		return quotaError(limitMessage(kind, limit.Max))
	}
	if decision.Warn {
		s.metrics.VolumeWarning(kind)
		if err := s.notifier.DataVolumeWarning(ctx, employeeID, kind, count, limit.Max); err != nil {
			s.logger.Warn("data volume warning failed", "entity", kind, "employeeId", employeeID, "err", err)
		}
	}
	return nil
}
