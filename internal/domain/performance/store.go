package performance

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"perfsvc/internal/platform/querier"
)

// Store is the postgres implementation of the goal, review, PIP and
// feedback stores.
type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) Stores() Stores {
	return Stores{Goals: s, Reviews: s, PIPs: s, Feedback: s}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func notFoundOr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var (
	_ GoalStore     = (*Store)(nil)
	_ ReviewStore   = (*Store)(nil)
	_ PIPStore      = (*Store)(nil)
	_ FeedbackStore = (*Store)(nil)
)
