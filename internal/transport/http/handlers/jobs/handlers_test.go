package jobshandler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"perfsvc/internal/domain/auth"
	"perfsvc/internal/platform/jobs"
	"perfsvc/internal/transport/http/middleware"
)

type stubRunner struct {
	ran []string
	err error
}

func (s *stubRunner) RunNow(_ context.Context, name string) (any, error) {
	if name == "nope" {
		return nil, jobs.ErrUnknownJob
	}
	s.ran = append(s.ran, name)
	return map[string]int{"processed": 1}, s.err
}

func serve(t *testing.T, runner *stubRunner, role, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	NewHandler(runner, auth.StaticPermissions{}).RegisterRoutes(r)
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req = req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{EmployeeID: uuid.New(), RoleName: role}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRunJob(t *testing.T) {
	runner := &stubRunner{}
	rec := serve(t, runner, auth.RoleSystemAdmin, "/jobs/"+jobs.JobArchive+"/run")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{jobs.JobArchive}, runner.ran)
	assert.Contains(t, rec.Body.String(), `"processed":1`)
}

func TestRunJobErrors(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, serve(t, &stubRunner{}, auth.RoleManager, "/jobs/archive/run").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, &stubRunner{}, auth.RoleSystemAdmin, "/jobs/nope/run").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(t, &stubRunner{err: errors.New("boom")}, auth.RoleSystemAdmin, "/jobs/archive/run").Code)
}
