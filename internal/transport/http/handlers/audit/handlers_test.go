package audithandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfsvc/internal/domain/audit"
	"perfsvc/internal/domain/auth"
	"perfsvc/internal/transport/http/middleware"
)

func newRouter(t *testing.T) (http.Handler, *audit.MemoryTrail) {
	t.Helper()
	trail := audit.NewMemoryTrail()
	for _, action := range []string{"performance.goal.create", "performance.pip.create"} {
		evt, err := audit.NewEvent(uuid.NewString(), action, strings.Split(action, ".")[1], uuid.NewString(), "req", "127.0.0.1", nil, map[string]string{"k": "v"})
		require.NoError(t, err)
		require.NoError(t, trail.Record(context.Background(), evt))
	}
	r := chi.NewRouter()
	NewHandler(trail, auth.StaticPermissions{}).RegisterRoutes(r)
	return r, trail
}

func withRole(req *http.Request, role string) *http.Request {
	ctx := middleware.WithUser(req.Context(), auth.UserContext{EmployeeID: uuid.New(), RoleName: role})
	return req.WithContext(ctx)
}

func TestListEventsFiltersAndRequiresPermission(t *testing.T) {
	r, _ := newRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, withRole(httptest.NewRequest(http.MethodGet, "/audit/events", nil), auth.RoleManager))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, withRole(httptest.NewRequest(http.MethodGet, "/audit/events?entityType=pip", nil), auth.RoleHR))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "performance.pip.create")
	assert.NotContains(t, rec.Body.String(), "performance.goal.create")
}

func TestExportEventsCSV(t *testing.T) {
	r, _ := newRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, withRole(httptest.NewRequest(http.MethodGet, "/audit/events/export", nil), auth.RoleSystemAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "id,actor_id,action"))
}
