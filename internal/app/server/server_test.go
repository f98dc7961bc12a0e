package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfsvc/internal/domain/auth"
	"perfsvc/internal/platform/config"
)

func memoryApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Load()
	cfg.JWTSecret = "test-secret"
	cfg.MetricsEnabled = true
	cfg.OtelEnabled = false
	app, err := Build(context.Background(), cfg, Options{Memory: true})
	require.NoError(t, err)
	t.Cleanup(func() { app.Close(context.Background()) })
	return app
}

func bearer(t *testing.T, employee uuid.UUID, role string) string {
	t.Helper()
	token, err := auth.GenerateToken("test-secret", auth.Claims{UserID: employee.String(), RoleName: role}, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHealthAndMetrics(t *testing.T) {
	app := memoryApp(t)

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestAPIRequiresBearerToken(t *testing.T) {
	app := memoryApp(t)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, APIPrefix+"/goals/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCreateGoalWithIdempotencyKey(t *testing.T) {
	app := memoryApp(t)
	employee := uuid.New()
	body := `{"description":"Automate the release","target_completion_date":"` + time.Now().AddDate(0, 1, 0).Format("2006-01-02") + `"}`

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, APIPrefix+"/employees/"+employee.String()+"/goals", strings.NewReader(body))
		req.Header.Set("Authorization", bearer(t, employee, auth.RoleEmployee))
		req.Header.Set("Idempotency-Key", "goal-1")
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second := send()
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))

	page, err := app.Service.ListGoals(context.Background(), employee, nil, 10)
	require.NoError(t, err)
	assert.Len(t, page.Goals, 1)
}

func TestRunJobEndpoint(t *testing.T) {
	app := memoryApp(t)
	req := httptest.NewRequest(http.MethodPost, APIPrefix+"/jobs/review-reminders/run", nil)
	req.Header.Set("Authorization", bearer(t, uuid.New(), auth.RoleSystemAdmin))
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
