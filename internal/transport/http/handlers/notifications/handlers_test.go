package notificationshandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfsvc/internal/domain/auth"
	"perfsvc/internal/domain/notifications"
	"perfsvc/internal/transport/http/middleware"
)

func TestListAndMarkRead(t *testing.T) {
	svc := notifications.New(notifications.NewMemoryStore())
	employee := uuid.New()
	require.NoError(t, svc.Create(context.Background(), employee, notifications.TypeGoalAtRisk, "Goal at risk", "body", nil))

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)
	ctx := middleware.WithUser(context.Background(), auth.UserContext{EmployeeID: employee, RoleName: auth.RoleEmployee})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notifications", nil).WithContext(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))

	var env struct {
		Data []notifications.Notification `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/notifications/"+env.Data[0].ID.String()+"/read", nil).WithContext(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/notifications/"+uuid.NewString()+"/read", nil).WithContext(ctx))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListRequiresUser(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(notifications.New(notifications.NewMemoryStore())).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notifications", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
