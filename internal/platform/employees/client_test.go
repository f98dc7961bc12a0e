package employees

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmployeeServer(t *testing.T, known map[uuid.UUID]Employee, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		raw := strings.TrimPrefix(r.URL.Path, "/api/v1/employees/")
		id, err := uuid.Parse(raw)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		employee, ok := known[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(employee)
	}))
}

func TestClientCachesHits(t *testing.T) {
	id := uuid.New()
	var calls int32
	srv := newEmployeeServer(t, map[uuid.UUID]Employee{id: {EmployeeID: id, FullName: "Ada", Email: "ada@example.com"}}, &calls)
	defer srv.Close()

	client := NewClient(srv.URL, WithCache(NewMemoryCache(), time.Minute))
	ctx := context.Background()

	first, err := client.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ada", first.FullName)

	exists, err := client.Exists(ctx, id)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second lookup should be served from cache")

	require.NoError(t, client.Invalidate(ctx, id))
	_, err = client.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClientNotFoundIsNotCached(t *testing.T) {
	var calls int32
	srv := newEmployeeServer(t, map[uuid.UUID]Employee{}, &calls)
	defer srv.Close()

	client := NewClient(srv.URL)
	id := uuid.New()
	for i := 0; i < 2; i++ {
		exists, err := client.Exists(context.Background(), id)
		require.NoError(t, err)
		assert.False(t, exists)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClientServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Exists(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestClientIsManagerOf(t *testing.T) {
	manager := uuid.New()
	employee := uuid.New()
	var calls int32
	srv := newEmployeeServer(t, map[uuid.UUID]Employee{employee: {EmployeeID: employee, ManagerID: &manager}}, &calls)
	defer srv.Close()

	client := NewClient(srv.URL)
	ok, err := client.IsManagerOf(context.Background(), manager, employee)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.IsManagerOf(context.Background(), uuid.New(), employee)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheExpires(t *testing.T) {
	cache := NewMemoryCache()
	now := time.Now()
	cache.now = func() time.Time { return now }
	id := uuid.New()
	require.NoError(t, cache.Set(context.Background(), Employee{EmployeeID: id}, time.Minute))

	_, ok, err := cache.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, err = cache.Get(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStaticDirectory(t *testing.T) {
	open := NewStaticDirectory()
	exists, err := open.Exists(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, exists)

	known := uuid.New()
	closed := NewStaticDirectory(Employee{EmployeeID: known})
	exists, _ = closed.Exists(context.Background(), known)
	assert.True(t, exists)
	exists, _ = closed.Exists(context.Background(), uuid.New())
	assert.False(t, exists)
}
