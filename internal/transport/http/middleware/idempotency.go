package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"perfsvc/internal/transport/http/api"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

var ErrIdempotencyConflict = errors.New("idempotency key conflicts with existing request")

// StoredResponse is the replayable outcome of a request.
type StoredResponse struct {
	Hash   string          `json:"hash"`
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

type IdempotencyStore interface {
	// Check returns the stored response for key. It returns
	// ErrIdempotencyConflict when key was used with a different payload.
	Check(ctx context.Context, key, requestHash string) (StoredResponse, bool, error)
	Save(ctx context.Context, key string, resp StoredResponse) error
}

func RequestHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

type RedisIdempotencyStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisIdempotencyStore(client redis.Cmdable) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client, ttl: idempotencyTTL}
}

func (s *RedisIdempotencyStore) Check(ctx context.Context, key, requestHash string) (StoredResponse, bool, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return StoredResponse{}, false, nil
	}
	if err != nil {
		return StoredResponse{}, false, fmt.Errorf("idempotency get: %w", err)
	}
	var stored StoredResponse
	if err := json.Unmarshal(raw, &stored); err != nil {
		return StoredResponse{}, false, fmt.Errorf("idempotency decode: %w", err)
	}
	if stored.Hash != requestHash {
		return StoredResponse{}, false, ErrIdempotencyConflict
	}
	return stored, true, nil
}

func (s *RedisIdempotencyStore) Save(ctx context.Context, key string, resp StoredResponse) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, key, raw, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("idempotency save: %w", err)
	}
	if !ok {
		_, _, err := s.Check(ctx, key, resp.Hash)
		return err
	}
	return nil
}

type MemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]memoryIdempotencyEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryIdempotencyEntry struct {
	resp      StoredResponse
	expiresAt time.Time
}

func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{
		entries: map[string]memoryIdempotencyEntry{},
		ttl:     idempotencyTTL,
		now:     time.Now,
	}
}

func (s *MemoryIdempotencyStore) Check(_ context.Context, key, requestHash string) (StoredResponse, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok || s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		return StoredResponse{}, false, nil
	}
	if entry.resp.Hash != requestHash {
		return StoredResponse{}, false, ErrIdempotencyConflict
	}
	return entry.resp, true, nil
}

func (s *MemoryIdempotencyStore) Save(_ context.Context, key string, resp StoredResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[key]; ok && s.now().Before(entry.expiresAt) {
		if entry.resp.Hash != resp.Hash {
			return ErrIdempotencyConflict
		}
		return nil
	}
	s.entries[key] = memoryIdempotencyEntry{resp: resp, expiresAt: s.now().Add(s.ttl)}
	return nil
}

type bufferingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *bufferingWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *bufferingWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response of a POST that carries an
// Idempotency-Key already seen for the same caller and route. Only 2xx
// responses are stored.
func Idempotency(store IdempotencyStore, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if store == nil || r.Method != http.MethodPost || key == "" {
				next.ServeHTTP(w, r)
				return
			}
			requestID := GetRequestID(r.Context())
			if len(key) > 128 {
				api.Fail(w, http.StatusBadRequest, "validation_failed", "Idempotency-Key is too long.", requestID)
				return
			}
			payload, err := io.ReadAll(r.Body)
			if err != nil {
				api.Fail(w, http.StatusBadRequest, "validation_failed", "Invalid request body.", requestID)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(payload))

			storeKey := idempotencyKey(r, key)
			hash := RequestHash(payload)
			stored, found, err := store.Check(r.Context(), storeKey, hash)
			switch {
			case errors.Is(err, ErrIdempotencyConflict):
				api.Fail(w, http.StatusConflict, "idempotency_conflict", "Idempotency-Key was already used with a different request.", requestID)
				return
			case err != nil:
				logger.Warn("idempotency check failed", "requestId", requestID, "err", err)
				next.ServeHTTP(w, r)
				return
			case found:
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Idempotent-Replayed", "true")
				w.WriteHeader(stored.Status)
				_, _ = w.Write(stored.Body)
				return
			}

			skip := &idempotencyOptOut{}
			buf := &bufferingWriter{ResponseWriter: w}
			next.ServeHTTP(buf, r.WithContext(context.WithValue(r.Context(), ctxKeyIdempotencyOptOut, skip)))
			if skip.set || buf.status < 200 || buf.status >= 300 {
				return
			}
			resp := StoredResponse{Hash: hash, Status: buf.status, Body: json.RawMessage(bytes.TrimSpace(buf.body.Bytes()))}
			if err := store.Save(r.Context(), storeKey, resp); err != nil {
				logger.Warn("idempotency save failed", "requestId", requestID, "err", err)
			}
		})
	}
}

type idempotencyOptOut struct {
	set bool
}

const ctxKeyIdempotencyOptOut ctxKey = "idempotency_opt_out"

// SkipIdempotencyStore keeps the current response out of the idempotency
// store. Handlers call it when the response must not be linked to the
// caller, such as anonymous feedback.
func SkipIdempotencyStore(ctx context.Context) {
	if opt, ok := ctx.Value(ctxKeyIdempotencyOptOut).(*idempotencyOptOut); ok {
		opt.set = true
	}
}

func idempotencyKey(r *http.Request, key string) string {
	actor := "anonymous"
	if user, ok := GetUser(r.Context()); ok {
		actor = user.EmployeeID.String()
	}
	return fmt.Sprintf("idempotency:%s:%s %s:%s", actor, r.Method, r.URL.Path, key)
}
