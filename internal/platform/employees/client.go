package employees

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("employee not found")
	ErrUnavailable = errors.New("employee service unavailable")
)

type Employee struct {
	EmployeeID uuid.UUID  `json:"employee_id"`
	FullName   string     `json:"full_name"`
	Email      string     `json:"email"`
	ManagerID  *uuid.UUID `json:"manager_id,omitempty"`
}

// Client looks employees up in the employee service and caches hits.
// Misses are not cached so a newly created employee is visible at once.
type Client struct {
	baseURL string
	http    *http.Client
	cache   Cache
	ttl     time.Duration
	logger  *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

func WithCache(cache Cache, ttl time.Duration) Option {
	return func(cl *Client) {
		if cache != nil {
			cl.cache = cache
		}
		if ttl > 0 {
			cl.ttl = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		if logger != nil {
			cl.logger = logger
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
		cache:   NewMemoryCache(),
		ttl:     10 * time.Minute,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Get(ctx context.Context, id uuid.UUID) (Employee, error) {
	if cached, ok, err := c.cache.Get(ctx, id); err != nil {
		c.logger.Warn("employee cache read failed", "employeeId", id, "err", err)
	} else if ok {
		return cached, nil
	}

	employee, err := c.fetch(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	if err := c.cache.Set(ctx, employee, c.ttl); err != nil {
		c.logger.Warn("employee cache write failed", "employeeId", id, "err", err)
	}
	return employee, nil
}

func (c *Client) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := c.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IsManagerOf reports whether managerID is the direct manager of employeeID.
func (c *Client) IsManagerOf(ctx context.Context, managerID, employeeID uuid.UUID) (bool, error) {
	employee, err := c.Get(ctx, employeeID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return employee.ManagerID != nil && *employee.ManagerID == managerID, nil
}

func (c *Client) Invalidate(ctx context.Context, id uuid.UUID) error {
	return c.cache.Delete(ctx, id)
}

func (c *Client) fetch(ctx context.Context, id uuid.UUID) (Employee, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/v1/employees/%s", c.baseURL, id), nil)
	if err != nil {
		return Employee{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Employee{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Employee{}, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return Employee{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var employee Employee
	if err := json.NewDecoder(resp.Body).Decode(&employee); err != nil {
		return Employee{}, fmt.Errorf("decode employee: %w", err)
	}
	if employee.EmployeeID == uuid.Nil {
		employee.EmployeeID = id
	}
	return employee, nil
}

// StaticDirectory answers from a fixed set of employees. With no employees
// registered every id is treated as existing, which is what local memory
// mode wants.
type StaticDirectory struct {
	employees map[uuid.UUID]Employee
}

func NewStaticDirectory(employees ...Employee) *StaticDirectory {
	d := &StaticDirectory{employees: map[uuid.UUID]Employee{}}
	for _, e := range employees {
		d.employees[e.EmployeeID] = e
	}
	return d
}

func (d *StaticDirectory) Get(_ context.Context, id uuid.UUID) (Employee, error) {
	if e, ok := d.employees[id]; ok {
		return e, nil
	}
	if len(d.employees) == 0 {
		return Employee{EmployeeID: id}, nil
	}
	return Employee{}, ErrNotFound
}

func (d *StaticDirectory) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := d.Get(ctx, id)
	return err == nil, nil
}
