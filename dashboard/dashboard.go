// Package dashboard serves the aggregate numbers shown on the frontend's dashboard page.
package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/samber/oops"

	"github.com/user/agency-go/apperror"
	"github.com/user/agency-go/db"
)

// UserCounter reports how many accounts exist.
// auth.MemoryStore satisfies it directly; PostgresCounter does for the database.
type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

// PostgresCounter counts rows in the users table.
type PostgresCounter struct {
	db      db.DBTX
	timeout time.Duration
}

// NewPostgresCounter creates a PostgresCounter. A non-positive timeout disables the bound.
func NewPostgresCounter(conn db.DBTX, timeout time.Duration) *PostgresCounter {
	return &PostgresCounter{db: conn, timeout: timeout}
}

// Count returns the number of registered users.
func (c *PostgresCounter) Count(ctx context.Context) (int64, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var n int64
	if err := c.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, apperror.NewDatabaseError("failed to count users",
			oops.Code("DASHBOARD_COUNT_FAILED").Wrap(err))
	}
	return n, nil
}

// Stats is the aggregate block of the dashboard.
type Stats struct {
	// example: 42
	TotalUsers int64 `json:"totalUsers"`
}

// Response is the body of GET /dashboard.
// @Description Dashboard statistics
type Response struct {
	Stats Stats `json:"stats"`
}

// Service assembles dashboard statistics.
type Service struct {
	users UserCounter
}

// NewService creates a new Service.
func NewService(users UserCounter) *Service {
	return &Service{users: users}
}

// GetStats returns the current statistics.
func (s *Service) GetStats(ctx context.Context) (*Response, error) {
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &Response{Stats: Stats{TotalUsers: total}}, nil
}

// Handlers exposes the dashboard over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates new Handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleGetDashboard godoc
// @Summary Dashboard statistics
// @Description Returns aggregate counts for the dashboard page.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dashboard.Response
// @Failure 401 {object} apperror.ErrorResponse "Missing bearer token"
// @Failure 403 {object} apperror.ErrorResponse "Invalid or expired bearer token"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /dashboard [get]
func (h *Handlers) HandleGetDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.service.GetStats(r.Context())
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, stats)
	}
}
