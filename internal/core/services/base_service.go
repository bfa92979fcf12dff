package services

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/services"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Identity portssvc.AuditIdentity
	Clock    func() time.Time
}

// Option is a functional option applied to the BaseService of any service.
type Option func(*BaseService)

// WithAuditIdentity sets the resolver used for audit stamps.
func WithAuditIdentity(identity portssvc.AuditIdentity) Option {
	return func(s *BaseService) {
		s.Identity = identity
	}
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *BaseService) {
		s.Clock = clock
	}
}

func newBaseService(opts []Option) BaseService {
	b := BaseService{
		Identity: middleware.ClaimsIdentity{},
		Clock:    time.Now,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Actor resolves who is performing the current operation.
func (s *BaseService) Actor(ctx context.Context) string {
	if s.Identity == nil {
		return middleware.SystemActor
	}
	return s.Identity.Resolve(ctx)
}

// Now returns the current time in UTC.
func (s *BaseService) Now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock().UTC()
}
