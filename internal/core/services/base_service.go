package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	now func() time.Time
}

// Now returns the service clock, defaulting to the wall clock.
func (s *BaseService) Now() time.Time {
	if s.now == nil {
		return time.Now().UTC()
	}
	return s.now()
}

// Today returns the current calendar date in the persisted date layout.
func (s *BaseService) Today() string {
	return s.Now().Format(domain.DateLayout)
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}
