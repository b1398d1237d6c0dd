package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/dto"
)

const defaultNotificationCapacity = 50

// Notifier is the toast sink used by the view services.
type Notifier interface {
	Success(message string)
	Info(message string)
	Warning(message string)
	Error(message string)
}

// NotificationService keeps a bounded feed of toasts that the UI drains.
type NotificationService struct {
	mu       sync.Mutex
	items    []dto.Notification
	capacity int
	logger   *zap.Logger
	now      func() time.Time
}

// NewNotificationService constructs the feed. capacity <= 0 uses the default.
func NewNotificationService(capacity int, logger *zap.Logger) *NotificationService {
	if capacity <= 0 {
		capacity = defaultNotificationCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{capacity: capacity, logger: logger, now: time.Now}
}

func (s *NotificationService) Success(message string) { s.push(dto.LevelSuccess, message) }
func (s *NotificationService) Info(message string)    { s.push(dto.LevelInfo, message) }
func (s *NotificationService) Warning(message string) { s.push(dto.LevelWarning, message) }
func (s *NotificationService) Error(message string)   { s.push(dto.LevelError, message) }

// Drain returns all pending notifications oldest first and empties the feed.
func (s *NotificationService) Drain() []dto.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.items
	s.items = nil
	if out == nil {
		out = []dto.Notification{}
	}
	return out
}

// Pending returns a copy of the feed without consuming it.
func (s *NotificationService) Pending() []dto.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dto.Notification, len(s.items))
	copy(out, s.items)
	return out
}

func (s *NotificationService) push(level, message string) {
	n := dto.Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: s.now().UTC(),
	}
	switch level {
	case dto.LevelError:
		s.logger.Warn("notification", zap.String("level", level), zap.String("message", message))
	default:
		s.logger.Debug("notification", zap.String("level", level), zap.String("message", message))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, n)
	if over := len(s.items) - s.capacity; over > 0 {
		s.items = append([]dto.Notification(nil), s.items[over:]...)
	}
}
