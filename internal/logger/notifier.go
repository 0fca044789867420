package logger

import (
	"context"
	"sync"

	"manifest-reconciliation/internal/domain"
)

// BufferedNotifier logs user-visible notifications and keeps the most recent
// ones so a UI adapter can poll them.
type BufferedNotifier struct {
	log   Logger
	limit int

	mu      sync.Mutex
	pending []domain.Notification
}

// NewBufferedNotifier keeps at most limit notifications; older ones are dropped.
func NewBufferedNotifier(log Logger, limit int) *BufferedNotifier {
	if limit <= 0 {
		limit = 50
	}
	return &BufferedNotifier{log: log, limit: limit}
}

// Notify records a notification.
func (n *BufferedNotifier) Notify(ctx context.Context, level domain.NotificationLevel, message string) {
	switch level {
	case domain.NotifyError:
		n.log.Errorf(ctx, "[notify] %s", message)
	case domain.NotifyWarning:
		n.log.Warnf(ctx, "[notify] %s", message)
	default:
		n.log.Infof(ctx, "[notify] %s", message)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = append(n.pending, domain.Notification{Level: level, Message: message})
	if over := len(n.pending) - n.limit; over > 0 {
		n.pending = append([]domain.Notification(nil), n.pending[over:]...)
	}
}

// Drain returns and forgets the buffered notifications, oldest first.
func (n *BufferedNotifier) Drain() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.pending
	n.pending = nil
	if out == nil {
		return []domain.Notification{}
	}
	return out
}
