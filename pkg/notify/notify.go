// Package notify implements the transient toast surface shared by the
// back-office components. A single toast is visible at a time; showing a new
// one replaces it, and every toast dismisses itself after a fixed interval.
package notify

import (
	"context"
	"strings"
	"time"
)

// Level classifies a toast for presentation.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// ParseLevel maps free-form input onto a known level. Unknown values fall
// back to LevelInfo.
func ParseLevel(s string) Level {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelSuccess:
		return LevelSuccess
	case LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

// Toast is one transient notification.
type Toast struct {
	Level   Level
	Message string
	ShownAt time.Time
}

// Notifier receives toasts emitted by components.
type Notifier interface {
	Notify(ctx context.Context, toast Toast)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, toast Toast)

// Notify calls the wrapped function.
func (f NotifierFunc) Notify(ctx context.Context, toast Toast) {
	f(ctx, toast)
}

// Success builds a success toast.
func Success(message string) Toast {
	return Toast{Level: LevelSuccess, Message: message}
}

// Error builds an error toast.
func Error(message string) Toast {
	return Toast{Level: LevelError, Message: message}
}

// Info builds an info toast.
func Info(message string) Toast {
	return Toast{Level: LevelInfo, Message: message}
}
