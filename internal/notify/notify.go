// Package notify carries user-facing feedback out of the customization flow.
package notify

import (
	"context"
	"sync"

	"github.com/cardapiohub/cardapio-backend/pkg/logger"
)

// Level is the severity of a notice.
type Level string

const (
	LevelError   Level = "error"
	LevelSuccess Level = "success"
)

// Notice is one message meant for the customer.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier is the feedback channel the flow engine writes to.
type Notifier interface {
	Error(ctx context.Context, message string)
	Success(ctx context.Context, message string)
}

// Recorder buffers notices until the caller drains them into a response.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Error(ctx context.Context, message string) {
	r.add(Notice{Level: LevelError, Message: message})
}

func (r *Recorder) Success(ctx context.Context, message string) {
	r.add(Notice{Level: LevelSuccess, Message: message})
}

func (r *Recorder) add(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Drain returns the buffered notices and clears the buffer.
func (r *Recorder) Drain() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.notices
	r.notices = nil
	return out
}

// LogNotifier mirrors notices into the structured log.
type LogNotifier struct {
	logg *logger.Logger
}

func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	if logg == nil {
		logg = logger.Nop()
	}
	return &LogNotifier{logg: logg}
}

func (l *LogNotifier) Error(ctx context.Context, message string) {
	l.logg.Warn(l.logg.WithField(ctx, "notice", message), "notify.error")
}

func (l *LogNotifier) Success(ctx context.Context, message string) {
	l.logg.Info(l.logg.WithField(ctx, "notice", message), "notify.success")
}

// Fanout delivers every notice to all of its notifiers.
type Fanout []Notifier

func (f Fanout) Error(ctx context.Context, message string) {
	for _, n := range f {
		n.Error(ctx, message)
	}
}

func (f Fanout) Success(ctx context.Context, message string) {
	for _, n := range f {
		n.Success(ctx, message)
	}
}
