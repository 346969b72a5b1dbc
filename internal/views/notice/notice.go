// Package notice carries the transient success/failure messages that views
// emit after mutating operations.
package notice

import (
	"sync"
	"time"

	"estate-admin/internal/common/logger"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Notice struct {
	Level   Level
	Message string
	At      time.Time
}

// Notifier receives notices from views.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Recorder keeps every notice in order. Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Success(message string) { r.add(LevelSuccess, message) }
func (r *Recorder) Error(message string)   { r.add(LevelError, message) }

func (r *Recorder) add(level Level, message string) {
	r.mu.Lock()
	r.notices = append(r.notices, Notice{Level: level, Message: message, At: time.Now()})
	r.mu.Unlock()
}

func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Last returns the most recent notice, if any.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

// LogNotifier writes notices to the structured logger.
type LogNotifier struct {
	logger logger.Logger
}

func NewLogNotifier(log logger.Logger) *LogNotifier {
	return &LogNotifier{logger: log}
}

func (n *LogNotifier) Success(message string) {
	n.logger.Info(message, map[string]interface{}{"notice": string(LevelSuccess)})
}

func (n *LogNotifier) Error(message string) {
	n.logger.Warn(message, map[string]interface{}{"notice": string(LevelError)})
}

// Multi fans a notice out to several notifiers.
type Multi []Notifier

func (m Multi) Success(message string) {
	for _, n := range m {
		n.Success(message)
	}
}

func (m Multi) Error(message string) {
	for _, n := range m {
		n.Error(message)
	}
}
