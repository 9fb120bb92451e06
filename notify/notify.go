// Package notify carries transient user-facing messages out of the cart
// store. Nothing in it blocks or fails.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarn    Level = "warn"
)

// Notifier receives transient notices meant for the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Warn(msg string)
}

// Logger writes notices through zap.
type Logger struct {
	log *zap.Logger
}

func NewLogger(log *zap.Logger) *Logger {
	if log == nil {
		log = zap.L()
	}
	return &Logger{log: log.Named("notify")}
}

func (l *Logger) Success(msg string) { l.log.Info(msg, zap.String("level", string(LevelSuccess))) }
func (l *Logger) Error(msg string)   { l.log.Error(msg, zap.String("level", string(LevelError))) }
func (l *Logger) Warn(msg string)    { l.log.Warn(msg, zap.String("level", string(LevelWarn))) }

type Message struct {
	Level Level
	Text  string
}

// Recorder keeps notices in memory until drained.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }
func (r *Recorder) Error(msg string)   { r.add(LevelError, msg) }
func (r *Recorder) Warn(msg string)    { r.add(LevelWarn, msg) }

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	r.messages = append(r.messages, Message{Level: level, Text: msg})
	r.mu.Unlock()
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Drain returns and forgets the recorded messages.
func (r *Recorder) Drain() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.messages
	r.messages = nil
	return out
}

// Multi fans a notice out to several notifiers.
type Multi []Notifier

func (m Multi) Success(msg string) {
	for _, n := range m {
		n.Success(msg)
	}
}

func (m Multi) Error(msg string) {
	for _, n := range m {
		n.Error(msg)
	}
}

func (m Multi) Warn(msg string) {
	for _, n := range m {
		n.Warn(msg)
	}
}
