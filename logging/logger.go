package logging

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lixenwraith/vi-ecs/core"
	"github.com/lixenwraith/vi-ecs/parameter"
)

// Level is the minimum severity a logger emits
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	return toZapLevel(l).String()
}

// ParseLevel accepts debug, info, warn/warning and error
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func toZapLevel(level Level) zapcore.Level {
	switch level {
	case LevelDebug:
		return zap.DebugLevel
	case LevelWarn:
		return zap.WarnLevel
	case LevelError:
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func fromZapLevel(level zapcore.Level) Level {
	switch level {
	case zap.DebugLevel:
		return LevelDebug
	case zap.WarnLevel:
		return LevelWarn
	case zap.ErrorLevel, zap.DPanicLevel, zap.PanicLevel, zap.FatalLevel:
		return LevelError
	default:
		return LevelInfo
	}
}

// DefaultQueueSize bounds pending entries before producers start dropping
const DefaultQueueSize = parameter.LogQueueSize

type entry struct {
	level  zapcore.Level
	msg    string
	fields []zap.Field
}

// sink is the queue and consumer goroutine shared by a logger and its With children
type sink struct {
	zap   *zap.Logger
	level zap.AtomicLevel
	queue chan entry
	done  chan struct{}

	mu      sync.RWMutex // guards queue close against sends
	closed  bool
	dropped atomic.Uint64
}

// Logger writes through a single consumer goroutine; producers never block
// A full queue drops the entry and counts it
type Logger struct {
	sink   *sink
	fields []zap.Field
}

// Config selects zap output for New
type Config struct {
	Level     Level
	Encoding  string   // "json" or "console"
	Outputs   []string // zap output paths, stderr when empty
	QueueSize int
}

// New builds a zap-backed asynchronous logger
func New(cfg Config) (*Logger, error) {
	level := zap.NewAtomicLevelAt(toZapLevel(cfg.Level))
	encoding := cfg.Encoding
	if encoding == "" {
		encoding = "console"
	}
	outputs := cfg.Outputs
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	zcfg := zap.Config{
		Level:            level,
		Development:      false,
		Encoding:         encoding,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zl, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return newLogger(zl, level, cfg.QueueSize), nil
}

// NewWithCore wraps an existing zap core, as tests do with zaptest/observer
func NewWithCore(core zapcore.Core, level Level, queueSize int) *Logger {
	return newLogger(zap.New(core), zap.NewAtomicLevelAt(toZapLevel(level)), queueSize)
}

// Nop discards everything; it starts no writer goroutine and needs no Shutdown
func Nop() *Logger {
	done := make(chan struct{})
	close(done)
	return &Logger{sink: &sink{
		zap:    zap.NewNop(),
		level:  zap.NewAtomicLevelAt(zap.ErrorLevel),
		done:   done,
		closed: true,
	}}
}

func newLogger(zl *zap.Logger, level zap.AtomicLevel, queueSize int) *Logger {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	s := &sink{
		zap:   zl,
		level: level,
		queue: make(chan entry, queueSize),
		done:  make(chan struct{}),
	}
	core.Go(s.run)
	return &Logger{sink: s}
}

func (s *sink) run() {
	defer close(s.done)
	for e := range s.queue {
		s.zap.Log(e.level, e.msg, e.fields...)
	}
}

func (l *Logger) log(level zapcore.Level, msg string, fields []zap.Field) {
	s := l.sink
	if !s.level.Enabled(level) {
		return
	}
	if len(l.fields) > 0 {
		fields = append(append(make([]zap.Field, 0, len(l.fields)+len(fields)), l.fields...), fields...)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.queue <- entry{level: level, msg: msg, fields: fields}:
	default:
		s.dropped.Add(1)
	}
}

func (l *Logger) Debug(msg string, fields ...zap.Field) { l.log(zap.DebugLevel, msg, fields) }
func (l *Logger) Info(msg string, fields ...zap.Field)  { l.log(zap.InfoLevel, msg, fields) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.log(zap.WarnLevel, msg, fields) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.log(zap.ErrorLevel, msg, fields) }

// With returns a child logger sharing the queue and level, prefixing fields to every entry
func (l *Logger) With(fields ...zap.Field) *Logger {
	merged := make([]zap.Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &Logger{sink: l.sink, fields: merged}
}

// SetLevel changes the minimum level at runtime for this logger and its children
func (l *Logger) SetLevel(level Level) {
	l.sink.level.SetLevel(toZapLevel(level))
}

func (l *Logger) Level() Level {
	return fromZapLevel(l.sink.level.Level())
}

// Dropped returns the number of entries lost to a full queue
func (l *Logger) Dropped() uint64 {
	return l.sink.dropped.Load()
}

// Shutdown stops accepting entries, drains the queue and syncs the writer
// Safe to call more than once; later entries are discarded
func (l *Logger) Shutdown() {
	s := l.sink
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	<-s.done
	_ = s.zap.Sync()
}
