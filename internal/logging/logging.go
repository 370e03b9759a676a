package logging

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

type Field struct {
	Key   string
	Value any
}

func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logger is the diagnostic side channel of the reduction core: anomalies the
// reducer absorbs are reported here and nowhere else.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	Enabled(level Level) bool
}

type lineLogger struct {
	out    io.Writer
	level  Level
	fields []Field
	mu     *sync.Mutex
}

func New(out io.Writer, level Level) Logger {
	if out == nil {
		out = os.Stderr
	}
	return &lineLogger{out: out, level: level, mu: &sync.Mutex{}}
}

func Nop() Logger {
	return &lineLogger{out: io.Discard, level: Error, mu: &sync.Mutex{}}
}

func (l *lineLogger) Enabled(level Level) bool {
	return l != nil && level >= l.level
}

func (l *lineLogger) With(fields ...Field) Logger {
	if l == nil {
		return Nop()
	}
	return &lineLogger{
		out:    l.out,
		level:  l.level,
		fields: append(append([]Field{}, l.fields...), fields...),
		mu:     l.mu,
	}
}

func (l *lineLogger) Debug(msg string, fields ...Field) { l.emit(Debug, msg, fields) }
func (l *lineLogger) Info(msg string, fields ...Field)  { l.emit(Info, msg, fields) }
func (l *lineLogger) Warn(msg string, fields ...Field)  { l.emit(Warn, msg, fields) }
func (l *lineLogger) Error(msg string, fields ...Field) { l.emit(Error, msg, fields) }

func (l *lineLogger) emit(level Level, msg string, fields []Field) {
	if l == nil || level < l.level {
		return
	}
	var line strings.Builder
	writePair(&line, "ts", time.Now().UTC().Format(time.RFC3339Nano))
	writePair(&line, "level", levelString(level))
	writePair(&line, "msg", msg)
	for _, field := range l.fields {
		writePair(&line, field.Key, field.Value)
	}
	for _, field := range fields {
		writePair(&line, field.Key, field.Value)
	}
	line.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, line.String())
}

func writePair(line *strings.Builder, key string, value any) {
	if line.Len() > 0 {
		line.WriteByte(' ')
	}
	line.WriteString(key)
	line.WriteByte('=')
	line.WriteString(formatValue(value))
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return quoteIfNeeded(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case time.Duration:
		return quoteIfNeeded(v.String())
	case error:
		return quoteIfNeeded(v.Error())
	case fmt.Stringer:
		return quoteIfNeeded(v.String())
	default:
		return quoteIfNeeded(fmt.Sprintf("%v", v))
	}
}

func quoteIfNeeded(value string) string {
	if value == "" {
		return `""`
	}
	if strings.ContainsAny(value, " \t\n\r\"=") {
		return strconv.Quote(value)
	}
	return value
}

func levelString(level Level) string {
	switch level {
	case Debug:
		return "debug"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "info"
	}
}

func ParseLevel(raw string) Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return Debug
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}
