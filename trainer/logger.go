package trainer

import (
	"io"
	"log"
)

// Level filters log messages.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelMap = map[string]Level{
	"debug": DEBUG,
	"info":  INFO,
	"warn":  WARN,
	"error": ERROR,
}

// ParseLevel maps a level name to a Level, defaulting to INFO.
func ParseLevel(name string) Level {
	if level, ok := levelMap[name]; ok {
		return level
	}
	return INFO
}

// Logger is a leveled logger. A nil *Logger discards everything.
type Logger struct {
	logger *log.Logger
	level  Level
}

// NewLogger logs to w the messages at level or above.
func NewLogger(w io.Writer, level Level) *Logger {
	return &Logger{
		logger: log.New(w, "", log.LstdFlags),
		level:  level,
	}
}

func (l *Logger) printf(level Level, prefix, format string, args ...interface{}) {
	if l == nil || level < l.level {
		return
	}
	l.logger.Printf(prefix+format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.printf(DEBUG, "[DEBUG] ", format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.printf(INFO, "[INFO] ", format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.printf(WARN, "[WARN] ", format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.printf(ERROR, "[ERROR] ", format, args...)
}
