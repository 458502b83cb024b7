package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO "
	case WARN:
		return "WARN "
	case ERROR:
		return "ERROR"
	default:
		return "FATAL"
	}
}

type Logger struct {
	level         Level
	packageLevels map[string]Level
	out           *log.Logger
}

var defaultLogger = &Logger{
	level:         INFO,
	packageLevels: map[string]Level{},
	out:           log.New(os.Stderr, "", log.LstdFlags),
}

// SetLevel sets the global logger level.
func SetLevel(level Level) {
	defaultLogger.level = level
}

// SetPackageLevels sets per-package level overrides. Keys match the
// [component] prefix used in log messages (e.g. "player", "bridge").
func SetPackageLevels(levels map[string]Level) {
	defaultLogger.packageLevels = levels
}

// component returns the name from a "[component] ..." message, or "".
func component(msg string) string {
	if len(msg) < 3 || msg[0] != '[' {
		return ""
	}
	if end := strings.IndexByte(msg, ']'); end > 1 {
		return msg[1:end]
	}
	return ""
}

func (l *Logger) logf(level Level, msg string, args ...interface{}) {
	threshold := l.level
	if pkg := component(msg); pkg != "" {
		if override, ok := l.packageLevels[pkg]; ok {
			threshold = override
		}
	}
	if level < threshold {
		return
	}
	l.out.Println(fmt.Sprintf("[%s] %s", level, fmt.Sprintf(msg, args...)))
}

func Debug(msg string, args ...interface{}) { defaultLogger.logf(DEBUG, msg, args...) }
func Info(msg string, args ...interface{})  { defaultLogger.logf(INFO, msg, args...) }
func Warn(msg string, args ...interface{})  { defaultLogger.logf(WARN, msg, args...) }
func Error(msg string, args ...interface{}) { defaultLogger.logf(ERROR, msg, args...) }

// Fatal logs a fatal message and exits.
func Fatal(msg string, args ...interface{}) {
	defaultLogger.out.Fatalln(fmt.Sprintf("[%s] %s", FATAL, fmt.Sprintf(msg, args...)))
}
