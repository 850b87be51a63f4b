// Package logging is a small structured leveled logger, adapted from the
// project's existing internal/pkg/logging pattern: JSON or plain output,
// a package-level default logger configured once at startup via Init.
package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"corebank/internal/config"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "INFO"
	}
}

type Logger struct {
	level  Level
	format string
	logger *log.Logger
}

type entry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

var defaultLogger = &Logger{level: INFO, format: "json", logger: log.New(os.Stdout, "", 0)}

// Init configures the package-level default logger. Safe to call once at
// process startup; until then, the default logger logs at INFO in JSON.
func Init(cfg *config.Config) {
	defaultLogger = &Logger{
		level:  parseLevel(cfg.Logging.Level),
		format: cfg.Logging.Format,
		logger: log.New(os.Stdout, "", 0),
	}
}

func parseLevel(levelStr string) Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

func (l *Logger) log(level Level, message string, fields map[string]any) {
	if level < l.level {
		return
	}

	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level.String(),
		Message:   message,
		Fields:    fields,
	}

	var output string
	if l.format == "json" {
		data, _ := json.Marshal(e)
		output = string(data)
	} else {
		output = fmt.Sprintf("[%s] %s %s", e.Timestamp, e.Level, e.Message)
		if len(fields) > 0 {
			fieldsStr, _ := json.Marshal(fields)
			output += fmt.Sprintf(" %s", fieldsStr)
		}
	}

	l.logger.Println(output)
}

func Debug(message string, fields ...map[string]any) {
	defaultLogger.log(DEBUG, message, firstOrNil(fields))
}

func Info(message string, fields ...map[string]any) {
	defaultLogger.log(INFO, message, firstOrNil(fields))
}

func Warn(message string, fields ...map[string]any) {
	defaultLogger.log(WARN, message, firstOrNil(fields))
}

// Error logs at ERROR level. err, if non-nil, is attached under the
// "error" field — callers must never pass an error whose message embeds
// data that should not reach logs (engine-surfaced errors already strip
// that by construction; see bankerrors.StorageError).
func Error(message string, err error, fields map[string]any) {
	if fields == nil {
		fields = make(map[string]any)
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	defaultLogger.log(ERROR, message, fields)
}

func firstOrNil(fields []map[string]any) map[string]any {
	if len(fields) > 0 {
		return fields[0]
	}
	return nil
}
