// ==============================================================================
// LOGGER PACKAGE - pkg/logger/logger.go
// ==============================================================================
package logger

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

type Logger interface {
	Info(message string, fields map[string]interface{})
	Error(message string, fields map[string]interface{})
	Warn(message string, fields map[string]interface{})
	Debug(message string, fields map[string]interface{})
	Fatal(message string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

var levels = map[string]int{
	"debug": 0,
	"info":  1,
	"warn":  2,
	"error": 3,
	"fatal": 4,
}

type jsonLogger struct {
	serviceName string
	minLevel    int
	bound       map[string]interface{}
	logger      *log.Logger
}

// New returns a JSON-lines logger writing to stdout at info level.
func New(serviceName string) Logger {
	return NewWithLevel(serviceName, "info", os.Stdout)
}

// NewWithLevel returns a JSON-lines logger that drops entries below level.
// Unknown levels fall back to info.
func NewWithLevel(serviceName, level string, w io.Writer) Logger {
	min, ok := levels[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		min = levels["info"]
	}
	return &jsonLogger{
		serviceName: serviceName,
		minLevel:    min,
		logger:      log.New(w, "", 0),
	}
}

func (l *jsonLogger) log(level, message string, fields map[string]interface{}) {
	if levels[level] < l.minLevel {
		return
	}

	entry := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"level":     level,
		"service":   l.serviceName,
		"message":   message,
	}

	for k, v := range l.bound {
		entry[k] = v
	}
	for k, v := range fields {
		entry[k] = v
	}

	jsonData, _ := json.Marshal(entry)
	l.logger.Println(string(jsonData))
}

func (l *jsonLogger) Info(message string, fields map[string]interface{}) {
	l.log("info", message, fields)
}

func (l *jsonLogger) Error(message string, fields map[string]interface{}) {
	l.log("error", message, fields)
}

func (l *jsonLogger) Warn(message string, fields map[string]interface{}) {
	l.log("warn", message, fields)
}

func (l *jsonLogger) Debug(message string, fields map[string]interface{}) {
	l.log("debug", message, fields)
}

func (l *jsonLogger) Fatal(message string, fields map[string]interface{}) {
	l.log("fatal", message, fields)
	os.Exit(1)
}

// With returns a logger that adds fields to every entry.
func (l *jsonLogger) With(fields map[string]interface{}) Logger {
	bound := make(map[string]interface{}, len(l.bound)+len(fields))
	for k, v := range l.bound {
		bound[k] = v
	}
	for k, v := range fields {
		bound[k] = v
	}
	return &jsonLogger{
		serviceName: l.serviceName,
		minLevel:    l.minLevel,
		bound:       bound,
		logger:      l.logger,
	}
}

func NewNop() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (l *nopLogger) Info(message string, fields map[string]interface{})  {}
func (l *nopLogger) Error(message string, fields map[string]interface{}) {}
func (l *nopLogger) Warn(message string, fields map[string]interface{})  {}
func (l *nopLogger) Debug(message string, fields map[string]interface{}) {}
func (l *nopLogger) Fatal(message string, fields map[string]interface{}) {}
func (l *nopLogger) With(fields map[string]interface{}) Logger           { return l }
