// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

// Package logger builds the slog logger shared by the CLI, the pipeline and
// the MCP server. Output always goes to the supplied writer (stderr in
// practice) because stdout carries MCP traffic in stdio mode.
package logger

import (
	"io"
	"log/slog"
	"strings"
)

const (
	LevelNotice    = slog.Level(2)  // Between Info and Warn
	LevelCritical  = slog.Level(10) // Between Error and Alert
	LevelAlert     = slog.Level(12)
	LevelEmergency = slog.Level(16) // Highest severity
)

// ValidLogLevels lists the accepted level names, matching MCP logging levels.
var ValidLogLevels = []string{"debug", "info", "notice", "warning", "warn", "error", "critical", "alert", "emergency"}

// ValidLogFormats lists the accepted handler formats.
var ValidLogFormats = []string{"text", "json"}

var levelsByName = map[string]slog.Level{
	"debug":     slog.LevelDebug,
	"info":      slog.LevelInfo,
	"notice":    LevelNotice,
	"warn":      slog.LevelWarn,
	"warning":   slog.LevelWarn,
	"error":     slog.LevelError,
	"critical":  LevelCritical,
	"alert":     LevelAlert,
	"emergency": LevelEmergency,
}

var levelLabels = map[slog.Level]string{
	slog.LevelDebug: "DEBUG",
	slog.LevelInfo:  "INFO",
	LevelNotice:     "NOTICE",
	slog.LevelWarn:  "WARN",
	slog.LevelError: "ERROR",
	LevelCritical:   "CRITICAL",
	LevelAlert:      "ALERT",
	LevelEmergency:  "EMERGENCY",
}

// Service holds the logger and its dynamic level controller.
type Service struct {
	*slog.Logger
	level *slog.LevelVar
}

// New creates a new logging service writing to writer.
func New(level, format string, writer io.Writer) *Service {
	levelVar := &slog.LevelVar{}
	levelVar.Set(parseLevel(level))

	opts := &slog.HandlerOptions{
		Level:       levelVar,
		ReplaceAttr: replaceAttr,
	}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}

	return &Service{
		Logger: slog.New(handler),
		level:  levelVar,
	}
}

// Discard returns a service that drops everything. Handy in tests.
func Discard() *Service {
	return New("emergency", "text", io.Discard)
}

// SetLevel dynamically changes the logging level. Unknown names fall back to info.
func (s *Service) SetLevel(level string) {
	s.level.Set(parseLevel(level))
}

// Level reports the current level.
func (s *Service) Level() slog.Level {
	return s.level.Level()
}

// With returns a child service sharing the same level controller.
func (s *Service) With(args ...any) *Service {
	return &Service{
		Logger: s.Logger.With(args...),
		level:  s.level,
	}
}

func parseLevel(level string) slog.Level {
	if l, ok := levelsByName[strings.ToLower(level)]; ok {
		return l
	}
	return slog.LevelInfo
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	level, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}
	if label, ok := levelLabels[level]; ok {
		a.Value = slog.StringValue(label)
	}
	return a
}
