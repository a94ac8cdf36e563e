package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus to give every service a consistent structured-logging
// surface with preset identity fields.
type Logger struct {
	entry *logrus.Entry
}

// Init configures the global logrus instance. JSON output keeps the logs
// machine-parseable for downstream collection.
func Init(level logrus.Level) {
	logrus.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(level)
}

// ParseLevel maps a config string to a logrus level, defaulting to info.
func ParseLevel(s string) logrus.Level {
	level, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// New creates a Logger carrying the service name and, when already known, the
// persona the log lines concern.
func New(serviceName, personaID string) *Logger {
	return &Logger{
		entry: logrus.WithFields(logrus.Fields{
			"service_name": serviceName,
			"persona_id":   personaID,
		}),
	}
}

// WithPersona returns a child logger scoped to one persona.
func (l *Logger) WithPersona(personaID string) *Logger {
	return &Logger{entry: l.entry.WithField("persona_id", personaID)}
}

// WithField returns a child logger with one extra field attached.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

// WithPayload attaches arbitrary business data to the log entry.
func (l *Logger) WithPayload(payload map[string]interface{}) *Logger {
	return &Logger{entry: l.entry.WithField("payload", payload)}
}

func (l *Logger) Debug(message string) { l.entry.Debug(message) }
func (l *Logger) Info(message string)  { l.entry.Info(message) }
func (l *Logger) Warn(message string)  { l.entry.Warn(message) }
func (l *Logger) Error(message string) { l.entry.Error(message) }
func (l *Logger) Fatal(message string) { l.entry.Fatal(message) }
