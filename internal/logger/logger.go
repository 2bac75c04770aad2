package logger

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Logger wraps logrus with the service name attached to every entry.
type Logger struct {
	*logrus.Entry
}

func New(serviceName, level string) *Logger {
	return NewWithOutput(serviceName, level, os.Stdout)
}

func NewWithOutput(serviceName, level string, out io.Writer) *Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	log.SetOutput(out)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	return &Logger{Entry: log.WithField("service", serviceName)}
}

// Discard returns a logger that writes nowhere, for tests.
func Discard() *Logger {
	return NewWithOutput("test", "panic", io.Discard)
}

func (l *Logger) WithUserID(userID uuid.UUID) *logrus.Entry {
	return l.WithField("user_id", userID.String())
}
