// Package log writes diagnostic logs to daily files under the logs directory.
//
// The terminal belongs to the interface, so nothing is ever written to stdout or stderr.
// Until Setup enables logging every call is a no-op.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/syncwatch-cli/syncwatch/constant"
	"github.com/syncwatch-cli/syncwatch/filesystem"
	"github.com/syncwatch-cli/syncwatch/key"
	"github.com/syncwatch-cli/syncwatch/where"
)

// Fields is a set of structured key/value pairs attached to a single log line.
type Fields = logrus.Fields

var (
	enabled bool
	logger  = newDiscard()
	// base carries the fields every line is tagged with.
	base = logger.WithFields(nil)
)

func newDiscard() *logrus.Logger {
	return &logrus.Logger{
		Out:       io.Discard,
		Formatter: new(logrus.TextFormatter),
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.PanicLevel,
	}
}

// Enabled reports whether log output is currently persisted.
func Enabled() bool {
	return enabled
}

// Path is the log file for the given day.
func Path(day time.Time) string {
	return filepath.Join(where.Logs(), day.Format("2006-01-02")+".log")
}

// Setup opens today's log file when logs.write is set. logs.level and logs.json pick the level and format.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		logger = newDiscard()
		base = logger.WithFields(nil)
		return nil
	}

	f, err := filesystem.API().OpenFile(Path(time.Now()), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	l := logrus.New()
	l.SetOutput(f)

	if viper.GetBool(key.LogsJson) {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	logger = l
	base = l.WithFields(Fields{"pid": os.Getpid(), "version": constant.Version})
	return nil
}

// With returns an entry carrying the given fields.
func With(fields Fields) *logrus.Entry {
	return base.WithFields(fields)
}

func Error(args ...interface{})                 { base.Error(args...) }
func Errorf(format string, args ...interface{}) { base.Errorf(format, args...) }
func Warn(args ...interface{})                  { base.Warn(args...) }
func Warnf(format string, args ...interface{})  { base.Warnf(format, args...) }
func Info(args ...interface{})                  { base.Info(args...) }
func Infof(format string, args ...interface{})  { base.Infof(format, args...) }
func Debug(args ...interface{})                 { base.Debug(args...) }
func Debugf(format string, args ...interface{}) { base.Debugf(format, args...) }
func Tracef(format string, args ...interface{}) { base.Tracef(format, args...) }
