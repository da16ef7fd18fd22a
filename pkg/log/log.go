package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

var entry = logrus.NewEntry(logrus.StandardLogger())

var toFile bool

// Init configures the standard logger. An empty file keeps records on stderr.
func Init(file, level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetFormatter(&prefixed.TextFormatter{
		DisableSorting:  true,
		FullTimestamp:   true,
		ForceFormatting: true,
	})
	logrus.SetLevel(lvl)
	logrus.SetOutput(os.Stderr)
	toFile = false
	if file == "" {
		return nil
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err == nil {
		logrus.SetOutput(f)
		toFile = true
	} else {
		logrus.Warnf("log %v, using default stderr", err)
	}
	return nil
}

// SetOutput redirects records, mainly for tests.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

// WithField attaches a field to every later record.
func WithField(key string, value interface{}) {
	entry = entry.WithField(key, value)
}

func Debugf(format string, args ...interface{}) {
	entry.Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	entry.Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	entry.Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	entry.Errorf(format, args...)
}

// ToFile reports whether records go to a log file rather than stderr.
func ToFile() bool {
	return toFile
}
