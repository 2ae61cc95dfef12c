package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the process-wide structured logger. It writes to stderr until Init
// configures it.
var Logger = logrus.New()

var once sync.Once

type Options struct {
	Level  string
	Format string
	// File enables rotation through lumberjack when set. Output still goes to
	// stderr as well.
	File string
}

func Init(opts Options) {
	once.Do(func() {
		level, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			level = logrus.InfoLevel
		}
		Logger.SetLevel(level)

		if opts.Format == "json" {
			Logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
		} else {
			Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		}

		if opts.File != "" {
			rotating := &lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}
			Logger.SetOutput(io.MultiWriter(os.Stderr, rotating))
		}

		Logger.WithFields(logrus.Fields{
			"level": level.String(),
			"file":  opts.File,
		}).Info("logger initialized")
	})
}

// Discard silences the logger; tests call it to keep output clean.
func Discard() {
	Logger.SetOutput(io.Discard)
}
