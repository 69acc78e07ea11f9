package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logger zerolog.Logger
	once   sync.Once
	level  zerolog.Level = zerolog.DebugLevel
	out    io.Writer     = os.Stderr
)

// Setup sets the level and writer Get builds the logger with. It only
// has an effect before the first call to Get. Unknown levels keep debug.
func Setup(lvl string, w io.Writer) {
	if l, err := zerolog.ParseLevel(lvl); err == nil && lvl != "" {
		level = l
	}
	if w != nil {
		out = w
	}
}

func Get() zerolog.Logger {
	once.Do(func() {
		logLevel := level
		if os.Getenv("STAFFDB_NO_DEBUG") != "" && logLevel < zerolog.InfoLevel {
			logLevel = zerolog.InfoLevel
		}

		console := zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}

		logger = zerolog.New(console).Level(logLevel).With().Timestamp().Caller().Logger()
	})

	return logger
}
