// Package logging builds the zerolog logger shared by the CLI, the generator
// and the MCP server.
package logging

import (
	"io"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var callerOnce sync.Once

// New returns a logger writing to w at level. Unknown levels fall back to
// info. With pretty set, output goes through a console writer.
func New(w io.Writer, level string, pretty bool) zerolog.Logger {
	callerOnce.Do(func() {
		zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
			base := filepath.Base(file)
			parent := filepath.Base(filepath.Dir(file))
			if parent != "." && parent != "" {
				return parent + "/" + base + ":" + strconv.Itoa(line)
			}
			return base + ":" + strconv.Itoa(line)
		}
	})

	out := w
	if pretty {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	zLevel, err := zerolog.ParseLevel(level)
	if err != nil || zLevel == zerolog.NoLevel {
		zLevel = zerolog.InfoLevel
	}

	l := zerolog.New(out).Level(zLevel).With().Timestamp().Logger()
	if zLevel <= zerolog.DebugLevel {
		l = l.With().Caller().Logger()
	}
	return l
}

// Nop returns a disabled logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
