package utils

import (
	"io"
	"os"
	"path"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const timeFormat = "2006-01-02 15:04:05"

// NewLogger returns a console logger writing "time|level|file:line|msg"
// style lines to w. Colors are only used when w is a terminal.
func NewLogger(w io.Writer, debug bool) zerolog.Logger {
	cw := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !isTerminal(w),
		TimeFormat: timeFormat,
		FormatCaller: func(i any) string {
			s, ok := i.(string)
			if !ok {
				return ""
			}
			return path.Base(s)
		},
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(cw).Level(level).With().Timestamp().Caller().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
