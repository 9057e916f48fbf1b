package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// timestampLayout renders the bracketed time column of the operator format.
const timestampLayout = "2006-01-02 15:04:05"

// Setup initializes process-wide logging for a service.
//
// An empty level leaves the current global logger untouched. Otherwise a
// single operator-format writer on stderr replaces the global logger, the
// global threshold is set, and "Logging initialized." is logged at info.
// Calling Setup again replaces the writer instead of adding one.
func Setup(level, module string) error {
	return SetupWithWriter(os.Stderr, level, module)
}

// SetupWithWriter is Setup with an explicit destination.
func SetupWithWriter(w io.Writer, level, module string) error {
	if strings.TrimSpace(level) == "" {
		return nil
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(lvl)
	l := NewWithWriter(w, lvl, module)
	SetGlobalLogger(l)
	l.Info("Logging initialized.")
	return nil
}

// newConsoleWriter builds the operator format:
//
//	[timestamp] LEVEL module [file:func:line] (pid): message key=value ...
func newConsoleWriter(out io.Writer, noColor bool) zerolog.ConsoleWriter {
	pid := os.Getpid()
	return zerolog.ConsoleWriter{
		Out:     out,
		NoColor: noColor,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			FieldComponent,
			zerolog.CallerFieldName,
			FieldPID,
			zerolog.MessageFieldName,
		},
		FieldsExclude: []string{FieldComponent, FieldPID},
		FormatTimestamp: func(i interface{}) string {
			s, _ := i.(string)
			if t, err := time.Parse(zerolog.TimeFieldFormat, s); err == nil {
				s = t.Format(timestampLayout)
			}
			return "[" + s + "]"
		},
		FormatLevel: func(i interface{}) string {
			if i == nil {
				return "-"
			}
			return strings.ToUpper(fmt.Sprintf("%s", i))
		},
		FormatCaller: func(i interface{}) string {
			if i == nil {
				return "[-]"
			}
			return fmt.Sprintf("[%s]", i)
		},
		FormatPartValueByName: func(i interface{}, name string) string {
			switch name {
			case FieldPID:
				if i == nil {
					return fmt.Sprintf("(%d):", pid)
				}
				return fmt.Sprintf("(%v):", i)
			default:
				if i == nil {
					return "-"
				}
				return fmt.Sprintf("%s", i)
			}
		},
		FormatMessage: func(i interface{}) string {
			if i == nil {
				return ""
			}
			return fmt.Sprintf("%s", i)
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s=", i)
		},
		FormatFieldValue: func(i interface{}) string {
			if i == nil {
				return ""
			}
			return fmt.Sprintf("%s", i)
		},
	}
}
