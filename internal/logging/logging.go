package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"
)

// Logger writes "[event] key=value" lines
type Logger struct {
	l     *log.Logger
	debug bool
}

// New returns a Logger writing to w. Debug events are dropped unless debug is set.
func New(w io.Writer, debug bool) *Logger {
	return &Logger{l: log.New(w, "", log.LstdFlags), debug: debug}
}

// Default logs to stderr
func Default() *Logger {
	return New(os.Stderr, false)
}

// Discard drops everything; used by tests and quiet commands
func Discard() *Logger {
	return New(io.Discard, false)
}

// Event logs a structured event
func (lg *Logger) Event(event string, details map[string]any) {
	if lg == nil {
		return
	}
	lg.l.Println(formatEvent(event, details))
}

// Debug logs an event only in debug mode
func (lg *Logger) Debug(event string, details map[string]any) {
	if lg == nil || !lg.debug {
		return
	}
	lg.l.Println(formatEvent(event, details))
}

// Error logs an event with the error attached
func (lg *Logger) Error(event string, err error, details map[string]any) {
	if lg == nil {
		return
	}
	merged := make(map[string]any, len(details)+1)
	for k, v := range details {
		merged[k] = v
	}
	merged["error"] = err
	lg.l.Println(formatEvent(event, merged))
}

func formatEvent(event string, details map[string]any) string {
	var b strings.Builder
	b.WriteString("[" + event + "]")

	// Sorted so lines are stable and greppable
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" " + k + "=" + formatValue(details[k]))
	}
	return b.String()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		if strings.ContainsAny(t, " \t") {
			return fmt.Sprintf("%q", t)
		}
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	case *time.Time:
		if t == nil {
			return "nil"
		}
		return t.Format(time.RFC3339)
	case error:
		return fmt.Sprintf("%q", t.Error())
	default:
		return fmt.Sprintf("%v", t)
	}
}
