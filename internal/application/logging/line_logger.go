package logging

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// LineLogger writes one timestamped line per entry to a fixed destination.
// The CLI picks the destination from the logging config; tests pass a buffer.
type LineLogger struct {
	MinLevel string
	Out      io.Writer
}

var levelRank = map[string]int{
	"DEBUG": 0,
	"INFO":  1,
	"WARN":  2,
	"ERROR": 3,
}

// NewLineLogger creates a logger filtering below minLevel. The level is
// case-insensitive; unknown levels fall back to INFO.
func NewLineLogger(out io.Writer, minLevel string) *LineLogger {
	minLevel = strings.ToUpper(minLevel)
	if _, ok := levelRank[minLevel]; !ok {
		minLevel = "INFO"
	}
	return &LineLogger{MinLevel: minLevel, Out: out}
}

func (l *LineLogger) Log(level, message string, metadata map[string]interface{}) {
	if levelRank[level] < levelRank[l.MinLevel] {
		return
	}

	var sb strings.Builder
	sb.WriteString(time.Now().UTC().Format(time.RFC3339))
	sb.WriteString(" [")
	sb.WriteString(level)
	sb.WriteString("] ")
	sb.WriteString(message)

	if len(metadata) > 0 {
		keys := make([]string, 0, len(metadata))
		for k := range metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf(" %s=%v", k, metadata[k]))
		}
	}

	fmt.Fprintln(l.Out, sb.String())
}
