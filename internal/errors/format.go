package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
)

// style is an ANSI SGR sequence.
type style string

const (
	styleReset  style = "\033[0m"
	styleError  style = "\033[1;31m"
	styleCode   style = "\033[1;37m"
	styleOp     style = "\033[36m"
	styleMuted  style = "\033[90m"
	styleCause  style = "\033[33m"
	styleHint   style = "\033[36m"
	detailWidth       = 72
)

// plain is set when terminal colours are off. NO_COLOR turns them off at
// startup.
var plain atomic.Bool

func init() {
	plain.Store(os.Getenv("NO_COLOR") != "")
}

// DisableColors disables ANSI color output.
func DisableColors() { plain.Store(true) }

// EnableColors enables ANSI color output.
func EnableColors() { plain.Store(false) }

func (s style) paint(text string) string {
	if plain.Load() {
		return text
	}
	return string(s) + text + string(styleReset)
}

// Format returns a multi-line error message for terminal display.
//
//	ERROR E101: Mutation of a sealed node
//
//	  shadow.AppendChild tag=4
//
//	  Sealed nodes may be shared by several tree generations...
//
//	  Hint: Clone the node and mutate the clone
func (e *TreeError) Format() string {
	var b strings.Builder

	head := "ERROR:"
	if e.Code != "" {
		head = "ERROR " + e.Code + ":"
	}
	fmt.Fprintf(&b, "\n%s %s\n\n", styleError.paint(head), styleCode.paint(e.Message))

	if where := e.location(); where != "" {
		fmt.Fprintf(&b, "  %s\n\n", where)
	}
	if e.Detail != "" {
		for _, line := range wrap(e.Detail, detailWidth) {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteByte('\n')
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, "  %s%s\n\n", styleCause.paint("Cause: "), e.Wrapped.Error())
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s%s\n", styleHint.paint("Hint: "), e.Suggestion)
	}
	return b.String()
}

func (e *TreeError) location() string {
	parts := make([]string, 0, 2)
	if e.Op != "" {
		parts = append(parts, styleOp.paint(e.Op))
	}
	if e.Tag != 0 {
		parts = append(parts, styleMuted.paint(fmt.Sprintf("tag=%d", e.Tag)))
	}
	return strings.Join(parts, " ")
}

// FormatCompact returns a single-line rendering:
// "op: code: message (tag N)".
func (e *TreeError) FormatCompact() string {
	parts := make([]string, 0, 3)
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Code != "" {
		parts = append(parts, e.Code)
	}
	parts = append(parts, e.Message)
	line := strings.Join(parts, ": ")
	if e.Tag != 0 {
		line += fmt.Sprintf(" (tag %d)", e.Tag)
	}
	return line
}

type jsonError struct {
	Code       string   `json:"code,omitempty"`
	Category   Category `json:"category"`
	Message    string   `json:"message"`
	Detail     string   `json:"detail,omitempty"`
	Op         string   `json:"op,omitempty"`
	Tag        int32    `json:"tag,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Cause      string   `json:"cause,omitempty"`
}

// FormatJSON returns the error as a JSON object.
func (e *TreeError) FormatJSON() string {
	v := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Op:         e.Op,
		Tag:        e.Tag,
		Suggestion: e.Suggestion,
	}
	if e.Wrapped != nil {
		v.Cause = e.Wrapped.Error()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Message)
	}
	return string(data)
}

// wrap breaks text into lines of at most width bytes at word boundaries.
// A word longer than width gets a line of its own.
func wrap(text string, width int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// PrintError prints a formatted error to stderr.
func PrintError(err error) {
	Fprint(os.Stderr, err)
}

// Fprint prints a formatted error to w.
func Fprint(w io.Writer, err error) {
	if te, ok := AsTreeError(err); ok {
		fmt.Fprint(w, te.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", styleError.paint("ERROR:"), err.Error())
}
