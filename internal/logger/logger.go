package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"
)

// Level represents the log level
type Level int

const (
	LevelDebug Level = iota // Debug information (only shown with --verbose)
	LevelInfo               // Important steps
	LevelObservation        // Capability call related
	LevelAgent              // Agent response
	LevelError              // Error messages
)

// ANSI color codes for terminal output
const (
	ColorReset   = "\033[0m"
	ColorRed     = "\033[31m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorBlue    = "\033[34m"
	ColorMagenta = "\033[35m"
	ColorCyan    = "\033[36m"
	ColorGray    = "\033[90m"
	ColorBold    = "\033[1m"
)

// Logger provides structured logging for agent runs
type Logger struct {
	writer    io.Writer
	level     Level
	showTime  bool
	colorMode bool
}

// NewLogger creates a new Logger instance
func NewLogger(w io.Writer, level Level) *Logger {
	if w == nil {
		w = os.Stdout
	}
	return &Logger{
		writer:    w,
		level:     level,
		showTime:  true,
		colorMode: true,
	}
}

// SetColorMode enables or disables colored output
func (l *Logger) SetColorMode(enabled bool) {
	l.colorMode = enabled
}

// SetShowTime enables or disables timestamp display
func (l *Logger) SetShowTime(enabled bool) {
	l.showTime = enabled
}

// Debug logs debug information (only shown in verbose mode)
func (l *Logger) Debug(format string, args ...any) {
	if l.level <= LevelDebug {
		l.log(ColorGray, "DEBUG", format, args...)
	}
}

// Info logs general information
func (l *Logger) Info(format string, args ...any) {
	if l.level <= LevelInfo {
		l.log(ColorBlue, "INFO", format, args...)
	}
}

// Warn logs recoverable protocol faults (malformed responses, unknown
// capability names). These consume an iteration but never fail the run.
func (l *Logger) Warn(format string, args ...any) {
	if l.level <= LevelInfo {
		l.log(ColorYellow, "WARN", format, args...)
	}
}

// Error logs error messages
func (l *Logger) Error(format string, args ...any) {
	l.log(ColorRed, "ERROR", format, args...)
}

// AgentResponse logs the agent's raw completion text for one iteration
func (l *Logger) AgentResponse(content string) {
	if l.level <= LevelAgent {
		l.printSection(ColorGreen, "Agent Response", content)
	}
}

// CapabilityCall logs a dispatched directive with its argument
func (l *Logger) CapabilityCall(name, argument string) {
	if l.level <= LevelObservation {
		l.printSection(ColorCyan, fmt.Sprintf("Action: %s", name), argument)
	}
}

// Observation logs the result of executing a capability
func (l *Logger) Observation(name, text string, duration time.Duration) {
	if l.level <= LevelObservation {
		header := fmt.Sprintf("Observation: %s (%s)", name, duration.Round(time.Millisecond))
		l.printSection(ColorMagenta, header, truncate(text))
	}
}

// SessionStart logs the beginning of an agent run
func (l *Logger) SessionStart(query string) {
	if l.level <= LevelAgent {
		l.printBanner(ColorCyan, "Session Started", query)
	}
}

// SessionEnd logs the completion of an agent run with statistics
func (l *Logger) SessionEnd(duration time.Duration, iterations, capabilityCalls int) {
	if l.level <= LevelAgent {
		summary := fmt.Sprintf("Duration: %s | Iterations: %d | Capability Calls: %d",
			duration.Round(time.Millisecond), iterations, capabilityCalls)
		l.printBanner(ColorGreen, "Session Completed", summary)
	}
}

// truncate limits observation output to 2 lines and 500 bytes, cutting on
// a rune boundary so multi-byte snippet text stays valid UTF-8.
func truncate(output string) string {
	const maxLines = 2
	const maxLength = 500

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	display := output
	truncatedLines := false

	if len(lines) > maxLines {
		display = strings.Join(lines[:maxLines], "\n")
		truncatedLines = true
	}

	if len(display) > maxLength {
		cut := maxLength
		for cut > 0 && !utf8.RuneStart(display[cut]) {
			cut--
		}
		display = display[:cut] + "..."
	} else if truncatedLines {
		display += "\n..."
	}

	return display
}

// log is the core logging method
func (l *Logger) log(color, level, format string, args ...any) {
	timestamp := ""
	if l.showTime {
		timestamp = time.Now().Format("15:04:05") + " "
	}

	msg := fmt.Sprintf(format, args...)

	if l.colorMode {
		fmt.Fprintf(l.writer, "%s%s[%s]%s %s\n",
			color, timestamp, level, ColorReset, msg)
	} else {
		fmt.Fprintf(l.writer, "%s[%s] %s\n", timestamp, level, msg)
	}
}

// printSection prints a formatted section with header and content
func (l *Logger) printSection(color, header, content string) {
	separator := strings.Repeat("─", 60)

	if l.colorMode {
		fmt.Fprintf(l.writer, "\n%s%s%s%s\n", ColorBold, color, header, ColorReset)
		fmt.Fprintf(l.writer, "%s%s%s\n", color, separator, ColorReset)
		fmt.Fprintf(l.writer, "%s\n", content)
		fmt.Fprintf(l.writer, "%s%s%s\n\n", color, separator, ColorReset)
	} else {
		fmt.Fprintf(l.writer, "\n%s\n%s\n%s\n%s\n\n", header, separator, content, separator)
	}
}

// printBanner prints a prominent banner for session start/end
func (l *Logger) printBanner(color, title, subtitle string) {
	separator := strings.Repeat("═", 70)

	if l.colorMode {
		fmt.Fprintf(l.writer, "\n%s%s%s%s\n", ColorBold, color, separator, ColorReset)
		fmt.Fprintf(l.writer, "%s%s  %s%s\n", ColorBold, color, title, ColorReset)
		if subtitle != "" {
			fmt.Fprintf(l.writer, "%s  %s%s\n", color, subtitle, ColorReset)
		}
		fmt.Fprintf(l.writer, "%s%s%s%s\n\n", ColorBold, color, separator, ColorReset)
	} else {
		fmt.Fprintf(l.writer, "\n%s\n  %s\n", separator, title)
		if subtitle != "" {
			fmt.Fprintf(l.writer, "  %s\n", subtitle)
		}
		fmt.Fprintf(l.writer, "%s\n\n", separator)
	}
}
