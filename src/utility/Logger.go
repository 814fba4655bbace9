package utility

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel converts a config level name into a LogLevel, defaulting to INFO
func ParseLogLevel(name string) LogLevel {
	switch strings.ToLower(name) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

var levelStyles = map[LogLevel]lipgloss.Style{
	DEBUG: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	INFO:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	WARN:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
	ERROR: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
}

// Logger provides logging capabilities with file rotation
type Logger struct {
	level      LogLevel
	logDir     string
	currentLog *os.File
	out        io.Writer
	mu         sync.Mutex
	mode       string // "file", "cli", "journal"
}

// NewLogger creates a new logger with the specified mode
func NewLogger(mode string, level LogLevel) *Logger {
	return NewLoggerWithDir(mode, level, "log")
}

// NewLoggerWithDir creates a logger whose file mode writes under logDir
func NewLoggerWithDir(mode string, level LogLevel, logDir string) *Logger {
	logger := &Logger{
		level:  level,
		logDir: logDir,
		out:    os.Stdout,
		mode:   mode,
	}
	if mode == "file" {
		logger.init()
	}
	return logger
}

// init initializes the logger and performs log rotation
func (l *Logger) init() {
	// Create log directory if it doesn't exist
	if err := os.MkdirAll(l.logDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
		return
	}

	// Rotate existing logs
	l.rotateLogs()

	// Open current log file
	currentLogPath := filepath.Join(l.logDir, "current.log")
	file, err := os.OpenFile(currentLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		return
	}

	l.currentLog = file
}

// rotateLogs rotates existing log files
func (l *Logger) rotateLogs() {
	archiveDir := filepath.Join(l.logDir, "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return
	}

	currentLogPath := filepath.Join(l.logDir, "current.log")

	// Check if current.log exists
	if _, err := os.Stat(currentLogPath); err == nil {
		// Shift setwallpaper-N.log up by one, dropping the oldest
		for i := 7; i >= 1; i-- {
			oldPath := filepath.Join(archiveDir, fmt.Sprintf("setwallpaper-%d.log", i))
			newPath := filepath.Join(archiveDir, fmt.Sprintf("setwallpaper-%d.log", i+1))

			if i == 7 {
				os.Remove(newPath)
			}

			if _, err := os.Stat(oldPath); err == nil {
				os.Rename(oldPath, newPath)
			}
		}

		os.Rename(currentLogPath, filepath.Join(archiveDir, "setwallpaper-1.log"))
	}
}

// log writes a log message
func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	timestamp := time.Now().Format("15:04:05.000")
	message := fmt.Sprintf(format, args...)
	logLine := fmt.Sprintf("[%s] [%s] %s\n", timestamp, level.String(), message)

	switch l.mode {
	case "file":
		if l.currentLog != nil {
			l.currentLog.WriteString(logLine)
		} else {
			fmt.Fprint(os.Stderr, logLine)
		}
	case "cli":
		l.printColoredLog(level, timestamp, message)
	default:
		// journal picks up plain stdout
		fmt.Fprint(l.out, logLine)
	}
}

// printColoredLog prints a colored log message to the console
func (l *Logger) printColoredLog(level LogLevel, timestamp, message string) {
	tag := fmt.Sprintf("[%s] [%s]", timestamp, level.String())
	if style, ok := levelStyles[level]; ok {
		tag = style.Render(tag)
	}
	fmt.Fprintf(l.out, "%s %s\n", tag, message)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput redirects cli and journal output
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

// Close closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentLog != nil {
		err := l.currentLog.Close()
		l.currentLog = nil
		return err
	}
	return nil
}

// Discard returns a logger that drops everything, for tests and embedding
func Discard() *Logger {
	l := NewLogger("journal", ERROR+1)
	l.out = io.Discard
	return l
}
