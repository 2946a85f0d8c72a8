package debug

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"text2midi/theme"
)

var (
	mu     sync.Mutex
	logger = log.NewWithOptions(io.Discard, log.Options{})

	// LogEvery counters, keyed by category+format
	counters = make(map[string]int)
)

// Enable routes log output to w at the given level ("debug", "info", "warn", "error").
// Level and prefix colors come from th; a nil theme keeps the library defaults.
func Enable(w io.Writer, level string, th *theme.Theme) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	l := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
	})
	if th != nil {
		l.SetStyles(styles(th))
	}

	mu.Lock()
	defer mu.Unlock()
	logger = l
	counters = make(map[string]int)
	return nil
}

// Disable drops all further log output
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	logger = log.NewWithOptions(io.Discard, log.Options{})
}

// Logger returns the process logger tagged with a category prefix
func Logger(category string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger.WithPrefix(category)
}

// Log writes a debug-level message under a category
func Log(category, format string, args ...any) {
	Logger(category).Debugf(format, args...)
}

// LogEvery logs only every N calls (use for per-row events)
func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if n > 0 && count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}

func styles(th *theme.Theme) *log.Styles {
	s := log.DefaultStyles()
	s.Levels[log.DebugLevel] = s.Levels[log.DebugLevel].Foreground(th.Muted())
	s.Levels[log.InfoLevel] = s.Levels[log.InfoLevel].Foreground(th.Accent())
	s.Levels[log.WarnLevel] = s.Levels[log.WarnLevel].Foreground(th.Warning())
	s.Levels[log.ErrorLevel] = s.Levels[log.ErrorLevel].Foreground(th.Active())
	s.Prefix = s.Prefix.Foreground(th.FG())
	s.Key = s.Key.Foreground(th.Cursor())
	return s
}
