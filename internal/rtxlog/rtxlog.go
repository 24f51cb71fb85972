// Package rtxlog sets up the structured logger shared by every core
// component. It plays the role the teacher's log.go / textcolor.go pair
// play for Direwolf, but leans on a real logging library instead of
// hand-rolled ANSI color codes.
package rtxlog

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"
)

// Logger is the structured logger type shared across packages.
type Logger = log.Logger

// New returns a logger writing to w, prefixed with name. Pass os.Stderr
// for interactive use.
func New(w io.Writer, name string) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          name,
	})
	return l
}

// DailyFile opens (creating if necessary) a log file named according to
// pattern under dir, rotated by calendar day.
//
// pattern follows strftime syntax, e.g. "rtx-%Y%m%d.log", mirroring the
// teacher's log_init daily_names option.
func DailyFile(dir, pattern string, when time.Time) (*os.File, error) {
	f, err := strftime.New(pattern)
	if err != nil {
		return nil, err
	}

	name := f.FormatString(when)
	path := filepath.Join(dir, name)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
