package stagehand

import "log/slog"

// pkgLogger is nil until SetLogger is called; logger falls back to the
// process default so a late slog.SetDefault still applies.
var pkgLogger *slog.Logger

// SetLogger replaces the logger used for frame-level warnings, load errors
// and debug stats. Pass nil to return to slog.Default().
func SetLogger(l *slog.Logger) {
	pkgLogger = l
}

func logger() *slog.Logger {
	if pkgLogger != nil {
		return pkgLogger
	}
	return slog.Default().With("component", "stagehand")
}
