package application

import "log/slog"

// ResolveLogger returns logger, or the process default when a use case was
// built without one.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
