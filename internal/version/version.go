// Package version reports the library build.
package version

import "log/slog"

// Name is the library's short name
const Name = "CCL"

// Version is overridden at link time with -ldflags "-X .../version.Version=..."
var Version = "0.1"

// String returns "CCL 0.1"
func String() string {
	return Name + " " + Version
}

// Describe logs the loaded library version. Nothing is logged on import;
// binaries call this once at startup.
func Describe(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Library loaded", "library", Name, "version", Version)
}
