package planner

import (
	"os"

	"github.com/rs/zerolog"
)

var (
	// DefaultAppName is used for config file discovery.
	DefaultAppName = "courseplanner"

	// DefaultResultLimit caps search results when the caller does not
	// request a limit of its own.
	DefaultResultLimit = 250
)

// GetLogger returns a properly configured zerolog logger instance
func GetLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
