// logger.go
// Package pixelnormalization provides shared utilities for the go_pixel_normalization package.
package pixelnormalization

import (
	"github.com/baditaflorin/go_pixel_normalization/internal/adapters/logger"
	"github.com/baditaflorin/go_pixel_normalization/internal/ports"
)

// createDefaultLogger creates and returns a default logger instance.
func createDefaultLogger() (ports.Logger, error) {
	return logger.NewStdLogger()
}
