package app

import (
	"github.com/vinayakp/wcauction/internal/config"
	"github.com/vinayakp/wcauction/internal/infrastructure/logger"
)

// InitLogger creates a new logger instance
func (a *application) InitLogger() *logger.Logger {
	return logger.NewLogger(config.GetEnvironment(), a.config.Log.Level)
}
