package logger

import (
	"go.uber.org/zap"
)

// New returns a zap logger configured for the given environment.
// Production uses JSON output, anything else gets the console encoder.
func New(appEnv string) (*zap.Logger, error) {
	if appEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
