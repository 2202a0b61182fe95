// Package logging builds the zap loggers used across the simulation.
package logging

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// New returns a JSON production logger for ModeProduction and a colored
// console logger otherwise.
func New(mode string) (*zap.Logger, error) {
	var config zap.Config

	if mode == ModeProduction {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	}

	logger, err := config.Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build logger")
	}
	return logger, nil
}
