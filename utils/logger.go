package utils

import (
	"go.uber.org/zap"
)

// InitLogger installs the global zap logger. Development mode switches to
// the console encoder with debug level.
func InitLogger(development bool) (*zap.Logger, error) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	logger, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
