package config

import "go.uber.org/zap"

// AtomicLevel is shared with the logger so that a config reload can change
// verbosity at runtime.
var AtomicLevel = zap.NewAtomicLevelAt(zap.InfoLevel)

func SetLogLevel(level string) error {
	return AtomicLevel.UnmarshalText([]byte(level))
}
