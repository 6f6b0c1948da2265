package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/htmf/hackathon-api/internal/config"
)

// Init replaces zap's global logger. Production environments get JSON output,
// everything else gets the colored development encoder.
func Init(environment, level string) error {
	if level != "" {
		if err := config.SetLogLevel(level); err != nil {
			return fmt.Errorf("config.SetLogLevel -> %w", err)
		}
	}

	var zapConf zap.Config
	if environment == "production" {
		zapConf = zap.NewProductionConfig()
	} else {
		zapConf = zap.NewDevelopmentConfig()
		zapConf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapConf.Level = config.AtomicLevel

	l, err := zapConf.Build()
	if err != nil {
		return fmt.Errorf("zapConf.Build -> %w", err)
	}

	zap.ReplaceGlobals(l)

	return nil
}
