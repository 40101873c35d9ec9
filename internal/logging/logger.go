package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New は LOG_LEVEL 相当の文字列からサービス名付きの zap ロガーを構築する。
// debug の場合は開発向け設定、それ以外は JSON 出力の本番向け設定を使う。
func New(level, service string) (*zap.Logger, error) {
	level = strings.ToLower(strings.TrimSpace(level))

	var cfg zap.Config
	if level == "debug" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		if parsed, err := zapcore.ParseLevel(level); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(parsed)
		}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	if service != "" {
		logger = logger.Named(service)
	}
	return logger, nil
}
