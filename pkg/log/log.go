// Package log 构建服务使用的 zap logger。
package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New 根据级别与格式创建 logger。format 为 "console" 时使用开发配置，其余情况输出 JSON。
func New(level, format string) (*zap.Logger, error) {
	logLevel := zap.NewAtomicLevel()
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel.SetLevel(zap.InfoLevel)
	}

	var zapConfig zap.Config
	if format == "console" {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.Encoding = "json"
	}

	zapConfig.Level = logLevel
	zapConfig.OutputPaths = []string{"stdout"}
	return zapConfig.Build()
}

// OrNop 在 logger 为空时返回一个丢弃所有日志的 logger。
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
