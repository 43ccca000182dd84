// Package logger 提供应用程序统一日志功能
// 基于logrus实现，支持控制台和文件双输出
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/weiwangfds/filevault/config"
)

// Logger 全局日志实例
var Logger *logrus.Logger

// Init 初始化日志系统
// 参数:
//   - cfg: 日志配置，如果为nil则使用默认配置
//
// 返回值:
//   - error: 初始化错误
func Init(cfg *config.LogConfig) error {
	if cfg == nil {
		cfg = &config.LogConfig{
			Level:    "info",
			Format:   "text",
			Output:   "both",
			FilePath: "logs/app.log",
		}
	}

	Logger = logrus.New()

	// 设置日志级别
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
		Logger.Warnf("Invalid log level '%s', falling back to 'info'", cfg.Level)
	}
	Logger.SetLevel(level)

	// 设置日志格式
	switch cfg.Format {
	case "json":
		Logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	default:
		Logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	// 设置输出
	if err := setupOutput(cfg); err != nil {
		return err
	}

	// 设置Gin的日志输出
	setupGinLogger()

	Logger.Info("Logger initialized")
	return nil
}

// setupOutput 设置日志输出
func setupOutput(cfg *config.LogConfig) error {
	switch cfg.Output {
	case "console":
		Logger.SetOutput(os.Stdout)
		return nil
	case "file":
		logFile, err := openLogFile(cfg.FilePath)
		if err != nil {
			return err
		}
		Logger.SetOutput(logFile)
		return nil
	case "both":
		logFile, err := openLogFile(cfg.FilePath)
		if err != nil {
			return err
		}
		Logger.SetOutput(io.MultiWriter(os.Stdout, logFile))
		return nil
	default:
		Logger.SetOutput(os.Stdout)
		Logger.Warnf("Invalid log output '%s', falling back to 'console'", cfg.Output)
		return nil
	}
}

// openLogFile 打开日志文件，目录不存在时自动创建
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
}

// setupGinLogger 设置Gin的日志输出
func setupGinLogger() {
	ginWriter := &GinLogWriter{logger: Logger}
	gin.DefaultWriter = ginWriter
	gin.DefaultErrorWriter = ginWriter
}

// GinLogWriter Gin日志写入器
type GinLogWriter struct {
	logger *logrus.Logger
}

// Write 实现io.Writer接口
func (w *GinLogWriter) Write(p []byte) (n int, err error) {
	w.logger.Info(string(p))
	return len(p), nil
}

// GetLogger 获取日志实例
func GetLogger() *logrus.Logger {
	if Logger == nil {
		if err := Init(nil); err != nil {
			logrus.Error("Failed to initialize logger, using standard logger")
			return logrus.StandardLogger()
		}
	}
	return Logger
}

// Debugf 记录格式化调试级别日志
func Debugf(format string, args ...interface{}) {
	GetLogger().Debugf(format, args...)
}

// Info 记录信息级别日志
func Info(args ...interface{}) {
	GetLogger().Info(args...)
}

// Infof 记录格式化信息级别日志
func Infof(format string, args ...interface{}) {
	GetLogger().Infof(format, args...)
}

// Warnf 记录格式化警告级别日志
func Warnf(format string, args ...interface{}) {
	GetLogger().Warnf(format, args...)
}

// Errorf 记录格式化错误级别日志
func Errorf(format string, args ...interface{}) {
	GetLogger().Errorf(format, args...)
}

// Fatalf 记录格式化致命级别日志并退出程序
func Fatalf(format string, args ...interface{}) {
	GetLogger().Fatalf(format, args...)
}

// WithFields 添加多个字段到日志条目
func WithFields(fields logrus.Fields) *logrus.Entry {
	return GetLogger().WithFields(fields)
}
