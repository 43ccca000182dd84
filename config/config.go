// Package config 提供应用程序配置管理
// 基于viper加载配置文件和环境变量，所有配置项以显式结构体传入各组件
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用程序总配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	File     FileConfig     `mapstructure:"file"`
	Cleanup  CleanupConfig  `mapstructure:"cleanup"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig HTTP服务器配置
type ServerConfig struct {
	Port         int `mapstructure:"port"`          // 监听端口
	ReadTimeout  int `mapstructure:"read_timeout"`  // 读超时（秒）
	WriteTimeout int `mapstructure:"write_timeout"` // 写超时（秒）
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`            // 数据库驱动，目前支持sqlite
	DSN             string `mapstructure:"dsn"`               // 数据源名称
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	MaxOpenConns    int    `mapstructure:"max_open_conns"`    // 最大打开连接数
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 连接最大生存时间（秒）
}

// FileConfig 文件上传配置
type FileConfig struct {
	UploadPath       string   `mapstructure:"upload_path"`        // 上传文件根目录
	MaxFileSize      int64    `mapstructure:"max_file_size"`      // 单文件大小上限（字节）
	AllowedFileTypes []string `mapstructure:"allowed_file_types"` // 允许的文件扩展名列表（小写，带点）
}

// CleanupConfig 文件清理配置
type CleanupConfig struct {
	RecycleBinRetentionDays int  `mapstructure:"recycle_bin_retention_days"` // 回收站保留天数
	FileRetentionDays       int  `mapstructure:"file_retention_days"`        // 文件总保留天数
	EnableAutoCleanup       bool `mapstructure:"enable_auto_cleanup"`        // 是否启用自动清理
	IntervalHours           int  `mapstructure:"interval_hours"`             // 清理任务执行间隔（小时）
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`     // 日志级别 (debug, info, warn, error)
	Format   string `mapstructure:"format"`    // 日志格式 (json, text)
	Output   string `mapstructure:"output"`    // 输出方式 (console, file, both)
	FilePath string `mapstructure:"file_path"` // 日志文件路径
}

// ThumbnailDir 缩略图子目录名
const ThumbnailDir = "thumbnails"

// TempDir 临时文件子目录名
const TempDir = "temp"

// Load 加载配置
// 依次读取配置文件（config.yaml）和FILEVAULT_前缀的环境变量
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("FILEVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// 配置文件缺失时使用默认值，其余错误向上返回
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	normalize(&cfg)
	return &cfg, nil
}

// setDefaults 设置默认配置
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 60)
	v.SetDefault("server.write_timeout", 60)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/filevault.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 3600)

	v.SetDefault("file.upload_path", "uploads")
	v.SetDefault("file.max_file_size", 52428800) // 50MB
	v.SetDefault("file.allowed_file_types", []string{
		".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg",
		".pdf",
		".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
		".txt", ".csv", ".xml", ".json",
		".mp4", ".avi", ".mov", ".wmv",
		".mp3", ".wav", ".flac", ".aac",
		".zip", ".rar", ".7z",
	})

	v.SetDefault("cleanup.recycle_bin_retention_days", 30)
	v.SetDefault("cleanup.file_retention_days", 365)
	v.SetDefault("cleanup.enable_auto_cleanup", true)
	v.SetDefault("cleanup.interval_hours", 24)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "both")
	v.SetDefault("log.file_path", "logs/app.log")
}

// normalize 规整配置值
// 允许AllowedFileTypes以逗号分隔的单个字符串给出（与环境变量兼容），扩展名统一转小写
func normalize(cfg *Config) {
	if len(cfg.File.AllowedFileTypes) == 1 && strings.Contains(cfg.File.AllowedFileTypes[0], ",") {
		cfg.File.AllowedFileTypes = strings.Split(cfg.File.AllowedFileTypes[0], ",")
	}
	for i, ext := range cfg.File.AllowedFileTypes {
		ext = strings.TrimSpace(strings.ToLower(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.File.AllowedFileTypes[i] = ext
	}
}

// IsAllowedFileType 检查扩展名是否在允许列表中
// 扩展名需带点，大小写不敏感，"*"表示允许所有类型
func (c FileConfig) IsAllowedFileType(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range c.AllowedFileTypes {
		if allowed == "*" || allowed == ext {
			return true
		}
	}
	return false
}
