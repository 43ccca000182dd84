package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadDefaults 测试无配置文件时的默认值
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, int64(52428800), cfg.File.MaxFileSize)
	assert.Equal(t, 30, cfg.Cleanup.RecycleBinRetentionDays)
	assert.Equal(t, 365, cfg.Cleanup.FileRetentionDays)
	assert.True(t, cfg.Cleanup.EnableAutoCleanup)
	assert.Equal(t, 24, cfg.Cleanup.IntervalHours)
	assert.NotEmpty(t, cfg.File.AllowedFileTypes)
}

// TestIsAllowedFileType 测试扩展名白名单
func TestIsAllowedFileType(t *testing.T) {
	cfg := FileConfig{AllowedFileTypes: []string{".pdf", ".jpg"}}

	assert.True(t, cfg.IsAllowedFileType(".pdf"))
	assert.True(t, cfg.IsAllowedFileType(".PDF"))
	assert.False(t, cfg.IsAllowedFileType(".exe"))
	assert.False(t, cfg.IsAllowedFileType(""))

	wildcard := FileConfig{AllowedFileTypes: []string{"*"}}
	assert.True(t, wildcard.IsAllowedFileType(".anything"))
}

// TestNormalize 测试配置规整
func TestNormalize(t *testing.T) {
	t.Run("逗号分隔的字符串拆分为列表", func(t *testing.T) {
		cfg := &Config{}
		cfg.File.AllowedFileTypes = []string{".pdf, .jpg,png"}
		normalize(cfg)
		assert.Equal(t, []string{".pdf", ".jpg", ".png"}, cfg.File.AllowedFileTypes)
	})

	t.Run("扩展名统一转小写并补点", func(t *testing.T) {
		cfg := &Config{}
		cfg.File.AllowedFileTypes = []string{"PDF", ".JPG"}
		normalize(cfg)
		assert.Equal(t, []string{".pdf", ".jpg"}, cfg.File.AllowedFileTypes)
	})
}
