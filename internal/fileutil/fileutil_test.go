package fileutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestGetCategory 测试文件分类
func TestGetCategory(t *testing.T) {
	cases := []struct {
		ext      string
		category string
	}{
		{".jpg", CategoryImage},
		{".PNG", CategoryImage},
		{".pdf", CategoryDocument},
		{".docx", CategoryDocument},
		{".mp4", CategoryVideo},
		{".mp3", CategoryAudio},
		{".zip", CategoryArchive},
		{".exe", CategoryOther},
		{"", CategoryOther},
	}

	for _, c := range cases {
		assert.Equal(t, c.category, GetCategory(c.ext), "extension %q", c.ext)
	}
}

// TestGetContentType 测试MIME类型映射
func TestGetContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", GetContentType(".pdf"))
	assert.Equal(t, "image/jpeg", GetContentType(".JPG"))
	assert.Equal(t, "application/octet-stream", GetContentType(".unknown"))
}

// TestGenerateStoredName 测试物理存储名生成
func TestGenerateStoredName(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 30, 45, 0, time.UTC)

	t.Run("基本格式", func(t *testing.T) {
		name := GenerateStoredNameWithToken("report.pdf", now, "abcd1234")
		assert.Equal(t, "report_20250315_103045_abcd1234.pdf", name)
	})

	t.Run("扩展名转小写", func(t *testing.T) {
		name := GenerateStoredNameWithToken("Photo.JPG", now, "abcd1234")
		assert.Equal(t, "Photo_20250315_103045_abcd1234.jpg", name)
	})

	t.Run("清洗不安全字符", func(t *testing.T) {
		name := GenerateStoredNameWithToken("my report:final?.pdf", now, "abcd1234")
		assert.Equal(t, "my_report_final__20250315_103045_abcd1234.pdf", name)
	})

	t.Run("相同时间戳不同令牌仍然唯一", func(t *testing.T) {
		a := GenerateStoredNameWithToken("report.pdf", now, "aaaaaaaa")
		b := GenerateStoredNameWithToken("report.pdf", now, "bbbbbbbb")
		assert.NotEqual(t, a, b)
	})

	t.Run("随机令牌长度为8", func(t *testing.T) {
		assert.Len(t, NewToken(), 8)
	})
}

// TestSanitizeFileName 测试文件名清洗
func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "a_b_c", SanitizeFileName("a/b\\c"))
	assert.Equal(t, "file", SanitizeFileName(""))
}

// TestFormatFileSize 测试大小格式化
func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.0 KiB", FormatFileSize(1024))
}
