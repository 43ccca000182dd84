// Package fileutil 提供文件分类、类型和命名相关的工具函数
package fileutil

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// 文件分类
const (
	CategoryImage    = "image"
	CategoryDocument = "document"
	CategoryVideo    = "video"
	CategoryAudio    = "audio"
	CategoryArchive  = "archive"
	CategoryOther    = "other"
)

var (
	imageExtensions    = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg"}
	documentExtensions = []string{".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".txt", ".csv"}
	videoExtensions    = []string{".mp4", ".avi", ".mov", ".wmv", ".flv", ".mkv"}
	audioExtensions    = []string{".mp3", ".wav", ".flac", ".aac", ".ogg"}
	archiveExtensions  = []string{".zip", ".rar", ".7z", ".tar", ".gz"}

	previewableExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".pdf"}
	officeExtensions      = []string{".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx"}
)

// contentTypes 扩展名到MIME类型的映射
var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".svg":  "image/svg+xml",

	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".xml":  "application/xml",
	".json": "application/json",

	".mp4": "video/mp4",
	".avi": "video/x-msvideo",
	".mov": "video/quicktime",
	".wmv": "video/x-ms-wmv",

	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".aac":  "audio/aac",

	".zip": "application/zip",
	".rar": "application/x-rar-compressed",
	".7z":  "application/x-7z-compressed",
}

// contains 检查扩展名是否在列表中（大小写不敏感）
func contains(list []string, ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range list {
		if e == ext {
			return true
		}
	}
	return false
}

// IsImageFile 判断是否图片类扩展名
func IsImageFile(ext string) bool {
	return contains(imageExtensions, ext)
}

// IsDocumentFile 判断是否文档类扩展名
func IsDocumentFile(ext string) bool {
	return contains(documentExtensions, ext)
}

// IsVideoFile 判断是否视频类扩展名
func IsVideoFile(ext string) bool {
	return contains(videoExtensions, ext)
}

// IsAudioFile 判断是否音频类扩展名
func IsAudioFile(ext string) bool {
	return contains(audioExtensions, ext)
}

// IsArchiveFile 判断是否压缩包类扩展名
func IsArchiveFile(ext string) bool {
	return contains(archiveExtensions, ext)
}

// IsOfficeDocument 判断是否Office文档扩展名
func IsOfficeDocument(ext string) bool {
	return contains(officeExtensions, ext)
}

// CanPreview 判断扩展名对应的文件能否在浏览器中预览
func CanPreview(ext string) bool {
	return contains(previewableExtensions, ext)
}

// GetCategory 根据扩展名返回文件分类
// 分类顺序与统计口径一致：image、document、video、audio、archive，其余为other
func GetCategory(ext string) string {
	switch {
	case IsImageFile(ext):
		return CategoryImage
	case IsDocumentFile(ext):
		return CategoryDocument
	case IsVideoFile(ext):
		return CategoryVideo
	case IsAudioFile(ext):
		return CategoryAudio
	case IsArchiveFile(ext):
		return CategoryArchive
	default:
		return CategoryOther
	}
}

// GetPreviewType 返回前端预览组件使用的类型标识
func GetPreviewType(ext string) string {
	switch {
	case IsImageFile(ext):
		return "image"
	case strings.ToLower(ext) == ".pdf":
		return "pdf"
	case IsOfficeDocument(ext):
		return "office"
	case IsVideoFile(ext):
		return "video"
	case IsAudioFile(ext):
		return "audio"
	default:
		return "unknown"
	}
}

// GetContentType 根据扩展名返回MIME类型，未知类型返回二进制流
func GetContentType(ext string) string {
	if ct, ok := contentTypes[strings.ToLower(ext)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// FormatFileSize 格式化文件大小为可读字符串（1024进制）
func FormatFileSize(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}

// NewToken 生成8位十六进制随机令牌
func NewToken() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// GenerateStoredName 为文件生成唯一的物理存储名
// 格式: <清洗后的原名>_<yyyyMMdd_HHmmss>_<8位随机令牌><扩展名>
// 时间戳加随机令牌保证实际唯一，无需查库确认
func GenerateStoredName(fileName string, now time.Time) string {
	return GenerateStoredNameWithToken(fileName, now, NewToken())
}

// GenerateStoredNameWithToken 使用指定令牌生成物理存储名，供测试注入
func GenerateStoredNameWithToken(fileName string, now time.Time, token string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	timestamp := now.Format("20060102_150405")
	return SanitizeFileName(base) + "_" + timestamp + "_" + token + ext
}

// SanitizeFileName 清洗文件名中不适合落盘的字符
func SanitizeFileName(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
	)
	sanitized := replacer.Replace(name)
	if sanitized == "" {
		sanitized = "file"
	}
	return sanitized
}
