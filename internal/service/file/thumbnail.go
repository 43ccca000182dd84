package service

import (
	"io"
	"os"
	"path/filepath"
)

// copyThumbnailGenerator 占位缩略图生成器
// 将原图复制到thumbnails目录，真实的图片缩放由前端或独立服务处理
type copyThumbnailGenerator struct {
	thumbnailDir string
}

// NewCopyThumbnailGenerator 创建占位缩略图生成器
func NewCopyThumbnailGenerator(thumbnailDir string) ThumbnailGenerator {
	return &copyThumbnailGenerator{thumbnailDir: thumbnailDir}
}

// Generate 复制原图作为缩略图并返回路径
func (g *copyThumbnailGenerator) Generate(storagePath, storedName string) (string, error) {
	thumbnailPath := filepath.Join(g.thumbnailDir, storedName)

	src, err := os.Open(storagePath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(thumbnailPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(thumbnailPath)
		return "", err
	}
	return thumbnailPath, nil
}
