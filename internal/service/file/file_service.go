// Package service 提供文件上传与管理的业务逻辑
// 负责上传校验、唯一命名、落盘和文件记录创建，以及重命名和预览信息
package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/weiwangfds/filevault/config"
	"github.com/weiwangfds/filevault/internal/database"
	apperrors "github.com/weiwangfds/filevault/internal/errors"
	"github.com/weiwangfds/filevault/internal/fileutil"
	"github.com/weiwangfds/filevault/internal/logger"
	"github.com/weiwangfds/filevault/internal/store"
)

// UploadRequest 上传请求参数
type UploadRequest struct {
	FileName     string    // 原始文件名
	CustomName   string    // 自定义显示名（可选，不含扩展名）
	ContentType  string    // 客户端声明的MIME类型（可选）
	Data         io.Reader // 文件数据流
	UploaderID   int       // 上传者ID
	UploaderName string    // 上传者名称
}

// FilePreviewModel 文件预览信息
type FilePreviewModel struct {
	ID                uint   `json:"id"`
	FileName          string `json:"file_name"`
	Extension         string `json:"extension"`
	ContentType       string `json:"content_type"`
	FileSize          int64  `json:"file_size"`
	FileSizeFormatted string `json:"file_size_formatted"`
	PreviewURL        string `json:"preview_url,omitempty"`
	DownloadURL       string `json:"download_url"`
	CanPreview        bool   `json:"can_preview"`
	PreviewType       string `json:"preview_type"`
	UploaderName      string `json:"uploader_name"`
	UploadedAt        string `json:"uploaded_at"`
}

// ThumbnailGenerator 缩略图生成器接口
// 由外部协作方实现；生成失败或未配置时不算错误，预览层回退到分类图标
type ThumbnailGenerator interface {
	// Generate 为指定的物理文件生成缩略图，返回缩略图路径
	Generate(storagePath, storedName string) (string, error)
}

// FileService 文件服务接口
// 提供文件上传、重命名、预览和内容读取功能
// 软删除、还原等生命周期操作见recycle包
type FileService interface {
	// UploadFile 上传文件
	// 校验大小与类型，生成唯一存储名，先落盘再建记录；
	// 落盘失败时不产生任何记录
	UploadFile(req *UploadRequest) (*database.FileRecord, error)

	// RenameFile 重命名文件（仅限活跃文件）
	// 新名称缺少扩展名时自动补全原扩展名
	RenameFile(id uint, newFileName string, actorID int) (*database.FileRecord, error)

	// GetFileByID 获取活跃文件记录，回收站中的文件视为不存在
	GetFileByID(id uint) (*database.FileRecord, error)

	// GetFilePreview 获取文件预览信息
	GetFilePreview(id uint) (*FilePreviewModel, error)

	// GetFileContent 获取文件内容流，调用方负责关闭
	GetFileContent(id uint) (*database.FileRecord, io.ReadCloser, error)
}

// fileService 文件服务实现
type fileService struct {
	store    store.FileStore
	cfg      config.FileConfig
	thumbs   ThumbnailGenerator
	now      func() time.Time
	newToken func() string
}

// NewFileService 创建文件服务实例
// 确保上传目录及thumbnails、temp子目录存在
func NewFileService(st store.FileStore, cfg config.FileConfig, thumbs ThumbnailGenerator) (FileService, error) {
	for _, dir := range []string{
		cfg.UploadPath,
		filepath.Join(cfg.UploadPath, config.ThumbnailDir),
		filepath.Join(cfg.UploadPath, config.TempDir),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
		}
	}

	logger.Infof("File service initialized. Upload path: %s, max file size: %d bytes, allowed types: %v",
		cfg.UploadPath, cfg.MaxFileSize, cfg.AllowedFileTypes)

	return &fileService{
		store:    st,
		cfg:      cfg,
		thumbs:   thumbs,
		now:      time.Now,
		newToken: fileutil.NewToken,
	}, nil
}

// UploadFile 上传文件
func (s *fileService) UploadFile(req *UploadRequest) (*database.FileRecord, error) {
	logger.Infof("Starting file upload: %s (uploader: %d)", req.FileName, req.UploaderID)

	originalName := filepath.Base(req.FileName)
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" || !s.cfg.IsAllowedFileType(ext) {
		logger.Warnf("Rejected upload %s: extension %q is not allowed", originalName, ext)
		return nil, apperrors.NewWithDetails(apperrors.ErrFileTypeNotAllowed, ext)
	}

	// 显示名：提供了自定义名则拼接扩展名，否则使用原名
	fileName := originalName
	if strings.TrimSpace(req.CustomName) != "" {
		fileName = strings.TrimSpace(req.CustomName) + ext
	}

	// 先写入临时文件以确定实际大小
	tempFile, err := os.CreateTemp(filepath.Join(s.cfg.UploadPath, config.TempDir), "upload_*")
	if err != nil {
		logger.Errorf("Failed to create temp file for %s: %v", originalName, err)
		return nil, apperrors.Wrap(apperrors.ErrFileWriteFailed, err)
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	fileSize, err := io.Copy(tempFile, req.Data)
	if err != nil {
		logger.Errorf("Failed to write upload data for %s: %v", originalName, err)
		return nil, apperrors.Wrap(apperrors.ErrFileWriteFailed, err)
	}

	if fileSize == 0 {
		logger.Warnf("Rejected upload %s: empty file", originalName)
		return nil, apperrors.New(apperrors.ErrFileSizeInvalid)
	}
	if fileSize > s.cfg.MaxFileSize {
		logger.Warnf("Rejected upload %s: size %d exceeds limit %d", originalName, fileSize, s.cfg.MaxFileSize)
		return nil, apperrors.NewWithDetails(apperrors.ErrFileSizeTooLarge,
			fmt.Sprintf("size %d exceeds limit %d", fileSize, s.cfg.MaxFileSize))
	}

	// 生成唯一存储名并移动到最终位置
	now := s.now()
	storedName := fileutil.GenerateStoredNameWithToken(fileName, now, s.newToken())
	storagePath := filepath.Join(s.cfg.UploadPath, storedName)

	if err := moveFile(tempFile.Name(), storagePath); err != nil {
		logger.Errorf("Failed to move upload %s to storage: %v", originalName, err)
		return nil, apperrors.Wrap(apperrors.ErrFileWriteFailed, err)
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = detectContentType(storagePath, ext)
	}

	// 图片类文件生成缩略图，失败只记录日志
	thumbnailPath := ""
	if s.thumbs != nil && fileutil.IsImageFile(ext) {
		if tp, err := s.thumbs.Generate(storagePath, storedName); err != nil {
			logger.Warnf("Thumbnail generation failed for %s: %v", storedName, err)
		} else {
			thumbnailPath = tp
		}
	}

	rec := &database.FileRecord{
		StoredName:    storedName,
		FileName:      fileName,
		OriginalName:  originalName,
		Extension:     ext,
		ContentType:   contentType,
		FileSize:      fileSize,
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		UploaderID:    req.UploaderID,
		UploaderName:  req.UploaderName,
		IsPublic:      true,
		IsDeleted:     false,
		UploadedAt:    now,
		UpdatedAt:     now,
	}

	if err := s.store.Insert(rec); err != nil {
		// 数据库写入失败时清理已落盘的文件，避免孤儿文件
		logger.Errorf("Failed to insert file record for %s, cleaning up: %v", storedName, err)
		os.Remove(storagePath)
		if thumbnailPath != "" {
			os.Remove(thumbnailPath)
		}
		return nil, err
	}

	rec.PublicURL = fmt.Sprintf("/api/v1/files/%d/download", rec.ID)
	if err := s.store.Update(rec); err != nil {
		logger.Warnf("Failed to set public URL for file %d: %v", rec.ID, err)
	}

	logger.Infof("File upload completed: %s (id: %d, size: %d)", storedName, rec.ID, fileSize)
	return rec, nil
}

// RenameFile 重命名文件
func (s *fileService) RenameFile(id uint, newFileName string, actorID int) (*database.FileRecord, error) {
	newFileName = strings.TrimSpace(newFileName)
	if newFileName == "" {
		return nil, apperrors.New(apperrors.ErrFileNameInvalid)
	}

	rec, err := s.GetFileByID(id)
	if err != nil {
		return nil, err
	}

	// 保留原扩展名
	if !strings.HasSuffix(strings.ToLower(newFileName), rec.Extension) {
		newFileName += rec.Extension
	}

	rec.FileName = newFileName
	rec.UpdatedAt = s.now()
	if err := s.store.Update(rec); err != nil {
		return nil, err
	}

	logger.Infof("File %d renamed to %s by actor %d", id, newFileName, actorID)
	return rec, nil
}

// GetFileByID 获取活跃文件记录
func (s *fileService) GetFileByID(id uint) (*database.FileRecord, error) {
	rec, err := s.store.Get(id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.New(apperrors.ErrFileNotFound)
		}
		return nil, err
	}
	if rec.IsDeleted {
		return nil, apperrors.New(apperrors.ErrFileNotFound)
	}
	return rec, nil
}

// GetFilePreview 获取文件预览信息
func (s *fileService) GetFilePreview(id uint) (*FilePreviewModel, error) {
	rec, err := s.GetFileByID(id)
	if err != nil {
		return nil, err
	}

	previewURL := ""
	if fileutil.IsImageFile(rec.Extension) || rec.Extension == ".pdf" {
		previewURL = rec.PublicURL
	}

	return &FilePreviewModel{
		ID:                rec.ID,
		FileName:          rec.FileName,
		Extension:         rec.Extension,
		ContentType:       rec.ContentType,
		FileSize:          rec.FileSize,
		FileSizeFormatted: fileutil.FormatFileSize(rec.FileSize),
		PreviewURL:        previewURL,
		DownloadURL:       rec.PublicURL,
		CanPreview:        fileutil.CanPreview(rec.Extension),
		PreviewType:       fileutil.GetPreviewType(rec.Extension),
		UploaderName:      rec.UploaderName,
		UploadedAt:        rec.UploadedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

// GetFileContent 获取文件内容流
func (s *fileService) GetFileContent(id uint) (*database.FileRecord, io.ReadCloser, error) {
	rec, err := s.GetFileByID(id)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(rec.StoragePath)
	if err != nil {
		logger.Errorf("Failed to open stored file %s: %v", rec.StoragePath, err)
		return nil, nil, apperrors.Wrap(apperrors.ErrFileWriteFailed, err)
	}
	return rec, f, nil
}

// detectContentType 根据文件内容探测MIME类型，失败时回退到扩展名映射
func detectContentType(path, ext string) string {
	if mt, err := mimetype.DetectFile(path); err == nil {
		return mt.String()
	}
	return fileutil.GetContentType(ext)
}

// moveFile 移动文件
// 优先重命名，跨文件系统时回退到复制加删除
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}
	return os.Remove(src)
}
