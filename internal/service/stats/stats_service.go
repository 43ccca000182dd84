// Package service 提供文件统计聚合
package service

import (
	"github.com/weiwangfds/filevault/internal/fileutil"
	"github.com/weiwangfds/filevault/internal/store"
)

// FileStatistics 文件统计信息
// 分类计数只覆盖活跃文件；OtherFiles由总数减去四个已知分类得出，
// 保证各分类之和恒等于TotalFiles
type FileStatistics struct {
	TotalFiles         int    `json:"total_files"`
	TotalSize          int64  `json:"total_size"`
	TotalSizeFormatted string `json:"total_size_formatted"`
	DeletedFiles       int    `json:"deleted_files"`
	ImageFiles         int    `json:"image_files"`
	DocumentFiles      int    `json:"document_files"`
	VideoFiles         int    `json:"video_files"`
	AudioFiles         int    `json:"audio_files"`
	OtherFiles         int    `json:"other_files"`
}

// StatsService 文件统计服务接口
type StatsService interface {
	// Aggregate 聚合当前文件统计
	Aggregate() (*FileStatistics, error)
}

// statsService 文件统计服务实现
type statsService struct {
	store store.FileStore
}

// NewStatsService 创建文件统计服务实例
func NewStatsService(st store.FileStore) StatsService {
	return &statsService{store: st}
}

// Aggregate 聚合当前文件统计
func (s *statsService) Aggregate() (*FileStatistics, error) {
	active, err := s.store.List(store.ScopeActive)
	if err != nil {
		return nil, err
	}
	deleted, err := s.store.List(store.ScopeDeleted)
	if err != nil {
		return nil, err
	}

	stats := &FileStatistics{
		TotalFiles:   len(active),
		DeletedFiles: len(deleted),
	}

	// 单次扫描完成大小和分类计数
	for _, rec := range active {
		stats.TotalSize += rec.FileSize
		switch fileutil.GetCategory(rec.Extension) {
		case fileutil.CategoryImage:
			stats.ImageFiles++
		case fileutil.CategoryDocument:
			stats.DocumentFiles++
		case fileutil.CategoryVideo:
			stats.VideoFiles++
		case fileutil.CategoryAudio:
			stats.AudioFiles++
		}
	}

	// other为派生值而非独立扫描，确保分类之和等于总数
	stats.OtherFiles = stats.TotalFiles - stats.ImageFiles - stats.DocumentFiles - stats.VideoFiles - stats.AudioFiles
	stats.TotalSizeFormatted = fileutil.FormatFileSize(stats.TotalSize)

	return stats, nil
}
