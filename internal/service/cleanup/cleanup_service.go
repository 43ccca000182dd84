// Package service 提供基于保留期的文件自动清理
// 两个独立阈值：回收站文件按删除时间清理，全部文件按上传时间清理；
// 清理即对匹配记录逐个执行永久删除
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/weiwangfds/filevault/config"
	apperrors "github.com/weiwangfds/filevault/internal/errors"
	"github.com/weiwangfds/filevault/internal/logger"
	recycleservice "github.com/weiwangfds/filevault/internal/service/recycle"
	"github.com/weiwangfds/filevault/internal/store"
)

// CleanupService 文件清理服务接口
type CleanupService interface {
	// Sweep 执行一次清理，返回被永久删除的记录数
	// 幂等：连续执行且无新数据时第二次不清理任何记录；
	// 已有清理在运行时直接返回0（单飞保护）
	Sweep(now time.Time) (int, error)

	// Start 启动周期性清理任务
	Start(ctx context.Context) error

	// Stop 停止周期性清理任务
	Stop() error
}

// cleanupService 文件清理服务实现
type cleanupService struct {
	store   store.FileStore
	recycle recycleservice.RecycleService
	cfg     config.CleanupConfig

	running  atomic.Bool // 单飞保护：同一时刻最多一次清理
	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewCleanupService 创建文件清理服务实例
func NewCleanupService(st store.FileStore, recycle recycleservice.RecycleService, cfg config.CleanupConfig) CleanupService {
	return &cleanupService{
		store:   st,
		recycle: recycle,
		cfg:     cfg,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Sweep 执行一次清理
func (s *cleanupService) Sweep(now time.Time) (int, error) {
	if !s.running.CompareAndSwap(false, true) {
		logger.Warnf("Cleanup sweep already in progress, skipping")
		return 0, nil
	}
	defer s.running.Store(false)

	recs, err := s.store.ListAll()
	if err != nil {
		logger.Errorf("Cleanup sweep failed to list records: %v", err)
		return 0, apperrors.Wrap(apperrors.ErrCleanupFailed, err)
	}

	recycleBinCutoff := now.AddDate(0, 0, -s.cfg.RecycleBinRetentionDays)
	fileCutoff := now.AddDate(0, 0, -s.cfg.FileRetentionDays)

	purged := 0
	for _, rec := range recs {
		expiredInRecycleBin := rec.IsDeleted && rec.DeletedAt != nil && rec.DeletedAt.Before(recycleBinCutoff)
		expiredByAge := rec.UploadedAt.Before(fileCutoff)
		if !expiredInRecycleBin && !expiredByAge {
			continue
		}

		if err := s.recycle.PermanentDelete(rec.ID, 0); err != nil {
			if apperrors.IsNotFound(err) {
				// 扫描期间被交互式删除，视为已处理
				continue
			}
			// 单条失败只记录，不中断整个清理
			logger.Errorf("Cleanup sweep failed to purge file %d: %v", rec.ID, err)
			continue
		}
		purged++
	}

	logger.Infof("Cleanup sweep completed: %d file(s) purged", purged)
	return purged, nil
}

// Start 启动周期性清理任务
func (s *cleanupService) Start(ctx context.Context) error {
	if !s.cfg.EnableAutoCleanup {
		logger.Info("Auto cleanup is disabled")
		return nil
	}

	interval := time.Duration(s.cfg.IntervalHours) * time.Hour
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	s.started.Store(true)
	go func() {
		defer close(s.doneCh)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		logger.Infof("Cleanup scheduler started. Interval: %s, recycle bin retention: %d days, file retention: %d days",
			interval, s.cfg.RecycleBinRetentionDays, s.cfg.FileRetentionDays)

		for {
			select {
			case <-ticker.C:
				if _, err := s.Sweep(time.Now()); err != nil {
					logger.Errorf("Scheduled cleanup sweep failed: %v", err)
				}
			case <-ctx.Done():
				logger.Info("Cleanup scheduler stopped by context")
				return
			case <-s.stopCh:
				logger.Info("Cleanup scheduler stopped")
				return
			}
		}
	}()

	return nil
}

// Stop 停止周期性清理任务
func (s *cleanupService) Stop() error {
	if !s.started.Load() {
		return nil
	}
	s.stopOnce.Do(func() {
		close(s.stopCh)
		<-s.doneCh
	})
	return nil
}
