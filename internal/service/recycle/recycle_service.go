// Package service 提供文件生命周期管理
// 实现软删除、还原、永久删除和批量操作的状态机：
//
//	Active --Delete--> Deleted --Restore--> Active
//	Active/Deleted --PermanentDelete--> 记录与物理文件一并移除
package service

import (
	"os"
	"strings"
	"time"

	"github.com/weiwangfds/filevault/internal/database"
	apperrors "github.com/weiwangfds/filevault/internal/errors"
	"github.com/weiwangfds/filevault/internal/logger"
	"github.com/weiwangfds/filevault/internal/store"
)

// 批量操作类型
const (
	OpDelete          = "delete"
	OpRestore         = "restore"
	OpPermanentDelete = "permanent_delete"
)

// BatchResult 批量操作结果
// 单个文件的失败不会中断其余文件，只计入失败数
type BatchResult struct {
	SuccessCount int `json:"success_count"`
	FailCount    int `json:"fail_count"`
}

// RecycleService 文件生命周期服务接口
type RecycleService interface {
	// Delete 软删除文件（移入回收站）
	// 仅对活跃文件有效；目标不存在或已在回收站时返回文件不存在错误
	Delete(id uint, actorID int) error

	// Restore 从回收站还原文件
	// 仅对已软删除的文件有效；还原活跃文件同样返回不存在错误
	Restore(id uint, actorID int) error

	// PermanentDelete 永久删除文件
	// 活跃和回收站中的文件均可永久删除；物理文件与缩略图尽力删除，
	// 缺失不致命；记录行随后移除，操作不可逆
	PermanentDelete(id uint, actorID int) error

	// BatchOperation 批量执行delete/restore/permanent_delete
	BatchOperation(ids []uint, operation string, actorID int) (*BatchResult, error)
}

// recycleService 文件生命周期服务实现
type recycleService struct {
	store store.FileStore
	now   func() time.Time
}

// NewRecycleService 创建文件生命周期服务实例
func NewRecycleService(st store.FileStore) RecycleService {
	return &recycleService{
		store: st,
		now:   time.Now,
	}
}

// Delete 软删除文件
func (s *recycleService) Delete(id uint, actorID int) error {
	rec, err := s.getActive(id)
	if err != nil {
		return err
	}

	now := s.now()
	rec.IsDeleted = true
	rec.DeletedAt = &now
	rec.UpdatedAt = now
	if err := s.store.Update(rec); err != nil {
		return err
	}

	logger.Infof("File %d moved to recycle bin by actor %d", id, actorID)
	return nil
}

// Restore 从回收站还原文件
func (s *recycleService) Restore(id uint, actorID int) error {
	rec, err := s.store.Get(id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.New(apperrors.ErrFileNotInRecycleBin)
		}
		return err
	}
	if !rec.IsDeleted {
		// 只允许还原回收站中的文件，活跃文件视为不在回收站
		return apperrors.New(apperrors.ErrFileNotInRecycleBin)
	}

	rec.IsDeleted = false
	rec.DeletedAt = nil
	rec.UpdatedAt = s.now()
	if err := s.store.Update(rec); err != nil {
		return err
	}

	logger.Infof("File %d restored from recycle bin by actor %d", id, actorID)
	return nil
}

// PermanentDelete 永久删除文件
func (s *recycleService) PermanentDelete(id uint, actorID int) error {
	rec, err := s.store.Get(id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.New(apperrors.ErrFileNotFound)
		}
		return err
	}

	// 物理文件尽力删除，缺失或失败不阻止记录移除
	removePhysicalFile(rec)

	if err := s.store.Delete(id); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.New(apperrors.ErrFileNotFound)
		}
		return err
	}

	logger.Infof("File %d (%s) permanently deleted by actor %d", id, rec.StoredName, actorID)
	return nil
}

// BatchOperation 批量操作
func (s *recycleService) BatchOperation(ids []uint, operation string, actorID int) (*BatchResult, error) {
	operation = strings.ToLower(strings.TrimSpace(operation))
	switch operation {
	case OpDelete, OpRestore, OpPermanentDelete:
	default:
		return nil, apperrors.NewWithDetails(apperrors.ErrInvalidBatchOperation, operation)
	}
	if len(ids) == 0 {
		return nil, apperrors.NewWithDetails(apperrors.ErrInvalidParams, "no file ids given")
	}

	result := &BatchResult{}
	for _, id := range ids {
		var err error
		switch operation {
		case OpDelete:
			err = s.Delete(id, actorID)
		case OpRestore:
			err = s.Restore(id, actorID)
		case OpPermanentDelete:
			err = s.PermanentDelete(id, actorID)
		}

		if err != nil {
			logger.Warnf("Batch %s failed for file %d: %v", operation, id, err)
			result.FailCount++
		} else {
			result.SuccessCount++
		}
	}

	logger.Infof("Batch %s completed by actor %d: %d succeeded, %d failed",
		operation, actorID, result.SuccessCount, result.FailCount)
	return result, nil
}

// getActive 获取活跃文件记录
func (s *recycleService) getActive(id uint) (*database.FileRecord, error) {
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

// removePhysicalFile 删除物理文件和缩略图
func removePhysicalFile(rec *database.FileRecord) {
	if err := os.Remove(rec.StoragePath); err != nil && !os.IsNotExist(err) {
		logger.Warnf("Failed to remove stored file %s: %v", rec.StoragePath, err)
	}
	if rec.ThumbnailPath != "" {
		if err := os.Remove(rec.ThumbnailPath); err != nil && !os.IsNotExist(err) {
			logger.Warnf("Failed to remove thumbnail %s: %v", rec.ThumbnailPath, err)
		}
	}
}
