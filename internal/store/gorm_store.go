package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/weiwangfds/filevault/internal/database"
	apperrors "github.com/weiwangfds/filevault/internal/errors"
)

// gormStore 基于GORM的文件记录存储实现
type gormStore struct {
	db *gorm.DB
}

// NewGormStore 创建GORM存储实例
func NewGormStore(db *gorm.DB) FileStore {
	return &gormStore{db: db}
}

// Get 根据ID获取记录
func (s *gormStore) Get(id uint) (*database.FileRecord, error) {
	var rec database.FileRecord
	if err := s.db.First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrRecordNotFound)
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	return &rec, nil
}

// List 获取指定范围内的全部记录，按ID升序
func (s *gormStore) List(scope Scope) ([]database.FileRecord, error) {
	var recs []database.FileRecord
	isDeleted := scope == ScopeDeleted
	if err := s.db.Where("is_deleted = ?", isDeleted).Order("id ASC").Find(&recs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	return recs, nil
}

// ListAll 获取全部记录
func (s *gormStore) ListAll() ([]database.FileRecord, error) {
	var recs []database.FileRecord
	if err := s.db.Order("id ASC").Find(&recs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	return recs, nil
}

// Insert 插入新记录
func (s *gormStore) Insert(rec *database.FileRecord) error {
	if err := s.db.Create(rec).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseInsert, err)
	}
	return nil
}

// Update 保存记录的全部字段
func (s *gormStore) Update(rec *database.FileRecord) error {
	if err := s.db.Save(rec).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseUpdate, err)
	}
	return nil
}

// Delete 物理删除记录行
func (s *gormStore) Delete(id uint) error {
	result := s.db.Delete(&database.FileRecord{}, id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseDelete, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrRecordNotFound)
	}
	return nil
}
