package store

import (
	"sort"
	"sync"

	"github.com/weiwangfds/filevault/internal/database"
	apperrors "github.com/weiwangfds/filevault/internal/errors"
)

// memoryStore 基于内存map的文件记录存储实现
// 供单元测试使用，互斥锁保证同一记录的变更串行化
type memoryStore struct {
	mu     sync.RWMutex
	recs   map[uint]database.FileRecord
	nextID uint
}

// NewMemoryStore 创建内存存储实例
func NewMemoryStore() FileStore {
	return &memoryStore{
		recs:   make(map[uint]database.FileRecord),
		nextID: 1,
	}
}

// Get 根据ID获取记录
func (s *memoryStore) Get(id uint) (*database.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.recs[id]
	if !ok {
		return nil, apperrors.New(apperrors.ErrRecordNotFound)
	}
	return &rec, nil
}

// List 获取指定范围内的全部记录，按ID升序
func (s *memoryStore) List(scope Scope) ([]database.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	isDeleted := scope == ScopeDeleted
	recs := make([]database.FileRecord, 0, len(s.recs))
	for _, rec := range s.recs {
		if rec.IsDeleted == isDeleted {
			recs = append(recs, rec)
		}
	}
	sortByID(recs)
	return recs, nil
}

// ListAll 获取全部记录
func (s *memoryStore) ListAll() ([]database.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]database.FileRecord, 0, len(s.recs))
	for _, rec := range s.recs {
		recs = append(recs, rec)
	}
	sortByID(recs)
	return recs, nil
}

// Insert 插入新记录并回填自增ID
func (s *memoryStore) Insert(rec *database.FileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = s.nextID
	s.nextID++
	s.recs[rec.ID] = *rec
	return nil
}

// Update 保存记录的全部字段
func (s *memoryStore) Update(rec *database.FileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recs[rec.ID]; !ok {
		return apperrors.New(apperrors.ErrRecordNotFound)
	}
	s.recs[rec.ID] = *rec
	return nil
}

// Delete 物理删除记录
func (s *memoryStore) Delete(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recs[id]; !ok {
		return apperrors.New(apperrors.ErrRecordNotFound)
	}
	delete(s.recs, id)
	return nil
}

// sortByID 按ID升序排序，保证与插入顺序一致
func sortByID(recs []database.FileRecord) {
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].ID < recs[j].ID
	})
}
