// Package store 提供文件记录的持久化抽象
// 上层服务只依赖FileStore窄接口，生产环境由GORM实现，测试可使用内存实现
package store

import (
	"github.com/weiwangfds/filevault/internal/database"
)

// Scope 查询范围
// 一次查询只能命中活跃或回收站中的一类记录，不会混合
type Scope string

const (
	// ScopeActive 活跃文件（未删除）
	ScopeActive Scope = "active"
	// ScopeDeleted 回收站文件（已软删除）
	ScopeDeleted Scope = "deleted"
)

// FileStore 文件记录存储接口
// 同一条记录的并发变更由各实现内部串行化
type FileStore interface {
	// Get 根据ID获取记录，不存在时返回ErrRecordNotFound
	Get(id uint) (*database.FileRecord, error)

	// List 获取指定范围内的全部记录，按插入顺序（ID升序）返回
	List(scope Scope) ([]database.FileRecord, error)

	// ListAll 获取全部记录（不区分删除状态），供清理任务扫描使用
	ListAll() ([]database.FileRecord, error)

	// Insert 插入新记录并回填自增ID
	Insert(rec *database.FileRecord) error

	// Update 保存记录的全部字段
	Update(rec *database.FileRecord) error

	// Delete 物理删除记录行，不存在时返回ErrRecordNotFound
	Delete(id uint) error
}
