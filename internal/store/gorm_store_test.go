package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/weiwangfds/filevault/internal/database"
	apperrors "github.com/weiwangfds/filevault/internal/errors"
)

// setupGormStore 创建基于内存SQLite的存储实例
func setupGormStore(t *testing.T) FileStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&database.FileRecord{}))
	return NewGormStore(db)
}

// TestGormStoreCRUD 测试GORM存储的基本读写
func TestGormStoreCRUD(t *testing.T) {
	st := setupGormStore(t)

	t.Run("插入回填ID并可读取", func(t *testing.T) {
		rec := newRecord("a.txt", false)
		require.NoError(t, st.Insert(rec))
		require.NotZero(t, rec.ID)

		got, err := st.Get(rec.ID)
		require.NoError(t, err)
		assert.Equal(t, "a.txt", got.FileName)
	})

	t.Run("读取不存在的记录", func(t *testing.T) {
		_, err := st.Get(999)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("更新后重新读取", func(t *testing.T) {
		rec, err := st.Get(1)
		require.NoError(t, err)
		rec.FileName = "renamed.txt"
		require.NoError(t, st.Update(rec))

		got, err := st.Get(1)
		require.NoError(t, err)
		assert.Equal(t, "renamed.txt", got.FileName)
	})

	t.Run("删除后再删返回未找到", func(t *testing.T) {
		require.NoError(t, st.Delete(1))
		assert.True(t, apperrors.IsNotFound(st.Delete(1)))
	})
}

// TestGormStoreScopes 测试范围查询只命中对应状态的记录
func TestGormStoreScopes(t *testing.T) {
	st := setupGormStore(t)
	require.NoError(t, st.Insert(newRecord("active.txt", false)))
	require.NoError(t, st.Insert(newRecord("deleted.txt", true)))

	active, err := st.List(ScopeActive)
	require.NoError(t, err)
	deleted, err := st.List(ScopeDeleted)
	require.NoError(t, err)

	require.Len(t, active, 1)
	require.Len(t, deleted, 1)
	assert.Equal(t, "active.txt", active[0].FileName)
	assert.Equal(t, "deleted.txt", deleted[0].FileName)

	all, err := st.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// TestGormStoreUniqueStoredName 测试物理存储名唯一约束
func TestGormStoreUniqueStoredName(t *testing.T) {
	st := setupGormStore(t)

	a := newRecord("a.txt", false)
	require.NoError(t, st.Insert(a))

	dup := newRecord("b.txt", false)
	dup.StoredName = a.StoredName
	err := st.Insert(dup)
	require.Error(t, err)

	appErr, ok := apperrors.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrDatabaseInsert, appErr.Code)
}
