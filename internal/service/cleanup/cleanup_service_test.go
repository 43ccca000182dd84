package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiwangfds/filevault/config"
	"github.com/weiwangfds/filevault/internal/database"
	"github.com/weiwangfds/filevault/internal/logger"
	recycleservice "github.com/weiwangfds/filevault/internal/service/recycle"
	"github.com/weiwangfds/filevault/internal/store"
)

func TestMain(m *testing.M) {
	logger.Init(&config.LogConfig{Level: "error", Format: "text", Output: "console"})
	os.Exit(m.Run())
}

var testCleanupConfig = config.CleanupConfig{
	RecycleBinRetentionDays: 30,
	FileRetentionDays:       365,
	EnableAutoCleanup:       false,
}

// seedRecord 插入一条指定上传时间和删除时间的记录
// 物理文件不落盘，永久删除对缺失文件是容忍的
func seedRecord(t *testing.T, st store.FileStore, name string, uploadedAt time.Time, deletedAt *time.Time) *database.FileRecord {
	t.Helper()

	rec := &database.FileRecord{
		StoredName:   name,
		FileName:     name,
		OriginalName: name,
		Extension:    ".txt",
		FileSize:     4,
		StoragePath:  "/nonexistent/" + name,
		IsDeleted:    deletedAt != nil,
		DeletedAt:    deletedAt,
		UploadedAt:   uploadedAt,
		UpdatedAt:    uploadedAt,
	}
	require.NoError(t, st.Insert(rec))
	return rec
}

func newCleanup(st store.FileStore) CleanupService {
	return NewCleanupService(st, recycleservice.NewRecycleService(st), testCleanupConfig)
}

// TestSweep 测试清理的两个保留期阈值
func TestSweep(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("回收站超期文件被清除", func(t *testing.T) {
		st := store.NewMemoryStore()
		svc := newCleanup(st)

		expired := now.AddDate(0, 0, -31)
		fresh := now.AddDate(0, 0, -29)
		old := seedRecord(t, st, "old.txt", now.AddDate(0, 0, -40), &expired)
		kept := seedRecord(t, st, "kept.txt", now.AddDate(0, 0, -40), &fresh)

		purged, err := svc.Sweep(now)
		require.NoError(t, err)
		assert.Equal(t, 1, purged)

		_, err = st.Get(old.ID)
		assert.Error(t, err)
		_, err = st.Get(kept.ID)
		assert.NoError(t, err)
	})

	t.Run("超过总保留期的活跃文件也被清除", func(t *testing.T) {
		st := store.NewMemoryStore()
		svc := newCleanup(st)

		ancient := seedRecord(t, st, "ancient.txt", now.AddDate(0, 0, -366), nil)
		recent := seedRecord(t, st, "recent.txt", now.AddDate(0, 0, -10), nil)

		purged, err := svc.Sweep(now)
		require.NoError(t, err)
		assert.Equal(t, 1, purged)

		_, err = st.Get(ancient.ID)
		assert.Error(t, err)
		_, err = st.Get(recent.ID)
		assert.NoError(t, err)
	})

	t.Run("刚到阈值边界的文件保留", func(t *testing.T) {
		st := store.NewMemoryStore()
		svc := newCleanup(st)

		boundary := now.AddDate(0, 0, -30)
		seedRecord(t, st, "boundary.txt", now.AddDate(0, 0, -10), &boundary)

		purged, err := svc.Sweep(now)
		require.NoError(t, err)
		assert.Zero(t, purged)
	})

	t.Run("幂等_第二次清理无事可做", func(t *testing.T) {
		st := store.NewMemoryStore()
		svc := newCleanup(st)

		expired := now.AddDate(0, 0, -31)
		seedRecord(t, st, "old.txt", now.AddDate(0, 0, -40), &expired)

		purged, err := svc.Sweep(now)
		require.NoError(t, err)
		assert.Equal(t, 1, purged)

		purged, err = svc.Sweep(now)
		require.NoError(t, err)
		assert.Zero(t, purged)
	})

	t.Run("空存储清理零条", func(t *testing.T) {
		svc := newCleanup(store.NewMemoryStore())
		purged, err := svc.Sweep(now)
		require.NoError(t, err)
		assert.Zero(t, purged)
	})
}

// TestSweepAfterClockAdvance 测试文件删除31天后被清除且无法还原
func TestSweepAfterClockAdvance(t *testing.T) {
	st := store.NewMemoryStore()
	recycle := recycleservice.NewRecycleService(st)
	svc := NewCleanupService(st, recycle, testCleanupConfig)

	// 上传当天即删除
	uploaded := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := seedRecord(t, st, "report.pdf", uploaded, &uploaded)

	// 31天后执行清理
	later := uploaded.AddDate(0, 0, 31)
	purged, err := svc.Sweep(later)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	// 还原已不可行
	err = recycle.Restore(rec.ID, 1)
	require.Error(t, err)
}

// TestStartStop 测试调度器生命周期
func TestStartStop(t *testing.T) {
	t.Run("未启用时Start和Stop均为空操作", func(t *testing.T) {
		svc := newCleanup(store.NewMemoryStore())
		require.NoError(t, svc.Start(context.Background()))
		require.NoError(t, svc.Stop())
	})

	t.Run("启动后可停止", func(t *testing.T) {
		st := store.NewMemoryStore()
		cfg := config.CleanupConfig{
			RecycleBinRetentionDays: 30,
			FileRetentionDays:       365,
			EnableAutoCleanup:       true,
			IntervalHours:           1,
		}
		svc := NewCleanupService(st, recycleservice.NewRecycleService(st), cfg)

		require.NoError(t, svc.Start(context.Background()))
		require.NoError(t, svc.Stop())
		// 重复停止不阻塞
		require.NoError(t, svc.Stop())
	})

	t.Run("上下文取消后停止不阻塞", func(t *testing.T) {
		st := store.NewMemoryStore()
		cfg := config.CleanupConfig{
			RecycleBinRetentionDays: 30,
			FileRetentionDays:       365,
			EnableAutoCleanup:       true,
			IntervalHours:           1,
		}
		svc := NewCleanupService(st, recycleservice.NewRecycleService(st), cfg)

		ctx, cancel := context.WithCancel(context.Background())
		require.NoError(t, svc.Start(ctx))
		cancel()
		require.NoError(t, svc.Stop())
	})
}
