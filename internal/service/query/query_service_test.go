package service

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiwangfds/filevault/config"
	"github.com/weiwangfds/filevault/internal/database"
	apperrors "github.com/weiwangfds/filevault/internal/errors"
	"github.com/weiwangfds/filevault/internal/logger"
	"github.com/weiwangfds/filevault/internal/store"
)

func TestMain(m *testing.M) {
	logger.Init(&config.LogConfig{Level: "error", Format: "text", Output: "console"})
	os.Exit(m.Run())
}

var baseTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// seedRecord 插入一条记录，uploadedAt为基准时间加day天
func seedRecord(t *testing.T, st store.FileStore, name, uploader string, size int64, day int, deleted bool) *database.FileRecord {
	t.Helper()

	uploadedAt := baseTime.AddDate(0, 0, day)
	rec := &database.FileRecord{
		StoredName:   name + "_stored",
		FileName:     name,
		OriginalName: name,
		Extension:    normalizeExtension(extOf(name)),
		FileSize:     size,
		StoragePath:  "/tmp/" + name,
		UploaderName: uploader,
		IsDeleted:    deleted,
		UploadedAt:   uploadedAt,
		UpdatedAt:    uploadedAt,
	}
	if deleted {
		deletedAt := uploadedAt
		rec.DeletedAt = &deletedAt
	}
	require.NoError(t, st.Insert(rec))
	return rec
}

func extOf(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i:]
		}
	}
	return ""
}

func defaultParams(scope store.Scope) *SearchParams {
	return &SearchParams{
		Scope:    scope,
		Page:     1,
		PageSize: 10,
	}
}

// TestSearchValidation 测试查询参数校验
func TestSearchValidation(t *testing.T) {
	svc := NewQueryService(store.NewMemoryStore())

	t.Run("非法范围", func(t *testing.T) {
		params := defaultParams("trash")
		_, err := svc.Search(params)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("非法页码", func(t *testing.T) {
		params := defaultParams(store.ScopeActive)
		params.Page = 0
		_, err := svc.Search(params)
		require.Error(t, err)
		appErr, ok := apperrors.GetAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrInvalidPagination, appErr.Code)
	})

	t.Run("非法每页数量", func(t *testing.T) {
		params := defaultParams(store.ScopeActive)
		params.PageSize = -1
		_, err := svc.Search(params)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("日期范围颠倒", func(t *testing.T) {
		params := defaultParams(store.ScopeActive)
		from := baseTime
		to := baseTime.AddDate(0, 0, -1)
		params.UploadDateFrom = &from
		params.UploadDateTo = &to
		_, err := svc.Search(params)
		require.Error(t, err)
		appErr, ok := apperrors.GetAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrInvalidDateRange, appErr.Code)
	})
}

// TestSearchScopes 测试两个范围互斥
func TestSearchScopes(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewQueryService(st)
	seedRecord(t, st, "active.txt", "alice", 10, 0, false)
	seedRecord(t, st, "deleted.txt", "alice", 10, 0, true)

	active, err := svc.Search(defaultParams(store.ScopeActive))
	require.NoError(t, err)
	deleted, err := svc.Search(defaultParams(store.ScopeDeleted))
	require.NoError(t, err)

	require.Equal(t, int64(1), active.TotalCount)
	require.Equal(t, int64(1), deleted.TotalCount)
	assert.Equal(t, "active.txt", active.Items[0].FileName)
	assert.Equal(t, "deleted.txt", deleted.Items[0].FileName)
	assert.NotEmpty(t, deleted.Items[0].DeletedAt)
}

// TestSearchFilters 测试过滤条件
func TestSearchFilters(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewQueryService(st)
	seedRecord(t, st, "report.pdf", "alice", 100, 0, false)
	seedRecord(t, st, "photo.jpg", "bob", 200, 1, false)
	seedRecord(t, st, "Summary-Report.pdf", "alice", 300, 2, false)

	t.Run("文件名子串大小写不敏感", func(t *testing.T) {
		params := defaultParams(store.ScopeActive)
		params.FileName = "REPORT"
		result, err := svc.Search(params)
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.TotalCount)
	})

	t.Run("扩展名精确匹配且自动补点", func(t *testing.T) {
		params := defaultParams(store.ScopeActive)
		params.Extension = "pdf"
		result, err := svc.Search(params)
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.TotalCount)
	})

	t.Run("上传者子串匹配", func(t *testing.T) {
		params := defaultParams(store.ScopeActive)
		params.UploadedBy = "BO"
		result, err := svc.Search(params)
		require.NoError(t, err)
		require.Equal(t, int64(1), result.TotalCount)
		assert.Equal(t, "photo.jpg", result.Items[0].FileName)
	})

	t.Run("日期范围含两端边界", func(t *testing.T) {
		params := defaultParams(store.ScopeActive)
		from := baseTime.AddDate(0, 0, 1)
		to := baseTime.AddDate(0, 0, 2)
		params.UploadDateFrom = &from
		params.UploadDateTo = &to
		result, err := svc.Search(params)
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.TotalCount)
	})

	t.Run("组合条件", func(t *testing.T) {
		params := defaultParams(store.ScopeActive)
		params.FileName = "report"
		params.UploadedBy = "alice"
		params.Extension = ".pdf"
		result, err := svc.Search(params)
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.TotalCount)
	})

	t.Run("无命中返回空列表", func(t *testing.T) {
		params := defaultParams(store.ScopeActive)
		params.FileName = "nonexistent"
		result, err := svc.Search(params)
		require.NoError(t, err)
		assert.Zero(t, result.TotalCount)
		assert.Empty(t, result.Items)
	})
}

// TestSearchSorting 测试排序
func TestSearchSorting(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewQueryService(st)
	seedRecord(t, st, "banana.txt", "alice", 300, 2, false)
	seedRecord(t, st, "Apple.txt", "alice", 100, 0, false)
	seedRecord(t, st, "cherry.txt", "alice", 200, 1, false)

	t.Run("默认按上传时间降序", func(t *testing.T) {
		result, err := svc.Search(defaultParams(store.ScopeActive))
		require.NoError(t, err)
		require.Len(t, result.Items, 3)
		assert.Equal(t, "banana.txt", result.Items[0].FileName)
		assert.Equal(t, "Apple.txt", result.Items[2].FileName)
	})

	t.Run("按名称升序大小写不敏感", func(t *testing.T) {
		params := defaultParams(store.ScopeActive)
		params.SortBy = SortByName
		params.SortOrder = "asc"
		result, err := svc.Search(params)
		require.NoError(t, err)
		assert.Equal(t, "Apple.txt", result.Items[0].FileName)
		assert.Equal(t, "cherry.txt", result.Items[2].FileName)
	})

	t.Run("按大小降序", func(t *testing.T) {
		params := defaultParams(store.ScopeActive)
		params.SortBy = SortBySize
		params.SortOrder = "desc"
		result, err := svc.Search(params)
		require.NoError(t, err)
		assert.Equal(t, int64(300), result.Items[0].FileSize)
		assert.Equal(t, int64(100), result.Items[2].FileSize)
	})

	t.Run("未识别的排序字段回退到上传时间", func(t *testing.T) {
		params := defaultParams(store.ScopeActive)
		params.SortBy = "color"
		result, err := svc.Search(params)
		require.NoError(t, err)
		assert.Equal(t, "banana.txt", result.Items[0].FileName)
	})
}

// TestSearchPagination 测试分页
func TestSearchPagination(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewQueryService(st)
	for i := 0; i < 5; i++ {
		seedRecord(t, st, string(rune('a'+i))+".txt", "alice", int64(i+1), i, false)
	}

	t.Run("总页数向上取整", func(t *testing.T) {
		params := defaultParams(store.ScopeActive)
		params.PageSize = 2
		result, err := svc.Search(params)
		require.NoError(t, err)
		assert.Equal(t, int64(5), result.TotalCount)
		assert.Equal(t, 3, result.TotalPages)
		assert.Len(t, result.Items, 2)
	})

	t.Run("末页不足整页", func(t *testing.T) {
		params := defaultParams(store.ScopeActive)
		params.Page = 3
		params.PageSize = 2
		result, err := svc.Search(params)
		require.NoError(t, err)
		assert.Len(t, result.Items, 1)
	})

	t.Run("越界页返回空列表且总数不变", func(t *testing.T) {
		params := defaultParams(store.ScopeActive)
		params.Page = 99
		params.PageSize = 2
		result, err := svc.Search(params)
		require.NoError(t, err)
		assert.Empty(t, result.Items)
		assert.Equal(t, int64(5), result.TotalCount)
		assert.Equal(t, 3, result.TotalPages)
	})

	t.Run("分页不重叠不遗漏", func(t *testing.T) {
		seen := make(map[uint]bool)
		for page := 1; page <= 3; page++ {
			params := defaultParams(store.ScopeActive)
			params.Page = page
			params.PageSize = 2
			params.SortBy = SortBySize
			params.SortOrder = "asc"
			result, err := svc.Search(params)
			require.NoError(t, err)
			for _, item := range result.Items {
				assert.False(t, seen[item.ID], "file %d returned twice", item.ID)
				seen[item.ID] = true
			}
		}
		assert.Len(t, seen, 5)
	})
}

// TestSearchListModel 测试展示模型字段
func TestSearchListModel(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewQueryService(st)
	seedRecord(t, st, "report.pdf", "alice", 2048, 0, false)

	result, err := svc.Search(defaultParams(store.ScopeActive))
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	item := result.Items[0]
	assert.Equal(t, "document", item.Category)
	assert.Equal(t, "2.0 KiB", item.FileSizeFormatted)
	assert.True(t, item.IsPdf)
	assert.False(t, item.IsImage)
	assert.Equal(t, "2025-01-01 12:00:00", item.UploadedAt)
}
