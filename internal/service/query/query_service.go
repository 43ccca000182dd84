// Package service 提供文件记录的查询引擎
// 在单一范围（活跃或回收站）内按 过滤 → 计数 → 排序 → 分页 的顺序处理，
// 总数只反映过滤条件，与分页窗口无关
package service

import (
	"sort"
	"strings"
	"time"

	"github.com/weiwangfds/filevault/internal/database"
	apperrors "github.com/weiwangfds/filevault/internal/errors"
	"github.com/weiwangfds/filevault/internal/fileutil"
	"github.com/weiwangfds/filevault/internal/store"
)

// 排序字段
const (
	SortByName       = "name"
	SortBySize       = "size"
	SortByUploadedAt = "uploadedAt"
)

// SearchParams 查询参数
type SearchParams struct {
	Scope          store.Scope // 查询范围，active或deleted，二选一
	FileName       string      // 文件名子串匹配（大小写不敏感，同时匹配显示名和原名）
	Extension      string      // 扩展名精确匹配
	UploadedBy     string      // 上传者名称子串匹配（大小写不敏感）
	UploadDateFrom *time.Time  // 上传时间下界（含）
	UploadDateTo   *time.Time  // 上传时间上界（含）
	SortBy         string      // 排序字段，未识别的字段回退到uploadedAt
	SortOrder      string      // asc或desc，默认desc
	Page           int         // 页码，从1开始
	PageSize       int         // 每页数量
}

// FileListModel 文件列表展示模型
type FileListModel struct {
	ID                uint   `json:"id"`
	FileName          string `json:"file_name"`
	OriginalName      string `json:"original_name"`
	Extension         string `json:"extension"`
	ContentType       string `json:"content_type"`
	FileSize          int64  `json:"file_size"`
	FileSizeFormatted string `json:"file_size_formatted"`
	Category          string `json:"category"`
	ThumbnailPath     string `json:"thumbnail_path,omitempty"`
	PublicURL         string `json:"public_url,omitempty"`
	UploaderName      string `json:"uploader_name"`
	UploadedAt        string `json:"uploaded_at"`
	UpdatedAt         string `json:"updated_at"`
	DeletedAt         string `json:"deleted_at,omitempty"`
	IsImage           bool   `json:"is_image"`
	IsPdf             bool   `json:"is_pdf"`
	IsOfficeDoc       bool   `json:"is_office_doc"`
}

// SearchResult 查询结果
type SearchResult struct {
	Items      []FileListModel `json:"items"`
	TotalCount int64           `json:"total_count"`
	TotalPages int             `json:"total_pages"`
}

// QueryService 文件查询服务接口
type QueryService interface {
	// Search 在单一范围内查询文件
	// 页码超出总页数时返回空列表和正确的总数，不视为错误
	Search(params *SearchParams) (*SearchResult, error)
}

// queryService 文件查询服务实现
type queryService struct {
	store store.FileStore
}

// NewQueryService 创建文件查询服务实例
func NewQueryService(st store.FileStore) QueryService {
	return &queryService{store: st}
}

// Search 在单一范围内查询文件
func (s *queryService) Search(params *SearchParams) (*SearchResult, error) {
	if params.Scope != store.ScopeActive && params.Scope != store.ScopeDeleted {
		return nil, apperrors.NewWithDetails(apperrors.ErrInvalidParams, "scope must be active or deleted")
	}
	if params.Page < 1 || params.PageSize < 1 {
		return nil, apperrors.New(apperrors.ErrInvalidPagination)
	}
	if params.UploadDateFrom != nil && params.UploadDateTo != nil && params.UploadDateTo.Before(*params.UploadDateFrom) {
		return nil, apperrors.New(apperrors.ErrInvalidDateRange)
	}

	recs, err := s.store.List(params.Scope)
	if err != nil {
		return nil, err
	}

	// 过滤
	filtered := applyFilters(recs, params)

	// 计数在排序和分页之前，总数只反映过滤条件
	totalCount := int64(len(filtered))
	totalPages := int(totalCount) / params.PageSize
	if int(totalCount)%params.PageSize > 0 {
		totalPages++
	}

	// 稳定排序，相等元素保持插入顺序
	applySorting(filtered, params.SortBy, params.SortOrder)

	// 分页，越界页返回空列表
	start := (params.Page - 1) * params.PageSize
	end := start + params.PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}
	page := filtered[start:end]

	items := make([]FileListModel, 0, len(page))
	for i := range page {
		items = append(items, toListModel(&page[i]))
	}

	return &SearchResult{
		Items:      items,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}, nil
}

// applyFilters 套用查询条件
func applyFilters(recs []database.FileRecord, params *SearchParams) []database.FileRecord {
	nameQuery := strings.ToLower(strings.TrimSpace(params.FileName))
	uploaderQuery := strings.ToLower(strings.TrimSpace(params.UploadedBy))
	extQuery := normalizeExtension(params.Extension)

	filtered := make([]database.FileRecord, 0, len(recs))
	for _, rec := range recs {
		if nameQuery != "" &&
			!strings.Contains(strings.ToLower(rec.FileName), nameQuery) &&
			!strings.Contains(strings.ToLower(rec.OriginalName), nameQuery) {
			continue
		}
		if extQuery != "" && rec.Extension != extQuery {
			continue
		}
		if uploaderQuery != "" && !strings.Contains(strings.ToLower(rec.UploaderName), uploaderQuery) {
			continue
		}
		if params.UploadDateFrom != nil && rec.UploadedAt.Before(*params.UploadDateFrom) {
			continue
		}
		if params.UploadDateTo != nil && rec.UploadedAt.After(*params.UploadDateTo) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered
}

// applySorting 稳定排序
// 未识别的排序字段回退到uploadedAt，方向默认降序
func applySorting(recs []database.FileRecord, sortBy, sortOrder string) {
	ascending := strings.ToLower(sortOrder) == "asc"

	var less func(a, b *database.FileRecord) bool
	switch sortBy {
	case SortByName:
		less = func(a, b *database.FileRecord) bool {
			return strings.ToLower(a.FileName) < strings.ToLower(b.FileName)
		}
	case SortBySize:
		less = func(a, b *database.FileRecord) bool {
			return a.FileSize < b.FileSize
		}
	default:
		less = func(a, b *database.FileRecord) bool {
			return a.UploadedAt.Before(b.UploadedAt)
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if ascending {
			return less(&recs[i], &recs[j])
		}
		return less(&recs[j], &recs[i])
	})
}

// normalizeExtension 统一扩展名格式为小写带点
func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// toListModel 转换为列表展示模型
func toListModel(rec *database.FileRecord) FileListModel {
	deletedAt := ""
	if rec.DeletedAt != nil {
		deletedAt = rec.DeletedAt.Format("2006-01-02 15:04:05")
	}

	return FileListModel{
		ID:                rec.ID,
		FileName:          rec.FileName,
		OriginalName:      rec.OriginalName,
		Extension:         rec.Extension,
		ContentType:       rec.ContentType,
		FileSize:          rec.FileSize,
		FileSizeFormatted: fileutil.FormatFileSize(rec.FileSize),
		Category:          fileutil.GetCategory(rec.Extension),
		ThumbnailPath:     rec.ThumbnailPath,
		PublicURL:         rec.PublicURL,
		UploaderName:      rec.UploaderName,
		UploadedAt:        rec.UploadedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:         rec.UpdatedAt.Format("2006-01-02 15:04:05"),
		DeletedAt:         deletedAt,
		IsImage:           fileutil.IsImageFile(rec.Extension),
		IsPdf:             rec.Extension == ".pdf",
		IsOfficeDoc:       fileutil.IsOfficeDocument(rec.Extension),
	}
}
