// Package handler 提供文件管理相关的HTTP处理器
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/weiwangfds/filevault/internal/errors"
	"github.com/weiwangfds/filevault/internal/response"
	fileservice "github.com/weiwangfds/filevault/internal/service/file"
	queryservice "github.com/weiwangfds/filevault/internal/service/query"
	recycleservice "github.com/weiwangfds/filevault/internal/service/recycle"
	statsservice "github.com/weiwangfds/filevault/internal/service/stats"
	"github.com/weiwangfds/filevault/internal/store"
)

// FileHandler 文件处理器
type FileHandler struct {
	fileService    fileservice.FileService
	queryService   queryservice.QueryService
	recycleService recycleservice.RecycleService
	statsService   statsservice.StatsService
}

// NewFileHandler 创建文件处理器实例
func NewFileHandler(
	fileService fileservice.FileService,
	queryService queryservice.QueryService,
	recycleService recycleservice.RecycleService,
	statsService statsservice.StatsService,
) *FileHandler {
	return &FileHandler{
		fileService:    fileService,
		queryService:   queryService,
		recycleService: recycleService,
		statsService:   statsService,
	}
}

// renameRequest 重命名请求体
type renameRequest struct {
	NewFileName string `json:"newFileName" binding:"required"`
}

// batchOperationRequest 批量操作请求体
type batchOperationRequest struct {
	FileIDs   []uint `json:"fileIds" binding:"required"`
	Operation string `json:"operation" binding:"required"`
}

// UploadFile 上传文件
// @Summary 上传文件
// @Description 上传单个文件，可指定自定义显示名
// @Tags 文件管理
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "要上传的文件"
// @Param customFileName formData string false "自定义显示名"
// @Router /api/v1/files/upload [post]
func (h *FileHandler) UploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "未选择文件或文件无效")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.InternalServerError(c, "无法打开上传的文件")
		return
	}
	defer src.Close()

	actorID, actorName := getActor(c)
	rec, err := h.fileService.UploadFile(&fileservice.UploadRequest{
		FileName:     file.Filename,
		CustomName:   c.PostForm("customFileName"),
		ContentType:  file.Header.Get("Content-Type"),
		Data:         src,
		UploaderID:   actorID,
		UploaderName: actorName,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "文件上传成功", rec)
}

// ListFiles 查询活跃文件列表
// @Summary 查询文件列表
// @Description 支持文件名、扩展名、上传者、上传日期过滤及排序分页
// @Tags 文件管理
// @Produce json
// @Router /api/v1/files/list [get]
func (h *FileHandler) ListFiles(c *gin.Context) {
	params, err := parseSearchParams(c, store.ScopeActive)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	result, err := h.queryService.Search(params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithPage(c, result.Items, result.TotalCount, params.Page, params.PageSize)
}

// RenameFile 重命名文件
// @Summary 重命名文件
// @Tags 文件管理
// @Produce json
// @Param id path int true "文件ID"
// @Router /api/v1/files/rename/{id} [put]
func (h *FileHandler) RenameFile(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请提供新的文件名")
		return
	}

	actorID, _ := getActor(c)
	rec, err := h.fileService.RenameFile(id, req.NewFileName, actorID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "文件重命名成功", rec)
}

// DeleteFile 软删除文件（移入回收站）
// @Summary 删除文件
// @Tags 文件管理
// @Produce json
// @Param id path int true "文件ID"
// @Router /api/v1/files/{id} [delete]
func (h *FileHandler) DeleteFile(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	actorID, _ := getActor(c)
	if err := h.recycleService.Delete(id, actorID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "文件已移至回收站", gin.H{"file_id": id})
}

// BatchOperation 批量操作
// @Summary 批量删除/还原/永久删除文件
// @Tags 文件管理
// @Produce json
// @Router /api/v1/files/batch-operation [post]
func (h *FileHandler) BatchOperation(c *gin.Context) {
	var req batchOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请选择要操作的文件")
		return
	}

	actorID, _ := getActor(c)
	result, err := h.recycleService.BatchOperation(req.FileIDs, req.Operation, actorID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "批量操作完成", result)
}

// GetStatistics 获取文件统计信息
// @Summary 获取文件统计
// @Tags 文件管理
// @Produce json
// @Router /api/v1/files/statistics [get]
func (h *FileHandler) GetStatistics(c *gin.Context) {
	stats, err := h.statsService.Aggregate()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, stats)
}

// GetPreview 获取文件预览信息
// @Summary 获取文件预览信息
// @Tags 文件管理
// @Produce json
// @Param id path int true "文件ID"
// @Router /api/v1/files/preview/{id} [get]
func (h *FileHandler) GetPreview(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	preview, err := h.fileService.GetFilePreview(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, preview)
}

// DownloadFile 下载文件
// @Summary 下载文件
// @Tags 文件管理
// @Produce application/octet-stream
// @Param id path int true "文件ID"
// @Router /api/v1/files/{id}/download [get]
func (h *FileHandler) DownloadFile(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	rec, content, err := h.fileService.GetFileContent(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	defer content.Close()

	c.Header("Content-Disposition", "attachment; filename=\""+rec.FileName+"\"")
	c.DataFromReader(http.StatusOK, rec.FileSize, rec.ContentType, content, nil)
}

// parseID 解析路径中的文件ID
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "文件ID无效")
		return 0, false
	}
	return uint(id), true
}

// getActor 从请求头解析操作者身份
// 认证由上游网关完成，这里只透传身份信息
func getActor(c *gin.Context) (int, string) {
	actorID := 0
	if v := c.GetHeader("X-User-Id"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			actorID = parsed
		}
	}
	return actorID, c.GetHeader("X-User-Name")
}

// parseSearchParams 解析查询参数
func parseSearchParams(c *gin.Context, scope store.Scope) (*queryservice.SearchParams, error) {
	params := &queryservice.SearchParams{
		Scope:      scope,
		FileName:   c.Query("fileName"),
		Extension:  c.Query("fileExtension"),
		UploadedBy: c.Query("uploadedBy"),
		SortBy:     c.DefaultQuery("sortBy", queryservice.SortByUploadedAt),
		SortOrder:  c.DefaultQuery("sortOrder", "desc"),
		Page:       1,
		PageSize:   10,
	}

	if v := c.Query("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New(errors.ErrInvalidPagination)
		}
		params.Page = page
	}
	if v := c.Query("pageSize"); v != "" {
		pageSize, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New(errors.ErrInvalidPagination)
		}
		params.PageSize = pageSize
	}

	if v := c.Query("uploadDateFrom"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return nil, errors.NewWithDetails(errors.ErrInvalidDateRange, v)
		}
		params.UploadDateFrom = &t
	}
	if v := c.Query("uploadDateTo"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return nil, errors.NewWithDetails(errors.ErrInvalidDateRange, v)
		}
		// 上界按整天计算（含当天）
		end := t.Add(24*time.Hour - time.Nanosecond)
		params.UploadDateTo = &end
	}

	return params, nil
}

// handleServiceError 将服务层错误转换为HTTP响应
func handleServiceError(c *gin.Context, err error) {
	if appErr, ok := errors.GetAppError(err); ok {
		switch {
		case errors.IsNotFound(err):
			response.NotFound(c, appErr.Message)
		case errors.IsValidation(err):
			response.BadRequest(c, appErr.Message)
		default:
			response.Error(c, int(appErr.Code), appErr.Message)
		}
		return
	}
	response.InternalServerError(c, "服务器内部错误")
}
