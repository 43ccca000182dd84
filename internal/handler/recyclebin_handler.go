package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/weiwangfds/filevault/internal/response"
	cleanupservice "github.com/weiwangfds/filevault/internal/service/cleanup"
	queryservice "github.com/weiwangfds/filevault/internal/service/query"
	recycleservice "github.com/weiwangfds/filevault/internal/service/recycle"
	"github.com/weiwangfds/filevault/internal/store"
)

// RecycleBinHandler 回收站处理器
type RecycleBinHandler struct {
	recycleService recycleservice.RecycleService
	queryService   queryservice.QueryService
	cleanupService cleanupservice.CleanupService
}

// NewRecycleBinHandler 创建回收站处理器实例
func NewRecycleBinHandler(
	recycleService recycleservice.RecycleService,
	queryService queryservice.QueryService,
	cleanupService cleanupservice.CleanupService,
) *RecycleBinHandler {
	return &RecycleBinHandler{
		recycleService: recycleService,
		queryService:   queryService,
		cleanupService: cleanupService,
	}
}

// ListDeletedFiles 查询回收站文件列表
// @Summary 查询回收站文件列表
// @Description 查询条件与文件列表一致，范围固定为回收站
// @Tags 回收站
// @Produce json
// @Router /api/v1/recyclebin/list [get]
func (h *RecycleBinHandler) ListDeletedFiles(c *gin.Context) {
	params, err := parseSearchParams(c, store.ScopeDeleted)
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

// RestoreFile 从回收站还原文件
// @Summary 还原文件
// @Tags 回收站
// @Produce json
// @Param id path int true "文件ID"
// @Router /api/v1/recyclebin/restore/{id} [post]
func (h *RecycleBinHandler) RestoreFile(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	actorID, _ := getActor(c)
	if err := h.recycleService.Restore(id, actorID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "文件还原成功", gin.H{"file_id": id})
}

// PermanentDeleteFile 永久删除文件
// @Summary 永久删除文件
// @Tags 回收站
// @Produce json
// @Param id path int true "文件ID"
// @Router /api/v1/recyclebin/permanent/{id} [delete]
func (h *RecycleBinHandler) PermanentDeleteFile(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	actorID, _ := getActor(c)
	if err := h.recycleService.PermanentDelete(id, actorID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "文件永久删除成功", gin.H{"file_id": id})
}

// TriggerCleanup 立即执行一次清理
// @Summary 立即执行回收站清理
// @Tags 回收站
// @Produce json
// @Router /api/v1/recyclebin/cleanup [post]
func (h *RecycleBinHandler) TriggerCleanup(c *gin.Context) {
	purged, err := h.cleanupService.Sweep(time.Now())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "清理任务执行完成", gin.H{"purged_count": purged})
}
