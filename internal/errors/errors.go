// Package errors 定义应用程序统一错误类型
// 所有核心操作以*AppError返回类型化结果，错误不会跨越服务边界抛出
package errors

import (
	"fmt"

	"github.com/weiwangfds/filevault/internal/i18n"
)

// ErrorCode 错误码类型
type ErrorCode int

// 定义错误码常量
const (
	// 通用错误码 (1000-1999)
	ErrSuccess            ErrorCode = 0    // 成功
	ErrInternalServer     ErrorCode = 1000 // 服务器内部错误
	ErrInvalidParams      ErrorCode = 1001 // 参数错误
	ErrUnauthorized       ErrorCode = 1002 // 未授权
	ErrForbidden          ErrorCode = 1003 // 禁止访问
	ErrNotFound           ErrorCode = 1004 // 资源未找到
	ErrServiceUnavailable ErrorCode = 1007 // 服务不可用

	// 校验类错误码 (2000-2099)
	ErrFileSizeInvalid       ErrorCode = 2000 // 文件大小无效（空文件）
	ErrFileSizeTooLarge      ErrorCode = 2001 // 文件大小超限
	ErrFileTypeNotAllowed    ErrorCode = 2002 // 文件类型不允许
	ErrFileNameInvalid       ErrorCode = 2003 // 文件名无效
	ErrInvalidPagination     ErrorCode = 2004 // 分页参数无效
	ErrInvalidDateRange      ErrorCode = 2005 // 日期范围无效
	ErrInvalidBatchOperation ErrorCode = 2006 // 批量操作类型无效

	// 文件与存储错误码 (2100-2199)
	ErrFileNotFound     ErrorCode = 2100 // 文件不存在
	ErrFileUploadFailed ErrorCode = 2101 // 文件上传失败
	ErrFileWriteFailed  ErrorCode = 2102 // 文件写入失败
	ErrFileDeleteFailed ErrorCode = 2103 // 文件删除失败
	ErrFileNameConflict ErrorCode = 2104 // 文件名冲突

	// 回收站错误码 (3000-3999)
	ErrFileNotInRecycleBin       ErrorCode = 3000 // 文件不存在于回收站
	ErrFileRestoreFailed         ErrorCode = 3001 // 文件还原失败
	ErrFilePermanentDeleteFailed ErrorCode = 3002 // 文件永久删除失败
	ErrCleanupFailed             ErrorCode = 3003 // 清理任务失败

	// 数据库错误码 (4000-4999)
	ErrDatabaseQuery  ErrorCode = 4000 // 数据库查询错误
	ErrDatabaseInsert ErrorCode = 4001 // 数据库插入错误
	ErrDatabaseUpdate ErrorCode = 4002 // 数据库更新错误
	ErrDatabaseDelete ErrorCode = 4003 // 数据库删除错误
	ErrRecordNotFound ErrorCode = 4004 // 记录未找到
)

// AppError 应用错误结构体
// @Description 应用程序统一错误格式
type AppError struct {
	// 错误码
	Code ErrorCode `json:"code"`
	// 错误消息
	Message string `json:"message"`
	// 详细错误信息
	Details string `json:"details,omitempty"`
	// 原始错误
	OriginalError error `json:"-"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// WithDetails 添加详细错误信息
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// New 创建新的应用错误，消息取自错误码对应的语言包
func New(code ErrorCode) *AppError {
	return &AppError{
		Code:    code,
		Message: GetErrorMessage(code),
	}
}

// NewWithDetails 创建带详细信息的应用错误
func NewWithDetails(code ErrorCode, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: GetErrorMessage(code),
		Details: details,
	}
}

// Wrap 包装原始错误
func Wrap(code ErrorCode, err error) *AppError {
	appErr := &AppError{
		Code:          code,
		Message:       GetErrorMessage(code),
		OriginalError: err,
	}
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

// GetAppError 从错误中提取应用错误
func GetAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}

// IsNotFound 判断错误是否属于"未找到"类别
// 覆盖状态机中目标不存在或状态不匹配的所有情况
func IsNotFound(err error) bool {
	appErr, ok := GetAppError(err)
	if !ok {
		return false
	}
	switch appErr.Code {
	case ErrNotFound, ErrFileNotFound, ErrFileNotInRecycleBin, ErrRecordNotFound:
		return true
	}
	return false
}

// IsValidation 判断错误是否属于参数校验类别
func IsValidation(err error) bool {
	appErr, ok := GetAppError(err)
	if !ok {
		return false
	}
	return appErr.Code == ErrInvalidParams || (appErr.Code >= ErrFileSizeInvalid && appErr.Code <= ErrInvalidBatchOperation)
}

// IsStorage 判断错误是否属于磁盘存储类别
func IsStorage(err error) bool {
	appErr, ok := GetAppError(err)
	if !ok {
		return false
	}
	switch appErr.Code {
	case ErrFileWriteFailed, ErrFileDeleteFailed:
		return true
	}
	return false
}

// IsConflict 判断错误是否属于名称冲突类别
// 存储名生成方案下实际不可达，保留以对齐错误分类
func IsConflict(err error) bool {
	appErr, ok := GetAppError(err)
	if !ok {
		return false
	}
	return appErr.Code == ErrFileNameConflict
}

// 错误码到i18n键的映射
var errorCodeToKeyMap = map[ErrorCode]string{
	ErrSuccess:            "success",
	ErrInternalServer:     "internal_server_error",
	ErrInvalidParams:      "invalid_params",
	ErrUnauthorized:       "unauthorized",
	ErrForbidden:          "forbidden",
	ErrNotFound:           "not_found",
	ErrServiceUnavailable: "service_unavailable",

	ErrFileSizeInvalid:       "file_size_invalid",
	ErrFileSizeTooLarge:      "file_size_too_large",
	ErrFileTypeNotAllowed:    "file_type_not_allowed",
	ErrFileNameInvalid:       "file_name_invalid",
	ErrInvalidPagination:     "invalid_pagination",
	ErrInvalidDateRange:      "invalid_date_range",
	ErrInvalidBatchOperation: "invalid_batch_operation",

	ErrFileNotFound:     "file_not_found",
	ErrFileUploadFailed: "file_upload_failed",
	ErrFileWriteFailed:  "file_write_failed",
	ErrFileDeleteFailed: "file_delete_failed",
	ErrFileNameConflict: "file_name_conflict",

	ErrFileNotInRecycleBin:       "file_not_in_recycle_bin",
	ErrFileRestoreFailed:         "file_restore_failed",
	ErrFilePermanentDeleteFailed: "file_permanent_delete_failed",
	ErrCleanupFailed:             "cleanup_failed",

	ErrDatabaseQuery:  "database_query",
	ErrDatabaseInsert: "database_insert",
	ErrDatabaseUpdate: "database_update",
	ErrDatabaseDelete: "database_delete",
	ErrRecordNotFound: "record_not_found",
}

// GetErrorMessage 根据错误码获取错误消息（使用默认语言）
func GetErrorMessage(code ErrorCode) string {
	return GetErrorMessageWithLang(code, i18n.GetInstance().GetDefaultLanguage())
}

// GetErrorMessageWithLang 根据错误码和语言获取错误消息
func GetErrorMessageWithLang(code ErrorCode, lang string) string {
	key, exists := errorCodeToKeyMap[code]
	if !exists {
		key = "unknown_error"
	}
	return i18n.GetInstance().Translate(key, lang)
}
