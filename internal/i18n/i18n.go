// Package i18n 提供国际化支持
// 负责管理应用程序的语言包和翻译功能
package i18n

import (
	"sync"

	"github.com/go-playground/locales/en_US"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"

	"github.com/weiwangfds/filevault/internal/logger"
)

// 支持的语言
const (
	LangZhCN = "zh-CN"
	LangEnUS = "en-US"
)

var (
	instance *I18n
	once     sync.Once

	// 语言包存储
	translations = map[string]map[string]string{
		LangZhCN: {
			"success":               "成功",
			"internal_server_error": "服务器内部错误",
			"invalid_params":        "参数错误",
			"unauthorized":          "未授权",
			"forbidden":             "禁止访问",
			"not_found":             "资源未找到",
			"service_unavailable":   "服务不可用",

			"file_not_found":        "文件不存在",
			"file_size_invalid":     "文件大小无效",
			"file_size_too_large":   "文件大小超出限制",
			"file_type_not_allowed": "不支持的文件类型",
			"file_name_invalid":     "文件名无效",
			"file_upload_failed":    "文件上传失败",
			"file_write_failed":     "文件写入失败",
			"file_delete_failed":    "文件删除失败",
			"file_name_conflict":    "文件名冲突",

			"file_not_in_recycle_bin":      "文件不存在于回收站",
			"file_restore_failed":          "文件还原失败",
			"file_permanent_delete_failed": "文件永久删除失败",
			"invalid_batch_operation":      "无效的批量操作类型",
			"cleanup_failed":               "清理任务执行失败",

			"invalid_pagination": "分页参数无效",
			"invalid_date_range": "日期范围无效",

			"database_query":   "数据库查询错误",
			"database_insert":  "数据库插入错误",
			"database_update":  "数据库更新错误",
			"database_delete":  "数据库删除错误",
			"record_not_found": "记录未找到",

			"unknown_error": "未知错误",
		},
		LangEnUS: {
			"success":               "Success",
			"internal_server_error": "Internal Server Error",
			"invalid_params":        "Invalid Parameters",
			"unauthorized":          "Unauthorized",
			"forbidden":             "Forbidden",
			"not_found":             "Resource Not Found",
			"service_unavailable":   "Service Unavailable",

			"file_not_found":        "File Not Found",
			"file_size_invalid":     "Invalid File Size",
			"file_size_too_large":   "File Size Too Large",
			"file_type_not_allowed": "File Type Not Allowed",
			"file_name_invalid":     "Invalid File Name",
			"file_upload_failed":    "File Upload Failed",
			"file_write_failed":     "File Write Failed",
			"file_delete_failed":    "File Delete Failed",
			"file_name_conflict":    "File Name Conflict",

			"file_not_in_recycle_bin":      "File Not In Recycle Bin",
			"file_restore_failed":          "File Restore Failed",
			"file_permanent_delete_failed": "File Permanent Delete Failed",
			"invalid_batch_operation":      "Invalid Batch Operation",
			"cleanup_failed":               "Cleanup Failed",

			"invalid_pagination": "Invalid Pagination Parameters",
			"invalid_date_range": "Invalid Date Range",

			"database_query":   "Database Query Error",
			"database_insert":  "Database Insert Error",
			"database_update":  "Database Update Error",
			"database_delete":  "Database Delete Error",
			"record_not_found": "Record Not Found",

			"unknown_error": "Unknown Error",
		},
	}
)

// I18n 国际化管理器
type I18n struct {
	translators map[string]ut.Translator
	defaultLang string
}

// GetInstance 获取I18n单例
func GetInstance() *I18n {
	once.Do(func() {
		instance = &I18n{
			translators: make(map[string]ut.Translator),
			defaultLang: LangZhCN,
		}
		instance.initTranslators()
	})
	return instance
}

// initTranslators 初始化翻译器
func (i *I18n) initTranslators() {
	zhCN := zh.New()
	enUS := en_US.New()
	uni := ut.New(zhCN, enUS, zhCN)

	// 注册支持的语言 - 使用locale库的标识符
	langMappings := map[string]string{
		LangZhCN: "zh",
		LangEnUS: "en_US",
	}

	for ourLang, localeLang := range langMappings {
		trans, found := uni.GetTranslator(localeLang)
		if !found {
			logger.Errorf("Failed to init translator for language %s (locale: %s): translator not found", ourLang, localeLang)
			continue
		}
		i.translators[ourLang] = trans
	}
}

// Translate 根据键和语言获取翻译
func (i *I18n) Translate(key, lang string) string {
	if translation, found := translations[lang][key]; found {
		return translation
	}

	// 如果当前语言没有找到，尝试在默认语言中查找
	if lang != i.defaultLang {
		if translation, found := translations[i.defaultLang][key]; found {
			return translation
		}
	}

	logger.Warnf("Missing translation for key '%s' (lang: %s)", key, lang)
	return key
}

// SetDefaultLanguage 设置默认语言
func (i *I18n) SetDefaultLanguage(lang string) {
	i.defaultLang = lang
}

// GetDefaultLanguage 获取默认语言
func (i *I18n) GetDefaultLanguage() string {
	return i.defaultLang
}

// IsSupportedLanguage 检查语言是否支持
func (i *I18n) IsSupportedLanguage(lang string) bool {
	_, exists := i.translators[lang]
	return exists
}
