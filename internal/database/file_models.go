// Package database 定义了文件相关的数据库模型
package database

import (
	"time"
)

// FileRecord 文件记录模型
// 文件的展示名、物理存储名、归属和删除状态的唯一事实来源
// IsDeleted与DeletedAt成对出现：软删除时同时设置，还原时同时清除
type FileRecord struct {
	ID            uint       `gorm:"primarykey" json:"id"`                            // 主键ID，自增
	StoredName    string     `gorm:"uniqueIndex;not null;size:300" json:"stored_name"` // 磁盘上的唯一物理文件名，永不复用
	FileName      string     `gorm:"not null;size:255" json:"file_name"`              // 展示文件名，可通过重命名修改
	OriginalName  string     `gorm:"not null;size:255" json:"original_name"`          // 上传时的原始文件名，创建后不变
	Extension     string     `gorm:"not null;size:50" json:"extension"`               // 文件扩展名，小写带点，创建后不变
	ContentType   string     `gorm:"size:100" json:"content_type"`                    // MIME类型
	FileSize      int64      `gorm:"not null" json:"file_size"`                       // 文件大小（字节），上传校验保证大于0
	StoragePath   string     `gorm:"not null;size:500" json:"storage_path"`           // 物理文件完整路径
	ThumbnailPath string     `gorm:"size:500" json:"thumbnail_path,omitempty"`        // 缩略图路径，仅图片类文件可能有值
	UploaderID    int        `gorm:"not null;index" json:"uploader_id"`               // 上传者ID，创建后不变
	UploaderName  string     `gorm:"size:100" json:"uploader_name"`                   // 上传者名称，创建后不变
	IsPublic      bool       `gorm:"default:false" json:"is_public"`                  // 是否公开
	PublicURL     string     `gorm:"size:500" json:"public_url,omitempty"`            // 公开访问URL
	IsDeleted     bool       `gorm:"index;default:false" json:"is_deleted"`           // 软删除标记
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`                            // 软删除时间，IsDeleted为true时必有值
	UploadedAt    time.Time  `json:"uploaded_at"`                                     // 上传时间
	UpdatedAt     time.Time  `json:"updated_at"`                                      // 最后更新时间
}

// TableName 指定FileRecord模型对应的数据库表名
func (FileRecord) TableName() string {
	return "file_records"
}
