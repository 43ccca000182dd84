// Package router 负责HTTP路由装配
package router

import (
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/weiwangfds/filevault/config"
	"github.com/weiwangfds/filevault/internal/handler"
	"github.com/weiwangfds/filevault/internal/middleware"
	cleanupservice "github.com/weiwangfds/filevault/internal/service/cleanup"
	fileservice "github.com/weiwangfds/filevault/internal/service/file"
	queryservice "github.com/weiwangfds/filevault/internal/service/query"
	recycleservice "github.com/weiwangfds/filevault/internal/service/recycle"
	statsservice "github.com/weiwangfds/filevault/internal/service/stats"
	"github.com/weiwangfds/filevault/internal/store"
)

// Router 路由配置
type Router struct {
	engine  *gin.Engine
	cleanup cleanupservice.CleanupService
}

// NewRouter 创建路由实例并装配全部服务
func NewRouter(loggerMiddleware *middleware.LoggerMiddleware, st store.FileStore, cfg *config.Config) (*Router, error) {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	// 初始化服务
	thumbs := fileservice.NewCopyThumbnailGenerator(filepath.Join(cfg.File.UploadPath, config.ThumbnailDir))
	fileService, err := fileservice.NewFileService(st, cfg.File, thumbs)
	if err != nil {
		return nil, err
	}
	recycleService := recycleservice.NewRecycleService(st)
	queryService := queryservice.NewQueryService(st)
	statsService := statsservice.NewStatsService(st)
	cleanupService := cleanupservice.NewCleanupService(st, recycleService, cfg.Cleanup)

	// 初始化处理器
	fileHandler := handler.NewFileHandler(fileService, queryService, recycleService, statsService)
	recycleBinHandler := handler.NewRecycleBinHandler(recycleService, queryService, cleanupService)

	// 使用中间件
	engine.Use(gin.Recovery())
	engine.Use(loggerMiddleware.RequestLogger())

	// 配置CORS
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// 健康检查
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Service is running",
		})
	})

	// API路由组
	api := engine.Group("/api/v1")
	{
		// 文件管理接口
		files := api.Group("/files")
		{
			files.POST("/upload", fileHandler.UploadFile)
			files.GET("/list", fileHandler.ListFiles)
			files.GET("/statistics", fileHandler.GetStatistics)
			files.GET("/preview/:id", fileHandler.GetPreview)
			files.GET("/:id/download", fileHandler.DownloadFile)
			files.PUT("/rename/:id", fileHandler.RenameFile)
			files.DELETE("/:id", fileHandler.DeleteFile)
			files.POST("/batch-operation", fileHandler.BatchOperation)
		}

		// 回收站接口
		recyclebin := api.Group("/recyclebin")
		{
			recyclebin.GET("/list", recycleBinHandler.ListDeletedFiles)
			recyclebin.POST("/restore/:id", recycleBinHandler.RestoreFile)
			recyclebin.DELETE("/permanent/:id", recycleBinHandler.PermanentDeleteFile)
			recyclebin.POST("/cleanup", recycleBinHandler.TriggerCleanup)
		}
	}

	return &Router{
		engine:  engine,
		cleanup: cleanupService,
	}, nil
}

// GetEngine 获取Gin引擎
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// GetCleanupService 获取清理服务，供main控制其生命周期
func (r *Router) GetCleanupService() cleanupservice.CleanupService {
	return r.cleanup
}
