package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/weiwangfds/filevault/config"
	"github.com/weiwangfds/filevault/internal/database"
	"github.com/weiwangfds/filevault/internal/logger"
	"github.com/weiwangfds/filevault/internal/middleware"
	"github.com/weiwangfds/filevault/internal/router"
	"github.com/weiwangfds/filevault/internal/store"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Log); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	fileStore := store.NewGormStore(db)

	// 初始化中间件和路由
	loggerMiddleware := middleware.NewLoggerMiddleware(logger.GetLogger())
	r, err := router.NewRouter(loggerMiddleware, fileStore, cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize router: %v", err)
	}

	// 启动自动清理任务
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	cleanupService := r.GetCleanupService()
	if err := cleanupService.Start(cleanupCtx); err != nil {
		logger.Errorf("Failed to start cleanup scheduler: %v", err)
	}

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      r.GetEngine(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Infof("Server listening on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// 停止清理任务
	cancelCleanup()
	if err := cleanupService.Stop(); err != nil {
		logger.Errorf("Error stopping cleanup scheduler: %v", err)
	}

	// 优雅关闭服务器
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
