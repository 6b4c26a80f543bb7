package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"xhs_feishu_ops_v1/internal/config"
	"xhs_feishu_ops_v1/internal/controller"
	"xhs_feishu_ops_v1/internal/model"
	"xhs_feishu_ops_v1/internal/repository"
	"xhs_feishu_ops_v1/internal/router"
	"xhs_feishu_ops_v1/internal/service"
	"xhs_feishu_ops_v1/internal/task"
	"xhs_feishu_ops_v1/pkg/database"
)

// @title 小红书-飞书内容运营后台
// @version 1.0
// @description 抓取小红书笔记入多维表格，AI 改写后发布
func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		logrus.WithError(err).Fatal("配置加载失败")
	}

	// 2. 初始化本地数据库 (允许失败降级)
	db := initDatabase(cfg)

	// 3. 初始化依赖
	deps := initDependencies(cfg, db)

	// 4. 启动定时任务
	initTasks(deps)

	// 5. 初始化路由
	r := router.SetupRouter(deps.Controllers)

	// 6. 启动服务
	startServer(r, cfg.Server.Port)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Credential repository.CredentialStore
	Note       repository.NoteRepository
}

// Services 服务集合
type Services struct {
	Auth    *service.AuthService
	Bitable *service.BitableService
	Media   *service.MediaService
	Scraper *service.ScrapeService
	AI      *service.AIService
	Extract *service.ExtractService
	Rewrite *service.RewriteService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化本地数据库
// 只读部署环境下初始化可能失败，此时清单簿记降级为 no-op
func initDatabase(cfg *config.Config) *gorm.DB {
	db, err := database.InitDB(cfg.Local.SQLitePath, &model.Note{})
	if err != nil {
		logrus.WithError(err).Warn("本地数据库初始化失败，笔记清单簿记降级")
		return nil
	}
	return db
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		Credential: repository.NewFileCredentialStore(cfg.Local.CredentialFile),
		Note:       repository.NewNoteRepository(db),
	}

	// -------- 适配器服务 --------
	authSvc := service.NewAuthService(&cfg.Feishu, repos.Credential)
	bitableSvc := service.NewBitableService(&cfg.Feishu, authSvc)
	mediaSvc := service.NewMediaService(&cfg.Feishu, authSvc)
	scrapeSvc := service.NewScrapeService(&cfg.Scraper)
	aiSvc := service.NewAIService(&cfg.AI)

	// -------- 编排服务 --------
	services := &Services{
		Auth:    authSvc,
		Bitable: bitableSvc,
		Media:   mediaSvc,
		Scraper: scrapeSvc,
		AI:      aiSvc,
	}
	services.Extract = service.NewExtractService(
		bitableSvc, scrapeSvc, mediaSvc, repos.Note,
		cfg.Server.PublicURL, cfg.Batch.ItemDelay,
	)
	services.Rewrite = service.NewRewriteService(bitableSvc, aiSvc, repos.Note)

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Auth:    controller.NewAuthController(services.Auth),
		Record:  controller.NewRecordController(services.Bitable),
		Extract: controller.NewExtractController(services.Extract),
		Note:    controller.NewNoteController(repos.Note, services.Rewrite),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) {
	tokenTask := task.NewTokenTask(deps.Services.Auth)
	tokenTask.Start()

	logrus.Info("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine, port string) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		logrus.Infof("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("服务启动失败")
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("服务强制关闭")
	}

	logrus.Info("服务已退出")
}
