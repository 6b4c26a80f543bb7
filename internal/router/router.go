package router

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"xhs_feishu_ops_v1/internal/controller"
	"xhs_feishu_ops_v1/internal/middleware"

	_ "xhs_feishu_ops_v1/docs"
)

// Controllers 路由依赖的控制器集合
type Controllers struct {
	Auth    *controller.AuthController
	Record  *controller.RecordController
	Extract *controller.ExtractController
	Note    *controller.NoteController
}

// SetupRouter 注册所有路由
func SetupRouter(ctrls *Controllers) *gin.Engine {
	r := gin.Default()

	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 2. API 路由组
	api := r.Group("/api")
	{
		// auth 鉴权组
		auth := api.Group("/auth")
		{
			// GET /api/auth/login
			auth.GET("/login", ctrls.Auth.Login)
			// GET /api/auth/callback
			auth.GET("/callback", ctrls.Auth.Callback)
			// GET /api/auth/status
			auth.GET("/status", ctrls.Auth.Status)
			// POST /api/auth/logout
			auth.POST("/logout", ctrls.Auth.Logout)
		}

		// records 多维表格记录
		records := api.Group("/records")
		{
			records.GET("", ctrls.Record.List)
			records.GET("/:record_id", ctrls.Record.Get)
			records.POST("", ctrls.Record.Create)
			records.PUT("/:record_id", ctrls.Record.Update)
			records.DELETE("/:record_id", ctrls.Record.Delete)

			// 批量操作挂冷却，防止连点把第三方接口打挂
			records.POST("/batch_extract",
				middleware.BatchCooldown("batch:extract", 10*time.Second),
				ctrls.Extract.BatchExtract,
			)
			records.POST("/batch_deeplink",
				middleware.BatchCooldown("batch:deeplink", 10*time.Second),
				ctrls.Extract.BatchDeeplink,
			)
		}

		// notes 本地工作清单 + 改写/发布
		notes := api.Group("/notes")
		{
			notes.GET("", ctrls.Note.List)
			notes.GET("/:id", ctrls.Note.Get)
			notes.POST("", ctrls.Note.Create)
			notes.PUT("/:id", ctrls.Note.Update)
			notes.DELETE("/:id", ctrls.Note.Delete)

			notes.POST("/rewrite", ctrls.Note.Rewrite)
			notes.POST("/publish", ctrls.Note.Publish)
		}
	}

	return r
}
