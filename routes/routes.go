package routes

import (
	"gateguard-http-service/config"
	"gateguard-http-service/controllers"
	_ "gateguard-http-service/docs"
	"gateguard-http-service/middleware"
	"gateguard-http-service/services/container"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) (*gin.Engine, *container.ServiceContainer) {
	// 初始化 Gin
	r := gin.Default()

	// 添加 CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "http://localhost:20033")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
	// 设置正确的Content-Type，确保UTF-8编码
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		c.Next()
	})
	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg, redisClient)
	// 初始化中间件
	middleware.InitAuthMiddleware(cfg, db)
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	registerRoutes(r, serviceContainer)
	return r, serviceContainer
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	// API 路由根路径
	api := r.Group("/api")
	// 注册公共路由
	registerPublicRoutes(api, container)
	// 注册需要认证的路由
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 健康检查
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// 认证路由，限流防止口令爆破
	api.POST("/auth/login", middleware.IPRateLimiter(1, 5), controllers.HandleJWTFunc(container, "login"))
}

// registerAuthenticatedRoutes 注册需要认证的路由
func registerAuthenticatedRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 添加认证中间件
	auth := api.Group("/")
	auth.Use(middleware.AuthenticateStaff())

	// 道闸通行路由
	auth.Group("/gate").POST("/entry", controllers.HandleGateFunc(container, "processEntry"))
	auth.Group("/gate").POST("/exit", controllers.HandleGateFunc(container, "processExit"))
	auth.Group("/gate").POST("/exit/remote/:session_id", controllers.HandleGateFunc(container, "processRemoteApprovalExit"))

	// 出场凭证路由
	auth.Group("/gate").POST("/exit-pass", controllers.HandlePassFunc(container, "generateExitPass"))
	auth.Group("/gate").POST("/exit-pass/validate", controllers.HandlePassFunc(container, "validateExitPass"))

	// 访客凭证路由
	auth.Group("/visitor").POST("/token", controllers.HandlePassFunc(container, "generateVisitorToken"))
	auth.Group("/visitor").POST("/token/validate", controllers.HandlePassFunc(container, "validateVisitorToken"))
	auth.Group("/visitor").POST("/token/extract", controllers.HandlePassFunc(container, "extractPassCode"))

	// 远程审批路由
	auth.Group("/approvals").POST("", controllers.HandleApprovalFunc(container, "createRequest"))
	auth.Group("/approvals").POST("/:id/approve", controllers.HandleApprovalFunc(container, "approveRequest"))
	auth.Group("/approvals").POST("/:id/deny", controllers.HandleApprovalFunc(container, "denyRequest"))
	auth.Group("/approvals").GET("/pending/:resident_id", controllers.HandleApprovalFunc(container, "getPendingForResident"))
	auth.Group("/approvals").GET("/:id", controllers.HandleApprovalFunc(container, "getRequest"))

	// 通行会话查询路由，只读接口带限流和短时缓存
	sessions := auth.Group("/sessions")
	sessions.Use(middleware.PathRateLimiter(10, 20))
	sessions.GET("", controllers.HandleSessionFunc(container, "getSessions"))
	sessions.GET("/vehicle/:vehicle_id", controllers.HandleSessionFunc(container, "getSessionsByVehicle"))
	sessions.GET("/vehicle/:vehicle_id/open", controllers.HandleSessionFunc(container, "getOpenSessionByVehicle"))
	sessions.GET("/:id", controllers.HandleSessionFunc(container, "getSession"))

	// 通行日志查询路由
	logs := auth.Group("/access-logs")
	logs.Use(middleware.PathRateLimiter(10, 20))
	logs.Use(middleware.Cache())
	logs.GET("", controllers.HandleAccessLogFunc(container, "getLogs"))
	logs.GET("/vehicle/:vehicle_id", controllers.HandleAccessLogFunc(container, "getLogsByVehicle"))
	logs.GET("/session/:session_id", controllers.HandleAccessLogFunc(container, "getLogsBySession"))
	logs.GET("/:id", controllers.HandleAccessLogFunc(container, "getLog"))

	// 禁入名单路由
	auth.Group("/blacklist").POST("", controllers.HandleBlacklistFunc(container, "createEntry"))
	auth.Group("/blacklist").GET("", controllers.HandleBlacklistFunc(container, "getEntries"))
	auth.Group("/blacklist").POST("/check", controllers.HandleBlacklistFunc(container, "checkPlate"))
	auth.Group("/blacklist").DELETE("/:id", controllers.HandleBlacklistFunc(container, "deleteEntry"))
}
