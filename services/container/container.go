package container

import (
	"context"
	"log"
	"sync"
	"time"

	"gateguard-http-service/config"
	"gateguard-http-service/services"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client

	// 基础服务
	jwtService   services.InterfaceJWTService
	redisService *services.RedisService

	// 通知服务
	notificationService services.InterfaceNotificationService

	// 业务服务
	tokenService        services.InterfaceTokenService
	vehicleService      services.InterfaceVehicleService
	blacklistService    services.InterfaceBlacklistService
	gateSessionService  services.InterfaceGateSessionService
	accessLogService    services.InterfaceAccessLogService
	exitApprovalService services.InterfaceExitApprovalService
	gateService         services.InterfaceGateService

	sweeperStop chan struct{}
	mu          sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	// 测试Redis连接
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis连接测试失败: %v，将不使用Redis缓存", err)
		}
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
		redis:  redisClient,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config, c.db)
	c.redisService = services.NewRedisService(c.config)

	// 初始化MQTT通知服务
	c.notificationService = services.NewNotificationService(c.config)
	if err := c.notificationService.Connect(); err != nil {
		log.Printf("MQTT通知服务连接失败: %v", err)
	}

	// 初始化业务服务
	c.tokenService = services.NewTokenService(c.config)
	c.vehicleService = services.NewVehicleService(c.db, c.config)
	c.blacklistService = services.NewBlacklistService(c.db, c.config)
	c.gateSessionService = services.NewGateSessionService(c.db, c.config)
	c.accessLogService = services.NewAccessLogService(c.db, c.config)
	c.exitApprovalService = services.NewExitApprovalService(
		c.db, c.config, c.accessLogService, c.notificationService, c.redisService)
	c.gateService = services.NewGateService(
		c.config,
		c.vehicleService,
		c.blacklistService,
		c.gateSessionService,
		c.exitApprovalService,
		c.accessLogService,
		c.tokenService,
		c.notificationService,
	)

	// 启动过期审批的后台清理
	c.sweeperStop = make(chan struct{})
	go c.runApprovalSweeper()
}

// runApprovalSweeper 周期性把已过窗口的PENDING审批置为EXPIRED
// 惰性过期已保证正确性，这里只是后勤清理
func (c *ServiceContainer) runApprovalSweeper() {
	interval := c.config.GetApprovalExpiry()
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if count, err := c.exitApprovalService.SweepExpired(); err != nil {
				log.Printf("清理过期审批请求失败: %v", err)
			} else if count > 0 {
				log.Printf("已清理 %d 条过期审批请求", count)
			}
		case <-c.sweeperStop:
			return
		}
	}
}

// StopBackgroundTasks 停止后台任务
func (c *ServiceContainer) StopBackgroundTasks() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sweeperStop != nil {
		close(c.sweeperStop)
		c.sweeperStop = nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "notification":
		return c.notificationService
	case "token":
		return c.tokenService
	case "vehicle":
		return c.vehicleService
	case "blacklist":
		return c.blacklistService
	case "gate_session":
		return c.gateSessionService
	case "access_log":
		return c.accessLogService
	case "exit_approval":
		return c.exitApprovalService
	case "gate":
		return c.gateService
	default:
		return nil
	}
}
