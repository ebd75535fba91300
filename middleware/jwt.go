package middleware

import (
	"net/http"
	"strings"

	"gateguard-http-service/config"
	"gateguard-http-service/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var jwtService services.InterfaceJWTService

// 请求上下文键: 租户与操作人身份由认证中间件注入，
// 业务调用一律从这里取，不允许任何进程级的"当前租户"状态
const (
	ContextTenantID = "tenant_id"
	ContextUserID   = "user_id"
	ContextActor    = "actor"
	ContextRole     = "role"
)

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(cfg *config.Config, db *gorm.DB) {
	jwtService = services.NewJWTService(cfg, db)
}

// extractToken 从授权头中提取token
func extractToken(authHeader string) string {
	// 检查并移除 "Bearer " 前缀
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

// AuthenticateStaff 验证物业工作人员身份并注入租户/操作人上下文
func AuthenticateStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Authorization header is required",
				"data":    nil,
			})
			c.Abort()
			return
		}

		// 提取token
		tokenString := extractToken(authHeader)
		claims, err := jwtService.ExtractClaims(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Invalid token: " + err.Error(),
				"data":    nil,
			})
			c.Abort()
			return
		}

		// 租户缺失是致命的前置条件错误，任何业务调用都不允许继续
		if claims.TenantID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Token carries no tenant",
				"data":    nil,
			})
			c.Abort()
			return
		}

		c.Set(ContextTenantID, claims.TenantID)
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextActor, claims.Username)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// GetTenantID 从请求上下文读取租户ID
func GetTenantID(c *gin.Context) uint {
	if v, exists := c.Get(ContextTenantID); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// GetActor 从请求上下文读取当前操作人
func GetActor(c *gin.Context) string {
	if v, exists := c.Get(ContextActor); exists {
		if actor, ok := v.(string); ok {
			return actor
		}
	}
	return ""
}
