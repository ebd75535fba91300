package controllers

import (
	"net/http"
	"time"

	"gateguard-http-service/middleware"
	"gateguard-http-service/services"
	"gateguard-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfacePassController 定义凭证控制器接口
type InterfacePassController interface {
	GenerateExitPass()
	ValidateExitPass()
	GenerateVisitorToken()
	ValidateVisitorToken()
	ExtractPassCode()
}

// PassController 处理出场凭证与访客凭证请求
type PassController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewPassController 创建一个新的凭证控制器
func NewPassController(ctx *gin.Context, container *container.ServiceContainer) *PassController {
	return &PassController{
		Ctx:       ctx,
		Container: container,
	}
}

// GenerateExitPassRequest 表示签发出场凭证请求
type GenerateExitPassRequest struct {
	VehicleID uint `json:"vehicle_id" binding:"required" example:"12"`
}

// ValidateExitPassRequest 表示校验出场凭证请求
type ValidateExitPassRequest struct {
	Token     string `json:"token" binding:"required"`
	VehicleID uint   `json:"vehicle_id" binding:"required" example:"12"`
}

// GenerateVisitorTokenRequest 表示签发访客凭证请求
type GenerateVisitorTokenRequest struct {
	PassCode  string `json:"pass_code" binding:"required" example:"PASS-ABC-123"`
	VisitorID uint   `json:"visitor_id" binding:"required" example:"301"`
	ValidTo   int64  `json:"valid_to" binding:"required" example:"1735689600000"` // Unix毫秒
}

// VisitorTokenRequest 表示校验/解码访客凭证请求
type VisitorTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// HandlePassFunc 返回一个处理凭证请求的Gin处理函数
func HandlePassFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewPassController(ctx, container)

		switch method {
		case "generateExitPass":
			controller.GenerateExitPass()
		case "validateExitPass":
			controller.ValidateExitPass()
		case "generateVisitorToken":
			controller.GenerateVisitorToken()
		case "validateVisitorToken":
			controller.ValidateVisitorToken()
		case "extractPassCode":
			controller.ExtractPassCode()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// GenerateExitPass 签发车辆出场凭证
// @Summary      签发出场凭证
// @Description  为登记车辆签发短时效的出场凭证，车辆必须存在且属于当前租户
// @Tags         Pass
// @Accept       json
// @Produce      json
// @Param        request body GenerateExitPassRequest true "签发请求"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /gate/exit-pass [post]
func (c *PassController) GenerateExitPass() {
	var req GenerateExitPassRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "请求参数错误",
			"data":    nil,
		})
		return
	}

	tenantID := middleware.GetTenantID(c.Ctx)

	// 只为本租户存在的车辆签发
	vehicleService := c.Container.GetService("vehicle").(services.InterfaceVehicleService)
	if _, err := vehicleService.GetVehicleByID(req.VehicleID, tenantID); err != nil {
		respondError(c.Ctx, err)
		return
	}

	tokenService := c.Container.GetService("token").(services.InterfaceTokenService)
	result, err := tokenService.GenerateExitPass(req.VehicleID, tenantID)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    result,
	})
}

// ValidateExitPass 校验车辆出场凭证
// @Summary      校验出场凭证
// @Description  校验出场凭证的签名、作用域与有效期，只返回布尔结果
// @Tags         Pass
// @Accept       json
// @Produce      json
// @Param        request body ValidateExitPassRequest true "校验请求"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /gate/exit-pass/validate [post]
func (c *PassController) ValidateExitPass() {
	var req ValidateExitPassRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "请求参数错误",
			"data":    nil,
		})
		return
	}

	tokenService := c.Container.GetService("token").(services.InterfaceTokenService)
	valid := tokenService.ValidateExitPass(req.Token, req.VehicleID, middleware.GetTenantID(c.Ctx))

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data": gin.H{
			"valid": valid,
		},
	})
}

// GenerateVisitorToken 签发访客凭证
// @Summary      签发访客凭证
// @Description  为访客通行码签发带独立密钥的访客凭证
// @Tags         Pass
// @Accept       json
// @Produce      json
// @Param        request body GenerateVisitorTokenRequest true "签发请求"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /visitor/token [post]
func (c *PassController) GenerateVisitorToken() {
	var req GenerateVisitorTokenRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "请求参数错误",
			"data":    nil,
		})
		return
	}

	tokenService := c.Container.GetService("token").(services.InterfaceTokenService)
	token, err := tokenService.GenerateVisitorToken(
		req.PassCode, req.VisitorID, middleware.GetTenantID(c.Ctx), time.UnixMilli(req.ValidTo))
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data": gin.H{
			"token":    token,
			"valid_to": req.ValidTo,
		},
	})
}

// ValidateVisitorToken 校验访客凭证
// @Summary      校验访客凭证
// @Tags         Pass
// @Accept       json
// @Produce      json
// @Param        request body VisitorTokenRequest true "校验请求"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /visitor/token/validate [post]
func (c *PassController) ValidateVisitorToken() {
	var req VisitorTokenRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "请求参数错误",
			"data":    nil,
		})
		return
	}

	tokenService := c.Container.GetService("token").(services.InterfaceTokenService)
	valid := tokenService.ValidateVisitorToken(req.Token, middleware.GetTenantID(c.Ctx))

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data": gin.H{
			"valid": valid,
		},
	})
}

// ExtractPassCode 校验访客凭证并取出通行码
// @Summary      取出访客通行码
// @Description  校验访客凭证并返回其中的通行码，校验失败返回404
// @Tags         Pass
// @Accept       json
// @Produce      json
// @Param        request body VisitorTokenRequest true "解码请求"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /visitor/token/extract [post]
func (c *PassController) ExtractPassCode() {
	var req VisitorTokenRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "请求参数错误",
			"data":    nil,
		})
		return
	}

	// 对外入口使用校验+解码合一的安全路径
	tokenService := c.Container.GetService("token").(services.InterfaceTokenService)
	passCode, ok := tokenService.ValidatePassCode(req.Token, middleware.GetTenantID(c.Ctx))
	if !ok {
		c.Ctx.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": "凭证无效或不包含通行码",
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data": gin.H{
			"pass_code": passCode,
		},
	})
}
