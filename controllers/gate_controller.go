package controllers

import (
	"net/http"

	"gateguard-http-service/middleware"
	"gateguard-http-service/services"
	"gateguard-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceGateController 定义门岗控制器接口
type InterfaceGateController interface {
	ProcessEntry()
	ProcessExit()
	ProcessRemoteApprovalExit()
}

// GateController 处理门岗入场/出场请求
type GateController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewGateController 创建一个新的门岗控制器
func NewGateController(ctx *gin.Context, container *container.ServiceContainer) *GateController {
	return &GateController{
		Ctx:       ctx,
		Container: container,
	}
}

// EntryRequest 表示入场扫码请求
type EntryRequest struct {
	QRCode string `json:"qr_code" binding:"required" example:"VEH-QR-8F2A61"`
	Note   string `json:"note" example:"正常入场"`
}

// ExitRequest 表示凭证出场扫码请求
type ExitRequest struct {
	QRCode        string `json:"qr_code" binding:"required" example:"VEH-QR-8F2A61"`
	ExitPassToken string `json:"exit_pass_token" binding:"required"`
	Note          string `json:"note" example:"正常出场"`
}

// HandleGateFunc 返回一个处理门岗请求的Gin处理函数
func HandleGateFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewGateController(ctx, container)

		switch method {
		case "processEntry":
			controller.ProcessEntry()
		case "processExit":
			controller.ProcessExit()
		case "processRemoteApprovalExit":
			controller.ProcessRemoteApprovalExit()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// ProcessEntry 车辆入场
// @Summary      车辆入场扫码
// @Description  扫描车辆二维码贴纸，执行黑名单与车辆状态检查后创建通行会话
// @Tags         Gate
// @Accept       json
// @Produce      json
// @Param        request body EntryRequest true "入场请求"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /gate/entry [post]
func (c *GateController) ProcessEntry() {
	var req EntryRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "请求参数错误",
			"data":    nil,
		})
		return
	}

	gateService := c.Container.GetService("gate").(services.InterfaceGateService)
	result, err := gateService.ProcessEntry(
		middleware.GetTenantID(c.Ctx), middleware.GetActor(c.Ctx), req.QRCode, req.Note)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "车辆已入场",
		"data":    result,
	})
}

// ProcessExit 凭证出场
// @Summary      车辆凭证出场扫码
// @Description  扫描车辆二维码并校验出场凭证，校验通过后关闭通行会话
// @Tags         Gate
// @Accept       json
// @Produce      json
// @Param        request body ExitRequest true "出场请求"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /gate/exit [post]
func (c *GateController) ProcessExit() {
	var req ExitRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "请求参数错误",
			"data":    nil,
		})
		return
	}

	gateService := c.Container.GetService("gate").(services.InterfaceGateService)
	result, err := gateService.ProcessExit(
		middleware.GetTenantID(c.Ctx), middleware.GetActor(c.Ctx), req.QRCode, req.ExitPassToken, req.Note)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "车辆已出场",
		"data":    result,
	})
}

// ProcessRemoteApprovalExit 远程审批出场
// @Summary      远程审批出场
// @Description  对住户已同意远程审批的在场会话放行出场
// @Tags         Gate
// @Accept       json
// @Produce      json
// @Param        session_id path int true "通行会话ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /gate/exit/remote/{session_id} [post]
func (c *GateController) ProcessRemoteApprovalExit() {
	sessionID, ok := parseIDParam(c.Ctx, "session_id")
	if !ok {
		return
	}

	gateService := c.Container.GetService("gate").(services.InterfaceGateService)
	result, err := gateService.ProcessRemoteApprovalExit(
		middleware.GetTenantID(c.Ctx), middleware.GetActor(c.Ctx), sessionID)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "车辆已出场（远程审批）",
		"data":    result,
	})
}
