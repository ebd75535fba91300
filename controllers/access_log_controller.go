package controllers

import (
	"net/http"

	"gateguard-http-service/middleware"
	"gateguard-http-service/services"
	"gateguard-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceAccessLogController 定义通行日志控制器接口
type InterfaceAccessLogController interface {
	GetLog()
	GetLogs()
	GetLogsByVehicle()
	GetLogsBySession()
}

// AccessLogController 处理通行审计日志查询请求
type AccessLogController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAccessLogController 创建一个新的通行日志控制器
func NewAccessLogController(ctx *gin.Context, container *container.ServiceContainer) *AccessLogController {
	return &AccessLogController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleAccessLogFunc 返回一个处理通行日志请求的Gin处理函数
func HandleAccessLogFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAccessLogController(ctx, container)

		switch method {
		case "getLog":
			controller.GetLog()
		case "getLogs":
			controller.GetLogs()
		case "getLogsByVehicle":
			controller.GetLogsByVehicle()
		case "getLogsBySession":
			controller.GetLogsBySession()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

func (c *AccessLogController) logService() services.InterfaceAccessLogService {
	return c.Container.GetService("access_log").(services.InterfaceAccessLogService)
}

// GetLog 查询单条通行日志
// @Summary      查询通行日志
// @Tags         AccessLog
// @Produce      json
// @Param        id path int true "日志ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /access-logs/{id} [get]
func (c *AccessLogController) GetLog() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	logEntry, err := c.logService().GetLogByID(id, middleware.GetTenantID(c.Ctx))
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    logEntry,
	})
}

// GetLogs 分页查询通行日志
// @Summary      查询通行日志列表
// @Description  按时间倒序分页查询本租户的通行审计日志
// @Tags         AccessLog
// @Produce      json
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(10)
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /access-logs [get]
func (c *AccessLogController) GetLogs() {
	page, pageSize := parsePagination(c.Ctx)

	logs, total, err := c.logService().GetLogs(middleware.GetTenantID(c.Ctx), page, pageSize)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    pagedData(total, page, pageSize, logs),
	})
}

// GetLogsByVehicle 查询车辆的通行日志
// @Summary      查询车辆通行日志
// @Tags         AccessLog
// @Produce      json
// @Param        vehicle_id path int true "车辆ID"
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(10)
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /access-logs/vehicle/{vehicle_id} [get]
func (c *AccessLogController) GetLogsByVehicle() {
	vehicleID, ok := parseIDParam(c.Ctx, "vehicle_id")
	if !ok {
		return
	}
	page, pageSize := parsePagination(c.Ctx)

	logs, total, err := c.logService().GetLogsByVehicle(
		vehicleID, middleware.GetTenantID(c.Ctx), page, pageSize)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    pagedData(total, page, pageSize, logs),
	})
}

// GetLogsBySession 查询通行会话的日志轨迹
// @Summary      查询会话通行日志
// @Tags         AccessLog
// @Produce      json
// @Param        session_id path int true "会话ID"
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(10)
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /access-logs/session/{session_id} [get]
func (c *AccessLogController) GetLogsBySession() {
	sessionID, ok := parseIDParam(c.Ctx, "session_id")
	if !ok {
		return
	}
	page, pageSize := parsePagination(c.Ctx)

	logs, total, err := c.logService().GetLogsBySession(
		sessionID, middleware.GetTenantID(c.Ctx), page, pageSize)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    pagedData(total, page, pageSize, logs),
	})
}
