package controllers

import (
	"net/http"

	"gateguard-http-service/middleware"
	"gateguard-http-service/models"
	"gateguard-http-service/services"
	"gateguard-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceSessionController 定义通行会话控制器接口
type InterfaceSessionController interface {
	GetSession()
	GetSessions()
	GetSessionsByVehicle()
	GetOpenSessionByVehicle()
}

// SessionController 处理通行会话查询请求
type SessionController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewSessionController 创建一个新的通行会话控制器
func NewSessionController(ctx *gin.Context, container *container.ServiceContainer) *SessionController {
	return &SessionController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleSessionFunc 返回一个处理通行会话请求的Gin处理函数
func HandleSessionFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewSessionController(ctx, container)

		switch method {
		case "getSession":
			controller.GetSession()
		case "getSessions":
			controller.GetSessions()
		case "getSessionsByVehicle":
			controller.GetSessionsByVehicle()
		case "getOpenSessionByVehicle":
			controller.GetOpenSessionByVehicle()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

func (c *SessionController) sessionService() services.InterfaceGateSessionService {
	return c.Container.GetService("gate_session").(services.InterfaceGateSessionService)
}

// GetSession 查询单个通行会话
// @Summary      查询通行会话
// @Tags         Session
// @Produce      json
// @Param        id path int true "会话ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /sessions/{id} [get]
func (c *SessionController) GetSession() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	session, err := c.sessionService().GetSessionByID(id, middleware.GetTenantID(c.Ctx))
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    session,
	})
}

// GetSessions 分页查询通行会话
// @Summary      查询通行会话列表
// @Description  分页查询本租户的通行会话，可按status过滤
// @Tags         Session
// @Produce      json
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(10)
// @Param        status query string false "会话状态" Enums(OPEN, CLOSED)
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /sessions [get]
func (c *SessionController) GetSessions() {
	page, pageSize := parsePagination(c.Ctx)
	tenantID := middleware.GetTenantID(c.Ctx)

	var (
		sessions []models.GateSession
		total    int64
		err      error
	)
	if status := c.Ctx.Query("status"); status != "" {
		sessions, total, err = c.sessionService().GetSessionsByStatus(
			models.GateSessionStatus(status), tenantID, page, pageSize)
	} else {
		sessions, total, err = c.sessionService().GetSessions(tenantID, page, pageSize)
	}
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    pagedData(total, page, pageSize, sessions),
	})
}

// GetSessionsByVehicle 查询车辆的历史通行会话
// @Summary      查询车辆通行会话
// @Tags         Session
// @Produce      json
// @Param        vehicle_id path int true "车辆ID"
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(10)
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /sessions/vehicle/{vehicle_id} [get]
func (c *SessionController) GetSessionsByVehicle() {
	vehicleID, ok := parseIDParam(c.Ctx, "vehicle_id")
	if !ok {
		return
	}
	page, pageSize := parsePagination(c.Ctx)

	sessions, total, err := c.sessionService().GetSessionsByVehicle(
		vehicleID, middleware.GetTenantID(c.Ctx), page, pageSize)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    pagedData(total, page, pageSize, sessions),
	})
}

// GetOpenSessionByVehicle 查询车辆当前未关闭的通行会话
// @Summary      查询车辆在场会话
// @Tags         Session
// @Produce      json
// @Param        vehicle_id path int true "车辆ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /sessions/vehicle/{vehicle_id}/open [get]
func (c *SessionController) GetOpenSessionByVehicle() {
	vehicleID, ok := parseIDParam(c.Ctx, "vehicle_id")
	if !ok {
		return
	}

	session, err := c.sessionService().GetOpenSessionByVehicle(vehicleID, middleware.GetTenantID(c.Ctx))
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    session,
	})
}
