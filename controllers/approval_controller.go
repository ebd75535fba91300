package controllers

import (
	"net/http"

	"gateguard-http-service/middleware"
	"gateguard-http-service/services"
	"gateguard-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceApprovalController 定义远程审批控制器接口
type InterfaceApprovalController interface {
	CreateRequest()
	ApproveRequest()
	DenyRequest()
	GetRequest()
	GetPendingForResident()
}

// ApprovalController 处理远程出场审批相关请求
type ApprovalController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewApprovalController 创建一个新的远程审批控制器
func NewApprovalController(ctx *gin.Context, container *container.ServiceContainer) *ApprovalController {
	return &ApprovalController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateApprovalRequest 表示发起远程审批请求
type CreateApprovalRequest struct {
	SessionID uint   `json:"session_id" binding:"required" example:"42"`
	Note      string `json:"note" example:"访客超时离场"`
}

// HandleApprovalFunc 返回一个处理远程审批请求的Gin处理函数
func HandleApprovalFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewApprovalController(ctx, container)

		switch method {
		case "createRequest":
			controller.CreateRequest()
		case "approveRequest":
			controller.ApproveRequest()
		case "denyRequest":
			controller.DenyRequest()
		case "getRequest":
			controller.GetRequest()
		case "getPendingForResident":
			controller.GetPendingForResident()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

func (c *ApprovalController) approvalService() services.InterfaceExitApprovalService {
	return c.Container.GetService("exit_approval").(services.InterfaceExitApprovalService)
}

// CreateRequest 发起远程出场审批
// @Summary      发起远程审批
// @Description  为一个未关闭的通行会话向业主发起远程出场审批，并推送MQTT通知
// @Tags         Approval
// @Accept       json
// @Produce      json
// @Param        request body CreateApprovalRequest true "审批请求"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /approvals [post]
func (c *ApprovalController) CreateRequest() {
	var req CreateApprovalRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "请求参数错误",
			"data":    nil,
		})
		return
	}

	request, err := c.approvalService().CreateRequest(
		middleware.GetTenantID(c.Ctx), req.SessionID, middleware.GetActor(c.Ctx), req.Note)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "审批请求已发起",
		"data":    request,
	})
}

// ApproveRequest 业主批准远程出场
// @Summary      批准远程审批
// @Tags         Approval
// @Produce      json
// @Param        id path int true "审批请求ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /approvals/{id}/approve [post]
func (c *ApprovalController) ApproveRequest() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	request, err := c.approvalService().ApproveRequest(
		id, middleware.GetTenantID(c.Ctx), middleware.GetActor(c.Ctx))
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "已批准",
		"data":    request,
	})
}

// DenyRequest 业主拒绝远程出场
// @Summary      拒绝远程审批
// @Tags         Approval
// @Produce      json
// @Param        id path int true "审批请求ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /approvals/{id}/deny [post]
func (c *ApprovalController) DenyRequest() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	request, err := c.approvalService().DenyRequest(
		id, middleware.GetTenantID(c.Ctx), middleware.GetActor(c.Ctx))
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "已拒绝",
		"data":    request,
	})
}

// GetRequest 查询单个审批请求
// @Summary      查询审批请求
// @Description  按ID查询审批请求，过期的待审批请求在读取时落盘为EXPIRED
// @Tags         Approval
// @Produce      json
// @Param        id path int true "审批请求ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /approvals/{id} [get]
func (c *ApprovalController) GetRequest() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	request, err := c.approvalService().GetRequest(id, middleware.GetTenantID(c.Ctx))
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    request,
	})
}

// GetPendingForResident 查询业主名下的待审批请求
// @Summary      查询业主待审批列表
// @Tags         Approval
// @Produce      json
// @Param        resident_id path int true "业主ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /approvals/pending/{resident_id} [get]
func (c *ApprovalController) GetPendingForResident() {
	residentID, ok := parseIDParam(c.Ctx, "resident_id")
	if !ok {
		return
	}

	requests, err := c.approvalService().GetPendingForResident(residentID, middleware.GetTenantID(c.Ctx))
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    requests,
	})
}
