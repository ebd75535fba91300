package controllers

import (
	"net/http"

	"gateguard-http-service/middleware"
	"gateguard-http-service/models"
	"gateguard-http-service/services"
	"gateguard-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceBlacklistController 定义禁入名单控制器接口
type InterfaceBlacklistController interface {
	CreateEntry()
	GetEntries()
	DeleteEntry()
	CheckPlate()
}

// BlacklistController 处理禁入名单相关请求
type BlacklistController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewBlacklistController 创建一个新的禁入名单控制器
func NewBlacklistController(ctx *gin.Context, container *container.ServiceContainer) *BlacklistController {
	return &BlacklistController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateBlacklistRequest 表示新增禁入名单请求
type CreateBlacklistRequest struct {
	Name        string `json:"name" example:"张三"`
	Phone       string `json:"phone" example:"13800138000"`
	PlateNumber string `json:"plate_number" example:"KAA 123A"`
	Reason      string `json:"reason" example:"多次冲卡"`
}

// CheckPlateRequest 表示车牌禁入检查请求
type CheckPlateRequest struct {
	PlateNumber string `json:"plate_number" binding:"required" example:"kaa-123-a"`
}

// HandleBlacklistFunc 返回一个处理禁入名单请求的Gin处理函数
func HandleBlacklistFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewBlacklistController(ctx, container)

		switch method {
		case "createEntry":
			controller.CreateEntry()
		case "getEntries":
			controller.GetEntries()
		case "deleteEntry":
			controller.DeleteEntry()
		case "checkPlate":
			controller.CheckPlate()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

func (c *BlacklistController) blacklistService() services.InterfaceBlacklistService {
	return c.Container.GetService("blacklist").(services.InterfaceBlacklistService)
}

// CreateEntry 新增禁入名单条目
// @Summary      新增禁入条目
// @Description  姓名、电话、车牌至少提供一项，车牌入库前做归一化
// @Tags         Blacklist
// @Accept       json
// @Produce      json
// @Param        request body CreateBlacklistRequest true "禁入条目"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /blacklist [post]
func (c *BlacklistController) CreateEntry() {
	var req CreateBlacklistRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "请求参数错误",
			"data":    nil,
		})
		return
	}

	entry := &models.BlacklistEntry{
		TenantID:    middleware.GetTenantID(c.Ctx),
		Name:        req.Name,
		Phone:       req.Phone,
		PlateNumber: req.PlateNumber,
		Reason:      req.Reason,
		Active:      true,
	}
	if err := c.blacklistService().CreateEntry(entry); err != nil {
		respondError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "已加入禁入名单",
		"data":    entry,
	})
}

// GetEntries 分页查询禁入名单
// @Summary      查询禁入名单
// @Tags         Blacklist
// @Produce      json
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(10)
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /blacklist [get]
func (c *BlacklistController) GetEntries() {
	page, pageSize := parsePagination(c.Ctx)

	entries, total, err := c.blacklistService().GetEntries(middleware.GetTenantID(c.Ctx), page, pageSize)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    pagedData(total, page, pageSize, entries),
	})
}

// DeleteEntry 移除禁入名单条目
// @Summary      移除禁入条目
// @Tags         Blacklist
// @Produce      json
// @Param        id path int true "条目ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /blacklist/{id} [delete]
func (c *BlacklistController) DeleteEntry() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	if err := c.blacklistService().DeleteEntry(id, middleware.GetTenantID(c.Ctx)); err != nil {
		respondError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "已移除",
		"data":    nil,
	})
}

// CheckPlate 检查车牌是否在禁入名单中
// @Summary      检查车牌禁入状态
// @Description  对车牌做归一化后检查是否命中本租户禁入名单
// @Tags         Blacklist
// @Accept       json
// @Produce      json
// @Param        request body CheckPlateRequest true "检查请求"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /blacklist/check [post]
func (c *BlacklistController) CheckPlate() {
	var req CheckPlateRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "请求参数错误",
			"data":    nil,
		})
		return
	}

	blacklisted, err := c.blacklistService().IsPlateBlacklisted(req.PlateNumber, middleware.GetTenantID(c.Ctx))
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data": gin.H{
			"plate_number": req.PlateNumber,
			"blacklisted":  blacklisted,
		},
	})
}
