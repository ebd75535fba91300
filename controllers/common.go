package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"gateguard-http-service/services"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 表示错误响应
type ErrorResponse struct {
	Code    int         `json:"code" example:"403"`
	Message string      `json:"message" example:"出场凭证无效或已过期"`
	Data    interface{} `json:"data"`
}

// respondError 把服务层错误映射为HTTP响应
// NotFound类 -> 404；AccessDenied类 -> 403；黑名单拦截附带命中车牌；其余 -> 500
func respondError(ctx *gin.Context, err error) {
	var blacklisted *services.BlacklistedError
	if errors.As(err, &blacklisted) {
		ctx.JSON(http.StatusForbidden, gin.H{
			"code":    403,
			"message": blacklisted.Error(),
			"data": gin.H{
				"plate_number": blacklisted.PlateNumber,
				"blacklisted":  true,
			},
		})
		return
	}

	if services.IsNotFound(err) {
		ctx.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": err.Error(),
			"data":    nil,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrVehicleInactive),
		errors.Is(err, services.ErrSessionAlreadyOpen),
		errors.Is(err, services.ErrSessionNotOpen),
		errors.Is(err, services.ErrApprovalNotPending),
		errors.Is(err, services.ErrApprovalExpired),
		errors.Is(err, services.ErrApprovalRequired),
		errors.Is(err, services.ErrExitPassInvalid):
		ctx.JSON(http.StatusForbidden, gin.H{
			"code":    403,
			"message": err.Error(),
			"data":    nil,
		})
	case errors.Is(err, services.ErrBlacklistEntryEmpty):
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": err.Error(),
			"data":    nil,
		})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "服务器内部错误",
			"data":    nil,
		})
	}
}

// parseIDParam 解析路径中的ID参数
func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的" + name,
			"data":    nil,
		})
		return 0, false
	}
	return uint(id), true
}

// parsePagination 解析分页参数
func parsePagination(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}

// pagedData 组装分页响应数据
func pagedData(total int64, page, pageSize int, items interface{}) gin.H {
	return gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        items,
	}
}
