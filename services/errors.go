package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// 服务层统一错误定义，控制器通过 errors.Is / errors.As 映射到响应码
var (
	// NotFound 类错误
	ErrVehicleNotFound  = errors.New("车辆不存在")
	ErrResidentNotFound = errors.New("住户不存在")
	ErrSessionNotFound  = errors.New("通行会话不存在")
	ErrApprovalNotFound = errors.New("审批请求不存在")

	// AccessDenied 类错误
	ErrVehicleInactive    = errors.New("车辆状态不允许通行")
	ErrSessionAlreadyOpen = errors.New("车辆已有未关闭的通行会话")
	ErrSessionNotOpen     = errors.New("通行会话不是在场状态")
	ErrApprovalNotPending = errors.New("审批请求已处理")
	ErrApprovalExpired    = errors.New("审批请求已过期")
	ErrApprovalRequired   = errors.New("缺少有效的出场审批")
	ErrExitPassInvalid    = errors.New("出场凭证无效或已过期")

	// 校验类错误，在任何持久化和日志记录之前拒绝
	ErrBlacklistEntryEmpty = errors.New("禁入名单条目至少需要姓名、电话或车牌之一")
)

// BlacklistedError 黑名单拦截错误，携带命中的车牌号
type BlacklistedError struct {
	PlateNumber string
}

func (e *BlacklistedError) Error() string {
	return fmt.Sprintf("车牌 %s 在禁入名单中", e.PlateNumber)
}

// IsNotFound 判断是否为资源不存在类错误
func IsNotFound(err error) bool {
	return errors.Is(err, ErrVehicleNotFound) ||
		errors.Is(err, ErrResidentNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrApprovalNotFound) ||
		errors.Is(err, gorm.ErrRecordNotFound)
}
