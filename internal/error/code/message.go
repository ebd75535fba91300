package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:         "成功",
	ErrUnknown:         "未知错误",
	ErrBind:            "请求参数绑定错误",
	ErrValidation:      "请求参数验证错误",
	ErrTokenInvalid:    "无效的认证令牌",
	ErrTooManyRequests: "请求频率过高",

	// 用户相关错误码
	ErrUserNotFound:          "用户不存在",
	ErrUserAlreadyExist:      "用户已存在",
	ErrUserPasswordIncorrect: "用户密码错误",

	// 车辆相关错误码
	ErrVehicleNotFound:    "车辆不存在",
	ErrVehicleInactive:    "车辆状态不允许通行",
	ErrVehicleBlacklisted: "车辆在禁入名单中",

	// 通行会话相关错误码
	ErrSessionNotFound:    "通行会话不存在",
	ErrSessionAlreadyOpen: "车辆已有未关闭的通行会话",
	ErrSessionNotOpen:     "通行会话不是在场状态",

	// 出场审批相关错误码
	ErrApprovalNotFound:   "审批请求不存在",
	ErrApprovalNotPending: "审批请求已处理或已过期",
	ErrApprovalRequired:   "缺少有效的出场审批",

	// 凭证相关错误码
	ErrExitPassInvalid:     "出场凭证无效或已过期",
	ErrVisitorTokenInvalid: "访客凭证无效或已过期",

	// 数据库相关错误码
	ErrDatabase:       "数据库错误",
	ErrRecordNotFound: "记录不存在",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTokenInvalid:    StatusUnauthorized,
	ErrTooManyRequests: StatusTooManyRequests,

	// 用户相关错误码
	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusBadRequest,
	ErrUserPasswordIncorrect: StatusUnauthorized,

	// 车辆相关错误码
	ErrVehicleNotFound:    StatusNotFound,
	ErrVehicleInactive:    StatusForbidden,
	ErrVehicleBlacklisted: StatusForbidden,

	// 通行会话相关错误码
	ErrSessionNotFound:    StatusNotFound,
	ErrSessionAlreadyOpen: StatusForbidden,
	ErrSessionNotOpen:     StatusForbidden,

	// 出场审批相关错误码
	ErrApprovalNotFound:   StatusNotFound,
	ErrApprovalNotPending: StatusForbidden,
	ErrApprovalRequired:   StatusForbidden,

	// 凭证相关错误码
	ErrExitPassInvalid:     StatusForbidden,
	ErrVisitorTokenInvalid: StatusForbidden,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,
}

// GetMessage 根据错误码获取对应的消息
func GetMessage(errorCode int) string {
	if message, ok := codeMessageMap[errorCode]; ok {
		return message
	}
	return codeMessageMap[ErrUnknown]
}

// GetStatus 根据错误码获取对应的HTTP状态码
func GetStatus(errorCode int) int {
	if status, ok := codeStatusMap[errorCode]; ok {
		return status
	}
	return StatusInternalServerError
}
