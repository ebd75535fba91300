package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
)

// 用户相关错误码 (101xxx).
const (
	// ErrUserNotFound - 404: 用户不存在.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 400: 用户已存在.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: 用户密码错误.
	ErrUserPasswordIncorrect
)

// 车辆相关错误码 (102xxx).
const (
	// ErrVehicleNotFound - 404: 车辆不存在.
	ErrVehicleNotFound int = iota + 102000
	// ErrVehicleInactive - 403: 车辆状态不允许通行.
	ErrVehicleInactive
	// ErrVehicleBlacklisted - 403: 车辆在禁入名单中.
	ErrVehicleBlacklisted
)

// 通行会话相关错误码 (103xxx).
const (
	// ErrSessionNotFound - 404: 通行会话不存在.
	ErrSessionNotFound int = iota + 103000
	// ErrSessionAlreadyOpen - 403: 车辆已有未关闭的通行会话.
	ErrSessionAlreadyOpen
	// ErrSessionNotOpen - 403: 通行会话不是在场状态.
	ErrSessionNotOpen
)

// 出场审批相关错误码 (104xxx).
const (
	// ErrApprovalNotFound - 404: 审批请求不存在.
	ErrApprovalNotFound int = iota + 104000
	// ErrApprovalNotPending - 403: 审批请求已处理或已过期.
	ErrApprovalNotPending
	// ErrApprovalRequired - 403: 缺少有效的出场审批.
	ErrApprovalRequired
)

// 凭证相关错误码 (105xxx).
const (
	// ErrExitPassInvalid - 403: 出场凭证无效或已过期.
	ErrExitPassInvalid int = iota + 105000
	// ErrVisitorTokenInvalid - 403: 访客凭证无效或已过期.
	ErrVisitorTokenInvalid
)

// 数据库相关错误码 (106xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 106000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)
