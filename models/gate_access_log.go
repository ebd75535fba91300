package models

import "time"

// GateEventType 门岗事件类型
type GateEventType string

const (
	// 入场/出场扫码事件
	EventEntryScan GateEventType = "ENTRY_SCAN"
	EventExitScan  GateEventType = "EXIT_SCAN"

	// 黑名单拦截事件
	EventVehicleDeniedBlacklist GateEventType = "VEHICLE_DENIED_BLACKLIST"

	// 出场凭证校验事件
	EventExitPassValidated GateEventType = "EXIT_PASS_VALIDATED"
	EventExitPassFailed    GateEventType = "EXIT_PASS_FAILED"

	// 远程审批事件
	EventRemoteApprovalRequested GateEventType = "REMOTE_APPROVAL_REQUESTED"
	EventRemoteApprovalApproved  GateEventType = "REMOTE_APPROVAL_APPROVED"
	EventRemoteApprovalDenied    GateEventType = "REMOTE_APPROVAL_DENIED"
	EventRemoteApprovalExpired   GateEventType = "REMOTE_APPROVAL_EXPIRED"
)

// GateAccessLog 门岗通行审计日志
// 只追加，不更新不删除；每一次放行或拒绝决定都恰好产生一条记录
type GateAccessLog struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	TenantID   uint          `gorm:"index;not null" json:"tenant_id"`
	SessionID  *uint         `gorm:"index" json:"session_id,omitempty"`
	VehicleID  uint          `gorm:"index;not null" json:"vehicle_id"`
	ResidentID *uint         `json:"resident_id,omitempty"`
	EventType  GateEventType `gorm:"type:varchar(32);not null;index" json:"event_type"`
	Guard      string        `gorm:"type:varchar(50)" json:"guard"` // 当班操作人
	Details    string        `gorm:"type:varchar(255)" json:"details"`
	Success    bool          `gorm:"not null" json:"success"`
	Timestamp  time.Time     `gorm:"not null;index" json:"timestamp"`
	CreatedAt  time.Time     `json:"created_at"`
}
