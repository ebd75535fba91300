package models

import "time"

// ExitApprovalStatus 出场审批状态
type ExitApprovalStatus string

const (
	ExitApprovalStatusPending  ExitApprovalStatus = "PENDING"  // 等待住户处理
	ExitApprovalStatusApproved ExitApprovalStatus = "APPROVED" // 住户已同意，终态
	ExitApprovalStatusDenied   ExitApprovalStatus = "DENIED"   // 住户已拒绝，终态
	ExitApprovalStatusExpired  ExitApprovalStatus = "EXPIRED"  // 超时未处理，终态
)

// ExitApprovalRequest 远程出场审批请求
// 门岗无法验证出场凭证时创建，由住户远程同意/拒绝
// 不变量: 状态只允许 PENDING -> {APPROVED, DENIED, EXPIRED}，非PENDING状态不可再变更
type ExitApprovalRequest struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	TenantID    uint               `gorm:"index;not null" json:"tenant_id"`
	SessionID   uint               `gorm:"index;not null" json:"session_id"`
	VehicleID   uint               `gorm:"index;not null" json:"vehicle_id"`
	ResidentID  uint               `gorm:"index;not null" json:"resident_id"`
	RequestedBy string             `gorm:"type:varchar(50)" json:"requested_by"` // 发起审批的门岗
	Status      ExitApprovalStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	ExpiresAt   time.Time          `gorm:"not null" json:"expires_at"` // 创建时间 + 配置窗口
	RespondedAt *time.Time         `json:"responded_at,omitempty"`
	Note        string             `gorm:"type:varchar(255)" json:"note"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`

	// Relations
	Session *GateSession `gorm:"foreignKey:SessionID" json:"session,omitempty"`
}

// IsPending 请求是否仍在等待处理
func (r *ExitApprovalRequest) IsPending() bool {
	return r.Status == ExitApprovalStatusPending
}

// IsOverdue 请求是否已超过审批窗口（与状态无关的纯时间判断）
func (r *ExitApprovalRequest) IsOverdue(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
