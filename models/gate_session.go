package models

import "time"

// GateSessionStatus 通行会话状态
type GateSessionStatus string

const (
	GateSessionStatusOpen   GateSessionStatus = "OPEN"   // 车辆已入场，尚未出场
	GateSessionStatusClosed GateSessionStatus = "CLOSED" // 车辆已出场，终态
)

// GateSession 一次车辆从入场到出场的通行会话
// 不变量: 同一租户下同一车辆最多只能有一条OPEN会话；会话只在出场时修改一次，永不删除
type GateSession struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	TenantID   uint              `gorm:"index;not null" json:"tenant_id"`
	VehicleID  uint              `gorm:"index:idx_session_vehicle_status;not null" json:"vehicle_id"`
	ResidentID uint              `gorm:"index;not null" json:"resident_id"`
	// 车牌号在入场瞬间冗余记录，后续车辆资料变更不影响历史会话
	PlateNumber string            `gorm:"type:varchar(32);not null" json:"plate_number"`
	Status      GateSessionStatus `gorm:"type:varchar(16);not null;index:idx_session_vehicle_status" json:"status"`
	EntryTime   time.Time         `gorm:"not null" json:"entry_time"`
	ExitTime    *time.Time        `json:"exit_time,omitempty"`
	EntryGuard  string            `gorm:"type:varchar(50)" json:"entry_guard"`
	ExitGuard   string            `gorm:"type:varchar(50)" json:"exit_guard"`
	EntryNote   string            `gorm:"type:varchar(255)" json:"entry_note"`
	ExitNote    string            `gorm:"type:varchar(255)" json:"exit_note"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	// Relations
	Vehicle  *Vehicle  `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Resident *Resident `gorm:"foreignKey:ResidentID" json:"resident,omitempty"`
}

// IsOpen 会话是否仍在场内
func (s *GateSession) IsOpen() bool {
	return s.Status == GateSessionStatusOpen
}
