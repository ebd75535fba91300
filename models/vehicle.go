package models

import "time"

// VehicleStatus 车辆状态
type VehicleStatus string

const (
	VehicleStatusActive    VehicleStatus = "active"    // 正常
	VehicleStatusSuspended VehicleStatus = "suspended" // 暂停通行
	VehicleStatusRemoved   VehicleStatus = "removed"   // 已迁出
)

// Vehicle 小区登记车辆，由业主资料子系统维护，本服务只读
type Vehicle struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	TenantID   uint          `gorm:"not null;uniqueIndex:idx_vehicle_qr_tenant" json:"tenant_id"`
	ResidentID uint          `gorm:"index;not null" json:"resident_id"`
	// 车牌号，入库前统一规范化
	PlateNumber string        `gorm:"type:varchar(32);not null;index" json:"plate_number"`
	Status      VehicleStatus `gorm:"type:varchar(16);not null;default:'active'" json:"status"`
	// 长期有效的车辆二维码贴纸，门岗扫码识别车辆
	QRCode    string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_vehicle_qr_tenant" json:"qr_code"`
	Brand     string    `gorm:"type:varchar(32)" json:"brand"`
	Model     string    `gorm:"type:varchar(32)" json:"model"`
	Color     string    `gorm:"type:varchar(16)" json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Resident *Resident `gorm:"foreignKey:ResidentID" json:"resident,omitempty"`
}

// IsActive 车辆是否处于可通行状态
func (v *Vehicle) IsActive() bool {
	return v.Status == VehicleStatusActive
}
