package models

import "time"

// Resident 小区住户，由业主资料子系统维护，本服务只读
type Resident struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TenantID  uint      `gorm:"index;not null" json:"tenant_id"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	Phone     string    `gorm:"type:varchar(20);not null" json:"phone"`
	Email     string    `gorm:"type:varchar(100)" json:"email"`
	Unit      string    `gorm:"type:varchar(32)" json:"unit"` // 楼栋/户号
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Vehicles []Vehicle `gorm:"foreignKey:ResidentID" json:"vehicles,omitempty"`
}
