package models

import (
	"time"

	"gorm.io/gorm"
)

// BlacklistEntry 租户级禁入名单条目
// 名称/电话/车牌至少填写一项；车牌在写入前统一规范化
type BlacklistEntry struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	TenantID    uint           `gorm:"index;not null" json:"tenant_id"`
	Name        string         `gorm:"type:varchar(50)" json:"name"`
	Phone       string         `gorm:"type:varchar(20);index" json:"phone"`
	PlateNumber string         `gorm:"type:varchar(32);index" json:"plate_number"`
	Reason      string         `gorm:"type:varchar(255)" json:"reason"`
	Active      bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
