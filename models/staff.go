package models

import (
	"time"

	"gateguard-http-service/utils"

	"gorm.io/gorm"
)

// StaffRole 岗位角色
type StaffRole string

const (
	StaffRoleGuard   StaffRole = "guard"   // 门岗保安
	StaffRoleManager StaffRole = "manager" // 物业管理员
)

// Staff 物业工作人员（门岗保安、管理员），JWT登录主体
type Staff struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TenantID  uint      `gorm:"index;not null" json:"tenant_id"`
	Username  string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"username"`
	Password  string    `gorm:"type:varchar(100);not null" json:"-"` // 不在JSON中暴露密码
	Name      string    `gorm:"type:varchar(50)" json:"name"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone"`
	Role      StaffRole `gorm:"type:varchar(16);not null;default:'guard'" json:"role"`
	Status    string    `gorm:"type:varchar(16);not null;default:'active'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	// 如果提供了密码且不是已哈希的，对其进行哈希处理
	if s.Password != "" && len(s.Password) < 60 {
		hashed, err := utils.HashPassword(s.Password)
		if err != nil {
			return err
		}
		s.Password = hashed
	}
	return nil
}

// BeforeSave 是一个GORM钩子，在保存记录前运行
func (s *Staff) BeforeSave(tx *gorm.DB) error {
	// 如果提供了密码且不是已哈希的，对其进行哈希处理
	if s.Password != "" && len(s.Password) < 60 {
		hashed, err := utils.HashPassword(s.Password)
		if err != nil {
			return err
		}
		s.Password = hashed
	}
	return nil
}
