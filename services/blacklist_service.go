package services

import (
	"gateguard-http-service/config"
	"gateguard-http-service/models"
	"gateguard-http-service/utils"

	"gorm.io/gorm"
)

// InterfaceBlacklistService 定义禁入名单服务接口
type InterfaceBlacklistService interface {
	IsPlateBlacklisted(plate string, tenantID uint) (bool, error)
	IsPhoneBlacklisted(phone string, tenantID uint) (bool, error)
	CreateEntry(entry *models.BlacklistEntry) error
	GetEntries(tenantID uint, page, pageSize int) ([]models.BlacklistEntry, int64, error)
	DeleteEntry(id, tenantID uint) error
}

// BlacklistService 提供禁入名单相关的服务
type BlacklistService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewBlacklistService 创建一个新的禁入名单服务
func NewBlacklistService(db *gorm.DB, cfg *config.Config) InterfaceBlacklistService {
	return &BlacklistService{
		DB:     db,
		Config: cfg,
	}
}

// 1 IsPlateBlacklisted 车牌是否在禁入名单中
// 比较前按统一规则规范化车牌，只有激活且未删除的条目参与判断
func (s *BlacklistService) IsPlateBlacklisted(plate string, tenantID uint) (bool, error) {
	normalized := utils.NormalizePlate(plate)
	if normalized == "" {
		return false, nil
	}

	var count int64
	err := s.DB.Model(&models.BlacklistEntry{}).
		Where("tenant_id = ? AND plate_number = ? AND active = ?", tenantID, normalized, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// 2 IsPhoneBlacklisted 电话是否在禁入名单中
func (s *BlacklistService) IsPhoneBlacklisted(phone string, tenantID uint) (bool, error) {
	if phone == "" {
		return false, nil
	}

	var count int64
	err := s.DB.Model(&models.BlacklistEntry{}).
		Where("tenant_id = ? AND phone = ? AND active = ?", tenantID, phone, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// 3 CreateEntry 创建禁入名单条目
// 姓名/电话/车牌至少填写一项，车牌写入前规范化
func (s *BlacklistService) CreateEntry(entry *models.BlacklistEntry) error {
	entry.PlateNumber = utils.NormalizePlate(entry.PlateNumber)
	if entry.Name == "" && entry.Phone == "" && entry.PlateNumber == "" {
		return ErrBlacklistEntryEmpty
	}

	entry.Active = true
	return s.DB.Create(entry).Error
}

// 4 GetEntries 分页获取禁入名单
func (s *BlacklistService) GetEntries(tenantID uint, page, pageSize int) ([]models.BlacklistEntry, int64, error) {
	var entries []models.BlacklistEntry
	var total int64

	query := s.DB.Model(&models.BlacklistEntry{}).Where("tenant_id = ?", tenantID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// 5 DeleteEntry 删除禁入名单条目（软删除）
func (s *BlacklistService) DeleteEntry(id, tenantID uint) error {
	result := s.DB.Where("tenant_id = ?", tenantID).Delete(&models.BlacklistEntry{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
