package services

import (
	"errors"

	"gateguard-http-service/config"
	"gateguard-http-service/models"

	"gorm.io/gorm"
)

// InterfaceVehicleService 定义车辆/住户主数据查询接口
// 主数据由业主资料子系统维护，本服务只读，不提供任何写操作
type InterfaceVehicleService interface {
	GetVehicleByQRCode(qrCode string, tenantID uint) (*models.Vehicle, error)
	GetVehicleByID(id, tenantID uint) (*models.Vehicle, error)
	GetResidentByID(id, tenantID uint) (*models.Resident, error)
}

// VehicleService 提供车辆主数据的只读查询
type VehicleService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewVehicleService 创建一个新的车辆查询服务
func NewVehicleService(db *gorm.DB, cfg *config.Config) InterfaceVehicleService {
	return &VehicleService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetVehicleByQRCode 根据车辆二维码贴纸查找车辆
func (s *VehicleService) GetVehicleByQRCode(qrCode string, tenantID uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := s.DB.Where("tenant_id = ? AND qr_code = ?", tenantID, qrCode).First(&vehicle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// 2 GetVehicleByID 根据ID查找车辆
func (s *VehicleService) GetVehicleByID(id, tenantID uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := s.DB.Where("tenant_id = ?", tenantID).First(&vehicle, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// 3 GetResidentByID 根据ID查找住户
func (s *VehicleService) GetResidentByID(id, tenantID uint) (*models.Resident, error) {
	var resident models.Resident
	err := s.DB.Where("tenant_id = ?", tenantID).First(&resident, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResidentNotFound
		}
		return nil, err
	}
	return &resident, nil
}
