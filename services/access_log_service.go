package services

import (
	"time"

	"gateguard-http-service/config"
	"gateguard-http-service/models"

	"gorm.io/gorm"
)

// InterfaceAccessLogService 定义通行审计日志服务接口
// 只追加，不提供任何更新或删除操作
type InterfaceAccessLogService interface {
	Record(tenantID uint, eventType models.GateEventType, sessionID *uint, vehicleID uint, residentID *uint, guard, details string, success bool) error
	GetLogByID(id, tenantID uint) (*models.GateAccessLog, error)
	GetLogs(tenantID uint, page, pageSize int) ([]models.GateAccessLog, int64, error)
	GetLogsByVehicle(vehicleID, tenantID uint, page, pageSize int) ([]models.GateAccessLog, int64, error)
	GetLogsBySession(sessionID, tenantID uint, page, pageSize int) ([]models.GateAccessLog, int64, error)
}

// AccessLogService 提供通行审计日志相关的服务
type AccessLogService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewAccessLogService 创建一个新的通行审计日志服务
func NewAccessLogService(db *gorm.DB, cfg *config.Config) InterfaceAccessLogService {
	return &AccessLogService{
		DB:     db,
		Config: cfg,
	}
}

// 1 Record 追加一条审计记录，放行与拒绝都必须留痕
func (s *AccessLogService) Record(tenantID uint, eventType models.GateEventType, sessionID *uint, vehicleID uint, residentID *uint, guard, details string, success bool) error {
	entry := models.GateAccessLog{
		TenantID:   tenantID,
		SessionID:  sessionID,
		VehicleID:  vehicleID,
		ResidentID: residentID,
		EventType:  eventType,
		Guard:      guard,
		Details:    details,
		Success:    success,
		Timestamp:  time.Now(),
	}
	return s.DB.Create(&entry).Error
}

// 2 GetLogByID 根据ID获取审计记录
func (s *AccessLogService) GetLogByID(id, tenantID uint) (*models.GateAccessLog, error) {
	var entry models.GateAccessLog
	err := s.DB.Where("tenant_id = ?", tenantID).First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// 3 GetLogs 分页获取审计记录，按时间倒序
func (s *AccessLogService) GetLogs(tenantID uint, page, pageSize int) ([]models.GateAccessLog, int64, error) {
	return s.listLogs(s.DB.Model(&models.GateAccessLog{}).Where("tenant_id = ?", tenantID), page, pageSize)
}

// 4 GetLogsByVehicle 分页获取指定车辆的审计记录
func (s *AccessLogService) GetLogsByVehicle(vehicleID, tenantID uint, page, pageSize int) ([]models.GateAccessLog, int64, error) {
	return s.listLogs(
		s.DB.Model(&models.GateAccessLog{}).Where("tenant_id = ? AND vehicle_id = ?", tenantID, vehicleID),
		page, pageSize,
	)
}

// 5 GetLogsBySession 分页获取指定通行会话的审计记录
func (s *AccessLogService) GetLogsBySession(sessionID, tenantID uint, page, pageSize int) ([]models.GateAccessLog, int64, error) {
	return s.listLogs(
		s.DB.Model(&models.GateAccessLog{}).Where("tenant_id = ? AND session_id = ?", tenantID, sessionID),
		page, pageSize,
	)
}

// listLogs 公共分页逻辑
func (s *AccessLogService) listLogs(query *gorm.DB, page, pageSize int) ([]models.GateAccessLog, int64, error) {
	var logs []models.GateAccessLog
	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("timestamp DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
