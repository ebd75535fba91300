package services

import (
	"errors"
	"time"

	"gateguard-http-service/config"
	"gateguard-http-service/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InterfaceGateSessionService 定义通行会话服务接口
// 会话状态机: OPEN(初始) -> CLOSED(终态)，仅此一个迁移
type InterfaceGateSessionService interface {
	OpenSession(tenantID, vehicleID, residentID uint, plateNumber, guard, note string) (*models.GateSession, error)
	CloseSession(session *models.GateSession, guard, note string, exitTime time.Time) error
	GetSessionByID(id, tenantID uint) (*models.GateSession, error)
	GetOpenSessionByVehicle(vehicleID, tenantID uint) (*models.GateSession, error)
	GetSessionsByVehicle(vehicleID, tenantID uint, page, pageSize int) ([]models.GateSession, int64, error)
	GetSessionsByStatus(status models.GateSessionStatus, tenantID uint, page, pageSize int) ([]models.GateSession, int64, error)
	GetSessions(tenantID uint, page, pageSize int) ([]models.GateSession, int64, error)
}

// GateSessionService 提供通行会话相关的服务
type GateSessionService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewGateSessionService 创建一个新的通行会话服务
func NewGateSessionService(db *gorm.DB, cfg *config.Config) InterfaceGateSessionService {
	return &GateSessionService{
		DB:     db,
		Config: cfg,
	}
}

// 1 OpenSession 车辆入场，创建OPEN会话
//
// 同一租户下同一车辆最多一条OPEN会话。存在性检查和插入必须是
// 一个原子单元，否则两次几乎同时的入场扫码会各自通过检查。
// 这里在事务内对车辆行加排他锁，把并发入场串行到同一把
// (tenant, vehicle) 锁上。
func (s *GateSessionService) OpenSession(tenantID, vehicleID, residentID uint, plateNumber, guard, note string) (*models.GateSession, error) {
	var session *models.GateSession

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// 锁住车辆行，串行化同一车辆的入场
		var vehicle models.Vehicle
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ?", tenantID).
			First(&vehicle, vehicleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVehicleNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.GateSession{}).
			Where("tenant_id = ? AND vehicle_id = ? AND status = ?",
				tenantID, vehicleID, models.GateSessionStatusOpen).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrSessionAlreadyOpen
		}

		session = &models.GateSession{
			TenantID:    tenantID,
			VehicleID:   vehicleID,
			ResidentID:  residentID,
			PlateNumber: plateNumber,
			Status:      models.GateSessionStatusOpen,
			EntryTime:   time.Now(),
			EntryGuard:  guard,
			EntryNote:   note,
		}
		return tx.Create(session).Error
	})

	if err != nil {
		return nil, err
	}
	return session, nil
}

// 2 CloseSession 车辆出场，OPEN -> CLOSED，只允许执行一次
func (s *GateSessionService) CloseSession(session *models.GateSession, guard, note string, exitTime time.Time) error {
	if !session.IsOpen() {
		return ErrSessionNotOpen
	}

	// 条件更新: 只有仍为OPEN的行会被改写，落库状态是唯一裁判
	result := s.DB.Model(&models.GateSession{}).
		Where("id = ? AND tenant_id = ? AND status = ?",
			session.ID, session.TenantID, models.GateSessionStatusOpen).
		Updates(map[string]interface{}{
			"status":     models.GateSessionStatusClosed,
			"exit_time":  exitTime,
			"exit_guard": guard,
			"exit_note":  note,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotOpen
	}

	session.Status = models.GateSessionStatusClosed
	session.ExitTime = &exitTime
	session.ExitGuard = guard
	session.ExitNote = note
	return nil
}

// 3 GetSessionByID 根据ID获取通行会话
func (s *GateSessionService) GetSessionByID(id, tenantID uint) (*models.GateSession, error) {
	var session models.GateSession
	err := s.DB.Where("tenant_id = ?", tenantID).First(&session, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// 4 GetOpenSessionByVehicle 获取车辆当前的在场会话
func (s *GateSessionService) GetOpenSessionByVehicle(vehicleID, tenantID uint) (*models.GateSession, error) {
	var session models.GateSession
	err := s.DB.Where("tenant_id = ? AND vehicle_id = ? AND status = ?",
		tenantID, vehicleID, models.GateSessionStatusOpen).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// 5 GetSessionsByVehicle 分页获取车辆的历史会话
func (s *GateSessionService) GetSessionsByVehicle(vehicleID, tenantID uint, page, pageSize int) ([]models.GateSession, int64, error) {
	return s.listSessions(
		s.DB.Model(&models.GateSession{}).Where("tenant_id = ? AND vehicle_id = ?", tenantID, vehicleID),
		page, pageSize,
	)
}

// 6 GetSessionsByStatus 分页获取指定状态的会话
func (s *GateSessionService) GetSessionsByStatus(status models.GateSessionStatus, tenantID uint, page, pageSize int) ([]models.GateSession, int64, error) {
	return s.listSessions(
		s.DB.Model(&models.GateSession{}).Where("tenant_id = ? AND status = ?", tenantID, status),
		page, pageSize,
	)
}

// 7 GetSessions 分页获取全部会话
func (s *GateSessionService) GetSessions(tenantID uint, page, pageSize int) ([]models.GateSession, int64, error) {
	return s.listSessions(
		s.DB.Model(&models.GateSession{}).Where("tenant_id = ?", tenantID),
		page, pageSize,
	)
}

// listSessions 公共分页逻辑，按入场时间倒序
func (s *GateSessionService) listSessions(query *gorm.DB, page, pageSize int) ([]models.GateSession, int64, error) {
	var sessions []models.GateSession
	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("entry_time DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&sessions).Error; err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}
