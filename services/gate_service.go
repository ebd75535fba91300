package services

import (
	"fmt"
	"time"

	"gateguard-http-service/config"
	"gateguard-http-service/models"
)

// InterfaceGateService 定义门岗决策服务接口
// 组合车辆查询、黑名单、通行会话、出场审批、凭证、审计各组件，
// 是入场、凭证出场、远程审批出场三条流程的唯一入口
type InterfaceGateService interface {
	ProcessEntry(tenantID uint, guard, qrCode, note string) (*GateResult, error)
	ProcessExit(tenantID uint, guard, qrCode, exitPassToken, note string) (*GateResult, error)
	ProcessRemoteApprovalExit(tenantID uint, guard string, sessionID uint) (*GateResult, error)
}

// GateResult 门岗决策结果，附带车辆与住户展示字段
type GateResult struct {
	SessionID   uint                     `json:"session_id"`
	Status      models.GateSessionStatus `json:"status"`
	EntryTime   time.Time                `json:"entry_time"`
	ExitTime    *time.Time               `json:"exit_time,omitempty"`
	VehicleID   uint                     `json:"vehicle_id"`
	PlateNumber string                   `json:"plate_number"`
	Brand       string                   `json:"brand,omitempty"`
	Model       string                   `json:"model,omitempty"`
	Color       string                   `json:"color,omitempty"`
	ResidentID  uint                     `json:"resident_id,omitempty"`
	// 住户缺失时为空字符串，不视为错误
	ResidentName  string `json:"resident_name,omitempty"`
	ResidentPhone string `json:"resident_phone,omitempty"`
}

// GateService 门岗决策服务实现
type GateService struct {
	Config       *config.Config
	Vehicles     InterfaceVehicleService
	Blacklist    InterfaceBlacklistService
	Sessions     InterfaceGateSessionService
	Approvals    InterfaceExitApprovalService
	AccessLog    InterfaceAccessLogService
	Tokens       InterfaceTokenService
	Notification InterfaceNotificationService // 可为nil
}

// NewGateService 创建一个新的门岗决策服务
func NewGateService(
	cfg *config.Config,
	vehicles InterfaceVehicleService,
	blacklist InterfaceBlacklistService,
	sessions InterfaceGateSessionService,
	approvals InterfaceExitApprovalService,
	accessLog InterfaceAccessLogService,
	tokens InterfaceTokenService,
	notification InterfaceNotificationService,
) InterfaceGateService {
	return &GateService{
		Config:       cfg,
		Vehicles:     vehicles,
		Blacklist:    blacklist,
		Sessions:     sessions,
		Approvals:    approvals,
		AccessLog:    accessLog,
		Tokens:       tokens,
		Notification: notification,
	}
}

// 1 ProcessEntry 入场流程
// 扫码定位车辆 -> 黑名单检查 -> 车辆状态检查 -> 住户解析 -> 创建会话 -> 审计
func (s *GateService) ProcessEntry(tenantID uint, guard, qrCode, note string) (*GateResult, error) {
	vehicle, err := s.Vehicles.GetVehicleByQRCode(qrCode, tenantID)
	if err != nil {
		// 扫码找不到车辆不产生审计记录，无车辆主体可挂
		return nil, err
	}

	blacklisted, err := s.Blacklist.IsPlateBlacklisted(vehicle.PlateNumber, tenantID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		residentID := vehicle.ResidentID
		s.record(tenantID, models.EventVehicleDeniedBlacklist, nil, vehicle.ID, &residentID, guard,
			fmt.Sprintf("车牌 %s 在禁入名单中", vehicle.PlateNumber), false)
		s.notify(tenantID, models.EventVehicleDeniedBlacklist, vehicle.ID, vehicle.PlateNumber)
		return nil, &BlacklistedError{PlateNumber: vehicle.PlateNumber}
	}

	if !vehicle.IsActive() {
		residentID := vehicle.ResidentID
		s.record(tenantID, models.EventEntryScan, nil, vehicle.ID, &residentID, guard,
			fmt.Sprintf("车辆状态为 %s，拒绝入场", vehicle.Status), false)
		return nil, ErrVehicleInactive
	}

	// 先解析住户，会话创建时要冗余记录住户ID
	resident, err := s.Vehicles.GetResidentByID(vehicle.ResidentID, tenantID)
	if err != nil {
		return nil, err
	}

	session, err := s.Sessions.OpenSession(tenantID, vehicle.ID, resident.ID, vehicle.PlateNumber, guard, note)
	if err != nil {
		return nil, err
	}

	sessionID := session.ID
	residentID := resident.ID
	s.record(tenantID, models.EventEntryScan, &sessionID, vehicle.ID, &residentID, guard, "车辆入场", true)

	return buildGateResult(session, vehicle, resident), nil
}

// 2 ProcessExit 凭证出场流程
// 扫码定位车辆 -> 找到在场会话 -> 校验出场凭证 -> 关闭会话 -> 审计
func (s *GateService) ProcessExit(tenantID uint, guard, qrCode, exitPassToken, note string) (*GateResult, error) {
	vehicle, err := s.Vehicles.GetVehicleByQRCode(qrCode, tenantID)
	if err != nil {
		return nil, err
	}

	session, err := s.Sessions.GetOpenSessionByVehicle(vehicle.ID, tenantID)
	if err != nil {
		return nil, err
	}

	sessionID := session.ID
	residentID := session.ResidentID

	if !s.Tokens.ValidateExitPass(exitPassToken, vehicle.ID, tenantID) {
		s.record(tenantID, models.EventExitPassFailed, &sessionID, vehicle.ID, &residentID, guard,
			"出场凭证无效或已过期", false)
		return nil, ErrExitPassInvalid
	}

	s.record(tenantID, models.EventExitPassValidated, &sessionID, vehicle.ID, &residentID, guard,
		"出场凭证校验通过", true)

	if err := s.Sessions.CloseSession(session, guard, note, time.Now()); err != nil {
		return nil, err
	}

	s.record(tenantID, models.EventExitScan, &sessionID, vehicle.ID, &residentID, guard, "车辆出场", true)

	// 住户缺失不阻断出场，展示字段留空
	resident, err := s.Vehicles.GetResidentByID(session.ResidentID, tenantID)
	if err != nil {
		resident = nil
	}
	return buildGateResult(session, vehicle, resident), nil
}

// 3 ProcessRemoteApprovalExit 远程审批出场流程
// 会话必须在场，且存在住户已同意的审批请求才放行
func (s *GateService) ProcessRemoteApprovalExit(tenantID uint, guard string, sessionID uint) (*GateResult, error) {
	session, err := s.Sessions.GetSessionByID(sessionID, tenantID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, ErrSessionNotOpen
	}

	// 审批记录是放行依据而不只是界面状态
	approval, err := s.Approvals.GetApprovedForSession(session.ID, tenantID)
	if err != nil {
		return nil, err
	}

	if err := s.Sessions.CloseSession(session, guard, "远程审批放行", time.Now()); err != nil {
		return nil, err
	}

	residentID := session.ResidentID
	s.record(tenantID, models.EventExitScan, &sessionID, session.VehicleID, &residentID, guard,
		fmt.Sprintf("远程审批放行，审批请求ID=%d", approval.ID), true)

	vehicle, err := s.Vehicles.GetVehicleByID(session.VehicleID, tenantID)
	if err != nil {
		vehicle = nil
	}
	resident, err := s.Vehicles.GetResidentByID(session.ResidentID, tenantID)
	if err != nil {
		resident = nil
	}
	return buildGateResult(session, vehicle, resident), nil
}

// record 写审计日志，失败只告警不阻断决策
func (s *GateService) record(tenantID uint, event models.GateEventType, sessionID *uint, vehicleID uint, residentID *uint, guard, details string, success bool) {
	if err := s.AccessLog.Record(tenantID, event, sessionID, vehicleID, residentID, guard, details, success); err != nil {
		config.Warning("写入审计日志失败: %v", err)
	}
}

// notify 推送门岗事件，fire-and-forget
func (s *GateService) notify(tenantID uint, event models.GateEventType, vehicleID uint, details string) {
	if s.Notification == nil {
		return
	}
	if err := s.Notification.PublishGateEvent(tenantID, event, vehicleID, details); err != nil {
		config.Warning("推送门岗事件失败: %v", err)
	}
}

// buildGateResult 组装决策结果，车辆/住户缺失时对应字段留空
func buildGateResult(session *models.GateSession, vehicle *models.Vehicle, resident *models.Resident) *GateResult {
	result := &GateResult{
		SessionID:   session.ID,
		Status:      session.Status,
		EntryTime:   session.EntryTime,
		ExitTime:    session.ExitTime,
		VehicleID:   session.VehicleID,
		PlateNumber: session.PlateNumber,
		ResidentID:  session.ResidentID,
	}
	if vehicle != nil {
		result.Brand = vehicle.Brand
		result.Model = vehicle.Model
		result.Color = vehicle.Color
	}
	if resident != nil {
		result.ResidentName = resident.Name
		result.ResidentPhone = resident.Phone
	}
	return result
}
