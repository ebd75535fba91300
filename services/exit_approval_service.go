package services

import (
	"errors"
	"fmt"
	"time"

	"gateguard-http-service/config"
	"gateguard-http-service/models"

	"gorm.io/gorm"
)

// InterfaceExitApprovalService 定义远程出场审批服务接口
//
// 状态机: PENDING(初始) -> {APPROVED, DENIED, EXPIRED}(终态)。
// 过期是惰性判定的: 每个触点在动作之前先检查 PENDING 记录是否已过
// 审批窗口，过期则先落库为 EXPIRED 并记录审计日志，再继续执行。
type InterfaceExitApprovalService interface {
	CreateRequest(tenantID, sessionID uint, guard, note string) (*models.ExitApprovalRequest, error)
	ApproveRequest(id, tenantID uint, actor string) (*models.ExitApprovalRequest, error)
	DenyRequest(id, tenantID uint, actor string) (*models.ExitApprovalRequest, error)
	GetRequest(id, tenantID uint) (*models.ExitApprovalRequest, error)
	GetPendingForResident(residentID, tenantID uint) ([]models.ExitApprovalRequest, error)
	GetApprovedForSession(sessionID, tenantID uint) (*models.ExitApprovalRequest, error)
	SweepExpired() (int, error)
}

// ExitApprovalService 提供远程出场审批相关的服务
type ExitApprovalService struct {
	DB           *gorm.DB
	Config       *config.Config
	AccessLog    InterfaceAccessLogService
	Notification InterfaceNotificationService // 可为nil（如测试环境）
	Redis        *RedisService                // 可为nil
}

// NewExitApprovalService 创建一个新的出场审批服务
func NewExitApprovalService(db *gorm.DB, cfg *config.Config, accessLog InterfaceAccessLogService, notification InterfaceNotificationService, redis *RedisService) InterfaceExitApprovalService {
	return &ExitApprovalService{
		DB:           db,
		Config:       cfg,
		AccessLog:    accessLog,
		Notification: notification,
		Redis:        redis,
	}
}

// pendingCacheTTL 待处理审批列表的缓存有效期
const pendingCacheTTL = 30 * time.Second

// 1 CreateRequest 门岗对无法验证出场凭证的车辆发起远程审批
func (s *ExitApprovalService) CreateRequest(tenantID, sessionID uint, guard, note string) (*models.ExitApprovalRequest, error) {
	var session models.GateSession
	if err := s.DB.Where("tenant_id = ?", tenantID).First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if !session.IsOpen() {
		return nil, ErrSessionNotOpen
	}

	request := models.ExitApprovalRequest{
		TenantID:    tenantID,
		SessionID:   session.ID,
		VehicleID:   session.VehicleID,
		ResidentID:  session.ResidentID,
		RequestedBy: guard,
		Status:      models.ExitApprovalStatusPending,
		ExpiresAt:   time.Now().Add(s.Config.GetApprovalExpiry()),
		Note:        note,
	}
	if err := s.DB.Create(&request).Error; err != nil {
		return nil, err
	}

	s.record(&request, models.EventRemoteApprovalRequested, guard,
		fmt.Sprintf("门岗发起远程出场审批，请求ID=%d", request.ID), true)
	s.invalidateCache(&request)

	// 通知失败不影响审批流程
	if s.Notification != nil {
		if err := s.Notification.PublishApprovalRequest(&request); err != nil {
			config.Warning("推送审批通知失败: %v", err)
		}
	}

	return &request, nil
}

// 2 ApproveRequest 住户同意出场
func (s *ExitApprovalService) ApproveRequest(id, tenantID uint, actor string) (*models.ExitApprovalRequest, error) {
	return s.resolve(id, tenantID, actor, models.ExitApprovalStatusApproved, models.EventRemoteApprovalApproved)
}

// 3 DenyRequest 住户拒绝出场
func (s *ExitApprovalService) DenyRequest(id, tenantID uint, actor string) (*models.ExitApprovalRequest, error) {
	return s.resolve(id, tenantID, actor, models.ExitApprovalStatusDenied, models.EventRemoteApprovalDenied)
}

// resolve 处理同意/拒绝的公共路径
func (s *ExitApprovalService) resolve(id, tenantID uint, actor string, target models.ExitApprovalStatus, event models.GateEventType) (*models.ExitApprovalRequest, error) {
	request, err := s.load(id, tenantID)
	if err != nil {
		return nil, err
	}

	// 惰性过期检查先于任何状态判断
	if err := s.expireIfOverdue(request); err != nil {
		return nil, err
	}
	if request.Status == models.ExitApprovalStatusExpired {
		return nil, ErrApprovalExpired
	}
	if !request.IsPending() {
		return nil, ErrApprovalNotPending
	}

	now := time.Now()
	// 条件更新: 只有仍为PENDING的行会被改写，并发处理时只有一方生效
	result := s.DB.Model(&models.ExitApprovalRequest{}).
		Where("id = ? AND tenant_id = ? AND status = ?", id, tenantID, models.ExitApprovalStatusPending).
		Updates(map[string]interface{}{
			"status":       target,
			"responded_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrApprovalNotPending
	}

	request.Status = target
	request.RespondedAt = &now

	s.record(request, event, actor, fmt.Sprintf("住户处理审批请求，请求ID=%d", request.ID), target == models.ExitApprovalStatusApproved)
	s.invalidateCache(request)
	return request, nil
}

// 4 GetRequest 查询审批请求状态（同样执行惰性过期）
func (s *ExitApprovalService) GetRequest(id, tenantID uint) (*models.ExitApprovalRequest, error) {
	request, err := s.load(id, tenantID)
	if err != nil {
		return nil, err
	}
	if err := s.expireIfOverdue(request); err != nil {
		return nil, err
	}
	return request, nil
}

// 5 GetPendingForResident 获取住户的待处理审批列表
// 已过窗口的记录先落库为EXPIRED再从结果中剔除
func (s *ExitApprovalService) GetPendingForResident(residentID, tenantID uint) ([]models.ExitApprovalRequest, error) {
	// 先查缓存；缓存命中也要按当前时间过滤已过期条目
	if s.Redis != nil {
		if cached, err := s.Redis.GetCachedPendingApprovals(tenantID, residentID); err == nil {
			return filterPending(cached, time.Now()), nil
		}
	}

	var requests []models.ExitApprovalRequest
	err := s.DB.Where("tenant_id = ? AND resident_id = ? AND status = ?",
		tenantID, residentID, models.ExitApprovalStatusPending).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}

	pending := make([]models.ExitApprovalRequest, 0, len(requests))
	for i := range requests {
		if err := s.expireIfOverdue(&requests[i]); err != nil {
			return nil, err
		}
		if requests[i].IsPending() {
			pending = append(pending, requests[i])
		}
	}

	if s.Redis != nil {
		if err := s.Redis.CachePendingApprovals(tenantID, residentID, pending, pendingCacheTTL); err != nil {
			config.Warning("缓存待处理审批列表失败: %v", err)
		}
	}
	return pending, nil
}

// 6 GetApprovedForSession 查询会话对应的已同意审批（远程放行前的依据）
func (s *ExitApprovalService) GetApprovedForSession(sessionID, tenantID uint) (*models.ExitApprovalRequest, error) {
	var request models.ExitApprovalRequest
	err := s.DB.Where("tenant_id = ? AND session_id = ? AND status = ?",
		tenantID, sessionID, models.ExitApprovalStatusApproved).
		Order("responded_at DESC").
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApprovalRequired
		}
		return nil, err
	}
	return &request, nil
}

// 7 SweepExpired 后台清理: 把所有已过窗口的PENDING请求置为EXPIRED
// 纯粹的后勤操作，惰性过期已保证状态机正确性，这里只避免
// 无人查询的请求永远停留在PENDING
func (s *ExitApprovalService) SweepExpired() (int, error) {
	var overdue []models.ExitApprovalRequest
	err := s.DB.Where("status = ? AND expires_at < ?",
		models.ExitApprovalStatusPending, time.Now()).
		Find(&overdue).Error
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range overdue {
		if err := s.expireIfOverdue(&overdue[i]); err != nil {
			config.Warning("清理过期审批请求失败: id=%d, err=%v", overdue[i].ID, err)
			continue
		}
		if overdue[i].Status == models.ExitApprovalStatusExpired {
			count++
		}
	}
	return count, nil
}

// load 按ID加载审批请求
func (s *ExitApprovalService) load(id, tenantID uint) (*models.ExitApprovalRequest, error) {
	var request models.ExitApprovalRequest
	if err := s.DB.Where("tenant_id = ?", tenantID).First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApprovalNotFound
		}
		return nil, err
	}
	return &request, nil
}

// expireIfOverdue 惰性过期: PENDING且已过窗口的请求落库为EXPIRED并记审计日志
func (s *ExitApprovalService) expireIfOverdue(request *models.ExitApprovalRequest) error {
	if !request.IsPending() || !request.IsOverdue(time.Now()) {
		return nil
	}

	// 条件更新防止与并发触点重复过期
	result := s.DB.Model(&models.ExitApprovalRequest{}).
		Where("id = ? AND status = ?", request.ID, models.ExitApprovalStatusPending).
		Update("status", models.ExitApprovalStatusExpired)
	if result.Error != nil {
		return result.Error
	}

	request.Status = models.ExitApprovalStatusExpired
	if result.RowsAffected > 0 {
		s.record(request, models.EventRemoteApprovalExpired, "system",
			fmt.Sprintf("审批请求超时未处理，请求ID=%d", request.ID), false)
		s.invalidateCache(request)
	}
	return nil
}

// record 写审计日志，失败只告警不回滚业务
func (s *ExitApprovalService) record(request *models.ExitApprovalRequest, event models.GateEventType, actor, details string, success bool) {
	sessionID := request.SessionID
	residentID := request.ResidentID
	if err := s.AccessLog.Record(request.TenantID, event, &sessionID, request.VehicleID, &residentID, actor, details, success); err != nil {
		config.Warning("写入审计日志失败: %v", err)
	}
}

// invalidateCache 失效住户的待处理审批缓存
func (s *ExitApprovalService) invalidateCache(request *models.ExitApprovalRequest) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.InvalidatePendingApprovals(request.TenantID, request.ResidentID); err != nil {
		config.Warning("失效审批缓存失败: %v", err)
	}
}

// filterPending 按当前时间过滤掉已过窗口的缓存条目
func filterPending(requests []models.ExitApprovalRequest, now time.Time) []models.ExitApprovalRequest {
	pending := make([]models.ExitApprovalRequest, 0, len(requests))
	for _, r := range requests {
		if r.IsPending() && !r.IsOverdue(now) {
			pending = append(pending, r)
		}
	}
	return pending
}
