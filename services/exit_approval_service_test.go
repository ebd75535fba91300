package services

import (
	"testing"
	"time"

	"gateguard-http-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newApprovalFixture 准备审批服务及一条在场会话
func newApprovalFixture(t *testing.T) (*gorm.DB, InterfaceExitApprovalService, *models.GateSession) {
	t.Helper()

	db := newTestDB(t)
	cfg := newTestConfig()
	accessLog := NewAccessLogService(db, cfg)
	svc := NewExitApprovalService(db, cfg, accessLog, nil, nil)

	resident, vehicle := seedVehicle(t, db, 1, "QR-001", "KAA123A")
	sessions := NewGateSessionService(db, cfg)
	session, err := sessions.OpenSession(1, vehicle.ID, resident.ID, vehicle.PlateNumber, "guard1", "")
	require.NoError(t, err)

	return db, svc, session
}

// forceOverdue 把审批请求的截止时间改到过去
func forceOverdue(t *testing.T, db *gorm.DB, id uint) {
	t.Helper()
	require.NoError(t, db.Model(&models.ExitApprovalRequest{}).
		Where("id = ?", id).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)
}

// TestCreateRequest 发起审批产生PENDING请求并写审计日志
func TestCreateRequest(t *testing.T) {
	db, svc, session := newApprovalFixture(t)

	request, err := svc.CreateRequest(1, session.ID, "guard1", "凭证无法出示")
	require.NoError(t, err)

	assert.Equal(t, models.ExitApprovalStatusPending, request.Status)
	assert.Equal(t, session.ID, request.SessionID)
	assert.Equal(t, session.VehicleID, request.VehicleID)
	assert.Equal(t, session.ResidentID, request.ResidentID)
	assert.True(t, request.ExpiresAt.After(time.Now()))

	var count int64
	require.NoError(t, db.Model(&models.GateAccessLog{}).
		Where("event_type = ?", models.EventRemoteApprovalRequested).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestCreateRequestSessionNotOpen 已关闭的会话不能发起审批
func TestCreateRequestSessionNotOpen(t *testing.T) {
	db, svc, session := newApprovalFixture(t)

	sessions := NewGateSessionService(db, newTestConfig())
	require.NoError(t, sessions.CloseSession(session, "guard1", "", time.Now()))

	_, err := svc.CreateRequest(1, session.ID, "guard1", "")
	assert.ErrorIs(t, err, ErrSessionNotOpen)

	_, err = svc.CreateRequest(1, 999, "guard1", "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

// TestApproveRequest 住户同意，PENDING -> APPROVED
func TestApproveRequest(t *testing.T) {
	db, svc, session := newApprovalFixture(t)

	request, err := svc.CreateRequest(1, session.ID, "guard1", "")
	require.NoError(t, err)

	approved, err := svc.ApproveRequest(request.ID, 1, "resident")
	require.NoError(t, err)
	assert.Equal(t, models.ExitApprovalStatusApproved, approved.Status)
	require.NotNil(t, approved.RespondedAt)

	var count int64
	require.NoError(t, db.Model(&models.GateAccessLog{}).
		Where("event_type = ? AND success = ?", models.EventRemoteApprovalApproved, true).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestDenyRequest 住户拒绝，PENDING -> DENIED，且拒绝事件success=false
func TestDenyRequest(t *testing.T) {
	db, svc, session := newApprovalFixture(t)

	request, err := svc.CreateRequest(1, session.ID, "guard1", "")
	require.NoError(t, err)

	denied, err := svc.DenyRequest(request.ID, 1, "resident")
	require.NoError(t, err)
	assert.Equal(t, models.ExitApprovalStatusDenied, denied.Status)

	var count int64
	require.NoError(t, db.Model(&models.GateAccessLog{}).
		Where("event_type = ? AND success = ?", models.EventRemoteApprovalDenied, false).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestResolveTerminalStates 终态请求不可再变更
func TestResolveTerminalStates(t *testing.T) {
	_, svc, session := newApprovalFixture(t)

	request, err := svc.CreateRequest(1, session.ID, "guard1", "")
	require.NoError(t, err)

	_, err = svc.ApproveRequest(request.ID, 1, "resident")
	require.NoError(t, err)

	_, err = svc.ApproveRequest(request.ID, 1, "resident")
	assert.ErrorIs(t, err, ErrApprovalNotPending)
	_, err = svc.DenyRequest(request.ID, 1, "resident")
	assert.ErrorIs(t, err, ErrApprovalNotPending)
}

// TestLazyExpiryOnResolve 过期的请求在处理触点落库为EXPIRED
func TestLazyExpiryOnResolve(t *testing.T) {
	db, svc, session := newApprovalFixture(t)

	request, err := svc.CreateRequest(1, session.ID, "guard1", "")
	require.NoError(t, err)
	forceOverdue(t, db, request.ID)

	_, err = svc.ApproveRequest(request.ID, 1, "resident")
	assert.ErrorIs(t, err, ErrApprovalExpired)

	// 过期状态已落库并产生审计事件
	stored, err := svc.GetRequest(request.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ExitApprovalStatusExpired, stored.Status)

	var count int64
	require.NoError(t, db.Model(&models.GateAccessLog{}).
		Where("event_type = ?", models.EventRemoteApprovalExpired).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestLazyExpiryOnGet 查询触点同样执行惰性过期
func TestLazyExpiryOnGet(t *testing.T) {
	db, svc, session := newApprovalFixture(t)

	request, err := svc.CreateRequest(1, session.ID, "guard1", "")
	require.NoError(t, err)
	forceOverdue(t, db, request.ID)

	stored, err := svc.GetRequest(request.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ExitApprovalStatusExpired, stored.Status)

	// 过期事件只落一次
	stored, err = svc.GetRequest(request.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ExitApprovalStatusExpired, stored.Status)

	var count int64
	require.NoError(t, db.Model(&models.GateAccessLog{}).
		Where("event_type = ?", models.EventRemoteApprovalExpired).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestGetPendingForResident 待处理列表剔除已过期条目
func TestGetPendingForResident(t *testing.T) {
	db, svc, session := newApprovalFixture(t)

	request, err := svc.CreateRequest(1, session.ID, "guard1", "")
	require.NoError(t, err)

	pending, err := svc.GetPendingForResident(session.ResidentID, 1)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, request.ID, pending[0].ID)

	forceOverdue(t, db, request.ID)
	pending, err = svc.GetPendingForResident(session.ResidentID, 1)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

// TestGetApprovedForSession 远程放行依据查询
func TestGetApprovedForSession(t *testing.T) {
	_, svc, session := newApprovalFixture(t)

	// 没有任何审批
	_, err := svc.GetApprovedForSession(session.ID, 1)
	assert.ErrorIs(t, err, ErrApprovalRequired)

	request, err := svc.CreateRequest(1, session.ID, "guard1", "")
	require.NoError(t, err)

	// PENDING不算放行依据
	_, err = svc.GetApprovedForSession(session.ID, 1)
	assert.ErrorIs(t, err, ErrApprovalRequired)

	_, err = svc.ApproveRequest(request.ID, 1, "resident")
	require.NoError(t, err)

	approved, err := svc.GetApprovedForSession(session.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, request.ID, approved.ID)
}

// TestSweepExpired 后台清理把已过窗口的PENDING置为EXPIRED
func TestSweepExpired(t *testing.T) {
	db, svc, session := newApprovalFixture(t)

	request, err := svc.CreateRequest(1, session.ID, "guard1", "")
	require.NoError(t, err)
	forceOverdue(t, db, request.ID)

	count, err := svc.SweepExpired()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := svc.GetRequest(request.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ExitApprovalStatusExpired, stored.Status)

	// 没有可清理对象时不做任何事
	count, err = svc.SweepExpired()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

// TestApprovalTenantIsolation 其他租户不能读取或处理审批请求
func TestApprovalTenantIsolation(t *testing.T) {
	_, svc, session := newApprovalFixture(t)

	request, err := svc.CreateRequest(1, session.ID, "guard1", "")
	require.NoError(t, err)

	_, err = svc.GetRequest(request.ID, 2)
	assert.ErrorIs(t, err, ErrApprovalNotFound)
	_, err = svc.ApproveRequest(request.ID, 2, "resident")
	assert.ErrorIs(t, err, ErrApprovalNotFound)
}
