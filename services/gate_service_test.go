package services

import (
	"testing"
	"time"

	"gateguard-http-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// gateFixture 门岗决策服务测试夹具
type gateFixture struct {
	db        *gorm.DB
	gate      InterfaceGateService
	tokens    InterfaceTokenService
	sessions  InterfaceGateSessionService
	approvals InterfaceExitApprovalService
	blacklist InterfaceBlacklistService
	resident  *models.Resident
	vehicle   *models.Vehicle
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()

	db := newTestDB(t)
	cfg := newTestConfig()

	accessLog := NewAccessLogService(db, cfg)
	tokens := NewTokenService(cfg)
	sessions := NewGateSessionService(db, cfg)
	blacklist := NewBlacklistService(db, cfg)
	vehicles := NewVehicleService(db, cfg)
	approvals := NewExitApprovalService(db, cfg, accessLog, nil, nil)
	gate := NewGateService(cfg, vehicles, blacklist, sessions, approvals, accessLog, tokens, nil)

	resident, vehicle := seedVehicle(t, db, 1, "QR-001", "KAA123A")
	return &gateFixture{
		db:        db,
		gate:      gate,
		tokens:    tokens,
		sessions:  sessions,
		approvals: approvals,
		blacklist: blacklist,
		resident:  resident,
		vehicle:   vehicle,
	}
}

// countEvents 统计某类审计事件数量
func (f *gateFixture) countEvents(t *testing.T, event models.GateEventType) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&models.GateAccessLog{}).
		Where("event_type = ?", event).
		Count(&count).Error)
	return count
}

// TestProcessEntry 正常入场: 创建会话并记录入场事件
func TestProcessEntry(t *testing.T) {
	f := newGateFixture(t)

	result, err := f.gate.ProcessEntry(1, "guard1", "QR-001", "正常入场")
	require.NoError(t, err)

	assert.Equal(t, models.GateSessionStatusOpen, result.Status)
	assert.Equal(t, f.vehicle.ID, result.VehicleID)
	assert.Equal(t, "KAA123A", result.PlateNumber)
	assert.Equal(t, f.resident.ID, result.ResidentID)
	assert.Equal(t, "王业主", result.ResidentName)
	assert.Equal(t, "Toyota", result.Brand)

	assert.Equal(t, int64(1), f.countEvents(t, models.EventEntryScan))
}

// TestProcessEntryUnknownQRCode 未知二维码不产生审计记录
func TestProcessEntryUnknownQRCode(t *testing.T) {
	f := newGateFixture(t)

	_, err := f.gate.ProcessEntry(1, "guard1", "QR-UNKNOWN", "")
	assert.ErrorIs(t, err, ErrVehicleNotFound)

	var count int64
	require.NoError(t, f.db.Model(&models.GateAccessLog{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

// TestProcessEntryBlacklisted 黑名单车辆被拦截并记录拦截事件
// 车牌以不同写法入名单也必须命中
func TestProcessEntryBlacklisted(t *testing.T) {
	f := newGateFixture(t)

	// 名单里的写法和登记车牌不同
	require.NoError(t, f.blacklist.CreateEntry(&models.BlacklistEntry{
		TenantID:    1,
		PlateNumber: "kaa 123-a",
		Reason:      "多次冲卡",
	}))

	_, err := f.gate.ProcessEntry(1, "guard1", "QR-001", "")
	var blocked *BlacklistedError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, "KAA123A", blocked.PlateNumber)

	assert.Equal(t, int64(1), f.countEvents(t, models.EventVehicleDeniedBlacklist))
	// 没有创建会话
	var count int64
	require.NoError(t, f.db.Model(&models.GateSession{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

// TestProcessEntryInactiveVehicle 暂停通行的车辆拒绝入场
func TestProcessEntryInactiveVehicle(t *testing.T) {
	f := newGateFixture(t)

	require.NoError(t, f.db.Model(&models.Vehicle{}).
		Where("id = ?", f.vehicle.ID).
		Update("status", models.VehicleStatusSuspended).Error)

	_, err := f.gate.ProcessEntry(1, "guard1", "QR-001", "")
	assert.ErrorIs(t, err, ErrVehicleInactive)

	// 拒绝事件success=false
	var entry models.GateAccessLog
	require.NoError(t, f.db.Where("event_type = ?", models.EventEntryScan).First(&entry).Error)
	assert.False(t, entry.Success)
}

// TestProcessEntryDuplicate 在场车辆不能重复入场
func TestProcessEntryDuplicate(t *testing.T) {
	f := newGateFixture(t)

	_, err := f.gate.ProcessEntry(1, "guard1", "QR-001", "")
	require.NoError(t, err)

	_, err = f.gate.ProcessEntry(1, "guard2", "QR-001", "")
	assert.ErrorIs(t, err, ErrSessionAlreadyOpen)
}

// TestProcessExit 凭证出场: 校验通过后关闭会话
func TestProcessExit(t *testing.T) {
	f := newGateFixture(t)

	entry, err := f.gate.ProcessEntry(1, "guard1", "QR-001", "")
	require.NoError(t, err)

	pass, err := f.tokens.GenerateExitPass(f.vehicle.ID, 1)
	require.NoError(t, err)

	result, err := f.gate.ProcessExit(1, "guard2", "QR-001", pass.Token, "正常出场")
	require.NoError(t, err)

	assert.Equal(t, entry.SessionID, result.SessionID)
	assert.Equal(t, models.GateSessionStatusClosed, result.Status)
	require.NotNil(t, result.ExitTime)

	assert.Equal(t, int64(1), f.countEvents(t, models.EventExitPassValidated))
	assert.Equal(t, int64(1), f.countEvents(t, models.EventExitScan))
}

// TestProcessExitInvalidPass 无效凭证拒绝出场，会话保持在场
func TestProcessExitInvalidPass(t *testing.T) {
	f := newGateFixture(t)

	_, err := f.gate.ProcessEntry(1, "guard1", "QR-001", "")
	require.NoError(t, err)

	// 访客通行码当成出场凭证出示
	_, err = f.gate.ProcessExit(1, "guard2", "QR-001", "PASS-ABC-123", "")
	assert.ErrorIs(t, err, ErrExitPassInvalid)

	assert.Equal(t, int64(1), f.countEvents(t, models.EventExitPassFailed))

	// 会话仍在场
	session, err := f.sessions.GetOpenSessionByVehicle(f.vehicle.ID, 1)
	require.NoError(t, err)
	assert.True(t, session.IsOpen())
}

// TestProcessExitWrongVehiclePass 其他车辆的凭证无效
func TestProcessExitWrongVehiclePass(t *testing.T) {
	f := newGateFixture(t)

	_, err := f.gate.ProcessEntry(1, "guard1", "QR-001", "")
	require.NoError(t, err)

	pass, err := f.tokens.GenerateExitPass(f.vehicle.ID+1, 1)
	require.NoError(t, err)

	_, err = f.gate.ProcessExit(1, "guard2", "QR-001", pass.Token, "")
	assert.ErrorIs(t, err, ErrExitPassInvalid)
}

// TestProcessExitNoOpenSession 不在场的车辆不能出场
func TestProcessExitNoOpenSession(t *testing.T) {
	f := newGateFixture(t)

	pass, err := f.tokens.GenerateExitPass(f.vehicle.ID, 1)
	require.NoError(t, err)

	_, err = f.gate.ProcessExit(1, "guard1", "QR-001", pass.Token, "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

// TestProcessRemoteApprovalExit 住户同意后远程放行
func TestProcessRemoteApprovalExit(t *testing.T) {
	f := newGateFixture(t)

	entry, err := f.gate.ProcessEntry(1, "guard1", "QR-001", "")
	require.NoError(t, err)

	request, err := f.approvals.CreateRequest(1, entry.SessionID, "guard1", "无法出示凭证")
	require.NoError(t, err)
	_, err = f.approvals.ApproveRequest(request.ID, 1, "resident")
	require.NoError(t, err)

	result, err := f.gate.ProcessRemoteApprovalExit(1, "guard1", entry.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.GateSessionStatusClosed, result.Status)

	assert.Equal(t, int64(1), f.countEvents(t, models.EventExitScan))
}

// TestProcessRemoteApprovalExitWithoutApproval 审批记录是放行依据
func TestProcessRemoteApprovalExitWithoutApproval(t *testing.T) {
	f := newGateFixture(t)

	entry, err := f.gate.ProcessEntry(1, "guard1", "QR-001", "")
	require.NoError(t, err)

	// 没有审批
	_, err = f.gate.ProcessRemoteApprovalExit(1, "guard1", entry.SessionID)
	assert.ErrorIs(t, err, ErrApprovalRequired)

	// 有审批但被拒绝
	request, err := f.approvals.CreateRequest(1, entry.SessionID, "guard1", "")
	require.NoError(t, err)
	_, err = f.approvals.DenyRequest(request.ID, 1, "resident")
	require.NoError(t, err)

	_, err = f.gate.ProcessRemoteApprovalExit(1, "guard1", entry.SessionID)
	assert.ErrorIs(t, err, ErrApprovalRequired)

	// 会话仍在场
	session, err := f.sessions.GetSessionByID(entry.SessionID, 1)
	require.NoError(t, err)
	assert.True(t, session.IsOpen())
}

// TestProcessRemoteApprovalExitExpired 审批过期后不能放行
func TestProcessRemoteApprovalExitExpired(t *testing.T) {
	f := newGateFixture(t)

	entry, err := f.gate.ProcessEntry(1, "guard1", "QR-001", "")
	require.NoError(t, err)

	request, err := f.approvals.CreateRequest(1, entry.SessionID, "guard1", "")
	require.NoError(t, err)
	forceOverdue(t, f.db, request.ID)

	_, err = f.gate.ProcessRemoteApprovalExit(1, "guard1", entry.SessionID)
	assert.ErrorIs(t, err, ErrApprovalRequired)
}

// TestProcessRemoteApprovalExitClosedSession 会话已关闭时拒绝远程放行
func TestProcessRemoteApprovalExitClosedSession(t *testing.T) {
	f := newGateFixture(t)

	entry, err := f.gate.ProcessEntry(1, "guard1", "QR-001", "")
	require.NoError(t, err)

	pass, err := f.tokens.GenerateExitPass(f.vehicle.ID, 1)
	require.NoError(t, err)
	_, err = f.gate.ProcessExit(1, "guard1", "QR-001", pass.Token, "")
	require.NoError(t, err)

	_, err = f.gate.ProcessRemoteApprovalExit(1, "guard1", entry.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotOpen)
}

// TestFullCycle 入场-出场-再入场的完整循环
func TestFullCycle(t *testing.T) {
	f := newGateFixture(t)

	for i := 0; i < 2; i++ {
		_, err := f.gate.ProcessEntry(1, "guard1", "QR-001", "")
		require.NoError(t, err)

		pass, err := f.tokens.GenerateExitPass(f.vehicle.ID, 1)
		require.NoError(t, err)
		_, err = f.gate.ProcessExit(1, "guard1", "QR-001", pass.Token, "")
		require.NoError(t, err)
	}

	_, total, err := f.sessions.GetSessionsByVehicle(f.vehicle.ID, 1, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, int64(2), f.countEvents(t, models.EventEntryScan))
	assert.Equal(t, int64(2), f.countEvents(t, models.EventExitScan))
}
