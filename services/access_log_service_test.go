package services

import (
	"testing"
	"time"

	"gateguard-http-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRecordAndQuery 审计记录写入与按车辆/会话查询
func TestRecordAndQuery(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccessLogService(db, newTestConfig())

	sessionID := uint(7)
	residentID := uint(3)
	require.NoError(t, svc.Record(1, models.EventEntryScan, &sessionID, 12, &residentID, "guard1", "车辆入场", true))
	require.NoError(t, svc.Record(1, models.EventExitPassFailed, &sessionID, 12, &residentID, "guard1", "凭证无效", false))
	require.NoError(t, svc.Record(1, models.EventEntryScan, nil, 99, nil, "guard2", "另一台车", true))

	logs, total, err := svc.GetLogsByVehicle(12, 1, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, logs, 2)

	logs, total, err = svc.GetLogsBySession(sessionID, 1, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// 全量查询覆盖无会话的记录
	_, total, err = svc.GetLogs(1, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	entry, err := svc.GetLogByID(logs[0].ID, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(12), entry.VehicleID)
	assert.False(t, entry.Timestamp.IsZero())
}

// TestLogsOrderedByTimestamp 查询结果按时间倒序
func TestLogsOrderedByTimestamp(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccessLogService(db, newTestConfig())

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.GateAccessLog{
			TenantID:  1,
			VehicleID: 12,
			EventType: models.EventEntryScan,
			Success:   true,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	logs, _, err := svc.GetLogs(1, 1, 10)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.True(t, logs[0].Timestamp.After(logs[1].Timestamp))
	assert.True(t, logs[1].Timestamp.After(logs[2].Timestamp))
}

// TestLogsTenantIsolation 审计记录按租户隔离
func TestLogsTenantIsolation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccessLogService(db, newTestConfig())

	require.NoError(t, svc.Record(1, models.EventEntryScan, nil, 12, nil, "guard1", "", true))

	_, total, err := svc.GetLogs(2, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
