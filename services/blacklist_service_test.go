package services

import (
	"testing"

	"gateguard-http-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestIsPlateBlacklisted 车牌命中判断在规范化之后进行
func TestIsPlateBlacklisted(t *testing.T) {
	db := newTestDB(t)
	svc := NewBlacklistService(db, newTestConfig())

	require.NoError(t, svc.CreateEntry(&models.BlacklistEntry{
		TenantID:    1,
		PlateNumber: "KAA 123A",
		Reason:      "测试",
	}))

	// 任何等价写法都命中
	for _, plate := range []string{"KAA123A", "kaa-123-a", "KAA 123A"} {
		hit, err := svc.IsPlateBlacklisted(plate, 1)
		require.NoError(t, err)
		assert.True(t, hit, "写法 %q 应命中", plate)
	}

	hit, err := svc.IsPlateBlacklisted("KBB456B", 1)
	require.NoError(t, err)
	assert.False(t, hit)

	// 空车牌不命中
	hit, err = svc.IsPlateBlacklisted("  ", 1)
	require.NoError(t, err)
	assert.False(t, hit)

	// 其他租户不命中
	hit, err = svc.IsPlateBlacklisted("KAA123A", 2)
	require.NoError(t, err)
	assert.False(t, hit)
}

// TestIsPhoneBlacklisted 电话命中判断
func TestIsPhoneBlacklisted(t *testing.T) {
	db := newTestDB(t)
	svc := NewBlacklistService(db, newTestConfig())

	require.NoError(t, svc.CreateEntry(&models.BlacklistEntry{
		TenantID: 1,
		Phone:    "13800138000",
	}))

	hit, err := svc.IsPhoneBlacklisted("13800138000", 1)
	require.NoError(t, err)
	assert.True(t, hit)

	hit, err = svc.IsPhoneBlacklisted("", 1)
	require.NoError(t, err)
	assert.False(t, hit)
}

// TestCreateEntryEmpty 三个识别字段全空时拒绝入库
func TestCreateEntryEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewBlacklistService(db, newTestConfig())

	err := svc.CreateEntry(&models.BlacklistEntry{
		TenantID: 1,
		Reason:   "只有理由",
	})
	assert.ErrorIs(t, err, ErrBlacklistEntryEmpty)

	// 车牌只含分隔符，规范化后为空
	err = svc.CreateEntry(&models.BlacklistEntry{
		TenantID:    1,
		PlateNumber: " - ",
	})
	assert.ErrorIs(t, err, ErrBlacklistEntryEmpty)

	var count int64
	require.NoError(t, db.Model(&models.BlacklistEntry{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

// TestCreateEntryNormalizesPlate 入库车牌统一为规范化形式
func TestCreateEntryNormalizesPlate(t *testing.T) {
	db := newTestDB(t)
	svc := NewBlacklistService(db, newTestConfig())

	entry := &models.BlacklistEntry{TenantID: 1, PlateNumber: "kaa-123-a"}
	require.NoError(t, svc.CreateEntry(entry))
	assert.Equal(t, "KAA123A", entry.PlateNumber)
}

// TestDeleteEntry 软删除后不再命中
func TestDeleteEntry(t *testing.T) {
	db := newTestDB(t)
	svc := NewBlacklistService(db, newTestConfig())

	entry := &models.BlacklistEntry{TenantID: 1, PlateNumber: "KAA123A"}
	require.NoError(t, svc.CreateEntry(entry))

	require.NoError(t, svc.DeleteEntry(entry.ID, 1))

	hit, err := svc.IsPlateBlacklisted("KAA123A", 1)
	require.NoError(t, err)
	assert.False(t, hit)

	// 重复删除和越权删除都报不存在
	assert.ErrorIs(t, svc.DeleteEntry(entry.ID, 1), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, svc.DeleteEntry(999, 1), gorm.ErrRecordNotFound)
}

// TestGetEntries 分页查询
func TestGetEntries(t *testing.T) {
	db := newTestDB(t)
	svc := NewBlacklistService(db, newTestConfig())

	for _, plate := range []string{"KAA111A", "KAA222B", "KAA333C"} {
		require.NoError(t, svc.CreateEntry(&models.BlacklistEntry{TenantID: 1, PlateNumber: plate}))
	}
	require.NoError(t, svc.CreateEntry(&models.BlacklistEntry{TenantID: 2, PlateNumber: "KBB444D"}))

	entries, total, err := svc.GetEntries(1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, entries, 2)
}
