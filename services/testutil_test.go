package services

import (
	"fmt"
	"strings"
	"testing"

	"gateguard-http-service/config"
	"gateguard-http-service/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 为每个测试创建独立的内存数据库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// 每个测试用独立的命名内存库，避免连接池拿到不同的空库
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Staff{},
		&models.Resident{},
		&models.Vehicle{},
		&models.GateSession{},
		&models.ExitApprovalRequest{},
		&models.GateAccessLog{},
		&models.BlacklistEntry{},
	))
	return db
}

// newTestConfig 返回测试用配置
func newTestConfig() *config.Config {
	return &config.Config{
		ExitPassSecret:        "test-exit-pass-secret",
		VisitorPassSecret:     "test-visitor-pass-secret",
		ExitPassTTLMinutes:    10,
		ApprovalExpiryMinutes: 5,
	}
}

// seedVehicle 写入一个住户和一台正常状态的车辆
func seedVehicle(t *testing.T, db *gorm.DB, tenantID uint, qrCode, plate string) (*models.Resident, *models.Vehicle) {
	t.Helper()

	resident := &models.Resident{
		TenantID: tenantID,
		Name:     "王业主",
		Phone:    "13800138000",
		Unit:     "3-1201",
	}
	require.NoError(t, db.Create(resident).Error)

	vehicle := &models.Vehicle{
		TenantID:    tenantID,
		ResidentID:  resident.ID,
		PlateNumber: plate,
		Status:      models.VehicleStatusActive,
		QRCode:      qrCode,
		Brand:       "Toyota",
		Model:       "Corolla",
		Color:       "White",
	}
	require.NoError(t, db.Create(vehicle).Error)
	return resident, vehicle
}
