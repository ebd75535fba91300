package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gateguard-http-service/config"
	"gateguard-http-service/utils"
)

// InterfaceTokenService 定义门岗凭证服务接口
// 凭证为自包含的签名字符串，不落库: base64url(payload) + "." + base64url(HMAC-SHA256)
// 出场凭证和访客凭证使用各自独立的签名密钥
type InterfaceTokenService interface {
	GenerateExitPass(vehicleID, tenantID uint) (*ExitPassResult, error)
	GenerateExitPassWithTTL(vehicleID, tenantID uint, ttl time.Duration) (*ExitPassResult, error)
	ValidateExitPass(token string, vehicleID, tenantID uint) bool
	GenerateVisitorToken(passCode string, visitorID, tenantID uint, validTo time.Time) (string, error)
	ValidateVisitorToken(token string, tenantID uint) bool
	ExtractPassCode(token string) (string, error)
	ValidatePassCode(token string, tenantID uint) (string, bool)
}

// ExitPassResult 出场凭证签发结果
type ExitPassResult struct {
	VehicleID uint      `json:"vehicle_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ErrPassCodeNotFound 凭证中不包含通行码
var ErrPassCodeNotFound = errors.New("凭证中不包含通行码")

// TokenService 提供门岗凭证的签发与校验
type TokenService struct {
	exitPassSecret    []byte
	visitorPassSecret []byte
	exitPassTTL       time.Duration
}

// NewTokenService 创建一个新的凭证服务
func NewTokenService(cfg *config.Config) InterfaceTokenService {
	return &TokenService{
		exitPassSecret:    []byte(cfg.ExitPassSecret),
		visitorPassSecret: []byte(cfg.VisitorPassSecret),
		exitPassTTL:       cfg.GetExitPassTTL(),
	}
}

// exitPassPayload 车辆出场凭证载荷
type exitPassPayload struct {
	VehicleID uint   `json:"vehicle_id"`
	TenantID  uint   `json:"tenant_id"`
	ExpiresAt int64  `json:"exp"`   // Unix毫秒
	Nonce     string `json:"nonce"` // 仅保证重复签发产生不同令牌
}

// visitorPassPayload 访客凭证载荷
type visitorPassPayload struct {
	PassCode  string `json:"pass_code"`
	VisitorID uint   `json:"visitor_id"`
	TenantID  uint   `json:"tenant_id"`
	ValidTo   int64  `json:"exp"` // Unix毫秒
	Nonce     string `json:"nonce"`
}

// 1 GenerateExitPass 按配置的默认有效期签发车辆出场凭证
func (s *TokenService) GenerateExitPass(vehicleID, tenantID uint) (*ExitPassResult, error) {
	return s.GenerateExitPassWithTTL(vehicleID, tenantID, s.exitPassTTL)
}

// 2 GenerateExitPassWithTTL 按指定有效期签发车辆出场凭证
func (s *TokenService) GenerateExitPassWithTTL(vehicleID, tenantID uint, ttl time.Duration) (*ExitPassResult, error) {
	expiresAt := time.Now().Add(ttl)
	payload := exitPassPayload{
		VehicleID: vehicleID,
		TenantID:  tenantID,
		ExpiresAt: expiresAt.UnixMilli(),
		Nonce:     utils.RandomHex(8),
	}

	token, err := signPayload(s.exitPassSecret, payload)
	if err != nil {
		return nil, err
	}

	return &ExitPassResult{
		VehicleID: vehicleID,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// 3 ValidateExitPass 校验车辆出场凭证
// 只返回布尔值，任何结构问题、签名不符、作用域不符或已过期都视为无效，绝不panic
func (s *TokenService) ValidateExitPass(token string, vehicleID, tenantID uint) bool {
	var payload exitPassPayload
	if !verifyToken(s.exitPassSecret, token, &payload) {
		return false
	}
	if payload.VehicleID != vehicleID || payload.TenantID != tenantID {
		return false
	}
	return payload.ExpiresAt > time.Now().UnixMilli()
}

// 4 GenerateVisitorToken 签发访客凭证
func (s *TokenService) GenerateVisitorToken(passCode string, visitorID, tenantID uint, validTo time.Time) (string, error) {
	payload := visitorPassPayload{
		PassCode:  passCode,
		VisitorID: visitorID,
		TenantID:  tenantID,
		ValidTo:   validTo.UnixMilli(),
		Nonce:     utils.RandomHex(8),
	}
	return signPayload(s.visitorPassSecret, payload)
}

// 5 ValidateVisitorToken 校验访客凭证
func (s *TokenService) ValidateVisitorToken(token string, tenantID uint) bool {
	var payload visitorPassPayload
	if !verifyToken(s.visitorPassSecret, token, &payload) {
		return false
	}
	if payload.TenantID != tenantID {
		return false
	}
	return payload.ValidTo > time.Now().UnixMilli()
}

// 6 ExtractPassCode 从访客凭证中取出通行码
//
// 注意: 本方法只解码载荷，不做签名校验，只能用于已经通过
// ValidateVisitorToken 校验的凭证做字段回取。未经校验就使用
// 返回值会被伪造载荷欺骗，常规路径请使用 ValidatePassCode。
func (s *TokenService) ExtractPassCode(token string) (string, error) {
	var payload visitorPassPayload
	if !decodePayload(token, &payload) {
		return "", ErrPassCodeNotFound
	}
	if payload.PassCode == "" {
		return "", ErrPassCodeNotFound
	}
	return payload.PassCode, nil
}

// 7 ValidatePassCode 校验访客凭证并取出通行码，二者合一的安全入口
func (s *TokenService) ValidatePassCode(token string, tenantID uint) (string, bool) {
	if !s.ValidateVisitorToken(token, tenantID) {
		return "", false
	}
	passCode, err := s.ExtractPassCode(token)
	if err != nil {
		return "", false
	}
	return passCode, true
}

// signPayload 序列化载荷并签名: base64url(payload) + "." + base64url(mac)
func signPayload(secret []byte, payload interface{}) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	part1 := base64.RawURLEncoding.EncodeToString(raw)
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(part1))
	part2 := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	return part1 + "." + part2, nil
}

// verifyToken 结构校验 + 签名校验 + 载荷解析，任何一步失败都返回false
func verifyToken(secret []byte, token string, out interface{}) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return false
	}

	givenMAC, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	// 对第一段重新计算MAC，常数时间比较防止时序侧信道
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(parts[0]))
	if !hmac.Equal(mac.Sum(nil), givenMAC) {
		return false
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

// decodePayload 只解码第一段载荷，不校验签名
func decodePayload(token string, out interface{}) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return false
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}
