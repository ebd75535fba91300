package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenService() InterfaceTokenService {
	return NewTokenService(newTestConfig())
}

// TestExitPassRoundTrip 签发的凭证在作用域匹配时校验通过
func TestExitPassRoundTrip(t *testing.T) {
	svc := newTokenService()

	result, err := svc.GenerateExitPass(12, 1)
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	assert.Equal(t, uint(12), result.VehicleID)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	assert.True(t, svc.ValidateExitPass(result.Token, 12, 1))
}

// TestExitPassScopeMismatch 车辆或租户不匹配的凭证无效
func TestExitPassScopeMismatch(t *testing.T) {
	svc := newTokenService()

	result, err := svc.GenerateExitPass(12, 1)
	require.NoError(t, err)

	assert.False(t, svc.ValidateExitPass(result.Token, 13, 1), "其他车辆不能使用该凭证")
	assert.False(t, svc.ValidateExitPass(result.Token, 12, 2), "其他租户不能使用该凭证")
}

// TestExitPassExpired 过期凭证无效
func TestExitPassExpired(t *testing.T) {
	svc := newTokenService()

	result, err := svc.GenerateExitPassWithTTL(12, 1, -time.Minute)
	require.NoError(t, err)

	assert.False(t, svc.ValidateExitPass(result.Token, 12, 1))
}

// TestExitPassTampered 凭证任何一个字节被篡改都无效
func TestExitPassTampered(t *testing.T) {
	svc := newTokenService()

	result, err := svc.GenerateExitPass(12, 1)
	require.NoError(t, err)

	// 翻转载荷段的一个字节
	raw := []byte(result.Token)
	raw[0] ^= 0x01
	assert.False(t, svc.ValidateExitPass(string(raw), 12, 1))

	// 翻转签名段的一个字节
	raw = []byte(result.Token)
	raw[len(raw)-1] ^= 0x01
	assert.False(t, svc.ValidateExitPass(string(raw), 12, 1))
}

// TestExitPassGarbageNeverPanics 任意结构垃圾输入只返回false，绝不panic
func TestExitPassGarbageNeverPanics(t *testing.T) {
	svc := newTokenService()

	garbage := []string{
		"",
		"PASS-ABC-123",
		"onlyonepart",
		"a.b.c",
		"!!!.???",
		"====.====",
		strings.Repeat(".", 100),
	}
	for _, token := range garbage {
		assert.NotPanics(t, func() {
			assert.False(t, svc.ValidateExitPass(token, 12, 1), "垃圾输入 %q 不应通过校验", token)
		})
	}
}

// TestExitPassDistinctTokens 重复签发产生不同的凭证
func TestExitPassDistinctTokens(t *testing.T) {
	svc := newTokenService()

	first, err := svc.GenerateExitPass(12, 1)
	require.NoError(t, err)
	second, err := svc.GenerateExitPass(12, 1)
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
}

// TestVisitorTokenRoundTrip 访客凭证签发与校验
func TestVisitorTokenRoundTrip(t *testing.T) {
	svc := newTokenService()

	token, err := svc.GenerateVisitorToken("PASS-ABC-123", 301, 1, time.Now().Add(time.Hour))
	require.NoError(t, err)

	assert.True(t, svc.ValidateVisitorToken(token, 1))
	assert.False(t, svc.ValidateVisitorToken(token, 2), "其他租户不能使用该凭证")

	passCode, ok := svc.ValidatePassCode(token, 1)
	require.True(t, ok)
	assert.Equal(t, "PASS-ABC-123", passCode)
}

// TestVisitorTokenExpired 超过有效期的访客凭证无效
func TestVisitorTokenExpired(t *testing.T) {
	svc := newTokenService()

	token, err := svc.GenerateVisitorToken("PASS-ABC-123", 301, 1, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	assert.False(t, svc.ValidateVisitorToken(token, 1))
	_, ok := svc.ValidatePassCode(token, 1)
	assert.False(t, ok)
}

// TestVisitorTokenWrongSecret 出场凭证密钥签出的令牌不能当访客凭证用
func TestVisitorTokenWrongSecret(t *testing.T) {
	svc := newTokenService()

	result, err := svc.GenerateExitPass(12, 1)
	require.NoError(t, err)

	assert.False(t, svc.ValidateVisitorToken(result.Token, 1))
}

// TestExtractPassCodeUnverified ExtractPassCode只解码不验签，
// 伪造载荷也能取出字段，安全入口必须走ValidatePassCode
func TestExtractPassCodeUnverified(t *testing.T) {
	svc := newTokenService()

	// 用错误密钥的服务签出载荷合法但签名不符的令牌
	forgedCfg := newTestConfig()
	forgedCfg.VisitorPassSecret = "attacker-controlled-secret"
	forger := NewTokenService(forgedCfg)

	forged, err := forger.GenerateVisitorToken("PASS-ABC-123", 301, 1, time.Now().Add(time.Hour))
	require.NoError(t, err)

	// 只解码的入口会被伪造载荷欺骗
	passCode, err := svc.ExtractPassCode(forged)
	require.NoError(t, err)
	assert.Equal(t, "PASS-ABC-123", passCode)

	// 验签+解码合一的入口拒绝
	_, ok := svc.ValidatePassCode(forged, 1)
	assert.False(t, ok)
}

// TestExtractPassCodeMissing 不含通行码的载荷返回错误
func TestExtractPassCodeMissing(t *testing.T) {
	svc := newTokenService()

	// 出场凭证载荷中没有pass_code字段
	result, err := svc.GenerateExitPass(12, 1)
	require.NoError(t, err)

	_, err = svc.ExtractPassCode(result.Token)
	assert.ErrorIs(t, err, ErrPassCodeNotFound)

	_, err = svc.ExtractPassCode("PASS-ABC-123")
	assert.ErrorIs(t, err, ErrPassCodeNotFound)
}
