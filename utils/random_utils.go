package utils

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
)

// RandomInt32 生成一个安全的随机32位整数
func RandomInt32() int32 {
	var num int32
	err := binary.Read(rand.Reader, binary.BigEndian, &num)
	if err != nil {
		panic("generate random int32 failed")
	}

	return num
}

// RandomHex 生成指定字节数的安全随机十六进制字符串
// 用作凭证nonce，只保证重复签发产生不同令牌，不提供防重放能力
func RandomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic("generate random bytes failed")
	}
	return hex.EncodeToString(buf)
}
