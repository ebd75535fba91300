package utils

import (
	"strings"
	"unicode"
)

// NormalizePlate 规范化车牌号: 统一大写并去掉空白和标点
// 保证 "KAA 123A"、"kaa-123-a"、"KAA123A" 等写法归一到同一个键
func NormalizePlate(plate string) string {
	var b strings.Builder
	b.Grow(len(plate))
	for _, r := range plate {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
