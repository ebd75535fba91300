package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNormalizePlate 验证不同写法的车牌归一到同一个键
func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"带空格", "KAA 123A", "KAA123A"},
		{"小写带连字符", "kaa-123-a", "KAA123A"},
		{"已规范化", "KAA123A", "KAA123A"},
		{"混合分隔符", "k.a a_123/a", "KAA123A"},
		{"空字符串", "", ""},
		{"仅分隔符", " -_. ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePlate(tt.input))
		})
	}
}

// TestNormalizePlateEquivalence 等价写法必须产生相同的键
func TestNormalizePlateEquivalence(t *testing.T) {
	variants := []string{"KAA 123A", "kaa-123-a", "KAA123A", "Kaa 123-A"}
	want := NormalizePlate(variants[0])
	for _, v := range variants {
		assert.Equal(t, want, NormalizePlate(v), "写法 %q 未归一", v)
	}
}
