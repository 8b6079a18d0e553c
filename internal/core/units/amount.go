// Package units provides exact amount conversion between human-readable
// decimal strings and integer base units.
package units

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Amount 表示一笔金额（使用最小单位）
//
// 金额系统：
//   - 原生币固定 18 位小数（1 ETH = 10^18 wei）
//   - 代币小数位可配置（通过 decimals 参数传入）
//   - 使用 *big.Int 确保精确计算，避免浮点数精度问题
type Amount struct {
	value *big.Int // 最小单位（wei 或代币最小单位）
}

// 常量定义
const (
	// NativeDecimals 原生币的小数位数
	NativeDecimals uint8 = 18

	// DefaultTokenDecimals 代币默认小数位数
	DefaultTokenDecimals uint8 = 18
)

var (
	// ErrInvalidAmount 无效的金额
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNegativeAmount 负数金额
	ErrNegativeAmount = errors.New("negative amount")
)

// pow10 返回 10^n
func pow10(n uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// ParseHuman 从人类可读的十进制字符串创建Amount
//
// 转换规则：乘以 10^decimals，超出 decimals 位的小数部分直接截断（向零取整），
// 绝不向上舍入。
//
// 示例：
//
//	ParseHuman("1.5", 18)        → 1500000000000000000
//	ParseHuman("1.23456789", 2)  → 123
func ParseHuman(s string, decimals uint8) (*Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}
	if strings.HasPrefix(s, "-") {
		return nil, ErrNegativeAmount
	}
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" && fracPart == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if intPart == "" {
		intPart = "0"
	}
	if !isDigits(intPart) || (fracPart != "" && !isDigits(fracPart)) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	// 截断超出 decimals 位的小数
	if len(fracPart) > int(decimals) {
		fracPart = fracPart[:decimals]
	}
	// 不足 decimals 位则右侧补零
	fracPart += strings.Repeat("0", int(decimals)-len(fracPart))

	value, ok := new(big.Int).SetString(intPart+fracPart, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	return &Amount{value: value}, nil
}

// ParseBase 从最小单位的整数字符串创建Amount
//
// 只接受非负的十进制整数，不接受小数点。
func ParseBase(s string) (*Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}
	if strings.ContainsRune(s, '.') {
		return nil, fmt.Errorf("%w: base units must be an integer: %q", ErrInvalidAmount, s)
	}

	value, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if value.Sign() < 0 {
		return nil, ErrNegativeAmount
	}

	return &Amount{value: value}, nil
}

// ParseNative 解析原生币转账金额（兼容的双格式输入）
//
// 历史格式：
//   - 含小数点 → 作为 ETH 单位解析（18 位小数）
//   - 不含小数点 → 作为 wei（最小单位）解析
//
// 新代码应优先使用 ParseHuman / ParseBase 显式指明单位。
func ParseNative(s string) (*Amount, error) {
	if strings.ContainsRune(strings.TrimSpace(s), '.') {
		return ParseHuman(s, NativeDecimals)
	}
	return ParseBase(s)
}

// FromBigInt 从big.Int创建Amount
func FromBigInt(value *big.Int) (*Amount, error) {
	if value == nil {
		return nil, fmt.Errorf("%w: nil value", ErrInvalidAmount)
	}
	if value.Sign() < 0 {
		return nil, ErrNegativeAmount
	}

	// 复制value，避免外部修改
	return &Amount{value: new(big.Int).Set(value)}, nil
}

// Zero 返回零金额
func Zero() *Amount {
	return &Amount{value: big.NewInt(0)}
}

// BigInt 返回big.Int副本
func (a *Amount) BigInt() *big.Int {
	if a == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(a.value)
}

// IsZero 判断金额是否为零
func (a *Amount) IsZero() bool {
	return a == nil || a.value.Sign() == 0
}

// Cmp 比较两个金额
//
//	-1: a < b
//	 0: a == b
//	 1: a > b
func (a *Amount) Cmp(b *Amount) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	return a.value.Cmp(b.value)
}

// String 返回最小单位的十进制字符串
func (a *Amount) String() string {
	if a == nil {
		return "0"
	}
	return a.value.String()
}

// Human 转换为人类可读的十进制字符串（用于展示）
//
// 去除末尾多余的零；整数金额不带小数点。
// 注意：展示路径允许精度损失，精确计算必须始终基于最小单位。
func (a *Amount) Human(decimals uint8) string {
	if a == nil || a.value.Sign() == 0 {
		return "0"
	}

	quotient, remainder := new(big.Int).QuoRem(a.value, pow10(decimals), new(big.Int))
	if remainder.Sign() == 0 {
		return quotient.String()
	}

	frac := remainder.String()
	// 左侧补零到 decimals 位
	frac = strings.Repeat("0", int(decimals)-len(frac)) + frac
	frac = strings.TrimRight(frac, "0")

	return quotient.String() + "." + frac
}

// HumanBig 将任意big.Int按decimals转换为展示字符串
func HumanBig(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0"
	}
	a := &Amount{value: new(big.Int).Set(value)}
	return a.Human(decimals)
}

// isDigits 检查字符串是否全部为十进制数字
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
