package engine

import (
	"errors"
	"fmt"
	"math/big"
)

// 批次级错误定义
var (
	// ErrNoConnection 操作需要链连接但未配置端点
	ErrNoConnection = errors.New("operation requires a connection endpoint")

	// ErrNoSigner 操作需要签名身份但未配置私钥来源
	ErrNoSigner = errors.New("operation requires a private key source")
)

// ChainMismatchError 声明的链ID与节点上报的链ID不一致
//
// 批次级致命错误：在任何条目执行前中止，产出零条输出。
type ChainMismatchError struct {
	Declared *big.Int
	Reported *big.Int
}

func (e *ChainMismatchError) Error() string {
	return fmt.Sprintf("chain id mismatch: declared %s, node reports %s", e.Declared, e.Reported)
}

// ConversionError 金额字符串无法解析
//
// 显式错误类型，携带字段名与原始值便于定位。
type ConversionError struct {
	Field string
	Value string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot parse amount %q (field %s): %v", e.Value, e.Field, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// ItemError 单个条目处理失败
//
// 携带操作名与 1-based 条目编号，包装底层错误
// （MissingFieldError / InvalidKeyError / ConversionError / 网络错误）。
type ItemError struct {
	Op         Kind
	ItemNumber int
	Err        error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s: item %d: %v", e.Op, e.ItemNumber, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }
