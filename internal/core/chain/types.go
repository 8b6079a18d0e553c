// Package chain wraps a single JSON-RPC endpoint behind the narrow connection
// contract the execution engine requires.
package chain

import (
	"math/big"
	"time"
)

// FeeData 费用数据
//
// gasPrice 始终存在；maxFeePerGas / maxPriorityFeePerGas 仅在链支持
// EIP-1559（区块头携带 baseFee）时填充。
type FeeData struct {
	GasPrice             *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// BlockInfo 最新区块元数据
type BlockInfo struct {
	Number    uint64
	Timestamp uint64
}

// Receipt 交易回执
type Receipt struct {
	TxHash      string
	BlockNumber uint64
	Status      uint64 // 1=成功 0=回滚
	GasUsed     uint64
}

// Options 连接行为配置
//
// 底层不提供隐式超时：回执等待时长与轮询间隔由调用方按批次配置。
type Options struct {
	// DialTimeout 建立连接（含可达性探测）的超时
	DialTimeout time.Duration

	// ReceiptTimeout 单笔交易等待回执的最长时间
	ReceiptTimeout time.Duration

	// ReceiptPollInterval 回执轮询间隔
	ReceiptPollInterval time.Duration
}

// 默认连接配置
const (
	DefaultDialTimeout         = 15 * time.Second
	DefaultReceiptTimeout      = 5 * time.Minute
	DefaultReceiptPollInterval = 2 * time.Second
)

// withDefaults 补全未设置的选项
func (o Options) withDefaults() Options {
	if o.DialTimeout <= 0 {
		o.DialTimeout = DefaultDialTimeout
	}
	if o.ReceiptTimeout <= 0 {
		o.ReceiptTimeout = DefaultReceiptTimeout
	}
	if o.ReceiptPollInterval <= 0 {
		o.ReceiptPollInterval = DefaultReceiptPollInterval
	}
	return o
}
