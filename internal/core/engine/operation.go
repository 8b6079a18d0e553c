// Package engine executes batched account operations against a single
// JSON-RPC endpoint: wallet generation, off-chain message signing, native and
// ERC-20 transfers, and balance/fee queries.
package engine

import (
	"fmt"

	"github.com/ethbatch/v1/internal/core/resolve"
)

// Kind 操作类型（批次内恒定，一批只选一次）
type Kind string

const (
	// KindCreateWallet 生成N个独立的随机钱包（不消费输入批次）
	KindCreateWallet Kind = "createWallet"

	// KindSignMessage 离线消息签名（每条记录一条输出）
	KindSignMessage Kind = "signMessage"

	// KindGetBalance 原生币余额查询
	KindGetBalance Kind = "getBalance"

	// KindGetERC20Balance 代币余额查询
	KindGetERC20Balance Kind = "getErc20Balance"

	// KindGetGas 费用数据查询（无论批次大小，恰好一条输出）
	KindGetGas Kind = "getGas"

	// KindTransfer 原生币转账
	KindTransfer Kind = "transfer"

	// KindTransferERC20 代币转账
	KindTransferERC20 Kind = "transferErc20"
)

// Valid 判断是否是已知操作
func (k Kind) Valid() bool {
	switch k {
	case KindCreateWallet, KindSignMessage, KindGetBalance,
		KindGetERC20Balance, KindGetGas, KindTransfer, KindTransferERC20:
		return true
	}
	return false
}

// NeedsConnection 该操作是否必须有链连接
//
// 钱包生成与离线签名可以在没有端点的情况下执行。
func (k Kind) NeedsConnection() bool {
	switch k {
	case KindCreateWallet, KindSignMessage:
		return false
	}
	return true
}

// NeedsSigner 该操作是否需要签名身份
func (k Kind) NeedsSigner() bool {
	switch k {
	case KindSignMessage, KindTransfer, KindTransferERC20:
		return true
	}
	return false
}

// NeedsToken 该操作是否需要代币合约地址
func (k Kind) NeedsToken() bool {
	switch k {
	case KindGetERC20Balance, KindTransferERC20:
		return true
	}
	return false
}

// ErrorPolicy 条目级错误的处理策略
type ErrorPolicy string

const (
	// PolicyAbortBatch 首个条目错误即中止整个批次（历史默认行为）
	PolicyAbortBatch ErrorPolicy = "abortBatch"

	// PolicySkipItem 跳过出错条目，继续后续条目
	PolicySkipItem ErrorPolicy = "skipItem"

	// PolicyCollectErrors 为出错条目产出一条 {error: ...} 记录后继续
	PolicyCollectErrors ErrorPolicy = "collectErrors"
)

// Valid 判断是否是已知策略
func (p ErrorPolicy) Valid() bool {
	switch p {
	case PolicyAbortBatch, PolicySkipItem, PolicyCollectErrors:
		return true
	}
	return false
}

// Params 一个批次的执行参数
//
// 所有可变取值（收款地址、金额、地址、消息）各自携带一个 Selector，
// 指明取静态配置还是取记录字段。
type Params struct {
	// Operation 操作类型
	Operation Kind

	// ChainID 调用方声明的链ID（默认1）。有连接时必须与节点上报
	// 的链ID一致，否则整个批次在任何条目执行前中止。
	ChainID int64

	// To 收款地址（Transfer / TransferERC20）
	To resolve.Selector

	// Amount 转账金额（Transfer / TransferERC20）
	Amount resolve.Selector

	// Address 查询地址（GetBalance / GetERC20Balance）
	Address resolve.Selector

	// Message 待签名消息（SignMessage）
	Message resolve.Selector

	// TokenAddress 代币合约地址（ERC-20 操作必填，批次内固定）
	TokenAddress string

	// TokenDecimals 代币小数位。0 表示先调用 decimals() 查询，
	// 查询失败时回退 18。
	TokenDecimals uint8

	// WalletCount CreateWallet 生成数量（1-100，默认1）
	WalletCount int

	// Policy 条目级错误策略（默认 PolicyAbortBatch，保持历史行为）
	Policy ErrorPolicy
}

// withDefaults 补全未设置的参数
func (p Params) withDefaults() Params {
	if p.ChainID == 0 {
		p.ChainID = 1
	}
	if p.Policy == "" {
		p.Policy = PolicyAbortBatch
	}
	if p.WalletCount == 0 {
		p.WalletCount = 1
	}
	return p
}

// validate 检查参数组合是否可执行
func (p Params) validate() error {
	if !p.Operation.Valid() {
		return fmt.Errorf("unknown operation %q", p.Operation)
	}
	if !p.Policy.Valid() {
		return fmt.Errorf("unknown error policy %q", p.Policy)
	}
	if p.ChainID < 0 {
		return fmt.Errorf("chain id must be positive, got %d", p.ChainID)
	}
	if p.Operation.NeedsToken() && p.TokenAddress == "" {
		return fmt.Errorf("operation %s requires a token contract address", p.Operation)
	}
	return nil
}
