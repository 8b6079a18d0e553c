package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/ethbatch/v1/internal/core/wallet"
)

// Connection 引擎侧的链连接契约
//
// 所有链上操作都经由此接口；引擎不直接依赖 ethclient，
// 便于测试时替换为桩实现。
type Connection interface {
	// ChainID 返回节点上报的链ID
	ChainID(ctx context.Context) (*big.Int, error)

	// BalanceAt 查询原生币余额（wei）
	BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error)

	// FeeData 查询当前费用数据
	FeeData(ctx context.Context) (*FeeData, error)

	// LatestBlock 查询最新区块元数据
	LatestBlock(ctx context.Context) (*BlockInfo, error)

	// TokenBalance 查询 ERC-20 余额（最小单位）
	TokenBalance(ctx context.Context, token, holder common.Address) (*big.Int, error)

	// TokenDecimals 查询 ERC-20 小数位
	TokenDecimals(ctx context.Context, token common.Address) (uint8, error)

	// SendTransfer 提交原生币转账，返回交易哈希
	SendTransfer(ctx context.Context, id *wallet.Identity, to common.Address, wei *big.Int) (common.Hash, error)

	// SendTokenTransfer 提交 ERC-20 transfer，返回交易哈希
	SendTokenTransfer(ctx context.Context, id *wallet.Identity, token, to common.Address, amount *big.Int) (common.Hash, error)

	// WaitReceipt 阻塞等待交易上链并返回回执
	WaitReceipt(ctx context.Context, txHash common.Hash) (*Receipt, error)

	// Close 释放底层连接
	Close()
}

// 错误定义
var (
	// ErrUnreachable 端点不可达或URL非法
	ErrUnreachable = errors.New("endpoint unreachable")

	// ErrReceiptTimeout 等待回执超时
	ErrReceiptTimeout = errors.New("timed out waiting for transaction receipt")
)

// 普通转账的固定gas下限
const transferGasFloor = 21000

// EthConnection 基于 go-ethereum ethclient 的连接实现
type EthConnection struct {
	client  *ethclient.Client
	chainID *big.Int // 拨号时探测并缓存
	opts    Options
}

// 编译期断言
var _ Connection = (*EthConnection)(nil)

// Dial 建立到JSON-RPC端点的连接并做一次可达性探测
//
// 探测通过 eth_chainId 完成；失败对整个批次是致命的，
// 调用方不应在此之后处理任何条目。
func Dial(ctx context.Context, url string, opts Options) (*EthConnection, error) {
	opts = opts.withDefaults()

	dialCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()

	client, err := ethclient.DialContext(dialCtx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	// 可达性探测：每批次执行一次
	chainID, err := client.ChainID(dialCtx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: chain id probe failed: %v", ErrUnreachable, err)
	}

	return &EthConnection{
		client:  client,
		chainID: chainID,
		opts:    opts,
	}, nil
}

// ChainID 返回拨号时探测到的链ID
func (c *EthConnection) ChainID(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(c.chainID), nil
}

// BalanceAt 查询最新状态下的原生币余额
func (c *EthConnection) BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error) {
	balance, err := c.client.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("get balance of %s: %w", addr.Hex(), err)
	}
	return balance, nil
}

// FeeData 查询费用数据
//
// maxFeePerGas 按通行公式 2*baseFee + tip 计算（仅EIP-1559链）。
func (c *EthConnection) FeeData(ctx context.Context) (*FeeData, error) {
	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("suggest gas price: %w", err)
	}

	fee := &FeeData{GasPrice: gasPrice}

	head, err := c.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("get head block: %w", err)
	}

	if head.BaseFee != nil {
		tip, err := c.client.SuggestGasTipCap(ctx)
		if err != nil {
			return nil, fmt.Errorf("suggest gas tip cap: %w", err)
		}
		fee.MaxPriorityFeePerGas = tip
		fee.MaxFeePerGas = new(big.Int).Add(
			new(big.Int).Mul(head.BaseFee, big.NewInt(2)),
			tip,
		)
	}

	return fee, nil
}

// LatestBlock 查询最新区块号与时间戳
func (c *EthConnection) LatestBlock(ctx context.Context) (*BlockInfo, error) {
	head, err := c.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("get head block: %w", err)
	}
	return &BlockInfo{
		Number:    head.Number.Uint64(),
		Timestamp: head.Time,
	}, nil
}

// SendTransfer 构建、签名并广播一笔原生币转账
func (c *EthConnection) SendTransfer(ctx context.Context, id *wallet.Identity, to common.Address, wei *big.Int) (common.Hash, error) {
	return c.submit(ctx, id, &to, wei, nil)
}

// SendTokenTransfer 构建、签名并广播一笔 ERC-20 transfer
func (c *EthConnection) SendTokenTransfer(ctx context.Context, id *wallet.Identity, token, to common.Address, amount *big.Int) (common.Hash, error) {
	data, err := packTransfer(to, amount)
	if err != nil {
		return common.Hash{}, err
	}
	return c.submit(ctx, id, &token, big.NewInt(0), data)
}

// submit 交易提交的公共路径：取nonce → 估gas → 构建 → 签名 → 广播
//
// 链支持EIP-1559时发送DynamicFeeTx，否则回退LegacyTx。
// 中断语义为至少一次：交易可能已广播但调用方未收到哈希。
func (c *EthConnection) submit(ctx context.Context, id *wallet.Identity, to *common.Address, value *big.Int, data []byte) (common.Hash, error) {
	from := id.Address()

	nonce, err := c.client.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("get nonce for %s: %w", from.Hex(), err)
	}

	gasLimit, err := c.estimateGas(ctx, from, to, value, data)
	if err != nil {
		return common.Hash{}, err
	}

	fee, err := c.FeeData(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	var tx *types.Transaction
	if fee.MaxFeePerGas != nil {
		tx = types.NewTx(&types.DynamicFeeTx{
			ChainID:   c.chainID,
			Nonce:     nonce,
			GasTipCap: fee.MaxPriorityFeePerGas,
			GasFeeCap: fee.MaxFeePerGas,
			Gas:       gasLimit,
			To:        to,
			Value:     value,
			Data:      data,
		})
	} else {
		tx = types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: fee.GasPrice,
			Gas:      gasLimit,
			To:       to,
			Value:    value,
			Data:     data,
		})
	}

	signed, err := id.SignTx(tx, c.chainID)
	if err != nil {
		return common.Hash{}, err
	}

	if err := c.client.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("broadcast transaction: %w", err)
	}

	return signed.Hash(), nil
}

// estimateGas 估算gas上限，普通转账不低于21000
func (c *EthConnection) estimateGas(ctx context.Context, from common.Address, to *common.Address, value *big.Int, data []byte) (uint64, error) {
	gasLimit, err := c.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return 0, fmt.Errorf("estimate gas: %w", err)
	}
	if len(data) == 0 && gasLimit < transferGasFloor {
		gasLimit = transferGasFloor
	}
	return gasLimit, nil
}

// WaitReceipt 轮询等待交易回执
//
// 超时由 Options.ReceiptTimeout 控制；轮询间隔为
// Options.ReceiptPollInterval。回执未生成时节点返回 not found，
// 视为继续等待。
func (c *EthConnection) WaitReceipt(ctx context.Context, txHash common.Hash) (*Receipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, c.opts.ReceiptTimeout)
	defer cancel()

	ticker := time.NewTicker(c.opts.ReceiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.client.TransactionReceipt(waitCtx, txHash)
		if err == nil {
			return &Receipt{
				TxHash:      receipt.TxHash.Hex(),
				BlockNumber: receipt.BlockNumber.Uint64(),
				Status:      receipt.Status,
				GasUsed:     receipt.GasUsed,
			}, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("get receipt for %s: %w", txHash.Hex(), err)
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() == nil {
				return nil, fmt.Errorf("%w: %s", ErrReceiptTimeout, txHash.Hex())
			}
			return nil, waitCtx.Err()
		case <-ticker.C:
		}
	}
}

// Close 关闭底层客户端
func (c *EthConnection) Close() {
	c.client.Close()
}
