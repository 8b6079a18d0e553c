package engine

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ethbatch/v1/internal/core/chain"
	"github.com/ethbatch/v1/internal/core/record"
	"github.com/ethbatch/v1/internal/core/resolve"
	"github.com/ethbatch/v1/internal/core/units"
	"github.com/ethbatch/v1/internal/core/wallet"
)

// Executor 批次执行器
//
// 逐条、严格串行地处理输入记录：每个条目完整结束（包括阻塞等待
// 交易回执）后才开始下一条。连接是批次内共享的只读能力；
// 签名身份按条目临时构造，用后即弃，不跨条目缓存密钥材料。
type Executor struct {
	params Params
	conn   chain.Connection // 可为nil（离线操作）
	keys   KeyProvider      // 可为nil（无签名操作）
	log    *zap.Logger

	// OnItem 条目完成回调（可选，用于CLI进度展示）
	OnItem func(done, total int)

	// tokenDecimals 本批次解析后的代币小数位
	tokenDecimals uint8
}

// New 创建批次执行器
//
// conn 对需要链访问的操作必填；keys 对需要签名的操作必填。
func New(params Params, conn chain.Connection, keys KeyProvider, log *zap.Logger) (*Executor, error) {
	params = params.withDefaults()
	if err := params.validate(); err != nil {
		return nil, err
	}
	if params.Operation.NeedsConnection() && conn == nil {
		return nil, fmt.Errorf("%w: operation %s", ErrNoConnection, params.Operation)
	}
	if params.Operation.NeedsSigner() && keys == nil {
		return nil, fmt.Errorf("%w: operation %s", ErrNoSigner, params.Operation)
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Executor{
		params: params,
		conn:   conn,
		keys:   keys,
		log:    log,
	}, nil
}

// Run 执行一个批次
//
// 批次级致命错误（端点不可达、链ID不一致）在任何条目执行前返回，
// 产出零条输出。条目级错误按 Params.Policy 处理；默认策略下首个
// 条目错误中止整个批次并丢弃已产出的记录。
//
// 中断语义：进程在条目中途被终止时，该条目的交易可能已广播但
// 输出不会生成（至少一次提交语义）。
func (e *Executor) Run(ctx context.Context, items []record.Item) ([]record.Output, error) {
	runID := uuid.NewString()
	log := e.log.With(
		zap.String("run_id", runID),
		zap.String("operation", string(e.params.Operation)),
	)
	log.Info("batch started", zap.Int("items", len(items)))

	// 链身份校验：每批次一次，任何条目执行前完成
	if e.conn != nil {
		if err := e.verifyChain(ctx); err != nil {
			log.Error("batch aborted before first item", zap.Error(err))
			return nil, err
		}
	}

	outputs, err := e.dispatch(ctx, log, items)
	if err != nil {
		log.Error("batch failed", zap.Error(err))
		return nil, err
	}

	log.Info("batch finished", zap.Int("outputs", len(outputs)))
	return outputs, nil
}

// verifyChain 校验声明链ID与节点上报链ID一致
func (e *Executor) verifyChain(ctx context.Context) error {
	reported, err := e.conn.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", chain.ErrUnreachable, err)
	}

	declared := big.NewInt(e.params.ChainID)
	if declared.Cmp(reported) != 0 {
		return &ChainMismatchError{Declared: declared, Reported: reported}
	}
	return nil
}

// dispatch 按操作类型分派
func (e *Executor) dispatch(ctx context.Context, log *zap.Logger, items []record.Item) ([]record.Output, error) {
	switch e.params.Operation {
	case KindCreateWallet:
		return e.runCreateWallet()
	case KindGetGas:
		return e.runGetGas(ctx)
	default:
		return e.runPerItem(ctx, log, items)
	}
}

// runCreateWallet 生成N个独立钱包，每个钱包一条输出
//
// 不消费输入批次；输出按生成顺序自编号 0..N-1。
func (e *Executor) runCreateWallet() ([]record.Output, error) {
	wallets, err := wallet.Generate(e.params.WalletCount)
	if err != nil {
		return nil, err
	}

	outputs := make([]record.Output, 0, len(wallets))
	for i, w := range wallets {
		outputs = append(outputs, record.NewOutput(i, map[string]any{
			"address":    w.Address,
			"privateKey": w.PrivateKey,
			"mnemonic":   w.Mnemonic,
		}))
		if e.OnItem != nil {
			e.OnItem(i+1, len(wallets))
		}
	}
	return outputs, nil
}

// runGetGas 查询费用数据，无论批次大小恰好一条输出
//
// 输入记录的内容被忽略；空批次也产出一条（绑定条目0）。
func (e *Executor) runGetGas(ctx context.Context) ([]record.Output, error) {
	fee, err := e.conn.FeeData(ctx)
	if err != nil {
		return nil, err
	}
	block, err := e.conn.LatestBlock(ctx)
	if err != nil {
		return nil, err
	}

	data := map[string]any{
		"chainId":        e.params.ChainID,
		"gasPrice":       fee.GasPrice.String(),
		"blockNumber":    block.Number,
		"blockTimestamp": block.Timestamp,
	}
	if fee.MaxFeePerGas != nil {
		data["maxFeePerGas"] = fee.MaxFeePerGas.String()
	}
	if fee.MaxPriorityFeePerGas != nil {
		data["maxPriorityFeePerGas"] = fee.MaxPriorityFeePerGas.String()
	}

	if e.OnItem != nil {
		e.OnItem(1, 1)
	}
	return []record.Output{record.NewOutput(0, data)}, nil
}

// runPerItem 逐条处理输入记录
func (e *Executor) runPerItem(ctx context.Context, log *zap.Logger, items []record.Item) ([]record.Output, error) {
	// 代币小数位批次内恒定，循环前解析一次
	if e.params.Operation.NeedsToken() {
		e.tokenDecimals = e.resolveTokenDecimals(ctx, log)
	}

	outputs := make([]record.Output, 0, len(items))
	for idx := range items {
		data, err := e.runItem(ctx, items, idx)
		if err != nil {
			itemErr := &ItemError{Op: e.params.Operation, ItemNumber: idx + 1, Err: err}

			switch e.params.Policy {
			case PolicySkipItem:
				log.Warn("item skipped", zap.Int("item", idx+1), zap.Error(err))
			case PolicyCollectErrors:
				log.Warn("item failed", zap.Int("item", idx+1), zap.Error(err))
				outputs = append(outputs, record.NewOutput(idx, map[string]any{
					"error": itemErr.Error(),
				}))
			default:
				// PolicyAbortBatch：历史行为，丢弃已产出的记录
				return nil, itemErr
			}
		} else {
			outputs = append(outputs, record.NewOutput(idx, data))
		}

		if e.OnItem != nil {
			e.OnItem(idx+1, len(items))
		}
	}

	return outputs, nil
}

// runItem 处理单个条目
func (e *Executor) runItem(ctx context.Context, items []record.Item, idx int) (map[string]any, error) {
	switch e.params.Operation {
	case KindSignMessage:
		return e.signMessage(items, idx)
	case KindGetBalance:
		return e.getBalance(ctx, items, idx)
	case KindGetERC20Balance:
		return e.getTokenBalance(ctx, items, idx)
	case KindTransfer:
		return e.transfer(ctx, items, idx)
	case KindTransferERC20:
		return e.transferToken(ctx, items, idx)
	default:
		return nil, fmt.Errorf("unknown operation %q", e.params.Operation)
	}
}

// signMessage 离线消息签名
func (e *Executor) signMessage(items []record.Item, idx int) (map[string]any, error) {
	id, err := e.signerFor(items, idx)
	if err != nil {
		return nil, err
	}

	message, err := resolve.Resolve(items, idx, e.params.Message)
	if err != nil {
		return nil, err
	}

	signature, err := id.SignPersonal([]byte(message))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	data := map[string]any{
		"message":      message,
		"signature":    signature,
		"address":      id.Address().Hex(),
		"signedAt":     now.Format(time.RFC3339),
		"signedAtUnix": now.Unix(),
	}
	// 链ID仅在配置了端点时附带
	if e.conn != nil {
		data["chainId"] = e.params.ChainID
	}
	return data, nil
}

// getBalance 原生币余额查询
func (e *Executor) getBalance(ctx context.Context, items []record.Item, idx int) (map[string]any, error) {
	addr, err := e.resolveAddress(items, idx, e.params.Address)
	if err != nil {
		return nil, err
	}

	wei, err := e.conn.BalanceAt(ctx, addr)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"chainId":    e.params.ChainID,
		"address":    addr.Hex(),
		"balanceWei": wei.String(),
		"balanceEth": units.HumanBig(wei, units.NativeDecimals),
	}, nil
}

// getTokenBalance 代币余额查询
func (e *Executor) getTokenBalance(ctx context.Context, items []record.Item, idx int) (map[string]any, error) {
	addr, err := e.resolveAddress(items, idx, e.params.Address)
	if err != nil {
		return nil, err
	}

	token := common.HexToAddress(e.params.TokenAddress)
	balance, err := e.conn.TokenBalance(ctx, token, addr)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"chainId":      e.params.ChainID,
		"address":      addr.Hex(),
		"tokenAddress": token.Hex(),
		"balanceWei":   balance.String(),
		"balanceHuman": units.HumanBig(balance, e.tokenDecimals),
		"decimals":     e.tokenDecimals,
	}, nil
}

// transfer 原生币转账：解析签名者 → 收款人 → 金额 → 提交 → 等待回执
func (e *Executor) transfer(ctx context.Context, items []record.Item, idx int) (map[string]any, error) {
	id, err := e.signerFor(items, idx)
	if err != nil {
		return nil, err
	}

	to, err := e.resolveAddress(items, idx, e.params.To)
	if err != nil {
		return nil, err
	}

	amountStr, err := resolve.Resolve(items, idx, e.params.Amount)
	if err != nil {
		return nil, err
	}
	// 兼容双格式：含小数点按ETH解析，否则按wei解析
	amount, err := units.ParseNative(amountStr)
	if err != nil {
		return nil, &ConversionError{Field: e.params.Amount.Field, Value: amountStr, Err: err}
	}

	txHash, err := e.conn.SendTransfer(ctx, id, to, amount.BigInt())
	if err != nil {
		return nil, err
	}

	receipt, err := e.conn.WaitReceipt(ctx, txHash)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"chainId":     e.params.ChainID,
		"hash":        receipt.TxHash,
		"from":        id.Address().Hex(),
		"to":          to.Hex(),
		"value":       amount.String(),
		"blockNumber": receipt.BlockNumber,
		"status":      receipt.Status,
	}, nil
}

// transferToken 代币转账
func (e *Executor) transferToken(ctx context.Context, items []record.Item, idx int) (map[string]any, error) {
	id, err := e.signerFor(items, idx)
	if err != nil {
		return nil, err
	}

	to, err := e.resolveAddress(items, idx, e.params.To)
	if err != nil {
		return nil, err
	}

	amountStr, err := resolve.Resolve(items, idx, e.params.Amount)
	if err != nil {
		return nil, err
	}
	// 代币金额始终按人类可读单位解析
	amount, err := units.ParseHuman(amountStr, e.tokenDecimals)
	if err != nil {
		return nil, &ConversionError{Field: e.params.Amount.Field, Value: amountStr, Err: err}
	}

	token := common.HexToAddress(e.params.TokenAddress)
	txHash, err := e.conn.SendTokenTransfer(ctx, id, token, to, amount.BigInt())
	if err != nil {
		return nil, err
	}

	receipt, err := e.conn.WaitReceipt(ctx, txHash)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"chainId":      e.params.ChainID,
		"hash":         receipt.TxHash,
		"from":         id.Address().Hex(),
		"to":           to.Hex(),
		"tokenAddress": token.Hex(),
		"amount":       amount.String(),
		"amountHuman":  amount.Human(e.tokenDecimals),
		"blockNumber":  receipt.BlockNumber,
		"status":       receipt.Status,
	}, nil
}

// signerFor 为当前条目构造签名身份
//
// 私钥经 KeyProvider 取得，身份只在本条目内存活。
func (e *Executor) signerFor(items []record.Item, idx int) (*wallet.Identity, error) {
	key, err := e.keys.PrivateKeyFor(items, idx)
	if err != nil {
		return nil, err
	}
	return wallet.FromPrivateKey(key)
}

// resolveAddress 解析并校验一个地址参数
func (e *Executor) resolveAddress(items []record.Item, idx int, sel resolve.Selector) (common.Address, error) {
	raw, err := resolve.Resolve(items, idx, sel)
	if err != nil {
		return common.Address{}, err
	}
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("invalid address %q", raw)
	}
	return common.HexToAddress(raw), nil
}

// resolveTokenDecimals 确定本批次的代币小数位
//
// 优先取显式配置；未配置时调用 decimals() 查询，失败回退18。
func (e *Executor) resolveTokenDecimals(ctx context.Context, log *zap.Logger) uint8 {
	if e.params.TokenDecimals != 0 {
		return e.params.TokenDecimals
	}

	token := common.HexToAddress(e.params.TokenAddress)
	decimals, err := e.conn.TokenDecimals(ctx, token)
	if err != nil {
		log.Warn("decimals() query failed, falling back to 18",
			zap.String("token", token.Hex()), zap.Error(err))
		return units.DefaultTokenDecimals
	}
	return decimals
}
