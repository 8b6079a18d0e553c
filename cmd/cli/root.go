package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	logconfig "github.com/ethbatch/v1/internal/config/log"
	"github.com/ethbatch/v1/internal/core/chain"
	"github.com/ethbatch/v1/internal/core/engine"
	"github.com/ethbatch/v1/internal/core/record"
	"github.com/ethbatch/v1/internal/credentials"
	"github.com/ethbatch/v1/internal/logging"
)

// envPrivateKey 私钥环境变量，避免在命令行上出现密钥
const envPrivateKey = "ETHBATCH_PRIVATE_KEY"

// GlobalFlags 全局标志
type GlobalFlags struct {
	RPC            string // JSON-RPC 端点
	ChainID        int64  // 声明的链ID
	LogLevel       string // 日志级别
	PrivateKey     string // 私钥（推荐用环境变量传入）
	ReceiptTimeout time.Duration
}

var globalFlags GlobalFlags

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "ethbatch",
	Short: "批量EVM账户操作工具",
	Long: `ethbatch - 面向单个JSON-RPC端点的批量账户操作引擎

支持的操作:
- 生成钱包（助记词 + 私钥 + 地址）
- 离线消息签名（EIP-191 personal_sign）
- 原生币与ERC-20余额查询
- 费用数据查询
- 原生币与ERC-20转账（提交并阻塞等待回执）

批量作业通过 "run <job.yaml>" 执行，每条记录的参数可以来自
静态配置或记录自身的字段。`,
	SilenceUsage: true,
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.RPC, "rpc", "", "JSON-RPC 端点URL")
	rootCmd.PersistentFlags().Int64Var(&globalFlags.ChainID, "chain-id", 1, "声明的链ID（与节点上报不一致时中止）")
	rootCmd.PersistentFlags().StringVar(&globalFlags.LogLevel, "log-level", "info", "日志级别: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&globalFlags.PrivateKey, "private-key", "", "私钥（优先使用环境变量 "+envPrivateKey+"）")
	rootCmd.PersistentFlags().DurationVar(&globalFlags.ReceiptTimeout, "receipt-timeout", chain.DefaultReceiptTimeout, "等待交易回执的最长时间")

	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(tokenBalanceCmd)
	rootCmd.AddCommand(gasCmd)
	rootCmd.AddCommand(transferCmd)
	rootCmd.AddCommand(transferTokenCmd)
	rootCmd.AddCommand(runCmd)
}

// newLogger 按全局标志构建日志器
func newLogger() *zap.Logger {
	opts := logconfig.Default()
	opts.Level = globalFlags.LogLevel
	opts.EnableCaller = false
	return logging.New(opts)
}

// dialConn 建立链连接（--rpc 必填）
func dialConn(ctx context.Context) (chain.Connection, error) {
	if globalFlags.RPC == "" {
		return nil, fmt.Errorf("必须指定 --rpc")
	}
	return chain.Dial(ctx, globalFlags.RPC, chain.Options{
		ReceiptTimeout: globalFlags.ReceiptTimeout,
	})
}

// resolveKey 取私钥：环境变量优先于命令行标志
func resolveKey() (engine.KeyProvider, error) {
	key := strings.TrimSpace(os.Getenv(envPrivateKey))
	if key == "" {
		key = globalFlags.PrivateKey
	}
	return engine.CredentialKeys(&credentials.PrivateKey{Key: key})
}

// runSingle 以单条合成记录执行一次操作并打印输出
func runSingle(ctx context.Context, params engine.Params, conn chain.Connection, keys engine.KeyProvider) error {
	exec, err := engine.New(params, conn, keys, newLogger())
	if err != nil {
		return err
	}

	outputs, err := exec.Run(ctx, []record.Item{{}})
	if err != nil {
		return err
	}
	return printOutputs(outputs)
}

// printOutputs 输出JSON结果
func printOutputs(outputs []record.Output) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(outputs)
}
