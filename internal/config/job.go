// Package config loads batch job configuration from YAML/JSON files and turns
// it into engine parameters.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	logconfig "github.com/ethbatch/v1/internal/config/log"
	"github.com/ethbatch/v1/internal/core/chain"
	"github.com/ethbatch/v1/internal/core/engine"
	"github.com/ethbatch/v1/internal/core/record"
	"github.com/ethbatch/v1/internal/core/resolve"
	"github.com/ethbatch/v1/internal/credentials"
)

// KeySource 私钥来源配置
//
// 二选一：credential（批次级凭证）或 selector（按记录字段取）。
type KeySource struct {
	Credential *credentials.PrivateKey `yaml:"credential,omitempty" json:"credential,omitempty"`
	Selector   *resolve.Selector       `yaml:"selector,omitempty" json:"selector,omitempty"`
}

// TokenOptions 代币配置
type TokenOptions struct {
	Address  string `yaml:"address" json:"address"`
	Decimals uint8  `yaml:"decimals,omitempty" json:"decimals,omitempty"` // 0=调用decimals()查询
}

// JobOptions 一次批次运行的完整配置
type JobOptions struct {
	// Endpoint JSON-RPC 端点URL。链上操作必填，离线签名可省略。
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`

	// ChainID 声明的链ID（默认1）
	ChainID int64 `yaml:"chain_id,omitempty" json:"chain_id,omitempty"`

	// Operation 操作类型
	Operation engine.Kind `yaml:"operation" json:"operation"`

	// Policy 条目级错误策略（默认 abortBatch）
	Policy engine.ErrorPolicy `yaml:"policy,omitempty" json:"policy,omitempty"`

	// Key 私钥来源（签名类操作必填）
	Key *KeySource `yaml:"key,omitempty" json:"key,omitempty"`

	// 参数取值配置
	To      resolve.Selector `yaml:"to,omitempty" json:"to,omitempty"`
	Amount  resolve.Selector `yaml:"amount,omitempty" json:"amount,omitempty"`
	Address resolve.Selector `yaml:"address,omitempty" json:"address,omitempty"`
	Message resolve.Selector `yaml:"message,omitempty" json:"message,omitempty"`

	// Token 代币配置（ERC-20 操作必填）
	Token *TokenOptions `yaml:"token,omitempty" json:"token,omitempty"`

	// WalletCount CreateWallet 生成数量
	WalletCount int `yaml:"wallet_count,omitempty" json:"wallet_count,omitempty"`

	// 回执等待配置
	ReceiptTimeout      Duration `yaml:"receipt_timeout,omitempty" json:"receipt_timeout,omitempty"`
	ReceiptPollInterval Duration `yaml:"receipt_poll_interval,omitempty" json:"receipt_poll_interval,omitempty"`

	// ItemsFile 输入记录文件（JSON数组或YAML列表）
	ItemsFile string `yaml:"items_file,omitempty" json:"items_file,omitempty"`

	// Items 内联输入记录（与ItemsFile二选一）
	Items []record.Item `yaml:"items,omitempty" json:"items,omitempty"`

	// Log 日志配置
	Log *logconfig.Options `yaml:"log,omitempty" json:"log,omitempty"`
}

// LoadJob 从文件加载批次配置
//
// 按扩展名选择解析器：.json 用JSON，其余按YAML处理
// （YAML是JSON的超集，.yaml/.yml均可）。
func LoadJob(path string) (*JobOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}

	job := &JobOptions{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, job); err != nil {
			return nil, fmt.Errorf("parse job file %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, job); err != nil {
			return nil, fmt.Errorf("parse job file %s: %w", path, err)
		}
	}

	return job, nil
}

// EngineParams 将配置转换为引擎参数
func (j *JobOptions) EngineParams() engine.Params {
	params := engine.Params{
		Operation:   j.Operation,
		ChainID:     j.ChainID,
		To:          j.To,
		Amount:      j.Amount,
		Address:     j.Address,
		Message:     j.Message,
		WalletCount: j.WalletCount,
		Policy:      j.Policy,
	}
	if j.Token != nil {
		params.TokenAddress = j.Token.Address
		params.TokenDecimals = j.Token.Decimals
	}
	return params
}

// ChainOptions 将配置转换为连接选项
func (j *JobOptions) ChainOptions() chain.Options {
	return chain.Options{
		ReceiptTimeout:      j.ReceiptTimeout.Std(),
		ReceiptPollInterval: j.ReceiptPollInterval.Std(),
	}
}

// KeyProvider 按配置选择私钥来源能力
//
// 签名类操作必须配置credential或selector之一。
func (j *JobOptions) KeyProvider() (engine.KeyProvider, error) {
	if j.Key == nil {
		if j.Operation.NeedsSigner() {
			return nil, fmt.Errorf("operation %s requires a key source", j.Operation)
		}
		return nil, nil
	}

	switch {
	case j.Key.Credential != nil:
		return engine.CredentialKeys(j.Key.Credential)
	case j.Key.Selector != nil:
		return engine.SelectorKeys(*j.Key.Selector), nil
	default:
		return nil, fmt.Errorf("key source must set credential or selector")
	}
}

// LoadItems 加载输入记录
//
// 优先内联Items；否则按ItemsFile读取。两者都未配置时返回空批次。
func (j *JobOptions) LoadItems() ([]record.Item, error) {
	if len(j.Items) > 0 {
		return j.Items, nil
	}
	if j.ItemsFile == "" {
		return nil, nil
	}

	data, err := os.ReadFile(j.ItemsFile)
	if err != nil {
		return nil, fmt.Errorf("read items file: %w", err)
	}

	var items []record.Item
	if strings.EqualFold(filepath.Ext(j.ItemsFile), ".json") {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parse items file %s: %w", j.ItemsFile, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parse items file %s: %w", j.ItemsFile, err)
		}
	}

	return items, nil
}
