package engine

import (
	"github.com/ethbatch/v1/internal/core/record"
	"github.com/ethbatch/v1/internal/core/resolve"
	"github.com/ethbatch/v1/internal/credentials"
)

// KeyProvider 为第idx条记录提供签名私钥
//
// 两种后端策略对应同一能力：批次级凭证（静态私钥）与
// 记录字段私钥。选 Provider 在配置期完成一次。
type KeyProvider interface {
	// PrivateKeyFor 返回十六进制私钥（可带 0x 前缀）
	PrivateKeyFor(items []record.Item, idx int) (string, error)
}

// credentialKeys 凭证后端：整批共用凭证中的一个私钥
type credentialKeys struct {
	cred *credentials.PrivateKey
}

// CredentialKeys 创建凭证后端的KeyProvider
//
// 凭证缺失或私钥为空时快速失败。
func CredentialKeys(cred *credentials.PrivateKey) (KeyProvider, error) {
	if err := cred.Validate(); err != nil {
		return nil, err
	}
	return &credentialKeys{cred: cred}, nil
}

func (p *credentialKeys) PrivateKeyFor(_ []record.Item, _ int) (string, error) {
	return p.cred.Key, nil
}

// selectorKeys 记录后端：每条记录从自己的字段取私钥
type selectorKeys struct {
	sel resolve.Selector
}

// SelectorKeys 创建按Selector取私钥的KeyProvider
func SelectorKeys(sel resolve.Selector) KeyProvider {
	return &selectorKeys{sel: sel}
}

func (p *selectorKeys) PrivateKeyFor(items []record.Item, idx int) (string, error) {
	return resolve.Resolve(items, idx, p.sel)
}
