// Package credentials holds the secret material used to derive signing
// identities.
package credentials

import (
	"errors"
	"strings"
)

// PrivateKey 私钥凭证
//
// 仅包含一个机密字段：十六进制私钥（可带 0x 前缀）。
// 凭证内容不得写入日志。
type PrivateKey struct {
	Key string `yaml:"privateKey" json:"privateKey"`
}

// ErrEmptyPrivateKey 凭证中缺少私钥
var ErrEmptyPrivateKey = errors.New("credential private key is missing or blank")

// Validate 快速校验凭证是否可用
func (c *PrivateKey) Validate() error {
	if c == nil || strings.TrimSpace(c.Key) == "" {
		return ErrEmptyPrivateKey
	}
	return nil
}
