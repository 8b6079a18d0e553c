// Package wallet derives signing identities from raw private keys and
// generates new mnemonic-backed wallets.
package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// 错误定义
var (
	// ErrInvalidPrivateKey 私钥无法解析为签名身份
	ErrInvalidPrivateKey = errors.New("invalid private key")
)

// Identity 签名身份
//
// 从私钥派生，仅在处理单个条目期间持有密钥材料；
// 不缓存、不持久化、不写入日志。
type Identity struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// FromPrivateKey 从十六进制私钥派生签名身份
//
// 接受带或不带 0x 前缀的形式。
func FromPrivateKey(hexKey string) (*Identity, error) {
	hexKey = strings.TrimSpace(hexKey)
	hexKey = strings.TrimPrefix(hexKey, "0x")
	hexKey = strings.TrimPrefix(hexKey, "0X")
	if hexKey == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidPrivateKey)
	}

	priv, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}

	return &Identity{
		privateKey: priv,
		address:    crypto.PubkeyToAddress(priv.PublicKey),
	}, nil
}

// Address 返回EIP-55校验和格式的地址
func (id *Identity) Address() common.Address {
	return id.address
}

// SignPersonal 对消息做EIP-191（personal_sign）签名
//
// 签名流程：
//  1. 加前缀 "\x19Ethereum Signed Message:\n<len>"
//  2. keccak256 哈希
//  3. secp256k1 签名，V 规范化为 27/28
//
// 返回 0x 前缀的 65 字节签名。
func (id *Identity) SignPersonal(message []byte) (string, error) {
	digest := PersonalDigest(message)

	sig, err := crypto.Sign(digest.Bytes(), id.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign message: %w", err)
	}

	// go-ethereum 返回 V ∈ {0,1}，外部生态约定 27/28
	sig[crypto.RecoveryIDOffset] += 27

	return hexutil.Encode(sig), nil
}

// SignTx 按链ID签名交易
func (id *Identity) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), id.privateKey)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return signed, nil
}

// PersonalDigest 计算EIP-191消息摘要
func PersonalDigest(message []byte) common.Hash {
	prefix := fmt.Sprintf("\x19Ethereum Signed Message:\n%d", len(message))
	return crypto.Keccak256Hash([]byte(prefix), message)
}

// RecoverPersonal 从EIP-191签名恢复签名地址
//
// 与 SignPersonal 配对：同一消息与签名应恢复出签名者地址。
func RecoverPersonal(message []byte, sigHex string) (common.Address, error) {
	sig, err := hexutil.Decode(sigHex)
	if err != nil {
		return common.Address{}, fmt.Errorf("decode signature: %w", err)
	}
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes, got %d", crypto.SignatureLength, len(sig))
	}

	// 还原 V 到 {0,1}
	cp := make([]byte, len(sig))
	copy(cp, sig)
	if cp[crypto.RecoveryIDOffset] >= 27 {
		cp[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(PersonalDigest(message).Bytes(), cp)
	if err != nil {
		return common.Address{}, fmt.Errorf("recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pub), nil
}
