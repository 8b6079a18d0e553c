package wallet

import (
	"crypto/ecdsa"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
)

// 钱包生成参数
const (
	// MinWalletCount 单次生成钱包数量下限
	MinWalletCount = 1

	// MaxWalletCount 单次生成钱包数量上限
	MaxWalletCount = 100

	// entropyBits 助记词熵位数（128 bits = 12词）
	entropyBits = 128
)

// ErrInvalidCount 钱包数量超出允许范围
var ErrInvalidCount = fmt.Errorf("wallet count must be between %d and %d", MinWalletCount, MaxWalletCount)

// Generated 新生成的钱包
type Generated struct {
	Address    string // EIP-55 校验和地址
	PrivateKey string // 0x 前缀十六进制私钥
	Mnemonic   string // BIP39 助记词（12词）
}

// Generate 生成count个相互独立的随机钱包
//
// 每个钱包的派生流程：
//  1. 生成 128 bits 随机熵 → BIP39 助记词
//  2. 助记词 → 种子 → BIP32 主密钥
//  3. 按以太坊标准路径 m/44'/60'/0'/0/0 派生私钥
//  4. 私钥 → 地址
//
// 所有钱包彼此独立，地址碰撞概率可忽略。
func Generate(count int) ([]*Generated, error) {
	if count < MinWalletCount || count > MaxWalletCount {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}

	wallets := make([]*Generated, 0, count)
	for i := 0; i < count; i++ {
		w, err := generateOne()
		if err != nil {
			return nil, fmt.Errorf("generate wallet %d: %w", i+1, err)
		}
		wallets = append(wallets, w)
	}

	return wallets, nil
}

// generateOne 生成单个助记词钱包
func generateOne() (*Generated, error) {
	entropy := make([]byte, entropyBits/8)
	if _, err := rand.Read(entropy); err != nil {
		return nil, fmt.Errorf("generate entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, fmt.Errorf("generate mnemonic: %w", err)
	}

	priv, err := deriveEthereumKey(mnemonic)
	if err != nil {
		return nil, err
	}

	address := crypto.PubkeyToAddress(priv.PublicKey)

	return &Generated{
		Address:    address.Hex(),
		PrivateKey: hexutil.Encode(crypto.FromECDSA(priv)),
		Mnemonic:   mnemonic,
	}, nil
}

// deriveEthereumKey 从助记词派生以太坊默认路径的私钥
//
// 路径 m/44'/60'/0'/0/0（BIP44，coin type 60 = ETH）。
func deriveEthereumKey(mnemonic string) (*ecdsa.PrivateKey, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.New("invalid mnemonic")
	}

	seed := bip39.NewSeed(mnemonic, "")

	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("derive master key: %w", err)
	}

	path := []uint32{
		hdkeychain.HardenedKeyStart + 44,
		hdkeychain.HardenedKeyStart + 60,
		hdkeychain.HardenedKeyStart + 0,
		0,
		0,
	}

	key := master
	for _, index := range path {
		key, err = key.Derive(index)
		if err != nil {
			return nil, fmt.Errorf("derive path index %d: %w", index, err)
		}
	}

	btcPriv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("export private key: %w", err)
	}

	return btcPriv.ToECDSA(), nil
}
