package wallet

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tyler-smith/go-bip39"
)

func TestGenerate(t *testing.T) {
	wallets, err := Generate(5)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(wallets) != 5 {
		t.Fatalf("Generate() returned %d wallets, want 5", len(wallets))
	}

	seen := make(map[string]bool)
	for i, w := range wallets {
		if !common.IsHexAddress(w.Address) {
			t.Errorf("wallet %d: invalid address %q", i, w.Address)
		}
		if !strings.HasPrefix(w.PrivateKey, "0x") {
			t.Errorf("wallet %d: private key missing 0x prefix", i)
		}
		if len(strings.Split(w.Mnemonic, " ")) != 12 {
			t.Errorf("wallet %d: mnemonic is not 12 words: %q", i, w.Mnemonic)
		}
		if !bip39.IsMnemonicValid(w.Mnemonic) {
			t.Errorf("wallet %d: invalid mnemonic", i)
		}
		// 地址不重复
		if seen[w.Address] {
			t.Errorf("wallet %d: duplicate address %s", i, w.Address)
		}
		seen[w.Address] = true

		// 私钥与地址一致：重新派生身份应得到同一地址
		id, err := FromPrivateKey(w.PrivateKey)
		if err != nil {
			t.Fatalf("wallet %d: FromPrivateKey() error = %v", i, err)
		}
		if id.Address().Hex() != w.Address {
			t.Errorf("wallet %d: key derives %s, output says %s", i, id.Address().Hex(), w.Address)
		}
	}
}

func TestGenerateBounds(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		wantErr bool
	}{
		{"minimum", 1, false},
		{"maximum", 100, false},
		{"zero", 0, true},
		{"negative", -3, true},
		{"over limit", 101, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wallets, err := Generate(tt.count)
			if (err != nil) != tt.wantErr {
				t.Errorf("Generate(%d) error = %v, wantErr %v", tt.count, err, tt.wantErr)
				return
			}
			if !tt.wantErr && len(wallets) != tt.count {
				t.Errorf("Generate(%d) returned %d wallets", tt.count, len(wallets))
			}
		})
	}
}

// TestDeriveEthereumKey 同一助记词应派生出确定的私钥
func TestDeriveEthereumKey(t *testing.T) {
	// BIP39 标准测试助记词
	mnemonic := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	key1, err := deriveEthereumKey(mnemonic)
	if err != nil {
		t.Fatalf("deriveEthereumKey() error = %v", err)
	}
	key2, err := deriveEthereumKey(mnemonic)
	if err != nil {
		t.Fatalf("deriveEthereumKey() error = %v", err)
	}
	if key1.D.Cmp(key2.D) != 0 {
		t.Error("deriveEthereumKey() is not deterministic")
	}

	if _, err := deriveEthereumKey("not a valid mnemonic at all"); err == nil {
		t.Error("deriveEthereumKey() accepted invalid mnemonic")
	}
}
