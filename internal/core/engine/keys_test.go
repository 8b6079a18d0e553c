package engine

import (
	"errors"
	"testing"

	"github.com/ethbatch/v1/internal/core/record"
	"github.com/ethbatch/v1/internal/core/resolve"
	"github.com/ethbatch/v1/internal/credentials"
)

func TestCredentialKeys(t *testing.T) {
	keys, err := CredentialKeys(&credentials.PrivateKey{Key: testKeyHex})
	if err != nil {
		t.Fatalf("CredentialKeys() error = %v", err)
	}

	// 凭证后端：每条记录都返回同一个密钥
	items := []record.Item{{"pk": "ignored"}, {}}
	for idx := range items {
		got, err := keys.PrivateKeyFor(items, idx)
		if err != nil {
			t.Fatalf("PrivateKeyFor(%d) error = %v", idx, err)
		}
		if got != testKeyHex {
			t.Errorf("PrivateKeyFor(%d) = %q, want %q", idx, got, testKeyHex)
		}
	}
}

func TestCredentialKeysEmpty(t *testing.T) {
	// 空凭证在配置期快速失败，而不是拖到第一条记录
	_, err := CredentialKeys(&credentials.PrivateKey{})
	if !errors.Is(err, credentials.ErrEmptyPrivateKey) {
		t.Errorf("CredentialKeys(empty) error = %v, want ErrEmptyPrivateKey", err)
	}
}

func TestSelectorKeys(t *testing.T) {
	keys := SelectorKeys(resolve.FromField("privateKey"))

	items := []record.Item{
		{"privateKey": "aa11"},
		{"privateKey": "bb22"},
	}

	for idx, want := range []string{"aa11", "bb22"} {
		got, err := keys.PrivateKeyFor(items, idx)
		if err != nil {
			t.Fatalf("PrivateKeyFor(%d) error = %v", idx, err)
		}
		if got != want {
			t.Errorf("PrivateKeyFor(%d) = %q, want %q", idx, got, want)
		}
	}
}

func TestSelectorKeysMissingField(t *testing.T) {
	keys := SelectorKeys(resolve.FromField("privateKey"))

	_, err := keys.PrivateKeyFor([]record.Item{{"other": 1}}, 0)

	var missing *resolve.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("PrivateKeyFor() error = %v, want MissingFieldError", err)
	}
	if missing.Field != "privateKey" {
		t.Errorf("Field = %q, want %q", missing.Field, "privateKey")
	}
}
