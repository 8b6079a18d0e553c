package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethbatch/v1/internal/core/engine"
	"github.com/ethbatch/v1/internal/core/resolve"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadJobYAML(t *testing.T) {
	path := writeTemp(t, "job.yaml", `
endpoint: https://rpc.example.org
chain_id: 137
operation: transfer
policy: skipItem
key:
  credential:
    privateKey: "0xabc123"
to:
  source: static
  value: "0x1111111111111111111111111111111111111111"
amount:
  source: field
  field: amount
receipt_timeout: 5m
receipt_poll_interval: 2s
items:
  - amount: "0.5"
  - amount: "1.25"
`)

	job, err := LoadJob(path)
	require.NoError(t, err)

	assert.Equal(t, "https://rpc.example.org", job.Endpoint)
	assert.Equal(t, int64(137), job.ChainID)
	assert.Equal(t, engine.KindTransfer, job.Operation)
	assert.Equal(t, engine.PolicySkipItem, job.Policy)

	params := job.EngineParams()
	assert.Equal(t, resolve.SourceStatic, params.To.Source)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", params.To.Value)
	assert.Equal(t, resolve.SourceField, params.Amount.Source)
	assert.Equal(t, "amount", params.Amount.Field)

	opts := job.ChainOptions()
	assert.Equal(t, 5*time.Minute, opts.ReceiptTimeout)
	assert.Equal(t, 2*time.Second, opts.ReceiptPollInterval)

	items, err := job.LoadItems()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "0.5", items[0]["amount"])
}

func TestLoadJobJSON(t *testing.T) {
	path := writeTemp(t, "job.json", `{
  "operation": "getBalance",
  "chain_id": 1,
  "address": {"source": "field", "field": "wallet"},
  "receipt_timeout": "30s"
}`)

	job, err := LoadJob(path)
	require.NoError(t, err)
	assert.Equal(t, engine.KindGetBalance, job.Operation)
	assert.Equal(t, "wallet", job.Address.Field)
	assert.Equal(t, 30*time.Second, job.ReceiptTimeout.Std())
}

func TestLoadJobMissingFile(t *testing.T) {
	_, err := LoadJob(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestKeyProviderCredential(t *testing.T) {
	path := writeTemp(t, "job.yaml", `
operation: signMessage
key:
  credential:
    privateKey: "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
message:
  source: static
  value: hello
`)

	job, err := LoadJob(path)
	require.NoError(t, err)

	keys, err := job.KeyProvider()
	require.NoError(t, err)
	require.NotNil(t, keys)

	got, err := keys.PrivateKeyFor(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80", got)
}

func TestKeyProviderSelector(t *testing.T) {
	job := &JobOptions{
		Operation: engine.KindSignMessage,
		Key: &KeySource{
			Selector: &resolve.Selector{Source: resolve.SourceField, Field: "pk"},
		},
	}

	keys, err := job.KeyProvider()
	require.NoError(t, err)
	require.NotNil(t, keys)
}

func TestKeyProviderRequired(t *testing.T) {
	// 签名类操作缺少私钥来源时报错
	job := &JobOptions{Operation: engine.KindTransfer}
	_, err := job.KeyProvider()
	require.Error(t, err)

	// 只读操作可以没有私钥来源
	job = &JobOptions{Operation: engine.KindGetBalance}
	keys, err := job.KeyProvider()
	require.NoError(t, err)
	assert.Nil(t, keys)
}

func TestLoadItemsFile(t *testing.T) {
	itemsPath := writeTemp(t, "items.json", `[{"to": "0xaa", "amount": "1"}, {"to": "0xbb", "amount": "2"}]`)

	job := &JobOptions{ItemsFile: itemsPath}
	items, err := job.LoadItems()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "0xbb", items[1]["to"])
}

func TestLoadItemsEmpty(t *testing.T) {
	job := &JobOptions{}
	items, err := job.LoadItems()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDurationForms(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want time.Duration
	}{
		{"string form", `receipt_timeout: 1m30s`, 90 * time.Second},
		{"integer nanoseconds", `receipt_timeout: 1000000000`, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "job.yaml", "operation: getGas\n"+tt.yaml)
			job, err := LoadJob(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, job.ReceiptTimeout.Std())
		})
	}
}
