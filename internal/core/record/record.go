// Package record defines the batch item and output structures shared by the
// execution engine.
package record

// Item 批次中的一条输入记录
//
// 字段名 → 标量或嵌套值的映射。记录由调用方持有，引擎只读，
// 执行期间不可变。
type Item map[string]any

// Output 一条输出记录
//
// 每条输出都携带来源条目索引（PairedItem），即使输出数量与输入
// 数量不一致（CreateWallet、GetGas），索引映射也必须保留。
type Output struct {
	Data       map[string]any `json:"data"`
	PairedItem int            `json:"pairedItem"`
}

// NewOutput 创建一条绑定来源索引的输出记录
func NewOutput(pairedItem int, data map[string]any) Output {
	return Output{Data: data, PairedItem: pairedItem}
}
