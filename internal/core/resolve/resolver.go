// Package resolve resolves per-item parameter values from either static batch
// configuration or a named field of the current item's record.
package resolve

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ethbatch/v1/internal/core/record"
)

// Source 取值来源
type Source string

const (
	// SourceStatic 整个批次共享的静态配置值
	SourceStatic Source = "static"

	// SourceField 当前记录中的命名字段
	SourceField Source = "field"
)

// Selector 单个参数的取值配置
//
// 每个可变参数（收款地址、转账金额、消息文本、私钥等）都由一个
// Selector 描述：要么取静态值，要么取记录字段。
type Selector struct {
	Source Source `yaml:"source" json:"source"`
	Value  string `yaml:"value,omitempty" json:"value,omitempty"` // Source=static 时使用
	Field  string `yaml:"field,omitempty" json:"field,omitempty"` // Source=field 时使用
}

// Static 构造静态取值的Selector
func Static(value string) Selector {
	return Selector{Source: SourceStatic, Value: value}
}

// FromField 构造按字段取值的Selector
func FromField(field string) Selector {
	return Selector{Source: SourceField, Field: field}
}

// MissingFieldError 记录缺少必需字段
//
// ItemNumber 为 1-based 条目编号，便于调用方定位出错的记录。
type MissingFieldError struct {
	ItemNumber int
	Field      string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("item %d: required field %q is missing or null", e.ItemNumber, e.Field)
}

// Resolve 解析第idx条记录的一个参数值
//
// Source=static 时原样返回静态值（批次内固定）。
// Source=field 时在 items[idx] 中查找字段；字段缺失或为 null 时返回
// *MissingFieldError，中止该条目的处理。
//
// 字符串化规则：非字符串标量转为标准文本表示；对象/数组序列化为
// 紧凑 JSON 文本。
func Resolve(items []record.Item, idx int, sel Selector) (string, error) {
	if sel.Source == SourceStatic {
		return sel.Value, nil
	}

	if idx < 0 || idx >= len(items) {
		return "", &MissingFieldError{ItemNumber: idx + 1, Field: sel.Field}
	}

	raw, ok := items[idx][sel.Field]
	if !ok || raw == nil {
		return "", &MissingFieldError{ItemNumber: idx + 1, Field: sel.Field}
	}

	return coerceString(raw)
}

// coerceString 将任意记录值转为文本
func coerceString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float64:
		// JSON 反序列化的数字默认是 float64
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		// 对象/数组 → JSON 文本
		data, err := json.Marshal(t)
		if err != nil {
			return "", fmt.Errorf("cannot convert value to text: %w", err)
		}
		return string(data), nil
	}
}
