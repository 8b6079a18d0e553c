package resolve

import (
	"errors"
	"testing"

	"github.com/ethbatch/v1/internal/core/record"
)

func TestResolveStatic(t *testing.T) {
	// 静态值与记录内容无关，逐条返回同一个值
	items := []record.Item{{"to": "0xaaa"}, {"to": "0xbbb"}}

	for idx := range items {
		got, err := Resolve(items, idx, Static("0x1234"))
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if got != "0x1234" {
			t.Errorf("Resolve() = %q, want %q", got, "0x1234")
		}
	}
}

func TestResolveField(t *testing.T) {
	items := []record.Item{
		{"recipient": "0xaaa"},
		{"recipient": "0xbbb"},
	}

	for idx, want := range []string{"0xaaa", "0xbbb"} {
		got, err := Resolve(items, idx, FromField("recipient"))
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if got != want {
			t.Errorf("item %d: Resolve() = %q, want %q", idx, got, want)
		}
	}
}

func TestResolveMissingField(t *testing.T) {
	tests := []struct {
		name string
		item record.Item
	}{
		{"absent", record.Item{"other": "x"}},
		{"null", record.Item{"recipient": nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve([]record.Item{tt.item}, 0, FromField("recipient"))
			if err == nil {
				t.Fatal("Resolve() expected error for missing field")
			}

			var missing *MissingFieldError
			if !errors.As(err, &missing) {
				t.Fatalf("Resolve() error type = %T, want *MissingFieldError", err)
			}
			// 条目编号是1-based
			if missing.ItemNumber != 1 {
				t.Errorf("ItemNumber = %d, want 1", missing.ItemNumber)
			}
			if missing.Field != "recipient" {
				t.Errorf("Field = %q, want %q", missing.Field, "recipient")
			}
		})
	}
}

func TestResolveCoercion(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "hello", "hello"},
		{"float without fraction", float64(42), "42"},
		{"float with fraction", 1.5, "1.5"},
		{"bool", true, "true"},
		{"int", 7, "7"},
		{"object to JSON", map[string]any{"a": 1}, `{"a":1}`},
		{"array to JSON", []any{"x", "y"}, `["x","y"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := []record.Item{{"v": tt.value}}
			got, err := Resolve(items, 0, FromField("v"))
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveIndexOutOfRange(t *testing.T) {
	_, err := Resolve(nil, 0, FromField("x"))
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("Resolve() on empty batch: error type = %T, want *MissingFieldError", err)
	}
}
