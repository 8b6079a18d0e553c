package units

import (
	"math/big"
	"testing"
)

func TestParseHuman(t *testing.T) {
	tests := []struct {
		name     string
		str      string
		decimals uint8
		want     string
		wantErr  bool
	}{
		{"1 ETH", "1", 18, "1000000000000000000", false},
		{"1.5 ETH", "1.5", 18, "1500000000000000000", false},
		{"small fraction", "0.000000000000000001", 18, "1", false},
		{"truncates beyond decimals", "1.23456789", 2, "123", false},
		{"never rounds up", "0.999", 2, "99", false},
		{"pads fraction", "1.5", 6, "1500000", false},
		{"leading dot", ".5", 18, "500000000000000000", false},
		{"trailing dot", "5.", 18, "5000000000000000000", false},
		{"zero", "0", 18, "0", false},
		{"zero decimals", "42.9", 0, "42", false},
		{"whitespace", " 1.5 ", 18, "1500000000000000000", false},
		{"empty", "", 18, "", true},
		{"negative", "-1.5", 18, "", true},
		{"non-numeric", "abc", 18, "", true},
		{"two dots", "1.2.3", 18, "", true},
		{"hex-looking", "0x10", 18, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHuman(tt.str, tt.decimals)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseHuman() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got.String() != tt.want {
				t.Errorf("ParseHuman() = %v, want %v", got.String(), tt.want)
			}
		})
	}
}

func TestParseBase(t *testing.T) {
	tests := []struct {
		name    string
		str     string
		want    string
		wantErr bool
	}{
		{"integer wei", "1000000000000000000", "1000000000000000000", false},
		{"zero", "0", "0", false},
		{"rejects decimal point", "1.5", "", true},
		{"rejects negative", "-1", "", true},
		{"rejects empty", "", "", true},
		{"rejects text", "wei", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBase(tt.str)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseBase() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got.String() != tt.want {
				t.Errorf("ParseBase() = %v, want %v", got.String(), tt.want)
			}
		})
	}
}

// TestParseNative 验证双格式分派：含小数点按ETH解析，否则按wei解析
func TestParseNative(t *testing.T) {
	tests := []struct {
		name string
		str  string
		want string
	}{
		{"decimal form is ether", "0.5", "500000000000000000"},
		{"integer form is wei", "500000000000000000", "500000000000000000"},
		{"integer 1 is 1 wei", "1", "1"},
		{"decimal 1.0 is 1 ether", "1.0", "1000000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNative(tt.str)
			if err != nil {
				t.Fatalf("ParseNative() error = %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseNative() = %v, want %v", got.String(), tt.want)
			}
		})
	}
}

func TestHuman(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		decimals uint8
		want     string
	}{
		{"whole ether", "1000000000000000000", 18, "1"},
		{"fraction", "1500000000000000000", 18, "1.5"},
		{"trims zeros", "1230000000000000000", 18, "1.23"},
		{"sub one", "1", 18, "0.000000000000000001"},
		{"zero", "0", 18, "0"},
		{"six decimals", "1500000", 6, "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, _ := new(big.Int).SetString(tt.base, 10)
			if got := HumanBig(value, tt.decimals); got != tt.want {
				t.Errorf("HumanBig() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestRoundTrip 展示路径的往返精度：Human(ParseHuman(s)) 还原数值
func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"1", "1.5", "0.000001", "123456.789"} {
		a, err := ParseHuman(s, 18)
		if err != nil {
			t.Fatalf("ParseHuman(%q) error = %v", s, err)
		}
		back, err := ParseHuman(a.Human(18), 18)
		if err != nil {
			t.Fatalf("re-parse error = %v", err)
		}
		if a.Cmp(back) != 0 {
			t.Errorf("round trip of %q: %s != %s", s, a, back)
		}
	}
}

func TestFromBigInt(t *testing.T) {
	src := big.NewInt(42)
	a, err := FromBigInt(src)
	if err != nil {
		t.Fatalf("FromBigInt() error = %v", err)
	}

	// 修改原值不应影响Amount
	src.SetInt64(99)
	if a.String() != "42" {
		t.Errorf("FromBigInt() did not copy value, got %s", a)
	}

	if _, err := FromBigInt(big.NewInt(-1)); err == nil {
		t.Error("FromBigInt() accepted negative value")
	}
	if _, err := FromBigInt(nil); err == nil {
		t.Error("FromBigInt() accepted nil value")
	}
}
