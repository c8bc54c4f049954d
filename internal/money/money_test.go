package money

import (
	"encoding/json"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{150050, "1500.50"},
		{-2500, "-25.00"},
	}

	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSigned(t *testing.T) {
	if got := FormatSigned(1000); got != "+10.00" {
		t.Errorf("got %q", got)
	}
	if got := FormatSigned(-1000); got != "-10.00" {
		t.Errorf("got %q", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr bool
	}{
		{"integer", "150", 15000, false},
		{"one decimal", "150.5", 15050, false},
		{"two decimals", "150.50", 15050, false},
		{"comma decimal", "12,25", 1225, false},
		{"spaces", "1 500", 150000, false},
		{"negative", "-3", -300, false},
		{"three decimals", "1.005", 0, true},
		{"garbage", "abc", 0, true},
		{"empty", "  ", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParsePositive(t *testing.T) {
	if _, err := ParsePositive("0"); err == nil {
		t.Error("expected error for zero")
	}
	if _, err := ParsePositive("-1"); err == nil {
		t.Error("expected error for negative")
	}
	if v, err := ParsePositive("0.01"); err != nil || v != 1 {
		t.Errorf("got %d, %v", v, err)
	}
}

func TestAmountJSON(t *testing.T) {
	b, err := json.Marshal(Amount(150050))
	if err != nil || string(b) != "1500.5" {
		t.Errorf("marshal = %s, %v", b, err)
	}

	tests := []struct {
		in   string
		want Amount
	}{
		{`1500.50`, 150050},
		{`"12.3"`, 1230},
		{`null`, 0},
		{`7`, 700},
	}
	for _, tt := range tests {
		var a Amount
		if err := json.Unmarshal([]byte(tt.in), &a); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		if a != tt.want {
			t.Errorf("unmarshal %s = %d, want %d", tt.in, a, tt.want)
		}
	}

	var a Amount
	if err := json.Unmarshal([]byte(`"abc"`), &a); err == nil {
		t.Error("garbage accepted")
	}
}
