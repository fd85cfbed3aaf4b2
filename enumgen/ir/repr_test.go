package ir

import (
	"go/constant"
	"testing"
)

func TestParseRepr(t *testing.T) {
	tests := []struct {
		in      string
		want    Repr
		wantErr bool
	}{
		{in: "uint8", want: Uint(8)},
		{in: "uint16", want: Uint(16)},
		{in: "uint32", want: Uint(32)},
		{in: "uint64", want: Uint(64)},
		{in: "int8", want: Int(8)},
		{in: "int16", want: Int(16)},
		{in: "int32", want: Int(32)},
		{in: "int64", want: Int(64)},
		{in: "byte", want: Uint(8)},
		{in: "rune", want: Int(32)},
		{in: "int", wantErr: true},
		{in: "uint", wantErr: true},
		{in: "uintptr", wantErr: true},
		{in: "uint12", wantErr: true},
		{in: "int128", wantErr: true},
		{in: "u8", wantErr: true},
		{in: "float32", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRepr(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRepr(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseRepr(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRepr_String(t *testing.T) {
	if got := Uint(16).String(); got != "uint16" {
		t.Errorf("Uint(16).String() = %q", got)
	}
	if got := Int(64).String(); got != "int64" {
		t.Errorf("Int(64).String() = %q", got)
	}
	if got := (Repr{Bits: 7}).String(); got != "Repr(7)" {
		t.Errorf("invalid repr String() = %q", got)
	}
}

func TestRepr_Bounds(t *testing.T) {
	tests := []struct {
		repr     Repr
		min, max string
	}{
		{Uint(8), "0", "255"},
		{Uint(16), "0", "65535"},
		{Uint(32), "0", "4294967295"},
		{Uint(64), "0", "18446744073709551615"},
		{Int(8), "-128", "127"},
		{Int(16), "-32768", "32767"},
		{Int(32), "-2147483648", "2147483647"},
		{Int(64), "-9223372036854775808", "9223372036854775807"},
	}
	for _, tt := range tests {
		t.Run(tt.repr.String(), func(t *testing.T) {
			if got := tt.repr.Min().ExactString(); got != tt.min {
				t.Errorf("Min() = %s, want %s", got, tt.min)
			}
			if got := tt.repr.Max().ExactString(); got != tt.max {
				t.Errorf("Max() = %s, want %s", got, tt.max)
			}
		})
	}
}

func TestRepr_Fits(t *testing.T) {
	tests := []struct {
		repr Repr
		lit  string
		want bool
	}{
		{Uint(8), "0", true},
		{Uint(8), "255", true},
		{Uint(8), "0xff", true},
		{Uint(8), "256", false},
		{Uint(8), "-1", false},
		{Int(8), "-128", true},
		{Int(8), "-129", false},
		{Int(8), "127", true},
		{Int(8), "0x80", false},
		{Uint(16), "99", true},
		{Uint(16), "0x1_0000", false},
		{Uint(64), "0xFFFF_FFFF_FFFF_FFFF", true},
		{Uint(64), "0x1_0000_0000_0000_0000", false},
		{Int(64), "-0x8000_0000_0000_0000", true},
		{Int(64), "0x8000_0000_0000_0000", false},
	}
	for _, tt := range tests {
		t.Run(tt.repr.String()+"/"+tt.lit, func(t *testing.T) {
			v, err := ParseLiteral(tt.lit)
			if err != nil {
				t.Fatalf("ParseLiteral(%q): %v", tt.lit, err)
			}
			if got := tt.repr.Fits(v); got != tt.want {
				t.Errorf("Fits(%s) = %v, want %v", tt.lit, got, tt.want)
			}
		})
	}

	if Uint(8).Fits(constant.MakeFloat64(1.5)) {
		t.Error("Fits accepted a float constant")
	}
}
