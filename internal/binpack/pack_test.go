package binpack

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestPackUnpackIntegerRoundTrip(t *testing.T) {
	tests := []struct {
		format string
		values []float64
	}{
		{"b", []float64{-128, -1, 0, 1, 127}},
		{"B", []float64{0, 1, 128, 255}},
		{"h", []float64{-32768, -1, 0, 32767}},
		{"H", []float64{0, 1, 65535}},
		{"i1", []float64{-128, 127}},
		{"i2", []float64{-32768, 32767}},
		{"i3", []float64{-8388608, 8388607}},
		{"i4", []float64{-2147483648, 2147483647}},
		{"i", []float64{-2147483648, 2147483647}},
		{"I1", []float64{0, 255}},
		{"I2", []float64{0, 65535}},
		{"I3", []float64{0, 16777215}},
		{"I4", []float64{0, 4294967295}},
		{"I", []float64{0, 4294967295}},
	}

	for _, tt := range tests {
		for _, v := range tt.values {
			packed, err := Pack(tt.format, v)
			if err != nil {
				t.Errorf("Pack(%q, %v) error: %v", tt.format, v, err)
				continue
			}
			out, _, err := Unpack(tt.format, packed)
			if err != nil {
				t.Errorf("Unpack(%q) error: %v", tt.format, err)
				continue
			}
			if len(out) != 1 || out[0].(float64) != v {
				t.Errorf("Unpack(Pack(%q, %v)) = %v, want %v", tt.format, v, out, v)
			}
		}
	}
}

func TestPackIntegerOverflow(t *testing.T) {
	tests := []struct {
		format string
		value  float64
	}{
		{"b", 128},
		{"b", -129},
		{"B", -1},
		{"B", 256},
		{"h", 32768},
		{"H", 65536},
		{"i1", 200},
		{"i2", -40000},
		{"i3", 8388608},
		{"i4", 2147483648},
		{"I4", -1},
		{"I2", 65536},
	}

	for _, tt := range tests {
		_, err := Pack(tt.format, tt.value)
		if !errors.Is(err, ErrIntegerOverflow) {
			t.Errorf("Pack(%q, %v) error = %v, want ErrIntegerOverflow", tt.format, tt.value, err)
		}
	}
}

func TestPackNonIntegral(t *testing.T) {
	for _, v := range []float64{0.5, -3.25, math.NaN(), math.Inf(1)} {
		_, err := Pack("i4", v)
		if !errors.Is(err, ErrNoIntegerRepresentation) {
			t.Errorf("Pack(i4, %v) error = %v, want ErrNoIntegerRepresentation", v, err)
		}
	}
}

func TestFloatRoundTrip(t *testing.T) {
	values := []float64{0, 1.5, -2.25, math.Inf(1), math.Inf(-1), 5e-324, math.MaxFloat64}

	for _, v := range values {
		packed, err := Pack("d", v)
		if err != nil {
			t.Fatalf("Pack(d, %v) error: %v", v, err)
		}
		out, _, err := Unpack("d", packed)
		if err != nil {
			t.Fatalf("Unpack(d) error: %v", err)
		}
		if out[0].(float64) != v {
			t.Errorf("double round trip of %v = %v", v, out[0])
		}
	}

	// NaN survives as NaN even though it never compares equal.
	packed, err := Pack("d", math.NaN())
	if err != nil {
		t.Fatalf("Pack(d, NaN) error: %v", err)
	}
	out, _, err := Unpack("d", packed)
	if err != nil {
		t.Fatalf("Unpack(d) error: %v", err)
	}
	if !math.IsNaN(out[0].(float64)) {
		t.Errorf("double round trip of NaN = %v, want NaN", out[0])
	}
}

func TestFloat32Precision(t *testing.T) {
	// A float32 directive keeps exactly float32 precision.
	v := 3.14159265358979
	packed, err := Pack("f", v)
	if err != nil {
		t.Fatalf("Pack(f) error: %v", err)
	}
	out, _, err := Unpack("f", packed)
	if err != nil {
		t.Fatalf("Unpack(f) error: %v", err)
	}
	want := float64(float32(v))
	if out[0].(float64) != want {
		t.Errorf("float32 round trip = %v, want %v", out[0], want)
	}

	for _, special := range []float64{math.Inf(1), math.Inf(-1), 0} {
		packed, _ := Pack("f", special)
		out, _, err := Unpack("f", packed)
		if err != nil {
			t.Fatalf("Unpack(f) error: %v", err)
		}
		if out[0].(float64) != special {
			t.Errorf("float32 round trip of %v = %v", special, out[0])
		}
	}

	packed, _ = Pack("f", math.NaN())
	out, _, err = Unpack("f", packed)
	if err != nil {
		t.Fatalf("Unpack(f) error: %v", err)
	}
	if !math.IsNaN(out[0].(float64)) {
		t.Errorf("float32 round trip of NaN = %v, want NaN", out[0])
	}
}

func TestAliasDirectives(t *testing.T) {
	// n packs identically to d, = identically to <.
	d, err := Pack("d", 42.5)
	if err != nil {
		t.Fatalf("Pack(d) error: %v", err)
	}
	n, err := Pack("n", 42.5)
	if err != nil {
		t.Fatalf("Pack(n) error: %v", err)
	}
	if d != n {
		t.Errorf("Pack(n) = %q, want %q", n, d)
	}

	lt, _ := Pack("<i4", 0x01020304)
	eq, _ := Pack("=i4", 0x01020304)
	if lt != eq {
		t.Errorf("Pack(=i4) = %q, want %q", eq, lt)
	}
}

func TestEndianness(t *testing.T) {
	be, err := Pack(">i4", 0x01020304)
	if err != nil {
		t.Fatalf("Pack(>i4) error: %v", err)
	}
	if be != "\x01\x02\x03\x04" {
		t.Errorf("Pack(>i4) = %q", be)
	}

	le, err := Pack("<i4", 0x01020304)
	if err != nil {
		t.Fatalf("Pack(<i4) error: %v", err)
	}
	if le != "\x04\x03\x02\x01" {
		t.Errorf("Pack(<i4) = %q", le)
	}

	// Same-order round trip.
	out, _, err := Unpack(">i4", be)
	if err != nil || out[0].(float64) != float64(0x01020304) {
		t.Errorf("Unpack(>i4) = %v, %v", out, err)
	}

	// Cross-order mismatch on a non-palindromic value.
	out, _, err = Unpack(">i4", le)
	if err != nil {
		t.Fatalf("Unpack error: %v", err)
	}
	if out[0].(float64) == float64(0x01020304) {
		t.Error("little-endian bytes unpacked as big-endian should not round trip")
	}

	// Endianness can switch mid-format.
	mixed, err := Pack("<H>H", 0x0102, 0x0102)
	if err != nil {
		t.Fatalf("Pack(<H>H) error: %v", err)
	}
	if mixed != "\x02\x01\x01\x02" {
		t.Errorf("Pack(<H>H) = %q", mixed)
	}
}

func TestStringDirectives(t *testing.T) {
	// Fixed width, padded with zeros.
	packed, err := Pack("c5", "abc")
	if err != nil {
		t.Fatalf("Pack(c5) error: %v", err)
	}
	if packed != "abc\x00\x00" {
		t.Errorf("Pack(c5, abc) = %q", packed)
	}
	out, _, err := Unpack("c5", packed)
	if err != nil || out[0].(string) != "abc\x00\x00" {
		t.Errorf("Unpack(c5) = %v, %v", out, err)
	}

	if _, err := Pack("c2", "toolong"); err == nil {
		t.Error("Pack(c2, toolong) should fail")
	}
	if _, err := Pack("c", "x"); err == nil {
		t.Error("Pack(c) without size should fail")
	}

	// Zero-terminated.
	packed, err = Pack("z", "hello")
	if err != nil {
		t.Fatalf("Pack(z) error: %v", err)
	}
	if packed != "hello\x00" {
		t.Errorf("Pack(z, hello) = %q", packed)
	}
	out, next, err := Unpack("z", packed)
	if err != nil || out[0].(string) != "hello" || next != 7 {
		t.Errorf("Unpack(z) = %v, next %d, %v", out, next, err)
	}
	if _, err := Pack("z", "has\x00zero"); err == nil {
		t.Error("Pack(z) with embedded zero should fail")
	}

	// Length-prefixed with every prefix width.
	for _, format := range []string{"s1", "s2", "s3", "s4", "s"} {
		packed, err := Pack(format, "payload")
		if err != nil {
			t.Fatalf("Pack(%q) error: %v", format, err)
		}
		out, _, err := Unpack(format, packed)
		if err != nil || out[0].(string) != "payload" {
			t.Errorf("Unpack(%q) = %v, %v", format, out, err)
		}
	}

	if _, err := Pack("s1", strings.Repeat("a", 256)); err == nil {
		t.Error("Pack(s1) with 256-byte string should fail")
	}
}

func TestMixedFormatCursor(t *testing.T) {
	packed, err := Pack("<Bxi2z", 7, -300, "tail")
	if err != nil {
		t.Fatalf("Pack error: %v", err)
	}
	out, next, err := Unpack("<Bxi2z", packed)
	if err != nil {
		t.Fatalf("Unpack error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("Unpack returned %d values, want 3", len(out))
	}
	if out[0].(float64) != 7 || out[1].(float64) != -300 || out[2].(string) != "tail" {
		t.Errorf("Unpack = %v", out)
	}
	if next != len(packed)+1 {
		t.Errorf("next position = %d, want %d", next, len(packed)+1)
	}
}

func TestUnpackFromPosition(t *testing.T) {
	packed, _ := Pack("BB", 1, 2)

	out, _, err := UnpackFrom("B", packed, 2)
	if err != nil || out[0].(float64) != 2 {
		t.Errorf("UnpackFrom pos 2 = %v, %v", out, err)
	}

	// Negative positions count from the end.
	out, _, err = UnpackFrom("B", packed, -1)
	if err != nil || out[0].(float64) != 2 {
		t.Errorf("UnpackFrom pos -1 = %v, %v", out, err)
	}

	if _, _, err := UnpackFrom("B", packed, 5); !errors.Is(err, ErrInitialPosition) {
		t.Errorf("UnpackFrom pos 5 error = %v, want ErrInitialPosition", err)
	}
}

func TestUnpackDataTooShort(t *testing.T) {
	tests := []struct {
		format string
		data   string
	}{
		{"i4", "\x01\x02"},
		{"h", "\x01"},
		{"d", "\x01\x02\x03"},
		{"c10", "short"},
		{"z", "no terminator"},
		{"s4", "\x0A\x00\x00\x00abc"},
		{"x", ""},
	}

	for _, tt := range tests {
		if _, _, err := Unpack(tt.format, tt.data); !errors.Is(err, ErrDataTooShort) {
			t.Errorf("Unpack(%q, %q) error = %v, want ErrDataTooShort", tt.format, tt.data, err)
		}
	}
}

func TestUnsupportedDirectives(t *testing.T) {
	for _, format := range []string{"!4i4", "Xi", "l", "L", "j", "J", "T"} {
		if _, err := Pack(format, 1); err == nil {
			t.Errorf("Pack(%q) should fail", format)
		}
		if _, _, err := Unpack(format, strings.Repeat("\x00", 16)); err == nil {
			t.Errorf("Unpack(%q) should fail", format)
		}
		if _, err := Packsize(format); err == nil {
			t.Errorf("Packsize(%q) should fail", format)
		}
	}
}

func TestInvalidOption(t *testing.T) {
	_, err := Pack("q", 1)
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("Pack(q) error = %v, want FormatError", err)
	}
	if ferr.Option != 'q' {
		t.Errorf("FormatError option = %c, want q", ferr.Option)
	}
}

func TestIntegralSizeOutOfLimits(t *testing.T) {
	for _, format := range []string{"i5", "i8", "I16", "s8"} {
		if _, err := Pack(format, 0); err == nil {
			t.Errorf("Pack(%q) should fail: width above 4", format)
		}
	}
}

func TestPacksize(t *testing.T) {
	tests := []struct {
		format string
		want   int
	}{
		{"", 0},
		{"b", 1},
		{"BHi3", 6},
		{"<i4>I2", 6},
		{"fdn", 20},
		{"c10x", 11},
		{"  b  B ", 2},
	}

	for _, tt := range tests {
		got, err := Packsize(tt.format)
		if err != nil {
			t.Errorf("Packsize(%q) error: %v", tt.format, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Packsize(%q) = %d, want %d", tt.format, got, tt.want)
		}
	}
}

func TestPacksizeMatchesPack(t *testing.T) {
	format := "<Bi2I3fd>Hc4x"
	packed, err := Pack(format, 1, -2, 3, 4.5, 6.7, 8, "abcd")
	if err != nil {
		t.Fatalf("Pack error: %v", err)
	}
	size, err := Packsize(format)
	if err != nil {
		t.Fatalf("Packsize error: %v", err)
	}
	if size != len(packed) {
		t.Errorf("Packsize = %d, len(Pack) = %d", size, len(packed))
	}
}

func TestPacksizeVariable(t *testing.T) {
	for _, format := range []string{"z", "s", "s2", "i4z"} {
		if _, err := Packsize(format); !errors.Is(err, ErrVariableSize) {
			t.Errorf("Packsize(%q) error = %v, want ErrVariableSize", format, err)
		}
	}
}

func TestPackMissingValue(t *testing.T) {
	if _, err := Pack("i4i4", 1); err == nil {
		t.Error("Pack with missing value should fail")
	}
}
