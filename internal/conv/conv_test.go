package conv

import (
	"math"
	"testing"
)

func TestIntToInt32(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int32
	}{
		{"zero", 0, 0},
		{"negative", -1, -1},
		{"max", math.MaxInt32, math.MaxInt32},
		{"min", math.MinInt32, math.MinInt32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IntToInt32(tt.in); got != tt.want {
				t.Errorf("IntToInt32(%d) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestIntToInt32Overflow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("IntToInt32 should panic on overflow")
		}
	}()
	IntToInt32(math.MaxInt32 + 1)
}

func TestIntToUint32Negative(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("IntToUint32 should panic on negative input")
		}
	}()
	IntToUint32(-1)
}

func TestIntToUint16(t *testing.T) {
	if got := IntToUint16(0x7fff); got != 0x7fff {
		t.Errorf("IntToUint16(0x7fff) = %#x", got)
	}
	defer func() {
		if recover() == nil {
			t.Error("IntToUint16 should panic above MaxUint16")
		}
	}()
	IntToUint16(math.MaxUint16 + 1)
}
