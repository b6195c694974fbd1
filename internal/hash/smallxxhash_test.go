package hash

import (
	"math/bits"
	"testing"
)

func TestSmallXXHash_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		h    SmallXXHash
		want uint32
	}{
		{"empty seed 0", Seed(0), 0x02cc5d05},
		{"cell 0,0", Seed(0).Eat(0).Eat(0), 2783098233},
		{"cell 1,0", Seed(0).Eat(1).Eat(0), 1396728086},
		{"negative seed", Seed(-5).Eat(3).Eat(7), 2356691426},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.h.Value(); got != tt.want {
				t.Errorf("Value() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSmallXXHash_Immutable(t *testing.T) {
	base := Seed(9)
	a := base.Eat(1)
	b := base.Eat(1)
	if a != b {
		t.Error("Eat mutated the seeded state")
	}
	if base.Eat(1).Value() == base.Eat(2).Value() {
		t.Error("different inputs produced the same hash")
	}
	if base.EatByte(1).Value() == base.Eat(1).Value() {
		t.Error("byte and int lanes should differ")
	}
}

func TestSmallXXHash_Avalanche(t *testing.T) {
	// Flipping one input bit should flip roughly half of the output bits.
	total := 0
	const samples = 256
	for i := int32(0); i < samples; i++ {
		a := Seed(1).Eat(i).Value()
		b := Seed(1).Eat(i ^ 1).Value()
		total += bits.OnesCount32(a ^ b)
	}
	mean := float64(total) / samples
	if mean < 12 || mean > 20 {
		t.Errorf("mean flipped bits = %.2f, want ~16", mean)
	}
}

func TestCell(t *testing.T) {
	const res = 7
	inv := 1.0 / res
	for i := 0; i < res*res; i++ {
		u, v := Cell(i, res, inv)
		if u != i%res || v != i/res {
			t.Fatalf("Cell(%d) = (%d, %d), want (%d, %d)", i, u, v, i%res, i/res)
		}
	}
}
