package ast

import "testing"

func TestIndex32(t *testing.T) {
	var zero Index32
	if zero.IsValid() {
		t.Fatalf("zero value of Index32 must be invalid")
	}
	for _, n := range []uint32{0, 1, 7, 1 << 20} {
		idx := MakeIndex32(n)
		if !idx.IsValid() {
			t.Fatalf("MakeIndex32(%d) should be valid", n)
		}
		if idx.GetIndex() != n {
			t.Fatalf("GetIndex() = %d, want %d", idx.GetIndex(), n)
		}
	}
}
