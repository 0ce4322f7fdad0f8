package hwio

import (
	"math/rand/v2"
	"testing"
)

const testBits = 1280

func TestBitset(t *testing.T) {
	b := NewBitset(testBits)
	if b.Len() != testBits {
		t.Fatalf("Len() = %d, want %d", b.Len(), testBits)
	}
	for i := range testBits {
		if b.Test(uint(i)) {
			t.Fatalf("Bit %d is set", i)
		}
	}

	for i := range testBits {
		b.Set(uint(i))
		if !b.Test(uint(i)) {
			t.Fatalf("Bit %d is not set", i)
		}
		b.Clear(uint(i))
		if b.Test(uint(i)) {
			t.Fatalf("Bit %d is set", i)
		}
	}

	b.SetRange(0, testBits)
	b.Reset()
	for i := range testBits {
		if b.Test(uint(i)) {
			t.Fatalf("Bit %d is set after Reset", i)
		}
	}
}

func TestBitsetRanges(t *testing.T) {
	b := NewBitset(testBits)

	for range 10000 {
		start := rand.UintN(testBits)
		end := rand.UintN(testBits)
		if start > end {
			start, end = end, start
		}
		if start == end {
			if start == 0 {
				end++
			} else {
				start--
			}
		}

		b.Reset()
		b.SetRange(start, end)
		for i := range testBits {
			ui := uint(i)
			if ui >= start && ui < end {
				if !b.Test(ui) {
					t.Fatalf("SetRange(%d, %d) but bit %d is not set", start, end, i)
				}
			} else {
				if b.Test(ui) {
					t.Fatalf("SetRange(%d, %d) but bit %d is set", start, end, i)
				}
			}
		}

		if !b.TestAll(start, end) {
			t.Fatalf("TestAll(%d, %d) = false after SetRange", start, end)
		}
		mid := start + (end-start)/2
		b.Clear(mid)
		if b.TestAll(start, end) {
			t.Fatalf("TestAll(%d, %d) = true with bit %d cleared", start, end, mid)
		}
	}
}

func TestBitsetOr(t *testing.T) {
	a := NewBitset(testBits)
	b := NewBitset(testBits)

	a.SetRange(0, 100)
	b.SetRange(50, 200)
	b.Set(1279)

	a.Or(b)
	if !a.TestAll(0, 200) {
		t.Errorf("TestAll(0, 200) = false after Or")
	}
	if !a.Test(1279) {
		t.Errorf("bit 1279 not set after Or")
	}
	if a.Test(200) {
		t.Errorf("bit 200 set after Or")
	}

	// The source is left untouched.
	if b.Test(10) {
		t.Errorf("Or modified its operand")
	}
}

func TestBitsetOrMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Or with mismatched capacities did not panic")
		}
	}()
	NewBitset(64).Or(NewBitset(128))
}
