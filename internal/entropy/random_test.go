package entropy

import "testing"

func TestSeedDeterminism(t *testing.T) {
	a := NewSource(42)
	b := NewSource(42)
	for i := 0; i < 100; i++ {
		if a.Float() != b.Float() {
			t.Fatalf("draw %d diverged between equal seeds", i)
		}
	}

	c := NewSource(43)
	same := true
	d := NewSource(42)
	for i := 0; i < 10; i++ {
		if c.Float() != d.Float() {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced identical first draws")
	}
}

func TestChanceEdges(t *testing.T) {
	s := NewSource(1)
	for i := 0; i < 50; i++ {
		if s.Chance(0) {
			t.Fatal("Chance(0) fired")
		}
		if !s.Chance(1) {
			t.Fatal("Chance(1) did not fire")
		}
		if s.Chance(-0.5) {
			t.Fatal("negative probability fired")
		}
	}
}

func TestChanceRate(t *testing.T) {
	s := NewSource(99)
	hits := 0
	const n = 10_000
	for i := 0; i < n; i++ {
		if s.Chance(0.3) {
			hits++
		}
	}
	if hits < 2800 || hits > 3200 {
		t.Errorf("Chance(0.3) fired %d/%d times, want ~3000", hits, n)
	}
}

func TestIntNAndRange(t *testing.T) {
	s := NewSource(7)
	for i := 0; i < 1000; i++ {
		if v := s.IntN(5); v < 0 || v >= 5 {
			t.Fatalf("IntN(5) = %d out of range", v)
		}
		if v := s.Range(10, 20); v < 10 || v >= 20 {
			t.Fatalf("Range(10, 20) = %v out of range", v)
		}
	}
}
