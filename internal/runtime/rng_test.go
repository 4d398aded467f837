package runtime

import "testing"

func TestRngDeterministic(t *testing.T) {
	a := NewRng(99)
	b := NewRng(99)
	for i := 0; i < 100; i++ {
		if a.Intn(1000) != b.Intn(1000) {
			t.Fatal("same seed produced different streams")
		}
	}
}

func TestRngRestoreResumesStream(t *testing.T) {
	r := NewRng(7)
	for i := 0; i < 25; i++ {
		r.Intn(10)
	}
	seed, draws := r.Pos()

	var want []int
	for i := 0; i < 10; i++ {
		want = append(want, r.Intn(6))
	}

	fresh := NewRng(1)
	fresh.Restore(seed, draws)
	for i := 0; i < 10; i++ {
		if got := fresh.Intn(6); got != want[i] {
			t.Fatalf("draw %d after restore = %d, want %d", i, got, want[i])
		}
	}
}

func TestRngIntnRejectsNonPositiveBound(t *testing.T) {
	r := NewRng(5)
	for _, n := range []int{0, -1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Intn(%d) did not panic", n)
				}
			}()
			r.Intn(n)
		}()
	}
	if _, draws := r.Pos(); draws != 0 {
		t.Errorf("rejected draws advanced the stream position to %d", draws)
	}
}

func TestRngPosAdvances(t *testing.T) {
	r := NewRng(3)
	_, d0 := r.Pos()
	r.Intn(2)
	r.Intn(2)
	_, d1 := r.Pos()
	if d1 != d0+2 {
		t.Errorf("draw count advanced by %d, want 2", d1-d0)
	}
}
