package enum

import (
	"errors"
	"testing"
)

func TestGet(t *testing.T) {
	e := New(
		Pair[int]{Name: "alpha", Value: 1},
		Pair[int]{Name: "beta", Value: 2},
	)

	v, err := e.Get("alpha")
	if err != nil || v != 1 {
		t.Errorf("Get(alpha) = %d, %v", v, err)
	}

	if _, err := e.Get("gamma"); !errors.Is(err, ErrUnknownName) {
		t.Errorf("Get(gamma) error = %v, want ErrUnknownName", err)
	}
}

func TestIterationOrder(t *testing.T) {
	e := New(
		Pair[int]{Name: "z", Value: 26},
		Pair[int]{Name: "a", Value: 1},
		Pair[int]{Name: "m", Value: 13},
	)

	want := []string{"z", "a", "m"}
	got := e.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	var visited []string
	e.Each(func(name string, _ int) bool {
		visited = append(visited, name)
		return true
	})
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("Each order[%d] = %q, want %q", i, visited[i], want[i])
		}
	}
}

func TestEachEarlyStop(t *testing.T) {
	e := New(
		Pair[int]{Name: "a", Value: 1},
		Pair[int]{Name: "b", Value: 2},
	)
	count := 0
	e.Each(func(string, int) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("Each visited %d pairs after early stop, want 1", count)
	}
}

func TestDuplicateNamePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New with duplicate names should panic")
		}
	}()
	New(
		Pair[int]{Name: "dup", Value: 1},
		Pair[int]{Name: "dup", Value: 2},
	)
}

func TestCopyingReadsAreDistinct(t *testing.T) {
	type vec struct{ X, Y, Z float64 }

	preset := &vec{1, 2, 3}
	e := NewCopying(
		func(v *vec) *vec {
			c := *v
			return &c
		},
		Pair[*vec]{Name: "up", Value: preset},
	)

	first, err := e.Get("up")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	second, err := e.Get("up")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}

	if first == second {
		t.Error("copying enum returned the same pointer on two reads")
	}
	if *first != *second {
		t.Errorf("copies differ structurally: %+v vs %+v", *first, *second)
	}

	// Mutating a returned copy never touches the preset.
	first.X = 99
	if preset.X != 1 {
		t.Errorf("preset mutated through a copy: %+v", preset)
	}

	// Each hands out fresh copies too.
	var seen []*vec
	e.Each(func(_ string, v *vec) bool {
		seen = append(seen, v)
		return true
	})
	e.Each(func(_ string, v *vec) bool {
		seen = append(seen, v)
		return true
	})
	if seen[0] == seen[1] {
		t.Error("Each returned the same pointer on separate iterations")
	}
}
