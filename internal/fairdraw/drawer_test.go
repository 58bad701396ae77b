package fairdraw

import "testing"

func TestDrawerExhaustsRangeWithoutRepeats(t *testing.T) {
	t.Parallel()

	const (
		numMin = 1
		numMax = 5
	)

	drawer := NewNumberDrawer(numMin, numMax, "abc123")

	seen := make(map[int]bool)
	for i := 0; i < numMax-numMin+1; i++ {
		number, ok := drawer.DrawNext()
		if !ok {
			t.Fatalf("sequence exhausted early at draw %d", i+1)
		}

		if number < numMin || number > numMax {
			t.Fatalf("drew %d, out of range [%d, %d]", number, numMin, numMax)
		}

		if seen[number] {
			t.Fatalf("number %d drawn twice", number)
		}
		seen[number] = true
	}

	if _, ok := drawer.DrawNext(); ok {
		t.Error("draw after exhaustion did not return the end sentinel")
	}

	if got := drawer.RemainingCount(); got != 0 {
		t.Errorf("unexpected remaining count, want: 0, got: %d", got)
	}
}

func TestDrawerDeterminism(t *testing.T) {
	t.Parallel()

	a := NewNumberDrawer(1, 90, "abc123")
	b := NewNumberDrawer(1, 90, "abc123")

	for i := 0; i < 90; i++ {
		x, _ := a.DrawNext()
		y, _ := b.DrawNext()
		if x != y {
			t.Fatalf("sequences diverged at draw %d: %d != %d", i+1, x, y)
		}
	}
}

func TestReplayUndoesLastDraw(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		numMin int
		numMax int
		seed   string
		draws  int
	}{
		{
			name:   "ThirdOfFive",
			numMin: 1,
			numMax: 5,
			seed:   "abc123",
			draws:  3,
		},
		{
			name:   "FirstDraw",
			numMin: 1,
			numMax: 5,
			seed:   "abc123",
			draws:  1,
		},
		{
			name:   "LastDraw",
			numMin: 1,
			numMax: 90,
			seed:   "deadbeef",
			draws:  90,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			original := NewNumberDrawer(tc.numMin, tc.numMax, tc.seed)

			var kth int
			for i := 0; i < tc.draws; i++ {
				kth, _ = original.DrawNext()
			}

			// Undo: replay the permutation forward to one draw before.
			replayed := Replay(tc.numMin, tc.numMax, tc.seed, tc.draws-1)

			got, ok := replayed.DrawNext()
			if !ok {
				t.Fatal("replayed drawer exhausted unexpectedly")
			}

			if got != kth {
				t.Errorf("unexpected redraw, want: %d, got: %d", kth, got)
			}
		})
	}
}

func TestReplayMatchesRemainingState(t *testing.T) {
	t.Parallel()

	original := NewNumberDrawer(1, 30, "abc123")
	for i := 0; i < 12; i++ {
		original.DrawNext()
	}

	replayed := Replay(1, 30, "abc123", 12)

	a := original.RemainingNumbers()
	b := replayed.RemainingNumbers()

	if len(a) != len(b) {
		t.Fatalf("remaining counts differ: %d != %d", len(a), len(b))
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("remaining sequences diverge at %d: %v != %v", i, a, b)
		}
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	drawer := NewNumberDrawer(1, 5, "abc123")
	sequence := drawer.RemainingNumbers()

	if !drawer.Remove(sequence[2]) {
		t.Fatal("failed to remove an available number")
	}

	if drawer.Remove(sequence[2]) {
		t.Error("removed the same number twice")
	}

	if got := drawer.RemainingCount(); got != 4 {
		t.Fatalf("unexpected remaining count, want: 4, got: %d", got)
	}

	want := append(append([]int{}, sequence[:2]...), sequence[3:]...)
	for i, n := range drawer.RemainingNumbers() {
		if n != want[i] {
			t.Fatalf("remaining order disturbed, want: %v, got: %v", want, drawer.RemainingNumbers())
		}
	}
}

func TestRebuildMatchesReplayForSequentialHistory(t *testing.T) {
	t.Parallel()

	original := NewNumberDrawer(1, 30, "abc123")

	var drawn []int
	for i := 0; i < 10; i++ {
		n, _ := original.DrawNext()
		drawn = append(drawn, n)
	}

	replayed := Replay(1, 30, "abc123", 10)
	rebuilt := Rebuild(1, 30, "abc123", drawn)

	a := replayed.RemainingNumbers()
	b := rebuilt.RemainingNumbers()

	if len(a) != len(b) {
		t.Fatalf("remaining counts differ: %d != %d", len(a), len(b))
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("rebuild diverges from replay at %d: %v != %v", i, a, b)
		}
	}
}

func TestRebuildSkipsManualDraws(t *testing.T) {
	t.Parallel()

	reference := NewNumberDrawer(1, 10, "abc123")
	sequence := reference.RemainingNumbers()

	// First draw came off the sequence, second was called manually out of
	// order (the sequence's fifth number).
	drawn := []int{sequence[0], sequence[4]}

	rebuilt := Rebuild(1, 10, "abc123", drawn)

	if got := rebuilt.RemainingCount(); got != 8 {
		t.Fatalf("unexpected remaining count, want: 8, got: %d", got)
	}

	next, _ := rebuilt.DrawNext()
	if next != sequence[1] {
		t.Errorf("unexpected next draw, want: %d, got: %d", sequence[1], next)
	}

	for _, n := range rebuilt.RemainingNumbers() {
		for _, d := range drawn {
			if n == d {
				t.Errorf("already-drawn number %d still available", n)
			}
		}
	}
}

func TestEndToEndScenario(t *testing.T) {
	t.Parallel()

	// Fixed scenario: single-seed pool "abc123", range [1, 5], 3-number card.
	card, err := DealCard("abc123", "m1", "p1", 1, 3, 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	again, err := DealCard("abc123", "m1", "p1", 1, 3, 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range card {
		if card[i] != again[i] {
			t.Fatalf("card not reproducible: %v != %v", card, again)
		}
	}

	drawer := NewNumberDrawer(1, 5, "abc123")

	var sequence []int
	for {
		number, ok := drawer.DrawNext()
		if !ok {
			break
		}
		sequence = append(sequence, number)
	}

	if len(sequence) != 5 {
		t.Fatalf("unexpected sequence length, want: 5, got: %d", len(sequence))
	}

	seen := make(map[int]bool)
	for _, n := range sequence {
		seen[n] = true
	}
	for n := 1; n <= 5; n++ {
		if !seen[n] {
			t.Fatalf("sequence is not a permutation of 1..5: %v", sequence)
		}
	}

	// Undo after the third draw, then redraw: must reproduce the third value.
	undone := Replay(1, 5, "abc123", 2)
	redrawn, _ := undone.DrawNext()
	if redrawn != sequence[2] {
		t.Errorf("undo did not reproduce the third draw, want: %d, got: %d", sequence[2], redrawn)
	}
}
