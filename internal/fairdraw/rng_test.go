package fairdraw

import (
	"errors"
	"testing"
)

func TestSeededRandDeterminism(t *testing.T) {
	t.Parallel()

	a := NewSeededRand("abc123")
	b := NewSeededRand("abc123")

	for i := 0; i < 1000; i++ {
		got, want := a.Float64(), b.Float64()
		if got != want {
			t.Fatalf("streams diverged at position %d: %v != %v", i, got, want)
		}
	}
}

func TestSeededRandDifferentSeeds(t *testing.T) {
	t.Parallel()

	a := NewSeededRand("abc123")
	b := NewSeededRand("abc124")

	same := true
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			same = false
		}
	}

	if same {
		t.Error("different seeds produced identical streams")
	}
}

func TestIntNBounds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		min  int
		max  int
	}{
		{name: "SmallRange", min: 1, max: 5},
		{name: "SingleValue", min: 7, max: 7},
		{name: "NegativeMin", min: -3, max: 3},
		{name: "WideRange", min: 1, max: 90},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rng := NewSeededRand("bounds-" + tc.name)
			for i := 0; i < 500; i++ {
				got := rng.IntN(tc.min, tc.max)
				if got < tc.min || got > tc.max {
					t.Fatalf("value %d out of range [%d, %d]", got, tc.min, tc.max)
				}
			}
		})
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	t.Parallel()

	input := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	rng := NewSeededRand("shuffle")
	shuffled := rng.Shuffle(input)

	if len(shuffled) != len(input) {
		t.Fatalf("unexpected length, want: %d, got: %d", len(input), len(shuffled))
	}

	seen := make(map[int]bool)
	for _, n := range shuffled {
		seen[n] = true
	}

	for _, n := range input {
		if !seen[n] {
			t.Errorf("value %d missing from shuffled output", n)
		}
	}
}

func TestShuffleDoesNotModifyInput(t *testing.T) {
	t.Parallel()

	input := []int{1, 2, 3, 4, 5}

	NewSeededRand("immutable").Shuffle(input)

	for i, n := range []int{1, 2, 3, 4, 5} {
		if input[i] != n {
			t.Fatalf("input slice was modified: %v", input)
		}
	}
}

func TestShuffleDeterminism(t *testing.T) {
	t.Parallel()

	input := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	first := NewSeededRand("abc123").Shuffle(input)
	second := NewSeededRand("abc123").Shuffle(input)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("shuffles diverged at index %d: %v != %v", i, first, second)
		}
	}
}

func TestUniqueNumbers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		count   int
		min     int
		max     int
		wantErr bool
	}{
		{
			name:  "Success",
			count: 3,
			min:   1,
			max:   5,
		},
		{
			name:  "FullRange",
			count: 5,
			min:   1,
			max:   5,
		},
		{
			name:  "Empty",
			count: 0,
			min:   1,
			max:   5,
		},
		{
			name:    "CountExceedsRange",
			count:   10,
			min:     1,
			max:     5,
			wantErr: true,
		},
		{
			name:    "NegativeCount",
			count:   -1,
			min:     1,
			max:     5,
			wantErr: true,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rng := NewSeededRand("unique")

			got, err := rng.UniqueNumbers(tc.count, tc.min, tc.max)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidRange) {
					t.Fatalf("want ErrInvalidRange, got: %v", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(got) != tc.count {
				t.Fatalf("unexpected count, want: %d, got: %d", tc.count, len(got))
			}

			seen := make(map[int]bool)
			for _, n := range got {
				if n < tc.min || n > tc.max {
					t.Errorf("value %d out of range [%d, %d]", n, tc.min, tc.max)
				}
				if seen[n] {
					t.Errorf("duplicate value %d", n)
				}
				seen[n] = true
			}
		})
	}
}
