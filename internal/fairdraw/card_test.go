package fairdraw

import (
	"errors"
	"sort"
	"testing"
)

func TestDealCardDeterminism(t *testing.T) {
	t.Parallel()

	first, err := DealCard("abc123", "m1", "p1", 1, 3, 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := DealCard("abc123", "m1", "p1", 1, 3, 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("unexpected card sizes: %v, %v", first, second)
	}

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("cards diverged: %v != %v", first, second)
		}
	}
}

func TestDealCardInputSensitivity(t *testing.T) {
	t.Parallel()

	base, err := DealCard("abc123", "m1", "p1", 1, 10, 1, 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name          string
		baseSeed      string
		matchID       string
		participantID string
		cardIndex     int
	}{
		{name: "DifferentSeed", baseSeed: "abc124", matchID: "m1", participantID: "p1", cardIndex: 1},
		{name: "DifferentMatch", baseSeed: "abc123", matchID: "m2", participantID: "p1", cardIndex: 1},
		{name: "DifferentParticipant", baseSeed: "abc123", matchID: "m1", participantID: "p2", cardIndex: 1},
		{name: "DifferentIndex", baseSeed: "abc123", matchID: "m1", participantID: "p1", cardIndex: 2},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := DealCard(tc.baseSeed, tc.matchID, tc.participantID, tc.cardIndex, 10, 1, 90)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			same := true
			for i := range base {
				if base[i] != got[i] {
					same = false
				}
			}

			if same {
				t.Errorf("changed input produced an identical card: %v", got)
			}
		})
	}
}

func TestDealCardValidity(t *testing.T) {
	t.Parallel()

	const (
		perCard = 24
		numMin  = 1
		numMax  = 75
	)

	baseSeed, err := GenerateSeed()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for cardIndex := 1; cardIndex <= 50; cardIndex++ {
		numbers, err := DealCard(baseSeed, "m1", "p1", cardIndex, perCard, numMin, numMax)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !ValidateCard(numbers, perCard, numMin, numMax) {
			t.Fatalf("dealt card failed validation: %v", numbers)
		}

		if !sort.IntsAreSorted(numbers) {
			t.Fatalf("dealt card is not sorted: %v", numbers)
		}
	}
}

func TestDealCardRangeRejection(t *testing.T) {
	t.Parallel()

	_, err := DealCard("abc123", "m1", "p1", 1, 10, 1, 5)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("want ErrInvalidRange, got: %v", err)
	}
}

func TestValidateCard(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		numbers []int
		count   int
		min     int
		max     int
		want    bool
	}{
		{
			name:    "Valid",
			numbers: []int{2, 3, 5},
			count:   3,
			min:     1,
			max:     5,
			want:    true,
		},
		{
			name:    "WrongCount",
			numbers: []int{2, 3},
			count:   3,
			min:     1,
			max:     5,
			want:    false,
		},
		{
			name:    "BelowRange",
			numbers: []int{0, 3, 5},
			count:   3,
			min:     1,
			max:     5,
			want:    false,
		},
		{
			name:    "AboveRange",
			numbers: []int{2, 3, 6},
			count:   3,
			min:     1,
			max:     5,
			want:    false,
		},
		{
			name:    "Duplicate",
			numbers: []int{2, 2, 5},
			count:   3,
			min:     1,
			max:     5,
			want:    false,
		},
		{
			name:    "EmptyExpected",
			numbers: nil,
			count:   0,
			min:     1,
			max:     5,
			want:    true,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := ValidateCard(tc.numbers, tc.count, tc.min, tc.max); got != tc.want {
				t.Errorf("unexpected result, want: %t, got: %t", tc.want, got)
			}
		})
	}
}
