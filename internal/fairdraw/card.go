package fairdraw

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

func cardSeed(baseSeed, matchID, participantID string, cardIndex int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s-%s-%s-%d", baseSeed, matchID, participantID, cardIndex)))

	return hex.EncodeToString(sum[:])
}

// DealCard derives one participant's card. The per-card seed is the SHA-256 of
// "baseSeed-matchID-participantID-cardIndex", fed into the seeded stream, so
// dealing the same tuple again reproduces the identical card. Numbers come
// back sorted ascending.
func DealCard(baseSeed, matchID, participantID string, cardIndex, numbersPerCard, numMin, numMax int) ([]int, error) {
	const op = "fairdraw.card.DealCard"

	rng := NewSeededRand(cardSeed(baseSeed, matchID, participantID, cardIndex))

	numbers, err := rng.UniqueNumbers(numbersPerCard, numMin, numMax)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sort.Ints(numbers)

	return numbers, nil
}

// ValidateCard independently checks count, range membership and uniqueness of
// a card claimed to have been dealt.
func ValidateCard(numbers []int, expectedCount, numMin, numMax int) bool {
	if len(numbers) != expectedCount {
		return false
	}

	seen := make(map[int]struct{}, len(numbers))
	for _, n := range numbers {
		if n < numMin || n > numMax {
			return false
		}

		if _, ok := seen[n]; ok {
			return false
		}

		seen[n] = struct{}{}
	}

	return true
}
