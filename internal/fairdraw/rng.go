package fairdraw

import (
	"crypto/sha256"
	"errors"
	"fmt"
	mrand "math/rand/v2"
)

// ErrInvalidRange is returned when more unique numbers are requested than the
// range can provide.
var ErrInvalidRange = errors.New("count exceeds the available number range")

// SeededRand is a deterministic random stream. The stream is produced by a
// ChaCha8 generator keyed with the SHA-256 digest of the seed string, so the
// same seed reproduces the same sequence on any platform and process.
type SeededRand struct {
	rng *mrand.Rand
}

func NewSeededRand(seed string) *SeededRand {
	key := sha256.Sum256([]byte(seed))

	return &SeededRand{rng: mrand.New(mrand.NewChaCha8(key))}
}

// Float64 returns the next value of the stream in [0, 1).
func (r *SeededRand) Float64() float64 {
	return r.rng.Float64()
}

// IntN returns a stream-determined integer in [min, max] inclusive.
func (r *SeededRand) IntN(min, max int) int {
	return int(r.rng.Float64()*float64(max-min+1)) + min
}

// Shuffle returns a shuffled copy of numbers using a Fisher-Yates pass driven
// by the seeded stream. The input slice is not modified.
func (r *SeededRand) Shuffle(numbers []int) []int {
	shuffled := make([]int, len(numbers))
	copy(shuffled, numbers)

	for i := len(shuffled) - 1; i > 0; i-- {
		j := int(r.rng.Float64() * float64(i+1))
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled
}

// UniqueNumbers builds the full range [min, max], shuffles it and returns the
// first count elements.
func (r *SeededRand) UniqueNumbers(count, min, max int) ([]int, error) {
	const op = "fairdraw.rng.UniqueNumbers"

	if count < 0 || count > max-min+1 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidRange)
	}

	numbers := make([]int, 0, max-min+1)
	for i := min; i <= max; i++ {
		numbers = append(numbers, i)
	}

	return r.Shuffle(numbers)[:count], nil
}
