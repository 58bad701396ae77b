package fairdraw

import "errors"

var (
	ErrRangeOrder   = errors.New("numMax must be greater than numMin")
	ErrCardTooLarge = errors.New("numbersPerCard exceeds the available number range")
)

// MatchConfig is the fairness-relevant part of a match: the legal number range
// and how many numbers each card carries. Fixed at match creation.
type MatchConfig struct {
	NumMin         int
	NumMax         int
	NumbersPerCard int
}

// Validate rejects configurations that could never deal a legal card. Called
// at match creation so invalid ranges never reach dealing or drawing.
func (c MatchConfig) Validate() error {
	if c.NumMax <= c.NumMin {
		return ErrRangeOrder
	}

	if c.NumbersPerCard > c.RangeSize() {
		return ErrCardTooLarge
	}

	return nil
}

// RangeSize is the count of legal numbers, (NumMax - NumMin + 1).
func (c MatchConfig) RangeSize() int {
	return c.NumMax - c.NumMin + 1
}
