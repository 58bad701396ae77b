package fairdraw

// NumberDrawer holds the not-yet-emitted remainder of a match's permutation.
// The full permutation is fixed by the seed at construction time, so a number
// can never repeat within a match. Not safe for concurrent use; the Registry
// serializes access per match.
type NumberDrawer struct {
	available []int
}

// NewNumberDrawer builds the full range [numMin, numMax] and shuffles it once
// with the seeded stream.
func NewNumberDrawer(numMin, numMax int, seed string) *NumberDrawer {
	numbers := make([]int, 0, numMax-numMin+1)
	for i := numMin; i <= numMax; i++ {
		numbers = append(numbers, i)
	}

	return &NumberDrawer{available: NewSeededRand(seed).Shuffle(numbers)}
}

// Replay reconstructs a drawer as if drawn numbers had already been emitted,
// by rebuilding the permutation from the seed and consuming it forward. This
// is the undo and restart-recovery mechanism: no intermediate state is stored.
func Replay(numMin, numMax int, seed string, drawn int) *NumberDrawer {
	drawer := NewNumberDrawer(numMin, numMax, seed)
	for i := 0; i < drawn; i++ {
		drawer.DrawNext()
	}

	return drawer
}

// Rebuild reconstructs a drawer from the append-only ledger: a fresh
// permutation with every already-drawn number removed, keeping the relative
// order of what remains. For a history of purely sequential draws this is
// equivalent to Replay; it additionally stays consistent when operator-called
// manual draws took numbers out of order.
func Rebuild(numMin, numMax int, seed string, drawn []int) *NumberDrawer {
	drawer := NewNumberDrawer(numMin, numMax, seed)
	for _, number := range drawn {
		drawer.Remove(number)
	}

	return drawer
}

// DrawNext pops the next number of the sequence. The second value is false
// once the sequence is exhausted; callers treat that as the normal
// end-of-match signal, not an error.
func (d *NumberDrawer) DrawNext() (int, bool) {
	if len(d.available) == 0 {
		return 0, false
	}

	number := d.available[0]
	d.available = d.available[1:]

	return number, true
}

// Remove takes a specific number out of the remaining sequence, preserving
// the order of the rest. Reports whether the number was still available.
func (d *NumberDrawer) Remove(number int) bool {
	for i, n := range d.available {
		if n == number {
			d.available = append(d.available[:i], d.available[i+1:]...)

			return true
		}
	}

	return false
}

// RemainingCount reports how many numbers can still be drawn.
func (d *NumberDrawer) RemainingCount() int {
	return len(d.available)
}

// RemainingNumbers returns a copy of the not-yet-drawn sequence. Debugging and
// test introspection only: exposing it to players would leak future draws.
func (d *NumberDrawer) RemainingNumbers() []int {
	out := make([]int, len(d.available))
	copy(out, d.available)

	return out
}
