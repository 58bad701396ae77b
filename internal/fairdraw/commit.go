// Package fairdraw implements the commit-reveal draw engine: seed material is
// committed before a match starts, cards and the draw order are derived
// deterministically from the committed seeds, and every draw is HMAC-signed so
// the full match can be re-verified after the seeds are revealed.
package fairdraw

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// DefaultSeedPoolSize is how many seeds are generated per match. Only the
// first pool element seeds cards and the draw sequence; the rest leave room
// for per-feature seed rotation.
const DefaultSeedPoolSize = 100

const seedBytes = 32

// GenerateSeed returns a fresh secret seed: 32 bytes from the secure random
// source, hex encoded. A failing entropy source is a hard error, there is no
// fallback generator.
func GenerateSeed() (string, error) {
	const op = "fairdraw.commit.GenerateSeed"

	buf := make([]byte, seedBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return hex.EncodeToString(buf), nil
}

// Commitment computes the publishable commitment over the seed material:
// SHA-256 of all seeds concatenated in order, hex encoded.
func Commitment(seeds []string) string {
	sum := sha256.Sum256([]byte(strings.Join(seeds, "")))

	return hex.EncodeToString(sum[:])
}

// GenerateSeedMaterial generates the seed pool for a match together with its
// commitment. The commitment may be published immediately; the seeds stay
// sealed until the match is finished.
func GenerateSeedMaterial(poolSize int) ([]string, string, error) {
	const op = "fairdraw.commit.GenerateSeedMaterial"

	if poolSize <= 0 {
		poolSize = DefaultSeedPoolSize
	}

	seeds := make([]string, 0, poolSize)
	for i := 0; i < poolSize; i++ {
		seed, err := GenerateSeed()
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", op, err)
		}

		seeds = append(seeds, seed)
	}

	return seeds, Commitment(seeds), nil
}

// VerifyReveal reports whether the revealed seeds match a previously published
// commitment. Any third party can run this against the disclosed material.
func VerifyReveal(seeds []string, commitment string) bool {
	return Commitment(seeds) == commitment
}
