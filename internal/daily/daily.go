// Package daily picks the "article of the day": a pseudo-random choice that
// stays fixed for a site for a whole calendar day.
//
// The seed is SHA-256 over "<site>\x00<YYYY-MM-DD>". Its first two 64-bit
// big-endian words seed a math/rand/v2 PCG generator and the pick is the
// generator's first IntN(count). The date is taken in the location of the
// supplied time, so callers decide which calendar (UTC by default) applies.
package daily

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
	"time"
)

// MinScore is the score a post must exceed to be eligible.
const MinScore int64 = 25

// Seed hashes (site, calendar date of day) into two PCG seed words.
func Seed(site string, day time.Time) (uint64, uint64) {
	sum := sha256.Sum256([]byte(site + "\x00" + day.Format(time.DateOnly)))
	return binary.BigEndian.Uint64(sum[0:8]), binary.BigEndian.Uint64(sum[8:16])
}

// Pick returns an offset in [0, count) for site on day, or false when there
// is nothing to choose from.
func Pick(site string, day time.Time, count int) (int, bool) {
	if count <= 0 {
		return 0, false
	}
	hi, lo := Seed(site, day)
	return rand.New(rand.NewPCG(hi, lo)).IntN(count), true
}
