// Package randutil provides the seeded generators used for dealing and
// resampling. Every generator is deterministic for a given seed so that games
// and recommendations can be replayed.
package randutil

import (
	"fmt"
	rand "math/rand/v2"
	"strings"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// Kind selects a generator algorithm.
type Kind string

const (
	PCG     Kind = "pcg"
	Xoshiro Kind = "xoshiro"
)

// ParseKind accepts "pcg" or "xoshiro"; the empty string means PCG.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", PCG:
		return PCG, nil
	case Xoshiro:
		return Xoshiro, nil
	default:
		return "", fmt.Errorf("unknown rng %q", s)
	}
}

// New returns a PCG-backed *rand.Rand whose two state words are derived from
// seed with splitmix64.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewKind returns a generator of the requested kind.
func NewKind(kind Kind, seed int64) *rand.Rand {
	if kind == Xoshiro {
		return rand.New(NewXoshiro(seed))
	}
	return New(seed)
}

// Derive returns the seed of the n-th independent stream below seed.
func Derive(seed int64, n int) int64 {
	return int64(mix(uint64(seed) + uint64(n)*goldenRatio64))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// XoshiroSource is a xoshiro256+ generator. Seed 0 starts from the state
// words {111, 222, 333, 444}; other seeds are spread with splitmix64.
type XoshiroSource struct {
	s [4]uint64
}

// NewXoshiro returns a seeded xoshiro256+ source.
func NewXoshiro(seed int64) *XoshiroSource {
	x := &XoshiroSource{s: [4]uint64{111, 222, 333, 444}}
	if seed != 0 {
		u := uint64(seed)
		for i := range x.s {
			x.s[i] = mix(u + uint64(i+1)*goldenRatio64)
		}
	}
	return x
}

func rotl(x uint64, k int) uint64 {
	return (x << k) | (x >> (64 - k))
}

// Uint64 implements rand.Source.
func (x *XoshiroSource) Uint64() uint64 {
	s := &x.s
	result := rotl(s[0]+s[3], 23) + s[0]
	t := s[1] << 17
	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]
	s[2] ^= t
	s[3] = rotl(s[3], 45)
	return result
}
