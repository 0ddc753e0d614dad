// Package ids generates the two primary key flavours the benchmark compares:
// random (v4) and time-ordered (v7) UUIDs.
package ids

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownStrategy is returned by ParseStrategy for anything but v4 / v7.
var ErrUnknownStrategy = errors.New("unknown id strategy")

type Strategy string

const (
	StrategyRandom      Strategy = "v4"
	StrategyTimeOrdered Strategy = "v7"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyRandom, StrategyTimeOrdered:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

func (s Strategy) Validate() error {
	_, err := ParseStrategy(string(s))
	return err
}

// Generate returns a new identifier for the strategy. It panics on an
// unknown strategy; callers validate first.
func (s Strategy) Generate() string {
	switch s {
	case StrategyRandom:
		return NewRandom()
	case StrategyTimeOrdered:
		return NewTimeOrdered()
	}
	panic(fmt.Sprintf("ids: generate with %v", s.Validate()))
}

// NewRandom returns a v4 UUID. Entropy failure panics.
func NewRandom() string {
	return uuid.Must(uuid.NewRandom()).String()
}

// NewTimeOrdered returns a v7-layout UUID for the current millisecond.
// Entropy failure panics.
func NewTimeOrdered() string {
	return uuid.Must(TimeOrderedAt(time.Now())).String()
}

// TimeOrderedAt builds a v7-layout UUID for t:
//
//	bytes 0-5   unix milliseconds, big-endian
//	byte  6     high nibble 0111 (version)
//	byte  8     top bits 10 (variant)
//	rest        random
//
// There is no per-process sequence. Two ids from the same millisecond
// compare in random order; only ids at least 1ms apart are ordered.
func TimeOrderedAt(t time.Time) (uuid.UUID, error) {
	return timeOrdered(t.UnixMilli(), rand.Reader)
}

func timeOrdered(ms int64, r io.Reader) (uuid.UUID, error) {
	var u uuid.UUID
	if _, err := io.ReadFull(r, u[6:]); err != nil {
		return uuid.Nil, fmt.Errorf("read entropy: %w", err)
	}

	u[0] = byte(ms >> 40)
	u[1] = byte(ms >> 32)
	u[2] = byte(ms >> 24)
	u[3] = byte(ms >> 16)
	u[4] = byte(ms >> 8)
	u[5] = byte(ms)

	u[6] = (u[6] & 0x0f) | 0x70
	u[8] = (u[8] & 0x3f) | 0x80
	return u, nil
}

// Millis extracts the embedded timestamp of a v7 id.
func Millis(u uuid.UUID) int64 {
	return int64(u[0])<<40 | int64(u[1])<<32 | int64(u[2])<<24 |
		int64(u[3])<<16 | int64(u[4])<<8 | int64(u[5])
}
