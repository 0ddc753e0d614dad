package ids

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRandom_Distinct(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)
	prefixes := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		s := NewRandom()
		require.Len(t, s, 36)
		_, dup := seen[s]
		require.False(t, dup, "duplicate id %s", s)
		seen[s] = struct{}{}

		u, err := uuid.Parse(s)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), u.Version())
		prefixes[s[:13]] = struct{}{}
	}
	// the first 48 bits carry no timestamp, so they spread like the rest
	assert.Len(t, prefixes, n)
}

func TestNewTimeOrdered_Layout(t *testing.T) {
	before := time.Now().UnixMilli()
	s := NewTimeOrdered()
	after := time.Now().UnixMilli()

	u, err := uuid.Parse(s)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), u.Version())
	assert.Equal(t, uuid.RFC4122, u.Variant())
	assert.Equal(t, byte('7'), s[14])

	ms := Millis(u)
	assert.GreaterOrEqual(t, ms, before)
	assert.LessOrEqual(t, ms, after)
}

func TestTimeOrderedAt_KnownTimestamp(t *testing.T) {
	ts := time.UnixMilli(0x0123456789ab)
	u, err := TimeOrderedAt(ts)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u.String(), "01234567-89ab-7"), u.String())
	assert.Equal(t, int64(0x0123456789ab), Millis(u))
}

func TestTimeOrdered_EntropyFailure(t *testing.T) {
	boom := errors.New("boom")
	_, err := timeOrdered(1, iotest.ErrReader(boom))
	require.ErrorIs(t, err, boom)
}

func TestTimeOrdered_SameMillisecondDiffers(t *testing.T) {
	ts := time.UnixMilli(1700000000000)
	a, err := TimeOrderedAt(ts)
	require.NoError(t, err)
	b, err := TimeOrderedAt(ts)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a.String()[:13], b.String()[:13])
}

func TestProperty_TimeOrderedLayout(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("version nibble is always 0111", prop.ForAll(
		func(ms int64) bool {
			u, err := TimeOrderedAt(time.UnixMilli(ms))
			if err != nil {
				return false
			}
			return u[6]>>4 == 0x7 && u.Version() == 7 && Millis(u) == ms
		},
		gen.Int64Range(0, 1<<48-1),
	))

	properties.Property("ids at least 1ms apart sort by time", prop.ForAll(
		func(t1, delta int64) bool {
			u1, err := TimeOrderedAt(time.UnixMilli(t1))
			if err != nil {
				return false
			}
			u2, err := TimeOrderedAt(time.UnixMilli(t1 + delta))
			if err != nil {
				return false
			}
			return u2.String() >= u1.String()
		},
		gen.Int64Range(1000000000000, 2000000000000),
		gen.Int64Range(1, 1000000),
	))

	properties.TestingRun(t)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("v4")
	require.NoError(t, err)
	assert.Equal(t, StrategyRandom, s)

	s, err = ParseStrategy("v7")
	require.NoError(t, err)
	assert.Equal(t, StrategyTimeOrdered, s)

	_, err = ParseStrategy("v1")
	require.ErrorIs(t, err, ErrUnknownStrategy)

	assert.Panics(t, func() { Strategy("v9").Generate() })
}

func TestStrategyGenerate(t *testing.T) {
	u, err := uuid.Parse(StrategyRandom.Generate())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), u.Version())

	u, err = uuid.Parse(StrategyTimeOrdered.Generate())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), u.Version())
}

func BenchmarkNewRandom(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = NewRandom()
	}
}

func BenchmarkNewTimeOrdered(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = NewTimeOrdered()
	}
}
