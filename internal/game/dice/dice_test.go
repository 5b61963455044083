package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/monbattle/internal/game/dice"
)

// TestCryptoSource_Intn_InRange verifies every value returned by Intn(6) is in [0, 6).
func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestCryptoSource_Float64_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestSeededSource_Reproducible(t *testing.T) {
	a := dice.NewSeededSource(99)
	b := dice.NewSeededSource(99)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Intn(1000), b.Intn(1000))
		require.Equal(t, a.Float64(), b.Float64())
	}
}

func TestNewSource_ZeroSeedIsCrypto(t *testing.T) {
	src := dice.NewSource(0)
	v := src.Intn(10)
	assert.GreaterOrEqual(t, v, 0)
	assert.Less(t, v, 10)
}

func TestIntRange_Property(t *testing.T) {
	src := dice.NewSeededSource(7)
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(-50, 50).Draw(rt, "lo")
		hi := rapid.IntRange(lo, lo+100).Draw(rt, "hi")
		v := dice.IntRange(src, lo, hi)
		if v < lo || v > hi {
			rt.Fatalf("IntRange(%d, %d) = %d out of bounds", lo, hi, v)
		}
	})
}

func TestChance_Bounds(t *testing.T) {
	src := dice.NewSeededSource(3)
	for i := 0; i < 200; i++ {
		assert.False(t, dice.Chance(src, 0))
		assert.True(t, dice.Chance(src, 1.01))
	}
}

// floatSrc returns f for every Float64 call.
type floatSrc float64

func (floatSrc) Intn(int) int       { return 0 }
func (s floatSrc) Float64() float64 { return float64(s) }

func TestFloatRangeInclusive_ReachesBothBounds(t *testing.T) {
	assert.Equal(t, 0.85, dice.FloatRangeInclusive(floatSrc(0), 0.85, 1.00))
	assert.Equal(t, 1.00, dice.FloatRangeInclusive(floatSrc(0.9999999999), 0.85, 1.00))
	assert.InDelta(t, 0.925, dice.FloatRangeInclusive(floatSrc(0.5), 0.85, 1.00), 1e-6)
}

func TestFloatRangeInclusive_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.Float64Range(-10, 10).Draw(rt, "lo")
		hi := lo + rapid.Float64Range(0, 10).Draw(rt, "span")
		f := rapid.Float64Range(0, 0.9999999999).Draw(rt, "f")
		v := dice.FloatRangeInclusive(floatSrc(f), lo, hi)
		if v < lo || v > hi {
			rt.Fatalf("FloatRangeInclusive(%v, %v) = %v out of bounds", lo, hi, v)
		}
	})
}

func TestLoggedSource_LogsDraws(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	src := dice.NewLoggedSource(dice.NewSeededSource(1), zap.New(core))
	v := src.Intn(20)
	_ = src.Float64()

	entries := logs.FilterMessage("dice draw").All()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(20), entries[0].ContextMap()["n"])
	assert.Equal(t, int64(v), entries[0].ContextMap()["result"])
}
