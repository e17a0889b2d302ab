package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/catacomb-labs/delver/internal/game/engine"
)

func TestAbilityPercentage(t *testing.T) {
	tests := []struct{ stat, level, want int }{
		{0, 10, 0},
		{3, 10, 30},
		{5, 10, 50},
		{9, 10, 90},
		{10, 10, 100},
		{15, 10, 100},
		{1, 3, 33},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, engine.AbilityPercentage(tc.stat, tc.level), "stat=%d level=%d", tc.stat, tc.level)
	}
}

func TestAbilityPercentage_Property_MonotonicAndSaturating(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		level := rapid.IntRange(1, 50).Draw(rt, "level")
		stat := rapid.IntRange(0, 60).Draw(rt, "stat")
		cur := engine.AbilityPercentage(stat, level)
		next := engine.AbilityPercentage(stat+1, level)
		assert.GreaterOrEqual(rt, next, cur)
		assert.LessOrEqual(rt, cur, 100)
		if stat >= level {
			assert.Equal(rt, 100, cur)
		}
	})
}

func TestAmbushChance(t *testing.T) {
	assert.Equal(t, 100, engine.AmbushChance(0, 10))
	assert.Equal(t, 50, engine.AmbushChance(5, 10))
	assert.Equal(t, 0, engine.AmbushChance(10, 10))
	assert.Equal(t, 0, engine.AmbushChance(20, 10))
}

func TestCriticalChance_Clamps(t *testing.T) {
	assert.Equal(t, 0, engine.CriticalChance(-3))
	assert.Equal(t, 40, engine.CriticalChance(40))
	assert.Equal(t, 100, engine.CriticalChance(250))
}

func TestSmoothstepReduction_Endpoints(t *testing.T) {
	assert.Equal(t, 0, engine.SmoothstepReduction(0, 10))
	assert.Equal(t, 100, engine.SmoothstepReduction(10, 10))
	assert.Equal(t, 100, engine.SmoothstepReduction(25, 10))
}

func TestSmoothstepReduction_CubicNotLinear(t *testing.T) {
	// r=0.5 must land exactly on 50; below the midpoint the cubic runs
	// under the diagonal.
	assert.Equal(t, 50, engine.SmoothstepReduction(1, 2))
	assert.Equal(t, 50, engine.SmoothstepReduction(5, 10))
	assert.Less(t, engine.SmoothstepReduction(1, 4), 25)
	assert.Equal(t, 15, engine.SmoothstepReduction(1, 4))
	// Above the midpoint it runs over the diagonal.
	assert.Greater(t, engine.SmoothstepReduction(3, 4), 75)
}

func TestSmoothstepReduction_Property_Monotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		level := rapid.IntRange(1, 100).Draw(rt, "level")
		stat := rapid.IntRange(0, 120).Draw(rt, "stat")
		cur := engine.SmoothstepReduction(stat, level)
		next := engine.SmoothstepReduction(stat+1, level)
		assert.GreaterOrEqual(rt, next, cur)
		assert.GreaterOrEqual(rt, cur, 0)
		assert.LessOrEqual(rt, cur, 100)
	})
}
