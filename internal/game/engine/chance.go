package engine

// AbilityPercentage is the shared stat-versus-level success chance: 100
// once the stat reaches the level, otherwise the floored stat/level ratio
// as a percentage. Dexterity drives flee chance and intelligence drives
// full obstacle avoidance through this curve.
//
// Precondition: stat >= 0; level >= 1.
// Postcondition: Returns a value in [0,100], saturating at 100 when stat >= level.
func AbilityPercentage(stat, level int) int {
	if stat >= level {
		return 100
	}
	return stat * 100 / level
}

// FleeChance is the percentage chance a flee attempt succeeds.
func FleeChance(dexterity, level int) int {
	return AbilityPercentage(dexterity, level)
}

// ObstacleAvoidChance is the percentage chance an obstacle is fully avoided.
func ObstacleAvoidChance(intelligence, level int) int {
	return AbilityPercentage(intelligence, level)
}

// AmbushChance is the percentage chance a new encounter opens with a free
// beast attack. Wisdom at or above the level eliminates it.
//
// Precondition: wisdom >= 0; level >= 1.
// Postcondition: Returns a value in [0,100].
func AmbushChance(wisdom, level int) int {
	short := level - wisdom
	if short < 0 {
		short = 0
	}
	return short * 100 / level
}

// CriticalChance is the percentage chance an attack lands critically:
// one point of luck is one percent, capped at 100.
//
// Postcondition: Returns a value in [0,100].
func CriticalChance(luck int) int {
	if luck < 0 {
		return 0
	}
	if luck > 100 {
		return 100
	}
	return luck
}

// SmoothstepReduction is the partial obstacle damage mitigation curve:
// with r = min(1, stat/level), the reduction percentage is
// floor(100*(3r^2 - 2r^3)), a cubic Hermite ease. Computed entirely in
// integers as (300*s^2*l - 200*s^3) / l^3.
//
// Precondition: stat >= 0; level >= 1.
// Postcondition: Returns a value in [0,100]; 0 at stat=0 and exactly 100
// once stat >= level.
func SmoothstepReduction(stat, level int) int {
	if stat >= level {
		return 100
	}
	s := int64(stat)
	l := int64(level)
	return int((300*s*s*l - 200*s*s*s) / (l * l * l))
}
