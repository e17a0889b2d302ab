package engine

import "github.com/catacomb-labs/delver/internal/game/gear"

// MinXPReward is the floor applied after level decay.
const MinXPReward = 4

// Ledger-enforced caps on adventurer resources.
const (
	MaxGold            = 511
	MaxHealth          = 1023
	BaseHealth         = 100
	HealthPerVitality  = 15
	MaxXPDecayPercent  = 95
	XPDecayPerLevel    = 2
	PotionHealthAmount = 10
)

// GoldReward is the gold earned for killing a beast: half the beast's
// power, plus 3 percent per gold-ring level. Gold never decays with
// adventurer level.
//
// Precondition: beastLevel >= 0.
// Postcondition: Returns >= 0.
func GoldReward(beastLevel int, beastTier gear.Tier, rings RingBonuses) int {
	base := power(beastLevel, beastTier) / 2
	return base + base*rings.Gold*3/100
}

// XPReward is the experience earned for killing a beast. The raw figure
// decays 2 percent per adventurer level, capped at 95 percent decay, and
// never falls below MinXPReward.
//
// Precondition: beastLevel >= 0; adventurerLevel >= 0.
// Postcondition: Returns >= MinXPReward.
func XPReward(beastLevel int, beastTier gear.Tier, adventurerLevel int) int {
	raw := (6 - int(beastTier)) * beastLevel / 2
	decay := adventurerLevel * XPDecayPerLevel
	if decay > MaxXPDecayPercent {
		decay = MaxXPDecayPercent
	}
	xp := raw * (100 - decay) / 100
	if xp < MinXPReward {
		xp = MinXPReward
	}
	return xp
}

// ItemPrice is the market price of an item: a fixed per-tier base reduced
// by one gold per point of charisma, never below one.
//
// Postcondition: Returns >= 1.
func ItemPrice(tier gear.Tier, charisma int) int {
	price := int(tier)*4 - charisma
	if price < 1 {
		price = 1
	}
	return price
}

// PotionPrice is the market price of one healing potion: the adventurer's
// level less two gold per point of charisma, never below one.
//
// Postcondition: Returns >= 1.
func PotionPrice(level, charisma int) int {
	price := level - charisma*2
	if price < 1 {
		price = 1
	}
	return price
}

// MaxHealthFor is the adventurer health cap for a given vitality, bounded
// by the global ledger cap.
//
// Postcondition: Returns a value in [BaseHealth, MaxHealth].
func MaxHealthFor(vitality int) int {
	hp := BaseHealth + vitality*HealthPerVitality
	if hp > MaxHealth {
		hp = MaxHealth
	}
	return hp
}
