package state

import (
	"fmt"

	"github.com/catacomb-labs/delver/internal/game/beast"
	"github.com/catacomb-labs/delver/internal/game/engine"
)

// Preview is the coarse combat estimate shown while a beast is present.
// It is an approximation for the UI, recomputed on every state change and
// never persisted; the exact branch runs only when an attack transaction
// actually resolves on the ledger.
type Preview struct {
	// PlayerDamageBase is the damage of a normal hit.
	PlayerDamageBase int
	// PlayerDamageCritical is the damage of a critical hit.
	PlayerDamageCritical int
	// BeastDamageMax is the worst single-slot hit the beast can land.
	BeastDamageMax int
	// BeastDamageExpected is the five-slot average hit.
	BeastDamageExpected int
	// FleeChance is the dexterity-driven escape percentage.
	FleeChance int
	// AmbushChance is the wisdom-driven free-attack percentage.
	AmbushChance int
	// Outcome is a human-readable estimate of the fight.
	Outcome string
}

// ComputePreview runs the simplified alternating-turn estimate: the
// adventurer swings first with crit-chance-weighted average damage, the
// beast answers with its five-slot expected damage.
//
// Precondition: b.Health > 0.
// Postcondition: Returns a non-nil Preview.
func ComputePreview(adv *Adventurer, b beast.Beast) *Preview {
	level := adv.Level()
	attack := engine.AttackBeast(adv.WeaponView(), adv.Stats.Strength, adv.RingBonuses(), adv.TargetView(b))

	attacker := AttackerView(b)
	armor := adv.ArmorView()
	neck := adv.Equipment.Neck
	expected := engine.ExpectedBeastDamage(attacker, armor, neck.ID, neck.Level())

	worst := 0
	for _, piece := range armor {
		if dmg := engine.BeastDamage(attacker, piece, neck.ID, neck.Level()); dmg > worst {
			worst = dmg
		}
	}

	p := &Preview{
		PlayerDamageBase:     attack.Base,
		PlayerDamageCritical: attack.Critical,
		BeastDamageMax:       worst,
		BeastDamageExpected:  expected,
		FleeChance:           engine.FleeChance(adv.Stats.Dexterity, level),
		AmbushChance:         engine.AmbushChance(adv.Stats.Wisdom, level),
	}

	critChance := engine.CriticalChance(adv.Stats.Luck)
	avgDamage := attack.Base + (attack.Critical-attack.Base)*critChance/100
	if avgDamage < 1 {
		avgDamage = 1
	}

	roundsToKillBeast := ceilDiv(b.Health, avgDamage)
	roundsToDie := ceilDiv(adv.Health, expected)

	if roundsToKillBeast <= roundsToDie {
		taken := (roundsToKillBeast - 1) * expected
		p.Outcome = fmt.Sprintf("likely win in %d rounds, ~%d damage taken", roundsToKillBeast, taken)
	} else {
		p.Outcome = fmt.Sprintf("likely death in %d rounds", roundsToDie)
	}
	return p
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}
