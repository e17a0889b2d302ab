package pipeline

import "time"

// Mode selects pacing and event visibility.
type Mode int

const (
	// ModeLive paces events for readable combat during active play.
	ModeLive Mode = iota
	// ModeSpectate paces events for narrated playback of another session.
	ModeSpectate
)

// DelayTable maps event kinds to the pause awaited after applying one.
// Kinds absent from the table apply instantly.
type DelayTable map[Kind]time.Duration

// LiveDelays is the pacing used during active play: short pauses on the
// combat beats, nothing on bookkeeping events.
func LiveDelays() DelayTable {
	return DelayTable{
		KindBeastEncountered: 600 * time.Millisecond,
		KindAmbush:           600 * time.Millisecond,
		KindAttack:           400 * time.Millisecond,
		KindBeastAttack:      400 * time.Millisecond,
		KindFlee:             400 * time.Millisecond,
		KindObstacle:         500 * time.Millisecond,
		KindDiscovery:        300 * time.Millisecond,
		KindDefeatedBeast:    800 * time.Millisecond,
		KindFledBeast:        500 * time.Millisecond,
		KindLevelUp:          800 * time.Millisecond,
	}
}

// SpectateDelays is the slower pacing used for replaying another game.
func SpectateDelays() DelayTable {
	return DelayTable{
		KindBeastEncountered: 2 * time.Second,
		KindAmbush:           2 * time.Second,
		KindAttack:           1200 * time.Millisecond,
		KindBeastAttack:      1200 * time.Millisecond,
		KindFlee:             1200 * time.Millisecond,
		KindObstacle:         1500 * time.Millisecond,
		KindDiscovery:        1 * time.Second,
		KindDefeatedBeast:    2500 * time.Millisecond,
		KindFledBeast:        1500 * time.Millisecond,
		KindLevelUp:          2 * time.Second,
		KindBuyItems:         1 * time.Second,
		KindStatUpgrade:      1 * time.Second,
	}
}

// spectateVisible is the narrower event set surfaced to the explore log
// while spectating; live play logs the full set.
var spectateVisible = map[Kind]bool{
	KindBeastEncountered: true,
	KindAmbush:           true,
	KindAttack:           true,
	KindBeastAttack:      true,
	KindFlee:             true,
	KindObstacle:         true,
	KindDiscovery:        true,
	KindDefeatedBeast:    true,
	KindFledBeast:        true,
	KindLevelUp:          true,
}

// visible reports whether the mode surfaces the kind to the explore log.
func (m Mode) visible(k Kind) bool {
	if m == ModeSpectate {
		return spectateVisible[k]
	}
	return k != KindUnknown
}
