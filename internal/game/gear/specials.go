package gear

// Special name pools shared by items and beasts: 69 primary prefixes and
// 16 secondary suffixes. Indexes are 1-based; 0 means "no name yet".
const (
	NumPrefixes = 69
	NumSuffixes = 16
)

// Specials holds an item's unlocked name parts.
type Specials struct {
	// Prefix is the primary name index (1..69), 0 until level 19.
	Prefix int
	// Suffix is the secondary name index (1..16), 0 until level 15.
	Suffix int
}

// rollSpecials derives the full name assignment for an item id under the
// adventurer's item-specials seed. The assignment is fixed for the life of
// a game: the same (id, seed) pair always produces the same names.
func rollSpecials(id uint8, seed uint16) (prefix, suffix int) {
	h := uint32(id)*7919 + uint32(seed)*104729
	prefix = int(h%NumPrefixes) + 1
	suffix = int((h/NumPrefixes)%NumSuffixes) + 1
	return prefix, suffix
}

// SpecialsFor returns the name parts visible at the item's current level.
// The suffix unlocks at level 15 and the prefix at level 19; locked parts
// are reported as 0.
//
// Postcondition: Prefix is 0 or in [1,69]; Suffix is 0 or in [1,16].
func SpecialsFor(i Item, seed uint16) Specials {
	if i.IsEmpty() {
		return Specials{}
	}
	level := i.Level()
	if level < SuffixUnlockLevel {
		return Specials{}
	}
	prefix, suffix := rollSpecials(i.ID, seed)
	s := Specials{Suffix: suffix}
	if level >= PrefixUnlockLevel {
		s.Prefix = prefix
	}
	return s
}

// StatBoost is the set of stat bonuses granted by an unlocked suffix.
type StatBoost struct {
	Strength     int
	Dexterity    int
	Vitality     int
	Intelligence int
	Wisdom       int
	Charisma     int
}

// suffixBoosts maps suffix index (1-based) to its stat grant.
var suffixBoosts = [NumSuffixes + 1]StatBoost{
	1:  {Strength: 3},                             // of Power
	2:  {Vitality: 3},                             // of Giant
	3:  {Strength: 2, Charisma: 1},                // of Titans
	4:  {Dexterity: 3},                            // of Skill
	5:  {Strength: 1, Dexterity: 1, Vitality: 1},  // of Perfection
	6:  {Intelligence: 3},                         // of Brilliance
	7:  {Wisdom: 3},                               // of Enlightenment
	8:  {Vitality: 2, Dexterity: 1},               // of Protection
	9:  {Strength: 2, Dexterity: 1},               // of Anger
	10: {Strength: 1, Charisma: 1, Wisdom: 1},     // of Rage
	11: {Vitality: 1, Charisma: 1, Intelligence: 1}, // of Fury
	12: {Intelligence: 2, Wisdom: 1},              // of Vitriol
	13: {Dexterity: 2, Charisma: 1},               // of the Fox
	14: {Wisdom: 2, Dexterity: 1},                 // of Detection
	15: {Wisdom: 2, Intelligence: 1},              // of Reflection
	16: {Charisma: 3},                             // of the Twins
}

// BoostForSuffix returns the stat grant for an unlocked suffix index.
//
// Postcondition: Returns the zero StatBoost when suffix is 0 or out of range.
func BoostForSuffix(suffix int) StatBoost {
	if suffix < 1 || suffix > NumSuffixes {
		return StatBoost{}
	}
	return suffixBoosts[suffix]
}

// BaggedBoost narrows a boost to the bonuses that remain active while the
// item sits in the bag. Only vitality and charisma survive unequipping.
func BaggedBoost(b StatBoost) StatBoost {
	return StatBoost{Vitality: b.Vitality, Charisma: b.Charisma}
}

// Add accumulates another boost into b.
func (b StatBoost) Add(o StatBoost) StatBoost {
	return StatBoost{
		Strength:     b.Strength + o.Strength,
		Dexterity:    b.Dexterity + o.Dexterity,
		Vitality:     b.Vitality + o.Vitality,
		Intelligence: b.Intelligence + o.Intelligence,
		Wisdom:       b.Wisdom + o.Wisdom,
		Charisma:     b.Charisma + o.Charisma,
	}
}
