package gear

// The loot table is three elemental blocks behind a small jewelry range:
// ids 1-3 neck, 4-8 ring, 9-41 Magic/Cloth, 42-71 Blade/Hide,
// 72-101 Bludgeon/Metal. Armor sub-ranges run tier 1 through 5 in id order;
// weapon and jewelry tiers are irregular and listed explicitly.

// Jewelry ids with engine-visible roles.
const (
	IDPendant      uint8 = 1
	IDNecklace     uint8 = 2
	IDAmulet       uint8 = 3
	IDSilverRing   uint8 = 4
	IDBronzeRing   uint8 = 5
	IDPlatinumRing uint8 = 6
	IDTitaniumRing uint8 = 7
	IDGoldRing     uint8 = 8
)

type meta struct {
	tier Tier
	typ  Type
	slot Slot
}

var metaByID [NumItems + 1]meta

// armorRange fills five consecutive ids with descending rarity (T1..T5).
func armorRange(lo uint8, typ Type, slot Slot) {
	for k := 0; k < 5; k++ {
		metaByID[lo+uint8(k)] = meta{Tier(k + 1), typ, slot}
	}
}

func init() {
	// Jewelry. Necklaces are all tier 1; ring tiers follow the metal.
	for id := IDPendant; id <= IDAmulet; id++ {
		metaByID[id] = meta{Tier1, TypeNecklace, SlotNeck}
	}
	ringTiers := map[uint8]Tier{
		IDSilverRing:   Tier2,
		IDBronzeRing:   Tier3,
		IDPlatinumRing: Tier1,
		IDTitaniumRing: Tier1,
		IDGoldRing:     Tier1,
	}
	for id, t := range ringTiers {
		metaByID[id] = meta{t, TypeRing, SlotRing}
	}

	// Magic weapons: wands 9-12 and books 13-16, no tier 4 entries.
	magicWeaponTiers := []Tier{Tier1, Tier2, Tier3, Tier5, Tier1, Tier2, Tier3, Tier5}
	for k, t := range magicWeaponTiers {
		metaByID[9+uint8(k)] = meta{t, TypeMagic, SlotWeapon}
	}
	armorRange(17, TypeCloth, SlotChest)
	armorRange(22, TypeCloth, SlotHead)
	armorRange(27, TypeCloth, SlotWaist)
	armorRange(32, TypeCloth, SlotFoot)
	armorRange(37, TypeCloth, SlotHand)

	// Blade weapons 42-46.
	for k := 0; k < 5; k++ {
		metaByID[42+uint8(k)] = meta{Tier(k + 1), TypeBlade, SlotWeapon}
	}
	armorRange(47, TypeHide, SlotChest)
	armorRange(52, TypeHide, SlotHead)
	armorRange(57, TypeHide, SlotWaist)
	armorRange(62, TypeHide, SlotFoot)
	armorRange(67, TypeHide, SlotHand)

	// Bludgeon weapons 72-76.
	for k := 0; k < 5; k++ {
		metaByID[72+uint8(k)] = meta{Tier(k + 1), TypeBludgeon, SlotWeapon}
	}
	armorRange(77, TypeMetal, SlotChest)
	armorRange(82, TypeMetal, SlotHead)
	armorRange(87, TypeMetal, SlotWaist)
	armorRange(92, TypeMetal, SlotFoot)
	armorRange(97, TypeMetal, SlotHand)
}

// TierOf returns the rarity rank for the given item id.
//
// Postcondition: Returns TierNone iff id is 0 or out of range.
func TierOf(id uint8) Tier {
	if id == 0 || id > NumItems {
		return TierNone
	}
	return metaByID[id].tier
}

// TypeOf returns the elemental or jewelry classification for the given item id.
//
// Postcondition: Returns TypeNone iff id is 0 or out of range.
func TypeOf(id uint8) Type {
	if id == 0 || id > NumItems {
		return TypeNone
	}
	return metaByID[id].typ
}

// SlotOf returns the equipment position for the given item id.
//
// Postcondition: Returns SlotNone iff id is 0 or out of range.
func SlotOf(id uint8) Slot {
	if id == 0 || id > NumItems {
		return SlotNone
	}
	return metaByID[id].slot
}
