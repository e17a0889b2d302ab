package gear

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed content/names.yaml
var namesYAML []byte

type nameContent struct {
	Items    map[uint8]string `yaml:"items"`
	Prefixes []string         `yaml:"prefixes"`
	Suffixes []string         `yaml:"suffixes"`
}

var names nameContent

func init() {
	if err := yaml.Unmarshal(namesYAML, &names); err != nil {
		panic("gear: parsing embedded name content: " + err.Error())
	}
	if len(names.Items) != NumItems {
		panic(fmt.Sprintf("gear: name content has %d items, want %d", len(names.Items), NumItems))
	}
	if len(names.Prefixes) != NumPrefixes {
		panic(fmt.Sprintf("gear: name content has %d prefixes, want %d", len(names.Prefixes), NumPrefixes))
	}
	if len(names.Suffixes) != NumSuffixes {
		panic(fmt.Sprintf("gear: name content has %d suffixes, want %d", len(names.Suffixes), NumSuffixes))
	}
}

// NameOf returns the base display name for an item id, or "" for 0 or an
// out-of-range id.
func NameOf(id uint8) string {
	if id == 0 || id > NumItems {
		return ""
	}
	return names.Items[id]
}

// PrefixName returns the display form of a primary name index.
func PrefixName(prefix int) string {
	if prefix < 1 || prefix > NumPrefixes {
		return ""
	}
	return names.Prefixes[prefix-1]
}

// SuffixName returns the display form of a secondary name index.
func SuffixName(suffix int) string {
	if suffix < 1 || suffix > NumSuffixes {
		return ""
	}
	return names.Suffixes[suffix-1]
}

// DisplayName renders the item's full name with any unlocked specials,
// e.g. `"Agony" Katana of Power`.
func DisplayName(i Item, seed uint16) string {
	if i.IsEmpty() {
		return "empty"
	}
	s := SpecialsFor(i, seed)
	name := NameOf(i.ID)
	if s.Suffix > 0 {
		name = name + " " + SuffixName(s.Suffix)
	}
	if s.Prefix > 0 {
		name = fmt.Sprintf("%q %s", PrefixName(s.Prefix), name)
	}
	return name
}
