package models

import (
	"fmt"
	"strings"
)

// Rarity is the ordered card tier. Higher values are rarer.
type Rarity int

const (
	Common Rarity = iota
	Uncommon
	Rare
	SuperRare
	UltraRare
	SecretRare
	Legendary
)

var rarityNames = [...]string{
	Common:     "Common",
	Uncommon:   "Uncommon",
	Rare:       "Rare",
	SuperRare:  "SuperRare",
	UltraRare:  "UltraRare",
	SecretRare: "SecretRare",
	Legendary:  "Legendary",
}

// AllRarities lists every tier from most common to rarest
func AllRarities() []Rarity {
	return []Rarity{Common, Uncommon, Rare, SuperRare, UltraRare, SecretRare, Legendary}
}

func (r Rarity) String() string {
	if r < Common || r > Legendary {
		return fmt.Sprintf("Rarity(%d)", int(r))
	}
	return rarityNames[r]
}

// Valid reports whether r is one of the seven known tiers
func (r Rarity) Valid() bool {
	return r >= Common && r <= Legendary
}

// ParseRarity converts a tier name back into a Rarity
func ParseRarity(s string) (Rarity, error) {
	for i, name := range rarityNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Rarity(i), nil
		}
	}
	return Common, fmt.Errorf("unknown rarity %q", s)
}

// MarshalText encodes the tier by name so JSON carries "SecretRare" rather than 5
func (r Rarity) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid rarity %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a tier name
func (r *Rarity) UnmarshalText(text []byte) error {
	parsed, err := ParseRarity(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
