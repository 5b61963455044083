package combat

import (
	"fmt"
	"strings"
)

// ItemKind enumerates the consumables usable during battle.
type ItemKind int

const (
	Potion ItemKind = iota
	SuperPotion
	Revive
	FullRestore
)

// ItemKinds lists every battle item in display order.
var ItemKinds = []ItemKind{Potion, SuperPotion, Revive, FullRestore}

var itemNames = map[ItemKind]string{
	Potion:      "Potion",
	SuperPotion: "Super Potion",
	Revive:      "Revive",
	FullRestore: "Full Restore",
}

func (k ItemKind) String() string {
	if n, ok := itemNames[k]; ok {
		return n
	}
	return fmt.Sprintf("ItemKind(%d)", int(k))
}

// Valid reports whether k is a known item.
func (k ItemKind) Valid() bool {
	_, ok := itemNames[k]
	return ok
}

// HealAmount is the fixed HP restored by a heal item, or 0 for revive items.
func (k ItemKind) HealAmount() int {
	switch k {
	case Potion:
		return 20
	case SuperPotion:
		return 50
	}
	return 0
}

// ReviveFraction is the share of max HP a revive item restores, or 0 for heal items.
func (k ItemKind) ReviveFraction() float64 {
	switch k {
	case Revive:
		return 0.5
	case FullRestore:
		return 1.0
	}
	return 0
}

// IsRevive reports whether the item can bring back a fainted combatant.
func (k ItemKind) IsRevive() bool {
	return k.ReviveFraction() > 0
}

// ParseItemKind converts an item name such as "super potion" or "super_potion" to an ItemKind.
func ParseItemKind(s string) (ItemKind, error) {
	norm := strings.NewReplacer("_", " ", "-", " ").Replace(strings.ToLower(strings.TrimSpace(s)))
	for k, n := range itemNames {
		if strings.ToLower(n) == norm {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownItemKind)
}
