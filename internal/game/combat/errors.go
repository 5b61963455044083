package combat

import "errors"

var (
	// ErrInvalidIndex is returned when a move or roster index is out of range.
	ErrInvalidIndex = errors.New("index out of range")
	// ErrIllegalSwitch is returned when the switch target is fainted or already active.
	ErrIllegalSwitch = errors.New("illegal switch")
	// ErrNoActiveCombatant is returned when an action needs a conscious active member and none is present.
	ErrNoActiveCombatant = errors.New("no active combatant")
	// ErrUnknownItemKind is returned by UseItem for an item with no battle effect.
	ErrUnknownItemKind = errors.New("unknown item kind")
	// ErrIllegalItem is returned when an item cannot apply to its target, such as a revive on a conscious member.
	ErrIllegalItem = errors.New("item has no effect on target")
	// ErrNoPP is returned when the chosen move has no PP left.
	ErrNoPP = errors.New("no PP left")
)
