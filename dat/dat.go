package dat

// DAT is a frozen double-array trie over word-piece keys.
//   - Nodes/states are indices into Base/Check (0 is unused; Root is typically 1).
//   - Transition: t := Base[s] + c; valid if Check[t] == s; next state is t.
//   - c is a dense alphabet ID in [1..Sigma]. c==0 means "not in alphabet".
//
// Terminals:
//   - Terminal[s] is true if the path from Root to s spells a complete piece.
//
// Mapping:
//   - Alphabet maps symbols (runes and invalid-byte pseudo-symbols) to dense
//     IDs; 0 means "not part of the alphabet".
type DAT struct {
	// Root state index (commonly 1).
	Root uint32

	// Sigma is the size of the dense alphabet (maximum dense ID).
	Sigma uint16

	// Base and Check are the classic double-array.
	Base  []int32 // len == N
	Check []int32 // len == N

	// Terminal marks states which end a piece.
	Terminal []bool // len == N

	// Alphabet maps symbols to dense IDs [0..Sigma].
	Alphabet Alphabet
}

// NStates returns number of allocated slots/states in the arrays.
func (d *DAT) NStates() int { return len(d.Base) }

// Transition returns (nextState, ok). dense must be in [1..Sigma].
func (d *DAT) Transition(state uint32, dense uint16) (uint32, bool) {
	if int(state) >= len(d.Base) || int(state) >= len(d.Check) {
		return 0, false
	}
	t := d.Base[state] + int32(dense)
	if t <= 0 || int(t) >= len(d.Check) {
		return 0, false
	}
	if d.Check[t] != int32(state) {
		return 0, false
	}
	return uint32(t), true
}

// IsTerminal reports whether state ends a stored key.
func (d *DAT) IsTerminal(state uint32) bool {
	return int(state) < len(d.Terminal) && d.Terminal[state]
}

// Dense maps a symbol to a dense alphabet ID.
// Returns 0 if the symbol is not in the alphabet.
func (d *DAT) Dense(r rune) uint16 { return d.Alphabet.Dense(r) }

// SetDense sets mapping r -> dense.
func (d *DAT) SetDense(r rune, dense uint16) { d.Alphabet.Set(r, dense) }
