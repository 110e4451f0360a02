package wordpieces

import (
	"fmt"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/wordpieces/dat"
)

// invalidByteBase is the first pseudo-symbol for bytes which are not part of
// valid UTF-8. Pseudo-symbols lie above unicode.MaxRune and never collide with
// decoded runes, so "\xff" and "�" remain different pieces.
const invalidByteBase = unicode.MaxRune + 1

// decodeSymbol decodes the first symbol of s. It consumes exactly one byte for
// invalid UTF-8, which matches the offsets of a range loop over s.
func decodeSymbol(s string) (rune, int) {
	r, width := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && width == 1 {
		return invalidByteBase + rune(s[0]), 1
	}
	return r, width
}

type datBuildNode struct {
	state    uint32
	terminal bool
	children map[uint16]*datBuildNode
}

type datBackend struct {
	frozen      bool
	root        *datBuildNode
	nodes       int
	pieces      int
	nextDenseID uint16
	compiled    *dat.DAT
}

func newDATBackend() *datBackend {
	return &datBackend{
		root:     &datBuildNode{children: make(map[uint16]*datBuildNode)},
		nodes:    1,
		compiled: &dat.DAT{Root: 1},
	}
}

func (db *datBackend) denseFor(r rune) (uint16, error) {
	if d := db.compiled.Dense(r); d != 0 {
		return d, nil
	}
	if db.nextDenseID == ^uint16(0) {
		return 0, fmt.Errorf("alphabet overflow: more than %d distinct symbols", ^uint16(0)-1)
	}
	db.nextDenseID++
	db.compiled.SetDense(r, db.nextDenseID)
	return db.nextDenseID, nil
}

func (db *datBackend) Insert(piece string) (bool, error) {
	assert(!db.frozen, "insert into frozen DAT")
	n := db.root
	for i := 0; i < len(piece); {
		r, w := decodeSymbol(piece[i:])
		i += w
		c, err := db.denseFor(r)
		if err != nil {
			return false, err
		}
		child := n.children[c]
		if child == nil {
			child = &datBuildNode{children: make(map[uint16]*datBuildNode)}
			n.children[c] = child
			db.nodes++
		}
		n = child
	}
	if n.terminal {
		return false, nil
	}
	n.terminal = true
	db.pieces++
	return true, nil
}

// Freeze lays out the build trie breadth-first into the double array and
// drops the build nodes.
func (db *datBackend) Freeze() {
	if db.frozen {
		return
	}
	d := db.compiled
	d.Sigma = db.nextDenseID
	d.Base = make([]int32, int(d.Root)+1)
	d.Check = make([]int32, int(d.Root)+1)
	d.Terminal = make([]bool, int(d.Root)+1)
	db.root.state = d.Root
	d.Terminal[d.Root] = db.root.terminal
	firstFree := int(d.Root) + 1
	queue := []*datBuildNode{db.root}
	for q := 0; q < len(queue); q++ {
		n := queue[q]
		if len(n.children) == 0 {
			continue
		}
		labels := sortedLabels(n.children)
		base := findDATBase(d.Check, labels, firstFree)
		ensureDATIndex(d, base+int(labels[len(labels)-1]))
		d.Base[n.state] = int32(base)
		for _, label := range labels {
			t := base + int(label)
			child := n.children[label]
			child.state = uint32(t)
			d.Check[t] = int32(n.state)
			d.Terminal[t] = child.terminal
			queue = append(queue, child)
		}
		for firstFree < len(d.Check) && d.Check[firstFree] != 0 {
			firstFree++
		}
	}
	db.root = nil
	db.frozen = true
	tracer().Debugf("froze %v", db)
}

func (db *datBackend) Contains(piece string) bool {
	if piece == "" {
		return false
	}
	assert(db.frozen, "lookup in unfrozen DAT")
	d := db.compiled
	state := d.Root
	for i := 0; i < len(piece); {
		r, w := decodeSymbol(piece[i:])
		i += w
		c := d.Dense(r)
		if c == 0 {
			return false
		}
		next, ok := d.Transition(state, c)
		if !ok {
			return false
		}
		state = next
	}
	return d.IsTerminal(state)
}

// LongestPrefix walks s from the root and remembers the last terminal state.
func (db *datBackend) LongestPrefix(s string, maxRunes int) int {
	assert(db.frozen, "lookup in unfrozen DAT")
	d := db.compiled
	state := d.Root
	best := 0
	for i, n := 0, 0; i < len(s) && n < maxRunes; n++ {
		r, w := decodeSymbol(s[i:])
		c := d.Dense(r)
		if c == 0 {
			break
		}
		next, ok := d.Transition(state, c)
		if !ok {
			break
		}
		state = next
		i += w
		if d.IsTerminal(state) {
			best = i
		}
	}
	return best
}

func sortedLabels(children map[uint16]*datBuildNode) []uint16 {
	labels := make([]uint16, 0, len(children))
	for label := range children {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return labels[i] < labels[j]
	})
	return labels
}

// findDATBase finds the smallest base such that all child slots are free,
// starting from the first free slot of the array.
func findDATBase(check []int32, labels []uint16, firstFree int) int {
	base := max(1, firstFree-int(labels[0]))
	for ; ; base++ {
		ok := true
		for _, label := range labels {
			t := base + int(label)
			if t < len(check) && check[t] != 0 {
				ok = false
				break
			}
		}
		if ok {
			return base
		}
	}
}

func ensureDATIndex(d *dat.DAT, idx int) {
	if idx < len(d.Base) {
		return
	}
	grow := idx + 1 - len(d.Base)
	d.Base = append(d.Base, make([]int32, grow)...)
	d.Check = append(d.Check, make([]int32, grow)...)
	d.Terminal = append(d.Terminal, make([]bool, grow)...)
}

func (db *datBackend) String() string {
	d := db.compiled
	return fmt.Sprintf("DAT(states=%d,sigma=%d,pages=%d,astral=%d,frozen=%v)",
		d.NStates(), d.Sigma, d.Alphabet.Pages(), d.Alphabet.AstralSymbols(), db.frozen)
}

func (db *datBackend) Stats() pieceSetStats {
	stats := pieceSetStats{
		Backend:    string(DATBackend),
		Pieces:     db.pieces,
		TotalSlots: db.compiled.NStates(),
	}
	if !db.frozen {
		stats.UsedSlots = db.nodes
		return stats
	}
	used := 0
	for i := range db.compiled.Check {
		if i == int(db.compiled.Root) || db.compiled.Check[i] != 0 {
			used++
		}
	}
	stats.UsedSlots = used
	return stats
}
