package wordpieces

import (
	"fmt"
	"strings"

	"github.com/derekparker/trie"
)

// Backend names a piece-set implementation.
type Backend string

const (
	DATBackend  Backend = "dat"  // frozen double-array trie, supports one-pass longest prefix
	TrieBackend Backend = "trie" // pointer trie (github.com/derekparker/trie)
	HashBackend Backend = "hash" // Go map
)

// DefaultBackend is used by Build.
const DefaultBackend = DATBackend

// ParseBackend maps a configuration value to a Backend.
// The empty string selects DefaultBackend.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return DefaultBackend, nil
	case DATBackend, TrieBackend, HashBackend:
		return b, nil
	}
	return "", fmt.Errorf("unknown vocabulary backend %q (want dat, trie or hash)", s)
}

type pieceSetStats struct {
	Backend    string
	Pieces     int
	UsedSlots  int
	TotalSlots int
}

func (s pieceSetStats) FillRatio() float64 {
	if s.TotalSlots == 0 {
		return 0
	}
	return float64(s.UsedSlots) / float64(s.TotalSlots)
}

// pieceSet is the internal backend abstraction for piece storage.
//
// Insert is only valid before Freeze and reports whether piece was new.
// An error means the piece cannot be represented by the backend.
type pieceSet interface {
	Insert(piece string) (bool, error)
	Freeze()
	Contains(piece string) bool
	Stats() pieceSetStats
}

// prefixMatcher is implemented by backends which find the longest stored piece
// that is a prefix of s in a single forward walk. maxRunes caps the walk;
// the result is a byte length, 0 if no prefix of s is stored.
type prefixMatcher interface {
	LongestPrefix(s string, maxRunes int) int
}

func newPieceSet(backend Backend) (pieceSet, error) {
	switch backend {
	case DATBackend:
		return newDATBackend(), nil
	case TrieBackend:
		return newTrieBackend(), nil
	case HashBackend:
		return newHashBackend(), nil
	}
	return nil, fmt.Errorf("unknown vocabulary backend %q", backend)
}

// --- hash ------------------------------------------------------------------

type hashBackend struct {
	pieces map[string]struct{}
}

func newHashBackend() *hashBackend {
	return &hashBackend{pieces: make(map[string]struct{}, 1024)}
}

func (hb *hashBackend) Insert(piece string) (bool, error) {
	if _, ok := hb.pieces[piece]; ok {
		return false, nil
	}
	hb.pieces[piece] = struct{}{}
	return true, nil
}

func (hb *hashBackend) Freeze() {}

func (hb *hashBackend) Contains(piece string) bool {
	_, ok := hb.pieces[piece]
	return ok
}

func (hb *hashBackend) Stats() pieceSetStats {
	return pieceSetStats{
		Backend:    string(HashBackend),
		Pieces:     len(hb.pieces),
		UsedSlots:  len(hb.pieces),
		TotalSlots: len(hb.pieces),
	}
}

// --- trie ------------------------------------------------------------------

// trieBackend stores pieces in a rune trie. The trie converts keys to runes,
// which folds invalid UTF-8 bytes into U+FFFD, and it reserves rune 0 as its
// end-of-key child, so NUL is folded into U+FFFD as well (see trieKey).
// Every node therefore carries the exact byte strings stored under its key
// as metadata, and lookups compare against those.
type trieBackend struct {
	t      *trie.Trie
	pieces int
}

func newTrieBackend() *trieBackend {
	return &trieBackend{t: trie.New()}
}

// trieKey maps a piece to its key in the trie. Distinct pieces may share a key.
func trieKey(piece string) string {
	return strings.ReplaceAll(piece, "\x00", "\uFFFD")
}

func (tb *trieBackend) Insert(piece string) (bool, error) {
	key := trieKey(piece)
	var exact []string
	if node, ok := tb.t.Find(key); ok {
		exact, _ = node.Meta().([]string)
		for _, p := range exact {
			if p == piece {
				return false, nil
			}
		}
	}
	tb.t.Add(key, append(exact, piece))
	tb.pieces++
	return true, nil
}

func (tb *trieBackend) Freeze() {}

func (tb *trieBackend) Contains(piece string) bool {
	node, ok := tb.t.Find(trieKey(piece))
	if !ok {
		return false
	}
	exact, _ := node.Meta().([]string)
	for _, p := range exact {
		if p == piece {
			return true
		}
	}
	return false
}

func (tb *trieBackend) Stats() pieceSetStats {
	return pieceSetStats{
		Backend:    string(TrieBackend),
		Pieces:     tb.pieces,
		UsedSlots:  tb.pieces,
		TotalSlots: tb.pieces,
	}
}
