package wordpieces

import (
	"iter"
	"slices"
	"unicode/utf8"
)

// Split segments word into word pieces by greedy longest match.
//
// Positions are rune boundaries; a byte which is not valid UTF-8 counts as one
// character. At each position the longest vocabulary entry starting there is
// yielded and the cursor moves past it. If no entry of any length matches,
// Missing is yielded and the sequence ends, even if pieces would match further
// along the word. An empty word yields nothing.
//
// Example with vocabulary {"un", "believ", "able"}:
//
//	"unbelievable" => [ "un", "believ", "able" ]
//	"unknown"      => [ "un", <missing> ]
//
// Pieces are substrings of word; no piece text is allocated. The returned
// sequence may be iterated any number of times and always yields the same items.
func (vocab *Vocabulary) Split(word string) iter.Seq[WordPiece] {
	return func(yield func(WordPiece) bool) {
		if word == "" {
			return
		}
		offsets := runeByteOffsets(word)
		runeCount := len(offsets) - 1
		for start := 0; start < runeCount; {
			end := vocab.longestMatch(word, offsets, start)
			if end == start {
				tracer().Debugf("no piece of %q matches at rune %d", word, start)
				yield(Missing)
				return
			}
			if !yield(Piece(word[offsets[start]:offsets[end]])) {
				return
			}
			start = end
		}
	}
}

// SplitAll returns the pieces of word as a slice. See Split.
func (vocab *Vocabulary) SplitAll(word string) []WordPiece {
	return slices.Collect(vocab.Split(word))
}

// Segment splits word and classifies the result.
func (vocab *Vocabulary) Segment(word string) Segmentation {
	pieces := vocab.SplitAll(word)
	return Segmentation{
		Word:   word,
		Pieces: pieces,
		Shape:  Classify(pieces),
	}
}

// longestMatch returns the rune index one past the longest vocabulary entry
// starting at rune index start, or start if there is none.
func (vocab *Vocabulary) longestMatch(word string, offsets []int, start int) int {
	if vocab == nil || vocab.set == nil {
		return start
	}
	limit := min(len(offsets)-1, start+vocab.maxLen) // no piece is longer than maxLen
	if pm, ok := vocab.set.(prefixMatcher); ok {
		l := pm.LongestPrefix(word[offsets[start]:], limit-start)
		end := start
		for offsets[end]-offsets[start] < l {
			end++
		}
		assert(offsets[end]-offsets[start] == l, "prefix match ends inside a rune")
		return end
	}
	for end := limit; end > start; end-- {
		if vocab.set.Contains(word[offsets[start]:offsets[end]]) {
			return end
		}
	}
	return start
}

// runeByteOffsets returns the byte offset of every rune of s, plus len(s).
func runeByteOffsets(s string) []int {
	offsets := make([]int, 0, utf8.RuneCountInString(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(s))
	return offsets
}
