// Package render turns segmentation results into printable token streams.
//
// The first piece of a word is printed as is, every further piece of the same
// word gets a continuation marker prepended ("cats" => "cat ##s"). A word
// which cannot be segmented completely is replaced by a single placeholder
// token; pieces of a partially matched prefix are never printed.
package render

import (
	"iter"
	"strings"

	"github.com/npillmayer/wordpieces"
)

const (
	DefaultMarker  = "##"
	DefaultUnknown = "[UNK]"
)

// Marked is a word piece prepared for output. Missing pieces stay missing.
type Marked struct {
	Text    string
	Missing bool
}

// ContinuationMarkers prepends marker to every piece except the first.
func ContinuationMarkers(pieces iter.Seq[wordpieces.WordPiece], marker string) iter.Seq[Marked] {
	return func(yield func(Marked) bool) {
		initial := true
		for wp := range pieces {
			p, ok := wp.Piece()
			var m Marked
			switch {
			case !ok:
				m = Marked{Missing: true}
			case initial:
				m = Marked{Text: p}
			default:
				m = Marked{Text: marker + p}
			}
			initial = false
			if !yield(m) {
				return
			}
		}
	}
}

// Renderer prints segmented words.
type Renderer struct {
	Marker  string // continuation marker
	Unknown string // placeholder for words which cannot be segmented
}

// New returns a Renderer with the default marker and placeholder.
func New() Renderer {
	return Renderer{Marker: DefaultMarker, Unknown: DefaultUnknown}
}

// Word returns the marked pieces of one word, or false if the word is fully
// or partially unknown.
func (r Renderer) Word(pieces iter.Seq[wordpieces.WordPiece]) ([]string, bool) {
	var out []string
	for m := range ContinuationMarkers(pieces, r.Marker) {
		if m.Missing {
			return nil, false
		}
		out = append(out, m.Text)
	}
	return out, true
}

// Sentence segments every form and returns the output tokens of the sentence.
// An empty form contributes nothing.
func (r Renderer) Sentence(vocab *wordpieces.Vocabulary, forms []string) []string {
	tokens := make([]string, 0, len(forms)*2)
	for _, form := range forms {
		pieces, ok := r.Word(vocab.Split(form))
		if !ok {
			tokens = append(tokens, r.Unknown)
			continue
		}
		tokens = append(tokens, pieces...)
	}
	return tokens
}

// Line returns the space-separated output tokens of a sentence.
func (r Renderer) Line(vocab *wordpieces.Vocabulary, forms []string) string {
	return strings.Join(r.Sentence(vocab, forms), " ")
}
