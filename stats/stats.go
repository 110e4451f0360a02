// Package stats aggregates segmentation results over a corpus.
//
// For every token the accumulator counts whether it is fully unknown or
// suffix unknown; for fully known tokens it collects the number of pieces.
// Rates are relative to all tokens, lengths only cover fully known tokens.
// Metrics over an empty population are not numbers but ErrNoData.
package stats

import (
	"errors"
	"slices"

	"github.com/npillmayer/wordpieces"
)

// ErrNoData is returned for a metric whose population is empty.
var ErrNoData = errors.New("no data")

// Accumulator collects per-token counts. The zero value is ready to use.
type Accumulator struct {
	tokens        int
	unknown       int
	suffixUnknown int
	lengths       []int
}

// Add records the segmentation result of one token. Empty results (from
// empty word forms) are not tokens and are ignored.
func (acc *Accumulator) Add(pieces []wordpieces.WordPiece) {
	acc.AddShape(wordpieces.Classify(pieces), len(pieces))
}

// AddSegmentation records one segmented token.
func (acc *Accumulator) AddSegmentation(seg wordpieces.Segmentation) {
	acc.AddShape(seg.Shape, seg.Len())
}

// AddShape records a token of the given shape; n is its number of pieces
// and only used for fully known tokens.
func (acc *Accumulator) AddShape(shape wordpieces.Shape, n int) {
	switch shape {
	case wordpieces.Empty:
		return
	case wordpieces.FullyUnknown:
		acc.unknown++
	case wordpieces.SuffixUnknown:
		acc.suffixUnknown++
	case wordpieces.FullyKnown:
		acc.lengths = append(acc.lengths, n)
	}
	acc.tokens++
}

// AddWords segments every form and records the results.
func (acc *Accumulator) AddWords(vocab *wordpieces.Vocabulary, forms []string) {
	for _, form := range forms {
		acc.AddSegmentation(vocab.Segment(form))
	}
}

// Merge adds all counts of other to acc.
func (acc *Accumulator) Merge(other *Accumulator) {
	acc.tokens += other.tokens
	acc.unknown += other.unknown
	acc.suffixUnknown += other.suffixUnknown
	acc.lengths = append(acc.lengths, other.lengths...)
}

// Report returns a snapshot of the counts collected so far.
func (acc *Accumulator) Report() Report {
	lengths := slices.Clone(acc.lengths)
	slices.Sort(lengths)
	return Report{
		Tokens:        acc.tokens,
		Unknown:       acc.unknown,
		SuffixUnknown: acc.suffixUnknown,
		Lengths:       lengths,
	}
}

// Report holds the aggregated counts of a corpus.
type Report struct {
	Tokens        int   // all non-empty tokens
	Unknown       int   // fully unknown tokens
	SuffixUnknown int   // tokens with a known prefix and an unknown suffix
	Lengths       []int // piece counts of fully known tokens, sorted
}

// UnknownRate returns the share of fully unknown tokens.
func (r Report) UnknownRate() (float64, error) {
	if r.Tokens == 0 {
		return 0, ErrNoData
	}
	return float64(r.Unknown) / float64(r.Tokens), nil
}

// SuffixUnknownRate returns the share of suffix-unknown tokens.
func (r Report) SuffixUnknownRate() (float64, error) {
	if r.Tokens == 0 {
		return 0, ErrNoData
	}
	return float64(r.SuffixUnknown) / float64(r.Tokens), nil
}

// AverageLength returns the mean piece count of fully known tokens.
func (r Report) AverageLength() (float64, error) {
	if len(r.Lengths) == 0 {
		return 0, ErrNoData
	}
	sum := 0
	for _, l := range r.Lengths {
		sum += l
	}
	return float64(sum) / float64(len(r.Lengths)), nil
}

// MedianLength returns the median piece count of fully known tokens.
// For an even number of tokens it is the lower of the two middle elements.
func (r Report) MedianLength() (int, error) {
	if len(r.Lengths) == 0 {
		return 0, ErrNoData
	}
	return r.Lengths[(len(r.Lengths)-1)/2], nil
}
