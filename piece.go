package wordpieces

// WordPiece is one item of a segmentation result.
//
// It is either a piece of the segmented word (see Piece) or the Missing
// sentinel, which marks the position where no vocabulary entry matched.
// A piece never carries an empty string.
type WordPiece struct {
	piece   string
	missing bool
}

// Missing is the sentinel produced when no piece matches at the current position.
// It is always the last item of a segmentation result.
var Missing = WordPiece{missing: true}

// Piece returns a word piece carrying text.
func Piece(text string) WordPiece {
	return WordPiece{piece: text}
}

// IsMissing reports whether wp is the Missing sentinel.
func (wp WordPiece) IsMissing() bool {
	return wp.missing
}

// Piece returns the text of wp and true, or "" and false for Missing.
func (wp WordPiece) Piece() (string, bool) {
	if wp.missing {
		return "", false
	}
	return wp.piece, true
}

func (wp WordPiece) String() string {
	if wp.missing {
		return "<missing>"
	}
	return wp.piece
}

// Shape classifies a segmentation result.
type Shape int8

const (
	Empty         Shape = iota // empty word form, no pieces
	FullyKnown                 // one or more pieces, no Missing
	FullyUnknown               // a single Missing
	SuffixUnknown              // one or more pieces followed by Missing
)

func (s Shape) String() string {
	switch s {
	case Empty:
		return "empty"
	case FullyKnown:
		return "fully-known"
	case FullyUnknown:
		return "fully-unknown"
	case SuffixUnknown:
		return "suffix-unknown"
	}
	return "invalid"
}

// Classify determines the shape of a segmentation result.
// Only the first and the last item are inspected.
func Classify(pieces []WordPiece) Shape {
	switch {
	case len(pieces) == 0:
		return Empty
	case pieces[0].IsMissing():
		return FullyUnknown
	case pieces[len(pieces)-1].IsMissing():
		return SuffixUnknown
	}
	return FullyKnown
}

// Segmentation is a materialized segmentation result for one word form.
type Segmentation struct {
	Word   string
	Pieces []WordPiece
	Shape  Shape
}

// Len returns the number of pieces, Missing not counted.
func (seg Segmentation) Len() int {
	if seg.Shape == FullyUnknown || seg.Shape == SuffixUnknown {
		return len(seg.Pieces) - 1
	}
	return len(seg.Pieces)
}

// Strings returns the texts of all non-missing pieces.
func (seg Segmentation) Strings() []string {
	s := make([]string, 0, len(seg.Pieces))
	for _, wp := range seg.Pieces {
		if p, ok := wp.Piece(); ok {
			s = append(s, p)
		}
	}
	return s
}
