package wordpieces

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// PieceReader yields vocabulary entries one-by-one.
// It should return io.EOF when the stream is exhausted.
type PieceReader interface {
	Next() (piece string, err error)
}

// Vocabulary is a frozen set of word pieces.
//
// Membership is exact: pieces are compared byte by byte, without any case
// folding or normalization. A Vocabulary is never modified after loading and
// is safe for concurrent use.
type Vocabulary struct {
	set        pieceSet
	backend    Backend
	size       int    // distinct pieces
	maxLen     int    // longest piece in runes
	Identifier string // "wordpieces: <name>", used in traces
}

// VocabularyStats reports size and density metrics of a vocabulary.
type VocabularyStats struct {
	Backend     Backend
	Pieces      int
	MaxPieceLen int
	UsedSlots   int
	TotalSlots  int
	FillRatio   float64
}

// LoadVocabulary builds a vocabulary from a streaming source.
//
// File format parsing is outside of this package. Use adapters like package
// textvocab to parse concrete formats and feed this API. Duplicate pieces are
// stored once. An empty piece makes the vocabulary malformed, since it would
// match at every position.
func LoadVocabulary(name string, reader PieceReader, backend Backend) (vocab *Vocabulary, err error) {
	set, err := newPieceSet(backend)
	if err != nil {
		return nil, err
	}
	vocab = &Vocabulary{
		set:        set,
		backend:    backend,
		Identifier: fmt.Sprintf("wordpieces: %s", name),
	}
	var piece string
	for entry := 1; ; entry++ {
		piece, err = reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if piece == "" {
			return nil, fmt.Errorf("%w: empty piece at entry %d of %s", ErrMalformedVocabulary, entry, name)
		}
		var added bool
		if added, err = vocab.set.Insert(piece); err != nil {
			return nil, fmt.Errorf("%w: entry %d of %s: %w", ErrMalformedVocabulary, entry, name, err)
		}
		if !added {
			tracer().Debugf("duplicate piece %q at entry %d", piece, entry)
			continue
		}
		vocab.size++
		vocab.maxLen = max(vocab.maxLen, utf8.RuneCountInString(piece))
	}
	vocab.set.Freeze()
	stats := vocab.Stats()
	tracer().Infof("%s backend=%s pieces=%d maxlen=%d used=%d total=%d fill=%.2f",
		vocab.Identifier, stats.Backend, stats.Pieces, stats.MaxPieceLen, stats.UsedSlots, stats.TotalSlots, stats.FillRatio)
	return vocab, nil
}

// Build creates a vocabulary from an in-memory list of pieces, using the
// default backend.
func Build(pieces []string) (*Vocabulary, error) {
	return LoadVocabulary("list", PieceList(pieces), DefaultBackend)
}

// PieceList returns a PieceReader over an in-memory list.
func PieceList(pieces []string) PieceReader {
	return &slicePieceReader{pieces: pieces}
}

type slicePieceReader struct {
	pieces []string
	index  int
}

func (r *slicePieceReader) Next() (string, error) {
	if r.index >= len(r.pieces) {
		return "", io.EOF
	}
	piece := r.pieces[r.index]
	r.index++
	return piece, nil
}

// Contains reports whether candidate is a piece of the vocabulary.
func (vocab *Vocabulary) Contains(candidate string) bool {
	if vocab == nil || vocab.set == nil {
		return false
	}
	return vocab.set.Contains(candidate)
}

// Len returns the number of distinct pieces.
func (vocab *Vocabulary) Len() int {
	if vocab == nil {
		return 0
	}
	return vocab.size
}

// MaxPieceLen returns the length of the longest piece, in runes.
func (vocab *Vocabulary) MaxPieceLen() int {
	if vocab == nil {
		return 0
	}
	return vocab.maxLen
}

// Backend returns the piece-set implementation backing vocab.
func (vocab *Vocabulary) Backend() Backend {
	if vocab == nil {
		return ""
	}
	return vocab.backend
}

// Stats reports size and density metrics for the underlying piece set.
func (vocab *Vocabulary) Stats() VocabularyStats {
	if vocab == nil || vocab.set == nil {
		return VocabularyStats{}
	}
	s := vocab.set.Stats()
	return VocabularyStats{
		Backend:     Backend(s.Backend),
		Pieces:      s.Pieces,
		MaxPieceLen: vocab.maxLen,
		UsedSlots:   s.UsedSlots,
		TotalSlots:  s.TotalSlots,
		FillRatio:   s.FillRatio(),
	}
}
