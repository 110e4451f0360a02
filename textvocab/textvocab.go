/*
Package textvocab reads word-piece vocabularies from plain text.

The format is one piece per line, without a header. Only the line terminator
("\n" or "\r\n") is removed; every other character, including leading,
trailing or embedded spaces and tabs, is part of the piece. A UTF-8 byte order
mark at the very start of the input is dropped. Blank lines would denote empty
pieces and make the vocabulary malformed, unless Options.SkipBlank is set.

Example:

	f, _ := os.Open("path/to/vocab.txt")
	defer f.Close()

	vocab, err := textvocab.LoadVocabulary("bert-base-cased", f, textvocab.Options{})
*/
package textvocab

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/wordpieces"
)

// tracer writes to trace with key 'wordpieces'
func tracer() tracing.Trace {
	return tracing.Select("wordpieces")
}

const byteOrderMark = "\uFEFF"

// maxLineLength bounds a single vocabulary line.
const maxLineLength = 1024 * 1024

// Options control how vocabulary text is interpreted.
type Options struct {
	Backend   wordpieces.Backend // piece-set backend, empty selects wordpieces.DefaultBackend
	SkipBlank bool               // ignore blank lines instead of rejecting them
}

// PieceReader streams pieces from line-oriented text.
type PieceReader struct {
	scanner   *bufio.Scanner
	skipBlank bool
	line      int
}

// NewPieceReader creates a reader yielding one piece per line of reader.
func NewPieceReader(reader io.Reader, opts Options) *PieceReader {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	return &PieceReader{
		scanner:   scanner,
		skipBlank: opts.SkipBlank,
	}
}

// Line returns the number of the line most recently read.
func (r *PieceReader) Line() int {
	return r.line
}

// Next returns the next piece.
// It returns io.EOF when exhausted.
func (r *PieceReader) Next() (string, error) {
	for r.scanner.Scan() {
		r.line++
		piece := r.scanner.Text()
		if r.line == 1 {
			piece = strings.TrimPrefix(piece, byteOrderMark)
		}
		if piece == "" {
			if r.skipBlank {
				continue
			}
			return "", fmt.Errorf("%w: blank line %d", wordpieces.ErrMalformedVocabulary, r.line)
		}
		return piece, nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// LoadVocabulary parses vocabulary text and returns a frozen vocabulary.
func LoadVocabulary(name string, reader io.Reader, opts Options) (*wordpieces.Vocabulary, error) {
	backend := opts.Backend
	if backend == "" {
		backend = wordpieces.DefaultBackend
	}
	r := NewPieceReader(reader, opts)
	vocab, err := wordpieces.LoadVocabulary(name, r, backend)
	if err != nil {
		tracer().Errorf("cannot load vocabulary %s near line %d: %v", name, r.Line(), err)
		return nil, err
	}
	return vocab, nil
}

// LoadFile reads a vocabulary from the file at path. Failures to open or
// read the file wrap wordpieces.ErrUnreadableSource and name the path.
func LoadFile(path string, opts Options) (*wordpieces.Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open word pieces file: %s: %w: %w", path, wordpieces.ErrUnreadableSource, err)
	}
	defer f.Close()
	vocab, err := LoadVocabulary(path, f, opts)
	if err != nil {
		if errors.Is(err, wordpieces.ErrMalformedVocabulary) {
			return nil, fmt.Errorf("cannot read word pieces from: %s: %w", path, err)
		}
		return nil, fmt.Errorf("cannot read word pieces from: %s: %w: %w", path, wordpieces.ErrUnreadableSource, err)
	}
	return vocab, nil
}
