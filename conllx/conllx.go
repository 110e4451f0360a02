/*
Package conllx reads dependency-annotated corpora in CoNLL-X and CoNLL-U format.

Sentences are separated by blank lines. Lines starting with '#' are comments.
Every other line is a token with 10 tab-separated columns:

	ID  FORM  LEMMA  CPOSTAG  POSTAG  FEATS  HEAD  DEPREL  PHEAD  PDEPREL

CoNLL-U multiword-token ranges ("3-4") and empty nodes ("5.1") are accepted
but skipped, as they are not tokens of the dependency graph. Token IDs of a
sentence must run from 1 without gaps. A block without tokens, such as a
"# newdoc" comment block, is not a sentence: its comments are carried over to
the next sentence, or dropped at the end of input.

Reading is fail-fast: the first malformed line ends reading with a
*ParseError, which wraps ErrCorpusParse.
*/
package conllx

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/wordpieces"
)

// tracer writes to trace with key 'wordpieces'
func tracer() tracing.Trace {
	return tracing.Select("wordpieces")
}

// ErrCorpusParse is wrapped by every ParseError.
var ErrCorpusParse = errors.New("cannot parse corpus")

// ParseError reports a malformed corpus line.
type ParseError struct {
	Source string // name of the corpus, may be empty
	Line   int
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return ErrCorpusParse
}

const fieldCount = 10

const maxLineLength = 1024 * 1024

// Token is one token line of a sentence.
type Token struct {
	ID      int
	Form    string
	Lemma   string
	CPOSTag string
	POSTag  string
	Feats   string
	Head    string
	DepRel  string
	PHead   string
	PDepRel string
}

// Sentence is a sequence of tokens plus the comments preceding them.
type Sentence struct {
	Comments []string
	Tokens   []Token
	Line     int // line number of the first line of the sentence
}

// Forms returns the surface forms of all tokens, in order.
func (s *Sentence) Forms() []string {
	forms := make([]string, len(s.Tokens))
	for i, tok := range s.Tokens {
		forms[i] = tok.Form
	}
	return forms
}

// Reader streams sentences from CoNLL text.
type Reader struct {
	scanner *bufio.Scanner
	line    int
	err     error
	Name    string // used in parse errors
}

// NewReader creates a sentence reader over CoNLL text. Set Name to have
// parse errors name their source.
func NewReader(reader io.Reader) *Reader {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	return &Reader{scanner: scanner}
}

// Next returns the next sentence.
// It returns io.EOF when exhausted. After an error, every call returns that error.
func (r *Reader) Next() (*Sentence, error) {
	if r.err != nil {
		return nil, r.err
	}
	sent, err := r.next()
	if err != nil {
		r.err = err
	}
	return sent, err
}

func (r *Reader) next() (*Sentence, error) {
	var sent *Sentence
	skipped := 0 // multiword ranges and empty nodes
	for r.scanner.Scan() {
		r.line++
		line := r.scanner.Text()
		if strings.TrimSpace(line) == "" {
			if sent != nil && len(sent.Tokens) > 0 {
				return sent, nil
			}
			continue
		}
		if sent == nil {
			sent = &Sentence{Line: r.line}
		}
		if strings.HasPrefix(line, "#") {
			sent.Comments = append(sent.Comments, line)
			continue
		}
		tok, ok, err := r.parseToken(line, len(sent.Tokens)+1)
		if err != nil {
			return nil, err
		}
		if !ok {
			skipped++
			continue
		}
		sent.Tokens = append(sent.Tokens, tok)
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", r.Name, wordpieces.ErrUnreadableSource, err)
	}
	if skipped > 0 {
		tracer().Debugf("skipped %d multiword/empty-node lines in last sentence", skipped)
	}
	if sent == nil {
		return nil, io.EOF
	}
	if len(sent.Tokens) == 0 {
		tracer().Debugf("dropped %d comment lines without tokens at end of input", len(sent.Comments))
		return nil, io.EOF
	}
	return sent, nil
}

// parseToken parses a token line. ok is false for lines which are valid but
// do not denote a token.
func (r *Reader) parseToken(line string, expectedID int) (tok Token, ok bool, err error) {
	fields := strings.Split(line, "\t")
	if len(fields) != fieldCount {
		return tok, false, r.parseError("expected %d tab-separated fields, found %d", fieldCount, len(fields))
	}
	id := fields[0]
	if strings.ContainsAny(id, "-.") {
		return tok, false, nil
	}
	tok.ID, err = strconv.Atoi(id)
	if err != nil || tok.ID <= 0 {
		return tok, false, r.parseError("invalid token ID %q", id)
	}
	if tok.ID != expectedID {
		return tok, false, r.parseError("token ID %d out of sequence, expected %d", tok.ID, expectedID)
	}
	if fields[1] == "" {
		return tok, false, r.parseError("empty FORM for token %d", tok.ID)
	}
	tok.Form = fields[1]
	tok.Lemma = fields[2]
	tok.CPOSTag = fields[3]
	tok.POSTag = fields[4]
	tok.Feats = fields[5]
	tok.Head = fields[6]
	tok.DepRel = fields[7]
	tok.PHead = fields[8]
	tok.PDepRel = fields[9]
	return tok, true, nil
}

func (r *Reader) parseError(format string, args ...any) error {
	return &ParseError{Source: r.Name, Line: r.line, Msg: fmt.Sprintf(format, args...)}
}

// Sentences returns an iterator over all remaining sentences. Iteration stops
// after the first error, which is yielded together with a nil sentence.
func (r *Reader) Sentences() iter.Seq2[*Sentence, error] {
	return func(yield func(*Sentence, error) bool) {
		for {
			sent, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(sent, err) || err != nil {
				return
			}
		}
	}
}
