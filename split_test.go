package wordpieces

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// render prints a segmentation result compactly, e.g. "un|work|?".
func render(pieces []WordPiece) string {
	s := make([]string, len(pieces))
	for i, wp := range pieces {
		if wp.IsMissing() {
			s[i] = "?"
			continue
		}
		s[i], _ = wp.Piece()
	}
	return strings.Join(s, "|")
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		vocab []string
		word  string
		want  string
		shape Shape
	}{
		{"empty word", []string{"a"}, "", "", Empty},
		{"longest match wins", []string{"a", "ab"}, "ab", "ab", FullyKnown},
		{"longest match wins, reversed order", []string{"ab", "a"}, "ab", "ab", FullyKnown},
		{"fully unknown", []string{"cat"}, "dog", "?", FullyUnknown},
		{"suffix unknown", []string{"un", "##able"}, "unworkable", "un|?", SuffixUnknown},
		{"no recovery after failure", []string{"un", "able"}, "unxable", "un|?", SuffixUnknown},
		{"greedy is not optimal", []string{"abc", "ab", "cd"}, "abcd", "abc|?", SuffixUnknown},
		{"multiple pieces", []string{"un", "believ", "able", "a"}, "unbelievable", "un|believ|able", FullyKnown},
		{"single characters", []string{"d", "o", "g"}, "dog", "d|o|g", FullyKnown},
		{"case sensitive", []string{"dog"}, "Dog", "?", FullyUnknown},
		{"multi-byte runes", []string{"ü", "ber", "grö", "ße"}, "übergröße", "ü|ber|grö|ße", FullyKnown},
		{"astral runes", []string{"😀", "x"}, "x😀x", "x|😀|x", FullyKnown},
		{"invalid utf-8 byte", []string{"a", "\xff"}, "a\xffa", "a|\xff|a", FullyKnown},
		{"invalid byte is not U+FFFD", []string{"a", "�"}, "a\xff", "a|?", SuffixUnknown},
		{"empty vocabulary", nil, "a", "?", FullyUnknown},
		{"piece longer than word", []string{"abcdef"}, "abc", "?", FullyUnknown},
	}
	for _, backend := range allBackends {
		for _, tt := range tests {
			t.Run(string(backend)+"/"+tt.name, func(t *testing.T) {
				vocab := mustLoad(t, backend, tt.vocab...)
				seg := vocab.Segment(tt.word)
				if diff := cmp.Diff(tt.want, render(seg.Pieces)); diff != "" {
					t.Fatalf("unexpected pieces for %q (-want +got):\n%s", tt.word, diff)
				}
				if seg.Shape != tt.shape {
					t.Fatalf("shape of %q is %s, want %s", tt.word, seg.Shape, tt.shape)
				}
			})
		}
	}
}

func TestSplitEmptyWordYieldsNothing(t *testing.T) {
	vocab := mustLoad(t, DATBackend, "a")
	for range vocab.Split("") {
		t.Fatalf("empty word should yield no pieces")
	}
}

func TestMissingOnlyAtEnd(t *testing.T) {
	vocab := mustLoad(t, DATBackend, "ab", "b", "ba", "c")
	words := []string{"abba", "abc", "cab", "xab", "abx", "babab", "ccx", "a", "aaa"}
	for _, w := range words {
		pieces := vocab.SplitAll(w)
		for i, wp := range pieces {
			if wp.IsMissing() && i != len(pieces)-1 {
				t.Fatalf("%q: Missing at position %d of %d", w, i, len(pieces))
			}
			if p, ok := wp.Piece(); ok && p == "" {
				t.Fatalf("%q: zero-length piece", w)
			}
		}
	}
}

func TestKnownCharactersNeverFail(t *testing.T) {
	word := "mississippi"
	var alphabet []string
	for _, r := range word {
		alphabet = append(alphabet, string(r))
	}
	for _, backend := range allBackends {
		vocab := mustLoad(t, backend, append(alphabet, "iss", "ssi", "ppi", "missi")...)
		seg := vocab.Segment(word)
		if seg.Shape != FullyKnown {
			t.Fatalf("backend %s: %q should be fully known, is %s", backend, word, seg.Shape)
		}
		if got := strings.Join(seg.Strings(), ""); got != word {
			t.Fatalf("backend %s: pieces do not cover %q: %q", backend, word, got)
		}
		if diff := cmp.Diff([]string{"missi", "ssi", "ppi"}, seg.Strings()); diff != "" {
			t.Fatalf("backend %s: expected longest matches (-want +got):\n%s", backend, diff)
		}
	}
}

func TestSplitIsIdempotent(t *testing.T) {
	vocab := mustLoad(t, DATBackend, "un", "work", "able")
	seq := vocab.Split("unworkable")
	first := render(vocab.SplitAll("unworkable"))
	for range 3 {
		var again []WordPiece
		for wp := range seq {
			again = append(again, wp)
		}
		if render(again) != first {
			t.Fatalf("segmentation changed between runs: %q vs %q", first, render(again))
		}
	}
}

func TestSplitStopsEarly(t *testing.T) {
	vocab := mustLoad(t, DATBackend, "a")
	n := 0
	for range vocab.Split("aaaaaaaa") {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Fatalf("expected to stop after 2 pieces, got %d", n)
	}
}

// The DAT backend answers longest matches by a forward walk, the others by
// probing candidates from longest to shortest. Both must agree.
func TestBackendsAgree(t *testing.T) {
	pieces := []string{"a\x00", "\x00b", "a", "b", "ab", "abc", "bca", "ca", "cab", "ü", "üb", "bü", "c"}
	words := []string{"abcabc", "cabüb", "üüb", "bcab", "abcd", "dabc", "ccab", "ab\xffc", "a\x00", "a\x00\x00b", "a\uFFFDb", ""}
	vocabs := make(map[Backend]*Vocabulary)
	for _, backend := range allBackends {
		vocabs[backend] = mustLoad(t, backend, pieces...)
	}
	for _, w := range words {
		want := render(vocabs[HashBackend].SplitAll(w))
		for _, backend := range allBackends {
			if got := render(vocabs[backend].SplitAll(w)); got != want {
				t.Fatalf("backend %s splits %q as %q, hash backend as %q", backend, w, got, want)
			}
		}
	}
}

func TestSplitNulPieces(t *testing.T) {
	for _, backend := range allBackends {
		vocab := mustLoad(t, backend, "a\x00", "a")
		if got := render(vocab.SplitAll("a\x00")); got != "a\x00" {
			t.Fatalf("backend %s splits %q as %q", backend, "a\x00", got)
		}
		if got := render(vocab.SplitAll("a\uFFFD")); got != "a|?" {
			t.Fatalf("backend %s splits %q as %q", backend, "a\uFFFD", got)
		}
	}
}

func TestSegmentationLen(t *testing.T) {
	vocab := mustLoad(t, HashBackend, "un", "work")
	tests := []struct {
		word string
		want int
	}{
		{"unwork", 2},
		{"unworkable", 2},
		{"able", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := vocab.Segment(tt.word).Len(); got != tt.want {
			t.Fatalf("Len of %q = %d, want %d", tt.word, got, tt.want)
		}
	}
}

func TestWordPieceString(t *testing.T) {
	if Missing.String() != "<missing>" {
		t.Fatalf("unexpected string for Missing: %q", Missing.String())
	}
	if p, ok := Piece("ab").Piece(); !ok || p != "ab" {
		t.Fatalf("unexpected piece: %q, %v", p, ok)
	}
	if _, ok := Missing.Piece(); ok {
		t.Fatalf("Missing should not carry a piece")
	}
}
