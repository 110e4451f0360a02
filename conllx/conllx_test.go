package conllx

import (
	"errors"
	"io"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/npillmayer/wordpieces"
)

func tokenLine(id, form string) string {
	return id + "\t" + form + "\t_\t_\t_\t_\t0\troot\t_\t_"
}

func TestReader(t *testing.T) {
	src := strings.Join([]string{
		"# sent_id = a",
		tokenLine("1", "Hello"),
		tokenLine("2", "world"),
		"",
		"",
		tokenLine("1", "Bye"),
	}, "\n")
	r := NewReader(strings.NewReader(src))
	sent, err := r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if !reflect.DeepEqual(sent.Forms(), []string{"Hello", "world"}) {
		t.Fatalf("forms mismatch: %v", sent.Forms())
	}
	if !reflect.DeepEqual(sent.Comments, []string{"# sent_id = a"}) {
		t.Fatalf("comments mismatch: %v", sent.Comments)
	}
	if sent.Line != 1 || sent.Tokens[1].ID != 2 || sent.Tokens[1].DepRel != "root" {
		t.Fatalf("unexpected sentence %+v", sent)
	}
	sent, err = r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if !reflect.DeepEqual(sent.Forms(), []string{"Bye"}) || sent.Line != 6 {
		t.Fatalf("unexpected second sentence %+v", sent)
	}
	if _, err = r.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestReaderCommentOnlyBlocks(t *testing.T) {
	src := strings.Join([]string{
		"# newdoc id = d1",
		"",
		"# sent_id = 1",
		tokenLine("1", "cat"),
		"",
		"# newdoc",
		"",
		tokenLine("1", "dog"),
		"",
		"# trailing",
		"",
	}, "\n")
	r := NewReader(strings.NewReader(src))
	tests := []struct {
		forms    []string
		comments []string
		line     int
	}{
		{[]string{"cat"}, []string{"# newdoc id = d1", "# sent_id = 1"}, 1},
		{[]string{"dog"}, []string{"# newdoc"}, 6},
	}
	for i, tt := range tests {
		sent, err := r.Next()
		if err != nil {
			t.Fatalf("sentence %d: %v", i, err)
		}
		if !reflect.DeepEqual(sent.Forms(), tt.forms) || !reflect.DeepEqual(sent.Comments, tt.comments) || sent.Line != tt.line {
			t.Fatalf("sentence %d: unexpected %+v", i, sent)
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF after trailing comments, got %v", err)
	}
}

func TestReaderSkipsMultiwordAndEmptyNodes(t *testing.T) {
	src := strings.Join([]string{
		tokenLine("1-2", "vámonos"),
		tokenLine("1", "vamos"),
		tokenLine("2", "nos"),
		tokenLine("2.1", "_"),
		tokenLine("3", "ya"),
	}, "\n")
	sent, err := NewReader(strings.NewReader(src)).Next()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(sent.Forms(), []string{"vamos", "nos", "ya"}) {
		t.Fatalf("forms mismatch: %v", sent.Forms())
	}
}

func TestReaderParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"too few fields", "1\tHello\t_", 1},
		{"bad id", tokenLine("x", "Hello"), 1},
		{"zero id", tokenLine("0", "Hello"), 1},
		{"gap in ids", tokenLine("1", "a") + "\n" + tokenLine("3", "b"), 2},
		{"empty form", tokenLine("1", ""), 1},
	}
	for _, tt := range tests {
		r := NewReader(strings.NewReader(tt.src))
		r.Name = "corpus.conll"
		_, err := r.Next()
		if !errors.Is(err, ErrCorpusParse) {
			t.Fatalf("%s: expected ErrCorpusParse, got %v", tt.name, err)
		}
		var perr *ParseError
		if !errors.As(err, &perr) || perr.Line != tt.line {
			t.Fatalf("%s: expected parse error at line %d, got %v", tt.name, tt.line, err)
		}
		if !strings.HasPrefix(err.Error(), "corpus.conll:") {
			t.Fatalf("%s: error should name the source: %v", tt.name, err)
		}
		if _, again := r.Next(); again != err {
			t.Fatalf("%s: reader should keep failing with the same error", tt.name)
		}
	}
}

func TestSentencesIterator(t *testing.T) {
	src := tokenLine("1", "a") + "\n\n" + tokenLine("1", "b") + "\n\n" + "broken\n"
	var forms []string
	var lastErr error
	for sent, err := range NewReader(strings.NewReader(src)).Sentences() {
		if err != nil {
			lastErr = err
			break
		}
		forms = append(forms, sent.Forms()...)
	}
	if !reflect.DeepEqual(forms, []string{"a", "b"}) {
		t.Fatalf("forms mismatch: %v", forms)
	}
	if !errors.Is(lastErr, ErrCorpusParse) {
		t.Fatalf("expected parse error, got %v", lastErr)
	}
}

func TestOpenFixture(t *testing.T) {
	r, err := Open(filepath.Join("..", "testdata", "corpus.conllu"))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	var got [][]string
	for sent, err := range r.Sentences() {
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, sent.Forms())
	}
	want := [][]string{
		{"The", "cats", "."},
		{"unworkable", "dog", "'s", "unknown"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("forms mismatch: got %v, want %v", got, want)
	}
}

func TestOpenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.conll")
	_, err := Open(path)
	if !errors.Is(err, wordpieces.ErrUnreadableSource) {
		t.Fatalf("expected ErrUnreadableSource, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("error should name the path: %v", err)
	}
}
