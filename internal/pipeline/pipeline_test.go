package pipeline

import (
	"context"
	"errors"
	"io"
	"strconv"
	"testing"

	"github.com/npillmayer/wordpieces/conllx"
	"github.com/stretchr/testify/require"
)

type sliceSentenceReader struct {
	sentences []*conllx.Sentence
	index     int
	err       error // returned after all sentences, io.EOF if nil
}

func (r *sliceSentenceReader) Next() (*conllx.Sentence, error) {
	if r.index >= len(r.sentences) {
		if r.err != nil {
			return nil, r.err
		}
		return nil, io.EOF
	}
	s := r.sentences[r.index]
	r.index++
	return s, nil
}

func sentences(n int) []*conllx.Sentence {
	s := make([]*conllx.Sentence, n)
	for i := range s {
		s[i] = &conllx.Sentence{Tokens: []conllx.Token{{ID: 1, Form: strconv.Itoa(i)}}}
	}
	return s
}

func firstForm(s *conllx.Sentence) string {
	return s.Tokens[0].Form
}

func collect(t *testing.T, r SentenceReader, opts Options) ([]string, error) {
	t.Helper()
	var got []string
	err := Run(context.Background(), r, opts, firstForm, func(form string) error {
		got = append(got, form)
		return nil
	})
	return got, err
}

func TestRunKeepsOrder(t *testing.T) {
	for _, opts := range []Options{
		{Workers: 1, BatchSize: 1},
		{Workers: 4, BatchSize: 3},
		{Workers: 8, BatchSize: 100},
		{}, // normalized to sequential
	} {
		got, err := collect(t, &sliceSentenceReader{sentences: sentences(10)}, opts)
		require.NoError(t, err)
		want := make([]string, 10)
		for i := range want {
			want[i] = strconv.Itoa(i)
		}
		require.Equal(t, want, got, "options %+v", opts)
	}
}

func TestRunEmpty(t *testing.T) {
	got, err := collect(t, &sliceSentenceReader{}, Options{Workers: 2, BatchSize: 2})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestRunReaderError(t *testing.T) {
	boom := errors.New("boom")
	got, err := collect(t, &sliceSentenceReader{sentences: sentences(5), err: boom}, Options{Workers: 2, BatchSize: 2})
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "cannot read sentence")
	require.Equal(t, []string{"0", "1", "2", "3", "4"}, got, "sentences before the error are emitted")
}

func TestRunEmitError(t *testing.T) {
	stop := errors.New("stop")
	n := 0
	err := Run(context.Background(), &sliceSentenceReader{sentences: sentences(10)}, Options{Workers: 2, BatchSize: 4},
		firstForm, func(string) error {
			n++
			if n == 3 {
				return stop
			}
			return nil
		})
	require.ErrorIs(t, err, stop)
	require.Equal(t, 3, n)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Run(ctx, &sliceSentenceReader{sentences: sentences(3)}, Options{Workers: 2, BatchSize: 2},
		firstForm, func(string) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}
