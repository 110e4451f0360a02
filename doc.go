/*
Package wordpieces splits word forms into word pieces drawn from a fixed vocabulary.

Segmentation is greedy longest-match, left to right, on rune boundaries: at each
position the longest vocabulary entry starting there is taken, and the cursor
advances past it. If no entry matches at some position, a single Missing piece
is produced and segmentation of that word stops. There is no recovery by
skipping characters.

A vocabulary is loaded once from a streaming PieceReader (see package textvocab
for the line-oriented file format) and frozen into one of several piece-set
backends. The default backend is a double-array trie (DAT), which also
answers longest-prefix queries in a single forward walk. A vocabulary is
read-only after construction and may be shared between goroutines.

Example:

	vocab, _ := wordpieces.Build([]string{"un", "believ", "able"})
	for wp := range vocab.Split("unbelievable") {
		fmt.Println(wp) // "un", "believ", "able"
	}

Further Reading

	https://arxiv.org/abs/1609.08144   (Wu et al., Google's Neural Machine Translation System)
	https://huggingface.co/learn/nlp-course/chapter6/6

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package wordpieces

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'wordpieces'
func tracer() tracing.Trace {
	return tracing.Select("wordpieces")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
