package wordpieces

import "errors"

// ErrMalformedVocabulary is returned when a vocabulary cannot be constructed
// from its source, e.g. because it contains an empty piece.
var ErrMalformedVocabulary = errors.New("malformed vocabulary")

// ErrUnreadableSource flags a vocabulary or corpus source which cannot be
// opened or read. Loaders wrap it together with the offending path.
var ErrUnreadableSource = errors.New("unreadable source")
