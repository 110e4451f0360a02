package conllx

import (
	"fmt"
	"os"

	"github.com/npillmayer/wordpieces"
)

// FileReader is a Reader over a corpus file.
type FileReader struct {
	*Reader
	f *os.File
}

// Open opens the corpus at path for reading. Failure to open the file wraps
// wordpieces.ErrUnreadableSource and names the path.
func Open(path string) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open corpus: %s: %w: %w", path, wordpieces.ErrUnreadableSource, err)
	}
	r := NewReader(f)
	r.Name = path
	return &FileReader{Reader: r, f: f}, nil
}

// Close closes the underlying file.
func (fr *FileReader) Close() error {
	return fr.f.Close()
}
