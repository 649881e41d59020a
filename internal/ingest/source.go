package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrSourceOpen marks failures to open the template line source.
var ErrSourceOpen = errors.New("open template source")

// Source yields the external sequence of encoded template lines. Open is
// called once per pass; exhaustion of the reader ends the pass.
type Source interface {
	Open() (io.ReadCloser, error)
	Name() string
}

// FileSource reads encoded templates from a text file, one per line.
type FileSource struct {
	Path string
}

func (s FileSource) Open() (io.ReadCloser, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceOpen, err)
	}
	return file, nil
}

func (s FileSource) Name() string {
	return filepath.Base(s.Path)
}
