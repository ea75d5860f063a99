package obo

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/c360/semvocab/cv"
	"github.com/c360/semvocab/errors"
)

// Load parses an OBO document from r and builds a vocabulary from it, with
// the document header attached as vocabulary metadata.
func Load(r io.Reader, opts ...Option) (*cv.Vocabulary, error) {
	doc, err := Parse(r, opts...)
	if err != nil {
		return nil, err
	}
	vocabOpts := append([]cv.Option{cv.WithMetadata(doc.Header)}, doc.vocabOpts...)
	return cv.New(doc.Terms, vocabOpts...)
}

// LoadFile loads a vocabulary from an OBO file on disk. Files with a .gz
// suffix are decompressed transparently.
func LoadFile(path string, opts ...Option) (*cv.Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "obo", "LoadFile", fmt.Sprintf("open %s", path))
	}
	defer func() { _ = f.Close() }()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.WrapInvalid(err, "obo", "LoadFile",
				fmt.Sprintf("open gzip stream %s", path))
		}
		defer func() { _ = gz.Close() }()
		reader = gz
	}

	return Load(reader, opts...)
}
