package network

import (
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"golang.org/x/exp/mmap"
)

// source is a readable edge table plus everything that must be closed with it.
type source struct {
	io.Reader
	closers []io.Closer
}

func (s *source) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// openSource opens path for reading. ".sz" files are snappy framed streams,
// ".gz" files are gzip streams and anything else is memory-mapped.
func openSource(path string) (io.ReadCloser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sz":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		return &source{Reader: snappy.NewReader(f), closers: []io.Closer{f}}, nil
	case ".gz":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &source{Reader: gz, closers: []io.Closer{gz, f}}, nil
	default:
		ra, err := mmap.Open(path)
		if err != nil {
			return nil, err
		}
		return &source{
			Reader:  io.NewSectionReader(ra, 0, int64(ra.Len())),
			closers: []io.Closer{ra},
		}, nil
	}
}
