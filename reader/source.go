/*
 * source.go, part of gochemio.
 *
 *
 * Copyright 2024 rmeraaatacademicosdotutadotcl
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 * goChem is developed at Universidad de Tarapaca (UTA)
 *
 *
 */

package reader

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	chem "github.com/rmera/gochemio"
)

// Lines is a lazy sequence of text lines.
type Lines interface {
	Next() bool
	Line() string
	Err() error
}

//maximum line length accepted. Some Gaussian outputs have very long lines.
const maxLine = 16 * 1024 * 1024

// Source is a lazy sequence of the lines in a, possibly compressed, file.
// If a comment marker is given, everything from the marker to the end of each
// line is removed before the line is handed out.
type Source struct {
	Path    string
	marker  string
	sc      *bufio.Scanner
	closers []io.Closer //closed in reverse order
	line    string
}

// NewSource returns a Source reading from r. The caller keeps the ownership of r.
func NewSource(r io.Reader, marker string) *Source {
	S := &Source{marker: marker}
	S.sc = bufio.NewScanner(r)
	S.sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	return S
}

//Also, why couldn't *zstd.Decoder implement io.ReadCloser? :-(
type stdql struct {
	closeql func()
	*zstd.Decoder
}

//Close Closes the object. It can not be used after this call
func (s stdql) Close() error {
	s.closeql()
	return nil
}

// Open opens the file name for reading. Files ending in .gz, .zst or .zz are
// transparently decompressed with gzip, zstd or flate respectively.
// The returned Source owns the file, and must be closed.
func Open(name, marker string) (*Source, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, chem.NewError(fmt.Sprintf("%s %s: %s", chem.UnableToOpen, name, err.Error()), "reader.Open", true)
	}
	closers := []io.Closer{f}
	var AnyNewReader func(io.Reader) (io.ReadCloser, error)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		AnyNewReader = func(a io.Reader) (io.ReadCloser, error) { return gzip.NewReader(a) }
	case ".zst":
		AnyNewReader = func(a io.Reader) (io.ReadCloser, error) {
			r, err := zstd.NewReader(a)
			if err != nil {
				return nil, err
			}
			return stdql{r.Close, r}, nil
		}
	case ".zz":
		AnyNewReader = func(a io.Reader) (io.ReadCloser, error) { return flate.NewReader(a), nil }
	}
	var r io.Reader = bufio.NewReader(f)
	if AnyNewReader != nil {
		dec, err := AnyNewReader(r)
		if err != nil {
			f.Close()
			return nil, chem.NewError(fmt.Sprintf("%s %s: can't decompress: %s", chem.UnableToOpen, name, err.Error()), "reader.Open", true)
		}
		closers = append(closers, dec)
		r = dec
	}
	S := NewSource(r, marker)
	S.Path = name
	S.closers = closers
	return S, nil
}

// Next advances to the next line. It returns false at the end of the input
// or on error.
func (S *Source) Next() bool {
	if !S.sc.Scan() {
		return false
	}
	line := strings.TrimSuffix(S.sc.Text(), "\r")
	if S.marker != "" {
		if i := strings.Index(line, S.marker); i >= 0 {
			line = line[:i]
		}
	}
	S.line = line
	return true
}

// Line returns the current line, without the line terminator.
func (S *Source) Line() string { return S.line }

// Err returns the first non-EOF error found while reading.
func (S *Source) Err() error { return S.sc.Err() }

// Close releases all the resources owned by the Source. It is safe to call
// more than once.
func (S *Source) Close() error {
	var err error
	for i := len(S.closers) - 1; i >= 0; i-- {
		if e := S.closers[i].Close(); e != nil && err == nil {
			err = e
		}
	}
	S.closers = nil
	return err
}

var compressed = map[string]bool{".gz": true, ".zst": true, ".zz": true}

// Ext returns the lowercase extension of name that identifies its format,
// ignoring a compression suffix, so Ext("1crn.pdb.gz") is ".pdb".
func Ext(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if compressed[ext] {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(name, filepath.Ext(name))))
	}
	return ext
}
