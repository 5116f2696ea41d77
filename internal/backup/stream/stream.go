// Package stream moves records in and out of backup archives as JSONL, one
// JSON document per line. Streaming keeps memory flat no matter how many
// records a backup holds.
package stream

import (
	"archive/zip"
	"bufio"
	"errors"
	"io"
	"iter"

	"encoding/json/v2"
)

// ErrFileNotFound indicates the named file is missing from the archive.
var ErrFileNotFound = errors.New("file not found in backup")

// maxLineSize bounds a single JSONL line. Book descriptions can get long
// but nothing legitimate approaches this.
const maxLineSize = 16 * 1024 * 1024

// Writer appends records as JSON lines to one file inside a zip archive.
type Writer struct {
	w     io.Writer
	count int
}

// NewWriter opens a new archive entry at path and returns a writer for it.
// Entries must be written one at a time; finish this writer before creating
// the next archive entry.
func NewWriter(zw *zip.Writer, path string) (*Writer, error) {
	w, err := zw.Create(path)
	if err != nil {
		return nil, err
	}
	return &Writer{w: w}, nil
}

// Write appends one record as a JSON line.
func (w *Writer) Write(record any) error {
	if err := json.MarshalWrite(w.w, record); err != nil {
		return err
	}
	if _, err := w.w.Write([]byte{'\n'}); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count reports how many records have been written.
func (w *Writer) Count() int {
	return w.count
}

// OpenFile opens the named file inside the archive for reading.
func OpenFile(zr *zip.ReadCloser, path string) (io.ReadCloser, error) {
	for _, f := range zr.File {
		if f.Name == path {
			return f.Open()
		}
	}
	return nil, ErrFileNotFound
}

// Reader decodes records of type T from a JSONL stream.
type Reader[T any] struct {
	rc io.ReadCloser
}

// NewReader wraps rc, which is closed when iteration finishes.
func NewReader[T any](rc io.ReadCloser) *Reader[T] {
	return &Reader[T]{rc: rc}
}

// All iterates over every record in the stream. A line that fails to parse
// yields a zero record with the error and iteration continues, so one
// corrupt line does not poison the rest of the file.
func (r *Reader[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		defer r.rc.Close()

		sc := bufio.NewScanner(r.rc)
		sc.Buffer(make([]byte, 64*1024), maxLineSize)

		for sc.Scan() {
			line := sc.Bytes()
			if len(line) == 0 {
				continue
			}

			var record T
			if err := json.Unmarshal(line, &record); err != nil {
				var zero T
				if !yield(zero, err) {
					return
				}
				continue
			}
			if !yield(record, nil) {
				return
			}
		}

		if err := sc.Err(); err != nil {
			var zero T
			yield(zero, err)
		}
	}
}
