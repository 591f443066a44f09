// Package archive writes and reads the story collection as NDJSON, one
// record per line, for backups and moving stories between installs.
package archive

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jwulff/storybuilder/internal/story"
)

// MaxLineSize bounds a single encoded record.
const MaxLineSize = 1024 * 1024

// Loader supplies the records to export.
type Loader interface {
	Load(ctx context.Context) []story.Record
}

// Importer stores imported records and reports how many were new.
type Importer interface {
	ImportAll(ctx context.Context, records []story.Record) (int, error)
}

// Writer encodes records as NDJSON.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a Writer on w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write encodes one record and its trailing newline.
func (w *Writer) Write(r story.Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.w.Write(data); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// Flush writes any buffered data.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Reader decodes NDJSON records. Blank lines are skipped.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader returns a Reader on r.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), MaxLineSize)
	return &Reader{scanner: scanner}
}

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (story.Record, error) {
	for r.scanner.Scan() {
		r.line++
		line := r.scanner.Bytes()
		if strings.TrimSpace(string(line)) == "" {
			continue
		}
		var rec story.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return story.Record{}, fmt.Errorf("line %d: unmarshal record: %w", r.line, err)
		}
		return rec, nil
	}
	if err := r.scanner.Err(); err != nil {
		return story.Record{}, fmt.Errorf("line %d: read record: %w", r.line+1, err)
	}
	return story.Record{}, io.EOF
}

// Export writes every stored record to w and returns the count.
func Export(ctx context.Context, w io.Writer, from Loader) (int, error) {
	aw := NewWriter(w)
	records := from.Load(ctx)
	for _, r := range records {
		if err := aw.Write(r); err != nil {
			return 0, err
		}
	}
	if err := aw.Flush(); err != nil {
		return 0, fmt.Errorf("flush export: %w", err)
	}
	return len(records), nil
}

// Import reads every record from r and hands them to the store in one
// batch. Nothing is imported when any line is malformed. It returns the
// number read and the number the store accepted as new.
func Import(ctx context.Context, r io.Reader, into Importer) (read, added int, err error) {
	ar := NewReader(r)
	var records []story.Record
	for {
		rec, err := ar.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, 0, err
		}
		if rec.Title == "" && rec.Content == "" {
			return 0, 0, fmt.Errorf("line %d: empty record", ar.line)
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return 0, 0, nil
	}
	added, err = into.ImportAll(ctx, records)
	if err != nil {
		return len(records), 0, fmt.Errorf("import records: %w", err)
	}
	return len(records), added, nil
}
