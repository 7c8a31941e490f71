package pipeline

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aluiziolira/go-fill-catalogue/models"
	"github.com/aluiziolira/go-fill-catalogue/parser"
)

var csvHeader = []string{"id", "title", "series", "series_index", "audience", "speakers", "tags", "rating", "words", "fills", "filled_by", "link"}

// CSVWriter writes records to CSV.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter initialises a CSV writer and writes the header row.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(csvHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	return &CSVWriter{
		file:   f,
		writer: writer,
	}, nil
}

// Write appends listings to the CSV output.
func (cw *CSVWriter) Write(listings []*models.Listing) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	for _, l := range listings {
		if err := cw.writer.Write(csvRecord(l)); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

func csvRecord(l *models.Listing) []string {
	series, seriesIndex := "", ""
	if l.Series != nil {
		series = l.Series.Title
		seriesIndex = strconv.Itoa(l.Series.Index)
	}
	words := ""
	if l.Words.Known {
		words = strconv.Itoa(l.Words.Value)
	}
	groups := make([]string, 0, len(l.FilledBy))
	for _, g := range l.FilledBy {
		groups = append(groups, strings.Join(g, " & "))
	}

	return []string{
		l.ID,
		l.Title,
		series,
		seriesIndex,
		strings.Join(l.Audience, ","),
		strconv.Itoa(len(l.Speakers)),
		parser.JoinTags(l.Tags),
		parser.RatingLabel(l.Tags),
		words,
		strconv.Itoa(l.Fills),
		strings.Join(groups, "; "),
		l.CanonicalLink,
	}
}

// Close flushes and closes the file handle.
func (cw *CSVWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cw.file.Close()
}

// Validate ensures the file has content besides the header.
func (cw *CSVWriter) Validate() error {
	info, err := cw.file.Stat()
	if err != nil {
		return fmt.Errorf("stat csv file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("csv file is empty")
	}
	return nil
}

// JSONWriter writes newline-delimited JSON records.
type JSONWriter struct {
	file    *os.File
	closer  io.Closer
	writer  *bufio.Writer
	encoder *json.Encoder
	written int
	mu      sync.Mutex
}

// NewJSONWriter initialises the JSON writer. "-" writes to stdout.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	if filename == "-" {
		buffer := bufio.NewWriter(os.Stdout)
		return &JSONWriter{
			writer:  buffer,
			encoder: json.NewEncoder(buffer),
		}, nil
	}

	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create json file: %w", err)
	}

	buffer := bufio.NewWriter(f)
	return &JSONWriter{
		file:    f,
		closer:  f,
		writer:  buffer,
		encoder: json.NewEncoder(buffer),
	}, nil
}

// Write appends listings in JSONL format.
func (jw *JSONWriter) Write(listings []*models.Listing) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	for _, l := range listings {
		if err := jw.encoder.Encode(l); err != nil {
			return fmt.Errorf("encode json record: %w", err)
		}
		jw.written++
	}

	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}

	return nil
}

// Close flushes buffers and closes the underlying file.
func (jw *JSONWriter) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	if jw.closer == nil {
		return nil
	}
	return jw.closer.Close()
}

// Validate ensures the JSON output has data. An empty filter result is a
// valid, empty file.
func (jw *JSONWriter) Validate() error {
	if jw.file == nil {
		return nil
	}
	if _, err := jw.file.Stat(); err != nil {
		return fmt.Errorf("stat json file: %w", err)
	}
	return nil
}

// MemoryWriter collects listings in memory. Workers write batches in no
// particular order; Listings restores source order by Position.
type MemoryWriter struct {
	mu       sync.Mutex
	listings []*models.Listing
}

// NewMemoryWriter returns an empty collector.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{}
}

// Write stores the batch.
func (mw *MemoryWriter) Write(listings []*models.Listing) error {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.listings = append(mw.listings, listings...)
	return nil
}

// Close is a no-op.
func (mw *MemoryWriter) Close() error {
	return nil
}

// Validate is a no-op.
func (mw *MemoryWriter) Validate() error {
	return nil
}

// Listings returns every stored listing ordered by Position.
func (mw *MemoryWriter) Listings() []*models.Listing {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	out := make([]*models.Listing, len(mw.listings))
	copy(out, mw.listings)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
