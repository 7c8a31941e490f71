package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"

	"github.com/aluiziolira/go-fill-catalogue/models"
	"github.com/aluiziolira/go-fill-catalogue/parser"
)

const maxTitleWidth = 48

var tableHeader = []string{"#", "TITLE", "AUDIENCE", "WORDS", "FILLS", "SERIES", "RATING"}

// TableWriter renders listings as an aligned plain-text table. Rows are
// buffered until Close because column widths depend on every row.
type TableWriter struct {
	out    io.Writer
	closer io.Closer
	rows   [][]string
	mu     sync.Mutex
	closed bool
}

// NewTableWriter writes to filename, or to stdout for "-".
func NewTableWriter(filename string) (*TableWriter, error) {
	if filename == "-" {
		return &TableWriter{out: os.Stdout}, nil
	}
	if err := ensureDir(filename); err != nil {
		return nil, err
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create table file: %w", err)
	}
	return &TableWriter{out: f, closer: f}, nil
}

// NewTableWriterTo renders into w. Close does not close w.
func NewTableWriterTo(w io.Writer) *TableWriter {
	return &TableWriter{out: w}
}

// Write buffers a row per listing.
func (tw *TableWriter) Write(listings []*models.Listing) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.closed {
		return fmt.Errorf("table writer closed")
	}
	for _, l := range listings {
		tw.rows = append(tw.rows, tableRow(len(tw.rows)+1, l))
	}
	return nil
}

func tableRow(n int, l *models.Listing) []string {
	words := "?"
	if l.Words.Known {
		words = parser.FormatNumber(l.Words.Value)
	}
	series := ""
	if l.Series != nil {
		series = fmt.Sprintf("%s #%d", l.Series.Title, l.Series.Index)
	}
	return []string{
		fmt.Sprintf("%d", n),
		runewidth.Truncate(l.Title, maxTitleWidth, "…"),
		strings.Join(l.Audience, " "),
		words,
		fmt.Sprintf("%d", l.Fills),
		series,
		parser.RatingLabel(l.Tags),
	}
}

// Close renders the table and closes the output file.
func (tw *TableWriter) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.closed {
		return nil
	}
	tw.closed = true

	if err := renderTable(tw.out, tableHeader, tw.rows); err != nil {
		if tw.closer != nil {
			tw.closer.Close()
		}
		return err
	}
	if tw.closer == nil {
		return nil
	}
	return tw.closer.Close()
}

// Validate is a no-op; an empty table is a valid filter result.
func (tw *TableWriter) Validate() error {
	return nil
}

func renderTable(w io.Writer, header []string, rows [][]string) error {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	buf := bufio.NewWriter(w)
	writeRow := func(row []string) {
		for i, cell := range row {
			if i > 0 {
				buf.WriteString("  ")
			}
			if i == len(row)-1 {
				buf.WriteString(cell)
				continue
			}
			buf.WriteString(runewidth.FillRight(cell, widths[i]))
		}
		buf.WriteByte('\n')
	}

	writeRow(header)
	for _, row := range rows {
		writeRow(row)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}
