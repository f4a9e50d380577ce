package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"skin-watcher/models"
)

// CSVWriter appends every parsed section of a scan to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter opens (or creates) the CSV file at the given path, writing the
// header row when the file is new. Intermediate directories are created.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("csv: open file %q: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: stat file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	if info.Size() == 0 {
		if err := w.Write([]string{
			"scraped_at", "order_id", "name", "kind", "exterior", "price", "is_stattrak", "sold",
		}); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("csv: write header: %w", err)
		}
		w.Flush()
	}

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteSections appends one row per section. Sold-marker sections only carry
// order id and price.
func (c *CSVWriter) WriteSections(sections []*models.ParsedSection, scrapedAt time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ts := scrapedAt.Format(time.RFC3339)
	for _, s := range sections {
		row := []string{ts, strconv.Itoa(s.OrderID), "", "", "", strconv.Itoa(s.Price), "", "true"}
		if l := s.Listing; l != nil {
			row[2] = l.Name
			if l.Kind != nil {
				row[3] = *l.Kind
			}
			if l.Exterior != nil {
				row[4] = string(*l.Exterior)
			}
			row[6] = strconv.FormatBool(l.IsStatTrak)
			row[7] = "false"
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
