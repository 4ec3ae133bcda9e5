// Package output persists finished profiles: the append-only CSV log that
// drives resumability, its parquet export and the table printed in single mode.
package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/thep200/repo-profiler/internal/model"
)

// CSVLog appends one headerless row per profile, first column is the repository API URL
type CSVLog struct {
	Path string

	mu sync.Mutex
}

func NewCSVLog(path string) (*CSVLog, error) {
	if path == "" {
		return nil, errors.New("csv log needs an output path")
	}
	return &CSVLog{Path: path}, nil
}

// Append opens the log in append mode, writes the row of p and closes it again
func (l *CSVLog) Append(p *model.Profile) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", l.Path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(p.Row()); err != nil {
		f.Close()
		return fmt.Errorf("cannot write row of %s: %w", p.URL, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("cannot flush row of %s: %w", p.URL, err)
	}
	return f.Close()
}

// LoadProcessed returns the identifiers already present in the log at path.
// A missing log is an empty set.
func LoadProcessed(path string) (map[string]struct{}, error) {
	done := make(map[string]struct{})

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return done, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	err = eachRecord(f, func(record []string) error {
		if id := strings.TrimSpace(record[0]); id != "" {
			done[id] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return done, nil
}

// eachRecord reads both rows written by CSVLog and legacy ", " separated rows
func eachRecord(r io.Reader, fn func(record []string) error) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if len(record) == 0 {
			continue
		}
		if err := fn(record); err != nil {
			return err
		}
	}
}
