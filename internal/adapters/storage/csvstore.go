// Package storage owns the durable CSV representation of each table.
package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/pkg/metrics"
)

// File layout: one CSV file per table under the root directory, named
// <table>.csv, header row first, comma delimited, "\n" terminated.
// The column schema (with or without a time column) is fixed per
// deployment at construction, never per request.

const (
	dirMode      = 0o755
	fileTemplate = "%s.csv"
)

// CSVStore implements Store on plain CSV files.
type CSVStore struct {
	dir      string
	withTime bool
}

// NewCSVStore creates a store rooted at dir with configuration options.
func NewCSVStore(dir string, opts ...Option) *CSVStore {
	s := &CSVStore{dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// header returns the column schema for this deployment.
func (s *CSVStore) header() []string {
	if s.withTime {
		return []string{"name", "score", "time"}
	}
	return []string{"name", "score"}
}

func (s *CSVStore) path(table string) string {
	return filepath.Join(s.dir, fmt.Sprintf(fileTemplate, table))
}

// Load implements Store.Load. A missing file is created empty as a side
// effect so the table exists from first access onwards.
func (s *CSVStore) Load(ctx context.Context, table string) ([]model.Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreLoadLatency(float64(time.Since(start).Milliseconds()))
	}()

	f, err := os.Open(s.path(table))
	if err != nil {
		if os.IsNotExist(err) {
			if err := s.Save(ctx, table, nil); err != nil {
				return nil, err
			}
			return []model.Entry{}, nil
		}
		metrics.RecordErrorByComponent("storage", "unavailable")
		return nil, fmt.Errorf("open table %q: %v: %w", table, err, ErrStorageUnavailable)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		metrics.RecordErrorByComponent("storage", "corrupt")
		return nil, fmt.Errorf("parse table %q: %v: %w", table, err, ErrCorruptTable)
	}
	return s.decode(table, rows)
}

// decode converts raw CSV rows into entries, enforcing the schema.
func (s *CSVStore) decode(table string, rows [][]string) ([]model.Entry, error) {
	header := s.header()
	if len(rows) == 0 {
		return nil, fmt.Errorf("table %q: missing header row: %w", table, ErrCorruptTable)
	}
	if !equalRow(rows[0], header) {
		return nil, fmt.Errorf("table %q: unexpected header %v: %w", table, rows[0], ErrCorruptTable)
	}

	entries := make([]model.Entry, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("table %q row %d: want %d fields, got %d: %w",
				table, i+1, len(header), len(row), ErrCorruptTable)
		}
		score, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("table %q row %d: non-integer score %q: %w",
				table, i+1, row[1], ErrCorruptTable)
		}
		e := model.Entry{Name: row[0], Score: score}
		if s.withTime {
			ts, err := strconv.ParseInt(row[2], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("table %q row %d: non-integer time %q: %w",
					table, i+1, row[2], ErrCorruptTable)
			}
			e.RecordedAt = ts
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Save implements Store.Save. The new content is written to a temp file
// in the same directory and renamed over the target so readers see
// either the old snapshot or the new one, never a mix.
func (s *CSVStore) Save(ctx context.Context, table string, entries []model.Entry) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreSaveLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := os.MkdirAll(s.dir, dirMode); err != nil {
		metrics.RecordErrorByComponent("storage", "unavailable")
		return fmt.Errorf("create data dir %q: %v: %w", s.dir, err, ErrStorageUnavailable)
	}

	tmp, err := os.CreateTemp(s.dir, fmt.Sprintf(fileTemplate, table)+".tmp")
	if err != nil {
		metrics.RecordErrorByComponent("storage", "unavailable")
		return fmt.Errorf("create temp file for table %q: %v: %w", table, err, ErrStorageUnavailable)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after successful rename

	if err := s.write(tmp, entries); err != nil {
		_ = tmp.Close()
		metrics.RecordErrorByComponent("storage", "unavailable")
		return fmt.Errorf("write table %q: %v: %w", table, err, ErrStorageUnavailable)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		metrics.RecordErrorByComponent("storage", "unavailable")
		return fmt.Errorf("sync table %q: %v: %w", table, err, ErrStorageUnavailable)
	}
	if err := tmp.Close(); err != nil {
		metrics.RecordErrorByComponent("storage", "unavailable")
		return fmt.Errorf("close table %q: %v: %w", table, err, ErrStorageUnavailable)
	}
	if err := os.Rename(tmpName, s.path(table)); err != nil {
		metrics.RecordErrorByComponent("storage", "unavailable")
		return fmt.Errorf("replace table %q: %v: %w", table, err, ErrStorageUnavailable)
	}
	return nil
}

func (s *CSVStore) write(f *os.File, entries []model.Entry) error {
	w := csv.NewWriter(f)
	if err := w.Write(s.header()); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{e.Name, strconv.FormatInt(e.Score, 10)}
		if s.withTime {
			row = append(row, strconv.FormatInt(e.RecordedAt, 10))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func equalRow(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
