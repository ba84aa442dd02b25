package db

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// Table stores rows in a CSV file. The header is written when the file is
// created and later writes append without it.
type Table struct {
	Path string

	mu sync.Mutex
}

func NewTable(path string) *Table {
	return &Table{Path: path}
}

func (t *Table) InsertRows(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	file, err := os.OpenFile(t.Path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("cannot open %v: %w", t.Path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	writeHeader := info.Size() == 0
	if !writeHeader {
		if err := checkHeader(csv.NewReader(file)); err != nil {
			return fmt.Errorf("cannot append to %v: %w", t.Path, err)
		}
	}
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return err
	}

	return writeRows(file, rows, writeHeader)
}

func (t *Table) ReplaceRows(ctx context.Context, rows []Row) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	temp, err := os.CreateTemp(filepath.Dir(t.Path), filepath.Base(t.Path)+".*")
	if err != nil {
		return fmt.Errorf("cannot create temporary file for %v: %w", t.Path, err)
	}
	defer os.Remove(temp.Name())

	if err := writeRows(temp, rows, true); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Close(); err != nil {
		return err
	}

	return os.Rename(temp.Name(), t.Path)
}

func (t *Table) ListRows(ctx context.Context) ([]Row, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	file, err := os.Open(t.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if err := checkHeader(reader); errors.Is(err, io.EOF) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("cannot read %v: %w", t.Path, err)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("cannot read %v: %w", t.Path, err)
		}

		row, err := RowFromRecord(record)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%v:%d: %w", t.Path, line, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func checkHeader(reader *csv.Reader) error {
	header, err := reader.Read()
	if err != nil {
		return err
	}
	if !slices.Equal(header, Header) {
		return fmt.Errorf("unexpected header %v", header)
	}
	return nil
}

func writeRows(w io.Writer, rows []Row, header bool) error {
	writer := csv.NewWriter(w)
	if header {
		if err := writer.Write(Header); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if err := writer.Write(row.Record()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
