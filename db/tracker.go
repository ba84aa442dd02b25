package db

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"time"
)

const DateLayout = "2006-01-02"

var TrackerHeader = []string{"Course", "First Seen", "Total Open", "Days to Zero"}

// TrackerFile keeps the seat tracker in the CSV layout the tracker has always used.
type TrackerFile struct {
	Path string
}

func (f TrackerFile) Load() ([]TrackerRecord, error) {
	file, err := os.Open(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	if !slices.Equal(header, TrackerHeader) {
		return nil, fmt.Errorf("unexpected tracker header %v", header)
	}

	var records []TrackerRecord
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}

		record, err := parseTrackerRecord(fields)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%v:%d: %w", f.Path, line, err)
		}
		records = append(records, record)
	}

	return records, nil
}

func (f TrackerFile) Save(records []TrackerRecord) error {
	file, err := os.Create(f.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(TrackerHeader); err != nil {
		return err
	}
	for _, record := range records {
		daysToZero := ""
		if record.DaysToZero != nil {
			daysToZero = strconv.Itoa(*record.DaysToZero)
		}
		fields := []string{record.Course, record.FirstSeen.Format(DateLayout), strconv.Itoa(record.TotalOpen), daysToZero}
		if err := writer.Write(fields); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}

func parseTrackerRecord(fields []string) (TrackerRecord, error) {
	firstSeen, err := time.Parse(DateLayout, fields[1])
	if err != nil {
		return TrackerRecord{}, fmt.Errorf("invalid first seen date %q: %w", fields[1], err)
	}
	totalOpen, err := strconv.Atoi(fields[2])
	if err != nil {
		return TrackerRecord{}, fmt.Errorf("invalid open count %q: %w", fields[2], err)
	}

	record := TrackerRecord{Course: fields[0], FirstSeen: firstSeen, TotalOpen: totalOpen}
	if fields[3] != "" {
		daysToZero, err := strconv.Atoi(fields[3])
		if err != nil {
			return TrackerRecord{}, fmt.Errorf("invalid days to zero %q: %w", fields[3], err)
		}
		record.DaysToZero = &daysToZero
	}
	return record, nil
}
