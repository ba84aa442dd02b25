package availability

import (
	"slices"
	"strings"
	"time"

	"github.com/brequin/brequin/regplan/db"
	"github.com/samber/lo"
)

// Tracker follows the open seat count of each course across daily snapshots
// and remembers how many days it took to reach zero.
type Tracker struct {
	records map[string]db.TrackerRecord
}

func NewTracker(records []db.TrackerRecord) *Tracker {
	return &Tracker{records: lo.SliceToMap(records, func(record db.TrackerRecord) (string, db.TrackerRecord) {
		return record.Course, record
	})}
}

// Observe records one snapshot taken on date. Courses missing from the
// snapshot keep their previous record.
func (t *Tracker) Observe(date time.Time, openByCourse map[string]int) {
	today := civilDay(date)
	for course, open := range openByCourse {
		record, ok := t.records[course]
		if !ok {
			record = db.TrackerRecord{Course: course, FirstSeen: today, TotalOpen: open}
			if open == 0 {
				zero := 0
				record.DaysToZero = &zero
			}
			t.records[course] = record
			continue
		}

		record.TotalOpen = open
		if record.DaysToZero == nil && open == 0 {
			days := int(today.Sub(civilDay(record.FirstSeen)).Hours() / 24)
			record.DaysToZero = &days
		}
		t.records[course] = record
	}
}

// Records returns every tracked course ordered by course.
func (t *Tracker) Records() []db.TrackerRecord {
	records := lo.Values(t.records)
	slices.SortFunc(records, func(a, b db.TrackerRecord) int {
		return strings.Compare(a.Course, b.Course)
	})
	return records
}

// Calendar turns days to zero into fill days, the first tracked day being
// day 1. Courses that filled after the window are left out.
func (t *Tracker) Calendar(windowDays int) Calendar {
	calendar := make(Calendar)
	for course, record := range t.records {
		if record.DaysToZero == nil {
			continue
		}
		if day := *record.DaysToZero + 1; day <= windowDays {
			calendar[course] = day
		}
	}
	return calendar
}

func civilDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
