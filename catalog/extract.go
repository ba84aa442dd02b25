package catalog

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
	"golang.org/x/net/html"
)

const prerequisiteSelector = "p.courseblockdetail.detail-prerequisite"

var (
	prerequisiteLabel = regexp.MustCompile(`^Prerequisite\(s\):\s*`)
	lineBreak         = regexp.MustCompile(`(?i)<br\s*/?>`)
	courseCode        = regexp.MustCompile(`^[A-Z]{2,4}\s+\d{1,3}[A-Z]{0,2}\b`)
)

// Seat is one section row of the registrar's class search results.
type Seat struct {
	Subject              string
	CRN                  string
	TimeDays             string
	Course               string
	Section              string
	OpenReservedWaitlist string
	Instructor           string
}

// SeatHeader is the column order of Seat.Record.
var SeatHeader = []string{"Subject", "CRN", "Time/Days", "Course", "Section", "Open/Reserved/Waitlist", "Instructor"}

func (s Seat) Record() []string {
	return []string{s.Subject, s.CRN, s.TimeDays, s.Course, s.Section, s.OpenReservedWaitlist, s.Instructor}
}

// ExtractPrerequisite reads the prerequisite paragraph of a catalog course
// page. Pages without one yield "".
func ExtractPrerequisite(r io.Reader) (string, error) {
	document, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}

	paragraph := document.Find(prerequisiteSelector).First()
	if paragraph.Length() == 0 {
		return "", nil
	}

	text := html.UnescapeString(strings.Join(strings.Fields(paragraph.Text()), " "))
	return prerequisiteLabel.ReplaceAllString(text, ""), nil
}

// ExtractSeats reads the section rows of one subject's search results.
// Rows without a numeric CRN are headers or notes and are skipped.
func ExtractSeats(subject string, r io.Reader) ([]Seat, error) {
	document, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var seats []Seat
	document.Find("tr[bgcolor]").Each(func(i int, row *goquery.Selection) {
		first := row.Find("td:nth-child(1)")
		crn := strings.TrimSpace(first.Find("strong").First().Text())
		if _, err := strconv.Atoi(crn); err != nil {
			return
		}

		third := row.Find("td:nth-child(3)")
		instructor := firstLine(row.Find("td:nth-child(5)"))
		if instructor == "" {
			instructor = "TBA"
		}
		seats = append(seats, Seat{
			Subject:              subject,
			CRN:                  crn,
			TimeDays:             textOr(first.Find("em").First(), "N/A"),
			Course:               courseOf(firstLine(row.Find("td:nth-child(2)"))),
			Section:              firstLine(third),
			OpenReservedWaitlist: textOr(third.Find("em").First(), "N/A"),
			Instructor:           instructor,
		})
	})

	return seats, nil
}

func textOr(selection *goquery.Selection, fallback string) string {
	if selection.Length() == 0 {
		return fallback
	}
	if text := strings.TrimSpace(html.UnescapeString(selection.Text())); text != "" {
		return text
	}
	return fallback
}

// firstLine returns the first non-empty line of a cell, <br> ending a line.
func firstLine(cell *goquery.Selection) string {
	if cell.Length() == 0 {
		return ""
	}
	markup, err := cell.First().Html()
	if err != nil {
		return ""
	}

	fragment, err := goquery.NewDocumentFromReader(strings.NewReader(lineBreak.ReplaceAllString(markup, "\n")))
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(fragment.Text(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return html.UnescapeString(line)
		}
	}
	return ""
}

// courseOf trims a course line such as "STA 013 - Elementary Statistics" to its code.
func courseOf(line string) string {
	if code := courseCode.FindString(line); code != "" {
		return strings.Join(strings.Fields(code), " ")
	}
	return line
}

// Deduplicate keeps the first row of each (CRN, course) pair.
func Deduplicate(seats []Seat) []Seat {
	return lo.UniqBy(seats, func(seat Seat) [2]string {
		return [2]string{seat.CRN, seat.Course}
	})
}

// OpenCount reads n from "Open: n / Reserved: r / Waitlist: w". Text without
// a readable open count counts as 0.
func OpenCount(text string) int {
	for _, part := range strings.Split(text, "/") {
		if !strings.Contains(part, "Open") {
			continue
		}
		_, value, found := strings.Cut(part, ":")
		if !found {
			return 0
		}
		open, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0
		}
		return open
	}
	return 0
}

// OpenByCourse sums open seats over every section of each course.
func OpenByCourse(seats []Seat) map[string]int {
	open := make(map[string]int)
	for _, seat := range seats {
		open[seat.Course] += OpenCount(seat.OpenReservedWaitlist)
	}
	return open
}
