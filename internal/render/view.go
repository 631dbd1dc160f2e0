// Package render turns a pivot table into what the page and the CLI display.
package render

import (
	"fmt"
	"strconv"

	"support-monitor/internal/model"
)

type HourColumn struct {
	Hour  int
	Label string
}

type Cell struct {
	Hour   int
	Bucket model.HourlyBucket
	Text   string
}

type Row struct {
	ServiceID string
	Label     string
	Metadata  model.ServiceMetadata
	Cells     []Cell
	Total     model.HourlyBucket
}

// View is the display form of one loaded pivot table.
type View struct {
	Hours         []HourColumn
	Rows          []Row
	Totals        []Cell
	CurrentHour   int
	DroppedEvents int
}

func (v View) Empty() bool {
	return len(v.Rows) == 0
}

// BuildView selects the columns to show and formats every cell. The current
// hour is passed in by the caller; with hideFuture set only hours strictly
// before it are shown.
func BuildView(table *model.PivotTable, currentHour int, hideFuture bool) View {
	hours := VisibleHours(currentHour, hideFuture)

	v := View{
		Hours:         make([]HourColumn, 0, len(hours)),
		Rows:          make([]Row, 0, table.Len()),
		Totals:        make([]Cell, 0, len(hours)),
		CurrentHour:   currentHour,
		DroppedEvents: table.DroppedEvents(),
	}
	for _, h := range hours {
		v.Hours = append(v.Hours, HourColumn{Hour: h, Label: HourLabel(h)})
	}

	totals := table.HourTotals()
	for _, h := range hours {
		v.Totals = append(v.Totals, newCell(h, totals[h]))
	}

	for _, rec := range table.Services() {
		row := Row{
			ServiceID: rec.ServiceID,
			Label:     "Service ID: " + rec.ServiceID,
			Metadata:  rec.Metadata,
			Cells:     make([]Cell, 0, len(hours)),
		}
		for _, h := range hours {
			row.Cells = append(row.Cells, newCell(h, rec.Hours[h]))
			row.Total = row.Total.Add(rec.Hours[h])
		}
		v.Rows = append(v.Rows, row)
	}

	return v
}

// VisibleHours returns 0..23, or 0..currentHour-1 when future hours are hidden.
func VisibleHours(currentHour int, hideFuture bool) []int {
	all := model.AllHours()
	if !hideFuture {
		return all
	}
	if currentHour < 0 {
		currentHour = 0
	}
	if currentHour > model.HoursPerDay {
		currentHour = model.HoursPerDay
	}
	return all[:currentHour]
}

// HourLabel renders the column header of an hour, e.g. "9:00-10:00".
func HourLabel(hour int) string {
	return fmt.Sprintf("%d:00-%d:00", hour, hour+1)
}

// CellText renders a bucket as "5 pg 3 pgs 1 pv 1 pvs"; zero counters are left blank.
func CellText(b model.HourlyBucket) string {
	return fmt.Sprintf("%s pg %s pgs %s pv %s pvs",
		blankZero(b.PinGen), blankZero(b.PinGenSuccess), blankZero(b.PinVer), blankZero(b.PinVerSuccess))
}

func newCell(hour int, b model.HourlyBucket) Cell {
	return Cell{Hour: hour, Bucket: b, Text: CellText(b)}
}

func blankZero(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}
