package service

import (
	"strings"

	"support-monitor/internal/model"
)

// BuildPivot folds raw events into a per-service, per-hour table in one pass.
// The first event seen for a service creates its row and supplies the row's
// metadata; a later event for the same (service, hour) replaces that bucket.
// Events whose hour does not parse to 0..23 still register the service but do
// not touch any bucket; they are counted in DroppedEvents, as are array
// elements that were not records at all.
func BuildPivot(events []model.RawEvent) *model.PivotTable {
	index := make(map[string]int, len(events))
	records := make([]model.ServiceRecord, 0)
	dropped := 0

	for _, ev := range events {
		if ev.Malformed {
			dropped++
			continue
		}

		pos, ok := index[ev.ServiceID]
		if !ok {
			pos = len(records)
			index[ev.ServiceID] = pos
			records = append(records, model.ServiceRecord{
				ServiceID: ev.ServiceID,
				Metadata:  ev.Metadata(),
			})
		}

		hour, ok := ParseHour(ev.Time)
		if !ok {
			dropped++
			continue
		}
		records[pos].Hours[hour] = ev.Bucket()
	}

	return model.NewPivotTable(records, dropped)
}

// ParseHour reads the leading integer of an upstream hour value ("7", " 07",
// "7:00" all give 7) and reports whether it names a slot in 0..23.
func ParseHour(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n, digits := 0, 0
	for ; digits < len(s) && s[digits] >= '0' && s[digits] <= '9'; digits++ {
		n = n*10 + int(s[digits]-'0')
		if n >= model.HoursPerDay {
			return 0, false
		}
	}
	if digits == 0 || (neg && n != 0) {
		return 0, false
	}
	return n, true
}
