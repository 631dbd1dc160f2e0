package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// HoursPerDay is the fixed number of hourly buckets kept for every service.
const HoursPerDay = 24

// RawEvent is one upstream record as received from the support monitor feed.
// Decoding is best-effort: identifiers and metadata accept strings or numbers,
// counters that are absent, null or non-numeric decode to zero.
type RawEvent struct {
	ServiceID   string `json:"app_serviceid"`
	Territory   string `json:"territory"`
	ServiceName string `json:"service_name"`
	Operator    string `json:"operator"`
	Partner     string `json:"partner"`
	// Time is the hour-of-day exactly as sent upstream; it is parsed by the pivot.
	Time string `json:"time"`

	PinGen        int64 `json:"pingenCount"`
	PinGenSuccess int64 `json:"pingenCountSuccess"`
	PinVer        int64 `json:"pinverCount"`
	PinVerSuccess int64 `json:"pinverCountSuccess"`

	// Malformed marks an array element that was not a JSON object. Such
	// elements carry no fields and are skipped by the pivot.
	Malformed bool `json:"-"`
}

func (e *RawEvent) UnmarshalJSON(data []byte) error {
	var raw struct {
		ServiceID     json.RawMessage `json:"app_serviceid"`
		Territory     json.RawMessage `json:"territory"`
		ServiceName   json.RawMessage `json:"service_name"`
		Operator      json.RawMessage `json:"operator"`
		Partner       json.RawMessage `json:"partner"`
		Time          json.RawMessage `json:"time"`
		PinGen        json.RawMessage `json:"pingenCount"`
		PinGenSuccess json.RawMessage `json:"pingenCountSuccess"`
		PinVer        json.RawMessage `json:"pinverCount"`
		PinVerSuccess json.RawMessage `json:"pinverCountSuccess"`
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		*e = RawEvent{Malformed: true}
		return nil
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		*e = RawEvent{Malformed: true}
		return nil
	}

	*e = RawEvent{
		ServiceID:     coerceString(raw.ServiceID),
		Territory:     coerceString(raw.Territory),
		ServiceName:   coerceString(raw.ServiceName),
		Operator:      coerceString(raw.Operator),
		Partner:       coerceString(raw.Partner),
		Time:          coerceHour(raw.Time),
		PinGen:        coerceCount(raw.PinGen),
		PinGenSuccess: coerceCount(raw.PinGenSuccess),
		PinVer:        coerceCount(raw.PinVer),
		PinVerSuccess: coerceCount(raw.PinVerSuccess),
	}
	return nil
}

// Bucket returns the four counters of the event.
func (e RawEvent) Bucket() HourlyBucket {
	return HourlyBucket{
		PinGen:        e.PinGen,
		PinGenSuccess: e.PinGenSuccess,
		PinVer:        e.PinVer,
		PinVerSuccess: e.PinVerSuccess,
	}
}

// Metadata returns the descriptive fields of the event.
func (e RawEvent) Metadata() ServiceMetadata {
	return ServiceMetadata{
		Territory:   e.Territory,
		ServiceName: e.ServiceName,
		Operator:    e.Operator,
		Partner:     e.Partner,
	}
}

// HourlyBucket holds the counters attributed to one service at one hour.
type HourlyBucket struct {
	PinGen        int64 `json:"pingen_count"`
	PinGenSuccess int64 `json:"pingen_count_success"`
	PinVer        int64 `json:"pinver_count"`
	PinVerSuccess int64 `json:"pinver_count_success"`
}

func (b HourlyBucket) IsZero() bool {
	return b == HourlyBucket{}
}

// Add returns the field-wise sum of two buckets.
func (b HourlyBucket) Add(o HourlyBucket) HourlyBucket {
	return HourlyBucket{
		PinGen:        b.PinGen + o.PinGen,
		PinGenSuccess: b.PinGenSuccess + o.PinGenSuccess,
		PinVer:        b.PinVer + o.PinVer,
		PinVerSuccess: b.PinVerSuccess + o.PinVerSuccess,
	}
}

type ServiceMetadata struct {
	Territory   string `json:"territory,omitempty"`
	ServiceName string `json:"service_name,omitempty"`
	Operator    string `json:"operator,omitempty"`
	Partner     string `json:"partner,omitempty"`
}

// ServiceRecord is one row of the pivot: metadata from the first event seen
// for the service and one bucket per hour of the day.
type ServiceRecord struct {
	ServiceID string                    `json:"service_id"`
	Metadata  ServiceMetadata           `json:"metadata"`
	Hours     [HoursPerDay]HourlyBucket `json:"hours"`
}

// Total sums the buckets of the record.
func (r ServiceRecord) Total() HourlyBucket {
	var total HourlyBucket
	for _, b := range r.Hours {
		total = total.Add(b)
	}
	return total
}

// PivotTable maps service identifiers to their hourly records, iterating in
// first-seen order. It is built once per load and never mutated afterwards.
type PivotTable struct {
	order   []string
	records map[string]ServiceRecord
	dropped int
}

// NewPivotTable indexes records in the given order. Later duplicates of an
// identifier are ignored.
func NewPivotTable(records []ServiceRecord, droppedEvents int) *PivotTable {
	t := &PivotTable{
		order:   make([]string, 0, len(records)),
		records: make(map[string]ServiceRecord, len(records)),
		dropped: droppedEvents,
	}
	for _, r := range records {
		if _, ok := t.records[r.ServiceID]; ok {
			continue
		}
		t.order = append(t.order, r.ServiceID)
		t.records[r.ServiceID] = r
	}
	return t
}

func (t *PivotTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// ServiceIDs returns the known identifiers in first-seen order.
func (t *PivotTable) ServiceIDs() []string {
	if t == nil {
		return []string{}
	}
	ids := make([]string, len(t.order))
	copy(ids, t.order)
	return ids
}

// Hours returns the fixed hour index list 0..23.
func (t *PivotTable) Hours() []int {
	return AllHours()
}

// Record looks up the row of a service.
func (t *PivotTable) Record(serviceID string) (ServiceRecord, bool) {
	if t == nil {
		return ServiceRecord{}, false
	}
	r, ok := t.records[serviceID]
	return r, ok
}

// Bucket returns the counters of a service at an hour, zero when unknown.
func (t *PivotTable) Bucket(serviceID string, hour int) HourlyBucket {
	r, ok := t.Record(serviceID)
	if !ok || hour < 0 || hour >= HoursPerDay {
		return HourlyBucket{}
	}
	return r.Hours[hour]
}

// Services returns every record in first-seen order.
func (t *PivotTable) Services() []ServiceRecord {
	if t == nil {
		return []ServiceRecord{}
	}
	out := make([]ServiceRecord, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.records[id])
	}
	return out
}

// DroppedEvents counts events whose hour could not be placed in a slot.
func (t *PivotTable) DroppedEvents() int {
	if t == nil {
		return 0
	}
	return t.dropped
}

// HourTotals sums every service per hour.
func (t *PivotTable) HourTotals() [HoursPerDay]HourlyBucket {
	var totals [HoursPerDay]HourlyBucket
	for _, r := range t.Services() {
		for h, b := range r.Hours {
			totals[h] = totals[h].Add(b)
		}
	}
	return totals
}

func (t *PivotTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ServiceIDs    []string        `json:"service_ids"`
		Hours         []int           `json:"hours"`
		Services      []ServiceRecord `json:"services"`
		DroppedEvents int             `json:"dropped_events"`
	}{
		ServiceIDs:    t.ServiceIDs(),
		Hours:         t.Hours(),
		Services:      t.Services(),
		DroppedEvents: t.DroppedEvents(),
	})
}

// AllHours returns 0..23.
func AllHours() []int {
	hours := make([]int, HoursPerDay)
	for h := range hours {
		hours[h] = h
	}
	return hours
}

func coerceString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// coerceHour keeps string hours verbatim and truncates numeric ones, so 1e1
// and 10.0 both read as "10".
func coerceHour(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '"' {
		return coerceString(raw)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return ""
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(math.Trunc(f), 'f', 0, 64)
}

func coerceCount(raw json.RawMessage) int64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}

	var text string
	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0
		}
		text = strings.TrimSpace(text)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		text = string(raw)
	default:
		return 0
	}

	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0
	}
	return int64(f)
}
