package service

import (
	"encoding/json"
	"fmt"
	"testing"

	"support-monitor/internal/model"
)

func decodeEvents(t *testing.T, raw string) []model.RawEvent {
	t.Helper()
	var events []model.RawEvent
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		t.Fatalf("decode events: %v", err)
	}
	return events
}

func TestBuildPivotSingleEvent(t *testing.T) {
	events := decodeEvents(t, `[{"app_serviceid":"S1","time":"2","pingenCount":5,"pingenCountSuccess":3,"pinverCount":1,"pinverCountSuccess":1}]`)

	table := BuildPivot(events)

	ids := table.ServiceIDs()
	if len(ids) != 1 || ids[0] != "S1" {
		t.Fatalf("ServiceIDs() = %v, want [S1]", ids)
	}
	rec, _ := table.Record("S1")
	for h, b := range rec.Hours {
		want := model.HourlyBucket{}
		if h == 2 {
			want = model.HourlyBucket{PinGen: 5, PinGenSuccess: 3, PinVer: 1, PinVerSuccess: 1}
		}
		if b != want {
			t.Errorf("slot %d = %+v, want %+v", h, b, want)
		}
	}
}

func TestBuildPivotOverwritesRepeatedHour(t *testing.T) {
	events := []model.RawEvent{
		{ServiceID: "S1", Time: "4", PinGen: 1, PinGenSuccess: 1},
		{ServiceID: "S1", Time: "4", PinGen: 9, PinGenSuccess: 9, PinVer: 9, PinVerSuccess: 9},
	}

	table := BuildPivot(events)

	want := model.HourlyBucket{PinGen: 9, PinGenSuccess: 9, PinVer: 9, PinVerSuccess: 9}
	if got := table.Bucket("S1", 4); got != want {
		t.Errorf("slot 4 = %+v, want %+v", got, want)
	}
}

func TestBuildPivotOverwriteIsFullNotMerged(t *testing.T) {
	events := []model.RawEvent{
		{ServiceID: "S1", Time: "7", PinGen: 4, PinVer: 4},
		{ServiceID: "S1", Time: "7", PinGenSuccess: 2},
	}

	got := BuildPivot(events).Bucket("S1", 7)
	if got != (model.HourlyBucket{PinGenSuccess: 2}) {
		t.Errorf("slot 7 = %+v, want only PinGenSuccess=2", got)
	}
}

func TestBuildPivotFirstSeenOrderAndMetadata(t *testing.T) {
	events := []model.RawEvent{
		{ServiceID: "B", Time: "1", Territory: "IN", ServiceName: "Games", Operator: "Jio", Partner: "P1"},
		{ServiceID: "A", Time: "1"},
		{ServiceID: "B", Time: "2", Territory: "UK", ServiceName: "Other"},
		{ServiceID: "C", Time: "3"},
		{ServiceID: "A", Time: "5"},
	}

	table := BuildPivot(events)

	ids := table.ServiceIDs()
	want := []string{"B", "A", "C"}
	if fmt.Sprint(ids) != fmt.Sprint(want) {
		t.Errorf("ServiceIDs() = %v, want %v", ids, want)
	}

	rec, _ := table.Record("B")
	wantMeta := model.ServiceMetadata{Territory: "IN", ServiceName: "Games", Operator: "Jio", Partner: "P1"}
	if rec.Metadata != wantMeta {
		t.Errorf("metadata = %+v, want first-seen %+v", rec.Metadata, wantMeta)
	}
}

func TestBuildPivotKeyCountMatchesDistinctIDs(t *testing.T) {
	var events []model.RawEvent
	for i := 0; i < 500; i++ {
		events = append(events, model.RawEvent{
			ServiceID: fmt.Sprintf("S%d", i%37),
			Time:      fmt.Sprint(i % 24),
			PinGen:    int64(i),
		})
	}

	table := BuildPivot(events)
	if table.Len() != 37 {
		t.Errorf("Len() = %d, want 37", table.Len())
	}
	for _, rec := range table.Services() {
		if len(rec.Hours) != model.HoursPerDay {
			t.Errorf("%s has %d hours", rec.ServiceID, len(rec.Hours))
		}
	}
}

func TestBuildPivotEmptyInput(t *testing.T) {
	for _, events := range [][]model.RawEvent{nil, {}} {
		table := BuildPivot(events)
		if table.Len() != 0 || len(table.ServiceIDs()) != 0 {
			t.Errorf("BuildPivot(%v) should be empty, got %v", events, table.ServiceIDs())
		}
		if len(table.Hours()) != model.HoursPerDay {
			t.Errorf("Hours() len = %d, want 24", len(table.Hours()))
		}
	}
}

func TestBuildPivotDropsUnplaceableHours(t *testing.T) {
	events := []model.RawEvent{
		{ServiceID: "S1", Time: "24", PinGen: 1},
		{ServiceID: "S1", Time: "-1", PinGen: 1},
		{ServiceID: "S1", Time: "noon", PinGen: 1},
		{ServiceID: "S1", Time: "", PinGen: 1},
		{ServiceID: "S2", Time: "99", PinGen: 1},
		{ServiceID: "S1", Time: "23", PinGen: 8},
	}

	table := BuildPivot(events)

	if table.DroppedEvents() != 5 {
		t.Errorf("DroppedEvents() = %d, want 5", table.DroppedEvents())
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (services still registered)", table.Len())
	}
	rec, _ := table.Record("S1")
	for h, b := range rec.Hours {
		if h == 23 {
			continue
		}
		if !b.IsZero() {
			t.Errorf("slot %d = %+v, want zero", h, b)
		}
	}
	if table.Bucket("S1", 23).PinGen != 8 {
		t.Errorf("slot 23 = %+v", table.Bucket("S1", 23))
	}
}

func TestBuildPivotSkipsMalformedRecords(t *testing.T) {
	events := decodeEvents(t, `[{"app_serviceid":"S1","time":"1","pingenCount":4},7,null,{"app_serviceid":"S2","time":1e1,"pingenCount":2}]`)

	table := BuildPivot(events)

	if got := table.ServiceIDs(); len(got) != 2 || got[0] != "S1" || got[1] != "S2" {
		t.Fatalf("ServiceIDs() = %v, want [S1 S2]", got)
	}
	if table.DroppedEvents() != 2 {
		t.Errorf("DroppedEvents() = %d, want 2", table.DroppedEvents())
	}
	if table.Bucket("S1", 1).PinGen != 4 {
		t.Errorf("S1 slot 1 = %+v", table.Bucket("S1", 1))
	}
	if table.Bucket("S2", 10).PinGen != 2 || !table.Bucket("S2", 1).IsZero() {
		t.Errorf("S2 exponent hour landed wrong: slot 10 = %+v, slot 1 = %+v",
			table.Bucket("S2", 10), table.Bucket("S2", 1))
	}
}

func TestParseHour(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"0", 0, true},
		{"23", 23, true},
		{"07", 7, true},
		{" 5 ", 5, true},
		{"+3", 3, true},
		{"-0", 0, true},
		{"12:00", 12, true},
		{"2.9", 2, true},
		{"24", 0, false},
		{"100", 0, false},
		{"-1", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseHour(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseHour(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
