package render

import (
	"bytes"
	"strings"
	"testing"

	"support-monitor/internal/model"
)

func newRenderer(t *testing.T) *HTMLRenderer {
	t.Helper()
	r, err := NewHTMLRenderer()
	if err != nil {
		t.Fatalf("NewHTMLRenderer() error = %v", err)
	}
	return r
}

func TestHTMLTable(t *testing.T) {
	var buf bytes.Buffer
	if err := newRenderer(t).Table(&buf, BuildView(sampleTable(), 3, true)); err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"<th>Service ID</th>",
		"<th>0:00-1:00</th>",
		"<th>2:00-3:00</th>",
		"Service ID: S1",
		"5 pg 3 pgs 1 pv 1 pvs",
		"Games",
		`title="PIN generation success 60%"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "3:00-4:00") {
		t.Error("hour 3 should be hidden when the current hour is 3")
	}
}

func TestHTMLTableEscapesUpstreamText(t *testing.T) {
	var rec model.ServiceRecord
	rec.ServiceID = `<script>alert(1)</script>`
	table := model.NewPivotTable([]model.ServiceRecord{rec}, 0)

	var buf bytes.Buffer
	if err := newRenderer(t).Table(&buf, BuildView(table, 0, false)); err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	if strings.Contains(buf.String(), "<script>alert(1)</script>") {
		t.Error("service id must be HTML escaped")
	}
}

func TestHTMLTableDroppedNotice(t *testing.T) {
	var buf bytes.Buffer
	if err := newRenderer(t).Table(&buf, BuildView(model.NewPivotTable(nil, 4), 5, true)); err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	if !strings.Contains(buf.String(), "4 record(s) had an hour outside 0-23") {
		t.Errorf("missing dropped notice: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "No services reported.") {
		t.Error("missing empty notice")
	}
}

func TestHTMLError(t *testing.T) {
	var buf bytes.Buffer
	if err := newRenderer(t).Error(&buf, "HTTP error! status: 500"); err != nil {
		t.Fatalf("Error() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Error: HTTP error! status: 500") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestHTMLPageShowsLoading(t *testing.T) {
	var buf bytes.Buffer
	if err := newRenderer(t).Page(&buf, PageData{Title: "Support Monitor", FragmentURL: "/fragment"}); err != nil {
		t.Fatalf("Page() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Loading...") {
		t.Error("page shell must show a loading placeholder")
	}
	if !strings.Contains(out, "fragment") {
		t.Error("page shell must request the fragment")
	}
}

func TestHTMLDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := newRenderer(t).Document(&buf, "Snapshot", BuildView(sampleTable(), 24, true)); err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<title>Snapshot</title>") || !strings.Contains(out, "23:00-24:00") {
		t.Errorf("unexpected document: %s", out)
	}
}
