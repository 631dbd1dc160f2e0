package render

import (
	"fmt"
	"html/template"
	"io"
)

// PageData feeds the page shell.
type PageData struct {
	Title       string
	FragmentURL string
}

// Template names understood by HTMLRenderer and the gin engine.
const (
	PageTemplate     = "page"
	TableTemplate    = "table"
	ErrorTemplate    = "error"
	DocumentTemplate = "document"
)

type HTMLRenderer struct {
	tmpl *template.Template
}

func NewHTMLRenderer() (*HTMLRenderer, error) {
	funcs := template.FuncMap{
		"successRate": func(success, total int64) string {
			if total == 0 {
				return ""
			}
			return fmt.Sprintf("%.0f%%", float64(success)*100/float64(total))
		},
	}

	tmpl, err := template.New("support-monitor").Funcs(funcs).Parse(htmlTemplates)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML templates: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

// Template exposes the parsed set so an HTTP engine can execute it by name.
func (r *HTMLRenderer) Template() *template.Template {
	return r.tmpl
}

func (r *HTMLRenderer) Page(w io.Writer, data PageData) error {
	return r.tmpl.ExecuteTemplate(w, PageTemplate, data)
}

func (r *HTMLRenderer) Table(w io.Writer, v View) error {
	return r.tmpl.ExecuteTemplate(w, TableTemplate, v)
}

func (r *HTMLRenderer) Error(w io.Writer, message string) error {
	return r.tmpl.ExecuteTemplate(w, ErrorTemplate, message)
}

// Document renders a standalone page with the table inlined.
func (r *HTMLRenderer) Document(w io.Writer, title string, v View) error {
	return r.tmpl.ExecuteTemplate(w, DocumentTemplate, struct {
		Title string
		View  View
	}{title, v})
}

const htmlTemplates = `
{{define "style"}}
<style>
  body { font-family: system-ui, sans-serif; margin: 1.5rem; color: #1f2328; }
  table { border-collapse: collapse; font-size: 12px; }
  th, td { border: 1px solid #d0d7de; padding: 4px 6px; white-space: nowrap; }
  th { background: #f6f8fa; position: sticky; top: 0; }
  td.meta { color: #57606a; }
  tr.totals td { font-weight: 600; background: #f6f8fa; }
  .notice { color: #9a6700; margin-top: .5rem; }
  .error { color: #cf222e; }
</style>
{{end}}

{{define "page"}}<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  {{template "style"}}
</head>
<body>
  <h1>{{.Title}}</h1>
  <div id="monitor"><div>Loading...</div></div>
  <script>
    (function () {
      var target = document.getElementById("monitor");
      fetch({{.FragmentURL}}, { headers: { "Accept": "text/html" } })
        .then(function (resp) { return resp.text(); })
        .then(function (html) { target.innerHTML = html; })
        .catch(function (err) { target.textContent = "Error: " + err.message; });
    })();
  </script>
</body>
</html>
{{end}}

{{define "table"}}
<div>
  <h2>Data List</h2>
  {{if .Empty}}<p>No services reported.</p>{{end}}
  <table>
    <thead>
      <tr>
        <th>Service ID</th>
        <th>Territory</th>
        <th>Service</th>
        <th>Operator</th>
        <th>Partner</th>
        {{range .Hours}}<th>{{.Label}}</th>{{end}}
      </tr>
    </thead>
    <tbody>
      {{range .Rows}}
      <tr data-service="{{.ServiceID}}">
        <td>{{.Label}}</td>
        <td class="meta">{{.Metadata.Territory}}</td>
        <td class="meta">{{.Metadata.ServiceName}}</td>
        <td class="meta">{{.Metadata.Operator}}</td>
        <td class="meta">{{.Metadata.Partner}}</td>
        {{range .Cells}}<td data-hour="{{.Hour}}"{{with successRate .Bucket.PinGenSuccess .Bucket.PinGen}} title="PIN generation success {{.}}"{{end}}>{{.Text}}</td>{{end}}
      </tr>
      {{end}}
      {{if not .Empty}}
      <tr class="totals">
        <td colspan="5">Total</td>
        {{range .Totals}}<td data-hour="{{.Hour}}">{{.Text}}</td>{{end}}
      </tr>
      {{end}}
    </tbody>
  </table>
  {{if .DroppedEvents}}<p class="notice">{{.DroppedEvents}} record(s) had an hour outside 0-23 and were not placed.</p>{{end}}
</div>
{{end}}

{{define "error"}}<div class="error">Error: {{.}}</div>{{end}}

{{define "document"}}<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  {{template "style"}}
</head>
<body>
  <h1>{{.Title}}</h1>
  {{template "table" .View}}
</body>
</html>
{{end}}
`
