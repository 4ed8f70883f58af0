package push

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// ProjectResult is the outcome of pushing one project
type ProjectResult struct {
	Path     string
	Name     string
	RemoteID int

	// Created is true when the remote project was created by this push
	Created bool

	Added   []int
	Removed []int

	FilesCreated []string
	FilesUpdated []FileChange

	// Updated lists the config keys pushed in the settings update
	Updated []string

	Err error
}

// Report collects the results of a push in push order
type Report struct {
	Results []*ProjectResult
}

func (r *Report) add(result *ProjectResult) {
	r.Results = append(r.Results, result)
}

// Result returns the result of the project at path, nil if it was not pushed
func (r *Report) Result(path string) *ProjectResult {
	for _, result := range r.Results {
		if result.Path == path {
			return result
		}
	}
	return nil
}

// Failed returns the number of projects that failed or were aborted
func (r *Report) Failed() int {
	failed := 0
	for _, result := range r.Results {
		if result.Err != nil {
			failed++
		}
	}
	return failed
}

// Succeeded returns the number of projects pushed without error
func (r *Report) Succeeded() int {
	return len(r.Results) - r.Failed()
}

const summaryTemplate = `{{- range .Results }}
{{ if .Err }}✗{{ else }}✓{{ end }} {{ .Name | default .Path }}{{ with .RemoteID }} (cloud id {{ . }}){{ end }}
{{- if .Created }}
    created remote project
{{- end }}
{{- with .Added }}
    libraries added: {{ join ", " . }}
{{- end }}
{{- with .Removed }}
    libraries removed: {{ join ", " . }}
{{- end }}
{{- with .FilesCreated }}
    files created: {{ join ", " . }}
{{- end }}
{{- range .FilesUpdated }}
    file updated: {{ .Name }} (+{{ .Added }} -{{ .Removed }})
{{- if and $.Verbose .Diff }}
{{ .Diff | trimSuffix "\n" | indent 8 }}
{{- end }}
{{- end }}
{{- with .Updated }}
    settings pushed: {{ join ", " . }}
{{- end }}
{{- with .Err }}
    error: {{ . }}
{{- end }}
{{- end }}

{{ .Succeeded }} pushed, {{ .Failed }} failed
`

var summary = template.Must(template.New("summary").Funcs(sprig.TxtFuncMap()).Parse(summaryTemplate))

// RenderSummary renders a human readable summary of the report. Verbose
// summaries include the diff of every updated file.
func RenderSummary(report *Report, verbose bool) (string, error) {
	data := struct {
		Results   []*ProjectResult
		Verbose   bool
		Succeeded int
		Failed    int
	}{
		Results:   report.Results,
		Verbose:   verbose,
		Succeeded: report.Succeeded(),
		Failed:    report.Failed(),
	}

	var buf bytes.Buffer
	if err := summary.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimLeft(buf.String(), "\n"), nil
}
