// Package metrics provides Prometheus metrics for push runs. There is no
// long-running process to scrape, so metrics are written to a textfile for
// the node exporter textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Project results
const (
	ResultPushed  = "pushed"
	ResultFailed  = "failed"
	ResultAborted = "aborted"
)

// Metrics holds all Prometheus metrics of a push run. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	RemoteCallsTotal    *prometheus.CounterVec
	ProjectsTotal       *prometheus.CounterVec
	LibraryChangesTotal *prometheus.CounterVec
	FileUploadsTotal    *prometheus.CounterVec
	PushDuration        prometheus.Histogram

	registry *prometheus.Registry
}

// New creates and registers all metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		RemoteCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leancloud_remote_calls_total",
				Help: "Total number of calls to the project API by operation and status.",
			},
			[]string{"operation", "status"},
		),
		ProjectsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leancloud_projects_pushed_total",
				Help: "Total number of pushed projects by result.",
			},
			[]string{"result"},
		),
		LibraryChangesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leancloud_library_changes_total",
				Help: "Total number of library associations added or removed.",
			},
			[]string{"action"},
		),
		FileUploadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leancloud_file_uploads_total",
				Help: "Total number of uploaded files by action.",
			},
			[]string{"action"},
		),
		PushDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "leancloud_push_duration_seconds",
				Help:    "Duration of a push of one batch of projects.",
				Buckets: prometheus.DefBuckets,
			},
		),
		registry: reg,
	}

	reg.MustRegister(m.RemoteCallsTotal)
	reg.MustRegister(m.ProjectsTotal)
	reg.MustRegister(m.LibraryChangesTotal)
	reg.MustRegister(m.FileUploadsTotal)
	reg.MustRegister(m.PushDuration)

	return m
}

// Registry returns the registry holding all metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRemoteCall counts one API call; a non-nil err counts as an error.
func (m *Metrics) RecordRemoteCall(operation string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.RemoteCallsTotal.WithLabelValues(operation, status).Inc()
}

// RecordProject counts a finished project.
func (m *Metrics) RecordProject(result string) {
	if m == nil {
		return
	}
	m.ProjectsTotal.WithLabelValues(result).Inc()
}

// RecordLibraryChanges counts library associations added and removed.
func (m *Metrics) RecordLibraryChanges(added, removed int) {
	if m == nil {
		return
	}
	m.LibraryChangesTotal.WithLabelValues("add").Add(float64(added))
	m.LibraryChangesTotal.WithLabelValues("remove").Add(float64(removed))
}

// RecordFileUploads counts created and updated files.
func (m *Metrics) RecordFileUploads(created, updated int) {
	if m == nil {
		return
	}
	m.FileUploadsTotal.WithLabelValues("create").Add(float64(created))
	m.FileUploadsTotal.WithLabelValues("update").Add(float64(updated))
}

// ObservePush records the duration of a batch.
func (m *Metrics) ObservePush(seconds float64) {
	if m == nil {
		return
	}
	m.PushDuration.Observe(seconds)
}

// WriteTextfile writes all metrics to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
