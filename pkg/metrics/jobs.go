package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Jobs records runs of the maintenance worker's scheduled jobs.
type Jobs struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	rows     *prometheus.CounterVec
}

// NewJobs registers the job metrics on reg. A nil registerer yields no-ops.
func NewJobs(reg prometheus.Registerer) *Jobs {
	if reg == nil {
		return &Jobs{}
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_runs_total",
		Help:      "Scheduled job runs by job and outcome.",
	}, []string{"job", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "job_duration_seconds",
		Help:      "Duration of scheduled jobs in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_rows_deleted_total",
		Help:      "Rows removed by retention jobs.",
	}, []string{"job"})
	reg.MustRegister(runs, duration, rows)
	return &Jobs{runs: runs, duration: duration, rows: rows}
}

// JobRun records one run of job.
func (j *Jobs) JobRun(job string, duration time.Duration, err error) {
	if j == nil || j.runs == nil {
		return
	}
	job = normalizeLabel(job)
	j.runs.WithLabelValues(job, outcome(err)).Inc()
	j.duration.WithLabelValues(job).Observe(duration.Seconds())
}

// RowsDeleted adds n to the deleted rows counter of job.
func (j *Jobs) RowsDeleted(job string, n int64) {
	if j == nil || j.rows == nil || n <= 0 {
		return
	}
	j.rows.WithLabelValues(normalizeLabel(job)).Add(float64(n))
}
