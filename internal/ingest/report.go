package ingest

import (
	"log/slog"
	"sync"
	"time"
)

// SourceStats describes what one source contributed to a run.
type SourceStats struct {
	Name       string
	Fetched    int
	Duplicates int
	Invalid    int
	Err        error
}

// RunReport summarizes a pipeline run. Fields are final once Run returns.
type RunReport struct {
	mu sync.Mutex

	Sources       []*SourceStats
	Persisted     int
	Flushes       int
	Dropped       int
	Purged        int64
	FetchFailures int
	WriteFailures int
	Duration      time.Duration
}

func (r *RunReport) source(name string) *SourceStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &SourceStats{Name: name}
	r.Sources = append(r.Sources, stats)
	return stats
}

func (r *RunReport) update(fn func(r *RunReport)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r)
}

// Source returns the stats recorded for the named source.
func (r *RunReport) Source(name string) (SourceStats, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.Sources {
		if s.Name == name {
			return *s, true
		}
	}
	return SourceStats{}, false
}

// Failed lists the sources whose contribution ended in an error.
func (r *RunReport) Failed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var names []string
	for _, s := range r.Sources {
		if s.Err != nil {
			names = append(names, s.Name)
		}
	}
	return names
}

func (r *RunReport) log(pipeline string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var fetched, duplicates, invalid int
	for _, s := range r.Sources {
		fetched += s.Fetched
		duplicates += s.Duplicates
		invalid += s.Invalid
	}
	slog.Info("Pipeline run completed",
		"pipeline", pipeline,
		"sources", len(r.Sources),
		"fetched", fetched,
		"persisted", r.Persisted,
		"duplicates", duplicates,
		"invalid", invalid,
		"dropped", r.Dropped,
		"flushes", r.Flushes,
		"purged_fingerprints", r.Purged,
		"fetch_failures", r.FetchFailures,
		"write_failures", r.WriteFailures,
		"duration", r.Duration,
	)
}
