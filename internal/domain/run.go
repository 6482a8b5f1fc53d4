package domain

import (
	"fmt"
	"strings"
	"time"
)

// errorSampleLimit caps how many error messages per kind a report keeps.
const errorSampleLimit = 3

// SourceReport aggregates the outcome of one source within a run.
type SourceReport struct {
	Source   string
	Fetched  int
	Inserted int
	Skipped  int
	Failed   int
	Errors   map[ErrorKind][]string
}

// NewSourceReport returns an empty report for the named source.
func NewSourceReport(source string) *SourceReport {
	return &SourceReport{Source: source, Errors: map[ErrorKind][]string{}}
}

// RecordFailure counts the error and keeps the first few messages per kind.
func (r *SourceReport) RecordFailure(err error) {
	r.Failed++
	kind := Classify(err)
	if len(r.Errors[kind]) < errorSampleLimit {
		r.Errors[kind] = append(r.Errors[kind], err.Error())
	}
}

// RunReport is the externally observable result of one ingestion run.
type RunReport struct {
	Family     string
	StartedAt  time.Time
	FinishedAt time.Time
	Sources    []SourceReport
}

// TotalInserted sums inserted records across sources.
func (r RunReport) TotalInserted() int {
	total := 0
	for _, s := range r.Sources {
		total += s.Inserted
	}
	return total
}

// TotalFailed sums per-unit failures across sources.
func (r RunReport) TotalFailed() int {
	total := 0
	for _, s := range r.Sources {
		total += s.Failed
	}
	return total
}

// Summary renders the report as a human-readable digest.
func (r RunReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ingestion run (%s) %s\n", r.Family, r.FinishedAt.Sub(r.StartedAt).Round(time.Second))
	for _, s := range r.Sources {
		fmt.Fprintf(&b, "- %s: fetched %d, inserted %d, skipped %d, failed %d\n",
			s.Source, s.Fetched, s.Inserted, s.Skipped, s.Failed)
		for kind, samples := range s.Errors {
			for _, sample := range samples {
				fmt.Fprintf(&b, "  [%s] %s\n", kind, sample)
			}
		}
	}
	return b.String()
}
