// Package matching decides which worker profiles are eligible for
// which job postings. The engine is the single place eligibility
// policy is defined; it is pure and side-effect free.
package matching

import (
	"time"

	"github.com/gighive/gighive/internal/domain/geo"
	"github.com/gighive/gighive/internal/domain/model"
	"github.com/gighive/gighive/internal/domain/taxonomy"
	"github.com/gighive/gighive/pkg/metrics"
)

// MissingCoordinatesPolicy controls the radius check when either side
// lacks coordinates.
type MissingCoordinatesPolicy int

const (
	// MatchAnywhere skips the radius check when coordinates are
	// missing on either side.
	MatchAnywhere MissingCoordinatesPolicy = iota
	// RequireCoordinates fails the radius check when coordinates are
	// missing on either side.
	RequireCoordinates
)

// Engine evaluates worker/job eligibility against the taxonomy catalog
// and the worker's travel radius.
type Engine struct {
	catalog     *taxonomy.Catalog
	coordPolicy MissingCoordinatesPolicy
}

// NewEngine creates an eligibility engine backed by catalog.
func NewEngine(catalog *taxonomy.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:     catalog,
		coordPolicy: MatchAnywhere,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsEligible reports whether worker satisfies every constraint of job:
// category membership, required-all tags, required-any tags, job
// status, and geographic radius.
func (e *Engine) IsEligible(worker model.WorkerProfile, job model.Job) bool {
	start := time.Now()
	eligible := e.evaluate(worker, job)
	metrics.RecordEligibilityLatency(float64(time.Since(start).Milliseconds()))
	if eligible {
		metrics.RecordEligibilityCheck("eligible")
	} else {
		metrics.RecordEligibilityCheck("ineligible")
	}
	return eligible
}

func (e *Engine) evaluate(worker model.WorkerProfile, job model.Job) bool {
	if !contains(worker.Categories, job.Category) {
		return false
	}
	if !e.hasAllTags(worker, job) {
		return false
	}
	if !e.hasAnyTag(worker, job) {
		return false
	}
	if job.Status != model.JobStatusOpen || job.MatchedWorkerID != "" {
		return false
	}
	return e.withinRadius(worker, job)
}

// hasAllTags checks requiredAllTags ⊆ selectedTags. An empty
// requirement is vacuously satisfied. Tags not declared under the
// job's category are treated as malformed record data and do not
// block the worker.
func (e *Engine) hasAllTags(worker model.WorkerProfile, job model.Job) bool {
	for _, tag := range job.RequiredAllTags {
		if !e.catalog.IsTagAllowed(job.Category, tag) {
			continue
		}
		if !contains(worker.SelectedTags, tag) {
			return false
		}
	}
	return true
}

// hasAnyTag checks that requiredAnyTags is empty or intersects
// selectedTags. Tags outside the job's category are dropped before
// the check; if nothing valid remains the requirement is satisfied.
func (e *Engine) hasAnyTag(worker model.WorkerProfile, job model.Job) bool {
	valid := 0
	for _, tag := range job.RequiredAnyTags {
		if !e.catalog.IsTagAllowed(job.Category, tag) {
			continue
		}
		valid++
		if contains(worker.SelectedTags, tag) {
			return true
		}
	}
	return valid == 0
}

// withinRadius checks the great-circle distance against the worker's
// declared radius. A worker at exactly the radius is eligible. When
// either side lacks coordinates the configured policy decides.
func (e *Engine) withinRadius(worker model.WorkerProfile, job model.Job) bool {
	if !worker.HasCoordinates() || !job.Address.HasCoordinates() {
		return e.coordPolicy == MatchAnywhere
	}
	d := geo.Distance(*worker.HomeLat, *worker.HomeLon, *job.Address.Lat, *job.Address.Lon)
	return d <= worker.RadiusKm
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
