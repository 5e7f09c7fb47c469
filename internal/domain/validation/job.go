// Package validation checks job postings before they are persisted.
package validation

import (
	"fmt"

	"github.com/gighive/gighive/internal/domain/model"
	"github.com/gighive/gighive/internal/domain/taxonomy"
)

// Result holds the outcome of a validation pass.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidateJob checks a job's timestamps, compensation, and tag/category
// consistency against the catalog. It collects every violation instead
// of stopping at the first.
func ValidateJob(job model.Job, catalog *taxonomy.Catalog) Result {
	var errs []string

	if job.TimeMode == model.TimeModeFixedTime {
		switch {
		case job.StartAt == nil || job.EndAt == nil:
			errs = append(errs, "fixed_time job requires start and end timestamps")
		case !job.StartAt.Before(*job.EndAt):
			errs = append(errs, "start must be before end")
		}
	}

	if job.WorkerAmountCents <= 0 {
		errs = append(errs, "compensation must be greater than zero")
	}

	if _, ok := catalog.GetCategory(job.Category); !ok {
		errs = append(errs, fmt.Sprintf("unknown category %q", job.Category))
	} else {
		for _, tag := range job.RequiredAllTags {
			if !catalog.IsTagAllowed(job.Category, tag) {
				errs = append(errs, fmt.Sprintf("tag %q is not declared under category %q", tag, job.Category))
			}
		}
		for _, tag := range job.RequiredAnyTags {
			if !catalog.IsTagAllowed(job.Category, tag) {
				errs = append(errs, fmt.Sprintf("tag %q is not declared under category %q", tag, job.Category))
			}
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}
