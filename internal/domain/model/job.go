// Package model contains domain models passed between layers.
package model

import "time"

// JobStatus is the closed set of job lifecycle states.
type JobStatus string

const (
	JobStatusDraft    JobStatus = "draft"
	JobStatusOpen     JobStatus = "open"
	JobStatusMatched  JobStatus = "matched"
	JobStatusDone     JobStatus = "done"
	JobStatusCanceled JobStatus = "canceled"
)

// jobTransitions is the allowed-transition table for jobs.
// done and canceled are terminal.
var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusDraft:   {JobStatusOpen, JobStatusCanceled},
	JobStatusOpen:    {JobStatusMatched, JobStatusDone, JobStatusCanceled},
	JobStatusMatched: {JobStatusDone, JobStatusCanceled},
}

// Valid reports whether s is a known job status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusDraft, JobStatusOpen, JobStatusMatched, JobStatusDone, JobStatusCanceled:
		return true
	}
	return false
}

// CanTransition reports whether s may move to next.
func (s JobStatus) CanTransition(next JobStatus) bool {
	for _, allowed := range jobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TimeMode describes how a job's working time is specified.
type TimeMode string

const (
	TimeModeFixedTime   TimeMode = "fixed_time"
	TimeModeHourPackage TimeMode = "hour_package"
	TimeModeProject     TimeMode = "project"
)

// Address is a job's location. Coordinates are optional; geocoding is
// best effort.
type Address struct {
	Street     string   `json:"street"`
	PostalCode string   `json:"postalCode"`
	City       string   `json:"city"`
	Lat        *float64 `json:"lat,omitempty"`
	Lon        *float64 `json:"lon,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (a Address) HasCoordinates() bool {
	return a.Lat != nil && a.Lon != nil
}

// Job represents a short-term job posting.
//
// LegacyOwnerID carries the pre-migration "ownerId" field so orphan
// repair can adopt it; it is never written by new code paths.
type Job struct {
	ID              string    `json:"id"`
	EmployerID      string    `json:"employerId"`
	LegacyOwnerID   string    `json:"ownerId,omitempty"`
	Title           string    `json:"title"`
	Category        string    `json:"category"`
	RequiredAllTags []string  `json:"requiredAllTags,omitempty"`
	RequiredAnyTags []string  `json:"requiredAnyTags,omitempty"`
	Address         Address   `json:"address"`
	Status          JobStatus `json:"status"`

	TimeMode TimeMode   `json:"timeMode"`
	StartAt  *time.Time `json:"startAt,omitempty"` // fixed_time
	EndAt    *time.Time `json:"endAt,omitempty"`   // fixed_time
	Hours    int        `json:"hours,omitempty"`   // hour_package
	DueAt    *time.Time `json:"dueAt,omitempty"`   // project

	WorkerAmountCents int64  `json:"workerAmountCents"`
	MatchedWorkerID   string `json:"matchedWorkerId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// JobPatch holds partial fields for JobRepository.Update. Nil pointers
// leave the existing value untouched.
type JobPatch struct {
	Title             *string    `json:"title,omitempty"`
	Category          *string    `json:"category,omitempty"`
	RequiredAllTags   *[]string  `json:"requiredAllTags,omitempty"`
	RequiredAnyTags   *[]string  `json:"requiredAnyTags,omitempty"`
	Address           *Address   `json:"address,omitempty"`
	Status            *JobStatus `json:"status,omitempty"`
	TimeMode          *TimeMode  `json:"timeMode,omitempty"`
	StartAt           *time.Time `json:"startAt,omitempty"`
	EndAt             *time.Time `json:"endAt,omitempty"`
	Hours             *int       `json:"hours,omitempty"`
	DueAt             *time.Time `json:"dueAt,omitempty"`
	WorkerAmountCents *int64     `json:"workerAmountCents,omitempty"`
	MatchedWorkerID   *string    `json:"matchedWorkerId,omitempty"`
}
