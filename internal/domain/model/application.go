package model

import "time"

// ApplicationStatus is the closed set of application lifecycle states.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
	ApplicationStatusCanceled ApplicationStatus = "canceled"
)

// applicationTransitions is the allowed-transition table for applications.
// rejected and canceled are terminal.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending:  {ApplicationStatusAccepted, ApplicationStatusRejected, ApplicationStatusCanceled},
	ApplicationStatusAccepted: {ApplicationStatusCanceled},
}

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected, ApplicationStatusCanceled:
		return true
	}
	return false
}

// CanTransition reports whether s may move to next.
func (s ApplicationStatus) CanTransition(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentStatus tracks worker compensation for an accepted application.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// JobApplication represents a worker's application to a job.
//
// EmployerID is a denormalized copy of the job's owner, set at creation
// and immutable afterwards. Contact details may only be exposed
// downstream once both legal confirmations are true; that gate lives in
// a collaborator, but the flags are persisted here.
type JobApplication struct {
	ID          string            `json:"id"`
	JobID       string            `json:"jobId"`
	WorkerID    string            `json:"workerId"`
	EmployerID  string            `json:"employerId"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	RespondedAt *time.Time        `json:"respondedAt,omitempty"`

	PaymentStatus PaymentStatus `json:"paymentStatus,omitempty"`

	EmployerConfirmedLegal bool `json:"employerConfirmedLegal"`
	WorkerConfirmedLegal   bool `json:"workerConfirmedLegal"`
}
