package model

// WorkerProfile is the matching input describing a worker's categories,
// selected tags, and travel radius. It is consumed by the matching
// engine and the identity migrator; the profile itself is owned by a
// collaborator.
type WorkerProfile struct {
	UserID       string   `json:"userId"`
	Categories   []string `json:"categories"`
	SelectedTags []string `json:"selectedTags"`
	HomeLat      *float64 `json:"homeLat,omitempty"`
	HomeLon      *float64 `json:"homeLon,omitempty"`
	RadiusKm     float64  `json:"radiusKm"`
}

// HasCoordinates reports whether the worker declared a home location.
func (p WorkerProfile) HasCoordinates() bool {
	return p.HomeLat != nil && p.HomeLon != nil
}

// User is one entry of the external user directory, keyed by email.
// LegacyID carries the numeric or opaque identifier assigned before
// ids became email-derived; the identity migrator maps it away.
type User struct {
	Role     string `json:"role"`
	LegacyID string `json:"id,omitempty"`
}
