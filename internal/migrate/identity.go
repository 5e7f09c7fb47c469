// Package migrate reconciles legacy user identifiers with canonical
// email-derived identifiers across jobs and the worker profile.
package migrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/gighive/gighive/internal/adapters/kv"
	"github.com/gighive/gighive/internal/adapters/records"
	"github.com/gighive/gighive/internal/adapters/repository"
	"github.com/gighive/gighive/internal/domain/model"
	"github.com/gighive/gighive/pkg/logger"
	"github.com/gighive/gighive/pkg/metrics"
)

// Collection keys consumed by the migrator. Both are owned by
// collaborators; the migrator only rewrites identifiers inside them.
const (
	UsersCollectionKey         = "users"
	WorkerProfileCollectionKey = "worker_profile"
)

const canonicalPrefix = "user_"

// Summary reports what one migration run rewrote.
type Summary struct {
	JobsRewritten    int  `json:"jobsRewritten"`
	ProfileRewritten bool `json:"profileRewritten"`
}

// Total returns the number of rewritten records.
func (s Summary) Total() int {
	n := s.JobsRewritten
	if s.ProfileRewritten {
		n++
	}
	return n
}

// IdentityMigrator rewrites legacy user ids to canonical ones. Running
// it repeatedly is safe: once every id is canonical a run writes
// nothing.
type IdentityMigrator struct {
	jobs    *repository.JobRepository
	users   *records.Document[map[string]model.User]
	profile *records.Document[model.WorkerProfile]
	log     logger.Logger
}

// NewIdentityMigrator creates a migrator over store using jobs for the
// job rewrites.
func NewIdentityMigrator(store kv.Store, jobs *repository.JobRepository) *IdentityMigrator {
	return &IdentityMigrator{
		jobs:    jobs,
		users:   records.NewDocument[map[string]model.User](store, UsersCollectionKey),
		profile: records.NewDocument[model.WorkerProfile](store, WorkerProfileCollectionKey),
		log:     logger.Named("migrate"),
	}
}

// CanonicalID derives the canonical identifier from an email address:
// lower-cased, every non-alphanumeric rune replaced by an underscore,
// prefixed with "user_".
func CanonicalID(email string) string {
	normalized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, strings.ToLower(email))
	return canonicalPrefix + normalized
}

// IsLegacyID reports whether id predates email-derived identifiers.
func IsLegacyID(id string) bool {
	return id != "" && !strings.HasPrefix(id, canonicalPrefix)
}

// Run executes one migration pass and returns a summary of rewrites.
func (m *IdentityMigrator) Run(ctx context.Context) (Summary, error) {
	metrics.RecordMigrationRun()
	var summary Summary

	users, found, err := m.users.Load(ctx)
	if err != nil {
		return summary, fmt.Errorf("load user directory: %w", err)
	}
	if !found || len(users) == 0 {
		m.log.Info(ctx, "no user directory, nothing to migrate")
		return summary, nil
	}

	// Legacy id (or raw email used as id) -> canonical id.
	mapping := make(map[string]string, len(users))
	for email, user := range users {
		canonical := CanonicalID(email)
		if user.LegacyID != "" && IsLegacyID(user.LegacyID) {
			mapping[user.LegacyID] = canonical
		}
		mapping[email] = canonical
	}

	rewritten, err := m.jobs.ReplaceEmployerIDs(ctx, mapping)
	if err != nil {
		return summary, fmt.Errorf("rewrite job employer ids: %w", err)
	}
	summary.JobsRewritten = rewritten

	changed, err := m.migrateProfile(ctx, users)
	if err != nil {
		return summary, err
	}
	summary.ProfileRewritten = changed

	metrics.RecordMigrationRewrites(summary.Total())
	m.log.Info(ctx, "identity migration finished",
		logger.Int("jobs_rewritten", summary.JobsRewritten),
		logger.Bool("profile_rewritten", summary.ProfileRewritten))
	return summary, nil
}

// migrateProfile replaces a legacy profile user id with the canonical
// id of the worker-role email.
func (m *IdentityMigrator) migrateProfile(ctx context.Context, users map[string]model.User) (bool, error) {
	profile, found, err := m.profile.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load worker profile: %w", err)
	}
	if !found || !IsLegacyID(profile.UserID) {
		return false, nil
	}

	workerEmail := ""
	for email, user := range users {
		if user.Role == "worker" {
			workerEmail = email
			break
		}
	}
	if workerEmail == "" {
		m.log.Warn(ctx, "legacy profile id but no worker-role user",
			logger.String("profile_user_id", profile.UserID))
		return false, nil
	}

	profile.UserID = CanonicalID(workerEmail)
	if err := m.profile.Save(ctx, profile); err != nil {
		return false, fmt.Errorf("save worker profile: %w", err)
	}
	return true, nil
}
