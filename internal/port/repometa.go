package port

import (
	"context"
	"time"
)

// RepositoryMetrics is the raw statistics snapshot returned by the remote
// host for one repository. License and topics are reported as-is; mapping
// the NOASSERTION sentinel and filtering languages is the enricher's job.
type RepositoryMetrics struct {
	Stars          int
	Forks          int
	Watchers       int
	Contributors   int // mentionable users, the host's contributor proxy
	LicenseSpdxID  *string
	LastCommitDate *time.Time // most recent default-branch commit
	Topics         []string
	Languages      []RepositoryLanguage // top languages by byte size, descending
	TotalBytes     int                  // byte total across all languages, not just the returned ones
}

// RepositoryLanguage is one language's share of a repository.
type RepositoryLanguage struct {
	Name  string
	Color string
	Bytes int
}

// RepoMetadataClient fetches repository statistics from the hosting
// platform. Implementations issue exactly one query per call and do not
// retry; recovery policy belongs to the caller.
type RepoMetadataClient interface {
	// FetchRepository returns the full statistics snapshot, or
	// ErrRepositoryGone when the repository no longer exists.
	FetchRepository(ctx context.Context, owner, name string) (*RepositoryMetrics, error)

	// FetchStargazerCount is the lightweight variant for stars-only refresh.
	FetchStargazerCount(ctx context.Context, owner, name string) (int, error)
}

// MilestoneNotifier announces a star-count milestone crossing.
type MilestoneNotifier interface {
	NotifyMilestone(ctx context.Context, toolName, toolSlug string, stars int) error
}
