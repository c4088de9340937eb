package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/osspulse/osspulse/internal/adapter/github"
	"github.com/osspulse/osspulse/internal/domain"
	"github.com/osspulse/osspulse/internal/health"
	"github.com/osspulse/osspulse/internal/port"
)

// licenseNoAssertion is the remote host's "license file present but not
// recognized" sentinel. It is never surfaced as a real license.
const licenseNoAssertion = "NOASSERTION"

// languageShareFloor is the minimum byte share (percent of the repository
// total) a language needs to be kept on the tool record.
const languageShareFloor = 17.5

// EnrichOutcome tags the result of one enrichment run.
type EnrichOutcome string

const (
	// OutcomeEnriched means a usable update was produced.
	OutcomeEnriched EnrichOutcome = "enriched"
	// OutcomeNoRepository means the tool's repository URL yields no
	// owner/name identifier; the tool cannot be enriched at all.
	OutcomeNoRepository EnrichOutcome = "no_repository"
	// OutcomeRepositoryGone means the remote host no longer has the
	// repository (deleted, renamed, or private).
	OutcomeRepositoryGone EnrichOutcome = "repository_gone"
	// OutcomeFetchFailed means the remote call failed this run; the next
	// scheduled run is the only recovery avenue.
	OutcomeFetchFailed EnrichOutcome = "fetch_failed"
)

// EnrichResult is the tagged outcome of enriching one tool. Update is set
// only when Outcome is OutcomeEnriched.
type EnrichResult struct {
	Outcome EnrichOutcome
	Update  *domain.ToolUpdate
}

// Enriched reports whether the run produced a usable update.
func (r EnrichResult) Enriched() bool {
	return r.Outcome == OutcomeEnriched
}

// EnrichService turns one tool record into a derived metrics update:
// parse the repository identifier, query the remote host, normalize the
// response, compute the health score, and detect milestone crossings.
// Expected failure modes never propagate as errors; callers get a tagged
// result and decide what to do with skipped tools.
type EnrichService struct {
	client port.RepoMetadataClient
	now    func() time.Time
}

// NewEnrichService creates an enrichment service using the given metadata
// client.
func NewEnrichService(client port.RepoMetadataClient) *EnrichService {
	return &EnrichService{client: client, now: time.Now}
}

// Enrich runs one enrichment pass for a tool. The tool's stored star count
// is the milestone baseline and its bump carries into the score; neither is
// mutated here — persistence belongs to the caller.
func (s *EnrichService) Enrich(ctx context.Context, tool *domain.Tool) EnrichResult {
	id, ok := github.ParseRepository(tool.Repository)
	if !ok {
		slog.Warn("tool has no usable repository, skipping enrichment",
			"tool", tool.Slug,
		)
		return EnrichResult{Outcome: OutcomeNoRepository}
	}

	metrics, err := s.client.FetchRepository(ctx, id.Owner, id.Name)
	if err != nil {
		if errors.Is(err, port.ErrRepositoryGone) {
			slog.Warn("repository gone from remote host",
				"tool", tool.Slug,
				"repository", *tool.Repository,
			)
			return EnrichResult{Outcome: OutcomeRepositoryGone}
		}
		slog.Error("repository fetch failed",
			"tool", tool.Slug,
			"repository", *tool.Repository,
			"error", err,
		)
		return EnrichResult{Outcome: OutcomeFetchFailed}
	}

	score := health.Score(health.Signals{
		Stars:          metrics.Stars,
		Forks:          metrics.Forks,
		Contributors:   metrics.Contributors,
		Watchers:       metrics.Watchers,
		LastCommitDate: metrics.LastCommitDate,
		Bump:           tool.BumpOrZero(),
	}, s.now())

	update := &domain.ToolUpdate{
		Stars:            metrics.Stars,
		Forks:            metrics.Forks,
		Score:            score,
		License:          normalizeLicense(metrics.LicenseSpdxID),
		LastCommitDate:   metrics.LastCommitDate,
		Topics:           topicsFrom(metrics.Topics),
		Languages:        languagesFrom(metrics.Languages, metrics.TotalBytes),
		ReachedMilestone: health.ReachedMilestone(metrics.Stars, tool.Stars),
	}

	return EnrichResult{Outcome: OutcomeEnriched, Update: update}
}

// StarCount fetches only the current star count for a tool, using the
// narrow query variant. Unlike Enrich this propagates failures: the
// lightweight path has no fail-soft batch around it.
func (s *EnrichService) StarCount(ctx context.Context, tool *domain.Tool) (int, error) {
	id, ok := github.ParseRepository(tool.Repository)
	if !ok {
		return 0, fmt.Errorf("tool %s: no usable repository", tool.Slug)
	}
	return s.client.FetchStargazerCount(ctx, id.Owner, id.Name)
}

// normalizeLicense maps the NOASSERTION sentinel (and absence) to nil.
func normalizeLicense(spdxID *string) *string {
	if spdxID == nil || *spdxID == licenseNoAssertion {
		return nil
	}
	return spdxID
}

// topicsFrom slugifies topic names into attachable records.
func topicsFrom(names []string) []domain.Topic {
	topics := make([]domain.Topic, 0, len(names))
	for _, name := range names {
		topics = append(topics, domain.Topic{Slug: domain.Slugify(name)})
	}
	return topics
}

// languagesFrom keeps languages whose byte share of the repository total
// exceeds the floor. Percentages stay relative to the original total; they
// are not renormalized among survivors. A zero total means no languages.
func languagesFrom(langs []port.RepositoryLanguage, totalBytes int) []domain.Language {
	if totalBytes <= 0 {
		return nil
	}

	var kept []domain.Language
	for _, l := range langs {
		pct := float64(l.Bytes) / float64(totalBytes) * 100
		if pct <= languageShareFloor {
			continue
		}
		kept = append(kept, domain.Language{
			Name:       l.Name,
			Slug:       domain.Slugify(l.Name),
			Color:      l.Color,
			Percentage: pct,
		})
	}
	return kept
}
