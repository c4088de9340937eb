package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/osspulse/osspulse/internal/domain"
	"github.com/osspulse/osspulse/internal/port"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// RefreshSummary reports what one batch refresh did.
type RefreshSummary struct {
	Total       int `json:"total"`
	Enriched    int `json:"enriched"`
	Skipped     int `json:"skipped"`
	Unpublished int `json:"unpublished"`
	Milestones  int `json:"milestones"`
}

// RefreshConfig bounds the batch refresh against the remote API's rate
// limits. The enrichment core imposes no limits of its own, so the caller
// side does.
type RefreshConfig struct {
	Concurrency    int           // parallel enrichments; <=0 means 1
	PerToolTimeout time.Duration // wall clock per remote call; <=0 means 30s
	RatePerSecond  float64       // remote calls per second; <=0 means unlimited
}

// RefreshService runs enrichment across the catalog. Each tool is
// independent: one tool's failure is logged and counted, never fatal to the
// batch.
type RefreshService struct {
	enricher *EnrichService
	store    port.ToolStore
	notifier port.MilestoneNotifier // nil disables milestone announcements
	limiter  *rate.Limiter
	cfg      RefreshConfig
}

// NewRefreshService wires the batch refresh pipeline. notifier may be nil.
func NewRefreshService(enricher *EnrichService, store port.ToolStore, notifier port.MilestoneNotifier, cfg RefreshConfig) *RefreshService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.PerToolTimeout <= 0 {
		cfg.PerToolTimeout = 30 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}

	return &RefreshService{
		enricher: enricher,
		store:    store,
		notifier: notifier,
		limiter:  limiter,
		cfg:      cfg,
	}
}

// RefreshAll enriches every published tool under the configured concurrency
// cap and rate limit. Returns an error only when the tool listing itself
// fails or the context is cancelled; per-tool failures land in the summary.
func (s *RefreshService) RefreshAll(ctx context.Context) (RefreshSummary, error) {
	tools, err := s.store.ListPublishedTools(ctx)
	if err != nil {
		return RefreshSummary{}, fmt.Errorf("list published tools: %w", err)
	}

	summary := RefreshSummary{Total: len(tools)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for i := range tools {
		tool := tools[i]
		g.Go(func() error {
			if err := s.limiter.Wait(gctx); err != nil {
				return err // context cancelled, stop the batch
			}

			outcome, milestone := s.refreshOne(gctx, &tool)

			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case OutcomeEnriched:
				summary.Enriched++
			case OutcomeNoRepository, OutcomeRepositoryGone:
				summary.Unpublished++
			default:
				summary.Skipped++
			}
			if milestone {
				summary.Milestones++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, fmt.Errorf("refresh batch: %w", err)
	}

	slog.Info("catalog refresh finished",
		"total", summary.Total,
		"enriched", summary.Enriched,
		"skipped", summary.Skipped,
		"unpublished", summary.Unpublished,
		"milestones", summary.Milestones,
	)
	return summary, nil
}

// RefreshTool enriches and persists a single tool by slug (manual trigger).
func (s *RefreshService) RefreshTool(ctx context.Context, slug string) (EnrichResult, error) {
	tool, err := s.store.GetToolBySlug(ctx, slug)
	if err != nil {
		return EnrichResult{}, fmt.Errorf("get tool %s: %w", slug, err)
	}

	outcome, _ := s.refreshOne(ctx, tool)
	return EnrichResult{Outcome: outcome}, nil
}

// RefreshStars updates only a tool's star count using the narrow query.
func (s *RefreshService) RefreshStars(ctx context.Context, slug string) (int, error) {
	tool, err := s.store.GetToolBySlug(ctx, slug)
	if err != nil {
		return 0, fmt.Errorf("get tool %s: %w", slug, err)
	}

	stars, err := s.enricher.StarCount(ctx, tool)
	if err != nil {
		return 0, fmt.Errorf("fetch stars for %s: %w", slug, err)
	}

	if err := s.store.UpdateToolStars(ctx, tool.ID, stars); err != nil {
		return 0, fmt.Errorf("update stars for %s: %w", slug, err)
	}
	return stars, nil
}

// refreshOne runs enrichment for one tool and persists the consequence.
// Store and notifier failures are logged, not propagated; the next scheduled
// run picks the tool up again.
func (s *RefreshService) refreshOne(ctx context.Context, tool *domain.Tool) (EnrichOutcome, bool) {
	tctx, cancel := context.WithTimeout(ctx, s.cfg.PerToolTimeout)
	defer cancel()

	result := s.enricher.Enrich(tctx, tool)

	switch result.Outcome {
	case OutcomeEnriched:
		if err := s.store.ApplyToolUpdate(ctx, tool.ID, result.Update); err != nil {
			slog.Error("failed to persist tool update",
				"tool", tool.Slug,
				"error", err,
			)
			return OutcomeFetchFailed, false
		}
		if result.Update.ReachedMilestone {
			s.announceMilestone(ctx, tool.Name, tool.Slug, result.Update.Stars)
		}
		return result.Outcome, result.Update.ReachedMilestone

	case OutcomeNoRepository, OutcomeRepositoryGone:
		// Nothing to show for this tool anymore; pull it back to draft.
		if err := s.store.MarkToolDraft(ctx, tool.ID); err != nil {
			slog.Error("failed to unpublish tool",
				"tool", tool.Slug,
				"error", err,
			)
		}
		return result.Outcome, false

	default:
		return result.Outcome, false
	}
}

func (s *RefreshService) announceMilestone(ctx context.Context, name, slug string, stars int) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyMilestone(ctx, name, slug, stars); err != nil {
		slog.Warn("milestone notification failed",
			"tool", slug,
			"stars", stars,
			"error", err,
		)
	}
}
