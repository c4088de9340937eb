package port

import (
	"context"

	"github.com/osspulse/osspulse/internal/domain"
)

// ToolStore is the persistence surface the refresh pipeline needs. The full
// catalog store implements more than this; the pipeline only reads tools and
// merges derived updates.
type ToolStore interface {
	ListPublishedTools(ctx context.Context) ([]domain.Tool, error)
	GetToolBySlug(ctx context.Context, slug string) (*domain.Tool, error)

	// ApplyToolUpdate merges one enrichment result into the tool record and
	// its topic/language attachments, matched by slug.
	ApplyToolUpdate(ctx context.Context, toolID string, update *domain.ToolUpdate) error

	// UpdateToolStars writes only the star count (lightweight refresh).
	UpdateToolStars(ctx context.Context, toolID string, stars int) error

	// MarkToolDraft unpublishes a tool that can no longer be enriched.
	MarkToolDraft(ctx context.Context, toolID string) error
}
