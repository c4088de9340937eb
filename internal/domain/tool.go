package domain

import "time"

// Tool represents a cataloged open-source tool.
type Tool struct {
	ID             string     `json:"id"            db:"id"`
	Name           string     `json:"name"          db:"name"`
	Slug           string     `json:"slug"          db:"slug"`
	Website        string     `json:"website"       db:"website"`
	Repository     *string    `json:"repository"    db:"repository"`
	Description    string     `json:"description"   db:"description"`
	Stars          int        `json:"stars"         db:"stars"`
	Forks          int        `json:"forks"         db:"forks"`
	Score          int        `json:"score"         db:"score"`
	Bump           *int       `json:"bump"          db:"bump"`
	License        *string    `json:"license"       db:"license"`
	LastCommitDate *time.Time `json:"last_commit_date" db:"last_commit_date"`
	Status         string     `json:"status"        db:"status"` // draft, scheduled, published
	CreatedAt      time.Time  `json:"created_at"    db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"    db:"updated_at"`
}

// ToolStatus constants.
const (
	ToolStatusDraft     = "draft"
	ToolStatusScheduled = "scheduled"
	ToolStatusPublished = "published"
)

// BumpOrZero returns the manual score adjustment, defaulting to 0.
func (t *Tool) BumpOrZero() int {
	if t.Bump == nil {
		return 0
	}
	return *t.Bump
}

// Category groups tools by what they do.
type Category struct {
	ID        string    `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	Slug      string    `json:"slug"       db:"slug"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Alternative is a proprietary product a cataloged tool replaces.
type Alternative struct {
	ID          string    `json:"id"          db:"id"`
	Name        string    `json:"name"        db:"name"`
	Slug        string    `json:"slug"        db:"slug"`
	Website     string    `json:"website"     db:"website"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at"  db:"created_at"`
}

// Topic is a repository topic attached to a tool, keyed by slug.
type Topic struct {
	Slug string `json:"slug" db:"slug"`
}

// Language is a programming language attached to a tool with its share of
// the repository's bytes. Percentage is relative to the repository's total
// byte count, not renormalized among retained languages.
type Language struct {
	Name       string  `json:"name"       db:"name"`
	Slug       string  `json:"slug"       db:"slug"`
	Color      string  `json:"color"      db:"color"`
	Percentage float64 `json:"percentage" db:"percentage"`
}

// ToolUpdate is the derived metrics record produced by one enrichment run,
// merged into the tool's persisted state by the store.
type ToolUpdate struct {
	Stars            int
	Forks            int
	Score            int
	License          *string
	LastCommitDate   *time.Time
	Topics           []Topic
	Languages        []Language
	ReachedMilestone bool
}
