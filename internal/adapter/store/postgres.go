package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/osspulse/osspulse/internal/domain"
	"github.com/osspulse/osspulse/internal/port"
)

// PostgresStore handles all relational database operations for the catalog.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and returns a store instance.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

const toolColumns = `id, name, slug, website, repository, description,
	stars, forks, score, bump, license, last_commit_date, status,
	created_at, updated_at`

func scanTool(row interface{ Scan(...any) error }) (*domain.Tool, error) {
	var t domain.Tool
	err := row.Scan(
		&t.ID, &t.Name, &t.Slug, &t.Website, &t.Repository, &t.Description,
		&t.Stars, &t.Forks, &t.Score, &t.Bump, &t.License, &t.LastCommitDate,
		&t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// --- Tools ---

// CreateTool inserts a new tool record as a draft.
func (s *PostgresStore) CreateTool(ctx context.Context, t *domain.Tool) (*domain.Tool, error) {
	query := `INSERT INTO tools (name, slug, website, repository, description, bump, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING ` + toolColumns

	status := t.Status
	if status == "" {
		status = domain.ToolStatusDraft
	}

	row := s.db.QueryRowContext(ctx, query,
		t.Name, t.Slug, t.Website, t.Repository, t.Description, t.Bump, status,
	)
	tool, err := scanTool(row)
	if err != nil {
		return nil, fmt.Errorf("create tool: %w", err)
	}
	return tool, nil
}

// ListPublishedTools returns published tools ranked by health score.
func (s *PostgresStore) ListPublishedTools(ctx context.Context) ([]domain.Tool, error) {
	query := `SELECT ` + toolColumns + `
	          FROM tools WHERE status = $1
	          ORDER BY score DESC, stars DESC, name ASC`

	rows, err := s.db.QueryContext(ctx, query, domain.ToolStatusPublished)
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	defer rows.Close()

	var tools []domain.Tool
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tool: %w", err)
		}
		tools = append(tools, *t)
	}
	return tools, rows.Err()
}

// GetToolBySlug returns one tool with its topics and languages attached.
func (s *PostgresStore) GetToolBySlug(ctx context.Context, slug string) (*domain.Tool, error) {
	query := `SELECT ` + toolColumns + ` FROM tools WHERE slug = $1`

	tool, err := scanTool(s.db.QueryRowContext(ctx, query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tool %s: %w", slug, port.ErrToolNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tool: %w", err)
	}
	return tool, nil
}

// ListToolTopics returns the topic slugs attached to a tool.
func (s *PostgresStore) ListToolTopics(ctx context.Context, toolID string) ([]domain.Topic, error) {
	query := `SELECT topic_slug FROM tool_topics WHERE tool_id = $1 ORDER BY topic_slug`

	rows, err := s.db.QueryContext(ctx, query, toolID)
	if err != nil {
		return nil, fmt.Errorf("list tool topics: %w", err)
	}
	defer rows.Close()

	var topics []domain.Topic
	for rows.Next() {
		var t domain.Topic
		if err := rows.Scan(&t.Slug); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// ListToolLanguages returns the languages attached to a tool with their
// byte-share percentages, largest first.
func (s *PostgresStore) ListToolLanguages(ctx context.Context, toolID string) ([]domain.Language, error) {
	query := `SELECT l.name, l.slug, l.color, tl.percentage
	          FROM tool_languages tl
	          JOIN languages l ON l.slug = tl.language_slug
	          WHERE tl.tool_id = $1
	          ORDER BY tl.percentage DESC`

	rows, err := s.db.QueryContext(ctx, query, toolID)
	if err != nil {
		return nil, fmt.Errorf("list tool languages: %w", err)
	}
	defer rows.Close()

	var langs []domain.Language
	for rows.Next() {
		var l domain.Language
		if err := rows.Scan(&l.Name, &l.Slug, &l.Color, &l.Percentage); err != nil {
			return nil, fmt.Errorf("scan language: %w", err)
		}
		langs = append(langs, l)
	}
	return langs, rows.Err()
}

// ApplyToolUpdate merges one enrichment result into the tool row and
// rebuilds its topic/language attachments, all in one transaction. Topics
// and languages are matched by slug so recurring names reuse existing rows.
func (s *PostgresStore) ApplyToolUpdate(ctx context.Context, toolID string, update *domain.ToolUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tool update: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE tools
		 SET stars = $1, forks = $2, score = $3, license = $4,
		     last_commit_date = $5, updated_at = NOW()
		 WHERE id = $6`,
		update.Stars, update.Forks, update.Score, update.License,
		update.LastCommitDate, toolID,
	)
	if err != nil {
		return fmt.Errorf("update tool metrics: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tool_topics WHERE tool_id = $1`, toolID); err != nil {
		return fmt.Errorf("clear tool topics: %w", err)
	}
	for _, topic := range update.Topics {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO topics (slug) VALUES ($1) ON CONFLICT (slug) DO NOTHING`,
			topic.Slug,
		); err != nil {
			return fmt.Errorf("upsert topic %s: %w", topic.Slug, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tool_topics (tool_id, topic_slug) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			toolID, topic.Slug,
		); err != nil {
			return fmt.Errorf("attach topic %s: %w", topic.Slug, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tool_languages WHERE tool_id = $1`, toolID); err != nil {
		return fmt.Errorf("clear tool languages: %w", err)
	}
	for _, lang := range update.Languages {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO languages (slug, name, color) VALUES ($1, $2, $3)
			 ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, color = EXCLUDED.color`,
			lang.Slug, lang.Name, lang.Color,
		); err != nil {
			return fmt.Errorf("upsert language %s: %w", lang.Slug, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tool_languages (tool_id, language_slug, percentage) VALUES ($1, $2, $3)`,
			toolID, lang.Slug, lang.Percentage,
		); err != nil {
			return fmt.Errorf("attach language %s: %w", lang.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tool update: %w", err)
	}
	return nil
}

// UpdateToolStars writes only the star count (lightweight refresh path).
func (s *PostgresStore) UpdateToolStars(ctx context.Context, toolID string, stars int) error {
	query := `UPDATE tools SET stars = $1, updated_at = NOW() WHERE id = $2`
	_, err := s.db.ExecContext(ctx, query, stars, toolID)
	return err
}

// MarkToolDraft pulls a tool back to draft when it can no longer be
// enriched (missing or vanished repository).
func (s *PostgresStore) MarkToolDraft(ctx context.Context, toolID string) error {
	query := `UPDATE tools SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := s.db.ExecContext(ctx, query, domain.ToolStatusDraft, toolID)
	return err
}

// --- Categories ---

// ListCategories returns all categories ordered by name.
func (s *PostgresStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT id, name, slug, created_at FROM categories ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// ListToolsByCategory returns published tools in a category, ranked by score.
func (s *PostgresStore) ListToolsByCategory(ctx context.Context, categorySlug string) ([]domain.Tool, error) {
	query := `SELECT ` + toolColumnsPrefixed("t") + `
	          FROM tools t
	          JOIN tool_categories tc ON tc.tool_id = t.id
	          JOIN categories c ON c.id = tc.category_id
	          WHERE c.slug = $1 AND t.status = $2
	          ORDER BY t.score DESC, t.stars DESC`

	rows, err := s.db.QueryContext(ctx, query, categorySlug, domain.ToolStatusPublished)
	if err != nil {
		return nil, fmt.Errorf("list tools by category: %w", err)
	}
	defer rows.Close()

	var tools []domain.Tool
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tool: %w", err)
		}
		tools = append(tools, *t)
	}
	return tools, rows.Err()
}

// --- Alternatives ---

// ListAlternativesForTool returns the proprietary products a tool replaces.
func (s *PostgresStore) ListAlternativesForTool(ctx context.Context, toolID string) ([]domain.Alternative, error) {
	query := `SELECT a.id, a.name, a.slug, a.website, a.description, a.created_at
	          FROM alternatives a
	          JOIN alternative_tools at ON at.alternative_id = a.id
	          WHERE at.tool_id = $1
	          ORDER BY a.name`

	rows, err := s.db.QueryContext(ctx, query, toolID)
	if err != nil {
		return nil, fmt.Errorf("list alternatives: %w", err)
	}
	defer rows.Close()

	var alts []domain.Alternative
	for rows.Next() {
		var a domain.Alternative
		if err := rows.Scan(&a.ID, &a.Name, &a.Slug, &a.Website, &a.Description, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alternative: %w", err)
		}
		alts = append(alts, a)
	}
	return alts, rows.Err()
}

// toolColumnsPrefixed qualifies the tool column list with a table alias for
// joined queries.
func toolColumnsPrefixed(alias string) string {
	return alias + `.id, ` + alias + `.name, ` + alias + `.slug, ` + alias + `.website, ` +
		alias + `.repository, ` + alias + `.description, ` + alias + `.stars, ` +
		alias + `.forks, ` + alias + `.score, ` + alias + `.bump, ` + alias + `.license, ` +
		alias + `.last_commit_date, ` + alias + `.status, ` + alias + `.created_at, ` +
		alias + `.updated_at`
}
