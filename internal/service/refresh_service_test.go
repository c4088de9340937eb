package service

import (
	"context"
	"errors"
	"testing"

	"github.com/osspulse/osspulse/internal/domain"
	"github.com/osspulse/osspulse/internal/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockToolStore struct {
	mock.Mock
}

func (m *MockToolStore) ListPublishedTools(ctx context.Context) ([]domain.Tool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tool), args.Error(1)
}

func (m *MockToolStore) GetToolBySlug(ctx context.Context, slug string) (*domain.Tool, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tool), args.Error(1)
}

func (m *MockToolStore) ApplyToolUpdate(ctx context.Context, toolID string, update *domain.ToolUpdate) error {
	args := m.Called(ctx, toolID, update)
	return args.Error(0)
}

func (m *MockToolStore) UpdateToolStars(ctx context.Context, toolID string, stars int) error {
	args := m.Called(ctx, toolID, stars)
	return args.Error(0)
}

func (m *MockToolStore) MarkToolDraft(ctx context.Context, toolID string) error {
	args := m.Called(ctx, toolID)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyMilestone(ctx context.Context, toolName, toolSlug string, stars int) error {
	args := m.Called(ctx, toolName, toolSlug, stars)
	return args.Error(0)
}

func catalogTool(id, slug, repo string, stars int) domain.Tool {
	return domain.Tool{
		ID:         id,
		Name:       slug,
		Slug:       slug,
		Repository: strPtr(repo),
		Stars:      stars,
		Status:     domain.ToolStatusPublished,
	}
}

func TestRefreshAllOneFailureDoesNotAbortBatch(t *testing.T) {
	client := new(MockRepoClient)
	client.On("FetchRepository", mock.Anything, "acme", "alpha").
		Return(&port.RepositoryMetrics{Stars: 50}, nil)
	client.On("FetchRepository", mock.Anything, "acme", "broken").
		Return(nil, errors.New("upstream 502"))
	client.On("FetchRepository", mock.Anything, "acme", "gamma").
		Return(&port.RepositoryMetrics{Stars: 70}, nil)

	store := new(MockToolStore)
	store.On("ListPublishedTools", mock.Anything).Return([]domain.Tool{
		catalogTool("t1", "alpha", "https://github.com/acme/alpha", 40),
		catalogTool("t2", "broken", "https://github.com/acme/broken", 40),
		catalogTool("t3", "gamma", "https://github.com/acme/gamma", 60),
	}, nil)
	store.On("ApplyToolUpdate", mock.Anything, "t1", mock.Anything).Return(nil)
	store.On("ApplyToolUpdate", mock.Anything, "t3", mock.Anything).Return(nil)

	svc := NewRefreshService(NewEnrichService(client), store, nil, RefreshConfig{Concurrency: 2})
	summary, err := svc.RefreshAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Enriched)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Unpublished)
	store.AssertNotCalled(t, "ApplyToolUpdate", mock.Anything, "t2", mock.Anything)
	store.AssertExpectations(t)
}

func TestRefreshAllUnpublishesGoneRepositories(t *testing.T) {
	client := new(MockRepoClient)
	client.On("FetchRepository", mock.Anything, "acme", "ghost").
		Return(nil, port.ErrRepositoryGone)

	store := new(MockToolStore)
	store.On("ListPublishedTools", mock.Anything).Return([]domain.Tool{
		catalogTool("t1", "ghost", "https://github.com/acme/ghost", 10),
	}, nil)
	store.On("MarkToolDraft", mock.Anything, "t1").Return(nil)

	svc := NewRefreshService(NewEnrichService(client), store, nil, RefreshConfig{})
	summary, err := svc.RefreshAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Unpublished)
	store.AssertExpectations(t)
}

func TestRefreshAllUnpublishesUnparseableRepository(t *testing.T) {
	client := new(MockRepoClient)

	store := new(MockToolStore)
	store.On("ListPublishedTools", mock.Anything).Return([]domain.Tool{
		catalogTool("t1", "nowhere", "https://example.com/acme/nowhere", 10),
	}, nil)
	store.On("MarkToolDraft", mock.Anything, "t1").Return(nil)

	svc := NewRefreshService(NewEnrichService(client), store, nil, RefreshConfig{})
	summary, err := svc.RefreshAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Unpublished)
	client.AssertNotCalled(t, "FetchRepository")
	store.AssertExpectations(t)
}

func TestRefreshAllAnnouncesMilestones(t *testing.T) {
	client := new(MockRepoClient)
	client.On("FetchRepository", mock.Anything, "acme", "rocket").
		Return(&port.RepositoryMetrics{Stars: 600}, nil)

	store := new(MockToolStore)
	store.On("ListPublishedTools", mock.Anything).Return([]domain.Tool{
		catalogTool("t1", "rocket", "https://github.com/acme/rocket", 80),
	}, nil)
	store.On("ApplyToolUpdate", mock.Anything, "t1", mock.Anything).Return(nil)

	notifier := new(MockNotifier)
	notifier.On("NotifyMilestone", mock.Anything, "rocket", "rocket", 600).Return(nil)

	svc := NewRefreshService(NewEnrichService(client), store, notifier, RefreshConfig{})
	summary, err := svc.RefreshAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Milestones)
	notifier.AssertExpectations(t)
}

func TestRefreshAllNotifierFailureIsNotFatal(t *testing.T) {
	client := new(MockRepoClient)
	client.On("FetchRepository", mock.Anything, "acme", "rocket").
		Return(&port.RepositoryMetrics{Stars: 600}, nil)

	store := new(MockToolStore)
	store.On("ListPublishedTools", mock.Anything).Return([]domain.Tool{
		catalogTool("t1", "rocket", "https://github.com/acme/rocket", 80),
	}, nil)
	store.On("ApplyToolUpdate", mock.Anything, "t1", mock.Anything).Return(nil)

	notifier := new(MockNotifier)
	notifier.On("NotifyMilestone", mock.Anything, "rocket", "rocket", 600).
		Return(errors.New("webhook unreachable"))

	svc := NewRefreshService(NewEnrichService(client), store, notifier, RefreshConfig{})
	summary, err := svc.RefreshAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Enriched)
}

func TestRefreshAllListFailure(t *testing.T) {
	store := new(MockToolStore)
	store.On("ListPublishedTools", mock.Anything).Return(nil, errors.New("connection refused"))

	svc := NewRefreshService(NewEnrichService(new(MockRepoClient)), store, nil, RefreshConfig{})
	_, err := svc.RefreshAll(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "list published tools")
}

func TestRefreshStars(t *testing.T) {
	client := new(MockRepoClient)
	client.On("FetchStargazerCount", mock.Anything, "acme", "widget").Return(901, nil)

	tool := catalogTool("t1", "widget", "https://github.com/acme/widget", 900)
	store := new(MockToolStore)
	store.On("GetToolBySlug", mock.Anything, "widget").Return(&tool, nil)
	store.On("UpdateToolStars", mock.Anything, "t1", 901).Return(nil)

	svc := NewRefreshService(NewEnrichService(client), store, nil, RefreshConfig{})
	stars, err := svc.RefreshStars(context.Background(), "widget")

	require.NoError(t, err)
	assert.Equal(t, 901, stars)
	store.AssertExpectations(t)
}

func TestRefreshToolNotFound(t *testing.T) {
	store := new(MockToolStore)
	store.On("GetToolBySlug", mock.Anything, "missing").Return(nil, port.ErrToolNotFound)

	svc := NewRefreshService(NewEnrichService(new(MockRepoClient)), store, nil, RefreshConfig{})
	_, err := svc.RefreshTool(context.Background(), "missing")

	assert.ErrorIs(t, err, port.ErrToolNotFound)
}
