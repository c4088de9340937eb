package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyMilestonePostsPayload(t *testing.T) {
	var got milestonePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL)
	err := n.NotifyMilestone(context.Background(), "Widget", "widget", 500)

	require.NoError(t, err)
	assert.Equal(t, "star_milestone", got.Event)
	assert.Equal(t, "Widget", got.Tool)
	assert.Equal(t, "widget", got.Slug)
	assert.Equal(t, 500, got.Stars)
	assert.Contains(t, got.Text, "500 stars")
}

func TestNotifyMilestoneServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL)
	err := n.NotifyMilestone(context.Background(), "Widget", "widget", 500)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestNotifyMilestoneDisabled(t *testing.T) {
	n := NewNotifier("")

	assert.False(t, n.Enabled())
	assert.NoError(t, n.NotifyMilestone(context.Background(), "Widget", "widget", 500))
}
