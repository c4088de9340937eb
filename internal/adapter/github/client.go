package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/osspulse/osspulse/internal/port"
	"golang.org/x/oauth2"
)

const defaultGraphQLURL = "https://api.github.com/graphql"

// Client implements port.RepoMetadataClient against the GitHub GraphQL API.
// It issues exactly one request per call and never retries; rate-limit and
// transport failures propagate to the caller.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a GraphQL client authenticated with a personal access
// token. An empty token means anonymous access (60 requests/hour).
func NewClient(token string) *Client {
	return NewClientWithEndpoint(token, defaultGraphQLURL)
}

// NewClientWithEndpoint creates a client against a custom GraphQL endpoint
// (GitHub Enterprise, or a test server).
func NewClientWithEndpoint(token, endpoint string) *Client {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	if endpoint == "" {
		endpoint = defaultGraphQLURL
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

// graphQLRequest is the JSON body POSTed to the GraphQL endpoint.
type graphQLRequest struct {
	Query     string            `json:"query"`
	Variables map[string]string `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// repositoryResponse mirrors the wire shape of repositoryQuery.
type repositoryResponse struct {
	Data struct {
		Repository *repositoryNode `json:"repository"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type repositoryNode struct {
	StargazerCount int `json:"stargazerCount"`
	ForkCount      int `json:"forkCount"`
	Watchers       struct {
		TotalCount int `json:"totalCount"`
	} `json:"watchers"`
	MentionableUsers struct {
		TotalCount int `json:"totalCount"`
	} `json:"mentionableUsers"`
	LicenseInfo *struct {
		SpdxID *string `json:"spdxId"`
	} `json:"licenseInfo"`
	DefaultBranchRef *struct {
		Target struct {
			History struct {
				Nodes []struct {
					CommittedDate time.Time `json:"committedDate"`
				} `json:"nodes"`
			} `json:"history"`
		} `json:"target"`
	} `json:"defaultBranchRef"`
	RepositoryTopics struct {
		Nodes []struct {
			Topic struct {
				Name string `json:"name"`
			} `json:"topic"`
		} `json:"nodes"`
	} `json:"repositoryTopics"`
	Languages struct {
		TotalSize int `json:"totalSize"`
		Edges     []struct {
			Size int `json:"size"`
			Node struct {
				Name  string `json:"name"`
				Color string `json:"color"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"languages"`
}

// FetchRepository fetches the full statistics snapshot for owner/name.
// Returns port.ErrRepositoryGone when the query succeeds but the repository
// is missing (deleted, renamed, or private).
func (c *Client) FetchRepository(ctx context.Context, owner, name string) (*port.RepositoryMetrics, error) {
	var result repositoryResponse
	if err := c.execute(ctx, repositoryQuery, owner, name, &result); err != nil {
		return nil, err
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("github: graphql error: %s", result.Errors[0].Message)
	}

	repo := result.Data.Repository
	if repo == nil {
		return nil, fmt.Errorf("github: %s/%s: %w", owner, name, port.ErrRepositoryGone)
	}

	metrics := &port.RepositoryMetrics{
		Stars:        repo.StargazerCount,
		Forks:        repo.ForkCount,
		Watchers:     repo.Watchers.TotalCount,
		Contributors: repo.MentionableUsers.TotalCount,
		TotalBytes:   repo.Languages.TotalSize,
	}

	if repo.LicenseInfo != nil {
		metrics.LicenseSpdxID = repo.LicenseInfo.SpdxID
	}
	if repo.DefaultBranchRef != nil && len(repo.DefaultBranchRef.Target.History.Nodes) > 0 {
		date := repo.DefaultBranchRef.Target.History.Nodes[0].CommittedDate
		metrics.LastCommitDate = &date
	}
	for _, n := range repo.RepositoryTopics.Nodes {
		metrics.Topics = append(metrics.Topics, n.Topic.Name)
	}
	for _, e := range repo.Languages.Edges {
		metrics.Languages = append(metrics.Languages, port.RepositoryLanguage{
			Name:  e.Node.Name,
			Color: e.Node.Color,
			Bytes: e.Size,
		})
	}

	return metrics, nil
}

// FetchStargazerCount fetches only the star count for owner/name.
func (c *Client) FetchStargazerCount(ctx context.Context, owner, name string) (int, error) {
	var result repositoryResponse
	if err := c.execute(ctx, stargazerQuery, owner, name, &result); err != nil {
		return 0, err
	}
	if len(result.Errors) > 0 {
		return 0, fmt.Errorf("github: graphql error: %s", result.Errors[0].Message)
	}
	if result.Data.Repository == nil {
		return 0, fmt.Errorf("github: %s/%s: %w", owner, name, port.ErrRepositoryGone)
	}
	return result.Data.Repository.StargazerCount, nil
}

// execute POSTs one GraphQL query and decodes the response into out.
func (c *Client) execute(ctx context.Context, query, owner, name string, out any) error {
	body, err := json.Marshal(graphQLRequest{
		Query:     query,
		Variables: map[string]string{"owner": owner, "name": name},
	})
	if err != nil {
		return fmt.Errorf("github: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("github: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github: graphql request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("github: graphql request failed (%d): %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("github: decode response: %w", err)
	}
	return nil
}
