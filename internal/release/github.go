package release

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

var errIncompleteRelease = errors.New("response is missing tag_name or assets")

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = "https://api.github.com/"

// GitHubFetcher reads the latest release of a repository from the GitHub
// releases API.
type GitHubFetcher struct {
	client        *github.Client
	owner         string
	repo          string
	authenticated bool
}

// GitHubOption configures a GitHubFetcher.
type GitHubOption func(*githubOptions)

type githubOptions struct {
	apiURL     string
	token      string
	httpClient *http.Client
}

// WithAPIURL points the fetcher at a different API root (GitHub Enterprise,
// or an httptest server in tests).
func WithAPIURL(u string) GitHubOption {
	return func(o *githubOptions) {
		o.apiURL = u
	}
}

// WithToken authenticates requests with a static token.
func WithToken(token string) GitHubOption {
	return func(o *githubOptions) {
		o.token = token
	}
}

// WithTokenFromEnv reads the token from the named environment variable.
// An unset or empty variable leaves requests anonymous.
func WithTokenFromEnv(name string) GitHubOption {
	return func(o *githubOptions) {
		if name == "" {
			return
		}

		o.token = os.Getenv(name)
	}
}

// WithHTTPClient sets the underlying HTTP client for anonymous requests.
func WithHTTPClient(c *http.Client) GitHubOption {
	return func(o *githubOptions) {
		o.httpClient = c
	}
}

// NewGitHubFetcher creates a fetcher for repo in "owner/name" form.
func NewGitHubFetcher(repo string, opts ...GitHubOption) (*GitHubFetcher, error) {
	owner, name, err := SplitRepo(repo)
	if err != nil {
		return nil, err
	}

	o := &githubOptions{apiURL: DefaultAPIURL}
	for _, opt := range opts {
		opt(o)
	}

	httpClient := o.httpClient
	if o.token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: o.token})
		ctx := context.Background()

		if httpClient != nil {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		}

		httpClient = oauth2.NewClient(ctx, ts)
	}

	client := github.NewClient(httpClient)

	if o.apiURL != "" && o.apiURL != DefaultAPIURL {
		base, err := url.Parse(o.apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid API URL %q: %w", o.apiURL, err)
		}

		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}

		client.BaseURL = base
	}

	return &GitHubFetcher{
		client:        client,
		owner:         owner,
		repo:          name,
		authenticated: o.token != "",
	}, nil
}

// Repo returns the repository in "owner/name" form.
func (f *GitHubFetcher) Repo() string {
	return f.owner + "/" + f.repo
}

// FetchLatest returns the latest published release. Non-2xx responses,
// transport failures, undecodable bodies, and bodies missing tag_name or
// assets are all returned as errors.
func (f *GitHubFetcher) FetchLatest(ctx context.Context) (*Metadata, error) {
	rel, _, err := f.client.Repositories.GetLatestRelease(ctx, f.owner, f.repo)
	if err != nil {
		var rateLimitErr *github.RateLimitError
		if errors.As(err, &rateLimitErr) {
			return nil, fmt.Errorf("github rate limit exceeded (limit %d, resets %s, authenticated=%t): %w",
				rateLimitErr.Rate.Limit, rateLimitErr.Rate.Reset.Time, f.authenticated, err)
		}

		return nil, fmt.Errorf("fetching latest release of %s: %w", f.Repo(), err)
	}

	if rel == nil || rel.TagName == nil || rel.Assets == nil {
		return nil, fmt.Errorf("decoding latest release of %s: %w", f.Repo(), errIncompleteRelease)
	}

	meta := &Metadata{
		Tag:    rel.GetTagName(),
		Assets: make([]Asset, 0, len(rel.Assets)),
	}

	for _, a := range rel.Assets {
		meta.Assets = append(meta.Assets, Asset{
			Name:        a.GetName(),
			DownloadURL: a.GetBrowserDownloadURL(),
			SizeBytes:   int64(a.GetSize()),
		})
	}

	return meta, nil
}

// SplitRepo splits "owner/name" into its parts.
func SplitRepo(repo string) (owner, name string, err error) {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo format: %q (expected owner/name)", repo)
	}

	return parts[0], parts[1], nil
}
