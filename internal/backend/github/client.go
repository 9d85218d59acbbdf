package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v35/github"
	"golang.org/x/oauth2"

	"github.com/quantmind-br/repolens/pkg/version"
)

// ClientOptions configures the hosting API client
type ClientOptions struct {
	// Token is a personal access token; empty means anonymous access
	Token string
	// BaseURL and UploadURL select a GitHub Enterprise installation
	BaseURL   string
	UploadURL string
	Timeout   time.Duration
}

// NewClient creates a go-github client. A token is sent as a bearer
// credential through oauth2; enterprise URLs are used when both are set.
func NewClient(opts ClientOptions) (*gh.Client, error) {
	httpClient := &http.Client{}
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	httpClient.Timeout = opts.Timeout

	var client *gh.Client
	if opts.BaseURL == "" || opts.UploadURL == "" {
		client = gh.NewClient(httpClient)
	} else {
		var err error
		client, err = gh.NewEnterpriseClient(opts.BaseURL, opts.UploadURL, httpClient)
		if err != nil {
			return nil, fmt.Errorf("failed to create enterprise client: %w", err)
		}
	}
	client.UserAgent = version.UserAgent()
	return client, nil
}
