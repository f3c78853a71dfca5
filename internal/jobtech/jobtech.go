// Package jobtech fetches job postings from the JobTech JobSearch API and normalises them
// into postings.Posting records.
package jobtech

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobcoach/internal/postings"
)

const (
	apiURL    = "https://jobsearch.api.jobtechdev.se"
	userAgent = "spigell/jobcoach"
	// Max value for limit per request.
	maxPerPage = 100
)

type Client struct {
	apiKey     string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(logger *zap.Logger, apiKey string, timeout time.Duration) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		apiKey: strings.TrimSpace(apiKey),
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// Fetch returns up to limit postings for query. Network and decoding failures are logged
// and produce an empty result: searching may legitimately find nothing.
func (c *Client) Fetch(ctx context.Context, query string, limit int) []postings.Posting {
	result, err := c.Search(ctx, &SearchParams{Text: query, Limit: limit})
	if err != nil {
		c.logger.Warn("fetching postings failed",
			zap.String("query", query),
			zap.Int("limit", limit),
			zap.Error(err),
		)
		return []postings.Posting{}
	}

	c.logger.Debug("fetched postings", zap.String("query", query), zap.Int("count", result.Len()))
	return result.Items
}
