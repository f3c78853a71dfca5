package jobtech

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
)

type hitsResponse struct {
	Total struct {
		Value int `json:"value"`
	} `json:"total"`
	Hits []Item `json:"hits"`
}

type Item any

// GetItems makes GET requests to the JobSearch API and returns hits from as many pages as
// needed to collect limit items.
func (c *Client) GetItems(ctx context.Context, url string, q url.Values, limit int) ([]Item, error) {
	var items []Item

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req = c.setHeaders(req)
	req.URL.RawQuery = q.Encode()

	offset := 0
	for {
		pageSize := min(limit-len(items), maxPerPage)
		resp, err := c.request(withPage(req, offset, pageSize))
		if err != nil {
			return nil, err
		}

		response, err := c.parseHitsResponse(resp)
		if err != nil {
			return nil, err
		}

		items = append(items, response.Hits...)
		offset += len(response.Hits)

		if len(response.Hits) == 0 || len(items) >= limit || offset >= response.Total.Value {
			break
		}

		c.logger.Debug("additional request needed", zap.String("reason", fmt.Sprintf(
			"collected (%d) < requested (%d), total (%d)", len(items), limit, response.Total.Value),
		))
	}

	if len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}

func (c *Client) parseHitsResponse(resp *http.Response) (*hitsResponse, error) {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		body = gz
	}

	var response *hitsResponse
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode hits: %w", err)
	}
	if response == nil {
		return &hitsResponse{}, nil
	}

	return response, nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}
	req.Header.Set("Accept", contentType)
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

// withPage sets offset and limit parameters on the request URL.
func withPage(req *http.Request, offset, limit int) *http.Request {
	q := req.URL.Query()
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	req.URL.RawQuery = q.Encode()

	return req
}
