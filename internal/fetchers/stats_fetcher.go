package fetchers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"adoptionchart/internal/logger"
	"adoptionchart/internal/models"

	"github.com/go-resty/resty/v2"
)

// DataPath is the fixed location of the stats file relative to the base URL
const DataPath = "/data/cumulative_stats.json"

// Options tunes the HTTP client. The zero value means no client timeout and
// no retries.
type Options struct {
	Timeout   time.Duration
	Retries   int
	RetryWait time.Duration
}

// StatsFetcher downloads and decodes cumulative_stats.json
type StatsFetcher struct {
	client *resty.Client
	url    string
	log    *logger.Logger
}

// NewStatsFetcher creates a fetcher for the stats file served under baseURL
func NewStatsFetcher(baseURL string, opts Options) *StatsFetcher {
	client := resty.New()
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(opts.Retries)
	if opts.RetryWait > 0 {
		client.SetRetryWaitTime(opts.RetryWait)
	}

	return &StatsFetcher{
		client: client,
		url:    ResolveURL(baseURL),
		log:    logger.Component("fetcher"),
	}
}

// ResolveURL joins baseURL and DataPath
func ResolveURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + DataPath
}

// URL returns the resource this fetcher requests
func (f *StatsFetcher) URL() string {
	return f.url
}

// Fetch performs a single GET of the stats file and decodes it. Rows are
// returned in file order.
func (f *StatsFetcher) Fetch(ctx context.Context) ([]models.DataPoint, error) {
	start := time.Now()

	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(f.url)
	if err != nil {
		return nil, &FetchError{URL: f.url, Err: err}
	}

	if !resp.IsSuccess() {
		return nil, &FetchError{
			URL:        f.url,
			StatusCode: resp.StatusCode(),
			StatusText: statusText(resp.StatusCode(), resp.Status()),
		}
	}

	var rows []models.DataPoint
	if err := json.Unmarshal(resp.Body(), &rows); err != nil {
		return nil, &ParseError{URL: f.url, Err: err}
	}

	for i, row := range rows {
		if !row.Consistent() {
			f.log.Warn("inconsistent stats row", logger.Fields{
				"index":       i,
				"commit_date": row.CommitDate,
				"completed":   row.Completed,
				"total":       row.Total,
			})
		}
	}

	f.log.Debug("fetched historical data", logger.Fields{
		"url":         f.url,
		"rows":        len(rows),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return rows, nil
}

// statusText extracts the reason phrase from a status line such as
// "500 Internal Server Error", falling back to the standard text for code.
func statusText(code int, status string) string {
	text := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
	if text == "" {
		text = http.StatusText(code)
	}
	if text == "" {
		text = "HTTP " + strconv.Itoa(code)
	}
	return text
}
