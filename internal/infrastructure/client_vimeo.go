package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yourusername/vimeo-archiver/internal/domain"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.vimeo.com"
	acceptHeader   = "application/vnd.vimeo.*+json;version=3.4"
	perPage        = 100
)

// VimeoClient fetches pages of the authenticated account's video list.
// Pages are requested sorted ascending by release date, 100 videos each.
type VimeoClient struct {
	baseURL    string
	config     *domain.VimeoConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewVimeoClient creates a client for the Vimeo API
func NewVimeoClient(config *domain.VimeoConfig, logger *zap.Logger) *VimeoClient {
	return &VimeoClient{
		baseURL:    defaultBaseURL,
		config:     config,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// SetTransport replaces the HTTP transport, used in tests
func (c *VimeoClient) SetTransport(rt http.RoundTripper) {
	c.httpClient.Transport = rt
}

// FetchPage fetches one page of the account's video list
func (c *VimeoClient) FetchPage(ctx context.Context, page int) (*domain.VideoPage, error) {
	query := url.Values{}
	query.Set("direction", "asc")
	query.Set("sort", "date")
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	endpoint := fmt.Sprintf("%s/me/videos?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build video list request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
	req.Header.Set("Accept", acceptHeader)

	c.logger.Debug("Fetching video list page", zap.Int("page", page))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("video list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("video list request returned status %d: %s", resp.StatusCode, string(body))
	}

	var videoPage domain.VideoPage
	if err := json.NewDecoder(resp.Body).Decode(&videoPage); err != nil {
		return nil, fmt.Errorf("failed to decode video list response: %w", err)
	}

	c.logger.Debug("Fetched video list page",
		zap.Int("page", page),
		zap.Int("videos", len(videoPage.Data)),
		zap.Bool("has_next", videoPage.HasNext()))

	return &videoPage, nil
}
