// Package catalog wraps the remote catalog API (TMDB-shaped REST endpoints)
// behind typed methods. All traffic goes through the gateway, which owns
// caching, concurrency limits, and availability handling.
package catalog

import (
	"context"
	"fmt"
	"net/url"

	json "github.com/goccy/go-json"

	"movierec/internal/gateway"
	"movierec/internal/model"
)

// Client issues catalog API requests. The API key is injected into request
// URLs here and stripped again by the gateway before cache keying.
type Client struct {
	gw      *gateway.Gateway
	baseURL string
	apiKey  string
}

// NewClient creates a catalog client on top of the gateway.
func NewClient(gw *gateway.Gateway, baseURL, apiKey string) *Client {
	return &Client{gw: gw, baseURL: baseURL, apiKey: apiKey}
}

func (c *Client) buildURL(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	return fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
}

func (c *Client) getList(ctx context.Context, path string, params url.Values) ([]Record, error) {
	body, err := c.gw.Get(ctx, c.buildURL(path, params))
	if err != nil {
		return nil, err
	}
	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse catalog response for %s: %w", path, err)
	}
	return resp.Results, nil
}

// Search looks up items of the given media type by free-text query.
func (c *Client) Search(ctx context.Context, mediaType model.MediaType, query string) ([]Record, error) {
	params := url.Values{}
	params.Set("query", query)
	return c.getList(ctx, fmt.Sprintf("/search/%s", mediaType), params)
}

// Popular returns one page of the popular listing.
func (c *Client) Popular(ctx context.Context, mediaType model.MediaType, page int) ([]Record, error) {
	params := url.Values{}
	params.Set("page", fmt.Sprintf("%d", page))
	return c.getList(ctx, fmt.Sprintf("/%s/popular", mediaType), params)
}

// Trending returns the weekly trending listing.
func (c *Client) Trending(ctx context.Context, mediaType model.MediaType) ([]Record, error) {
	return c.getList(ctx, fmt.Sprintf("/trending/%s/week", mediaType), nil)
}

// DiscoverByGenre returns one page of discovery results for a single genre.
func (c *Client) DiscoverByGenre(ctx context.Context, mediaType model.MediaType, genreID model.GenreID) ([]Record, error) {
	params := url.Values{}
	params.Set("with_genres", fmt.Sprintf("%d", genreID))
	params.Set("sort_by", "popularity.desc")
	return c.getList(ctx, fmt.Sprintf("/discover/%s", mediaType), params)
}

// DiscoverHiddenGems returns well-rated items with modest vote counts.
func (c *Client) DiscoverHiddenGems(ctx context.Context, mediaType model.MediaType) ([]Record, error) {
	params := url.Values{}
	params.Set("vote_count.gte", "50")
	params.Set("vote_count.lte", "500")
	params.Set("sort_by", "vote_average.desc")
	return c.getList(ctx, fmt.Sprintf("/discover/%s", mediaType), params)
}

// DiscoverAwardWinning returns highly-voted, highly-rated items.
func (c *Client) DiscoverAwardWinning(ctx context.Context, mediaType model.MediaType) ([]Record, error) {
	params := url.Values{}
	params.Set("vote_count.gte", "1000")
	params.Set("sort_by", "vote_average.desc")
	return c.getList(ctx, fmt.Sprintf("/discover/%s", mediaType), params)
}

// Similar returns the catalog's "similar items" listing for an item.
func (c *Client) Similar(ctx context.Context, mediaType model.MediaType, id int) ([]Record, error) {
	return c.getList(ctx, fmt.Sprintf("/%s/%d/similar", mediaType, id), nil)
}

// Recommendations returns the catalog's own recommendations for an item.
func (c *Client) Recommendations(ctx context.Context, mediaType model.MediaType, id int) ([]Record, error) {
	return c.getList(ctx, fmt.Sprintf("/%s/%d/recommendations", mediaType, id), nil)
}

// Details fetches full item detail with credits and keywords appended.
func (c *Client) Details(ctx context.Context, mediaType model.MediaType, id int) (*DetailResponse, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits,keywords")
	body, err := c.gw.Get(ctx, c.buildURL(fmt.Sprintf("/%s/%d", mediaType, id), params))
	if err != nil {
		return nil, err
	}
	var resp DetailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse detail response: %w", err)
	}
	return &resp, nil
}

// RuntimeMinutes resolves the runtime for either media type: movies carry a
// single runtime, series carry per-episode runtimes.
func (d *DetailResponse) RuntimeMinutes() int {
	if d.Runtime > 0 {
		return d.Runtime
	}
	if len(d.EpisodeRunTime) > 0 {
		return d.EpisodeRunTime[0]
	}
	return 0
}

// KeywordNames flattens the movie- and TV-shaped keyword envelopes.
func (d *DetailResponse) KeywordNames() []string {
	var names []string
	for _, k := range d.Keywords.Keywords {
		names = append(names, k.Name)
	}
	for _, k := range d.Keywords.Results {
		names = append(names, k.Name)
	}
	return names
}
