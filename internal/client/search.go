package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/amaumene/kioskarr/internal/models"
)

// Search queries the external catalogs through the kiosk API
func (c *Client) Search(ctx context.Context, query string, searchType models.SearchType) ([]models.SearchResult, error) {
	if searchType == "" {
		searchType = models.SearchTypeAll
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("type", string(searchType))

	var results []models.SearchResult
	err := c.doRequest(ctx, call{
		method: http.MethodGet,
		route:  "/search",
		path:   "/search",
		query:  params,
	}, &results)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Details fetches the catalog details of one item
func (c *Client) Details(ctx context.Context, source models.Source, id string, mediaType models.MediaType) (*models.MediaDetails, error) {
	params := url.Values{}
	if mediaType != "" {
		params.Set("media_type", string(mediaType))
	}

	var details models.MediaDetails
	err := c.doRequest(ctx, call{
		method: http.MethodGet,
		route:  "/search/{source}/{id}",
		path:   "/search/" + url.PathEscape(string(source)) + "/" + url.PathEscape(id),
		query:  params,
	}, &details)
	if err != nil {
		return nil, err
	}
	return &details, nil
}
