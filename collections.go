package docdex

import (
	"context"
	"fmt"
	"net/url"
)

// Collections lists all collections in the catalog, sorted by name.
func (c *Client) Collections(ctx context.Context) ([]CollectionInfo, error) {
	var resp struct {
		Items []CollectionInfo `json:"items"`
		Total int              `json:"total"`
	}
	if err := c.do(ctx, "GET", "/v1/collections", nil, &resp); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return resp.Items, nil
}

// Collection describes one collection, including its row count.
func (c *Client) Collection(ctx context.Context, name string) (CollectionInfo, error) {
	var resp CollectionInfo
	path := "/v1/collections/" + url.PathEscape(name)
	if err := c.do(ctx, "GET", path, nil, &resp); err != nil {
		return CollectionInfo{}, fmt.Errorf("get collection %q: %w", name, err)
	}
	return resp, nil
}
