package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dwellingly/dwellingly-cli/internal/session"
)

// --- Property Methods ---

// ListProperties fetches every property visible to the session.
func (c *Client) ListProperties(ctx context.Context, sess session.Session) ([]Property, error) {
	data, err := c.get(ctx, sess, "/api/properties")
	if err != nil {
		return nil, err
	}
	var resp propertiesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return resp.Properties, nil
}

// ArchiveProperties archives the given property ids in one request.
func (c *Client) ArchiveProperties(ctx context.Context, sess session.Session, ids []int64) error {
	if len(ids) == 0 {
		return fmt.Errorf("no property ids to archive")
	}
	_, err := c.patch(ctx, sess, "/api/properties/archive", archiveRequest{IDs: ids})
	return err
}
