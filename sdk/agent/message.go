package agent

import (
	"context"
	"fmt"
	"net/http"
)

// ListMessages returns messages in a session.
func (c *Client) ListMessages(ctx context.Context, sessionID string, limit *int) ([]MessageWithParts, error) {
	path := "/session/" + sessionID + "/message"
	if limit != nil {
		path = fmt.Sprintf("%s?limit=%d", path, *limit)
	}

	var result []MessageWithParts
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetMessage retrieves a specific message.
func (c *Client) GetMessage(ctx context.Context, sessionID, messageID string) (*MessageWithParts, error) {
	var result MessageWithParts
	path := fmt.Sprintf("/session/%s/message/%s", sessionID, messageID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SendMessage posts a prompt to a session. The call is fire-and-forget as far
// as conversation state goes: every resulting update (the user message's
// confirmation included) arrives through the Subscribe stream, not through
// the return value.
func (c *Client) SendMessage(ctx context.Context, sessionID string, req *PromptRequest) error {
	path := "/session/" + sessionID + "/message"
	return c.doRequest(ctx, http.MethodPost, path, req, nil)
}
