package agent

import (
	"context"
	"net/http"
)

// Subscribe opens the server's event stream. Envelopes arrive undecoded so
// the caller can filter and interpret them; cancel the context to stop.
//
// The stream is scoped to the client's working directory. Some deployments
// wrap each payload in {directory, payload}; that wrapper is passed through
// untouched and handled by the consumer.
func (c *Client) Subscribe(ctx context.Context) (<-chan *Envelope, <-chan error, error) {
	return c.doSSERequest(ctx, http.MethodGet, "/event")
}
