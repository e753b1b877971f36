// Package agent provides a Go client for an OpenCode-compatible agent server.
//
// The client covers session management, message sending and the server-push
// event stream. Reconciliation of the stream into a transcript lives in
// internal/engine; this package only moves bytes.
//
// Example usage:
//
//	client := agent.NewClient("http://localhost:8000",
//	    agent.WithDirectory("/path/to/project"),
//	)
//
//	session, err := client.CreateSession(ctx, &agent.CreateSessionRequest{
//	    Title: agent.String("My Session"),
//	})
//
//	envCh, errCh, err := client.Subscribe(ctx)
//	for env := range envCh {
//	    // Feed env.Raw to the reconciliation engine.
//	}
package agent

import "time"

// Now returns the current time as a Unix timestamp in milliseconds.
func Now() float64 {
	return float64(time.Now().UnixMilli())
}

// String creates a string pointer (helper for optional fields).
func String(s string) *string {
	return &s
}

// Bool creates a bool pointer (helper for optional fields).
func Bool(b bool) *bool {
	return &b
}

// Int creates an int pointer (helper for optional fields).
func Int(i int) *int {
	return &i
}
