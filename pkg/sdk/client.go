// Package sdk provides a typed HTTP client for the banking chatbot backend.
package sdk

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client wraps calls to the chatbot backend
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		// Streamed replies can run long; the per-turn deadline comes from ctx
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

// CreateSession creates a new conversation session
func (c *Client) CreateSession(ctx context.Context, req *CreateSessionRequest) (*Session, error) {
	var resp ApiResponse[Session]
	if err := c.doJSON(ctx, http.MethodPost, "/api/chat/sessions", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// GetSession retrieves a session and its transcript
func (c *Client) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	var resp ApiResponse[Session]
	if err := c.doJSON(ctx, http.MethodGet, "/api/chat/sessions/"+sessionID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// DeleteSession removes a session
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/chat/sessions/"+sessionID, nil, nil)
}

// SendMessage posts a user message and consumes the streamed reply. The
// onDelta callback receives the full in-progress reply after each fragment;
// the returned result carries the finalized turn and optional audio
func (c *Client) SendMessage(ctx context.Context, sessionID string, req *PostMessageRequest, onDelta func(text string)) (*MessageResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat/sessions/"+sessionID+"/message", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("backend 'POST message' failed: %d: %s", resp.StatusCode, string(b))
	}

	return c.consumeStream(resp.Body, onDelta)
}

// consumeStream reads server-sent events until the done or error event
func (c *Client) consumeStream(body io.Reader, onDelta func(text string)) (*MessageResult, error) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var event, data, lastError string
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		case line == "":
			// Blank line terminates one event
			switch event {
			case EventDelta:
				var delta DeltaEvent
				if err := json.Unmarshal([]byte(data), &delta); err == nil && onDelta != nil {
					onDelta(delta.Text)
				}
			case EventError:
				// Recoverable errors (audio unavailable) are followed by a
				// done event; the turn failed only if none arrives
				var errEvent ErrorEvent
				if err := json.Unmarshal([]byte(data), &errEvent); err == nil {
					lastError = errEvent.Message
				} else {
					lastError = "turn failed"
				}
			case EventDone:
				var result MessageResult
				if err := json.Unmarshal([]byte(data), &result); err != nil {
					return nil, fmt.Errorf("failed to decode result: %w", err)
				}
				return &result, nil
			}
			event, data = "", ""
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reply stream interrupted: %w", err)
	}

	if lastError != "" {
		return nil, fmt.Errorf("turn failed: %s", lastError)
	}
	return nil, fmt.Errorf("reply stream ended without result")
}

// doJSON is a helper to perform JSON requests to the backend
func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any) error {
	// Create request body if input is provided
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("backend '%s %s' failed: %d: %s", method, path, resp.StatusCode, string(b))
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
