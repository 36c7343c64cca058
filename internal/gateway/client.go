// Package gateway is the REST client for the chat backend. It converts the
// backend's keyed wire maps into domain values right at the boundary so
// nothing else in the program sees the wire shape.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"time"

	"ghichat/internal/chat"
)

const basePath = "/testReact"

// Client talks to one backend instance.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error %d: %s", e.Status, e.Message)
}

// NewClient creates a client with a cookie jar, so the session cookie set
// on login rides along on later requests.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8082"
	}
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second, Jar: jar},
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+basePath+path, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(respBody, &errResp)
		return nil, &APIError{Status: resp.StatusCode, Message: errResp.Message}
	}
	return respBody, nil
}

// FetchConversation retrieves one conversation snapshot. A payload without
// the requested conversation key means the server knows nothing about it
// yet; that is reported as (nil, nil), not an error.
func (c *Client) FetchConversation(ctx context.Context, conversationID int64) (*chat.Snapshot, error) {
	path := "/convo?conversation=" + strconv.FormatInt(conversationID, 10)
	respBody, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var envelope map[string]wireConversation
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, err
	}
	wc, ok := envelope[fmt.Sprintf("conversation_%d", conversationID)]
	if !ok {
		return nil, nil
	}
	return wc.toSnapshot(), nil
}

// SendMessage posts a message. Only the status code matters; the response
// body is discarded.
func (c *Client) SendMessage(ctx context.Context, out chat.Outgoing) error {
	payload := sendPayload{
		FromUser:       out.From,
		ToUser:         out.To,
		Contenu:        out.Body,
		ConversationID: out.ConversationID,
	}
	_, err := c.doRequest(ctx, http.MethodPost, "/sendMessage", payload)
	return err
}

// Login exchanges credentials for the authenticated user's ID. The session
// cookie set by the backend stays in the jar.
func (c *Client) Login(ctx context.Context, email, password string) (int64, error) {
	payload := map[string]string{"email": email, "password": password}
	respBody, err := c.doRequest(ctx, http.MethodPost, "/login", payload)
	if err != nil {
		return 0, err
	}

	var resp struct {
		UserID int64 `json:"userId"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return 0, err
	}
	return resp.UserID, nil
}
