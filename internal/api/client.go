// Package api implements the REST client for the chat and ticketing
// endpoints. It is the session's fallback path when the gateway socket is
// down and the only path for history, uploads and seat reservation.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mereapp/merechat/internal/chat"
)

// ErrUnauthorized marks a 401/403 response. The session surfaces it to the
// caller so the UI can send the user back through login; it is never retried.
var ErrUnauthorized = errors.New("api: unauthorized")

const defaultTimeout = 15 * time.Second

// Client talks to the platform REST API. The zero value is not usable; use
// NewClient.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a client for the API at baseURL, authenticating every
// request with the given bearer token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// ListChats fetches one page of the conversation list.
func (c *Client) ListChats(ctx context.Context, skip, limit int) ([]chat.ChatSummary, error) {
	var out []chat.ChatSummary
	err := c.get(ctx, "/merechats/all", skip, limit, &out)
	if err != nil {
		return nil, fmt.Errorf("api: list chats: %w", err)
	}
	return out, nil
}

// Messages fetches one history page for a chat, newest-first.
func (c *Client) Messages(ctx context.Context, chatID string, skip, limit int) ([]chat.Message, error) {
	var out []chat.Message
	path := "/merechats/chat/" + url.PathEscape(chatID) + "/messages"
	if err := c.get(ctx, path, skip, limit, &out); err != nil {
		return nil, fmt.Errorf("api: load messages: %w", err)
	}
	return out, nil
}

// SendMessage posts a message through the REST endpoint. The clientId is
// echoed back so the caller can reconcile its optimistic entry.
func (c *Client) SendMessage(ctx context.Context, chatID, content, clientID string) (chat.Message, error) {
	body := struct {
		Content  string `json:"content"`
		ClientID string `json:"clientId,omitempty"`
	}{Content: content, ClientID: clientID}

	var out chat.Message
	path := "/merechats/chat/" + url.PathEscape(chatID) + "/message"
	if err := c.postJSON(ctx, path, body, &out); err != nil {
		return chat.Message{}, fmt.Errorf("api: send message: %w", err)
	}
	return out, nil
}

// Upload streams a file to the chat's upload endpoint as multipart form data
// and returns the resulting attachment message.
func (c *Client) Upload(ctx context.Context, chatID, filename string, r io.Reader) (chat.Message, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return chat.Message{}, fmt.Errorf("api: upload: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return chat.Message{}, fmt.Errorf("api: upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return chat.Message{}, fmt.Errorf("api: upload: %w", err)
	}

	path := "/merechats/chat/" + url.PathEscape(chatID) + "/upload"
	req, err := c.newRequest(ctx, http.MethodPost, path, &buf)
	if err != nil {
		return chat.Message{}, fmt.Errorf("api: upload: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out chat.Message
	if err := c.do(req, &out); err != nil {
		return chat.Message{}, fmt.Errorf("api: upload: %w", err)
	}
	return out, nil
}

// StartChat creates a conversation with the given participants.
func (c *Client) StartChat(ctx context.Context, participants []string) (chat.ChatSummary, error) {
	body := struct {
		Participants []string `json:"participants"`
	}{Participants: participants}

	var out chat.ChatSummary
	if err := c.postJSON(ctx, "/merechats/start", body, &out); err != nil {
		return chat.ChatSummary{}, fmt.Errorf("api: start chat: %w", err)
	}
	return out, nil
}

// ReserveResult is the outcome of a seat reservation attempt.
type ReserveResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// ReserveSeats submits a batch reservation. The server treats the batch as
// all-or-nothing: either every seat is reserved or none is, and Message says
// why.
func (c *Client) ReserveSeats(ctx context.Context, seatIDs []string) (ReserveResult, error) {
	body := struct {
		Seats []string `json:"seats"`
	}{Seats: seatIDs}

	var out ReserveResult
	if err := c.postJSON(ctx, "/seats/reserve", body, &out); err != nil {
		return ReserveResult{}, fmt.Errorf("api: reserve seats: %w", err)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Request plumbing
// ---------------------------------------------------------------------------

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) get(ctx context.Context, path string, skip, limit int, out interface{}) error {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))
	req, err := c.newRequest(ctx, http.MethodGet, path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ErrUnauthorized)
	case resp.StatusCode >= 400:
		// Keep a slice of the body for the error; servers put the reason there.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
