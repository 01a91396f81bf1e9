// Package backend implements the HTTP client for the conversation backend
// service. The core treats every transport fault and HTTP-level failure code
// the same way; callers only distinguish connectivity-class faults (wrapped
// in ErrUnavailable) from the rest.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	// ErrUnavailable marks connectivity-class faults: the service could not
	// be reached, timed out, or reported itself unavailable.
	ErrUnavailable = errors.New("conversation backend unavailable")
)

const defaultRequestTimeout = 10 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The caller keeps
// responsibility for transport instrumentation and timeouts.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   defaultRequestTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

type conversationRequest struct {
	UserID int    `json:"user_id"`
	Text   string `json:"text"`
}

type conversationResponse struct {
	GPTResponse string `json:"gpt_response"`
}

// ProcessConversation round-trips a transcript to the backend and returns the
// reply text.
func (c *Client) ProcessConversation(ctx context.Context, userID int, text string) (string, error) {
	var response conversationResponse
	if err := c.post(ctx, "/conversation/", conversationRequest{UserID: userID, Text: text}, &response); err != nil {
		return "", err
	}

	if response.GPTResponse == "" {
		return "", fmt.Errorf("conversation backend returned an empty reply")
	}

	return response.GPTResponse, nil
}

// Decision is the backend's verdict for one incoming message.
type Decision struct {
	ShouldReply bool
	ReplyText   string
}

type smsDecisionRequest struct {
	UserID int    `json:"user_id"`
	Text   string `json:"text"`
}

type smsDecisionResponse struct {
	Decision  string `json:"decision"`
	ReplyText string `json:"reply_text"`
}

// MakeSMSDecision forwards an incoming message and returns the backend's
// reply decision. The backend answers "yes" or "no"; anything else is treated
// as "no".
func (c *Client) MakeSMSDecision(ctx context.Context, userID int, text string) (Decision, error) {
	var response smsDecisionResponse
	if err := c.post(ctx, "/sms/decision", smsDecisionRequest{UserID: userID, Text: text}, &response); err != nil {
		return Decision{}, err
	}

	return Decision{
		ShouldReply: strings.EqualFold(response.Decision, "yes"),
		ReplyText:   response.ReplyText,
	}, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode backend request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build backend request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: backend returned status %d", ErrUnavailable, response.StatusCode)
	}
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("backend returned status %d", response.StatusCode)
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}

	return nil
}
