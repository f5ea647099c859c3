// Package client calls the endpoint surface over HTTP and decodes the
// response envelope.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"
	api "github.com/talentflow/talentflow/api/v1alpha1"
	"github.com/talentflow/talentflow/internal/queue"
	"github.com/talentflow/talentflow/pkg/requestid"
)

// DefaultBaseURL addresses the in-process simulator. Its host is never resolved.
const DefaultBaseURL = "http://talentflow.local"

// Source tells where a response came from.
type Source string

const (
	SourceEndpoint Source = "endpoint"
	SourceFallback Source = "fallback"
	SourceQueue    Source = "queue"
)

type Request struct {
	Method string
	// Path includes the query string, e.g. /jobs?status=active.
	Path string
	// Body is encoded as JSON. json.RawMessage and []byte are sent as is.
	Body  any
	Actor string
}

type Response struct {
	StatusCode int
	Data       json.RawMessage
	Pagination *api.Pagination
	Queued     bool
	QueueID    *uuid.UUID
	RequestID  string
	Source     Source
}

// Decode unmarshals the envelope data into v.
func (r *Response) Decode(v any) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("response carries no data")
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	body, err := EncodeBody(req.Body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req.Method, req.Path, body, req.Actor)
}

// Send replays a queued write. It implements queue.Sender.
func (c *Client) Send(ctx context.Context, e queue.Entry) error {
	if e.RequestID != "" {
		ctx = requestid.ToContext(ctx, e.RequestID)
	}
	_, err := c.do(ctx, e.Method, e.Path, e.Payload, e.Actor)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body json.RawMessage, actor string) (*Response, error) {
	ctx, reqID := requestid.Ensure(ctx)

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(requestid.Header, reqID)
	if reader != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if actor != "" {
		httpReq.Header.Set(api.ActorHeader, actor)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	return ParseResponse(resp)
}

// ParseResponse reads and closes resp.Body. Any status >= 400 is returned as
// *ErrStatus; a body that is not JSON is returned as *ErrMalformedResponse.
func ParseResponse(resp *http.Response) (*Response, error) {
	defer func() {
		_ = resp.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err != nil || mediaType != "application/json" {
		return nil, &ErrMalformedResponse{StatusCode: resp.StatusCode, ContentType: contentType}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr api.Error
		_ = json.Unmarshal(bodyBytes, &apiErr)
		statusErr := &ErrStatus{Code: resp.StatusCode, Message: apiErr.Message}
		if apiErr.RequestId != nil {
			statusErr.RequestID = *apiErr.RequestId
		}
		return nil, statusErr
	}

	envelope := struct {
		Data       json.RawMessage `json:"data"`
		Pagination *api.Pagination `json:"pagination"`
		Queued     bool            `json:"queued"`
		QueueId    *uuid.UUID      `json:"queueId"`
	}{}
	if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
		return nil, &ErrMalformedResponse{StatusCode: resp.StatusCode, ContentType: contentType, Err: err}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Data:       envelope.Data,
		Pagination: envelope.Pagination,
		Queued:     envelope.Queued,
		QueueID:    envelope.QueueId,
		RequestID:  resp.Header.Get(requestid.Header),
		Source:     SourceEndpoint,
	}, nil
}

// EncodeBody returns nil for a nil body.
func EncodeBody(body any) (json.RawMessage, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return b, nil
	case []byte:
		return b, nil
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return raw, nil
}
