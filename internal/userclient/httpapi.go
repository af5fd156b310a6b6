package userclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"endless-quiz/internal/quiz"
)

var (
	ErrServiceUnavailable = errors.New("quiz service unavailable")
	ErrSessionNotFound    = errors.New("session not found")
)

const fetchInFlightMessage = "a fetch is already in progress"

// APIError is a non-2xx answer from the quiz service. It unwraps to the
// session error the status stands for, so callers can use errors.Is with
// the quiz sentinels.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrSessionNotFound
	case http.StatusConflict:
		if e.Message == fetchInFlightMessage {
			return quiz.ErrFetchInFlight
		}
		return quiz.ErrPrecondition
	case http.StatusGone:
		return quiz.ErrSessionFinished
	case http.StatusBadGateway:
		return quiz.ErrWakeFailed
	case http.StatusServiceUnavailable:
		return ErrServiceUnavailable
	default:
		return nil
	}
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

type sessionPayload struct {
	SessionID string           `json:"session_id"`
	Phase     string           `json:"phase"`
	Question  *questionPayload `json:"question,omitempty"`
	Failure   string           `json:"failure,omitempty"`
	Waking    bool             `json:"waking,omitempty"`
	CanWake   bool             `json:"can_wake"`
	Played    int              `json:"played"`
	Stats     statsPayload     `json:"stats"`
}

type questionPayload struct {
	ItemID       string          `json:"item_id"`
	Question     string          `json:"question"`
	Choices      []choicePayload `json:"choices"`
	Selected     *int            `json:"selected,omitempty"`
	Answered     bool            `json:"answered"`
	CorrectIndex *int            `json:"correct_index,omitempty"`
	Correct      *bool           `json:"correct,omitempty"`
	Explanation  string          `json:"explanation,omitempty"`
}

type choicePayload struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

type statsPayload struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

type selectRequest struct {
	Index int `json:"index"`
}

type resultPayload struct {
	SessionID string `json:"session_id,omitempty"`
	Correct   int    `json:"correct"`
	Total     int    `json:"total"`
	Percent   int    `json:"percent"`
	Tier      string `json:"tier"`
	Message   string `json:"message"`
}

type healthPayload struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultServer
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *HTTPClient) Health(ctx context.Context) error {
	var payload healthPayload
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &payload); err != nil {
		return err
	}
	if payload.Status != "healthy" {
		return fmt.Errorf("%w: status %q", ErrServiceUnavailable, payload.Status)
	}
	return nil
}

// CreateSession opens a session; the service fetches its first question.
func (c *HTTPClient) CreateSession(ctx context.Context) (sessionPayload, error) {
	var payload sessionPayload
	err := c.doJSON(ctx, http.MethodPost, "/sessions", nil, &payload)
	return payload, err
}

func (c *HTTPClient) Next(ctx context.Context, sessionID string) (sessionPayload, error) {
	return c.sessionAction(ctx, sessionID, "next", nil)
}

func (c *HTTPClient) Select(ctx context.Context, sessionID string, index int) (sessionPayload, error) {
	return c.sessionAction(ctx, sessionID, "select", selectRequest{Index: index})
}

func (c *HTTPClient) Submit(ctx context.Context, sessionID string) (sessionPayload, error) {
	return c.sessionAction(ctx, sessionID, "submit", nil)
}

func (c *HTTPClient) Wake(ctx context.Context, sessionID string) (sessionPayload, error) {
	return c.sessionAction(ctx, sessionID, "wake", nil)
}

func (c *HTTPClient) Finish(ctx context.Context, sessionID string) (quiz.Result, error) {
	var payload resultPayload
	if err := c.doJSON(ctx, http.MethodPost, sessionPath(sessionID, "finish"), nil, &payload); err != nil {
		return quiz.Result{}, err
	}
	return payload.result(), nil
}

// CloseSession drops an unfinished session on the service without recording it.
func (c *HTTPClient) CloseSession(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return errors.New("session_id is required")
	}
	return c.doJSON(ctx, http.MethodDelete, sessionPath(sessionID, ""), nil, nil)
}

func (c *HTTPClient) sessionAction(ctx context.Context, sessionID, action string, requestBody any) (sessionPayload, error) {
	if strings.TrimSpace(sessionID) == "" {
		return sessionPayload{}, errors.New("session_id is required")
	}

	var payload sessionPayload
	err := c.doJSON(ctx, http.MethodPost, sessionPath(sessionID, action), requestBody, &payload)
	return payload, err
}

func sessionPath(sessionID, action string) string {
	path := "/sessions/" + url.PathEscape(sessionID)
	if action != "" {
		path += "/" + action
	}
	return path
}

func (p resultPayload) result() quiz.Result {
	return quiz.Result{
		Correct: p.Correct,
		Total:   p.Total,
		Percent: p.Percent,
		Tier:    p.Tier,
		Message: p.Message,
	}
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
