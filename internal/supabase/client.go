package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"endless-quiz/internal/quiz"
)

const (
	itemsTable = "quizzes"
	opList     = "list published quizzes"
)

// Row mirrors one row of the quizzes table as the REST API returns it.
type Row struct {
	ID          string  `json:"id"`
	Question    string  `json:"question_text"`
	Choice1     string  `json:"choice_1"`
	Choice2     *string `json:"choice_2"`
	Choice3     *string `json:"choice_3"`
	Choice4     *string `json:"choice_4"`
	Explanation string  `json:"explanation"`
	Published   bool    `json:"is_published"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// Client reads published items over the hosted REST data API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: httpClient,
	}
}

// ListPublished fetches every row with is_published = true. Every failure is
// reported as a *quiz.FetchError.
func (c *Client) ListPublished(ctx context.Context) ([]quiz.Item, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("is_published", "eq.true")
	reqURL := c.baseURL + "/rest/v1/" + itemsTable + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &quiz.FetchError{Op: opList, Err: err}
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &quiz.FetchError{Op: opList, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var rows []Row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, &quiz.FetchError{
			Op:         opList,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %v", quiz.ErrMalformedItem, err),
		}
	}

	items := make([]quiz.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.Item())
	}
	return items, nil
}

// Item converts the row; absent incorrect answers become empty slots.
func (r Row) Item() quiz.Item {
	item := quiz.Item{
		ID:            r.ID,
		Question:      r.Question,
		CorrectAnswer: r.Choice1,
		Explanation:   r.Explanation,
		Published:     r.Published,
	}
	for idx, choice := range []*string{r.Choice2, r.Choice3, r.Choice4} {
		if choice != nil {
			item.IncorrectAnswers[idx] = *choice
		}
	}
	if createdAt, err := time.Parse(time.RFC3339Nano, r.CreatedAt); err == nil {
		item.CreatedAt = createdAt.UTC()
	}
	return item
}

func decodeAPIError(resp *http.Response) error {
	fetchErr := &quiz.FetchError{Op: opList, StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		fetchErr.Err = err
		return fetchErr
	}

	var payload apiError
	if err := json.Unmarshal(body, &payload); err == nil && (payload.Code != "" || payload.Message != "") {
		fetchErr.Code = payload.Code
		fetchErr.Message = payload.Message
		return fetchErr
	}

	fetchErr.Message = strings.TrimSpace(string(body))
	if fetchErr.Message == "" {
		fetchErr.Message = resp.Status
	}
	return fetchErr
}
