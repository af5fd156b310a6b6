package opentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"

	"endless-quiz/internal/quiz"
)

const (
	apiURL        = "https://opentdb.com/api.php"
	defaultAmount = 10
	maxAmount     = 50
)

// RawQuestion mirrors the OpenTriviaDB question payload.
type RawQuestion struct {
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Category         string   `json:"category"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

type apiResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []RawQuestion `json:"results"`
}

// Client pulls trivia from OpenTriviaDB to fill a local item bank.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: apiURL, httpClient: httpClient}
}

func (c *Client) FetchQuestions(ctx context.Context, amount int) ([]RawQuestion, error) {
	if amount <= 0 {
		amount = defaultAmount
	}
	if amount > maxAmount {
		amount = maxAmount
	}

	reqURL := c.baseURL + "?amount=" + strconv.Itoa(amount)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("opentdb returned status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	if payload.ResponseCode != 0 {
		return nil, fmt.Errorf("opentdb response_code=%d", payload.ResponseCode)
	}

	return payload.Results, nil
}

// Item converts a trivia question into an unsaved, published item. Text
// arrives HTML-escaped.
func (q RawQuestion) Item() (quiz.Item, error) {
	if len(q.IncorrectAnswers) > quiz.MaxIncorrectAnswers {
		return quiz.Item{}, fmt.Errorf("%w: %d incorrect answers", quiz.ErrMalformedItem, len(q.IncorrectAnswers))
	}

	item := quiz.Item{
		Question:      unescape(q.Question),
		CorrectAnswer: unescape(q.CorrectAnswer),
		Published:     true,
	}
	for idx, answer := range q.IncorrectAnswers {
		item.IncorrectAnswers[idx] = unescape(answer)
	}
	if category := unescape(q.Category); category != "" {
		item.Explanation = "Category: " + category
		if q.Difficulty != "" {
			item.Explanation += " (" + q.Difficulty + ")"
		}
	}

	if item.Question == "" || item.CorrectAnswer == "" {
		return quiz.Item{}, fmt.Errorf("%w: question and correct answer are required", quiz.ErrMalformedItem)
	}
	return item, nil
}

func unescape(value string) string {
	return strings.TrimSpace(html.UnescapeString(value))
}
