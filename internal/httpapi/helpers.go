package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"endless-quiz/internal/quiz"
)

const maxRequestBody = 1 << 16

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
	case errors.Is(err, quiz.ErrItemNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "item not found"})
	case errors.Is(err, quiz.ErrMalformedItem):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, quiz.ErrPrecondition):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, quiz.ErrFetchInFlight):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "a fetch is already in progress"})
	case errors.Is(err, quiz.ErrSessionFinished), errors.Is(err, quiz.ErrSessionClosed):
		writeJSON(w, http.StatusGone, errorResponse{Error: "session has ended"})
	case errors.Is(err, quiz.ErrWakeFailed):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to wake the database"})
	case errors.Is(err, ErrTooManySessions):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "too many active sessions"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

// parseCountParam reads a required non-negative integer query parameter.
func parseCountParam(r *http.Request, key string) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return 0, fmt.Errorf("%s is required", key)
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, errors.New(key + " must be a non-negative integer")
	}
	return parsed, nil
}

// choiceIndex resolves a select request given as an index or a letter.
func choiceIndex(request selectRequest) (int, error) {
	if request.Index != nil {
		return *request.Index, nil
	}
	letter := strings.ToUpper(strings.TrimSpace(request.Letter))
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
		return 0, errors.New("index or letter is required")
	}
	return int(letter[0] - 'A'), nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func (req itemRequest) toItem(id string) (quiz.Item, error) {
	if len(req.IncorrectAnswers) > quiz.MaxIncorrectAnswers {
		return quiz.Item{}, fmt.Errorf("%w: at most %d incorrect choices", quiz.ErrMalformedItem, quiz.MaxIncorrectAnswers)
	}
	if strings.TrimSpace(req.Question) == "" {
		return quiz.Item{}, fmt.Errorf("%w: question text is required", quiz.ErrMalformedItem)
	}

	item := quiz.Item{
		ID:            id,
		Question:      strings.TrimSpace(req.Question),
		CorrectAnswer: strings.TrimSpace(req.CorrectAnswer),
		Explanation:   strings.TrimSpace(req.Explanation),
		Published:     req.Published,
	}
	for idx, answer := range req.IncorrectAnswers {
		item.IncorrectAnswers[idx] = strings.TrimSpace(answer)
	}
	return item, nil
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
