package httpapi

import (
	"time"

	"endless-quiz/internal/quiz"
)

type sessionResponse struct {
	SessionID string            `json:"session_id"`
	Phase     string            `json:"phase"`
	Question  *questionResponse `json:"question,omitempty"`
	Failure   string            `json:"failure,omitempty"`
	Waking    bool              `json:"waking,omitempty"`
	CanWake   bool              `json:"can_wake"`
	Played    int               `json:"played"`
	Stats     statsResponse     `json:"stats"`
}

// questionResponse hides which choice is correct until the question is answered.
type questionResponse struct {
	ItemID       string           `json:"item_id"`
	Question     string           `json:"question"`
	Choices      []choiceResponse `json:"choices"`
	Selected     *int             `json:"selected,omitempty"`
	Answered     bool             `json:"answered"`
	CorrectIndex *int             `json:"correct_index,omitempty"`
	Correct      *bool            `json:"correct,omitempty"`
	Explanation  string           `json:"explanation,omitempty"`
}

type choiceResponse struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

type statsResponse struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

type selectRequest struct {
	Index  *int   `json:"index,omitempty"`
	Letter string `json:"letter,omitempty"`
}

type resultResponse struct {
	SessionID string `json:"session_id,omitempty"`
	Correct   int    `json:"correct"`
	Total     int    `json:"total"`
	Percent   int    `json:"percent"`
	Tier      string `json:"tier"`
	Message   string `json:"message"`
}

type itemRequest struct {
	Question         string   `json:"question_text"`
	CorrectAnswer    string   `json:"choice_1"`
	IncorrectAnswers []string `json:"incorrect_choices"`
	Explanation      string   `json:"explanation"`
	Published        bool     `json:"is_published"`
}

type itemResponse struct {
	ID               string    `json:"id"`
	Question         string    `json:"question_text"`
	CorrectAnswer    string    `json:"choice_1"`
	IncorrectAnswers []string  `json:"incorrect_choices"`
	Explanation      string    `json:"explanation"`
	Published        bool      `json:"is_published"`
	CreatedAt        time.Time `json:"created_at"`
}

type itemsResponse struct {
	Items []itemResponse `json:"items"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toSessionResponse(id string, state quiz.State, played int) sessionResponse {
	response := sessionResponse{
		SessionID: id,
		Phase:     state.Phase.String(),
		Waking:    state.Waking,
		CanWake:   state.CanWake(),
		Played:    played,
		Stats:     statsResponse{Correct: state.Stats.Correct, Total: state.Stats.Total},
	}
	if state.Phase == quiz.PhaseErrored {
		response.Failure = state.Failure.String()
	}
	if state.Phase == quiz.PhaseQuestion {
		response.Question = toQuestionResponse(state)
	}
	return response
}

func toQuestionResponse(state quiz.State) *questionResponse {
	question := &questionResponse{
		ItemID:   state.Item.ID,
		Question: state.Item.Question,
		Choices:  make([]choiceResponse, 0, len(state.Choices)),
		Answered: state.Answered,
	}
	for idx, choice := range state.Choices {
		question.Choices = append(question.Choices, choiceResponse{Letter: quiz.Letter(idx), Text: choice.Text})
	}
	if state.Selected != quiz.NoSelection {
		selected := state.Selected
		question.Selected = &selected
	}
	if state.Answered {
		correctIndex := quiz.CorrectIndex(state.Choices)
		question.CorrectIndex = &correctIndex
		chosen, _ := state.SelectedChoice()
		correct := chosen.IsCorrect
		question.Correct = &correct
		question.Explanation = state.Item.Explanation
	}
	return question
}

func toResultResponse(sessionID string, result quiz.Result) resultResponse {
	return resultResponse{
		SessionID: sessionID,
		Correct:   result.Correct,
		Total:     result.Total,
		Percent:   result.Percent,
		Tier:      result.Tier,
		Message:   result.Message,
	}
}

func toItemResponse(item quiz.Item) itemResponse {
	incorrect := make([]string, 0, quiz.MaxIncorrectAnswers)
	for _, answer := range item.IncorrectAnswers {
		if answer != "" {
			incorrect = append(incorrect, answer)
		}
	}
	return itemResponse{
		ID:               item.ID,
		Question:         item.Question,
		CorrectAnswer:    item.CorrectAnswer,
		IncorrectAnswers: incorrect,
		Explanation:      item.Explanation,
		Published:        item.Published,
		CreatedAt:        item.CreatedAt,
	}
}
