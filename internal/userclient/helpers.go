package userclient

import (
	"errors"
	"fmt"

	"endless-quiz/internal/quiz"
)

func describeClientError(err error, serverURL string) error {
	if errors.Is(err, ErrServiceUnavailable) {
		return fmt.Errorf("quiz service unavailable at %s", serverURL)
	}
	return err
}

func parsePhase(value string) quiz.Phase {
	switch value {
	case "question":
		return quiz.PhaseQuestion
	case "out_of_questions":
		return quiz.PhaseOutOfQuestions
	case "errored":
		return quiz.PhaseErrored
	case "finished":
		return quiz.PhaseFinished
	default:
		return quiz.PhaseLoading
	}
}

func parseFailure(value string) quiz.FailureKind {
	if value == quiz.FailurePaused.String() {
		return quiz.FailurePaused
	}
	return quiz.FailureOther
}

// toState rebuilds a session snapshot from the service payload. Choice
// correctness is only known once the question has been answered.
func (p sessionPayload) toState() quiz.State {
	state := quiz.State{
		Phase:    parsePhase(p.Phase),
		Selected: quiz.NoSelection,
		Waking:   p.Waking,
		Stats:    quiz.Stats{Correct: p.Stats.Correct, Total: p.Stats.Total},
	}
	if state.Phase == quiz.PhaseErrored {
		state.Failure = parseFailure(p.Failure)
	}

	question := p.Question
	if state.Phase != quiz.PhaseQuestion || question == nil {
		return state
	}

	state.Item = quiz.Item{
		ID:          question.ItemID,
		Question:    question.Question,
		Explanation: question.Explanation,
		Published:   true,
	}
	state.Answered = question.Answered
	if question.Selected != nil {
		state.Selected = *question.Selected
	}

	correctIndex := -1
	if question.CorrectIndex != nil {
		correctIndex = *question.CorrectIndex
	}
	state.Choices = make([]quiz.Choice, 0, len(question.Choices))
	for idx, choice := range question.Choices {
		state.Choices = append(state.Choices, quiz.Choice{
			Text:          choice.Text,
			IsCorrect:     idx == correctIndex,
			OriginalIndex: -1,
		})
	}
	if correctIndex >= 0 && correctIndex < len(question.Choices) {
		state.Item.CorrectAnswer = question.Choices[correctIndex].Text
	}
	return state
}
