package quiz

import (
	"math/rand"
	"strings"

	"github.com/samber/lo"
)

// Choice is one displayed answer option.
type Choice struct {
	Text      string
	IsCorrect bool
	// OriginalIndex is the position before shuffling; 0 is always the correct answer.
	OriginalIndex int
}

// Letter returns the display letter for position idx ("A" for 0).
func Letter(idx int) string {
	return string(rune('A' + idx))
}

// ShuffleChoices returns the item's non-empty answers in a uniformly random
// order with exactly one choice marked correct. The item is not modified.
// A nil rng falls back to the package-level source.
func ShuffleChoices(item Item, rng *rand.Rand) []Choice {
	texts := append([]string{item.CorrectAnswer}, item.IncorrectAnswers[:]...)

	choices := make([]Choice, 0, len(texts))
	for idx, text := range texts {
		if idx > 0 && strings.TrimSpace(text) == "" {
			continue
		}
		choices = append(choices, Choice{
			Text:          text,
			IsCorrect:     idx == 0,
			OriginalIndex: len(choices),
		})
	}

	swap := func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	}
	if rng != nil {
		rng.Shuffle(len(choices), swap)
	} else {
		rand.Shuffle(len(choices), swap)
	}

	return choices
}

// CorrectIndex returns the display position of the correct choice, or -1.
func CorrectIndex(choices []Choice) int {
	_, idx, ok := lo.FindIndexOf(choices, func(c Choice) bool {
		return c.IsCorrect
	})
	if !ok {
		return -1
	}
	return idx
}
