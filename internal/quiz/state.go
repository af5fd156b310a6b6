package quiz

// Phase tags the active variant of a session State.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseQuestion
	PhaseOutOfQuestions
	PhaseErrored
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseQuestion:
		return "question"
	case PhaseOutOfQuestions:
		return "out_of_questions"
	case PhaseErrored:
		return "errored"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// NoSelection is the Selected value before the player picks a choice.
const NoSelection = -1

// Stats is the running score of a session. Correct never exceeds Total.
type Stats struct {
	Correct int
	Total   int
}

// State is a snapshot of the session. Only the fields of the active Phase
// carry meaning; snapshots are copies and never alias controller memory.
type State struct {
	Phase Phase

	// PhaseQuestion
	Item     Item
	Choices  []Choice
	Selected int
	Answered bool

	// PhaseErrored
	Failure FailureKind
	Waking  bool

	Stats Stats
}

// CanWake reports whether the wake action should be offered.
func (s State) CanWake() bool {
	return s.Phase == PhaseErrored && s.Failure == FailurePaused && !s.Waking
}

// SelectedChoice returns the chosen choice, if any.
func (s State) SelectedChoice() (Choice, bool) {
	if s.Phase != PhaseQuestion || s.Selected < 0 || s.Selected >= len(s.Choices) {
		return Choice{}, false
	}
	return s.Choices[s.Selected], true
}

func (s State) clone() State {
	if s.Choices != nil {
		s.Choices = append([]Choice(nil), s.Choices...)
	}
	return s
}
