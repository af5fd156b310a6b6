package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"strings"

	"endless-quiz/internal/quiz"
)

const maxInvalidInputs = 3

// Deps wires the terminal loop to a backend. Results may be nil.
type Deps struct {
	Repository quiz.Repository
	Waker      quiz.Waker
	Results    quiz.ResultSink
	Logger     *log.Logger
	Rand       *rand.Rand
}

// Run plays one endless session on the terminal until the player finishes
// or input ends. The final stats are handed to deps.Results.
func Run(ctx context.Context, in io.Reader, out io.Writer, deps Deps) error {
	opts := []quiz.Option{}
	if deps.Logger != nil {
		opts = append(opts, quiz.WithLogger(deps.Logger))
	}
	if deps.Rand != nil {
		opts = append(opts, quiz.WithRand(deps.Rand))
	}
	controller := quiz.NewController(deps.Repository, deps.Waker, opts...)
	return Play(ctx, in, out, NewLocalSession(controller, deps.Results, deps.Logger))
}

// Play drives session from terminal commands until "finish" or end of input.
func Play(ctx context.Context, in io.Reader, out io.Writer, session Session) error {
	defer session.Close()

	fmt.Fprintln(out, "Endless quiz. Type 'help' for commands.")
	fmt.Fprintln(out, "Loading...")
	state, err := session.FetchNext(ctx)
	if err != nil {
		printRejected(out, err)
	}
	printState(out, state, session.Played())

	reader := bufio.NewReader(in)
	invalid := 0
	for {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			if errors.Is(readErr, io.EOF) {
				return finish(ctx, out, session)
			}
			return readErr
		}

		command := strings.ToLower(strings.TrimSpace(line))
		state = session.State()

		if index, ok := parseLetter(command, len(state.Choices)); ok && state.Phase == quiz.PhaseQuestion {
			invalid = 0
			if _, err := session.Select(ctx, index); err != nil {
				printRejected(out, err)
				continue
			}
			fmt.Fprintf(out, "Selected %s. Press enter to submit.\n", quiz.Letter(index))
			continue
		}

		switch command {
		case "", "submit", "s":
			if state.Phase == quiz.PhaseQuestion && state.Answered {
				next(ctx, out, session)
				break
			}
			submitted, err := session.Submit(ctx)
			if err != nil {
				printRejected(out, err)
				break
			}
			printFeedback(out, submitted)
		case "next", "n":
			next(ctx, out, session)
		case "retry", "r":
			next(ctx, out, session)
		case "wake", "w":
			woke, err := session.TriggerWake(ctx)
			if err != nil {
				if errors.Is(err, quiz.ErrWakeFailed) {
					fmt.Fprintf(out, "Failed to wake the database: %v\n", err)
					break
				}
				printRejected(out, err)
				break
			}
			printState(out, woke, session.Played())
		case "finish", "quit", "q":
			return finish(ctx, out, session)
		case "help", "h", "?":
			printHelp(out)
		default:
			invalid++
			fmt.Fprintf(out, "Unknown command %q.\n", command)
			if invalid >= maxInvalidInputs {
				printHelp(out)
				invalid = 0
			}
			continue
		}
		invalid = 0
	}
}

func next(ctx context.Context, out io.Writer, session Session) {
	fmt.Fprintln(out, "Loading...")
	state, err := session.FetchNext(ctx)
	if err != nil {
		printRejected(out, err)
		return
	}
	printState(out, state, session.Played())
}

func finish(ctx context.Context, out io.Writer, session Session) error {
	result, err := session.Finish(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nFinal score: %d/%d (%d%%)\n", result.Correct, result.Total, result.Percent)
	fmt.Fprintln(out, result.Message)
	return nil
}

func printState(out io.Writer, state quiz.State, number int) {
	switch state.Phase {
	case quiz.PhaseLoading:
		fmt.Fprintln(out, "Loading...")
	case quiz.PhaseQuestion:
		printQuestion(out, number, state)
	case quiz.PhaseOutOfQuestions:
		fmt.Fprintln(out, "\nYou've answered every question. Type 'finish' to see your results.")
	case quiz.PhaseErrored:
		switch {
		case state.Failure == quiz.FailurePaused && state.Waking:
			fmt.Fprintln(out, "\nWaking up the database. This can take a minute or two. Type 'retry' to check again.")
		case state.Failure == quiz.FailurePaused:
			fmt.Fprintln(out, "\nThe quiz database is asleep. Type 'wake' to wake it up.")
		default:
			fmt.Fprintln(out, "\nFailed to load questions. Type 'retry' to try again.")
		}
	case quiz.PhaseFinished:
		fmt.Fprintln(out, "Session finished.")
	}
}

func printQuestion(out io.Writer, number int, state quiz.State) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Q%d: %s\n\n", number, state.Item.Question)
	for idx, choice := range state.Choices {
		fmt.Fprintf(out, "%s. %s\n", quiz.Letter(idx), choice.Text)
	}
	fmt.Fprintf(out, "\nScore: %d/%d\n", state.Stats.Correct, state.Stats.Total)
}

func printFeedback(out io.Writer, state quiz.State) {
	fmt.Fprintln(out)
	if chosen, ok := state.SelectedChoice(); ok && chosen.IsCorrect {
		fmt.Fprintln(out, "Correct!")
	} else if correct := quiz.CorrectIndex(state.Choices); correct >= 0 {
		fmt.Fprintf(out, "Wrong. Correct answer was %s. %s\n", quiz.Letter(correct), state.Choices[correct].Text)
	}
	if state.Item.Explanation != "" {
		fmt.Fprintln(out, state.Item.Explanation)
	}
	fmt.Fprintf(out, "Score: %d/%d. Press enter for the next question.\n", state.Stats.Correct, state.Stats.Total)
}

func printRejected(out io.Writer, err error) {
	switch {
	case errors.Is(err, quiz.ErrFetchInFlight):
		fmt.Fprintln(out, "Still loading, please wait.")
	case errors.Is(err, quiz.ErrPrecondition):
		fmt.Fprintf(out, "Can't do that now: %v\n", err)
	default:
		fmt.Fprintf(out, "Error: %v\n", err)
	}
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  A-D      select a choice")
	fmt.Fprintln(out, "  enter    submit the selection, or go to the next question once answered")
	fmt.Fprintln(out, "  next     load the next question")
	fmt.Fprintln(out, "  wake     wake a paused database")
	fmt.Fprintln(out, "  retry    check again after a failure")
	fmt.Fprintln(out, "  finish   end the session and show results")
}

func parseLetter(command string, choiceCount int) (int, bool) {
	if len(command) != 1 || choiceCount < 1 {
		return -1, false
	}
	letter := command[0]
	maxLetter := byte('a' + choiceCount - 1)
	if letter < 'a' || letter > maxLetter {
		return -1, false
	}
	return int(letter - 'a'), true
}
