// internal/game/types.go
//
// Core type definitions for the guessing game.
// Defines:
//   - Outcome: result of a single submission (correct/already_guessed/wrong).
//   - Game: state for one play-through of the map.
//   - State: the read-only view handed to presenters.

package game

import (
	"time"

	"github.com/robalobadob/statesquiz/internal/regions"
)

// Outcome is the evaluation of a non-empty submission.
type Outcome string

const (
	OutcomeCorrect        Outcome = "correct"
	OutcomeAlreadyGuessed Outcome = "already_guessed"
	OutcomeWrong          Outcome = "wrong"
)

// Feedback lines shown after a submission.
const (
	FeedbackCorrect        = "Correct! 🎉"
	FeedbackAlreadyGuessed = "You already guessed this state or UT!"
	FeedbackWrong          = "Wrong! Try again."
	FeedbackComplete       = "Congratulations! You guessed all Indian states and UTs! 🏆"
)

// DefaultFeedbackTTL is how long a feedback line stays visible.
const DefaultFeedbackTTL = 2 * time.Second

// Game holds the state of one play-through.
type Game struct {
	ID     string // random hex identifier
	Player string // display handle

	Guessed  []string // canonical names, insertion order, no duplicates
	Input    string   // last raw input that was not accepted
	Feedback string
	Complete bool

	Attempts int // non-empty submissions
	Wrong    int // submissions matching no region

	StartedAt     time.Time
	CompletedAt   time.Time
	UpdatedAt     time.Time
	FeedbackUntil time.Time

	table       *regions.Table
	feedbackTTL time.Duration
	guessed     map[string]struct{}
}

// State is a snapshot of a Game for rendering or JSON encoding.
type State struct {
	GameID   string   `json:"gameId"`
	Player   string   `json:"player"`
	Guessed  []string `json:"guessed"`
	Count    int      `json:"count"`
	Total    int      `json:"total"`
	Complete bool     `json:"complete"`
	Feedback string   `json:"feedback,omitempty"`
	Attempts int      `json:"attempts"`
	Wrong    int      `json:"wrong"`
}
