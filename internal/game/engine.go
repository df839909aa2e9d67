// internal/game/engine.go
//
// Match engine for a single play-through.
// Responsibilities:
//   - Create games bound to a reference table.
//   - Normalize and resolve submissions against the table.
//   - Track guessed regions and flip Complete exactly when every region is found.
//   - Reset a game back to its start state.
//
// Notes:
//   - Empty input is ignored: no outcome, no state change.
//   - Only canonical names are recorded; "orissa" records "Odisha".
//   - Feedback expiry is lazy: FeedbackAt hides the line once FeedbackUntil has passed.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/robalobadob/statesquiz/internal/regions"
)

// Option configures a Game.
type Option func(*Game)

// WithFeedbackTTL sets how long feedback stays visible; non-positive keeps the default.
func WithFeedbackTTL(d time.Duration) Option {
	return func(g *Game) {
		if d > 0 {
			g.feedbackTTL = d
		}
	}
}

// WithID fixes the game identifier instead of generating one.
func WithID(id string) Option {
	return func(g *Game) {
		if id != "" {
			g.ID = id
		}
	}
}

// New constructs a fresh game over table. A nil table means regions.Default().
func New(table *regions.Table, player string, now time.Time, opts ...Option) *Game {
	if table == nil {
		table = regions.Default()
	}
	g := &Game{
		ID:          randomID(),
		Player:      player,
		Guessed:     []string{},
		StartedAt:   now,
		UpdatedAt:   now,
		table:       table,
		feedbackTTL: DefaultFeedbackTTL,
		guessed:     make(map[string]struct{}, table.Len()),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Submit evaluates raw input.
//
// Returns the outcome, the matched region (nil for wrong) and whether the
// submission was evaluated at all; ok is false for empty input and for any
// input once the game is complete, and then nothing changes.
//
// State transitions:
//   - no region matches         → wrong, Guessed unchanged.
//   - region already in Guessed → already_guessed, Guessed unchanged.
//   - otherwise                 → correct, canonical name appended; Complete
//     becomes true when len(Guessed) reaches the table size.
func (g *Game) Submit(raw string, now time.Time) (Outcome, *regions.Region, bool) {
	if g.Complete || regions.Normalize(raw) == "" {
		return "", nil, false
	}
	g.Attempts++
	g.UpdatedAt = now

	r, found := g.table.Lookup(raw)
	if !found {
		g.Wrong++
		g.Input = raw
		g.setFeedback(FeedbackWrong, now)
		return OutcomeWrong, nil, true
	}
	if g.Has(r.Name) {
		g.Input = raw
		g.setFeedback(FeedbackAlreadyGuessed, now)
		return OutcomeAlreadyGuessed, &r, true
	}

	g.Guessed = append(g.Guessed, r.Name)
	g.guessed[r.Name] = struct{}{}
	g.Input = ""
	g.setFeedback(FeedbackCorrect, now)

	if len(g.Guessed) == g.table.Len() {
		g.Complete = true
		g.CompletedAt = now
		g.setFeedback(FeedbackComplete, now)
	}
	return OutcomeCorrect, &r, true
}

// Reset returns the game to its start state. ID and Player are kept.
func (g *Game) Reset(now time.Time) {
	g.Guessed = []string{}
	g.guessed = make(map[string]struct{}, g.table.Len())
	g.Input = ""
	g.Feedback = ""
	g.FeedbackUntil = time.Time{}
	g.Complete = false
	g.Attempts = 0
	g.Wrong = 0
	g.StartedAt = now
	g.CompletedAt = time.Time{}
	g.UpdatedAt = now
}

// Has reports whether the canonical name has been guessed.
func (g *Game) Has(name string) bool {
	_, ok := g.guessed[name]
	return ok
}

// Total is the number of regions in the game's table.
func (g *Game) Total() int { return g.table.Len() }

// Table exposes the reference table the game resolves against.
func (g *Game) Table() *regions.Table { return g.table }

// FeedbackAt returns the feedback line if it has not expired at now.
func (g *Game) FeedbackAt(now time.Time) string {
	if g.Feedback == "" || !now.Before(g.FeedbackUntil) {
		return ""
	}
	return g.Feedback
}

// Elapsed is the play time so far, or the total once complete.
func (g *Game) Elapsed(now time.Time) time.Duration {
	if g.Complete {
		return g.CompletedAt.Sub(g.StartedAt)
	}
	return now.Sub(g.StartedAt)
}

// Snapshot copies the presentable state at now.
func (g *Game) Snapshot(now time.Time) State {
	return State{
		GameID:   g.ID,
		Player:   g.Player,
		Guessed:  append([]string{}, g.Guessed...),
		Count:    len(g.Guessed),
		Total:    g.table.Len(),
		Complete: g.Complete,
		Feedback: g.FeedbackAt(now),
		Attempts: g.Attempts,
		Wrong:    g.Wrong,
	}
}

func (g *Game) setFeedback(msg string, now time.Time) {
	g.Feedback = msg
	g.FeedbackUntil = now.Add(g.feedbackTTL)
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
