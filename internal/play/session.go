// internal/play/session.go
//
// Terminal presenter for one player.
//
// A Session owns its game outright: every line read is a submission or a
// command, and output goes to a single writer. The map repaint
// (mapsync.Syncer) runs beside the read loop and redraws the tile map when
// done. Feedback is printed once per submission and expires with the game's
// FeedbackTTL, so a later status line never repeats a stale message.
//
// Commands: :reset, :help, :quit (EOF also quits).

package play

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/statesquiz/internal/game"
	"github.com/robalobadob/statesquiz/internal/mapsync"
	"github.com/robalobadob/statesquiz/internal/regions"
)

// LineReader yields one line of input per call, without the newline.
type LineReader interface {
	ReadLine() (string, error)
}

// scannerReader adapts an io.Reader to LineReader.
type scannerReader struct{ sc *bufio.Scanner }

func (r scannerReader) ReadLine() (string, error) {
	if r.sc.Scan() {
		return r.sc.Text(), nil
	}
	if err := r.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Lines wraps a plain reader.
func Lines(r io.Reader) LineReader { return scannerReader{sc: bufio.NewScanner(r)} }

// Options configures a Session.
type Options struct {
	Table       *regions.Table
	Player      string
	FeedbackTTL time.Duration
	PaintDelay  time.Duration
	Color       bool
	Prompt      string // printed before each read; empty for readers that prompt themselves
}

// Session is one interactive play-through.
type Session struct {
	in   LineReader
	out  io.Writer
	opts Options

	mu     sync.Mutex // guards game and serialises writes to out
	game   *game.Game
	canvas *TileCanvas
	syncer *mapsync.Syncer
	now    func() time.Time
}

// NewSession wires a game, a tile canvas and its syncer together.
func NewSession(in LineReader, out io.Writer, opts Options) *Session {
	if opts.Table == nil {
		opts.Table = regions.Default()
	}
	if opts.FeedbackTTL <= 0 {
		opts.FeedbackTTL = game.DefaultFeedbackTTL
	}
	s := &Session{
		in:     in,
		out:    out,
		opts:   opts,
		canvas: NewTileCanvas(opts.Color),
		now:    time.Now,
	}
	s.game = game.New(opts.Table, opts.Player, s.now(), game.WithFeedbackTTL(opts.FeedbackTTL))
	s.syncer = mapsync.NewSyncer(s.canvas, opts.Table, opts.PaintDelay)
	s.syncer.OnSynced(func(int) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.drawMap()
	})
	return s
}

// Run reads input until EOF, :quit, or ctx is done. Pending callbacks are
// stopped before it returns.
func (s *Session) Run(ctx context.Context) error {
	defer s.close()

	s.mu.Lock()
	s.printf("Guess Indian States & Union Territories\n")
	s.printf("Type a state or UT name; :reset starts over, :quit leaves.\n\n")
	s.drawMap()
	s.renderStatus()
	s.mu.Unlock()

	for {
		if ctx.Err() != nil {
			return nil
		}
		if s.opts.Prompt != "" {
			s.mu.Lock()
			s.printf("%s", s.opts.Prompt)
			s.mu.Unlock()
		}
		line, err := s.in.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if quit := s.handle(line); quit {
			return nil
		}
	}
}

// Game exposes the session's game for inspection.
func (s *Session) Game() game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot(s.now())
}

func (s *Session) handle(line string) (quit bool) {
	cmd := strings.TrimSpace(line)
	switch cmd {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		s.mu.Lock()
		s.printf("Commands: :reset, :help, :quit\n")
		s.mu.Unlock()
		return false
	case ":reset":
		s.reset()
		return false
	}
	s.submit(line)
	return false
}

func (s *Session) submit(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, region, ok := s.game.Submit(line, s.now())
	if !ok {
		return
	}
	ev := log.Debug().Str("outcome", string(outcome)).Int("count", len(s.game.Guessed))
	if region != nil {
		ev = ev.Str("region", region.Name)
	}
	ev.Msg("submission")

	if outcome == game.OutcomeCorrect {
		s.syncer.Sync(append([]string(nil), s.game.Guessed...))
	}
	s.renderStatus()
}

func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.game.Reset(s.now())
	s.syncer.Reset()
	s.printf("\nNew game.\n")
	s.drawMap()
	s.renderStatus()
}

func (s *Session) close() {
	s.syncer.Close()
}

// renderStatus prints feedback, the tally and the guessed tags. Caller holds mu.
func (s *Session) renderStatus() {
	st := s.game.Snapshot(s.now())
	if st.Feedback != "" {
		s.printf("%s\n", st.Feedback)
	}
	s.printf("Correct: %d  Total: %d\n", st.Count, st.Total)
	if len(st.Guessed) > 0 {
		s.printf("Guessed: %s\n", strings.Join(st.Guessed, " · "))
	}
	if st.Complete {
		s.printf("Type :reset to play again.\n")
	}
}

// drawMap writes the tile map. Caller holds mu.
func (s *Session) drawMap() {
	if err := s.canvas.Draw(s.out); err != nil {
		log.Debug().Err(err).Msg("draw map")
	}
}

func (s *Session) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}
