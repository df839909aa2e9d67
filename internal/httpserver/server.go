// internal/httpserver/server.go
//
// HTTP server wiring for the quiz backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/regions", "/map/config", "/leaderboard".
//   - Game endpoints: POST /game/new issues a game token; POST /game/guess,
//     POST /game/reset and GET /game require it.
//   - Best-effort recording of completed games in the results store.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so the token cookie works).
//   - Feedback text is returned only while it is still fresh (FeedbackTTL).

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/statesquiz/internal/game"
	"github.com/robalobadob/statesquiz/internal/mapsync"
	"github.com/robalobadob/statesquiz/internal/regions"
	"github.com/robalobadob/statesquiz/internal/results"
	"github.com/robalobadob/statesquiz/internal/store"
)

// Options carries the configuration the server needs.
type Options struct {
	JWTSecret    string
	TokenTTL     time.Duration
	CookieName   string
	ClientOrigin string
	Production   bool
	FeedbackTTL  time.Duration
}

// Server bundles router, live game store, results store and reference table.
type Server struct {
	r       *chi.Mux
	store   store.Store
	results *results.Store
	table   *regions.Table
	opts    Options
	now     func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
// res may be nil, in which case completions are not recorded and the
// leaderboard answers 503.
func New(st store.Store, res *results.Store, table *regions.Table, opts Options) *Server {
	if table == nil {
		table = regions.Default()
	}
	if opts.CookieName == "" {
		opts.CookieName = "statesquiz_token"
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.JWTSecret == "" {
		opts.JWTSecret = "dev_secret_change_me"
	}
	s := &Server{r: chi.NewRouter(), store: st, results: res, table: table, opts: opts, now: time.Now}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("took", d).
			Msg("request")
	}))
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "statesquiz",
			"endpoints": []string{"/health", "/regions", "/map/config", "POST /game/new", "POST /game/guess", "POST /game/reset", "GET /game", "/leaderboard"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "live": s.store.Len()})
	})

	// --- reference data ---
	s.r.Get("/regions", s.handleRegions)
	s.r.Get("/map/config", s.handleMapConfig)
	s.r.Get("/leaderboard", s.handleLeaderboard)

	// --- game ---
	s.r.Post("/game/new", s.handleNewGame)
	s.r.Group(func(r chi.Router) {
		r.Use(s.requireGame)
		r.Get("/game", s.handleState)
		r.Post("/game/guess", s.handleGuess)
		r.Post("/game/reset", s.handleReset)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Handler exposes the router (used by tests and by Start).
func (s *Server) Handler() http.Handler { return s.r }

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.opts.ClientOrigin
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --------------------------- reference data --------------------------------

type regionsRes struct {
	Total   int              `json:"total"`
	Regions []regions.Region `json:"regions"`
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, regionsRes{Total: s.table.Len(), Regions: s.table.All()})
}

type mapConfigRes struct {
	Widget    mapsync.WidgetConfig `json:"widget"`
	Highlight mapsync.Style        `json:"highlight"`
}

func (s *Server) handleMapConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mapConfigRes{Widget: mapsync.DefaultWidgetConfig, Highlight: mapsync.HighlightStyle})
}

type leaderboardRes struct {
	Date string           `json:"date"`
	Top  []results.Result `json:"top"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.results == nil {
		writeError(w, http.StatusServiceUnavailable, "results_disabled")
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = results.DateKey(s.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	top, err := s.results.Leaderboard(r.Context(), date, 20)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, leaderboardRes{Date: date, Top: top})
}

// ------------------------------ GAME ---------------------------------------

type newGameReq struct {
	Player string `json:"player"`
}

type newGameRes struct {
	GameID string `json:"gameId"`
	Token  string `json:"token"`
	Player string `json:"player"`
	Total  int    `json:"total"`
}

// handleNewGame creates an in-memory game and hands back its signed token.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	// an empty body is fine: every field is optional
	_ = json.NewDecoder(r.Body).Decode(&req)

	player := normalizePlayer(req.Player)
	if player == "" {
		player = petname.Generate(2, "-")
	}
	g := game.New(s.table, player, s.now(), game.WithFeedbackTTL(s.opts.FeedbackTTL))
	if err := s.store.Save(r.Context(), g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	tok, exp, err := s.signToken(g.ID)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setTokenCookie(w, tok, exp)

	hlog.FromRequest(r).Info().Str("gameId", g.ID).Str("player", player).Msg("game started")
	writeJSON(w, http.StatusOK, newGameRes{GameID: g.ID, Token: tok, Player: player, Total: g.Total()})
}

type guessReq struct {
	Guess string `json:"guess"`
}

type stateRes struct {
	State      game.State          `json:"state"`
	Highlights []mapsync.Highlight `json:"highlights"`
}

type guessRes struct {
	Outcome game.Outcome    `json:"outcome,omitempty"`
	Ignored bool            `json:"ignored"`
	Region  *regions.Region `json:"region,omitempty"`
	stateRes
}

// handleGuess applies one submission and returns the new state.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	var (
		res      guessRes
		finished *results.Result
	)
	err := s.store.Update(r.Context(), gameIDFrom(r.Context()), func(g *game.Game) error {
		now := s.now()
		wasComplete := g.Complete
		outcome, region, ok := g.Submit(req.Guess, now)
		res.Ignored = !ok
		res.Outcome = outcome
		res.Region = region
		res.stateRes = s.stateOf(g, now)
		if !wasComplete && g.Complete {
			finished = &results.Result{
				GameID:    g.ID,
				Player:    g.Player,
				Date:      results.DateKey(g.CompletedAt),
				Attempts:  g.Attempts,
				Wrong:     g.Wrong,
				ElapsedMs: g.Elapsed(now).Milliseconds(),
			}
		}
		return nil
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	if finished != nil {
		hlog.FromRequest(r).Info().
			Str("gameId", finished.GameID).
			Int("attempts", finished.Attempts).
			Int64("elapsedMs", finished.ElapsedMs).
			Msg("game complete")
		s.record(r.Context(), *finished)
	}
	writeJSON(w, http.StatusOK, res)
}

// handleReset restarts the caller's game in place.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var res stateRes
	err := s.store.Update(r.Context(), gameIDFrom(r.Context()), func(g *game.Game) error {
		now := s.now()
		g.Reset(now)
		res = s.stateOf(g, now)
		return nil
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleState returns the caller's current game.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	var res stateRes
	err := s.store.Update(r.Context(), gameIDFrom(r.Context()), func(g *game.Game) error {
		res = s.stateOf(g, s.now())
		return nil
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) stateOf(g *game.Game, now time.Time) stateRes {
	return stateRes{
		State:      g.Snapshot(now),
		Highlights: mapsync.Highlights(g.Table(), g.Guessed, mapsync.HighlightStyle),
	}
}

// record persists a completion; failures are logged, never surfaced.
func (s *Server) record(ctx context.Context, r results.Result) {
	if s.results == nil {
		return
	}
	if err := s.results.Record(ctx, r); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("gameId", r.GameID).Msg("record result")
	}
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	hlog.FromRequest(r).Error().Err(err).Msg("store")
	writeError(w, http.StatusInternalServerError, "store_error")
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// normalizePlayer trims the handle and caps it at 32 runes.
func normalizePlayer(p string) string {
	rs := []rune(strings.TrimSpace(p))
	if len(rs) > 32 {
		rs = rs[:32]
	}
	return string(rs)
}
