// internal/httpserver/server.go
//
// HTTP server wiring for the Mastermind solver.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Solver endpoints (optional auth): the caller plays code-maker and
//     feeds back pegs for each guess.
//   - Self-play endpoint: the server holds the secret and plays both roles.
//   - Results endpoints backed by SQLite; auth endpoints in auth.go.
//
// Notes:
//   - Live sessions stay in the in-memory store until they terminate; the
//     finished game is then written to the results database.
//   - Engine errors map to status codes in statusFor.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/config"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/metrics"
	"github.com/robalobadob/mastermind/internal/results"
	"github.com/robalobadob/mastermind/internal/solver"
	"github.com/robalobadob/mastermind/internal/store"
)

// Server bundles router, live session store and results database.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	sessions store.Store
	results  *results.Store
	validate *validator.Validate
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, sessions store.Store, res *results.Store) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		sessions: sessions,
		results:  res,
		validate: validator.New(),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(cfg.SolveTimeout + 5*time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"mastermind","endpoints":["/health","/metrics","POST /solver/new","POST /solver/feedback","GET /solver/{id}","POST /selfplay","/results/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": s.sessions.Len()})
	})
	s.r.Handle("/metrics", promhttp.Handler())

	// Solver: optional auth (guests can play; games are attributed when logged in)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth)
		r.Post("/solver/new", s.handleNewSolver)
		r.Post("/solver/feedback", s.handleFeedback)
		r.Get("/solver/{id}", s.handleGetSolver)
		r.Post("/selfplay", s.handleSelfPlay)
	})

	s.r.Get("/results/leaderboard", s.handleLeaderboard)
	s.r.Get("/results/summary", s.handleSummary)

	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.ClientOrigin)
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

// ------------------------------ SOLVER -------------------------------------

type newSolverReq struct {
	AlphabetSize int    `json:"alphabetSize" validate:"omitempty,min=1,max=9"`
	CodeLength   int    `json:"codeLength" validate:"omitempty,min=1,max=8"`
	Rule         string `json:"rule" validate:"omitempty,oneof=simplified canonical"`
}

type solverRes struct {
	SolverID  string    `json:"solverId"`
	State     string    `json:"state"`
	Guess     game.Code `json:"guess,omitempty"`
	Rule      string    `json:"rule"`
	Remaining int       `json:"remaining"`
	Rounds    int       `json:"rounds"`
}

// handleNewSolver starts a game in which the caller holds the secret.
func (s *Server) handleNewSolver(w http.ResponseWriter, r *http.Request) {
	var req newSolverReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sv, err := s.newSolver(req.AlphabetSize, req.CodeLength, req.Rule, maxLiveUniverse)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	sess := store.NewSession(sv, playerID(r))
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	log.Info().Str("session", sess.ID).Str("rule", sv.Rule().Name()).Msg("solver started")
	writeJSON(w, http.StatusOK, describe(sess))
}

// Caps on the candidate space a request may allocate. Interactive games
// stay in memory between requests, so their cap is lower than self-play,
// which is released when the handler returns.
const (
	maxLiveUniverse     = 1 << 16
	maxSelfPlayUniverse = 1 << 20
)

func universeSize(alphabetSize, codeLength, limit int) int {
	n := 1
	for i := 0; i < codeLength; i++ {
		n *= alphabetSize
		if n > limit {
			return n
		}
	}
	return n
}

// newSolver applies config defaults to a request's dimensions and rule.
func (s *Server) newSolver(alphabetSize, codeLength int, ruleName string, maxUniverse int) (*solver.Solver, error) {
	if alphabetSize == 0 {
		alphabetSize = s.cfg.AlphabetSize
	}
	if codeLength == 0 {
		codeLength = s.cfg.CodeLength
	}
	if ruleName == "" {
		ruleName = s.cfg.FeedbackRule
	}
	if universeSize(alphabetSize, codeLength, maxUniverse) > maxUniverse {
		return nil, fmt.Errorf("%d^%d candidates exceed %d: %w", alphabetSize, codeLength, maxUniverse, game.ErrInvalidCodeLength)
	}
	rule, err := game.RuleByName(ruleName)
	if err != nil {
		return nil, err
	}
	return solver.New(alphabetSize, codeLength, solver.WithRule(rule), metrics.RoundHook())
}

type feedbackReq struct {
	SolverID string `json:"solverId" validate:"required"`
	Blacks   int    `json:"blacks"`
	Whites   int    `json:"whites"`
}

type feedbackRes struct {
	Action    solver.ActionKind `json:"action"`
	Guess     game.Code         `json:"guess,omitempty"`
	Rounds    int               `json:"rounds"`
	Remaining int               `json:"remaining"`
	ElapsedMs int64             `json:"elapsedMs,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// handleFeedback applies the caller's pegs for the current guess.
// A terminated game is recorded in the results database and dropped from
// the live store.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess, err := s.sessions.Get(r.Context(), req.SolverID)
	if err != nil {
		writeError(w, statusFor(err), "not_found")
		return
	}

	sess.Lock()
	defer sess.Unlock()

	lastGuess := sess.Solver.CurrentGuess()
	action, err := sess.Solver.SubmitFeedback(game.Feedback{Blacks: req.Blacks, Whites: req.Whites})
	res := feedbackRes{Action: action.Kind, Rounds: action.Rounds, Remaining: sess.Solver.Remaining()}

	switch action.Kind {
	case solver.ActionGuess:
		res.Guess = action.Guess
		writeJSON(w, http.StatusOK, res)
		return
	case solver.ActionSolved:
		res.ElapsedMs = action.Elapsed.Milliseconds()
	}
	if errors.Is(err, game.ErrEmptyCandidateSet) {
		// already terminated by a previous request
		res.Error = err.Error()
		writeJSON(w, http.StatusConflict, res)
		return
	}

	s.finish(r.Context(), sess, results.ModeInteractive, lastGuess)
	if err != nil {
		res.Error = err.Error()
		writeJSON(w, statusFor(err), res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// finish records a terminated session and removes it from the live store.
func (s *Server) finish(ctx context.Context, sess *store.Session, mode string, code game.Code) {
	sv := sess.Solver
	s.record(ctx, sess.ID, sess.PlayerID, mode, sv, code)
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		log.Warn().Err(err).Str("session", sess.ID).Msg("delete session")
	}
}

// record writes a finished game; failures are logged, not surfaced.
func (s *Server) record(ctx context.Context, id, player, mode string, sv *solver.Solver, code game.Code) {
	solved := sv.Err() == nil
	rounds := len(sv.Rounds())
	metrics.ObserveGame(sv.Rule().Name(), solved, rounds)

	res := results.Result{
		ID:           id,
		PlayerID:     player,
		Mode:         mode,
		Rule:         sv.Rule().Name(),
		AlphabetSize: sv.AlphabetSize(),
		CodeLength:   sv.CodeLength(),
		Code:         code.String(),
		Outcome:      results.OutcomeSolved,
		Rounds:       rounds,
		ElapsedMs:    sv.Elapsed().Milliseconds(),
	}
	if !solved {
		res.Outcome = results.OutcomeFailed
		res.Error = sv.Err().Error()
	}
	if s.results == nil {
		return
	}
	if _, err := s.results.Insert(ctx, res); err != nil {
		log.Warn().Err(err).Str("game", id).Msg("insert result")
	}
}

// handleGetSolver reports a live session.
func (s *Server) handleGetSolver(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), "not_found")
		return
	}
	sess.Lock()
	defer sess.Unlock()
	writeJSON(w, http.StatusOK, describe(sess))
}

// describe must be called with the session locked.
func describe(sess *store.Session) solverRes {
	sv := sess.Solver
	return solverRes{
		SolverID:  sess.ID,
		State:     sv.State().String(),
		Guess:     sv.CurrentGuess(),
		Rule:      sv.Rule().Name(),
		Remaining: sv.Remaining(),
		Rounds:    len(sv.Rounds()),
	}
}

// ----------------------------- SELF-PLAY ------------------------------------

type selfPlayReq struct {
	Secret       string `json:"secret"` // optional; random when empty
	AlphabetSize int    `json:"alphabetSize" validate:"omitempty,min=1,max=9"`
	Rule         string `json:"rule" validate:"omitempty,oneof=simplified canonical"`
}

type selfPlayRes struct {
	GameID    string         `json:"gameId"`
	Secret    game.Code      `json:"secret"`
	Rule      string         `json:"rule"`
	Solved    bool           `json:"solved"`
	Rounds    []solver.Round `json:"rounds"`
	ElapsedMs int64          `json:"elapsedMs"`
	Error     string         `json:"error,omitempty"`
}

// handleSelfPlay plays a whole game server-side, bounded by SOLVE_TIMEOUT.
func (s *Server) handleSelfPlay(w http.ResponseWriter, r *http.Request) {
	var req selfPlayReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	alphabetSize := req.AlphabetSize
	if alphabetSize == 0 {
		alphabetSize = s.cfg.AlphabetSize
	}
	alphabet := game.NewAlphabet(alphabetSize)

	var secret game.Code
	var err error
	if req.Secret != "" {
		if secret, err = game.ParseCode(req.Secret); err == nil {
			err = alphabet.Validate(secret, len(secret))
		}
	} else {
		secret, err = game.RandomSecret(alphabet, s.cfg.CodeLength, s.cfg.SecretRepeats)
	}
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	sv, err := s.newSolver(alphabetSize, len(secret), req.Rule, maxSelfPlayUniverse)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.SolveTimeout)
	defer cancel()

	out, err := solver.Play(ctx, sv, game.NewSecret(secret, sv.Rule()))
	res := selfPlayRes{
		Secret:    secret,
		Rule:      sv.Rule().Name(),
		Solved:    out.Solved,
		Rounds:    out.Rounds,
		ElapsedMs: out.Elapsed.Milliseconds(),
	}
	if sv.State() == solver.StateTerminated {
		sess := store.NewSession(sv, playerID(r))
		res.GameID = sess.ID
		s.record(r.Context(), sess.ID, sess.PlayerID, results.ModeSelfPlay, sv, out.Code)
	}
	if err != nil {
		res.Error = err.Error()
		writeJSON(w, statusFor(err), res)
		return
	}
	log.Info().Str("game", res.GameID).Stringer("secret", secret).Int("rounds", len(out.Rounds)).Msg("self-play solved")
	writeJSON(w, http.StatusOK, res)
}

// ------------------------------ RESULTS ------------------------------------

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := s.results.Leaderboard(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"top": rows})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.results.Summary(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("summary")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// ------------------------------- small util --------------------------------

// statusFor maps engine and store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrInvalidCodeLength), errors.Is(err, game.ErrInvalidSymbol):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrEmptyCandidateSet):
		return http.StatusConflict
	case errors.Is(err, game.ErrNoConsistentCandidates):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
