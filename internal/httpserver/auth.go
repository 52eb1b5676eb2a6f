// internal/httpserver/auth.go
//
// Player accounts for the solver API.
// Responsibilities:
//   - /auth/signup, /auth/login, /auth/logout, /auth/me.
//   - HS256 JWTs carried as a bearer token or an HttpOnly cookie.
//   - withOptionalAuth attributes games to a player; requireAuth gates
//     /games/mine.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/mastermind/internal/results"
)

// authPlayer is placed into request context by the auth middleware.
type authPlayer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ctxPlayerKey struct{}

type credentials struct {
	Name     string `json:"name" validate:"required,min=3,max=24,alphanum"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}

// mountAuthRoutes registers /auth/* and the gated /games/mine.
func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		s.setAuthCookie(w, "", time.Time{})
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	s.r.With(s.requireAuth).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentPlayer(r))
	})
	s.r.With(s.requireAuth).Get("/games/mine", func(w http.ResponseWriter, r *http.Request) {
		games, err := s.results.ByPlayer(r.Context(), currentPlayer(r).ID, 50)
		if err != nil {
			log.Error().Err(err).Msg("games by player")
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		if games == nil {
			games = []results.Result{}
		}
		writeJSON(w, http.StatusOK, games)
	})
}

// handleSignup creates a player, signs a JWT and sets the auth cookie.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if err := s.validate.Struct(body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "hash_failed")
		return
	}
	p, err := s.results.CreatePlayer(r.Context(), body.Name, string(hash))
	if errors.Is(err, results.ErrNameTaken) {
		writeError(w, http.StatusConflict, "name_taken")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("create player")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	s.issueToken(w, p)
}

// handleLogin checks the password and sets the auth cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	p, err := s.results.FindPlayerByName(r.Context(), strings.TrimSpace(body.Name))
	if err != nil || bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(body.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	s.issueToken(w, p)
}

func (s *Server) issueToken(w http.ResponseWriter, p *results.Player) {
	tok, exp, err := s.signJWT(p.ID, p.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setAuthCookie(w, tok, exp)
	writeJSON(w, http.StatusOK, map[string]any{"id": p.ID, "name": p.Name, "token": tok})
}

// signJWT creates an HS256 JWT carrying the player's id and name.
func (s *Server) signJWT(id, name string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(time.Duration(s.cfg.JWTExpiryDays) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   id,
		"name": name,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// setAuthCookie writes the token cookie; an empty token deletes it.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.cfg.Production {
		sameSite = http.SameSiteNoneMode
	}
	c := &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: sameSite,
		Expires:  exp,
	}
	if token == "" {
		c.MaxAge = -1
	}
	http.SetCookie(w, c)
}

// bearerOrCookie extracts a token from the Authorization header or cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// playerFromToken validates a token and checks the player still exists.
func (s *Server) playerFromToken(ctx context.Context, tok string) (*authPlayer, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return nil, errors.New("invalid token")
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return nil, errors.New("invalid token")
	}
	p, err := s.results.FindPlayerByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.New("unknown player")
	}
	if err != nil {
		return nil, err
	}
	return &authPlayer{ID: p.ID, Name: p.Name}, nil
}

// withOptionalAuth decorates requests with the player when a valid token is
// present. It never rejects; guests are allowed through.
func (s *Server) withOptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := s.bearerOrCookie(r); tok != "" && s.results != nil {
			if p, err := s.playerFromToken(r.Context(), tok); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), ctxPlayerKey{}, p))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth enforces a valid token.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := s.bearerOrCookie(r)
		if tok == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		p, err := s.playerFromToken(r.Context(), tok)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxPlayerKey{}, p)))
	})
}

func currentPlayer(r *http.Request) *authPlayer {
	p, _ := r.Context().Value(ctxPlayerKey{}).(*authPlayer)
	return p
}

// playerID is the logged-in player's ID, or "" for guests.
func playerID(r *http.Request) string {
	if p := currentPlayer(r); p != nil {
		return p.ID
	}
	return ""
}
