// internal/results/store.go
//
// Queries over finished games and players.
// Timestamps are stored as RFC3339 text.

package results

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Outcome values stored in games.outcome.
const (
	OutcomeSolved = "solved"
	OutcomeFailed = "failed"
)

// Mode values stored in games.mode.
const (
	ModeSelfPlay    = "selfplay"
	ModeInteractive = "interactive"
)

// ErrNameTaken is returned by CreatePlayer for a duplicate name.
var ErrNameTaken = errors.New("name taken")

// Result is one finished game.
type Result struct {
	ID           string    `json:"id"`
	PlayerID     string    `json:"playerId,omitempty"`
	Mode         string    `json:"mode"`
	Rule         string    `json:"rule"`
	AlphabetSize int       `json:"alphabetSize"`
	CodeLength   int       `json:"codeLength"`
	Code         string    `json:"code"` // the solved code, or the last guess on failure
	Outcome      string    `json:"outcome"`
	Rounds       int       `json:"rounds"`
	ElapsedMs    int64     `json:"elapsedMs"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LBRow is a leaderboard entry.
type LBRow struct {
	GameID    string `json:"gameId"`
	PlayerID  string `json:"playerId,omitempty"`
	Rule      string `json:"rule"`
	Code      string `json:"code"`
	Rounds    int    `json:"rounds"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Summary aggregates every recorded game.
type Summary struct {
	Games     int     `json:"games"`
	Solved    int     `json:"solved"`
	Failed    int     `json:"failed"`
	AvgRounds float64 `json:"avgRounds"` // over solved games
	MaxRounds int     `json:"maxRounds"` // over solved games
}

// Player is a registered player.
type Player struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Insert records a finished game. An empty ID is filled in.
func (s *Store) Insert(ctx context.Context, r Result) (Result, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO games
            (id, player_id, mode, rule, alphabet_size, code_length, code, outcome, rounds, elapsed_ms, error, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, nullString(r.PlayerID), r.Mode, r.Rule, r.AlphabetSize, r.CodeLength, r.Code,
		r.Outcome, r.Rounds, r.ElapsedMs, nullString(r.Error), r.CreatedAt.Format(time.RFC3339Nano),
	)
	return r, err
}

// Leaderboard fetches the best solved games: fewest rounds, then fastest,
// then earliest. Default limit is 20.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, COALESCE(player_id, ''), rule, code, rounds, elapsed_ms
        FROM games
        WHERE outcome = ?
        ORDER BY rounds ASC, elapsed_ms ASC, created_at ASC
        LIMIT ?`, OutcomeSolved, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.GameID, &r.PlayerID, &r.Rule, &r.Code, &r.Rounds, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ByPlayer lists a player's most recent games, newest first.
func (s *Store) ByPlayer(ctx context.Context, playerID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, COALESCE(player_id, ''), mode, rule, alphabet_size, code_length, code,
               outcome, rounds, elapsed_ms, COALESCE(error, ''), created_at
        FROM games
        WHERE player_id = ?
        ORDER BY created_at DESC
        LIMIT ?`, playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var r Result
		var created string
		if err := rows.Scan(&r.ID, &r.PlayerID, &r.Mode, &r.Rule, &r.AlphabetSize, &r.CodeLength, &r.Code,
			&r.Outcome, &r.Rounds, &r.ElapsedMs, &r.Error, &created); err != nil {
			return nil, err
		}
		r.CreatedAt = parseTime(created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Summary aggregates all recorded games.
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	var avg sql.NullFloat64
	var maxRounds sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
        SELECT COUNT(1),
               COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0),
               AVG(CASE WHEN outcome = ? THEN rounds END),
               MAX(CASE WHEN outcome = ? THEN rounds END)
        FROM games`, OutcomeSolved, OutcomeSolved, OutcomeSolved,
	).Scan(&sum.Games, &sum.Solved, &avg, &maxRounds)
	if err != nil {
		return Summary{}, err
	}
	sum.Failed = sum.Games - sum.Solved
	sum.AvgRounds = avg.Float64
	sum.MaxRounds = int(maxRounds.Int64)
	return sum, nil
}

// CreatePlayer inserts a player with an already-hashed password.
func (s *Store) CreatePlayer(ctx context.Context, name, passwordHash string) (*Player, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM players WHERE lower(name)=lower(?)`, name).Scan(&exists)
	if err == nil {
		return nil, ErrNameTaken
	}
	if err != sql.ErrNoRows {
		return nil, err
	}
	p := &Player{ID: uuid.NewString(), Name: name, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO players (id, name, password_hash, created_at) VALUES (?,?,?,?)`,
		p.ID, p.Name, p.PasswordHash, p.CreatedAt.Format(time.RFC3339)); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	return p, nil
}

// FindPlayerByName looks a player up case-insensitively.
func (s *Store) FindPlayerByName(ctx context.Context, name string) (*Player, error) {
	return scanPlayer(s.db.QueryRowContext(ctx,
		`SELECT id, name, password_hash, created_at FROM players WHERE lower(name)=lower(?)`, name))
}

// FindPlayerByID loads a player or returns sql.ErrNoRows.
func (s *Store) FindPlayerByID(ctx context.Context, id string) (*Player, error) {
	return scanPlayer(s.db.QueryRowContext(ctx,
		`SELECT id, name, password_hash, created_at FROM players WHERE id=?`, id))
}

func scanPlayer(row *sql.Row) (*Player, error) {
	var p Player
	var created string
	if err := row.Scan(&p.ID, &p.Name, &p.PasswordHash, &created); err != nil {
		return nil, err
	}
	p.CreatedAt = parseTime(created)
	return &p, nil
}

// parseTime accepts RFC3339 with or without fractional seconds; zero on error.
func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
