package db

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const createMatch = `-- name: CreateMatch :exec
INSERT INTO matches (id, event_id, home_roster_id, away_roster_id, status, scheduled_time, home_bans, away_bans, home_picks, away_picks, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateMatchParams struct {
	ID            string
	EventID       *string
	HomeRosterID  string
	AwayRosterID  string
	Status        string
	ScheduledTime time.Time
	HomeBans      string
	AwayBans      string
	HomePicks     string
	AwayPicks     string
	CreatedAt     time.Time
}

func (q *Queries) CreateMatch(ctx context.Context, arg CreateMatchParams) error {
	_, err := q.db.ExecContext(ctx, createMatch,
		arg.ID,
		arg.EventID,
		arg.HomeRosterID,
		arg.AwayRosterID,
		arg.Status,
		arg.ScheduledTime,
		arg.HomeBans,
		arg.AwayBans,
		arg.HomePicks,
		arg.AwayPicks,
		arg.CreatedAt,
	)
	return err
}

const matchColumns = `id, event_id, home_roster_id, away_roster_id, status, scheduled_time, played_at, home_bans, away_bans, home_picks, away_picks, created_at`

func scanMatch(row interface{ Scan(...any) error }) (Match, error) {
	var i Match
	err := row.Scan(
		&i.ID,
		&i.EventID,
		&i.HomeRosterID,
		&i.AwayRosterID,
		&i.Status,
		&i.ScheduledTime,
		&i.PlayedAt,
		&i.HomeBans,
		&i.AwayBans,
		&i.HomePicks,
		&i.AwayPicks,
		&i.CreatedAt,
	)
	return i, err
}

const getMatch = `-- name: GetMatch :one
SELECT ` + matchColumns + `
FROM matches
WHERE id = ?
`

func (q *Queries) GetMatch(ctx context.Context, id string) (Match, error) {
	return scanMatch(q.db.QueryRowContext(ctx, getMatch, id))
}

const listMatchesByEvent = `-- name: ListMatchesByEvent :many
SELECT ` + matchColumns + `
FROM matches
WHERE event_id = ?
ORDER BY scheduled_time, id
`

func (q *Queries) ListMatchesByEvent(ctx context.Context, eventID string) ([]Match, error) {
	rows, err := q.db.QueryContext(ctx, listMatchesByEvent, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Match
	for rows.Next() {
		i, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listDueMatchIDs = `-- name: ListDueMatchIDs :many
SELECT id FROM matches
WHERE status = 'SCHEDULED' AND scheduled_time <= ?
ORDER BY scheduled_time, id
LIMIT ?
`

func (q *Queries) ListDueMatchIDs(ctx context.Context, now time.Time, limit int64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listDueMatchIDs, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateMatchDraft = `-- name: UpdateMatchDraft :execrows
UPDATE matches
SET home_bans = ?, away_bans = ?, home_picks = ?, away_picks = ?
WHERE id = ? AND status = 'SCHEDULED'
`

type UpdateMatchDraftParams struct {
	HomeBans  string
	AwayBans  string
	HomePicks string
	AwayPicks string
	ID        string
}

func (q *Queries) UpdateMatchDraft(ctx context.Context, arg UpdateMatchDraftParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateMatchDraft,
		arg.HomeBans,
		arg.AwayBans,
		arg.HomePicks,
		arg.AwayPicks,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const completeMatch = `-- name: CompleteMatch :execrows
UPDATE matches
SET status = 'COMPLETED', played_at = ?
WHERE id = ? AND status = 'SCHEDULED'
`

// CompleteMatch only moves a scheduled match; zero rows means it was already played.
func (q *Queries) CompleteMatch(ctx context.Context, id string, playedAt time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, completeMatch, playedAt, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const insertMatchResult = `-- name: InsertMatchResult :exec
INSERT INTO match_results (match_id, winner_roster_id, home_total, away_total, player_stats, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`

type InsertMatchResultParams struct {
	MatchID        string
	WinnerRosterID string
	HomeTotal      decimal.Decimal
	AwayTotal      decimal.Decimal
	PlayerStats    string
	CreatedAt      time.Time
}

func (q *Queries) InsertMatchResult(ctx context.Context, arg InsertMatchResultParams) error {
	_, err := q.db.ExecContext(ctx, insertMatchResult,
		arg.MatchID,
		arg.WinnerRosterID,
		arg.HomeTotal,
		arg.AwayTotal,
		arg.PlayerStats,
		arg.CreatedAt,
	)
	return err
}

const getMatchResult = `-- name: GetMatchResult :one
SELECT match_id, winner_roster_id, home_total, away_total, player_stats, created_at
FROM match_results
WHERE match_id = ?
`

func (q *Queries) GetMatchResult(ctx context.Context, matchID string) (MatchResult, error) {
	row := q.db.QueryRowContext(ctx, getMatchResult, matchID)
	var i MatchResult
	err := row.Scan(
		&i.MatchID,
		&i.WinnerRosterID,
		&i.HomeTotal,
		&i.AwayTotal,
		&i.PlayerStats,
		&i.CreatedAt,
	)
	return i, err
}
