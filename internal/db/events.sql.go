package db

import (
	"context"
	"time"
)

const createEvent = `-- name: CreateEvent :exec
INSERT INTO events (id, name, type, status, starts_at, games_per_block, minutes_between_games, minutes_between_blocks, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateEventParams struct {
	ID                   string
	Name                 string
	Type                 string
	Status               string
	StartsAt             time.Time
	GamesPerBlock        int64
	MinutesBetweenGames  int64
	MinutesBetweenBlocks int64
	CreatedAt            time.Time
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) error {
	_, err := q.db.ExecContext(ctx, createEvent,
		arg.ID,
		arg.Name,
		arg.Type,
		arg.Status,
		arg.StartsAt,
		arg.GamesPerBlock,
		arg.MinutesBetweenGames,
		arg.MinutesBetweenBlocks,
		arg.CreatedAt,
	)
	return err
}

const getEvent = `-- name: GetEvent :one
SELECT id, name, type, status, starts_at, finishes_at, games_per_block, minutes_between_games, minutes_between_blocks, created_at
FROM events
WHERE id = ?
`

func (q *Queries) GetEvent(ctx context.Context, id string) (Event, error) {
	row := q.db.QueryRowContext(ctx, getEvent, id)
	var i Event
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Type,
		&i.Status,
		&i.StartsAt,
		&i.FinishesAt,
		&i.GamesPerBlock,
		&i.MinutesBetweenGames,
		&i.MinutesBetweenBlocks,
		&i.CreatedAt,
	)
	return i, err
}

const updateEventStatus = `-- name: UpdateEventStatus :execrows
UPDATE events
SET status = ?, finishes_at = COALESCE(?, finishes_at)
WHERE id = ? AND status = ?
`

type UpdateEventStatusParams struct {
	Status     string
	FinishesAt *time.Time
	ID         string
	FromStatus string
}

// UpdateEventStatus is a compare-and-set on the current status.
func (q *Queries) UpdateEventStatus(ctx context.Context, arg UpdateEventStatusParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateEventStatus,
		arg.Status,
		arg.FinishesAt,
		arg.ID,
		arg.FromStatus,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listDueEventIDs = `-- name: ListDueEventIDs :many
SELECT id FROM events
WHERE status = 'OPEN' AND starts_at <= ?
ORDER BY starts_at, id
`

func (q *Queries) ListDueEventIDs(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listDueEventIDs, now)
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

const listFinishedEventIDs = `-- name: ListFinishedEventIDs :many
SELECT id FROM events
WHERE status = 'ONGOING' AND finishes_at IS NOT NULL AND finishes_at <= ?
ORDER BY finishes_at, id
`

func (q *Queries) ListFinishedEventIDs(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listFinishedEventIDs, now)
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

const registerRoster = `-- name: RegisterRoster :exec
INSERT INTO event_registrations (event_id, roster_id, seq, registered_at)
VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM event_registrations WHERE event_id = ?), ?)
`

func (q *Queries) RegisterRoster(ctx context.Context, eventID, rosterID string, registeredAt time.Time) error {
	_, err := q.db.ExecContext(ctx, registerRoster, eventID, rosterID, eventID, registeredAt)
	return err
}

const listRegistrations = `-- name: ListRegistrations :many
SELECT roster_id FROM event_registrations
WHERE event_id = ?
ORDER BY seq
`

func (q *Queries) ListRegistrations(ctx context.Context, eventID string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listRegistrations, eventID)
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

const createLeague = `-- name: CreateLeague :exec
INSERT INTO leagues (event_id, round_robin_count)
VALUES (?, ?)
`

func (q *Queries) CreateLeague(ctx context.Context, arg League) error {
	_, err := q.db.ExecContext(ctx, createLeague, arg.EventID, arg.RoundRobinCount)
	return err
}

const getLeague = `-- name: GetLeague :one
SELECT event_id, round_robin_count FROM leagues
WHERE event_id = ?
`

func (q *Queries) GetLeague(ctx context.Context, eventID string) (League, error) {
	row := q.db.QueryRowContext(ctx, getLeague, eventID)
	var i League
	err := row.Scan(&i.EventID, &i.RoundRobinCount)
	return i, err
}

const upsertStanding = `-- name: UpsertStanding :exec
INSERT INTO league_standings (id, event_id, roster_id, wins, losses, position)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(event_id, roster_id) DO UPDATE SET
    wins = excluded.wins,
    losses = excluded.losses,
    position = excluded.position
`

func (q *Queries) UpsertStanding(ctx context.Context, arg LeagueStanding) error {
	_, err := q.db.ExecContext(ctx, upsertStanding,
		arg.ID,
		arg.EventID,
		arg.RosterID,
		arg.Wins,
		arg.Losses,
		arg.Position,
	)
	return err
}

const listStandings = `-- name: ListStandings :many
SELECT id, event_id, roster_id, wins, losses, position
FROM league_standings
WHERE event_id = ?
ORDER BY position, roster_id
`

func (q *Queries) ListStandings(ctx context.Context, eventID string) ([]LeagueStanding, error) {
	rows, err := q.db.QueryContext(ctx, listStandings, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LeagueStanding
	for rows.Next() {
		var i LeagueStanding
		if err := rows.Scan(
			&i.ID,
			&i.EventID,
			&i.RosterID,
			&i.Wins,
			&i.Losses,
			&i.Position,
		); err != nil {
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
