package db

import (
	"context"
	"time"
)

const createBootcampSession = `-- name: CreateBootcampSession :exec
INSERT INTO bootcamp_sessions (roster_id, started_at, last_tick_at)
VALUES (?, ?, ?)
`

func (q *Queries) CreateBootcampSession(ctx context.Context, arg BootcampSession) error {
	_, err := q.db.ExecContext(ctx, createBootcampSession, arg.RosterID, arg.StartedAt, arg.LastTickAt)
	return err
}

const getBootcampSession = `-- name: GetBootcampSession :one
SELECT roster_id, started_at, last_tick_at FROM bootcamp_sessions
WHERE roster_id = ?
`

func (q *Queries) GetBootcampSession(ctx context.Context, rosterID string) (BootcampSession, error) {
	row := q.db.QueryRowContext(ctx, getBootcampSession, rosterID)
	var i BootcampSession
	err := row.Scan(&i.RosterID, &i.StartedAt, &i.LastTickAt)
	return i, err
}

const deleteBootcampSession = `-- name: DeleteBootcampSession :execrows
DELETE FROM bootcamp_sessions
WHERE roster_id = ?
`

func (q *Queries) DeleteBootcampSession(ctx context.Context, rosterID string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteBootcampSession, rosterID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const touchBootcampSession = `-- name: TouchBootcampSession :exec
UPDATE bootcamp_sessions
SET last_tick_at = ?
WHERE roster_id = ?
`

func (q *Queries) TouchBootcampSession(ctx context.Context, rosterID string, lastTickAt time.Time) error {
	_, err := q.db.ExecContext(ctx, touchBootcampSession, lastTickAt, rosterID)
	return err
}

const listDueBootcampRosterIDs = `-- name: ListDueBootcampRosterIDs :many
SELECT roster_id FROM bootcamp_sessions
WHERE last_tick_at <= ?
ORDER BY last_tick_at, roster_id
`

func (q *Queries) ListDueBootcampRosterIDs(ctx context.Context, threshold time.Time) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listDueBootcampRosterIDs, threshold)
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

const insertBootcampConfig = `-- name: InsertBootcampConfig :exec
INSERT INTO bootcamp_configs (id, roster_id, player_id, target_role, primary_hero_id, secondary_hero_ids)
VALUES (?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertBootcampConfig(ctx context.Context, arg BootcampConfig) error {
	_, err := q.db.ExecContext(ctx, insertBootcampConfig,
		arg.ID,
		arg.RosterID,
		arg.PlayerID,
		arg.TargetRole,
		arg.PrimaryHeroID,
		arg.SecondaryHeroIds,
	)
	return err
}

const listBootcampConfigs = `-- name: ListBootcampConfigs :many
SELECT id, roster_id, player_id, target_role, primary_hero_id, secondary_hero_ids
FROM bootcamp_configs
WHERE roster_id = ?
ORDER BY rowid
`

func (q *Queries) ListBootcampConfigs(ctx context.Context, rosterID string) ([]BootcampConfig, error) {
	rows, err := q.db.QueryContext(ctx, listBootcampConfigs, rosterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BootcampConfig
	for rows.Next() {
		var i BootcampConfig
		if err := rows.Scan(
			&i.ID,
			&i.RosterID,
			&i.PlayerID,
			&i.TargetRole,
			&i.PrimaryHeroID,
			&i.SecondaryHeroIds,
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
