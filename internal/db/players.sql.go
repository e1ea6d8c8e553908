package db

import (
	"context"
	"time"
)

const createPlayer = `-- name: CreatePlayer :exec
INSERT INTO players (id, nickname, roster_id, created_at)
VALUES (?, ?, ?, ?)
`

type CreatePlayerParams struct {
	ID        string
	Nickname  string
	RosterID  *string
	CreatedAt time.Time
}

func (q *Queries) CreatePlayer(ctx context.Context, arg CreatePlayerParams) error {
	_, err := q.db.ExecContext(ctx, createPlayer,
		arg.ID,
		arg.Nickname,
		arg.RosterID,
		arg.CreatedAt,
	)
	return err
}

const getPlayer = `-- name: GetPlayer :one
SELECT id, nickname, roster_id, created_at
FROM players
WHERE id = ?
`

func (q *Queries) GetPlayer(ctx context.Context, id string) (Player, error) {
	row := q.db.QueryRowContext(ctx, getPlayer, id)
	var i Player
	err := row.Scan(
		&i.ID,
		&i.Nickname,
		&i.RosterID,
		&i.CreatedAt,
	)
	return i, err
}

const addPlayerTrait = `-- name: AddPlayerTrait :exec
INSERT INTO player_traits (player_id, trait)
VALUES (?, ?)
ON CONFLICT(player_id, trait) DO NOTHING
`

func (q *Queries) AddPlayerTrait(ctx context.Context, playerID string, trait string) error {
	_, err := q.db.ExecContext(ctx, addPlayerTrait, playerID, trait)
	return err
}

const listPlayerTraits = `-- name: ListPlayerTraits :many
SELECT trait FROM player_traits
WHERE player_id = ?
ORDER BY trait
`

func (q *Queries) ListPlayerTraits(ctx context.Context, playerID string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listPlayerTraits, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var trait string
		if err := rows.Scan(&trait); err != nil {
			return nil, err
		}
		items = append(items, trait)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listRoleMasteries = `-- name: ListRoleMasteries :many
SELECT player_id, role, level, experience
FROM player_role_masteries
WHERE player_id = ?
`

func (q *Queries) ListRoleMasteries(ctx context.Context, playerID string) ([]PlayerRoleMastery, error) {
	rows, err := q.db.QueryContext(ctx, listRoleMasteries, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PlayerRoleMastery
	for rows.Next() {
		var i PlayerRoleMastery
		if err := rows.Scan(&i.PlayerID, &i.Role, &i.Level, &i.Experience); err != nil {
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

const listHeroMasteries = `-- name: ListHeroMasteries :many
SELECT player_id, hero_id, level, experience
FROM player_hero_masteries
WHERE player_id = ?
`

func (q *Queries) ListHeroMasteries(ctx context.Context, playerID string) ([]PlayerHeroMastery, error) {
	rows, err := q.db.QueryContext(ctx, listHeroMasteries, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PlayerHeroMastery
	for rows.Next() {
		var i PlayerHeroMastery
		if err := rows.Scan(&i.PlayerID, &i.HeroID, &i.Level, &i.Experience); err != nil {
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

const upsertRoleMastery = `-- name: UpsertRoleMastery :exec
INSERT INTO player_role_masteries (player_id, role, level, experience)
VALUES (?, ?, ?, ?)
ON CONFLICT(player_id, role) DO UPDATE SET
    level = excluded.level,
    experience = excluded.experience
`

func (q *Queries) UpsertRoleMastery(ctx context.Context, arg PlayerRoleMastery) error {
	_, err := q.db.ExecContext(ctx, upsertRoleMastery,
		arg.PlayerID,
		arg.Role,
		arg.Level,
		arg.Experience,
	)
	return err
}

const upsertHeroMastery = `-- name: UpsertHeroMastery :exec
INSERT INTO player_hero_masteries (player_id, hero_id, level, experience)
VALUES (?, ?, ?, ?)
ON CONFLICT(player_id, hero_id) DO UPDATE SET
    level = excluded.level,
    experience = excluded.experience
`

func (q *Queries) UpsertHeroMastery(ctx context.Context, arg PlayerHeroMastery) error {
	_, err := q.db.ExecContext(ctx, upsertHeroMastery,
		arg.PlayerID,
		arg.HeroID,
		arg.Level,
		arg.Experience,
	)
	return err
}
