package db

import (
	"context"
)

const getHero = `-- name: GetHero :one
SELECT id, name, primary_role, primary_tier, secondary_role, secondary_tier, archetype, picture_url
FROM heroes
WHERE id = ?
`

func (q *Queries) GetHero(ctx context.Context, id string) (Hero, error) {
	row := q.db.QueryRowContext(ctx, getHero, id)
	var i Hero
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.PrimaryRole,
		&i.PrimaryTier,
		&i.SecondaryRole,
		&i.SecondaryTier,
		&i.Archetype,
		&i.PictureUrl,
	)
	return i, err
}

const listHeroes = `-- name: ListHeroes :many
SELECT id, name, primary_role, primary_tier, secondary_role, secondary_tier, archetype, picture_url
FROM heroes
ORDER BY name, id
`

func (q *Queries) ListHeroes(ctx context.Context) ([]Hero, error) {
	rows, err := q.db.QueryContext(ctx, listHeroes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Hero
	for rows.Next() {
		var i Hero
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.PrimaryRole,
			&i.PrimaryTier,
			&i.SecondaryRole,
			&i.SecondaryTier,
			&i.Archetype,
			&i.PictureUrl,
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

const upsertHero = `-- name: UpsertHero :exec
INSERT INTO heroes (id, name, primary_role, primary_tier, secondary_role, secondary_tier, archetype, picture_url)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
    primary_role = excluded.primary_role,
    primary_tier = excluded.primary_tier,
    secondary_role = excluded.secondary_role,
    secondary_tier = excluded.secondary_tier,
    archetype = excluded.archetype,
    picture_url = excluded.picture_url
`

type UpsertHeroParams struct {
	ID            string
	Name          string
	PrimaryRole   string
	PrimaryTier   string
	SecondaryRole *string
	SecondaryTier *string
	Archetype     string
	PictureUrl    string
}

// UpsertHero keys on name; an existing row keeps its id.
func (q *Queries) UpsertHero(ctx context.Context, arg UpsertHeroParams) error {
	_, err := q.db.ExecContext(ctx, upsertHero,
		arg.ID,
		arg.Name,
		arg.PrimaryRole,
		arg.PrimaryTier,
		arg.SecondaryRole,
		arg.SecondaryTier,
		arg.Archetype,
		arg.PictureUrl,
	)
	return err
}
