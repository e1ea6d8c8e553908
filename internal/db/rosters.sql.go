package db

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const createRoster = `-- name: CreateRoster :exec
INSERT INTO rosters (id, name, owner_id, cohesion, morale, energy, activity, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateRosterParams struct {
	ID        string
	Name      string
	OwnerID   string
	Cohesion  decimal.Decimal
	Morale    decimal.Decimal
	Energy    int64
	Activity  string
	CreatedAt time.Time
}

func (q *Queries) CreateRoster(ctx context.Context, arg CreateRosterParams) error {
	_, err := q.db.ExecContext(ctx, createRoster,
		arg.ID,
		arg.Name,
		arg.OwnerID,
		arg.Cohesion,
		arg.Morale,
		arg.Energy,
		arg.Activity,
		arg.CreatedAt,
	)
	return err
}

const getRoster = `-- name: GetRoster :one
SELECT id, name, owner_id, cohesion, morale, energy, activity, created_at
FROM rosters
WHERE id = ?
`

func (q *Queries) GetRoster(ctx context.Context, id string) (Roster, error) {
	row := q.db.QueryRowContext(ctx, getRoster, id)
	var i Roster
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.OwnerID,
		&i.Cohesion,
		&i.Morale,
		&i.Energy,
		&i.Activity,
		&i.CreatedAt,
	)
	return i, err
}

const updateRosterVitals = `-- name: UpdateRosterVitals :execrows
UPDATE rosters
SET cohesion = ?, morale = ?, energy = ?, activity = ?
WHERE id = ?
`

type UpdateRosterVitalsParams struct {
	Cohesion decimal.Decimal
	Morale   decimal.Decimal
	Energy   int64
	Activity string
	ID       string
}

func (q *Queries) UpdateRosterVitals(ctx context.Context, arg UpdateRosterVitalsParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateRosterVitals,
		arg.Cohesion,
		arg.Morale,
		arg.Energy,
		arg.Activity,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listRosterPlayerIDs = `-- name: ListRosterPlayerIDs :many
SELECT id FROM players
WHERE roster_id = ?
ORDER BY created_at, id
`

func (q *Queries) ListRosterPlayerIDs(ctx context.Context, rosterID string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listRosterPlayerIDs, rosterID)
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
