package repository

import (
	"context"
	"fmt"
	"time"

	"arena-league/internal/db"
	"arena-league/internal/domain"

	"github.com/rs/zerolog"
)

type RosterRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewRosterRepository(queries *db.Queries, logger zerolog.Logger) *RosterRepository {
	return &RosterRepository{
		queries: queries,
		logger:  logger,
	}
}

func (r *RosterRepository) Create(ctx context.Context, roster *domain.Roster) error {
	if roster.ID == "" {
		roster.ID = newID()
	}
	if roster.Activity == "" {
		roster.Activity = domain.ActivityIdle
	}
	err := r.queries.CreateRoster(ctx, db.CreateRosterParams{
		ID:        roster.ID,
		Name:      roster.Name,
		OwnerID:   roster.OwnerID,
		Cohesion:  roster.Cohesion,
		Morale:    roster.Morale,
		Energy:    int64(roster.Energy),
		Activity:  string(roster.Activity),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to create roster %s: %w", roster.Name, err)
	}
	return nil
}

// Get loads the roster with its member ids.
func (r *RosterRepository) Get(ctx context.Context, id string) (*domain.Roster, error) {
	row, err := r.queries.GetRoster(ctx, id)
	if err != nil {
		return nil, notFound(err, "roster", id)
	}

	playerIDs, err := r.queries.ListRosterPlayerIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list players of roster %s: %w", id, err)
	}

	return &domain.Roster{
		ID:        row.ID,
		Name:      row.Name,
		OwnerID:   row.OwnerID,
		Cohesion:  row.Cohesion,
		Morale:    row.Morale,
		Energy:    int(row.Energy),
		Activity:  domain.RosterActivity(row.Activity),
		PlayerIDs: playerIDs,
	}, nil
}

// Save writes the vitals and activity of the roster.
func (r *RosterRepository) Save(ctx context.Context, roster domain.Roster) error {
	n, err := r.queries.UpdateRosterVitals(ctx, db.UpdateRosterVitalsParams{
		Cohesion: roster.Cohesion,
		Morale:   roster.Morale,
		Energy:   int64(roster.Energy),
		Activity: string(roster.Activity),
		ID:       roster.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to save roster %s: %w", roster.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: roster %s", domain.ErrNotFound, roster.ID)
	}

	r.logger.Debug().
		Str("roster_id", roster.ID).
		Str("cohesion", roster.Cohesion.String()).
		Str("morale", roster.Morale.String()).
		Int("energy", roster.Energy).
		Str("activity", string(roster.Activity)).
		Msg("roster saved")
	return nil
}
