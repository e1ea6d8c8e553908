package repository

import (
	"context"
	"fmt"
	"time"

	"arena-league/internal/db"
	"arena-league/internal/domain"

	"github.com/rs/zerolog"
)

type BootcampRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewBootcampRepository(queries *db.Queries, logger zerolog.Logger) *BootcampRepository {
	return &BootcampRepository{
		queries: queries,
		logger:  logger,
	}
}

func (r *BootcampRepository) Create(ctx context.Context, s *domain.BootcampSession) error {
	err := r.queries.CreateBootcampSession(ctx, db.BootcampSession{
		RosterID:   s.RosterID,
		StartedAt:  s.StartedAt.UTC(),
		LastTickAt: s.LastTickAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to create bootcamp for roster %s: %w", s.RosterID, err)
	}

	for i := range s.Configs {
		cfg := &s.Configs[i]
		if cfg.ID == "" {
			if cfg.ID, err = rowID(); err != nil {
				return err
			}
		}
		secondaries, err := toJSON(nonNil(cfg.SecondaryHeroIDs))
		if err != nil {
			return fmt.Errorf("failed to encode training of player %s: %w", cfg.PlayerID, err)
		}
		err = r.queries.InsertBootcampConfig(ctx, db.BootcampConfig{
			ID:               cfg.ID,
			RosterID:         s.RosterID,
			PlayerID:         cfg.PlayerID,
			TargetRole:       string(cfg.TargetRole),
			PrimaryHeroID:    optional(cfg.PrimaryHeroID),
			SecondaryHeroIds: secondaries,
		})
		if err != nil {
			return fmt.Errorf("failed to store training of player %s: %w", cfg.PlayerID, err)
		}
	}
	return nil
}

func (r *BootcampRepository) Get(ctx context.Context, rosterID string) (*domain.BootcampSession, error) {
	row, err := r.queries.GetBootcampSession(ctx, rosterID)
	if err != nil {
		return nil, notFound(err, "bootcamp of roster", rosterID)
	}

	rows, err := r.queries.ListBootcampConfigs(ctx, rosterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list training of roster %s: %w", rosterID, err)
	}

	s := &domain.BootcampSession{
		RosterID:   row.RosterID,
		StartedAt:  row.StartedAt,
		LastTickAt: row.LastTickAt,
		Configs:    make([]domain.TrainingConfig, 0, len(rows)),
	}
	for _, c := range rows {
		cfg := domain.TrainingConfig{
			ID:            c.ID,
			PlayerID:      c.PlayerID,
			TargetRole:    domain.Role(c.TargetRole),
			PrimaryHeroID: deref(c.PrimaryHeroID),
		}
		if err := fromJSON(c.SecondaryHeroIds, &cfg.SecondaryHeroIDs); err != nil {
			return nil, fmt.Errorf("%w: training %s has malformed heroes: %v", domain.ErrIntegrity, c.ID, err)
		}
		s.Configs = append(s.Configs, cfg)
	}
	return s, nil
}

// Delete removes the session and its configs. It reports whether a session existed.
func (r *BootcampRepository) Delete(ctx context.Context, rosterID string) (bool, error) {
	n, err := r.queries.DeleteBootcampSession(ctx, rosterID)
	if err != nil {
		return false, fmt.Errorf("failed to delete bootcamp of roster %s: %w", rosterID, err)
	}
	return n > 0, nil
}

func (r *BootcampRepository) Touch(ctx context.Context, s domain.BootcampSession) error {
	if err := r.queries.TouchBootcampSession(ctx, s.RosterID, s.LastTickAt.UTC()); err != nil {
		return fmt.Errorf("failed to touch bootcamp of roster %s: %w", s.RosterID, err)
	}
	return nil
}

func (r *BootcampRepository) ListDue(ctx context.Context, threshold time.Time) ([]string, error) {
	ids, err := r.queries.ListDueBootcampRosterIDs(ctx, threshold.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list due bootcamps: %w", err)
	}
	return ids, nil
}
