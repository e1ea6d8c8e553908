package service

import (
	"context"
	"fmt"
	"time"

	"arena-league/internal/bootcamp"
	"arena-league/internal/constants"
	"arena-league/internal/domain"
	"arena-league/internal/repository"

	"github.com/rs/zerolog"
)

type BootcampService struct {
	store  *repository.Store
	logger zerolog.Logger
}

func NewBootcampService(store *repository.Store, logger zerolog.Logger) *BootcampService {
	return &BootcampService{store: store, logger: logger}
}

// Start sends an idle roster to bootcamp with one training config per player.
func (s *BootcampService) Start(ctx context.Context, rosterID string, configs []domain.TrainingConfig, now time.Time) (*domain.BootcampSession, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	session := &domain.BootcampSession{
		RosterID:   rosterID,
		StartedAt:  now,
		LastTickAt: now,
		Configs:    configs,
	}
	err := s.store.WithTx(ctx, func(tx *repository.Repos) error {
		roster, err := tx.Rosters.Get(ctx, rosterID)
		if err != nil {
			return err
		}
		if roster.Activity != domain.ActivityIdle {
			return fmt.Errorf("%w: roster %s is %s", domain.ErrPrecondition, rosterID, roster.Activity)
		}

		catalog, err := tx.Heroes.Catalog(ctx)
		if err != nil {
			return err
		}
		trained := make(map[string]bool, len(configs))
		for _, cfg := range configs {
			if err := bootcamp.ValidateConfig(cfg, catalog); err != nil {
				return err
			}
			if trained[cfg.PlayerID] {
				return fmt.Errorf("%w: player %s has two training configs", domain.ErrValidation, cfg.PlayerID)
			}
			trained[cfg.PlayerID] = true

			p, err := tx.Players.Get(ctx, cfg.PlayerID)
			if err != nil {
				return err
			}
			if p.RosterID != rosterID {
				return fmt.Errorf("%w: player %s is not on roster %s", domain.ErrValidation, cfg.PlayerID, rosterID)
			}
		}

		if err := tx.Bootcamps.Create(ctx, session); err != nil {
			return err
		}
		roster.Activity = domain.ActivityBootcamp
		return tx.Rosters.Save(ctx, *roster)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("roster_id", rosterID).Int("configs", len(configs)).Msg("bootcamp started")
	return session, nil
}

// Stop ends the roster's bootcamp and frees the roster.
func (s *BootcampService) Stop(ctx context.Context, rosterID string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	err := s.store.WithTx(ctx, func(tx *repository.Repos) error {
		return stopBootcamp(ctx, tx, rosterID)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("roster_id", rosterID).Msg("bootcamp stopped")
	return nil
}

func stopBootcamp(ctx context.Context, tx *repository.Repos, rosterID string) error {
	existed, err := tx.Bootcamps.Delete(ctx, rosterID)
	if err != nil {
		return err
	}
	if !existed {
		return fmt.Errorf("%w: roster %s is not in bootcamp", domain.ErrNotFound, rosterID)
	}

	roster, err := tx.Rosters.Get(ctx, rosterID)
	if err != nil {
		return err
	}
	roster.Activity = domain.ActivityIdle
	return tx.Rosters.Save(ctx, *roster)
}

// ProcessTicks runs one training step for every session that is due. Each
// session is ticked in its own transaction.
func (s *BootcampService) ProcessTicks(ctx context.Context, now time.Time) (BatchReport, error) {
	ids, err := s.store.Bootcamps.ListDue(ctx, now.Add(-bootcamp.TickInterval))
	if err != nil {
		return BatchReport{}, err
	}

	report := BatchReport{Due: len(ids)}
	for _, id := range ids {
		if err := s.tick(ctx, id, now); err != nil {
			s.logger.Error().Err(err).Str("roster_id", id).Msg("bootcamp tick failed")
			report.Failed++
			continue
		}
		report.Completed++
	}
	return report, nil
}

func (s *BootcampService) tick(ctx context.Context, rosterID string, now time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.store.WithTx(ctx, func(tx *repository.Repos) error {
		session, err := tx.Bootcamps.Get(ctx, rosterID)
		if err != nil {
			return err
		}
		if !bootcamp.Due(*session, now) {
			return nil
		}

		roster, err := tx.Rosters.Get(ctx, rosterID)
		if err != nil {
			return err
		}
		ids := append([]string(nil), roster.PlayerIDs...)
		for _, cfg := range session.Configs {
			ids = append(ids, cfg.PlayerID)
		}
		players, err := tx.Players.GetMany(ctx, ids)
		if err != nil {
			return err
		}

		res, err := bootcamp.Tick(*session, *roster, players)
		if err != nil {
			return err
		}
		if res.Stopped {
			s.logger.Info().Str("roster_id", rosterID).Int("energy", roster.Energy).Msg("bootcamp stopped, roster exhausted")
			return stopBootcamp(ctx, tx, rosterID)
		}

		if err := tx.Rosters.Save(ctx, res.Roster); err != nil {
			return err
		}
		for _, u := range res.Updates {
			if u.HeroID != "" {
				err = tx.Players.SaveHeroMastery(ctx, u.PlayerID, u.HeroID, u.Mastery)
			} else {
				err = tx.Players.SaveRoleMastery(ctx, u.PlayerID, u.Role, u.Mastery)
			}
			if err != nil {
				return err
			}
		}

		session.LastTickAt = now
		if err := tx.Bootcamps.Touch(ctx, *session); err != nil {
			return err
		}

		s.logger.Debug().
			Str("roster_id", rosterID).
			Float64("strength", res.Strength).
			Int("updates", len(res.Updates)).
			Msg("bootcamp ticked")
		return nil
	})
}
