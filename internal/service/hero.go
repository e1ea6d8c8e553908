package service

import (
	"context"

	"arena-league/internal/constants"
	"arena-league/internal/domain"
	"arena-league/internal/hero"
	"arena-league/internal/repository"

	"github.com/rs/zerolog"
)

type HeroService struct {
	store  *repository.Store
	logger zerolog.Logger
}

func NewHeroService(store *repository.Store, logger zerolog.Logger) *HeroService {
	return &HeroService{store: store, logger: logger}
}

// SeedCatalog upserts the default hero pool by name. Existing heroes keep
// their ids.
func (s *HeroService) SeedCatalog(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	seeds := hero.Seeds()
	err := s.store.WithTx(ctx, func(tx *repository.Repos) error {
		for _, h := range seeds {
			if err := tx.Heroes.UpsertByName(ctx, h); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int("heroes", len(seeds)).Msg("hero catalog seeded")
	return nil
}

func (s *HeroService) Catalog(ctx context.Context) ([]domain.Hero, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.store.Heroes.List(ctx)
}
