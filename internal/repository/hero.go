package repository

import (
	"context"
	"fmt"

	"arena-league/internal/db"
	"arena-league/internal/domain"
	"arena-league/internal/hero"

	"github.com/rs/zerolog"
)

type HeroRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewHeroRepository(queries *db.Queries, logger zerolog.Logger) *HeroRepository {
	return &HeroRepository{
		queries: queries,
		logger:  logger,
	}
}

func (r *HeroRepository) Get(ctx context.Context, id string) (*domain.Hero, error) {
	row, err := r.queries.GetHero(ctx, id)
	if err != nil {
		return nil, notFound(err, "hero", id)
	}
	h := heroFromRow(row)
	return &h, nil
}

func (r *HeroRepository) List(ctx context.Context) ([]domain.Hero, error) {
	rows, err := r.queries.ListHeroes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list heroes: %w", err)
	}
	heroes := make([]domain.Hero, len(rows))
	for i, row := range rows {
		heroes[i] = heroFromRow(row)
	}
	return heroes, nil
}

func (r *HeroRepository) Catalog(ctx context.Context) (*hero.Catalog, error) {
	heroes, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return hero.NewCatalog(heroes), nil
}

// UpsertByName inserts h or refreshes the stats of the hero with the same name.
func (r *HeroRepository) UpsertByName(ctx context.Context, h domain.Hero) error {
	if h.ID == "" {
		h.ID = newID()
	}
	err := r.queries.UpsertHero(ctx, db.UpsertHeroParams{
		ID:            h.ID,
		Name:          h.Name,
		PrimaryRole:   string(h.PrimaryRole),
		PrimaryTier:   string(h.PrimaryTier),
		SecondaryRole: optional(string(h.SecondaryRole)),
		SecondaryTier: optional(string(h.SecondaryTier)),
		Archetype:     string(h.Archetype),
		PictureUrl:    h.PictureURL,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert hero %s: %w", h.Name, err)
	}
	return nil
}

func heroFromRow(row db.Hero) domain.Hero {
	return domain.Hero{
		ID:            row.ID,
		Name:          row.Name,
		PrimaryRole:   domain.Role(row.PrimaryRole),
		PrimaryTier:   domain.Tier(row.PrimaryTier),
		SecondaryRole: domain.Role(deref(row.SecondaryRole)),
		SecondaryTier: domain.Tier(deref(row.SecondaryTier)),
		Archetype:     domain.Archetype(row.Archetype),
		PictureURL:    row.PictureUrl,
	}
}
