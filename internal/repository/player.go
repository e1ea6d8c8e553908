package repository

import (
	"context"
	"fmt"
	"time"

	"arena-league/internal/db"
	"arena-league/internal/domain"
	"arena-league/internal/mastery"

	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewPlayerRepository(queries *db.Queries, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		queries: queries,
		logger:  logger,
	}
}

// Create stores a new player with a level 1 track for every role it does not
// already carry.
func (r *PlayerRepository) Create(ctx context.Context, p *domain.Player) error {
	if p.ID == "" {
		p.ID = newID()
	}
	err := r.queries.CreatePlayer(ctx, db.CreatePlayerParams{
		ID:        p.ID,
		Nickname:  p.Nickname,
		RosterID:  optional(p.RosterID),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to create player %s: %w", p.Nickname, err)
	}

	for _, t := range p.Traits {
		if err := r.queries.AddPlayerTrait(ctx, p.ID, string(t)); err != nil {
			return fmt.Errorf("failed to add trait %s to player %s: %w", t, p.ID, err)
		}
	}

	if p.RoleMasteries == nil {
		p.RoleMasteries = make(map[domain.Role]domain.Mastery, len(domain.Roles))
	}
	for _, role := range domain.Roles {
		if _, ok := p.RoleMasteries[role]; !ok {
			p.RoleMasteries[role] = mastery.New()
		}
	}
	for role, m := range p.RoleMasteries {
		if err := r.SaveRoleMastery(ctx, p.ID, role, m); err != nil {
			return err
		}
	}
	for heroID, m := range p.HeroMasteries {
		if err := r.SaveHeroMastery(ctx, p.ID, heroID, m); err != nil {
			return err
		}
	}

	r.logger.Debug().Str("player_id", p.ID).Str("nickname", p.Nickname).Msg("player created")
	return nil
}

func (r *PlayerRepository) Get(ctx context.Context, id string) (*domain.Player, error) {
	row, err := r.queries.GetPlayer(ctx, id)
	if err != nil {
		return nil, notFound(err, "player", id)
	}

	p := &domain.Player{
		ID:            row.ID,
		Nickname:      row.Nickname,
		RosterID:      deref(row.RosterID),
		RoleMasteries: make(map[domain.Role]domain.Mastery),
		HeroMasteries: make(map[string]domain.Mastery),
	}

	traits, err := r.queries.ListPlayerTraits(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list traits of player %s: %w", id, err)
	}
	for _, t := range traits {
		p.Traits = append(p.Traits, domain.Trait(t))
	}

	roles, err := r.queries.ListRoleMasteries(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list role masteries of player %s: %w", id, err)
	}
	for _, m := range roles {
		p.RoleMasteries[domain.Role(m.Role)] = domain.Mastery{Level: int(m.Level), Experience: m.Experience}
	}

	heroes, err := r.queries.ListHeroMasteries(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list hero masteries of player %s: %w", id, err)
	}
	for _, m := range heroes {
		p.HeroMasteries[m.HeroID] = domain.Mastery{Level: int(m.Level), Experience: m.Experience}
	}

	return p, nil
}

// GetMany loads every id. A missing player is reported as not found.
func (r *PlayerRepository) GetMany(ctx context.Context, ids []string) (map[string]*domain.Player, error) {
	players := make(map[string]*domain.Player, len(ids))
	for _, id := range ids {
		if _, ok := players[id]; ok {
			continue
		}
		p, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		players[id] = p
	}
	return players, nil
}

func (r *PlayerRepository) SaveRoleMastery(ctx context.Context, playerID string, role domain.Role, m domain.Mastery) error {
	err := r.queries.UpsertRoleMastery(ctx, db.PlayerRoleMastery{
		PlayerID:   playerID,
		Role:       string(role),
		Level:      int64(m.Level),
		Experience: m.Experience,
	})
	if err != nil {
		return fmt.Errorf("failed to save %s mastery of player %s: %w", role, playerID, err)
	}
	return nil
}

func (r *PlayerRepository) SaveHeroMastery(ctx context.Context, playerID, heroID string, m domain.Mastery) error {
	err := r.queries.UpsertHeroMastery(ctx, db.PlayerHeroMastery{
		PlayerID:   playerID,
		HeroID:     heroID,
		Level:      int64(m.Level),
		Experience: m.Experience,
	})
	if err != nil {
		return fmt.Errorf("failed to save hero %s mastery of player %s: %w", heroID, playerID, err)
	}
	return nil
}
