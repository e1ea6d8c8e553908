package service

import (
	"context"
	"fmt"
	"slices"

	"arena-league/internal/constants"
	"arena-league/internal/domain"
	"arena-league/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const startingEnergy = 100

var startingMorale = decimal.RequireFromString("5.00")

var knownTraits = []domain.Trait{
	domain.TraitClutchFactor, domain.TraitLeader, domain.TraitLoneWolf,
	domain.TraitTeamPlayer, domain.TraitAdaptive, domain.TraitWorkaholic,
}

type PlayerService struct {
	store  *repository.Store
	logger zerolog.Logger
}

func NewPlayerService(store *repository.Store, logger zerolog.Logger) *PlayerService {
	return &PlayerService{store: store, logger: logger}
}

// CreateRoster opens an idle roster with neutral morale and full energy.
func (s *PlayerService) CreateRoster(ctx context.Context, name, ownerID string) (*domain.Roster, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if name == "" {
		return nil, fmt.Errorf("%w: roster name is required", domain.ErrValidation)
	}

	r := &domain.Roster{
		Name:     name,
		OwnerID:  ownerID,
		Cohesion: decimal.Zero,
		Morale:   startingMorale,
		Energy:   startingEnergy,
		Activity: domain.ActivityIdle,
	}
	if err := s.store.Rosters.Create(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info().Str("roster_id", r.ID).Str("name", name).Msg("roster created")
	return r, nil
}

func (s *PlayerService) Roster(ctx context.Context, id string) (*domain.Roster, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.store.Rosters.Get(ctx, id)
}

// SignPlayer creates a player on the roster. Every role track starts at level 1.
func (s *PlayerService) SignPlayer(ctx context.Context, rosterID, nickname string, traits []domain.Trait) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if nickname == "" {
		return nil, fmt.Errorf("%w: nickname is required", domain.ErrValidation)
	}
	for i, t := range traits {
		if !slices.Contains(knownTraits, t) {
			return nil, fmt.Errorf("%w: unknown trait %q", domain.ErrValidation, t)
		}
		if slices.Contains(traits[:i], t) {
			return nil, fmt.Errorf("%w: trait %s listed twice", domain.ErrValidation, t)
		}
	}

	p := &domain.Player{Nickname: nickname, RosterID: rosterID, Traits: traits}
	err := s.store.WithTx(ctx, func(tx *repository.Repos) error {
		if _, err := tx.Rosters.Get(ctx, rosterID); err != nil {
			return err
		}
		return tx.Players.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("player_id", p.ID).Str("roster_id", rosterID).Str("nickname", nickname).Msg("player signed")
	return p, nil
}

func (s *PlayerService) Player(ctx context.Context, id string) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.store.Players.Get(ctx, id)
}
