package service

import (
	"context"
	"fmt"

	"arena-league/internal/constants"
	"arena-league/internal/domain"
	"arena-league/internal/hero"
	"arena-league/internal/repository"
)

// DraftUpdate is one side's submission. Bans replace the side's bans when
// non-nil. Picks replace the existing entry of the same player or are added.
type DraftUpdate struct {
	Bans  []string               `json:"bans"`
	Picks []domain.PickIntention `json:"picks"`
}

func (s *MatchService) UpdateDraft(ctx context.Context, matchID, rosterID string, upd DraftUpdate) (*domain.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var updated *domain.Match
	err := s.store.WithTx(ctx, func(tx *repository.Repos) error {
		m, err := tx.Matches.Get(ctx, matchID)
		if err != nil {
			return err
		}
		if m.Status != domain.MatchScheduled {
			return fmt.Errorf("%w: match %s is %s", domain.ErrPrecondition, matchID, m.Status)
		}

		var bans *[]string
		var picks *[]domain.PickIntention
		switch rosterID {
		case m.HomeRosterID:
			bans, picks = &m.HomeBans, &m.HomePicks
		case m.AwayRosterID:
			bans, picks = &m.AwayBans, &m.AwayPicks
		default:
			return fmt.Errorf("%w: roster %s does not play match %s", domain.ErrPrecondition, rosterID, matchID)
		}

		catalog, err := tx.Heroes.Catalog(ctx)
		if err != nil {
			return err
		}
		if err := checkHeroes(catalog, upd.Bans); err != nil {
			return err
		}
		for _, p := range upd.Picks {
			if err := s.checkPick(ctx, tx, catalog, rosterID, p); err != nil {
				return err
			}
		}

		merged := mergePicks(*picks, upd.Picks)
		if err := checkUnique(merged); err != nil {
			return err
		}

		if upd.Bans != nil {
			*bans = upd.Bans
		}
		*picks = merged
		if err := tx.Matches.SaveDraft(ctx, *m); err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("match_id", matchID).Str("roster_id", rosterID).Int("picks", len(upd.Picks)).Msg("draft updated")
	return updated, nil
}

func (s *MatchService) checkPick(ctx context.Context, tx *repository.Repos, catalog *hero.Catalog, rosterID string, p domain.PickIntention) error {
	if !p.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, p.Role)
	}
	if len(p.PreferredHeroIDs) > domain.MaxPreferredHeroes {
		return fmt.Errorf("%w: player %s lists %d heroes, at most %d allowed", domain.ErrValidation, p.PlayerID, len(p.PreferredHeroIDs), domain.MaxPreferredHeroes)
	}
	if err := checkHeroes(catalog, p.PreferredHeroIDs); err != nil {
		return err
	}

	player, err := tx.Players.Get(ctx, p.PlayerID)
	if err != nil {
		return err
	}
	if player.RosterID != rosterID {
		return fmt.Errorf("%w: player %s is not on roster %s", domain.ErrValidation, p.PlayerID, rosterID)
	}
	return nil
}

func checkHeroes(catalog *hero.Catalog, ids []string) error {
	for _, id := range ids {
		if !catalog.Contains(id) {
			return fmt.Errorf("%w: unknown hero %s", domain.ErrValidation, id)
		}
	}
	return nil
}

func mergePicks(current, incoming []domain.PickIntention) []domain.PickIntention {
	merged := make([]domain.PickIntention, 0, len(current)+len(incoming))
	merged = append(merged, current...)
	for _, p := range incoming {
		replaced := false
		for i := range merged {
			if merged[i].PlayerID == p.PlayerID {
				merged[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, p)
		}
	}
	return merged
}

func checkUnique(picks []domain.PickIntention) error {
	roles := make(map[domain.Role]string, len(picks))
	orders := make(map[int]string, len(picks))
	for _, p := range picks {
		if other, ok := roles[p.Role]; ok {
			return fmt.Errorf("%w: role %s is taken by %s and %s", domain.ErrValidation, p.Role, other, p.PlayerID)
		}
		roles[p.Role] = p.PlayerID
		if other, ok := orders[p.PickOrder]; ok {
			return fmt.Errorf("%w: pick order %d is used by %s and %s", domain.ErrValidation, p.PickOrder, other, p.PlayerID)
		}
		orders[p.PickOrder] = p.PlayerID
	}
	return nil
}
