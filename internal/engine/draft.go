package engine

import (
	"fmt"
	"sort"

	"arena-league/internal/domain"
	"arena-league/internal/hero"
)

// ResolveDraft assigns one hero per pick intention. Both sides share a single
// pick order; heroes are exclusive across the whole match.
func ResolveDraft(m domain.Match, catalog *hero.Catalog) (map[string]domain.Hero, error) {
	unavailable := make(map[string]bool, len(m.HomeBans)+len(m.AwayBans))
	for _, id := range m.HomeBans {
		unavailable[id] = true
	}
	for _, id := range m.AwayBans {
		unavailable[id] = true
	}

	sequence := make([]domain.PickIntention, 0, len(m.HomePicks)+len(m.AwayPicks))
	sequence = append(sequence, m.HomePicks...)
	sequence = append(sequence, m.AwayPicks...)
	sort.SliceStable(sequence, func(i, j int) bool {
		return sequence[i].PickOrder < sequence[j].PickOrder
	})

	picks := make(map[string]domain.Hero, len(sequence))
	for _, intent := range sequence {
		assigned, ok := firstAvailable(intent, unavailable, catalog)
		if !ok {
			assigned, ok = catalog.BestForRole(intent.Role, unavailable)
			if !ok {
				return nil, fmt.Errorf("%w: no hero left for role %s (player %s)", domain.ErrIntegrity, intent.Role, intent.PlayerID)
			}
		}

		picks[intent.PlayerID] = assigned
		unavailable[assigned.ID] = true
	}
	return picks, nil
}

// firstAvailable walks at most three preferences. Unknown ids are skipped.
func firstAvailable(intent domain.PickIntention, unavailable map[string]bool, catalog *hero.Catalog) (domain.Hero, bool) {
	for i, id := range intent.PreferredHeroIDs {
		if i >= domain.MaxPreferredHeroes {
			break
		}
		if unavailable[id] {
			continue
		}
		if h, ok := catalog.ByID(id); ok {
			return h, true
		}
	}
	return domain.Hero{}, false
}
