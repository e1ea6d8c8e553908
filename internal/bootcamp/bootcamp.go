// Package bootcamp implements the periodic training tick for rosters in a bootcamp.
package bootcamp

import (
	"fmt"
	"time"

	"arena-league/internal/domain"
	"arena-league/internal/hero"
	"arena-league/internal/mastery"

	"github.com/shopspring/decimal"
)

const (
	TickInterval       = 6 * time.Hour
	EnergyCost         = 10
	MaxSecondaryHeroes = 2

	roleXP          = 50
	primaryHeroXP   = 100
	secondaryHeroXP = 50
	adaptiveHeroXP  = 80
)

var (
	cohesionGain       = decimal.RequireFromString("0.1")
	leaderCohesionGain = decimal.RequireFromString("0.2")
)

// ValidateConfig checks one player's training plan against the catalog.
func ValidateConfig(cfg domain.TrainingConfig, catalog *hero.Catalog) error {
	if !cfg.TargetRole.Valid() {
		return fmt.Errorf("%w: unknown role %q for player %s", domain.ErrValidation, cfg.TargetRole, cfg.PlayerID)
	}
	if len(cfg.SecondaryHeroIDs) > MaxSecondaryHeroes {
		return fmt.Errorf("%w: player %s has %d secondary heroes, max %d", domain.ErrValidation, cfg.PlayerID, len(cfg.SecondaryHeroIDs), MaxSecondaryHeroes)
	}

	seen := make(map[string]bool, 1+len(cfg.SecondaryHeroIDs))
	for _, id := range cfg.HeroIDs() {
		if seen[id] {
			return fmt.Errorf("%w: duplicate hero %s in training of player %s", domain.ErrValidation, id, cfg.PlayerID)
		}
		if !catalog.Contains(id) {
			return fmt.Errorf("%w: hero %s does not exist", domain.ErrValidation, id)
		}
		seen[id] = true
	}
	return nil
}

// Strength averages (best role level + best hero level) / 2 across players.
// Missing tracks count as level 1.
func Strength(players []*domain.Player) float64 {
	if len(players) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range players {
		total += float64(maxLevel(p.RoleMasteries)+maxLevel(p.HeroMasteries)) / 2
	}
	return total / float64(len(players))
}

func maxLevel[K comparable](tracks map[K]domain.Mastery) int {
	best := 0
	for _, m := range tracks {
		best = max(best, m.Level)
	}
	if best == 0 {
		return 1
	}
	return best
}

// MasteryUpdate is a single track touched by a tick. Exactly one of Role or HeroID is set.
type MasteryUpdate struct {
	PlayerID string
	Role     domain.Role
	HeroID   string
	Gained   int64
	Mastery  domain.Mastery
}

type TickResult struct {
	Stopped  bool
	Strength float64
	Roster   domain.Roster
	Updates  []MasteryUpdate
}

// Tick runs one training step. A roster below EnergyCost is stopped without
// any other change. Players in the map are updated in place.
func Tick(session domain.BootcampSession, roster domain.Roster, players map[string]*domain.Player) (TickResult, error) {
	if roster.Energy < EnergyCost {
		return TickResult{Stopped: true, Roster: roster}, nil
	}

	members := make([]*domain.Player, 0, len(roster.PlayerIDs))
	workaholics, leader := 0, false
	for _, id := range roster.PlayerIDs {
		p, ok := players[id]
		if !ok {
			return TickResult{}, fmt.Errorf("%w: roster %s member %s is missing", domain.ErrIntegrity, roster.ID, id)
		}
		members = append(members, p)
		if p.HasTrait(domain.TraitWorkaholic) {
			workaholics++
		}
		if p.HasTrait(domain.TraitLeader) {
			leader = true
		}
	}

	res := TickResult{Strength: Strength(members)}

	roster.Energy = max(0, roster.Energy-max(0, EnergyCost-workaholics))
	gain := cohesionGain
	if leader {
		gain = leaderCohesionGain
	}
	roster.Cohesion = domain.ClampStat(roster.Cohesion.Add(gain))
	res.Roster = roster

	scaled := func(base int64) int64 {
		return int64(float64(base) * res.Strength)
	}

	for _, cfg := range session.Configs {
		p, ok := players[cfg.PlayerID]
		if !ok {
			return TickResult{}, fmt.Errorf("%w: training player %s is missing", domain.ErrIntegrity, cfg.PlayerID)
		}

		xp := scaled(roleXP)
		m, err := mastery.AddRoleExperience(p, cfg.TargetRole, xp)
		if err != nil {
			return TickResult{}, err
		}
		res.Updates = append(res.Updates, MasteryUpdate{PlayerID: p.ID, Role: cfg.TargetRole, Gained: xp, Mastery: m})

		adaptive := p.HasTrait(domain.TraitAdaptive)
		for i, heroID := range cfg.HeroIDs() {
			base := int64(secondaryHeroXP)
			if i == 0 && cfg.PrimaryHeroID != "" {
				base = primaryHeroXP
			}
			if adaptive {
				base = adaptiveHeroXP
			}

			xp := scaled(base)
			m, err := mastery.AddHeroExperience(p, heroID, xp)
			if err != nil {
				return TickResult{}, err
			}
			res.Updates = append(res.Updates, MasteryUpdate{PlayerID: p.ID, HeroID: heroID, Gained: xp, Mastery: m})
		}
	}
	return res, nil
}

// Due reports whether a session is ready for its next tick.
func Due(session domain.BootcampSession, now time.Time) bool {
	return !session.LastTickAt.After(now.Add(-TickInterval))
}
