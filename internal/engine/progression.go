package engine

import (
	"fmt"

	"arena-league/internal/domain"
	"arena-league/internal/mastery"

	"github.com/shopspring/decimal"
)

const (
	WinExperience  int64 = 100
	LossExperience int64 = 150
	EnergyPerMatch       = 15
)

var (
	moraleWin        = decimal.RequireFromString("0.5")
	moraleLoss       = decimal.RequireFromString("-0.5")
	leaderMoraleWin  = decimal.RequireFromString("0.75")
	leaderMoraleLoss = decimal.RequireFromString("-0.25")
	cohesionWin      = decimal.RequireFromString("0.2")
	cohesionLoss     = decimal.RequireFromString("0.1")
	cohesionPerTrait = decimal.RequireFromString("0.05")
)

// XPGrant records the experience a participant earned and the resulting tracks.
type XPGrant struct {
	PlayerID    string
	Role        domain.Role
	HeroID      string
	RoleXP      int64
	HeroXP      int64
	RoleMastery domain.Mastery
	HeroMastery domain.Mastery
}

// Experience returns the role and hero experience for one participant.
func Experience(p *domain.Player, won bool) (roleXP, heroXP int64) {
	base := WinExperience
	if !won {
		base = LossExperience
	}
	heroXP = base
	if !won && p.HasTrait(domain.TraitAdaptive) {
		heroXP = base * 3 / 2
	}
	return base, heroXP
}

// GrantExperience applies Experience to every participant of a side. Player
// masteries are updated in place.
func GrantExperience(side RosterPerformance, won bool) ([]XPGrant, error) {
	grants := make([]XPGrant, 0, len(side.Participants))
	for _, part := range side.Participants {
		roleXP, heroXP := Experience(part.Player, won)

		rm, err := mastery.AddRoleExperience(part.Player, part.Role, roleXP)
		if err != nil {
			return nil, fmt.Errorf("failed to grant role experience to %s: %w", part.Player.ID, err)
		}
		hm, err := mastery.AddHeroExperience(part.Player, part.Hero.ID, heroXP)
		if err != nil {
			return nil, fmt.Errorf("failed to grant hero experience to %s: %w", part.Player.ID, err)
		}

		grants = append(grants, XPGrant{
			PlayerID:    part.Player.ID,
			Role:        part.Role,
			HeroID:      part.Hero.ID,
			RoleXP:      roleXP,
			HeroXP:      heroXP,
			RoleMastery: rm,
			HeroMastery: hm,
		})
	}
	return grants, nil
}

// ApplyVitals returns the roster with morale, cohesion and energy updated for
// the match result. Deltas are driven by the side's participants.
func ApplyVitals(r domain.Roster, side RosterPerformance, won bool) domain.Roster {
	leader := side.Has(domain.TraitLeader)

	var morale decimal.Decimal
	switch {
	case won && leader:
		morale = leaderMoraleWin
	case won:
		morale = moraleWin
	case leader:
		morale = leaderMoraleLoss
	default:
		morale = moraleLoss
	}
	r.Morale = domain.ClampStat(r.Morale.Add(morale))

	cohesion := cohesionLoss
	if won {
		cohesion = cohesionWin
	}
	cohesion = cohesion.
		Add(cohesionPerTrait.Mul(decimal.NewFromInt(int64(side.Count(domain.TraitTeamPlayer))))).
		Sub(cohesionPerTrait.Mul(decimal.NewFromInt(int64(side.Count(domain.TraitLoneWolf)))))
	r.Cohesion = domain.ClampStat(r.Cohesion.Add(cohesion))

	r.Energy = max(0, r.Energy-EnergyPerMatch+side.Count(domain.TraitWorkaholic))
	return r
}
