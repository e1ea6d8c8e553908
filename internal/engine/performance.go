package engine

import (
	"fmt"

	"arena-league/internal/domain"
	"arena-league/internal/hero"

	"github.com/shopspring/decimal"
)

var (
	roleWeight    = decimal.RequireFromString("0.60")
	heroWeight    = decimal.RequireFromString("0.40")
	loneWolfBonus = decimal.RequireFromString("1.10")
	counterBonus  = decimal.RequireFromString("5.00")
	synergyBonus  = decimal.RequireFromString("3.00")
	moraleNeutral = decimal.RequireFromString("5.0")
	hundred       = decimal.NewFromInt(100)
	fifty         = decimal.NewFromInt(50)
)

// PlayerPerformance scores a player on a hero in a role, rounded to 2 dp.
func PlayerPerformance(p *domain.Player, h domain.Hero, r domain.Role) decimal.Decimal {
	efficiency := decimal.NewFromInt(int64(p.RoleLevel(r))).Mul(hero.EfficiencyForRole(h, r))
	heroFactor := decimal.NewFromInt(int64(p.HeroLevel(h.ID))).Mul(hero.MultiplierForRole(h, r))

	perf := efficiency.Mul(roleWeight).Add(heroFactor.Mul(heroWeight))
	if p.HasTrait(domain.TraitLoneWolf) {
		perf = perf.Mul(loneWolfBonus)
	}
	return perf.Round(2)
}

type Participant struct {
	Player *domain.Player
	Hero   domain.Hero
	Role   domain.Role
	Score  decimal.Decimal
}

// RosterPerformance is one side's score breakdown.
type RosterPerformance struct {
	RosterID           string
	Participants       []Participant
	Base               decimal.Decimal
	CounterPairs       int
	SynergyPairs       int
	CohesionMultiplier decimal.Decimal
	MoraleMultiplier   decimal.Decimal
	Total              decimal.Decimal
	HasClutch          bool
}

func (rp RosterPerformance) Has(t domain.Trait) bool {
	for _, p := range rp.Participants {
		if p.Player.HasTrait(t) {
			return true
		}
	}
	return false
}

func (rp RosterPerformance) Count(t domain.Trait) int {
	n := 0
	for _, p := range rp.Participants {
		if p.Player.HasTrait(t) {
			n++
		}
	}
	return n
}

// Lineup builds the participants of one side from its pick intentions and the resolved draft.
func Lineup(intents []domain.PickIntention, players map[string]*domain.Player, picks map[string]domain.Hero) ([]Participant, error) {
	out := make([]Participant, 0, len(intents))
	for _, intent := range intents {
		p, ok := players[intent.PlayerID]
		if !ok {
			return nil, fmt.Errorf("%w: player %s of the draft is missing", domain.ErrIntegrity, intent.PlayerID)
		}
		h, ok := picks[intent.PlayerID]
		if !ok {
			return nil, fmt.Errorf("%w: player %s has no hero assigned", domain.ErrIntegrity, intent.PlayerID)
		}
		out = append(out, Participant{
			Player: p,
			Hero:   h,
			Role:   intent.Role,
			Score:  PlayerPerformance(p, h, intent.Role),
		})
	}
	return out, nil
}

// ScoreRoster combines individual scores with draft bonuses and the roster vitals.
func ScoreRoster(r domain.Roster, team []Participant, opponents []domain.Hero) RosterPerformance {
	rp := RosterPerformance{
		RosterID:     r.ID,
		Participants: team,
		Base:         decimal.Zero,
	}

	for _, p := range team {
		rp.Base = rp.Base.Add(p.Score)
		if p.Player.HasTrait(domain.TraitClutchFactor) {
			rp.HasClutch = true
		}
		for _, o := range opponents {
			if hero.Counters(p.Hero.Archetype, o.Archetype) {
				rp.CounterPairs++
			}
		}
	}

	for i := 0; i < len(team); i++ {
		for j := i + 1; j < len(team); j++ {
			a, b := team[i].Hero.Archetype, team[j].Hero.Archetype
			if hero.SynergizesWith(a, b) || hero.SynergizesWith(b, a) {
				rp.SynergyPairs++
			}
		}
	}

	rp.CohesionMultiplier = decimal.NewFromInt(1).Add(r.Cohesion.DivRound(hundred, 4))
	rp.MoraleMultiplier = decimal.NewFromInt(1).Add(r.Morale.Sub(moraleNeutral).DivRound(fifty, 4))

	raw := rp.Base.
		Add(counterBonus.Mul(decimal.NewFromInt(int64(rp.CounterPairs)))).
		Add(synergyBonus.Mul(decimal.NewFromInt(int64(rp.SynergyPairs))))
	rp.Total = raw.Mul(rp.CohesionMultiplier).Mul(rp.MoraleMultiplier)
	return rp
}
