// Package engine resolves drafts, scores rosters, picks a winner and computes
// the progression a match produces. It is pure: persistence lives in the
// service layer.
package engine

import (
	"fmt"
	"time"

	"arena-league/internal/domain"
	"arena-league/internal/hero"

	"github.com/rs/zerolog"
)

type Input struct {
	Match   domain.Match
	Home    domain.Roster
	Away    domain.Roster
	Players map[string]*domain.Player
	Catalog *hero.Catalog
}

type Outcome struct {
	Picks              map[string]domain.Hero
	Home               RosterPerformance
	Away               RosterPerformance
	HomeWinProbability float64
	HomeWon            bool
	Result             domain.MatchResult

	// Progression
	HomeRoster domain.Roster
	AwayRoster domain.Roster
	Grants     []XPGrant
}

func (o *Outcome) WinnerID() string {
	if o.HomeWon {
		return o.Home.RosterID
	}
	return o.Away.RosterID
}

func (o *Outcome) LoserID() string {
	if o.HomeWon {
		return o.Away.RosterID
	}
	return o.Home.RosterID
}

type Simulator struct {
	rng    Source
	logger zerolog.Logger
}

func NewSimulator(rng Source, logger zerolog.Logger) *Simulator {
	return &Simulator{rng: rng, logger: logger}
}

// Run plays a match end to end. Players in the input have their masteries
// updated in place.
func (s *Simulator) Run(in Input, now time.Time) (*Outcome, error) {
	picks, err := ResolveDraft(in.Match, in.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve draft: %w", err)
	}

	homeTeam, err := Lineup(in.Match.HomePicks, in.Players, picks)
	if err != nil {
		return nil, err
	}
	awayTeam, err := Lineup(in.Match.AwayPicks, in.Players, picks)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Picks: picks}
	out.Home = ScoreRoster(in.Home, homeTeam, heroesOf(awayTeam))
	out.Away = ScoreRoster(in.Away, awayTeam, heroesOf(homeTeam))
	out.HomeWon, out.HomeWinProbability = DetermineWinner(out.Home, out.Away, s.rng)

	s.logger.Debug().
		Str("match_id", in.Match.ID).
		Str("home_total", out.Home.Total.String()).
		Str("away_total", out.Away.Total.String()).
		Float64("home_win_probability", out.HomeWinProbability).
		Bool("home_won", out.HomeWon).
		Msg("match decided")

	out.Result = domain.MatchResult{
		MatchID:        in.Match.ID,
		WinnerRosterID: out.WinnerID(),
		HomeTotal:      out.Home.Total,
		AwayTotal:      out.Away.Total,
		Players:        make(map[string]domain.PlayerStat, len(picks)),
		CreatedAt:      now,
	}
	for _, side := range []RosterPerformance{out.Home, out.Away} {
		for _, p := range side.Participants {
			out.Result.Players[p.Player.ID] = domain.PlayerStat{
				Performance: p.Score,
				HeroID:      p.Hero.ID,
				Role:        p.Role,
			}
		}
	}

	homeGrants, err := GrantExperience(out.Home, out.HomeWon)
	if err != nil {
		return nil, err
	}
	awayGrants, err := GrantExperience(out.Away, !out.HomeWon)
	if err != nil {
		return nil, err
	}
	out.Grants = append(homeGrants, awayGrants...)
	out.HomeRoster = ApplyVitals(in.Home, out.Home, out.HomeWon)
	out.AwayRoster = ApplyVitals(in.Away, out.Away, !out.HomeWon)

	return out, nil
}

func heroesOf(team []Participant) []domain.Hero {
	out := make([]domain.Hero, len(team))
	for i, p := range team {
		out[i] = p.Hero
	}
	return out
}
