package engine

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"arena-league/internal/domain"
	"arena-league/internal/hero"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// tankCatalog holds two A tier tanks per role. Tanks neither counter nor
// synergize with each other, so roster totals equal the base sum.
func tankCatalog() *hero.Catalog {
	var heroes []domain.Hero
	for _, r := range domain.Roles {
		for i := 1; i <= 2; i++ {
			heroes = append(heroes, domain.Hero{
				ID:          fmt.Sprintf("%s-%d", r, i),
				Name:        fmt.Sprintf("%s %d", r, i),
				PrimaryRole: r,
				PrimaryTier: domain.TierA,
				Archetype:   domain.ArchetypeTank,
			})
		}
	}
	return hero.NewCatalog(heroes)
}

func newPlayer(id string, traits ...domain.Trait) *domain.Player {
	p := &domain.Player{
		ID:            id,
		Traits:        traits,
		RoleMasteries: map[domain.Role]domain.Mastery{},
		HeroMasteries: map[string]domain.Mastery{},
	}
	for _, r := range domain.Roles {
		p.RoleMasteries[r] = domain.Mastery{Level: 1}
	}
	return p
}

func newRoster(id string) domain.Roster {
	return domain.Roster{
		ID:       id,
		Cohesion: decimal.Zero,
		Morale:   dec("5.00"),
		Energy:   100,
		Activity: domain.ActivityInEvent,
	}
}

type fixture struct {
	input   Input
	players map[string]*domain.Player
}

// evenMatch builds a 5v5 where every player sits on an A tier primary role.
func evenMatch(homeTraits, awayTraits []domain.Trait) fixture {
	players := map[string]*domain.Player{}
	m := domain.Match{ID: "m1", HomeRosterID: "home", AwayRosterID: "away", Status: domain.MatchScheduled}

	for i, r := range domain.Roles {
		h := newPlayer(fmt.Sprintf("h%d", i), homeTraits...)
		a := newPlayer(fmt.Sprintf("a%d", i), awayTraits...)
		players[h.ID], players[a.ID] = h, a

		m.HomePicks = append(m.HomePicks, domain.PickIntention{
			PlayerID: h.ID, Role: r, PreferredHeroIDs: []string{fmt.Sprintf("%s-1", r)}, PickOrder: i * 2,
		})
		m.AwayPicks = append(m.AwayPicks, domain.PickIntention{
			PlayerID: a.ID, Role: r, PreferredHeroIDs: []string{fmt.Sprintf("%s-1", r)}, PickOrder: i*2 + 1,
		})
	}

	return fixture{
		input: Input{
			Match:   m,
			Home:    newRoster("home"),
			Away:    newRoster("away"),
			Players: players,
			Catalog: tankCatalog(),
		},
		players: players,
	}
}

func TestResolveDraft(t *testing.T) {
	cat := tankCatalog()

	t.Run("shared pick order and fallback", func(t *testing.T) {
		m := domain.Match{
			HomeBans: []string{"MID-2"},
			HomePicks: []domain.PickIntention{
				{PlayerID: "h-mid", Role: domain.RoleMid, PreferredHeroIDs: []string{"MID-1"}, PickOrder: 2},
			},
			AwayPicks: []domain.PickIntention{
				{PlayerID: "a-mid", Role: domain.RoleMid, PreferredHeroIDs: []string{"MID-1"}, PickOrder: 1},
			},
		}
		_, err := ResolveDraft(m, cat)
		require.Error(t, err, "both mid heroes gone once away takes MID-1 and MID-2 is banned")
		assert.True(t, errors.Is(err, domain.ErrIntegrity))
	})

	t.Run("earlier pick order wins contested hero", func(t *testing.T) {
		m := domain.Match{
			HomePicks: []domain.PickIntention{
				{PlayerID: "h", Role: domain.RoleTop, PreferredHeroIDs: []string{"TOP-1"}, PickOrder: 2},
			},
			AwayPicks: []domain.PickIntention{
				{PlayerID: "a", Role: domain.RoleTop, PreferredHeroIDs: []string{"TOP-1"}, PickOrder: 1},
			},
		}
		picks, err := ResolveDraft(m, cat)
		require.NoError(t, err)
		assert.Equal(t, "TOP-1", picks["a"].ID)
		assert.Equal(t, "TOP-2", picks["h"].ID)
	})

	t.Run("ties keep home first", func(t *testing.T) {
		m := domain.Match{
			HomePicks: []domain.PickIntention{
				{PlayerID: "h", Role: domain.RoleTop, PreferredHeroIDs: []string{"TOP-2"}, PickOrder: 1},
			},
			AwayPicks: []domain.PickIntention{
				{PlayerID: "a", Role: domain.RoleTop, PreferredHeroIDs: []string{"TOP-2"}, PickOrder: 1},
			},
		}
		picks, err := ResolveDraft(m, cat)
		require.NoError(t, err)
		assert.Equal(t, "TOP-2", picks["h"].ID)
		assert.Equal(t, "TOP-1", picks["a"].ID)
	})

	t.Run("preferences skip banned and unknown", func(t *testing.T) {
		m := domain.Match{
			AwayBans: []string{"CARRY-1"},
			HomePicks: []domain.PickIntention{
				{PlayerID: "h", Role: domain.RoleCarry, PreferredHeroIDs: []string{"CARRY-1", "ghost", "CARRY-2"}, PickOrder: 1},
			},
		}
		picks, err := ResolveDraft(m, cat)
		require.NoError(t, err)
		assert.Equal(t, "CARRY-2", picks["h"].ID)
	})

	t.Run("only three preferences are read", func(t *testing.T) {
		m := domain.Match{
			HomeBans: []string{"JUNGLE-2"},
			HomePicks: []domain.PickIntention{
				{PlayerID: "h", Role: domain.RoleJungle, PreferredHeroIDs: []string{"JUNGLE-2", "x", "y", "TOP-1"}, PickOrder: 1},
			},
		}
		picks, err := ResolveDraft(m, cat)
		require.NoError(t, err)
		assert.Equal(t, "JUNGLE-1", picks["h"].ID)
	})

	t.Run("heroes are exclusive", func(t *testing.T) {
		f := evenMatch(nil, nil)
		picks, err := ResolveDraft(f.input.Match, cat)
		require.NoError(t, err)
		require.Len(t, picks, 10)

		seen := map[string]bool{}
		for _, h := range picks {
			assert.False(t, seen[h.ID], "hero %s assigned twice", h.ID)
			seen[h.ID] = true
		}
	})
}

func TestPlayerPerformance(t *testing.T) {
	luxana := domain.Hero{ID: "lux", PrimaryRole: domain.RoleMid, PrimaryTier: domain.TierS, SecondaryRole: domain.RoleSupport, SecondaryTier: domain.TierB}

	tests := []struct {
		name   string
		player *domain.Player
		role   domain.Role
		want   string
	}{
		{name: "level one on primary S", player: newPlayer("p"), role: domain.RoleMid, want: "1.08"},
		{name: "secondary role", player: newPlayer("p"), role: domain.RoleSupport, want: "0.80"},
		{name: "off role", player: newPlayer("p"), role: domain.RoleTop, want: "0.46"},
		{name: "lone wolf bonus", player: newPlayer("p", domain.TraitLoneWolf), role: domain.RoleMid, want: "1.19"},
		{name: "missing role mastery", player: &domain.Player{ID: "p"}, role: domain.RoleMid, want: "0.48"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlayerPerformance(tt.player, luxana, tt.role)
			assert.True(t, got.Equal(dec(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestScoreRosterBonuses(t *testing.T) {
	r := newRoster("r")
	r.Cohesion = dec("5.00")
	r.Morale = dec("10.00")

	team := []Participant{
		{Player: newPlayer("p1"), Hero: domain.Hero{Archetype: domain.ArchetypeTank}, Score: dec("1.00")},
		{Player: newPlayer("p2"), Hero: domain.Hero{Archetype: domain.ArchetypeMarksman}, Score: dec("1.00")},
	}
	opponents := []domain.Hero{{Archetype: domain.ArchetypeAssassin}, {Archetype: domain.ArchetypeEnchanter}}

	rp := ScoreRoster(r, team, opponents)

	// tank counters assassin, marksman counters enchanter
	assert.Equal(t, 2, rp.CounterPairs)
	assert.Equal(t, 1, rp.SynergyPairs)
	assert.True(t, rp.CohesionMultiplier.Equal(dec("1.05")))
	assert.True(t, rp.MoraleMultiplier.Equal(dec("1.1")))
	// (2 + 10 + 3) * 1.05 * 1.1
	assert.True(t, rp.Total.Equal(dec("17.325")), "got %s", rp.Total)
}

func TestHomeWinProbability(t *testing.T) {
	side := func(total string, clutch bool) RosterPerformance {
		return RosterPerformance{Total: dec(total), HasClutch: clutch}
	}

	tests := []struct {
		name    string
		home    RosterPerformance
		away    RosterPerformance
		want    float64
		decided bool
	}{
		{name: "even", home: side("5", false), away: side("5", false), want: 0.5},
		{name: "home clutch in window", home: side("5", true), away: side("5", false), want: 0.7},
		{name: "away clutch in window", home: side("5", false), away: side("5", true), want: 0.3},
		{name: "both clutch cancel", home: side("5", true), away: side("5", true), want: 0.5},
		{name: "clutch outside window", home: side("6", false), away: side("4", true), want: 0.6},
		{name: "clamped high", home: side("100", false), away: side("0", false), want: MaxWinProbability},
		{name: "clamped low", home: side("0", false), away: side("100", false), want: MinWinProbability},
		{name: "clutch near even", home: side("5.1", true), away: side("4.9", false), want: 0.71},
		{name: "zero total", home: side("0", false), away: side("0", false), want: MaxWinProbability, decided: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, decided := HomeWinProbability(tt.home, tt.away)
			assert.InDelta(t, tt.want, p, 1e-9)
			assert.Equal(t, tt.decided, decided)
			assert.GreaterOrEqual(t, p, MinWinProbability)
			assert.LessOrEqual(t, p, MaxWinProbability)
		})
	}
}

func TestDetermineWinnerDrawsOnce(t *testing.T) {
	even := RosterPerformance{Total: dec("5")}

	src := &CountingSource{Source: FixedSource(0.49)}
	homeWins, _ := DetermineWinner(even, even, src)
	assert.True(t, homeWins)
	assert.Equal(t, 1, src.Draws())

	src = &CountingSource{Source: FixedSource(0.5)}
	homeWins, _ = DetermineWinner(even, even, src)
	assert.False(t, homeWins, "draw equal to p goes to away")

	zero := RosterPerformance{Total: decimal.Zero}
	src = &CountingSource{Source: FixedSource(0.99)}
	homeWins, _ = DetermineWinner(zero, zero, src)
	assert.True(t, homeWins)
	assert.Equal(t, 0, src.Draws())
}

func TestSimulatorRunEvenMatch(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("home wins on low draw", func(t *testing.T) {
		f := evenMatch(nil, nil)
		sim := NewSimulator(FixedSource(0.3), zerolog.Nop())

		out, err := sim.Run(f.input, now)
		require.NoError(t, err)

		assert.True(t, out.Home.Total.Equal(dec("5.00")), "home %s", out.Home.Total)
		assert.True(t, out.Away.Total.Equal(dec("5.00")), "away %s", out.Away.Total)
		assert.InDelta(t, 0.5, out.HomeWinProbability, 1e-9)
		assert.True(t, out.HomeWon)
		assert.Equal(t, "home", out.Result.WinnerRosterID)
		assert.Equal(t, now, out.Result.CreatedAt)
		require.Len(t, out.Result.Players, 10)
		for id, stat := range out.Result.Players {
			assert.True(t, stat.Performance.Equal(dec("1.00")), "player %s scored %s", id, stat.Performance)
		}
	})

	t.Run("away wins on high draw", func(t *testing.T) {
		f := evenMatch(nil, nil)
		out, err := NewSimulator(FixedSource(0.7), zerolog.Nop()).Run(f.input, now)
		require.NoError(t, err)
		assert.False(t, out.HomeWon)
		assert.Equal(t, "away", out.WinnerID())
		assert.Equal(t, "home", out.LoserID())
	})

	t.Run("draw between p and clutch shifted p", func(t *testing.T) {
		withClutch := evenMatch([]domain.Trait{domain.TraitClutchFactor}, nil)
		out, err := NewSimulator(FixedSource(0.6), zerolog.Nop()).Run(withClutch.input, now)
		require.NoError(t, err)
		assert.InDelta(t, 0.7, out.HomeWinProbability, 1e-9)
		assert.True(t, out.HomeWon)

		both := evenMatch([]domain.Trait{domain.TraitClutchFactor}, []domain.Trait{domain.TraitClutchFactor})
		out, err = NewSimulator(FixedSource(0.6), zerolog.Nop()).Run(both.input, now)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, out.HomeWinProbability, 1e-9)
		assert.False(t, out.HomeWon)
	})

	t.Run("missing player is an integrity error", func(t *testing.T) {
		f := evenMatch(nil, nil)
		delete(f.input.Players, "a3")
		_, err := NewSimulator(FixedSource(0.3), zerolog.Nop()).Run(f.input, now)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrIntegrity))
	})
}

func TestSimulatorProgression(t *testing.T) {
	now := time.Now().UTC()
	f := evenMatch(nil, []domain.Trait{domain.TraitAdaptive})

	out, err := NewSimulator(FixedSource(0.1), zerolog.Nop()).Run(f.input, now)
	require.NoError(t, err)
	require.True(t, out.HomeWon)
	require.Len(t, out.Grants, 10)

	for _, g := range out.Grants {
		if g.PlayerID[0] == 'h' {
			assert.Equal(t, int64(100), g.RoleXP)
			assert.Equal(t, int64(100), g.HeroXP)
		} else {
			assert.Equal(t, int64(150), g.RoleXP)
			assert.Equal(t, int64(225), g.HeroXP, "adaptive loser gets 1.5x hero experience")
		}
	}

	h0 := f.players["h0"]
	assert.Equal(t, int64(100), h0.RoleMasteries[domain.RoleTop].Experience)
	assert.Equal(t, 1, h0.RoleMasteries[domain.RoleTop].Level)
	a0 := f.players["a0"]
	assert.Equal(t, 2, a0.RoleMasteries[domain.RoleTop].Level, "150 experience reaches level 2")
	assert.Equal(t, int64(225), a0.HeroMasteries["TOP-2"].Experience)

	assert.True(t, out.HomeRoster.Morale.Equal(dec("5.5")))
	assert.True(t, out.HomeRoster.Cohesion.Equal(dec("0.2")))
	assert.Equal(t, 85, out.HomeRoster.Energy)
	assert.True(t, out.AwayRoster.Morale.Equal(dec("4.5")))
	assert.True(t, out.AwayRoster.Cohesion.Equal(dec("0.1")))
}

func TestApplyVitals(t *testing.T) {
	side := func(traits ...domain.Trait) RosterPerformance {
		return RosterPerformance{Participants: []Participant{
			{Player: newPlayer("p1", traits...)},
			{Player: newPlayer("p2", traits...)},
		}}
	}

	tests := []struct {
		name     string
		roster   domain.Roster
		side     RosterPerformance
		won      bool
		morale   string
		cohesion string
		energy   int
	}{
		{name: "leader win", roster: newRoster("r"), side: side(domain.TraitLeader), won: true, morale: "5.75", cohesion: "0.2", energy: 85},
		{name: "leader loss", roster: newRoster("r"), side: side(domain.TraitLeader), won: false, morale: "4.75", cohesion: "0.1", energy: 85},
		{name: "team players", roster: newRoster("r"), side: side(domain.TraitTeamPlayer), won: true, morale: "5.5", cohesion: "0.3", energy: 85},
		{name: "lone wolves floor at zero", roster: newRoster("r"), side: side(domain.TraitLoneWolf), won: false, morale: "4.5", cohesion: "0", energy: 85},
		{name: "workaholics", roster: newRoster("r"), side: side(domain.TraitWorkaholic), won: true, morale: "5.5", cohesion: "0.2", energy: 87},
		{
			name:   "caps and floors",
			roster: domain.Roster{Cohesion: dec("9.9"), Morale: dec("9.8"), Energy: 4},
			side:   side(), won: true, morale: "10", cohesion: "10", energy: 0,
		},
		{
			name:   "morale floor",
			roster: domain.Roster{Cohesion: decimal.Zero, Morale: dec("0.2"), Energy: 20},
			side:   side(), won: false, morale: "0", cohesion: "0.1", energy: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyVitals(tt.roster, tt.side, tt.won)
			assert.True(t, got.Morale.Equal(dec(tt.morale)), "morale %s", got.Morale)
			assert.True(t, got.Cohesion.Equal(dec(tt.cohesion)), "cohesion %s", got.Cohesion)
			assert.Equal(t, tt.energy, got.Energy)
		})
	}
}

func TestApplyVitalsStaysInRangeAcrossStreaks(t *testing.T) {
	side := func(traits ...domain.Trait) RosterPerformance {
		return RosterPerformance{Participants: []Participant{
			{Player: newPlayer("p1", traits...)},
			{Player: newPlayer("p2", traits...)},
		}}
	}
	inRange := func(t *testing.T, r domain.Roster, step string) {
		t.Helper()
		for name, v := range map[string]decimal.Decimal{"morale": r.Morale, "cohesion": r.Cohesion} {
			assert.True(t, v.GreaterThanOrEqual(decimal.Zero) && v.LessThanOrEqual(dec("10")), "%s %s after %s", name, v, step)
		}
		assert.GreaterOrEqual(t, r.Energy, 0, step)
	}

	captains := side(domain.TraitLeader, domain.TraitTeamPlayer)
	r := newRoster("r")
	for i := range 50 {
		r = ApplyVitals(r, captains, true)
		inRange(t, r, fmt.Sprintf("win %d", i+1))
	}
	assert.True(t, r.Morale.Equal(dec("10")), "morale %s", r.Morale)
	assert.True(t, r.Cohesion.Equal(dec("10")), "cohesion %s", r.Cohesion)

	for i := range 50 {
		r = ApplyVitals(r, captains, false)
		inRange(t, r, fmt.Sprintf("loss %d", i+1))
	}
	assert.True(t, r.Morale.IsZero(), "morale %s", r.Morale)
	assert.True(t, r.Cohesion.Equal(dec("10")), "team players keep cohesion up while losing")

	wolves := side(domain.TraitLoneWolf)
	for i := range 120 {
		r = ApplyVitals(r, wolves, false)
		inRange(t, r, fmt.Sprintf("lone wolf loss %d", i+1))
	}
	assert.True(t, r.Cohesion.IsZero(), "cohesion %s", r.Cohesion)
	assert.Zero(t, r.Energy)
}

func TestNewSourceIsDeterministic(t *testing.T) {
	a, b := NewSource(42), NewSource(42)
	for i := 0; i < 10; i++ {
		v := a.Float64()
		assert.Equal(t, v, b.Float64())
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}
