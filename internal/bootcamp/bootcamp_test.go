package bootcamp

import (
	"errors"
	"testing"
	"time"

	"arena-league/internal/domain"
	"arena-league/internal/hero"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func player(id string, roleLevel int, traits ...domain.Trait) *domain.Player {
	p := &domain.Player{ID: id, Traits: traits, RoleMasteries: map[domain.Role]domain.Mastery{}}
	for _, r := range domain.Roles {
		p.RoleMasteries[r] = domain.Mastery{Level: roleLevel}
	}
	return p
}

func roster(energy int, players ...*domain.Player) (domain.Roster, map[string]*domain.Player) {
	r := domain.Roster{ID: "r1", Cohesion: decimal.RequireFromString("1.0"), Morale: decimal.RequireFromString("5"), Energy: energy, Activity: domain.ActivityBootcamp}
	byID := map[string]*domain.Player{}
	for _, p := range players {
		r.PlayerIDs = append(r.PlayerIDs, p.ID)
		byID[p.ID] = p
	}
	return r, byID
}

func TestStrength(t *testing.T) {
	assert.Equal(t, 0.0, Strength(nil))
	assert.Equal(t, 1.0, Strength([]*domain.Player{{ID: "empty"}}), "missing tracks count as level 1")

	p := player("p", 3)
	p.HeroMasteries = map[string]domain.Mastery{"h1": {Level: 2}, "h2": {Level: 6}}
	assert.Equal(t, 4.5, Strength([]*domain.Player{p}))
	assert.Equal(t, 2.75, Strength([]*domain.Player{p, player("q", 1)}))
}

func TestTick(t *testing.T) {
	// role level 3 and no hero tracks yields strength 2
	p1 := player("p1", 3)
	p2 := player("p2", 3, domain.TraitAdaptive)
	r, players := roster(50, p1, p2)

	session := domain.BootcampSession{
		RosterID: r.ID,
		Configs: []domain.TrainingConfig{
			{PlayerID: "p1", TargetRole: domain.RoleMid, PrimaryHeroID: "lux", SecondaryHeroIDs: []string{"ign", "aur"}},
			{PlayerID: "p2", TargetRole: domain.RoleTop, PrimaryHeroID: "gol", SecondaryHeroIDs: []string{"atl"}},
		},
	}

	res, err := Tick(session, r, players)
	require.NoError(t, err)

	assert.False(t, res.Stopped)
	assert.Equal(t, 2.0, res.Strength)
	assert.Equal(t, 40, res.Roster.Energy)
	assert.True(t, res.Roster.Cohesion.Equal(decimal.RequireFromString("1.1")))

	gained := map[string]int64{}
	for _, u := range res.Updates {
		key := u.PlayerID + "/" + string(u.Role) + u.HeroID
		gained[key] = u.Gained
	}
	assert.Equal(t, map[string]int64{
		"p1/MID": 100, "p1/lux": 200, "p1/ign": 100, "p1/aur": 100,
		"p2/TOP": 100, "p2/gol": 160, "p2/atl": 160,
	}, gained)

	assert.Equal(t, int64(100), p1.RoleMasteries[domain.RoleMid].Experience)
	assert.Equal(t, 2, p1.HeroMasteries["lux"].Level, "200 experience is past the 150 threshold")
}

func TestTickTraits(t *testing.T) {
	r, players := roster(30, player("a", 1, domain.TraitLeader), player("b", 1, domain.TraitWorkaholic), player("c", 1, domain.TraitWorkaholic))

	res, err := Tick(domain.BootcampSession{RosterID: r.ID}, r, players)
	require.NoError(t, err)

	assert.Equal(t, 22, res.Roster.Energy, "two workaholics shave two points off the cost")
	assert.True(t, res.Roster.Cohesion.Equal(decimal.RequireFromString("1.2")))

	r.Cohesion = decimal.RequireFromString("9.9")
	res, err = Tick(domain.BootcampSession{RosterID: r.ID}, r, players)
	require.NoError(t, err)
	assert.True(t, res.Roster.Cohesion.Equal(domain.StatMax))
}

func TestTickLowEnergyStops(t *testing.T) {
	p := player("p", 1)
	r, players := roster(EnergyCost-1, p)

	res, err := Tick(domain.BootcampSession{
		RosterID: r.ID,
		Configs:  []domain.TrainingConfig{{PlayerID: "p", TargetRole: domain.RoleMid}},
	}, r, players)
	require.NoError(t, err)

	assert.True(t, res.Stopped)
	assert.Empty(t, res.Updates)
	assert.Equal(t, EnergyCost-1, res.Roster.Energy)
	assert.Zero(t, p.RoleMasteries[domain.RoleMid].Experience)
}

func TestTickMissingPlayer(t *testing.T) {
	r, players := roster(50, player("p", 1))
	_, err := Tick(domain.BootcampSession{
		Configs: []domain.TrainingConfig{{PlayerID: "ghost", TargetRole: domain.RoleMid}},
	}, r, players)
	assert.True(t, errors.Is(err, domain.ErrIntegrity))
}

func TestValidateConfig(t *testing.T) {
	cat := hero.NewCatalog([]domain.Hero{
		{ID: "a", Name: "A", PrimaryRole: domain.RoleMid},
		{ID: "b", Name: "B", PrimaryRole: domain.RoleTop},
		{ID: "c", Name: "C", PrimaryRole: domain.RoleTop},
	})

	tests := []struct {
		name    string
		cfg     domain.TrainingConfig
		wantErr bool
	}{
		{name: "valid", cfg: domain.TrainingConfig{TargetRole: domain.RoleMid, PrimaryHeroID: "a", SecondaryHeroIDs: []string{"b", "c"}}},
		{name: "no heroes", cfg: domain.TrainingConfig{TargetRole: domain.RoleMid}},
		{name: "bad role", cfg: domain.TrainingConfig{TargetRole: "FEEDER"}, wantErr: true},
		{name: "duplicate secondary", cfg: domain.TrainingConfig{TargetRole: domain.RoleMid, PrimaryHeroID: "a", SecondaryHeroIDs: []string{"b", "b"}}, wantErr: true},
		{name: "secondary repeats primary", cfg: domain.TrainingConfig{TargetRole: domain.RoleMid, PrimaryHeroID: "a", SecondaryHeroIDs: []string{"a"}}, wantErr: true},
		{name: "too many secondaries", cfg: domain.TrainingConfig{TargetRole: domain.RoleMid, SecondaryHeroIDs: []string{"a", "b", "c"}}, wantErr: true},
		{name: "unknown hero", cfg: domain.TrainingConfig{TargetRole: domain.RoleMid, PrimaryHeroID: "zzz"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.cfg, cat)
			if tt.wantErr {
				assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDue(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, Due(domain.BootcampSession{LastTickAt: now.Add(-TickInterval)}, now))
	assert.True(t, Due(domain.BootcampSession{LastTickAt: now.Add(-7 * time.Hour)}, now))
	assert.False(t, Due(domain.BootcampSession{LastTickAt: now.Add(-5 * time.Hour)}, now))
}
