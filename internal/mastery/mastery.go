// Package mastery maps cumulative experience to mastery levels.
package mastery

import (
	"fmt"

	"arena-league/internal/domain"
)

// ExperienceTable holds the cumulative experience needed for levels 1 through 30.
var ExperienceTable = [...]int64{
	0,
	150, 350, 650, 1050, 1500,
	2500, 4000, 6000, 8500, 11500, 15000,
	21000, 29000, 40000, 55000, 75000, 100000,
	135000, 180000, 240000, 320000, 420000, 550000, 750000,
	1000000, 1350000, 1800000, 2400000, 3500000,
}

const MaxLevel = len(ExperienceTable)

func Level(totalExperience int64) int {
	level := 1
	for i := 1; i < len(ExperienceTable); i++ {
		if totalExperience < ExperienceTable[i] {
			break
		}
		level = i + 1
	}
	return level
}

func AddExperience(m *domain.Mastery, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative experience %d", domain.ErrValidation, amount)
	}
	m.Experience += amount
	m.Level = Level(m.Experience)
	return nil
}

func New() domain.Mastery {
	return domain.Mastery{Level: 1, Experience: 0}
}

// AddRoleExperience grows the player's track for role, creating it if the row is missing.
func AddRoleExperience(p *domain.Player, role domain.Role, amount int64) (domain.Mastery, error) {
	if p.RoleMasteries == nil {
		p.RoleMasteries = make(map[domain.Role]domain.Mastery)
	}
	m, ok := p.RoleMasteries[role]
	if !ok {
		m = New()
	}
	if err := AddExperience(&m, amount); err != nil {
		return m, err
	}
	p.RoleMasteries[role] = m
	return m, nil
}

// AddHeroExperience grows the player's track for heroID, starting at level 1 on first use.
func AddHeroExperience(p *domain.Player, heroID string, amount int64) (domain.Mastery, error) {
	if p.HeroMasteries == nil {
		p.HeroMasteries = make(map[string]domain.Mastery)
	}
	m, ok := p.HeroMasteries[heroID]
	if !ok {
		m = New()
	}
	if err := AddExperience(&m, amount); err != nil {
		return m, err
	}
	p.HeroMasteries[heroID] = m
	return m, nil
}
