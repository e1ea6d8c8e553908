// Package hero holds the hero compatibility rules and the seed catalog.
package hero

import (
	"slices"

	"arena-league/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	EfficiencyPrimary   = decimal.RequireFromString("1.00")
	EfficiencySecondary = decimal.RequireFromString("0.80")
	EfficiencyOffRole   = decimal.RequireFromString("0.10")
	NeutralMultiplier   = decimal.RequireFromString("1.00")
)

var tierMultipliers = map[domain.Tier]decimal.Decimal{
	domain.TierS: decimal.RequireFromString("1.20"),
	domain.TierA: decimal.RequireFromString("1.00"),
	domain.TierB: decimal.RequireFromString("0.80"),
	domain.TierC: decimal.RequireFromString("0.60"),
	domain.TierD: decimal.RequireFromString("0.30"),
}

func TierMultiplier(t domain.Tier) decimal.Decimal {
	if m, ok := tierMultipliers[t]; ok {
		return m
	}
	return NeutralMultiplier
}

func EfficiencyForRole(h domain.Hero, r domain.Role) decimal.Decimal {
	switch {
	case h.PrimaryRole == r:
		return EfficiencyPrimary
	case h.SecondaryRole != "" && h.SecondaryRole == r:
		return EfficiencySecondary
	default:
		return EfficiencyOffRole
	}
}

func MultiplierForRole(h domain.Hero, r domain.Role) decimal.Decimal {
	switch {
	case h.PrimaryRole == r:
		return TierMultiplier(h.PrimaryTier)
	case h.SecondaryRole != "" && h.SecondaryRole == r && h.SecondaryTier != "":
		return TierMultiplier(h.SecondaryTier)
	default:
		return NeutralMultiplier
	}
}

var counters = map[domain.Archetype][]domain.Archetype{
	domain.ArchetypeTank:      {domain.ArchetypeAssassin, domain.ArchetypeMarksman},
	domain.ArchetypeBruiser:   {domain.ArchetypeTank, domain.ArchetypeMarksman},
	domain.ArchetypeAssassin:  {domain.ArchetypeMage, domain.ArchetypeEnchanter},
	domain.ArchetypeMage:      {domain.ArchetypeBruiser, domain.ArchetypeTank},
	domain.ArchetypeMarksman:  {domain.ArchetypeBruiser, domain.ArchetypeEnchanter},
	domain.ArchetypeEnchanter: {domain.ArchetypeAssassin, domain.ArchetypeMage},
}

var synergies = map[domain.Archetype][]domain.Archetype{
	domain.ArchetypeTank:      {domain.ArchetypeMarksman, domain.ArchetypeMage},
	domain.ArchetypeBruiser:   {domain.ArchetypeAssassin, domain.ArchetypeEnchanter},
	domain.ArchetypeAssassin:  {domain.ArchetypeBruiser, domain.ArchetypeMage},
	domain.ArchetypeMage:      {domain.ArchetypeTank, domain.ArchetypeEnchanter},
	domain.ArchetypeMarksman:  {domain.ArchetypeEnchanter, domain.ArchetypeTank},
	domain.ArchetypeEnchanter: {domain.ArchetypeMarksman, domain.ArchetypeBruiser},
}

// Counters reports whether a counters b. The relation is directed.
func Counters(a, b domain.Archetype) bool {
	return slices.Contains(counters[a], b)
}

// SynergizesWith reports whether a synergizes with b. The relation is directed.
func SynergizesWith(a, b domain.Archetype) bool {
	return slices.Contains(synergies[a], b)
}
