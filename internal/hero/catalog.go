package hero

import (
	"sort"

	"arena-league/internal/domain"
)

// Catalog is a read-only view of the hero pool. Iteration order is by name then id.
type Catalog struct {
	heroes []domain.Hero
	byID   map[string]int
}

func NewCatalog(heroes []domain.Hero) *Catalog {
	sorted := make([]domain.Hero, len(heroes))
	copy(sorted, heroes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID < sorted[j].ID
	})

	byID := make(map[string]int, len(sorted))
	for i, h := range sorted {
		byID[h.ID] = i
	}
	return &Catalog{heroes: sorted, byID: byID}
}

func (c *Catalog) Len() int {
	return len(c.heroes)
}

func (c *Catalog) All() []domain.Hero {
	out := make([]domain.Hero, len(c.heroes))
	copy(out, c.heroes)
	return out
}

func (c *Catalog) ByID(id string) (domain.Hero, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Hero{}, false
	}
	return c.heroes[i], true
}

func (c *Catalog) Contains(id string) bool {
	_, ok := c.byID[id]
	return ok
}

func (c *Catalog) ForRole(r domain.Role) []domain.Hero {
	var out []domain.Hero
	for _, h := range c.heroes {
		if h.PlaysRole(r) {
			out = append(out, h)
		}
	}
	return out
}

// BestForRole picks the available hero playing r with the best primary tier.
// The first hero in catalog order wins ties.
func (c *Catalog) BestForRole(r domain.Role, unavailable map[string]bool) (domain.Hero, bool) {
	var best domain.Hero
	found := false
	for _, h := range c.heroes {
		if unavailable[h.ID] || !h.PlaysRole(r) {
			continue
		}
		if !found || h.PrimaryTier.Ordinal() < best.PrimaryTier.Ordinal() {
			best = h
			found = true
		}
	}
	return best, found
}

func seed(name string, pr domain.Role, pt domain.Tier, sr domain.Role, st domain.Tier, arch domain.Archetype) domain.Hero {
	return domain.Hero{
		Name:          name,
		PrimaryRole:   pr,
		PrimaryTier:   pt,
		SecondaryRole: sr,
		SecondaryTier: st,
		Archetype:     arch,
		PictureURL:    "https://api.dicebear.com/7.x/pixel-art/svg?seed=" + name,
	}
}

// Seeds is the default hero pool. Ids are assigned on insert.
func Seeds() []domain.Hero {
	return []domain.Hero{
		seed("Luxana", domain.RoleMid, domain.TierS, domain.RoleSupport, domain.TierB, domain.ArchetypeMage),
		seed("Ignis", domain.RoleMid, domain.TierA, "", "", domain.ArchetypeMage),
		seed("Vortex", domain.RoleMid, domain.TierS, domain.RoleJungle, domain.TierC, domain.ArchetypeAssassin),
		seed("Aurelia", domain.RoleMid, domain.TierA, "", "", domain.ArchetypeMage),
		seed("Zenith", domain.RoleMid, domain.TierB, "", "", domain.ArchetypeMage),

		seed("Storm Spirit", domain.RoleJungle, domain.TierS, domain.RoleTop, domain.TierD, domain.ArchetypeAssassin),
		seed("Shadow", domain.RoleJungle, domain.TierA, "", "", domain.ArchetypeAssassin),
		seed("Fenris", domain.RoleJungle, domain.TierS, domain.RoleTop, domain.TierB, domain.ArchetypeBruiser),
		seed("Kraken", domain.RoleJungle, domain.TierB, domain.RoleSupport, domain.TierD, domain.ArchetypeTank),
		seed("Rengar", domain.RoleJungle, domain.TierA, domain.RoleTop, domain.TierC, domain.ArchetypeAssassin),

		seed("Vail", domain.RoleCarry, domain.TierS, "", "", domain.ArchetypeMarksman),
		seed("Bolt", domain.RoleCarry, domain.TierB, "", "", domain.ArchetypeMarksman),
		seed("Cinder", domain.RoleCarry, domain.TierA, domain.RoleMid, domain.TierC, domain.ArchetypeMarksman),
		seed("Riptide", domain.RoleCarry, domain.TierS, "", "", domain.ArchetypeMarksman),
		seed("Jinx", domain.RoleCarry, domain.TierB, "", "", domain.ArchetypeMarksman),

		seed("IronClad", domain.RoleTop, domain.TierA, domain.RoleJungle, domain.TierB, domain.ArchetypeTank),
		seed("Goliath", domain.RoleTop, domain.TierS, "", "", domain.ArchetypeBruiser),
		seed("Atlas", domain.RoleTop, domain.TierA, domain.RoleSupport, domain.TierB, domain.ArchetypeTank),
		seed("Katarina", domain.RoleTop, domain.TierS, domain.RoleMid, domain.TierC, domain.ArchetypeAssassin),

		seed("Seraphina", domain.RoleSupport, domain.TierS, "", "", domain.ArchetypeEnchanter),
		seed("Thorn", domain.RoleSupport, domain.TierA, domain.RoleTop, domain.TierD, domain.ArchetypeTank),
		seed("Echo", domain.RoleSupport, domain.TierB, domain.RoleMid, domain.TierD, domain.ArchetypeEnchanter),
	}
}
