package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleTop     Role = "TOP"
	RoleJungle  Role = "JUNGLE"
	RoleMid     Role = "MID"
	RoleCarry   Role = "CARRY"
	RoleSupport Role = "SUPPORT"
)

var Roles = []Role{RoleTop, RoleJungle, RoleMid, RoleCarry, RoleSupport}

func (r Role) Valid() bool {
	return slices.Contains(Roles, r)
}

type Tier string

const (
	TierS Tier = "S"
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierD Tier = "D"
)

var tierOrder = []Tier{TierS, TierA, TierB, TierC, TierD}

// Ordinal is the meta rank of the tier, S being 0. Unknown tiers sort last.
func (t Tier) Ordinal() int {
	if i := slices.Index(tierOrder, t); i >= 0 {
		return i
	}
	return len(tierOrder)
}

type Archetype string

const (
	ArchetypeTank      Archetype = "TANK"
	ArchetypeBruiser   Archetype = "BRUISER"
	ArchetypeAssassin  Archetype = "ASSASSIN"
	ArchetypeMage      Archetype = "MAGE"
	ArchetypeMarksman  Archetype = "MARKSMAN"
	ArchetypeEnchanter Archetype = "ENCHANTER"
)

var Archetypes = []Archetype{
	ArchetypeTank, ArchetypeBruiser, ArchetypeAssassin,
	ArchetypeMage, ArchetypeMarksman, ArchetypeEnchanter,
}

type Hero struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	PrimaryRole   Role      `json:"primary_role"`
	PrimaryTier   Tier      `json:"primary_tier"`
	SecondaryRole Role      `json:"secondary_role,omitempty"` // empty when the hero has a single role
	SecondaryTier Tier      `json:"secondary_tier,omitempty"`
	Archetype     Archetype `json:"archetype"`
	PictureURL    string    `json:"picture_url"`
}

func (h Hero) PlaysRole(r Role) bool {
	return h.PrimaryRole == r || (h.SecondaryRole != "" && h.SecondaryRole == r)
}

type Trait string

const (
	TraitClutchFactor Trait = "CLUTCH_FACTOR" // does not stack
	TraitLeader       Trait = "LEADER"        // does not stack
	TraitLoneWolf     Trait = "LONE_WOLF"
	TraitTeamPlayer   Trait = "TEAM_PLAYER"
	TraitAdaptive     Trait = "ADAPTIVE"
	TraitWorkaholic   Trait = "WORKAHOLIC"
)

type Mastery struct {
	Level      int   `json:"level"`
	Experience int64 `json:"experience"`
}

type Player struct {
	ID            string             `json:"id"`
	Nickname      string             `json:"nickname"`
	RosterID      string             `json:"roster_id"`
	Traits        []Trait            `json:"traits"`
	RoleMasteries map[Role]Mastery   `json:"role_masteries"`
	HeroMasteries map[string]Mastery `json:"hero_masteries"`
}

func (p *Player) HasTrait(t Trait) bool {
	return slices.Contains(p.Traits, t)
}

// RoleLevel returns 0 for a role without a mastery row.
func (p *Player) RoleLevel(r Role) int {
	if m, ok := p.RoleMasteries[r]; ok {
		return m.Level
	}
	return 0
}

// HeroLevel returns 1 for a hero the player has never played.
func (p *Player) HeroLevel(heroID string) int {
	if m, ok := p.HeroMasteries[heroID]; ok {
		return m.Level
	}
	return 1
}

type RosterActivity string

const (
	ActivityIdle     RosterActivity = "IDLE"
	ActivityBootcamp RosterActivity = "BOOTCAMP"
	ActivityInEvent  RosterActivity = "IN_EVENT"
)

var (
	StatMin = decimal.Zero
	StatMax = decimal.RequireFromString("10.00")
)

type Roster struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	OwnerID   string          `json:"owner_id"`
	Cohesion  decimal.Decimal `json:"cohesion"`
	Morale    decimal.Decimal `json:"morale"`
	Energy    int             `json:"energy"`
	Activity  RosterActivity  `json:"activity"`
	PlayerIDs []string        `json:"player_ids"`
}

type MatchStatus string

const (
	MatchScheduled MatchStatus = "SCHEDULED"
	MatchCompleted MatchStatus = "COMPLETED"
	MatchCancelled MatchStatus = "CANCELLED"
)

type PickIntention struct {
	PlayerID         string   `json:"player_id"`
	Role             Role     `json:"role"`
	PreferredHeroIDs []string `json:"preferred_hero_ids"`
	PickOrder        int      `json:"pick_order"`
}

const MaxPreferredHeroes = 3

type Match struct {
	ID            string          `json:"id"`
	EventID       string          `json:"event_id,omitempty"`
	HomeRosterID  string          `json:"home_roster_id"`
	AwayRosterID  string          `json:"away_roster_id"`
	Status        MatchStatus     `json:"status"`
	ScheduledTime time.Time       `json:"scheduled_time"`
	PlayedAt      *time.Time      `json:"played_at,omitempty"`
	HomeBans      []string        `json:"home_bans"`
	AwayBans      []string        `json:"away_bans"`
	HomePicks     []PickIntention `json:"home_picks"`
	AwayPicks     []PickIntention `json:"away_picks"`
}

type EventType string

const (
	EventLeague     EventType = "LEAGUE"
	EventTournament EventType = "TOURNAMENT"
	EventCup        EventType = "CUP"
)

type EventStatus string

const (
	EventClosed    EventStatus = "CLOSED"
	EventOpen      EventStatus = "OPEN"
	EventOngoing   EventStatus = "ONGOING"
	EventFinished  EventStatus = "FINISHED"
	EventCancelled EventStatus = "CANCELLED"
)

type Event struct {
	ID                   string      `json:"id"`
	Name                 string      `json:"name"`
	Type                 EventType   `json:"type"`
	Status               EventStatus `json:"status"`
	StartsAt             time.Time   `json:"starts_at"`
	FinishesAt           *time.Time  `json:"finishes_at,omitempty"`
	GamesPerBlock        int         `json:"games_per_block"`
	MinutesBetweenGames  int         `json:"minutes_between_games"`
	MinutesBetweenBlocks int         `json:"minutes_between_blocks"`
	RosterIDs            []string    `json:"roster_ids"` // registration order
}

type League struct {
	EventID         string `json:"event_id"`
	RoundRobinCount int    `json:"round_robin_count"`
}

type Standing struct {
	ID       string `json:"id"`
	EventID  string `json:"event_id"`
	RosterID string `json:"roster_id"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Position int    `json:"position"`
}

type PlayerStat struct {
	Performance decimal.Decimal `json:"performance"`
	HeroID      string          `json:"hero_id"`
	Role        Role            `json:"role"`
}

type MatchResult struct {
	MatchID        string                `json:"match_id"`
	WinnerRosterID string                `json:"winner_roster_id"`
	HomeTotal      decimal.Decimal       `json:"home_total"`
	AwayTotal      decimal.Decimal       `json:"away_total"`
	Players        map[string]PlayerStat `json:"players"`
	CreatedAt      time.Time             `json:"created_at"`
}

type TrainingConfig struct {
	ID               string   `json:"id"`
	PlayerID         string   `json:"player_id"`
	TargetRole       Role     `json:"target_role"`
	PrimaryHeroID    string   `json:"primary_hero_id"`
	SecondaryHeroIDs []string `json:"secondary_hero_ids"`
}

type BootcampSession struct {
	RosterID   string           `json:"roster_id"`
	StartedAt  time.Time        `json:"started_at"`
	LastTickAt time.Time        `json:"last_tick_at"`
	Configs    []TrainingConfig `json:"configs"`
}

// ClampStat bounds a roster vital to [StatMin, StatMax].
func ClampStat(v decimal.Decimal) decimal.Decimal {
	if v.LessThan(StatMin) {
		return StatMin
	}
	if v.GreaterThan(StatMax) {
		return StatMax
	}
	return v
}

// HeroIDs lists the primary hero, when set, followed by the secondaries.
func (c TrainingConfig) HeroIDs() []string {
	out := make([]string, 0, 1+len(c.SecondaryHeroIDs))
	if c.PrimaryHeroID != "" {
		out = append(out, c.PrimaryHeroID)
	}
	return append(out, c.SecondaryHeroIDs...)
}
