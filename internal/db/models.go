package db

import (
	"time"

	"github.com/shopspring/decimal"
)

type Hero struct {
	ID            string
	Name          string
	PrimaryRole   string
	PrimaryTier   string
	SecondaryRole *string
	SecondaryTier *string
	Archetype     string
	PictureUrl    string
}

type Roster struct {
	ID        string
	Name      string
	OwnerID   string
	Cohesion  decimal.Decimal
	Morale    decimal.Decimal
	Energy    int64
	Activity  string
	CreatedAt time.Time
}

type Player struct {
	ID        string
	Nickname  string
	RosterID  *string
	CreatedAt time.Time
}

type PlayerRoleMastery struct {
	PlayerID   string
	Role       string
	Level      int64
	Experience int64
}

type PlayerHeroMastery struct {
	PlayerID   string
	HeroID     string
	Level      int64
	Experience int64
}

type Event struct {
	ID                   string
	Name                 string
	Type                 string
	Status               string
	StartsAt             time.Time
	FinishesAt           *time.Time
	GamesPerBlock        int64
	MinutesBetweenGames  int64
	MinutesBetweenBlocks int64
	CreatedAt            time.Time
}

type League struct {
	EventID         string
	RoundRobinCount int64
}

type LeagueStanding struct {
	ID       string
	EventID  string
	RosterID string
	Wins     int64
	Losses   int64
	Position int64
}

type Match struct {
	ID            string
	EventID       *string
	HomeRosterID  string
	AwayRosterID  string
	Status        string
	ScheduledTime time.Time
	PlayedAt      *time.Time
	HomeBans      string
	AwayBans      string
	HomePicks     string
	AwayPicks     string
	CreatedAt     time.Time
}

type MatchResult struct {
	MatchID        string
	WinnerRosterID string
	HomeTotal      decimal.Decimal
	AwayTotal      decimal.Decimal
	PlayerStats    string
	CreatedAt      time.Time
}

type BootcampSession struct {
	RosterID   string
	StartedAt  time.Time
	LastTickAt time.Time
}

type BootcampConfig struct {
	ID               string
	RosterID         string
	PlayerID         string
	TargetRole       string
	PrimaryHeroID    *string
	SecondaryHeroIds string
}
