// Package league builds round-robin seasons and maintains standings.
package league

import (
	"fmt"
	"sort"
	"time"

	"arena-league/internal/domain"
)

// FinishBuffer is added to the last match time to predict when an event ends.
const FinishBuffer = 60 * time.Minute

const bye = ""

type Season struct {
	Matches    []domain.Match
	Standings  []domain.Standing
	Rounds     int
	FinishesAt time.Time
}

// Generate schedules every round of a league with the circle method. The first
// roster stays fixed while the others rotate one place per round. An odd field
// gets a bye slot and the paired roster sits that round out.
func Generate(ev domain.Event, lg domain.League) (*Season, error) {
	if len(ev.RosterIDs) < 2 {
		return nil, fmt.Errorf("%w: league %s needs at least 2 rosters, has %d", domain.ErrPrecondition, ev.ID, len(ev.RosterIDs))
	}

	teams := make([]string, len(ev.RosterIDs), len(ev.RosterIDs)+1)
	copy(teams, ev.RosterIDs)
	if len(teams)%2 != 0 {
		teams = append(teams, bye)
	}

	n := len(teams)
	rounds := (n - 1) * max(1, lg.RoundRobinCount)
	gamesPerBlock := max(1, ev.GamesPerBlock)
	betweenGames := time.Duration(ev.MinutesBetweenGames) * time.Minute
	betweenBlocks := time.Duration(ev.MinutesBetweenBlocks) * time.Minute

	season := &Season{
		Standings: InitialStandings(ev),
		Rounds:    rounds,
	}

	clock := ev.StartsAt.Add(betweenBlocks)
	last := clock
	inBlock := 0

	for r := 0; r < rounds; r++ {
		for i := 0; i < n/2; i++ {
			home, away := teams[i], teams[n-1-i]
			if home == bye || away == bye {
				continue
			}
			if r%2 != 0 {
				home, away = away, home
			}

			last = clock
			season.Matches = append(season.Matches, domain.Match{
				EventID:       ev.ID,
				HomeRosterID:  home,
				AwayRosterID:  away,
				Status:        domain.MatchScheduled,
				ScheduledTime: clock,
			})

			inBlock++
			if inBlock >= gamesPerBlock {
				clock = clock.Add(betweenBlocks)
				inBlock = 0
			} else {
				clock = clock.Add(betweenGames)
			}
		}
		rotate(teams[1:])
	}

	season.FinishesAt = last.Add(FinishBuffer)
	return season, nil
}

// rotate moves the last element to the front.
func rotate(s []string) {
	if len(s) < 2 {
		return
	}
	tail := s[len(s)-1]
	copy(s[1:], s[:len(s)-1])
	s[0] = tail
}

// InitialStandings opens an empty row per registered roster, positioned in registration order.
func InitialStandings(ev domain.Event) []domain.Standing {
	out := make([]domain.Standing, len(ev.RosterIDs))
	for i, id := range ev.RosterIDs {
		out[i] = domain.Standing{EventID: ev.ID, RosterID: id, Position: i + 1}
	}
	return out
}

// RecordResult credits the winner and the loser. Both must have a standings row.
func RecordResult(standings []domain.Standing, winnerID, loserID string) error {
	wi, li := -1, -1
	for i := range standings {
		switch standings[i].RosterID {
		case winnerID:
			wi = i
		case loserID:
			li = i
		}
	}
	if wi < 0 || li < 0 {
		return fmt.Errorf("%w: standings missing for %s or %s", domain.ErrIntegrity, winnerID, loserID)
	}
	standings[wi].Wins++
	standings[li].Losses++
	RecalculatePositions(standings)
	return nil
}

// RecalculatePositions ranks by wins descending, roster id ascending. The
// slice is sorted in place.
func RecalculatePositions(standings []domain.Standing) {
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		return standings[i].RosterID < standings[j].RosterID
	})
	for i := range standings {
		standings[i].Position = i + 1
	}
}
