package service

import (
	"context"
	"fmt"
	"time"

	"arena-league/internal/constants"
	"arena-league/internal/domain"
	"arena-league/internal/league"
	"arena-league/internal/repository"

	"github.com/rs/zerolog"
)

type EventService struct {
	store  *repository.Store
	logger zerolog.Logger
}

func NewEventService(store *repository.Store, logger zerolog.Logger) *EventService {
	return &EventService{store: store, logger: logger}
}

// NewEvent describes an event to open for registration.
type NewEvent struct {
	Name                 string           `json:"name"`
	Type                 domain.EventType `json:"type"`
	StartsAt             time.Time        `json:"starts_at"`
	GamesPerBlock        int              `json:"games_per_block"`
	MinutesBetweenGames  int              `json:"minutes_between_games"`
	MinutesBetweenBlocks int              `json:"minutes_between_blocks"`
	RoundRobinCount      int              `json:"round_robin_count"`
	RosterIDs            []string         `json:"roster_ids"`
}

// Create opens an event with its registrations. League events also get their
// league settings.
func (s *EventService) Create(ctx context.Context, in NewEvent) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	switch in.Type {
	case domain.EventLeague, domain.EventTournament, domain.EventCup:
	default:
		return nil, fmt.Errorf("%w: unknown event type %q", domain.ErrValidation, in.Type)
	}
	if in.Name == "" {
		return nil, fmt.Errorf("%w: event name is required", domain.ErrValidation)
	}

	ev := &domain.Event{
		Name:                 in.Name,
		Type:                 in.Type,
		Status:               domain.EventOpen,
		StartsAt:             in.StartsAt,
		GamesPerBlock:        in.GamesPerBlock,
		MinutesBetweenGames:  in.MinutesBetweenGames,
		MinutesBetweenBlocks: in.MinutesBetweenBlocks,
		RosterIDs:            in.RosterIDs,
	}
	err := s.store.WithTx(ctx, func(tx *repository.Repos) error {
		seen := make(map[string]bool, len(in.RosterIDs))
		for _, id := range in.RosterIDs {
			if seen[id] {
				return fmt.Errorf("%w: roster %s registered twice", domain.ErrValidation, id)
			}
			seen[id] = true
			if _, err := tx.Rosters.Get(ctx, id); err != nil {
				return err
			}
		}
		return tx.Events.Create(ctx, ev, &domain.League{RoundRobinCount: max(1, in.RoundRobinCount)})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("event_id", ev.ID).Str("type", string(ev.Type)).Int("rosters", len(ev.RosterIDs)).Msg("event created")
	return ev, nil
}

// Start moves an open event on once its start time has passed. An event with
// fewer than two registrations is cancelled. A league gets its whole season
// scheduled and its rosters locked in. Events that are not open are returned
// unchanged.
func (s *EventService) Start(ctx context.Context, eventID string, now time.Time) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	var ev *domain.Event
	err := s.store.WithTx(ctx, func(tx *repository.Repos) error {
		var err error
		if ev, err = tx.Events.Get(ctx, eventID); err != nil {
			return err
		}
		if ev.Status != domain.EventOpen {
			return nil
		}
		if now.Before(ev.StartsAt) {
			return fmt.Errorf("%w: event %s starts at %s", domain.ErrPrecondition, ev.ID, ev.StartsAt.Format(time.RFC3339))
		}

		if len(ev.RosterIDs) < 2 {
			if err := tx.Events.Transition(ctx, ev.ID, domain.EventOpen, domain.EventCancelled, nil); err != nil {
				return err
			}
			ev.Status = domain.EventCancelled
			return nil
		}

		var finishesAt *time.Time
		if ev.Type == domain.EventLeague {
			if finishesAt, err = s.scheduleLeague(ctx, tx, ev); err != nil {
				return err
			}
		}

		if err := tx.Events.Transition(ctx, ev.ID, domain.EventOpen, domain.EventOngoing, finishesAt); err != nil {
			return err
		}
		ev.Status = domain.EventOngoing
		if finishesAt != nil {
			ev.FinishesAt = finishesAt
		}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("event_id", eventID).Msg("failed to start event")
		return nil, err
	}

	s.logger.Debug().Str("event_id", eventID).Str("status", string(ev.Status)).Msg("event start handled")
	return ev, nil
}

func (s *EventService) scheduleLeague(ctx context.Context, tx *repository.Repos, ev *domain.Event) (*time.Time, error) {
	lg, err := tx.Events.League(ctx, ev.ID)
	if err != nil {
		return nil, err
	}
	if lg == nil {
		return nil, fmt.Errorf("%w: league event %s has no league settings", domain.ErrIntegrity, ev.ID)
	}

	season, err := league.Generate(*ev, *lg)
	if err != nil {
		return nil, err
	}
	if err := tx.Matches.CreateBatch(ctx, season.Matches); err != nil {
		return nil, err
	}
	if err := tx.Events.SaveStandings(ctx, season.Standings); err != nil {
		return nil, err
	}

	for _, id := range ev.RosterIDs {
		r, err := tx.Rosters.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		r.Activity = domain.ActivityInEvent
		if err := tx.Rosters.Save(ctx, *r); err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Str("event_id", ev.ID).
		Int("rounds", season.Rounds).
		Int("matches", len(season.Matches)).
		Time("finishes_at", season.FinishesAt).
		Msg("league scheduled")
	return &season.FinishesAt, nil
}

// StartDue starts every open event whose start time has passed.
func (s *EventService) StartDue(ctx context.Context, now time.Time) (BatchReport, error) {
	ids, err := s.store.Events.ListDue(ctx, now)
	if err != nil {
		return BatchReport{}, err
	}

	report := BatchReport{Due: len(ids)}
	for _, id := range ids {
		if _, err := s.Start(ctx, id, now); err != nil {
			report.Failed++
			continue
		}
		report.Completed++
	}
	return report, nil
}

// Finish closes an ongoing event whose finish time has passed and sends its
// locked rosters back to idle. An event with matches still scheduled stays
// ongoing until they are played.
func (s *EventService) Finish(ctx context.Context, eventID string, now time.Time) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var ev *domain.Event
	err := s.store.WithTx(ctx, func(tx *repository.Repos) error {
		var err error
		if ev, err = tx.Events.Get(ctx, eventID); err != nil {
			return err
		}
		if ev.Status != domain.EventOngoing || ev.FinishesAt == nil || now.Before(*ev.FinishesAt) {
			return nil
		}

		matches, err := tx.Matches.ListByEvent(ctx, ev.ID)
		if err != nil {
			return err
		}
		for _, m := range matches {
			if m.Status == domain.MatchScheduled {
				s.logger.Debug().Str("event_id", ev.ID).Str("match_id", m.ID).Msg("event has unplayed matches, not finishing")
				return nil
			}
		}

		if err := tx.Events.Transition(ctx, ev.ID, domain.EventOngoing, domain.EventFinished, nil); err != nil {
			return err
		}
		ev.Status = domain.EventFinished

		for _, id := range ev.RosterIDs {
			r, err := tx.Rosters.Get(ctx, id)
			if err != nil {
				return err
			}
			if r.Activity != domain.ActivityInEvent {
				continue
			}
			r.Activity = domain.ActivityIdle
			if err := tx.Rosters.Save(ctx, *r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("event_id", eventID).Msg("failed to finish event")
		return nil, err
	}

	if ev.Status == domain.EventFinished {
		s.logger.Info().Str("event_id", ev.ID).Int("rosters", len(ev.RosterIDs)).Msg("event finished")
	}
	return ev, nil
}

// FinishDue finishes every ongoing event past its finish time.
func (s *EventService) FinishDue(ctx context.Context, now time.Time) (BatchReport, error) {
	ids, err := s.store.Events.ListFinished(ctx, now)
	if err != nil {
		return BatchReport{}, err
	}

	report := BatchReport{Due: len(ids)}
	for _, id := range ids {
		ev, err := s.Finish(ctx, id, now)
		if err != nil {
			report.Failed++
			continue
		}
		if ev.Status == domain.EventFinished {
			report.Completed++
		}
	}
	return report, nil
}

func (s *EventService) Standings(ctx context.Context, eventID string) ([]domain.Standing, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if _, err := s.store.Events.Get(ctx, eventID); err != nil {
		return nil, err
	}
	return s.store.Events.Standings(ctx, eventID)
}

// Matches lists the event's schedule in play order.
func (s *EventService) Matches(ctx context.Context, eventID string) ([]domain.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if _, err := s.store.Events.Get(ctx, eventID); err != nil {
		return nil, err
	}
	return s.store.Matches.ListByEvent(ctx, eventID)
}
