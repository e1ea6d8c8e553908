package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"arena-league/internal/db"
	"arena-league/internal/domain"

	"github.com/rs/zerolog"
)

type EventRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewEventRepository(queries *db.Queries, logger zerolog.Logger) *EventRepository {
	return &EventRepository{
		queries: queries,
		logger:  logger,
	}
}

// Create stores the event and its registrations in slice order. lg is only
// stored for league events.
func (r *EventRepository) Create(ctx context.Context, ev *domain.Event, lg *domain.League) error {
	if ev.ID == "" {
		ev.ID = newID()
	}
	if ev.Status == "" {
		ev.Status = domain.EventClosed
	}
	now := time.Now().UTC()

	err := r.queries.CreateEvent(ctx, db.CreateEventParams{
		ID:                   ev.ID,
		Name:                 ev.Name,
		Type:                 string(ev.Type),
		Status:               string(ev.Status),
		StartsAt:             ev.StartsAt.UTC(),
		GamesPerBlock:        int64(ev.GamesPerBlock),
		MinutesBetweenGames:  int64(ev.MinutesBetweenGames),
		MinutesBetweenBlocks: int64(ev.MinutesBetweenBlocks),
		CreatedAt:            now,
	})
	if err != nil {
		return fmt.Errorf("failed to create event %s: %w", ev.Name, err)
	}

	if ev.Type == domain.EventLeague && lg != nil {
		lg.EventID = ev.ID
		if err := r.queries.CreateLeague(ctx, db.League{EventID: ev.ID, RoundRobinCount: int64(lg.RoundRobinCount)}); err != nil {
			return fmt.Errorf("failed to create league for event %s: %w", ev.ID, err)
		}
	}

	for _, rosterID := range ev.RosterIDs {
		if err := r.Register(ctx, ev.ID, rosterID, now); err != nil {
			return err
		}
	}
	return nil
}

func (r *EventRepository) Register(ctx context.Context, eventID, rosterID string, at time.Time) error {
	if err := r.queries.RegisterRoster(ctx, eventID, rosterID, at.UTC()); err != nil {
		return fmt.Errorf("failed to register roster %s for event %s: %w", rosterID, eventID, err)
	}
	return nil
}

// Get loads the event with its registrations in registration order.
func (r *EventRepository) Get(ctx context.Context, id string) (*domain.Event, error) {
	row, err := r.queries.GetEvent(ctx, id)
	if err != nil {
		return nil, notFound(err, "event", id)
	}

	rosterIDs, err := r.queries.ListRegistrations(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations of event %s: %w", id, err)
	}

	return &domain.Event{
		ID:                   row.ID,
		Name:                 row.Name,
		Type:                 domain.EventType(row.Type),
		Status:               domain.EventStatus(row.Status),
		StartsAt:             row.StartsAt,
		FinishesAt:           row.FinishesAt,
		GamesPerBlock:        int(row.GamesPerBlock),
		MinutesBetweenGames:  int(row.MinutesBetweenGames),
		MinutesBetweenBlocks: int(row.MinutesBetweenBlocks),
		RosterIDs:            rosterIDs,
	}, nil
}

// League returns nil when the event has no league row.
func (r *EventRepository) League(ctx context.Context, eventID string) (*domain.League, error) {
	row, err := r.queries.GetLeague(ctx, eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get league of event %s: %w", eventID, err)
	}
	return &domain.League{EventID: row.EventID, RoundRobinCount: int(row.RoundRobinCount)}, nil
}

// Transition moves the event from one status to another. finishesAt is kept
// unchanged when nil.
func (r *EventRepository) Transition(ctx context.Context, id string, from, to domain.EventStatus, finishesAt *time.Time) error {
	var finish *time.Time
	if finishesAt != nil {
		t := finishesAt.UTC()
		finish = &t
	}
	n, err := r.queries.UpdateEventStatus(ctx, db.UpdateEventStatusParams{
		Status:     string(to),
		FinishesAt: finish,
		ID:         id,
		FromStatus: string(from),
	})
	if err != nil {
		return fmt.Errorf("failed to move event %s to %s: %w", id, to, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: event %s is not %s", domain.ErrPrecondition, id, from)
	}

	r.logger.Info().Str("event_id", id).Str("from", string(from)).Str("to", string(to)).Msg("event status changed")
	return nil
}

func (r *EventRepository) ListDue(ctx context.Context, now time.Time) ([]string, error) {
	ids, err := r.queries.ListDueEventIDs(ctx, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list due events: %w", err)
	}
	return ids, nil
}

// ListFinished returns ongoing events whose finish time has passed.
func (r *EventRepository) ListFinished(ctx context.Context, now time.Time) ([]string, error) {
	ids, err := r.queries.ListFinishedEventIDs(ctx, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list finished events: %w", err)
	}
	return ids, nil
}

// SaveStandings upserts every row, assigning ids to new ones.
func (r *EventRepository) SaveStandings(ctx context.Context, standings []domain.Standing) error {
	for i := range standings {
		s := &standings[i]
		if s.ID == "" {
			id, err := rowID()
			if err != nil {
				return err
			}
			s.ID = id
		}
		err := r.queries.UpsertStanding(ctx, db.LeagueStanding{
			ID:       s.ID,
			EventID:  s.EventID,
			RosterID: s.RosterID,
			Wins:     int64(s.Wins),
			Losses:   int64(s.Losses),
			Position: int64(s.Position),
		})
		if err != nil {
			return fmt.Errorf("failed to save standing of roster %s: %w", s.RosterID, err)
		}
	}
	return nil
}

// Standings returns the table ordered by position.
func (r *EventRepository) Standings(ctx context.Context, eventID string) ([]domain.Standing, error) {
	rows, err := r.queries.ListStandings(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings of event %s: %w", eventID, err)
	}
	standings := make([]domain.Standing, len(rows))
	for i, row := range rows {
		standings[i] = domain.Standing{
			ID:       row.ID,
			EventID:  row.EventID,
			RosterID: row.RosterID,
			Wins:     int(row.Wins),
			Losses:   int(row.Losses),
			Position: int(row.Position),
		}
	}
	return standings, nil
}
