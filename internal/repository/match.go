package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"arena-league/internal/constants"
	"arena-league/internal/db"
	"arena-league/internal/domain"

	"github.com/rs/zerolog"
)

type MatchRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewMatchRepository(queries *db.Queries, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		queries: queries,
		logger:  logger,
	}
}

func (r *MatchRepository) Create(ctx context.Context, m *domain.Match) error {
	if m.ID == "" {
		m.ID = newID()
	}
	if m.Status == "" {
		m.Status = domain.MatchScheduled
	}

	draft, err := encodeDraft(*m)
	if err != nil {
		return fmt.Errorf("failed to encode draft of match %s: %w", m.ID, err)
	}

	err = r.queries.CreateMatch(ctx, db.CreateMatchParams{
		ID:            m.ID,
		EventID:       optional(m.EventID),
		HomeRosterID:  m.HomeRosterID,
		AwayRosterID:  m.AwayRosterID,
		Status:        string(m.Status),
		ScheduledTime: m.ScheduledTime.UTC(),
		HomeBans:      draft.HomeBans,
		AwayBans:      draft.AwayBans,
		HomePicks:     draft.HomePicks,
		AwayPicks:     draft.AwayPicks,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to create match %s: %w", m.ID, err)
	}
	return nil
}

// CreateBatch stores a generated schedule in chunks of DBBatchSize.
func (r *MatchRepository) CreateBatch(ctx context.Context, matches []domain.Match) error {
	for i := 0; i < len(matches); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(matches))
		for j := i; j < end; j++ {
			if err := r.Create(ctx, &matches[j]); err != nil {
				return err
			}
		}
		r.logger.Debug().Int("stored", end).Int("total", len(matches)).Msg("match batch stored")
	}
	return nil
}

func (r *MatchRepository) Get(ctx context.Context, id string) (*domain.Match, error) {
	row, err := r.queries.GetMatch(ctx, id)
	if err != nil {
		return nil, notFound(err, "match", id)
	}
	return matchFromRow(row)
}

func (r *MatchRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Match, error) {
	rows, err := r.queries.ListMatchesByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of event %s: %w", eventID, err)
	}
	matches := make([]domain.Match, 0, len(rows))
	for _, row := range rows {
		m, err := matchFromRow(row)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *m)
	}
	return matches, nil
}

// ListDue returns ids of scheduled matches whose time has come, oldest first.
func (r *MatchRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]string, error) {
	ids, err := r.queries.ListDueMatchIDs(ctx, now.UTC(), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list due matches: %w", err)
	}
	return ids, nil
}

// SaveDraft replaces bans and picks. The match must still be scheduled.
func (r *MatchRepository) SaveDraft(ctx context.Context, m domain.Match) error {
	draft, err := encodeDraft(m)
	if err != nil {
		return fmt.Errorf("failed to encode draft of match %s: %w", m.ID, err)
	}
	draft.ID = m.ID

	n, err := r.queries.UpdateMatchDraft(ctx, draft)
	if err != nil {
		return fmt.Errorf("failed to save draft of match %s: %w", m.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: match %s is no longer scheduled", domain.ErrPrecondition, m.ID)
	}
	return nil
}

// Complete marks a scheduled match as played.
func (r *MatchRepository) Complete(ctx context.Context, id string, playedAt time.Time) error {
	n, err := r.queries.CompleteMatch(ctx, id, playedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to complete match %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: match %s is no longer scheduled", domain.ErrPrecondition, id)
	}
	return nil
}

func (r *MatchRepository) SaveResult(ctx context.Context, res domain.MatchResult) error {
	stats, err := toJSON(res.Players)
	if err != nil {
		return fmt.Errorf("failed to encode stats of match %s: %w", res.MatchID, err)
	}
	err = r.queries.InsertMatchResult(ctx, db.InsertMatchResultParams{
		MatchID:        res.MatchID,
		WinnerRosterID: res.WinnerRosterID,
		HomeTotal:      res.HomeTotal,
		AwayTotal:      res.AwayTotal,
		PlayerStats:    stats,
		CreatedAt:      res.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to save result of match %s: %w", res.MatchID, err)
	}
	return nil
}

func (r *MatchRepository) GetResult(ctx context.Context, matchID string) (*domain.MatchResult, error) {
	row, err := r.queries.GetMatchResult(ctx, matchID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: result of match %s", domain.ErrNotFound, matchID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result of match %s: %w", matchID, err)
	}

	res := &domain.MatchResult{
		MatchID:        row.MatchID,
		WinnerRosterID: row.WinnerRosterID,
		HomeTotal:      row.HomeTotal,
		AwayTotal:      row.AwayTotal,
		CreatedAt:      row.CreatedAt,
	}
	if err := fromJSON(row.PlayerStats, &res.Players); err != nil {
		return nil, fmt.Errorf("%w: result of match %s has malformed stats: %v", domain.ErrIntegrity, matchID, err)
	}
	return res, nil
}

func encodeDraft(m domain.Match) (db.UpdateMatchDraftParams, error) {
	var (
		p   db.UpdateMatchDraftParams
		err error
	)
	if p.HomeBans, err = toJSON(nonNil(m.HomeBans)); err != nil {
		return p, err
	}
	if p.AwayBans, err = toJSON(nonNil(m.AwayBans)); err != nil {
		return p, err
	}
	if p.HomePicks, err = toJSON(nonNil(m.HomePicks)); err != nil {
		return p, err
	}
	if p.AwayPicks, err = toJSON(nonNil(m.AwayPicks)); err != nil {
		return p, err
	}
	return p, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func matchFromRow(row db.Match) (*domain.Match, error) {
	m := &domain.Match{
		ID:            row.ID,
		EventID:       deref(row.EventID),
		HomeRosterID:  row.HomeRosterID,
		AwayRosterID:  row.AwayRosterID,
		Status:        domain.MatchStatus(row.Status),
		ScheduledTime: row.ScheduledTime,
		PlayedAt:      row.PlayedAt,
	}
	for _, f := range []struct {
		raw string
		dst any
	}{
		{row.HomeBans, &m.HomeBans},
		{row.AwayBans, &m.AwayBans},
		{row.HomePicks, &m.HomePicks},
		{row.AwayPicks, &m.AwayPicks},
	} {
		if err := fromJSON(f.raw, f.dst); err != nil {
			return nil, fmt.Errorf("%w: match %s has a malformed draft: %v", domain.ErrIntegrity, row.ID, err)
		}
	}
	return m, nil
}
