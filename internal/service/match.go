package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"arena-league/internal/config"
	"arena-league/internal/constants"
	"arena-league/internal/domain"
	"arena-league/internal/engine"
	"arena-league/internal/league"
	"arena-league/internal/notify"
	"arena-league/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// BatchReport summarizes one pass over due work.
type BatchReport struct {
	Due       int `json:"due"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

type MatchService struct {
	store     *repository.Store
	simulator *engine.Simulator
	notifier  notify.Notifier
	workers   int
	logger    zerolog.Logger
}

func NewMatchService(store *repository.Store, simulator *engine.Simulator, notifier notify.Notifier, cfg *config.Config, logger zerolog.Logger) *MatchService {
	return &MatchService{
		store:     store,
		simulator: simulator,
		notifier:  notifier,
		workers:   max(1, cfg.SimulationWorkers),
		logger:    logger,
	}
}

// Simulate plays a scheduled match. A match that is no longer scheduled is
// left alone and nil is returned.
func (s *MatchService) Simulate(ctx context.Context, matchID string) (*domain.MatchResult, error) {
	return s.simulate(ctx, matchID, time.Now().UTC())
}

func (s *MatchService) simulate(ctx context.Context, matchID string, now time.Time) (*domain.MatchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	var result *domain.MatchResult
	err := s.store.WithTx(ctx, func(tx *repository.Repos) error {
		m, err := tx.Matches.Get(ctx, matchID)
		if err != nil {
			return err
		}
		if m.Status != domain.MatchScheduled {
			s.logger.Debug().Str("match_id", matchID).Str("status", string(m.Status)).Msg("match not scheduled, skipping")
			return nil
		}

		catalog, err := tx.Heroes.Catalog(ctx)
		if err != nil {
			return err
		}
		home, err := tx.Rosters.Get(ctx, m.HomeRosterID)
		if err != nil {
			return brokenMatch(m.ID, err)
		}
		away, err := tx.Rosters.Get(ctx, m.AwayRosterID)
		if err != nil {
			return brokenMatch(m.ID, err)
		}
		players, err := tx.Players.GetMany(ctx, pickPlayerIDs(m))
		if err != nil {
			return brokenMatch(m.ID, err)
		}

		out, err := s.simulator.Run(engine.Input{
			Match:   *m,
			Home:    *home,
			Away:    *away,
			Players: players,
			Catalog: catalog,
		}, now)
		if err != nil {
			return fmt.Errorf("failed to simulate match %s: %w", matchID, err)
		}

		if err := tx.Matches.Complete(ctx, m.ID, now); err != nil {
			return err
		}
		if err := tx.Matches.SaveResult(ctx, out.Result); err != nil {
			return err
		}
		if err := tx.Rosters.Save(ctx, out.HomeRoster); err != nil {
			return err
		}
		if err := tx.Rosters.Save(ctx, out.AwayRoster); err != nil {
			return err
		}
		for _, g := range out.Grants {
			if err := tx.Players.SaveRoleMastery(ctx, g.PlayerID, g.Role, g.RoleMastery); err != nil {
				return err
			}
			if err := tx.Players.SaveHeroMastery(ctx, g.PlayerID, g.HeroID, g.HeroMastery); err != nil {
				return err
			}
		}
		if m.EventID != "" {
			if err := s.recordStanding(ctx, tx, m.EventID, out); err != nil {
				return err
			}
		}

		result = &out.Result
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("match_id", matchID).Msg("match simulation failed")
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	s.logger.Info().
		Str("match_id", matchID).
		Str("winner_id", result.WinnerRosterID).
		Str("home_total", result.HomeTotal.String()).
		Str("away_total", result.AwayTotal.String()).
		Msg("match completed")

	s.publish(ctx, *result)
	return result, nil
}

func (s *MatchService) recordStanding(ctx context.Context, tx *repository.Repos, eventID string, out *engine.Outcome) error {
	lg, err := tx.Events.League(ctx, eventID)
	if err != nil {
		return err
	}
	if lg == nil {
		return nil
	}

	standings, err := tx.Events.Standings(ctx, eventID)
	if err != nil {
		return err
	}
	if err := league.RecordResult(standings, out.WinnerID(), out.LoserID()); err != nil {
		return err
	}
	return tx.Events.SaveStandings(ctx, standings)
}

func (s *MatchService) publish(ctx context.Context, res domain.MatchResult) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.NotifyTimeout)
	defer cancel()

	if err := s.notifier.MatchCompleted(ctx, res); err != nil {
		s.logger.Warn().Err(err).Str("match_id", res.MatchID).Msg("failed to publish match result")
	}
}

// SimulateDue plays every scheduled match whose time has come, each in its own
// transaction. A failing match is logged and does not stop the others.
func (s *MatchService) SimulateDue(ctx context.Context, now time.Time) (BatchReport, error) {
	ids, err := s.store.Matches.ListDue(ctx, now, constants.DBBatchSize)
	if err != nil {
		return BatchReport{}, err
	}

	var completed, failed atomic.Int64
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, id := range ids {
		g.Go(func() error {
			res, err := s.simulate(gCtx, id, now)
			switch {
			case err != nil:
				failed.Add(1)
			case res != nil:
				completed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	report := BatchReport{Due: len(ids), Completed: int(completed.Load()), Failed: int(failed.Load())}
	if report.Due > 0 {
		s.logger.Info().
			Int("due", report.Due).
			Int("completed", report.Completed).
			Int("failed", report.Failed).
			Msg("due matches processed")
	}
	return report, nil
}

func (s *MatchService) Result(ctx context.Context, matchID string) (*domain.MatchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if _, err := s.store.Matches.Get(ctx, matchID); err != nil {
		return nil, err
	}
	return s.store.Matches.GetResult(ctx, matchID)
}

// brokenMatch reports a side or pick of a stored match that no longer
// resolves. Only a missing match is a not-found for the caller.
func brokenMatch(matchID string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: match %s references %v", domain.ErrIntegrity, matchID, err)
	}
	return err
}

func pickPlayerIDs(m *domain.Match) []string {
	ids := make([]string, 0, len(m.HomePicks)+len(m.AwayPicks))
	for _, p := range slices.Concat(m.HomePicks, m.AwayPicks) {
		ids = append(ids, p.PlayerID)
	}
	return ids
}
