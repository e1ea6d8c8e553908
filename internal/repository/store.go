package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"arena-league/internal/db"
	"arena-league/internal/domain"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// Repos groups the repositories sharing one set of queries. Inside WithTx they
// are all bound to the same transaction.
type Repos struct {
	Heroes    *HeroRepository
	Players   *PlayerRepository
	Rosters   *RosterRepository
	Matches   *MatchRepository
	Events    *EventRepository
	Bootcamps *BootcampRepository
}

func newRepos(queries *db.Queries, logger zerolog.Logger) Repos {
	return Repos{
		Heroes:    NewHeroRepository(queries, logger),
		Players:   NewPlayerRepository(queries, logger),
		Rosters:   NewRosterRepository(queries, logger),
		Matches:   NewMatchRepository(queries, logger),
		Events:    NewEventRepository(queries, logger),
		Bootcamps: NewBootcampRepository(queries, logger),
	}
}

type Store struct {
	Repos
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewStore(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *Store {
	return &Store{
		Repos:   newRepos(queries, logger),
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// WithTx runs fn in a single transaction. Any error from fn rolls back.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Repos) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	repos := newRepos(s.queries.WithTx(tx), s.logger)
	if err := fn(&repos); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}

func rowID() (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate row id: %w", err)
	}
	return id, nil
}

func notFound(err error, kind, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s %s", domain.ErrNotFound, kind, id)
	}
	return fmt.Errorf("failed to get %s %s: %w", kind, id, err)
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func fromJSON(s string, v any) error {
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), v)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
