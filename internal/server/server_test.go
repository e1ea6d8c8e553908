package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"arena-league/internal/config"
	"arena-league/internal/database"
	"arena-league/internal/db"
	"arena-league/internal/domain"
	"arena-league/internal/engine"
	"arena-league/internal/notify"
	"arena-league/internal/repository"
	"arena-league/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	log := zerolog.Nop()
	sqlDB, err := database.Open(":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	store := repository.NewStore(sqlDB, db.New(sqlDB), log)
	heroes := service.NewHeroService(store, log)
	require.NoError(t, heroes.SeedCatalog(context.Background()))

	s := New(
		service.NewMatchService(store, engine.NewSimulator(engine.FixedSource(0.5), log), notify.Nop{}, &config.Config{SimulationWorkers: 1}, log),
		service.NewEventService(store, log),
		service.NewBootcampService(store, log),
		heroes,
		service.NewPlayerService(store, log),
		sqlDB,
		log,
	)
	return s.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any, dst any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if dst != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
	}
	return rec
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: bad", domain.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: gone", domain.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: busy", domain.ErrPrecondition), http.StatusConflict},
		{fmt.Errorf("%w: broken", domain.ErrIntegrity), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestHealthAndHeroes(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var heroes []domain.Hero
	rec = do(t, h, http.MethodGet, "/heroes", nil, &heroes)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, heroes, 22)
	assert.NotEmpty(t, heroes[0].ID)
}

func TestErrorResponses(t *testing.T) {
	h := newTestServer(t)

	var body errorResponse
	rec := do(t, h, http.MethodPost, "/matches/missing/simulate", nil, &body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body.Error, "missing")
	assert.NotEmpty(t, body.RequestID)

	req := httptest.NewRequest(http.MethodPost, "/rosters", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rec = do(t, h, http.MethodPost, "/rosters", map[string]any{"name": "x", "color": "red"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown fields are rejected")

	rec = do(t, h, http.MethodDelete, "/rosters/none/bootcamp", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/events/none/standings", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/events/none/finish", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeagueFlow(t *testing.T) {
	h := newTestServer(t)

	var heroes []domain.Hero
	do(t, h, http.MethodGet, "/heroes", nil, &heroes)

	rosters := make([]domain.Roster, 2)
	players := make([][]domain.Player, 2)
	for i := range rosters {
		rec := do(t, h, http.MethodPost, "/rosters", map[string]string{"name": fmt.Sprintf("team-%d", i), "owner_id": "o"}, &rosters[i])
		require.Equal(t, http.StatusCreated, rec.Code)
		for _, role := range domain.Roles {
			var p domain.Player
			rec := do(t, h, http.MethodPost, "/rosters/"+rosters[i].ID+"/players", map[string]any{"nickname": fmt.Sprintf("%d-%s", i, role)}, &p)
			require.Equal(t, http.StatusCreated, rec.Code)
			players[i] = append(players[i], p)
		}
	}

	var ev domain.Event
	rec := do(t, h, http.MethodPost, "/events", service.NewEvent{
		Name:                 "Cup Night",
		Type:                 domain.EventLeague,
		StartsAt:             time.Now().UTC().Add(-time.Hour),
		GamesPerBlock:        1,
		MinutesBetweenBlocks: 30,
		RoundRobinCount:      1,
		RosterIDs:            []string{rosters[0].ID, rosters[1].ID},
	}, &ev)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, domain.EventOpen, ev.Status)

	rec = do(t, h, http.MethodPost, "/events/"+ev.ID+"/start", nil, &ev)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.EventOngoing, ev.Status)

	var still domain.Event
	rec = do(t, h, http.MethodPost, "/events/"+ev.ID+"/finish", nil, &still)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.EventOngoing, still.Status, "a league is not finished before its season ends")

	var roster domain.Roster
	do(t, h, http.MethodGet, "/rosters/"+rosters[0].ID, nil, &roster)
	assert.Equal(t, domain.ActivityInEvent, roster.Activity)
	assert.Len(t, roster.PlayerIDs, 5)

	rec = do(t, h, http.MethodPost, "/rosters/"+rosters[0].ID+"/bootcamp", map[string]any{"configs": []any{}}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "rosters in an event cannot train")

	var standings []domain.Standing
	rec = do(t, h, http.MethodGet, "/events/"+ev.ID+"/standings", nil, &standings)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, standings, 2)
	assert.Zero(t, standings[0].Wins)
}

func TestMatchRoutes(t *testing.T) {
	h := newTestServer(t)

	var a, b, c domain.Roster
	do(t, h, http.MethodPost, "/rosters", map[string]string{"name": "a"}, &a)
	do(t, h, http.MethodPost, "/rosters", map[string]string{"name": "b"}, &b)
	do(t, h, http.MethodPost, "/rosters", map[string]string{"name": "c"}, &c)

	var p domain.Player
	do(t, h, http.MethodPost, "/rosters/"+a.ID+"/players", map[string]any{"nickname": "solo", "traits": []string{"LEADER"}}, &p)

	var ev domain.Event
	do(t, h, http.MethodPost, "/events", service.NewEvent{
		Name: "Duel", Type: domain.EventLeague, StartsAt: time.Now().UTC(), RoundRobinCount: 1,
		RosterIDs: []string{a.ID, b.ID},
	}, &ev)
	do(t, h, http.MethodPost, "/events/"+ev.ID+"/start", nil, &ev)
	require.Equal(t, domain.EventOngoing, ev.Status)

	var matches []domain.Match
	rec := do(t, h, http.MethodGet, "/events/"+ev.ID+"/matches", nil, &matches)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, matches, 1)
	path := "/matches/" + matches[0].ID

	rec = do(t, h, http.MethodPut, path+"/draft", map[string]any{"roster_id": c.ID}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPut, path+"/draft", map[string]any{"roster_id": a.ID, "bans": []string{"nope"}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var drafted domain.Match
	rec = do(t, h, http.MethodPut, path+"/draft", map[string]any{
		"roster_id": a.ID,
		"picks":     []map[string]any{{"player_id": p.ID, "role": "MID", "pick_order": 1}},
	}, &drafted)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, drafted.HomePicks, 1)

	rec = do(t, h, http.MethodGet, path+"/result", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var sim simulateResponse
	rec = do(t, h, http.MethodPost, path+"/simulate", nil, &sim)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, sim.Simulated)
	require.NotNil(t, sim.Result)
	assert.Equal(t, a.ID, sim.Result.WinnerRosterID, "the only fielded side wins")
	assert.Contains(t, sim.Result.Players, p.ID)

	var res domain.MatchResult
	rec = do(t, h, http.MethodGet, path+"/result", nil, &res)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sim.Result.WinnerRosterID, res.WinnerRosterID)

	sim = simulateResponse{}
	do(t, h, http.MethodPost, path+"/simulate", nil, &sim)
	assert.False(t, sim.Simulated)

	var standings []domain.Standing
	do(t, h, http.MethodGet, "/events/"+ev.ID+"/standings", nil, &standings)
	require.Len(t, standings, 2)
	assert.Equal(t, a.ID, standings[0].RosterID)
	assert.Equal(t, 1, standings[0].Wins)
}
