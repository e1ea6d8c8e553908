package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"arena-league/internal/domain"
	"arena-league/internal/middleware"
	"arena-league/internal/service"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Server exposes the admin surface over the services.
type Server struct {
	matches   *service.MatchService
	events    *service.EventService
	bootcamps *service.BootcampService
	heroes    *service.HeroService
	players   *service.PlayerService
	db        *sql.DB
	logger    zerolog.Logger
}

func New(
	matches *service.MatchService,
	events *service.EventService,
	bootcamps *service.BootcampService,
	heroes *service.HeroService,
	players *service.PlayerService,
	db *sql.DB,
	logger zerolog.Logger,
) *Server {
	return &Server{
		matches:   matches,
		events:    events,
		bootcamps: bootcamps,
		heroes:    heroes,
		players:   players,
		db:        db,
		logger:    logger,
	}
}

// Handler returns the routes wrapped in request ids and CORS.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return middleware.RequestID(s.logger)(c.Handler(s.Routes()))
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.health)
	mux.HandleFunc("GET /heroes", s.listHeroes)

	mux.HandleFunc("POST /rosters", s.createRoster)
	mux.HandleFunc("GET /rosters/{id}", s.getRoster)
	mux.HandleFunc("POST /rosters/{id}/players", s.signPlayer)
	mux.HandleFunc("POST /rosters/{id}/bootcamp", s.startBootcamp)
	mux.HandleFunc("DELETE /rosters/{id}/bootcamp", s.stopBootcamp)

	mux.HandleFunc("POST /events", s.createEvent)
	mux.HandleFunc("POST /events/{id}/start", s.startEvent)
	mux.HandleFunc("POST /events/{id}/finish", s.finishEvent)
	mux.HandleFunc("GET /events/{id}/standings", s.standings)
	mux.HandleFunc("GET /events/{id}/matches", s.eventMatches)

	mux.HandleFunc("POST /matches/{id}/simulate", s.simulate)
	mux.HandleFunc("PUT /matches/{id}/draft", s.updateDraft)
	mux.HandleFunc("GET /matches/{id}/result", s.result)

	return mux
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("database ping failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listHeroes(w http.ResponseWriter, r *http.Request) {
	heroes, err := s.heroes.Catalog(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, heroes)
}

func (s *Server) createRoster(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		OwnerID string `json:"owner_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	roster, err := s.players.CreateRoster(r.Context(), req.Name, req.OwnerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, roster)
}

func (s *Server) getRoster(w http.ResponseWriter, r *http.Request) {
	roster, err := s.players.Roster(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

func (s *Server) signPlayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nickname string         `json:"nickname"`
		Traits   []domain.Trait `json:"traits"`
	}
	if !decode(w, r, &req) {
		return
	}
	p, err := s.players.SignPlayer(r.Context(), r.PathValue("id"), req.Nickname, req.Traits)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) startBootcamp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Configs []domain.TrainingConfig `json:"configs"`
	}
	if !decode(w, r, &req) {
		return
	}
	session, err := s.bootcamps.Start(r.Context(), r.PathValue("id"), req.Configs, time.Now().UTC())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) stopBootcamp(w http.ResponseWriter, r *http.Request) {
	if err := s.bootcamps.Stop(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var req service.NewEvent
	if !decode(w, r, &req) {
		return
	}
	ev, err := s.events.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

func (s *Server) startEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := s.events.Start(r.Context(), r.PathValue("id"), time.Now().UTC())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) finishEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := s.events.Finish(r.Context(), r.PathValue("id"), time.Now().UTC())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) standings(w http.ResponseWriter, r *http.Request) {
	standings, err := s.events.Standings(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

func (s *Server) eventMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.events.Matches(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

type simulateResponse struct {
	Simulated bool                `json:"simulated"`
	Result    *domain.MatchResult `json:"result,omitempty"`
}

func (s *Server) simulate(w http.ResponseWriter, r *http.Request) {
	res, err := s.matches.Simulate(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, simulateResponse{Simulated: res != nil, Result: res})
}

func (s *Server) updateDraft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RosterID string `json:"roster_id"`
		service.DraftUpdate
	}
	if !decode(w, r, &req) {
		return
	}
	m, err := s.matches.UpdateDraft(r.Context(), r.PathValue("id"), req.RosterID, req.DraftUpdate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) result(w http.ResponseWriter, r *http.Request) {
	res, err := s.matches.Result(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, r, fmt.Errorf("%w: malformed body: %v", domain.ErrValidation, err))
		return false
	}
	return true
}

// StatusFor maps the domain error taxonomy onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPrecondition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg, RequestID: middleware.GetRequestID(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
