package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"clutch-tracker/internal/clutch"
	"clutch-tracker/internal/domain"
	"clutch-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type ClutchServer struct {
	playerSvc *service.PlayerService
	clutchSvc *service.ClutchService
	logger    zerolog.Logger
}

func NewClutchServer(playerSvc *service.PlayerService, clutchSvc *service.ClutchService, logger zerolog.Logger) *ClutchServer {
	return &ClutchServer{playerSvc: playerSvc, clutchSvc: clutchSvc, logger: logger}
}

func (s *ClutchServer) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/compare", s.handleCompare)
		r.Get("/players/suggestions", s.handleSuggestions)
		r.Get("/players/{name}/clutch", s.handlePlayerClutch)
	})
}

func (s *ClutchServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *ClutchServer) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	player1 := q.Get("player1")
	player2 := q.Get("player2")
	if player1 == "" || player2 == "" {
		s.writeError(w, http.StatusBadRequest, "missing_player", "player1 and player2 are required")
		return
	}

	strategy, err := clutch.ParseStrategy(q.Get("strategy"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_strategy", err.Error())
		return
	}

	result, err := s.clutchSvc.Compare(r.Context(), player1, player2, strategy, q.Get("refresh") == "true")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *ClutchServer) handlePlayerClutch(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	q := r.URL.Query()

	strategy, err := clutch.ParseStrategy(q.Get("strategy"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_strategy", err.Error())
		return
	}

	player, err := s.playerSvc.Resolve(r.Context(), name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	summary, err := s.clutchSvc.Summarize(r.Context(), player, strategy, q.Get("refresh") == "true")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, service.PlayerSummary{
		PlayerID: player.PlayerID,
		Name:     player.FullName,
		Summary:  summary,
	})
}

func (s *ClutchServer) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "missing_query", "q is required")
		return
	}

	players, err := s.playerSvc.Suggestions(r.Context(), query)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	type suggestion struct {
		PlayerID int64  `json:"player_id"`
		Name     string `json:"name"`
		IsActive bool   `json:"is_active"`
	}
	suggestions := make([]suggestion, len(players))
	for i, p := range players {
		suggestions[i] = suggestion{PlayerID: p.PlayerID, Name: p.FullName, IsActive: p.IsActive}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

// writeServiceError maps the domain error taxonomy onto HTTP statuses.
// Either terminal error blocks the response outright; there are no partial
// comparisons.
func (s *ClutchServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrPlayerNotFound):
		s.writeError(w, http.StatusNotFound, "player_not_found", err.Error())
	case errors.Is(err, domain.ErrNoData):
		s.writeError(w, http.StatusNotFound, "no_data", err.Error())
	case errors.Is(err, domain.ErrMalformedRecord):
		s.writeError(w, http.StatusBadGateway, "bad_upstream_data", err.Error())
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		s.writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func (s *ClutchServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *ClutchServer) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, map[string]string{"error": code, "message": message})
}
