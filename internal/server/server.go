package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"league-companion/internal/api"
	"league-companion/internal/competition"
	"league-companion/internal/domain"
	"league-companion/internal/pairing"
	"league-companion/internal/repository"
	"league-companion/internal/service"
)

// Server exposes the analytics core over HTTP.
type Server struct {
	rosterSvc      *service.RosterService
	competitionSvc *service.CompetitionService
	reportSvc      *service.ReportService
	syncSvc        *service.SyncService
	riot           *api.RiotClient
	logger         zerolog.Logger
}

func NewServer(
	rosterSvc *service.RosterService,
	competitionSvc *service.CompetitionService,
	reportSvc *service.ReportService,
	syncSvc *service.SyncService,
	riot *api.RiotClient,
	logger zerolog.Logger,
) *Server {
	return &Server{
		rosterSvc:      rosterSvc,
		competitionSvc: competitionSvc,
		reportSvc:      reportSvc,
		syncSvc:        syncSvc,
		riot:           riot,
		logger:         logger,
	}
}

// Routes registers all handlers on a chi router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/servers/{serverID}", func(r chi.Router) {
			r.Get("/participants", s.handleListParticipants)
			r.Post("/participants", s.handleRegisterParticipant)
			r.Get("/leaderboard", s.handleLeaderboard)
			r.Get("/pairings", s.handlePairings)
			r.Post("/reports/weekly", s.handleWeeklyReport)
			r.Post("/sync", s.handleSync)
		})
		r.Route("/participants/{participantID}", func(r chi.Router) {
			r.Get("/", s.handleGetParticipant)
			r.Post("/accounts", s.handleLinkAccount)
		})
		r.Route("/reports", func(r chi.Router) {
			r.Get("/status", s.handleReportStatus)
			r.Delete("/running", s.handleReportCancel)
		})
		r.Get("/riot/rate-limit", s.handleRiotRateLimit)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type registerParticipantRequest struct {
	DisplayName string               `json:"displayName"`
	ExternalID  string               `json:"externalId"`
	Accounts    []accountLinkRequest `json:"accounts"`
}

type accountLinkRequest struct {
	AccountID string `json:"accountId"`
	Region    string `json:"region"`
}

func (req accountLinkRequest) validate() error {
	if req.AccountID == "" {
		return errors.New("accountId is required")
	}
	if req.Region == "" {
		return errors.New("region is required")
	}
	return nil
}

func decodeRegisterParticipant(r *http.Request) (registerParticipantRequest, error) {
	var req registerParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, errors.New("invalid request body")
	}
	if req.DisplayName == "" {
		return req, errors.New("displayName is required")
	}
	for _, a := range req.Accounts {
		if err := a.validate(); err != nil {
			return req, err
		}
	}
	return req, nil
}

func decodeLinkAccount(r *http.Request) (accountLinkRequest, error) {
	var req accountLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, errors.New("invalid request body")
	}
	return req, req.validate()
}

func (s *Server) handleRegisterParticipant(w http.ResponseWriter, r *http.Request) {
	serverID := chi.URLParam(r, "serverID")

	req, err := decodeRegisterParticipant(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	accounts := make([]domain.LinkedAccount, 0, len(req.Accounts))
	for _, a := range req.Accounts {
		accounts = append(accounts, domain.LinkedAccount{AccountID: a.AccountID, Region: a.Region})
	}

	p, err := s.rosterSvc.Register(r.Context(), serverID, req.DisplayName, req.ExternalID, accounts)
	if err != nil {
		s.logger.Error().Err(err).Str("server_id", serverID).Msg("participant registration failed")
		s.writeError(w, http.StatusInternalServerError, "failed to register participant")
		return
	}
	s.writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleListParticipants(w http.ResponseWriter, r *http.Request) {
	serverID := chi.URLParam(r, "serverID")

	roster, err := s.rosterSvc.Roster(r.Context(), serverID)
	if err != nil {
		s.logger.Error().Err(err).Str("server_id", serverID).Msg("roster listing failed")
		s.writeError(w, http.StatusInternalServerError, "failed to list participants")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"participants": roster})
}

func (s *Server) handleGetParticipant(w http.ResponseWriter, r *http.Request) {
	participantID := chi.URLParam(r, "participantID")

	p, err := s.rosterSvc.Get(r.Context(), participantID)
	if errors.Is(err, repository.ErrParticipantNotFound) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Str("participant_id", participantID).Msg("participant lookup failed")
		s.writeError(w, http.StatusInternalServerError, "failed to load participant")
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleLinkAccount(w http.ResponseWriter, r *http.Request) {
	participantID := chi.URLParam(r, "participantID")

	req, err := decodeLinkAccount(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := s.rosterSvc.LinkAccount(r.Context(), participantID, req.AccountID, req.Region)
	if errors.Is(err, repository.ErrParticipantNotFound) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Str("participant_id", participantID).Msg("account link failed")
		s.writeError(w, http.StatusInternalServerError, "failed to link account")
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleRiotRateLimit(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.riot.GetRateLimitInfo())
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	serverID := chi.URLParam(r, "serverID")

	criteria, err := criteriaFromQuery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	start, end, err := periodFromQuery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := s.competitionSvc.Leaderboard(r.Context(), serverID, criteria, start, end)
	if errors.Is(err, competition.ErrSnapshotRequired) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Str("server_id", serverID).Msg("leaderboard scoring failed")
		s.writeError(w, http.StatusInternalServerError, "failed to score leaderboard")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"criteria": criteria.String(),
		"entries":  entries,
	})
}

func (s *Server) handlePairings(w http.ResponseWriter, r *http.Request) {
	serverID := chi.URLParam(r, "serverID")

	category := domain.GameModeCategory(r.URL.Query().Get("mode"))
	if category == "" {
		category = domain.ModeRanked
	}
	if !category.IsValid() {
		s.writeError(w, http.StatusBadRequest, "unknown game mode category")
		return
	}
	start, end, err := periodFromQuery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := s.reportSvc.CalculatePairings(r.Context(), serverID, category, start, end)
	if errors.Is(err, pairing.ErrReportInProgress) {
		s.writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Str("server_id", serverID).Msg("pairing calculation failed")
		s.writeError(w, http.StatusInternalServerError, "failed to calculate pairings")
		return
	}

	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleWeeklyReport(w http.ResponseWriter, r *http.Request) {
	serverID := chi.URLParam(r, "serverID")

	year, week := pairing.WeekOf(time.Now().UTC().AddDate(0, 0, -7))
	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = parsed
	}
	if v := r.URL.Query().Get("week"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 53 {
			s.writeError(w, http.StatusBadRequest, "invalid week")
			return
		}
		week = parsed
	}

	report, err := s.reportSvc.GenerateWeeklyReport(r.Context(), serverID, year, week)
	if errors.Is(err, pairing.ErrReportInProgress) {
		s.writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Str("server_id", serverID).Msg("weekly report failed")
		s.writeError(w, http.StatusInternalServerError, "failed to generate weekly report")
		return
	}

	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	serverID := chi.URLParam(r, "serverID")

	since := time.Now().UTC().AddDate(0, 0, -7)
	if v := r.URL.Query().Get("since"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid since timestamp, want RFC3339")
			return
		}
		since = parsed
	}

	count, err := s.syncSvc.SyncMatches(r.Context(), serverID, since)
	if err != nil {
		s.logger.Error().Err(err).Str("server_id", serverID).Msg("match sync failed")
		s.writeError(w, http.StatusInternalServerError, "failed to sync matches")
		return
	}
	if err := s.syncSvc.CaptureSnapshots(r.Context(), serverID); err != nil {
		s.logger.Error().Err(err).Str("server_id", serverID).Msg("snapshot capture failed")
		s.writeError(w, http.StatusInternalServerError, "failed to capture snapshots")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]int{"newMatches": count})
}

func (s *Server) handleReportStatus(w http.ResponseWriter, _ *http.Request) {
	running, elapsed := s.reportSvc.Guard().Status()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"running":        running,
		"elapsedSeconds": int(elapsed.Seconds()),
	})
}

func (s *Server) handleReportCancel(w http.ResponseWriter, _ *http.Request) {
	running, _ := s.reportSvc.Guard().Status()
	if !running {
		s.writeError(w, http.StatusNotFound, "no report is running")
		return
	}
	s.reportSvc.Guard().Cancel()
	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "cancellation requested"})
}

// criteriaFromQuery builds a competition criteria from query parameters.
// Unknown names or bad parameters are rejected here, at the boundary.
func criteriaFromQuery(r *http.Request) (competition.Criteria, error) {
	q := r.URL.Query()

	queue := competition.QueueFilter(q.Get("queue"))
	if queue == "" {
		queue = competition.QueueFilterAll
	}
	if !queue.IsValid() {
		return nil, errors.New("unknown queue filter")
	}

	switch q.Get("criteria") {
	case "most_games_played":
		return competition.MostGamesPlayed{Queue: queue}, nil
	case "highest_rank":
		return competition.HighestRank{Queue: queue}, nil
	case "most_rank_climb":
		return competition.MostRankClimb{Queue: queue}, nil
	case "most_wins_player":
		return competition.MostWinsPlayer{Queue: queue}, nil
	case "most_wins_champion":
		championID, err := strconv.Atoi(q.Get("championId"))
		if err != nil || championID < 0 {
			return nil, errors.New("most_wins_champion requires a valid championId")
		}
		return competition.MostWinsChampion{ChampionID: championID, Queue: queue}, nil
	case "highest_win_rate":
		minGames, err := strconv.Atoi(q.Get("minGames"))
		if err != nil || minGames < 1 {
			return nil, errors.New("highest_win_rate requires a positive minGames")
		}
		return competition.HighestWinRate{MinGames: minGames, Queue: queue}, nil
	default:
		return nil, errors.New("unknown criteria")
	}
}

func periodFromQuery(r *http.Request) (start, end time.Time, err error) {
	q := r.URL.Query()

	end = time.Now().UTC()
	start = end.AddDate(0, 0, -7)

	if v := q.Get("start"); v != "" {
		start, err = time.Parse(time.RFC3339, v)
		if err != nil {
			return start, end, errors.New("invalid start timestamp, want RFC3339")
		}
	}
	if v := q.Get("end"); v != "" {
		end, err = time.Parse(time.RFC3339, v)
		if err != nil {
			return start, end, errors.New("invalid end timestamp, want RFC3339")
		}
	}
	if end.Before(start) {
		return start, end, errors.New("end must not be before start")
	}
	return start, end, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
