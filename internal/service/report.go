package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"league-companion/internal/constants"
	"league-companion/internal/domain"
	"league-companion/internal/pairing"
	"league-companion/internal/repository"
)

// WeeklyReport bundles the per-category pairing stats of one ISO week.
type WeeklyReport struct {
	Year   int                        `json:"year"`
	Week   int                        `json:"week"`
	Ranked *domain.ServerPairingStats `json:"ranked"`
	Arena  *domain.ServerPairingStats `json:"arena"`
	ARAM   *domain.ServerPairingStats `json:"aram"`
}

// ReportService drives pairing report runs: single-flight guarding,
// weekly caching, and the concurrent per-category calculations.
type ReportService struct {
	engine       *pairing.Engine
	cache        *pairing.WeeklyCache
	guard        *pairing.Guard
	participants *repository.ParticipantRepository
	logger       zerolog.Logger
}

func NewReportService(
	engine *pairing.Engine,
	cache *pairing.WeeklyCache,
	guard *pairing.Guard,
	participants *repository.ParticipantRepository,
	logger zerolog.Logger,
) *ReportService {
	return &ReportService{
		engine:       engine,
		cache:        cache,
		guard:        guard,
		participants: participants,
		logger:       logger,
	}
}

// Guard exposes the single-flight state for status and cancel endpoints.
func (s *ReportService) Guard() *pairing.Guard {
	return s.guard
}

// GenerateWeeklyReport computes the three game-mode reports for one ISO
// week. At most one report run is active per process; a second attempt
// is rejected with pairing.ErrReportInProgress. The ranked report, the
// weekly report product, is served from and written to the immutable
// weekly cache.
func (s *ReportService) GenerateWeeklyReport(ctx context.Context, serverID string, year, week int) (*WeeklyReport, error) {
	runCtx, err := s.guard.Start(ctx)
	if err != nil {
		return nil, err
	}
	defer s.guard.Finish()

	runCtx, cancel := context.WithTimeout(runCtx, constants.ReportTimeout)
	defer cancel()

	players, err := s.participants.ListByServer(runCtx, serverID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	start := pairing.WeekStart(year, week)
	end := pairing.WeekEnd(year, week)

	// Cancellation is cooperative: check between the roster load and the
	// expensive calculations.
	if err := runCtx.Err(); err != nil {
		return nil, err
	}

	report := &WeeklyReport{Year: year, Week: week}

	// The three categories share no mutable state and run concurrently.
	g, gCtx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		if cached, ok := s.cache.Load(gCtx, serverID, year, week); ok {
			report.Ranked = cached
			return nil
		}
		stats, err := s.engine.Calculate(gCtx, players, start, end, serverID, domain.ModeRanked)
		if err != nil {
			return err
		}
		s.cache.Save(gCtx, stats, year, week)
		report.Ranked = stats
		return nil
	})
	g.Go(func() error {
		stats, err := s.engine.Calculate(gCtx, players, start, end, serverID, domain.ModeArena)
		if err != nil {
			return err
		}
		report.Arena = stats
		return nil
	})
	g.Go(func() error {
		stats, err := s.engine.Calculate(gCtx, players, start, end, serverID, domain.ModeARAM)
		if err != nil {
			return err
		}
		report.ARAM = stats
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("server_id", serverID).
		Int("year", year).
		Int("week", week).
		Msg("weekly report generated")
	return report, nil
}

// CalculatePairings runs a single on-demand pairing calculation for an
// arbitrary period and category, bypassing the weekly cache.
func (s *ReportService) CalculatePairings(ctx context.Context, serverID string, category domain.GameModeCategory, start, end time.Time) (*domain.ServerPairingStats, error) {
	runCtx, err := s.guard.Start(ctx)
	if err != nil {
		return nil, err
	}
	defer s.guard.Finish()

	runCtx, cancel := context.WithTimeout(runCtx, constants.ReportTimeout)
	defer cancel()

	players, err := s.participants.ListByServer(runCtx, serverID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	return s.engine.Calculate(runCtx, players, start, end, serverID, category)
}
