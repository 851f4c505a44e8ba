package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"league-companion/internal/competition"
	"league-companion/internal/domain"
	"league-companion/internal/repository"
)

// CompetitionService assembles the inputs of a scoring run (roster,
// matches, snapshots) and hands them to the scoring engine.
type CompetitionService struct {
	matches      *repository.MatchRepository
	participants *repository.ParticipantRepository
	snapshots    *repository.SnapshotRepository
	logger       zerolog.Logger
}

func NewCompetitionService(
	matches *repository.MatchRepository,
	participants *repository.ParticipantRepository,
	snapshots *repository.SnapshotRepository,
	logger zerolog.Logger,
) *CompetitionService {
	return &CompetitionService{
		matches:      matches,
		participants: participants,
		snapshots:    snapshots,
		logger:       logger,
	}
}

// Leaderboard scores a criteria over a server's roster for the period
// [start, end]. Snapshot sets are loaded for the period endpoints and
// the present; which ones the criteria consumes is its own business.
func (s *CompetitionService) Leaderboard(ctx context.Context, serverID string, c competition.Criteria, start, end time.Time) ([]domain.LeaderboardEntry, error) {
	roster, err := s.participants.ListByServer(ctx, serverID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	var accountIDs []string
	for _, p := range roster {
		accountIDs = append(accountIDs, p.AccountIDs()...)
	}

	matches, err := s.matches.QueryByDateRange(ctx, start, end, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}

	current, err := s.snapshots.CurrentSet(ctx, serverID)
	if err != nil {
		return nil, fmt.Errorf("failed to load current snapshots: %w", err)
	}
	periodStart, err := s.snapshots.SetAt(ctx, serverID, start)
	if err != nil {
		return nil, fmt.Errorf("failed to load period-start snapshots: %w", err)
	}
	periodEnd, err := s.snapshots.SetAt(ctx, serverID, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load period-end snapshots: %w", err)
	}

	snaps := &competition.Snapshots{
		Current:     current,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
	}

	entries, err := competition.Score(c, matches, roster, snaps)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("server_id", serverID).
		Str("criteria", c.String()).
		Int("participants", len(roster)).
		Int("matches", len(matches)).
		Int("entries", len(entries)).
		Msg("leaderboard scored")
	return entries, nil
}
