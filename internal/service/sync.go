package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"league-companion/internal/api"
	"league-companion/internal/constants"
	"league-companion/internal/domain"
	"league-companion/internal/repository"
)

// SyncService pulls recent matches and current ranks from the Riot API
// into the local store, per tracked account.
type SyncService struct {
	riot         *api.RiotClient
	matches      *repository.MatchRepository
	participants *repository.ParticipantRepository
	snapshots    *repository.SnapshotRepository
	logger       zerolog.Logger
}

func NewSyncService(
	riot *api.RiotClient,
	matches *repository.MatchRepository,
	participants *repository.ParticipantRepository,
	snapshots *repository.SnapshotRepository,
	logger zerolog.Logger,
) *SyncService {
	return &SyncService{
		riot:         riot,
		matches:      matches,
		participants: participants,
		snapshots:    snapshots,
		logger:       logger,
	}
}

// SyncMatches fetches and stores matches started after `since` for every
// linked account on the server. Returns the number of new matches stored.
func (s *SyncService) SyncMatches(ctx context.Context, serverID string, since time.Time) (int, error) {
	roster, err := s.participants.ListByServer(ctx, serverID)
	if err != nil {
		return 0, fmt.Errorf("failed to load roster: %w", err)
	}

	var mu sync.Mutex
	var fetched []domain.RawMatch
	seen := make(map[string]struct{})

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(constants.SyncConcurrency)

	for _, p := range roster {
		for _, account := range p.Accounts {
			account := account
			g.Go(func() error {
				ids, err := s.riot.GetMatchIDs(gCtx, account.Region, account.AccountID, since, constants.MatchIDFetchCount)
				if err != nil {
					return fmt.Errorf("failed to fetch match ids for %s: %w", account.AccountID, err)
				}
				for _, id := range ids {
					mu.Lock()
					_, dup := seen[id]
					if !dup {
						seen[id] = struct{}{}
					}
					mu.Unlock()
					if dup {
						continue
					}

					stored, err := s.matches.HasMatch(gCtx, id)
					if err != nil {
						return err
					}
					if stored {
						continue
					}

					resp, err := s.riot.GetMatch(gCtx, account.Region, id)
					if err != nil {
						return fmt.Errorf("failed to fetch match %s: %w", id, err)
					}

					mu.Lock()
					fetched = append(fetched, convertMatch(resp))
					mu.Unlock()
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	if err := s.matches.UpsertBatch(ctx, fetched); err != nil {
		return 0, fmt.Errorf("failed to store matches: %w", err)
	}

	s.logger.Info().
		Str("server_id", serverID).
		Int("new_matches", len(fetched)).
		Msg("match sync complete")
	return len(fetched), nil
}

// CaptureSnapshots records the current solo/flex ranks of every
// participant on the server. Across multiple accounts the best rank per
// queue wins, matching how participant stats union across accounts.
func (s *SyncService) CaptureSnapshots(ctx context.Context, serverID string) error {
	roster, err := s.participants.ListByServer(ctx, serverID)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	takenAt := time.Now().UTC()
	for _, p := range roster {
		var snap domain.RankSnapshot
		for _, account := range p.Accounts {
			entries, err := s.riot.GetLeagueEntries(ctx, account.Region, account.AccountID)
			if err != nil {
				s.logger.Warn().Err(err).Str("account_id", account.AccountID).Msg("failed to fetch league entries, skipping account")
				continue
			}
			for _, entry := range entries {
				rank := convertLeagueEntry(entry)
				switch entry.QueueType {
				case "RANKED_SOLO_5x5":
					if snap.Solo == nil || rank.TotalPoints() > snap.Solo.TotalPoints() {
						snap.Solo = &rank
					}
				case "RANKED_FLEX_SR":
					if snap.Flex == nil || rank.TotalPoints() > snap.Flex.TotalPoints() {
						snap.Flex = &rank
					}
				}
			}
		}
		if snap.Solo == nil && snap.Flex == nil {
			continue
		}
		if err := s.snapshots.Insert(ctx, serverID, p.ID, snap, takenAt); err != nil {
			return fmt.Errorf("failed to store snapshot for %s: %w", p.ID, err)
		}
	}

	s.logger.Info().Str("server_id", serverID).Msg("rank snapshots captured")
	return nil
}

func convertMatch(resp *api.MatchResponse) domain.RawMatch {
	m := domain.RawMatch{
		MatchID:    resp.Metadata.MatchID,
		QueueID:    resp.Info.QueueID,
		Duration:   resp.Info.GameDuration,
		StartedAt:  time.UnixMilli(resp.Info.GameStartTimestamp).UTC(),
		AccountIDs: resp.Metadata.Participants,
	}
	for _, p := range resp.Info.Participants {
		m.Participants = append(m.Participants, domain.MatchParticipant{
			AccountID:   p.Puuid,
			ChampionID:  p.ChampionID,
			Win:         p.Win,
			Surrendered: p.GameEndedInSurrender || p.GameEndedInEarlySurrender,
		})
	}
	return m
}

func convertLeagueEntry(entry api.LeagueEntry) domain.Rank {
	rank := domain.Rank{
		Tier:         domain.TierFromString(entry.Tier),
		Division:     domain.DivisionFromString(entry.Rank),
		LeaguePoints: entry.LeaguePoints,
		Wins:         entry.Wins,
		Losses:       entry.Losses,
	}
	// Apex tiers carry no divisions.
	if rank.Tier >= domain.TierMaster {
		rank.Division = 1
	}
	return rank
}
