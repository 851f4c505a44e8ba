package competition

import (
	"errors"
	"fmt"
	"sort"

	"league-companion/internal/domain"
)

// ErrSnapshotRequired is returned when a rank-based criteria is invoked
// without the snapshot maps it needs. This is a caller contract
// violation, not a recoverable condition.
var ErrSnapshotRequired = errors.New("criteria requires rank snapshots")

// Snapshots bundles the rank-snapshot maps a scoring run may need. The
// engine never fetches these itself; the caller supplies them.
type Snapshots struct {
	Current     domain.RankSnapshotSet
	PeriodStart domain.RankSnapshotSet
	PeriodEnd   domain.RankSnapshotSet
}

// Score produces the ordered leaderboard for a criteria over the given
// matches and roster. The returned order is the authoritative ranking.
// Ties keep roster order, so identical inputs always produce identical
// output.
func Score(c Criteria, matches []domain.RawMatch, participants []domain.Participant, snaps *Snapshots) ([]domain.LeaderboardEntry, error) {
	switch crit := c.(type) {
	case MostGamesPlayed:
		return scoreMostGames(crit, matches, participants), nil
	case HighestRank:
		if snaps == nil || snaps.Current == nil {
			return nil, fmt.Errorf("%w: %s needs a current snapshot set", ErrSnapshotRequired, crit)
		}
		return scoreHighestRank(crit, participants, snaps.Current), nil
	case MostRankClimb:
		if snaps == nil || snaps.PeriodStart == nil || snaps.PeriodEnd == nil {
			return nil, fmt.Errorf("%w: %s needs period-start and period-end snapshot sets", ErrSnapshotRequired, crit)
		}
		return scoreRankClimb(crit, participants, snaps.PeriodStart, snaps.PeriodEnd), nil
	case MostWinsPlayer:
		return scoreMostWins(crit.Queue, -1, matches, participants), nil
	case MostWinsChampion:
		return scoreMostWins(crit.Queue, crit.ChampionID, matches, participants), nil
	case HighestWinRate:
		return scoreWinRate(crit, matches, participants), nil
	default:
		// A new criteria variant without a branch here is a programming
		// error and must never score as an empty leaderboard.
		return nil, fmt.Errorf("unhandled criteria variant %T", c)
	}
}

func scoreMostGames(c MostGamesPlayed, matches []domain.RawMatch, participants []domain.Participant) []domain.LeaderboardEntry {
	entries := make([]domain.LeaderboardEntry, 0, len(participants))
	for _, p := range participants {
		accounts := p.AccountIDs()
		count := 0
		for _, m := range matches {
			if !c.Queue.Allows(m.Queue()) {
				continue
			}
			if m.HasAccount(accounts...) {
				count++
			}
		}
		entries = append(entries, domain.LeaderboardEntry{
			ParticipantID: p.ID,
			DisplayName:   p.DisplayName,
			Score:         float64(count),
			Metadata:      domain.EntryMetadata{Games: count},
			ExternalID:    p.ExternalID,
		})
	}
	sortByScore(entries)
	return entries
}

func scoreHighestRank(c HighestRank, participants []domain.Participant, current domain.RankSnapshotSet) []domain.LeaderboardEntry {
	queue := c.Queue.SnapshotQueue()
	entries := make([]domain.LeaderboardEntry, 0, len(participants))
	for _, p := range participants {
		rank, ok := current.RankFor(p.ID, queue)
		if !ok {
			rank = domain.FloorRank()
		}
		points := rank.TotalPoints()
		r := rank
		entries = append(entries, domain.LeaderboardEntry{
			ParticipantID: p.ID,
			DisplayName:   p.DisplayName,
			Score:         float64(points),
			Rank:          &r,
			Metadata:      domain.EntryMetadata{LeaguePoints: points},
			ExternalID:    p.ExternalID,
		})
	}
	sortByScore(entries)
	return entries
}

func scoreRankClimb(c MostRankClimb, participants []domain.Participant, start, end domain.RankSnapshotSet) []domain.LeaderboardEntry {
	queue := c.Queue.SnapshotQueue()
	entries := make([]domain.LeaderboardEntry, 0, len(participants))
	for _, p := range participants {
		startRank, ok := start.RankFor(p.ID, queue)
		if !ok {
			continue // climb is only meaningful with both endpoints
		}
		endRank, ok := end.RankFor(p.ID, queue)
		if !ok {
			continue
		}
		startPoints := startRank.TotalPoints()
		endPoints := endRank.TotalPoints()
		entries = append(entries, domain.LeaderboardEntry{
			ParticipantID: p.ID,
			DisplayName:   p.DisplayName,
			Score:         float64(endPoints - startPoints),
			Metadata: domain.EntryMetadata{
				StartPoints: startPoints,
				EndPoints:   endPoints,
			},
			ExternalID: p.ExternalID,
		})
	}
	sortByScore(entries)
	return entries
}

// scoreMostWins covers both the player and champion variants; a negative
// championID means no champion restriction.
func scoreMostWins(queue QueueFilter, championID int, matches []domain.RawMatch, participants []domain.Participant) []domain.LeaderboardEntry {
	entries := make([]domain.LeaderboardEntry, 0, len(participants))
	for _, p := range participants {
		wins, losses := tallyParticipations(queue, championID, matches, p)
		meta := domain.EntryMetadata{Wins: wins, Losses: losses, Games: wins + losses}
		if championID >= 0 {
			meta.ChampionID = championID
			meta.ChampionGames = wins + losses
		}
		entries = append(entries, domain.LeaderboardEntry{
			ParticipantID: p.ID,
			DisplayName:   p.DisplayName,
			Score:         float64(wins),
			Metadata:      meta,
			ExternalID:    p.ExternalID,
		})
	}
	sortByScore(entries)
	return entries
}

func scoreWinRate(c HighestWinRate, matches []domain.RawMatch, participants []domain.Participant) []domain.LeaderboardEntry {
	entries := make([]domain.LeaderboardEntry, 0, len(participants))
	for _, p := range participants {
		wins, losses := tallyParticipations(c.Queue, -1, matches, p)
		games := wins + losses
		if games < c.MinGames {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			ParticipantID: p.ID,
			DisplayName:   p.DisplayName,
			Score:         float64(wins) / float64(games),
			Metadata:      domain.EntryMetadata{Wins: wins, Losses: losses, Games: games},
			ExternalID:    p.ExternalID,
		})
	}
	sortByScore(entries)
	return entries
}

// tallyParticipations counts wins and losses across all of a
// participant's linked accounts in queue-matching games, optionally
// restricted to one champion.
func tallyParticipations(queue QueueFilter, championID int, matches []domain.RawMatch, p domain.Participant) (wins, losses int) {
	accounts := make(map[string]struct{}, len(p.Accounts))
	for _, a := range p.Accounts {
		accounts[a.AccountID] = struct{}{}
	}
	for _, m := range matches {
		if !queue.Allows(m.Queue()) {
			continue
		}
		for _, mp := range m.Participants {
			if _, ok := accounts[mp.AccountID]; !ok {
				continue
			}
			if championID >= 0 && mp.ChampionID != championID {
				continue
			}
			if mp.Win {
				wins++
			} else {
				losses++
			}
		}
	}
	return wins, losses
}

// sortByScore orders entries descending by score. The stable sort keeps
// roster order among ties.
func sortByScore(entries []domain.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
}
