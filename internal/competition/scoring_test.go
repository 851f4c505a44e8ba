package competition_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"league-companion/internal/competition"
	"league-companion/internal/domain"
)

func participant(id, name string, accountIDs ...string) domain.Participant {
	p := domain.Participant{ID: id, DisplayName: name}
	for _, a := range accountIDs {
		p.Accounts = append(p.Accounts, domain.LinkedAccount{AccountID: a, Region: "euw1"})
	}
	return p
}

func match(id string, queueID int, participants ...domain.MatchParticipant) domain.RawMatch {
	m := domain.RawMatch{
		MatchID:      id,
		QueueID:      queueID,
		Duration:     1800,
		StartedAt:    time.Now(),
		Participants: participants,
	}
	for _, p := range participants {
		m.AccountIDs = append(m.AccountIDs, p.AccountID)
	}
	return m
}

func TestMostGamesPlayedQueueFilter(t *testing.T) {
	// 2 solo + 2 arena matches; only A appears in the solo ones.
	a := participant("pa", "A", "acc-a")
	b := participant("pb", "B", "acc-b")
	matches := []domain.RawMatch{
		match("m1", domain.QueueIDSolo, domain.MatchParticipant{AccountID: "acc-a", Win: true}),
		match("m2", domain.QueueIDSolo, domain.MatchParticipant{AccountID: "acc-a", Win: false}),
		match("m3", domain.QueueIDArena, domain.MatchParticipant{AccountID: "acc-a", Win: true}, domain.MatchParticipant{AccountID: "acc-b", Win: true}),
		match("m4", domain.QueueIDArena, domain.MatchParticipant{AccountID: "acc-b", Win: false}),
	}

	entries, err := competition.Score(competition.MostGamesPlayed{Queue: competition.QueueFilterSolo}, matches, []domain.Participant{a, b}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "pa", entries[0].ParticipantID)
	assert.Equal(t, 2.0, entries[0].Score)
	assert.Equal(t, "pb", entries[1].ParticipantID)
	assert.Equal(t, 0.0, entries[1].Score)
}

func TestMostGamesPlayedCountsMatchOncePerParticipant(t *testing.T) {
	// Two linked accounts in the same match still count it once, and the
	// count is invariant under account ordering.
	p1 := participant("p1", "Smurf", "main", "alt")
	p2 := participant("p1", "Smurf", "alt", "main")
	matches := []domain.RawMatch{
		match("m1", domain.QueueIDSolo,
			domain.MatchParticipant{AccountID: "main", Win: true},
			domain.MatchParticipant{AccountID: "alt", Win: true}),
	}

	for _, p := range []domain.Participant{p1, p2} {
		entries, err := competition.Score(competition.MostGamesPlayed{Queue: competition.QueueFilterSolo}, matches, []domain.Participant{p}, nil)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, 1.0, entries[0].Score)
	}
}

func TestMostGamesPlayedRankedAny(t *testing.T) {
	a := participant("pa", "A", "acc-a")
	matches := []domain.RawMatch{
		match("m1", domain.QueueIDSolo, domain.MatchParticipant{AccountID: "acc-a", Win: true}),
		match("m2", domain.QueueIDFlex, domain.MatchParticipant{AccountID: "acc-a", Win: true}),
		match("m3", domain.QueueIDARAM, domain.MatchParticipant{AccountID: "acc-a", Win: true}),
	}

	entries, err := competition.Score(competition.MostGamesPlayed{Queue: competition.QueueFilterRankedAny}, matches, []domain.Participant{a}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2.0, entries[0].Score)

	entries, err = competition.Score(competition.MostGamesPlayed{Queue: competition.QueueFilterAll}, matches, []domain.Participant{a}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3.0, entries[0].Score)
}

func TestHighestRankUsesFloorForMissingSnapshot(t *testing.T) {
	a := participant("pa", "A", "acc-a")
	b := participant("pb", "B", "acc-b")
	gold := domain.Rank{Tier: domain.TierGold, Division: 2, LeaguePoints: 40}
	snaps := &competition.Snapshots{
		Current: domain.RankSnapshotSet{
			"pa": {Solo: &gold},
		},
	}

	entries, err := competition.Score(competition.HighestRank{Queue: competition.QueueFilterSolo}, nil, []domain.Participant{b, a}, snaps)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "pa", entries[0].ParticipantID)
	require.NotNil(t, entries[0].Rank)
	assert.Equal(t, gold, *entries[0].Rank)
	assert.Equal(t, gold.TotalPoints(), entries[0].Metadata.LeaguePoints)

	assert.Equal(t, "pb", entries[1].ParticipantID)
	require.NotNil(t, entries[1].Rank)
	assert.Equal(t, domain.FloorRank(), *entries[1].Rank)
}

func TestHighestRankRequiresSnapshots(t *testing.T) {
	_, err := competition.Score(competition.HighestRank{Queue: competition.QueueFilterSolo}, nil, nil, nil)
	assert.ErrorIs(t, err, competition.ErrSnapshotRequired)
}

func TestMostRankClimbExcludesMissingEndpoints(t *testing.T) {
	a := participant("pa", "A", "acc-a")
	b := participant("pb", "B", "acc-b")
	c := participant("pc", "C", "acc-c")

	silver := domain.Rank{Tier: domain.TierSilver, Division: 3, LeaguePoints: 10}
	gold := domain.Rank{Tier: domain.TierGold, Division: 4, LeaguePoints: 20}
	snaps := &competition.Snapshots{
		PeriodStart: domain.RankSnapshotSet{
			"pa": {Solo: &silver},
			"pb": {Solo: &silver},
			// pc has no start snapshot
		},
		PeriodEnd: domain.RankSnapshotSet{
			"pa": {Solo: &gold},
			"pb": {Flex: &gold}, // no end rank for solo
			"pc": {Solo: &gold},
		},
	}

	entries, err := competition.Score(competition.MostRankClimb{Queue: competition.QueueFilterSolo}, nil, []domain.Participant{a, b, c}, snaps)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "pa", entries[0].ParticipantID)
	assert.Equal(t, float64(gold.TotalPoints()-silver.TotalPoints()), entries[0].Score)
	assert.Equal(t, silver.TotalPoints(), entries[0].Metadata.StartPoints)
	assert.Equal(t, gold.TotalPoints(), entries[0].Metadata.EndPoints)
}

func TestMostRankClimbRequiresBothSets(t *testing.T) {
	snaps := &competition.Snapshots{PeriodStart: domain.RankSnapshotSet{}}
	_, err := competition.Score(competition.MostRankClimb{Queue: competition.QueueFilterSolo}, nil, nil, snaps)
	assert.ErrorIs(t, err, competition.ErrSnapshotRequired)
}

func TestMostWinsPlayerAcrossAccounts(t *testing.T) {
	a := participant("pa", "A", "main", "alt")
	matches := []domain.RawMatch{
		match("m1", domain.QueueIDSolo, domain.MatchParticipant{AccountID: "main", Win: true}),
		match("m2", domain.QueueIDSolo, domain.MatchParticipant{AccountID: "alt", Win: true}),
		match("m3", domain.QueueIDSolo, domain.MatchParticipant{AccountID: "main", Win: false}),
		match("m4", domain.QueueIDARAM, domain.MatchParticipant{AccountID: "main", Win: true}),
	}

	entries, err := competition.Score(competition.MostWinsPlayer{Queue: competition.QueueFilterSolo}, matches, []domain.Participant{a}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, 2.0, entries[0].Score)
	assert.Equal(t, 2, entries[0].Metadata.Wins)
	assert.Equal(t, 1, entries[0].Metadata.Losses)
	assert.Equal(t, 3, entries[0].Metadata.Games)
}

func TestMostWinsChampion(t *testing.T) {
	a := participant("pa", "A", "acc-a")
	matches := []domain.RawMatch{
		match("m1", domain.QueueIDSolo, domain.MatchParticipant{AccountID: "acc-a", ChampionID: 103, Win: true}),
		match("m2", domain.QueueIDSolo, domain.MatchParticipant{AccountID: "acc-a", ChampionID: 103, Win: false}),
		match("m3", domain.QueueIDSolo, domain.MatchParticipant{AccountID: "acc-a", ChampionID: 64, Win: true}),
	}

	entries, err := competition.Score(competition.MostWinsChampion{ChampionID: 103, Queue: competition.QueueFilterSolo}, matches, []domain.Participant{a}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, 1.0, entries[0].Score)
	assert.Equal(t, 103, entries[0].Metadata.ChampionID)
	assert.Equal(t, 2, entries[0].Metadata.ChampionGames)
}

func TestHighestWinRateMinGamesBoundary(t *testing.T) {
	// 15W/5L (20 games) and 8W/2L (10 games) both qualify at minGames=10;
	// a third player with 9 games does not.
	a := participant("pa", "A", "acc-a")
	b := participant("pb", "B", "acc-b")
	c := participant("pc", "C", "acc-c")

	var matches []domain.RawMatch
	addGames := func(account string, wins, losses int) {
		for i := 0; i < wins; i++ {
			matches = append(matches, match(account+"-w"+string(rune('0'+i)), domain.QueueIDSolo, domain.MatchParticipant{AccountID: account, Win: true}))
		}
		for i := 0; i < losses; i++ {
			matches = append(matches, match(account+"-l"+string(rune('0'+i)), domain.QueueIDSolo, domain.MatchParticipant{AccountID: account, Win: false}))
		}
	}
	addGames("acc-a", 15, 5)
	addGames("acc-b", 8, 2)
	addGames("acc-c", 5, 4)

	entries, err := competition.Score(competition.HighestWinRate{MinGames: 10, Queue: competition.QueueFilterSolo}, matches, []domain.Participant{a, b, c}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "pb", entries[0].ParticipantID)
	assert.InDelta(t, 0.80, entries[0].Score, 1e-9)
	assert.Equal(t, "pa", entries[1].ParticipantID)
	assert.InDelta(t, 0.75, entries[1].Score, 1e-9)
}

func TestHighestWinRateExcludesZeroGamePlayers(t *testing.T) {
	a := participant("pa", "A", "acc-a")
	entries, err := competition.Score(competition.HighestWinRate{MinGames: 1, Queue: competition.QueueFilterSolo}, nil, []domain.Participant{a}, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTiesKeepRosterOrder(t *testing.T) {
	a := participant("pa", "A", "acc-a")
	b := participant("pb", "B", "acc-b")
	m := match("m1", domain.QueueIDSolo,
		domain.MatchParticipant{AccountID: "acc-a", Win: true},
		domain.MatchParticipant{AccountID: "acc-b", Win: true})

	for i := 0; i < 5; i++ {
		entries, err := competition.Score(competition.MostGamesPlayed{Queue: competition.QueueFilterSolo}, []domain.RawMatch{m}, []domain.Participant{b, a}, nil)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "pb", entries[0].ParticipantID)
		assert.Equal(t, "pa", entries[1].ParticipantID)
	}
}
