package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"league-companion/internal/domain"
)

func TestTotalPointsOrdering(t *testing.T) {
	goldIV := domain.Rank{Tier: domain.TierGold, Division: 4}
	goldI := domain.Rank{Tier: domain.TierGold, Division: 1}
	platIV := domain.Rank{Tier: domain.TierPlatinum, Division: 4}

	assert.Less(t, goldIV.TotalPoints(), goldI.TotalPoints())
	assert.Less(t, goldI.TotalPoints(), platIV.TotalPoints())
}

func TestTotalPointsStrictlyIncreasingAcrossLadder(t *testing.T) {
	prev := -1
	for tier := domain.TierIron; tier <= domain.TierDiamond; tier++ {
		for division := 4; division >= 1; division-- {
			for _, lp := range []int{0, 50, 99} {
				r := domain.Rank{Tier: tier, Division: division, LeaguePoints: lp}
				assert.Greater(t, r.TotalPoints(), prev, "rank %s %d LP", r, lp)
				prev = r.TotalPoints()
			}
		}
	}
}

func TestTotalPointsTierDominatesPoints(t *testing.T) {
	// High apex LP never outranks the next tier up.
	grandmaster := domain.Rank{Tier: domain.TierGrandmaster, Division: 1, LeaguePoints: 1500}
	challenger := domain.Rank{Tier: domain.TierChallenger, Division: 1, LeaguePoints: 0}
	assert.Less(t, grandmaster.TotalPoints(), challenger.TotalPoints())
}

func TestFloorRankIsLowest(t *testing.T) {
	floor := domain.FloorRank()
	assert.Equal(t, domain.TierIron, floor.Tier)
	assert.Equal(t, 4, floor.Division)
	assert.Equal(t, 0, floor.LeaguePoints)

	ironIVOneLP := domain.Rank{Tier: domain.TierIron, Division: 4, LeaguePoints: 1}
	assert.Less(t, floor.TotalPoints(), ironIVOneLP.TotalPoints())
}

func TestTierFromString(t *testing.T) {
	assert.Equal(t, domain.TierGold, domain.TierFromString("GOLD"))
	assert.Equal(t, domain.TierChallenger, domain.TierFromString("Challenger"))
	assert.Equal(t, domain.TierIron, domain.TierFromString("whatever"))
}

func TestDivisionFromString(t *testing.T) {
	assert.Equal(t, 1, domain.DivisionFromString("I"))
	assert.Equal(t, 4, domain.DivisionFromString("IV"))
	assert.Equal(t, 4, domain.DivisionFromString(""))
}

func TestQueueFromID(t *testing.T) {
	assert.Equal(t, domain.QueueSolo, domain.QueueFromID(420))
	assert.Equal(t, domain.QueueFlex, domain.QueueFromID(440))
	assert.Equal(t, domain.QueueARAM, domain.QueueFromID(450))
	assert.Equal(t, domain.QueueArena, domain.QueueFromID(1700))
	assert.Equal(t, domain.QueueOther, domain.QueueFromID(490))
}

func TestRankString(t *testing.T) {
	assert.Equal(t, "Gold II", domain.Rank{Tier: domain.TierGold, Division: 2}.String())
	assert.Equal(t, "Master", domain.Rank{Tier: domain.TierMaster, Division: 1}.String())
}
