package domain

import "strings"

// Tier is a ranked ladder tier, ordered ascending.
type Tier int

const (
	TierIron Tier = iota
	TierBronze
	TierSilver
	TierGold
	TierPlatinum
	TierEmerald
	TierDiamond
	TierMaster
	TierGrandmaster
	TierChallenger
)

var tierNames = []string{
	"Iron", "Bronze", "Silver", "Gold", "Platinum",
	"Emerald", "Diamond", "Master", "Grandmaster", "Challenger",
}

func (t Tier) String() string {
	if t < TierIron || t > TierChallenger {
		return "Unknown"
	}
	return tierNames[t]
}

// TierFromString parses the tier strings the Riot league endpoints return
// ("GOLD", "CHALLENGER"). Unknown strings map to Iron.
func TierFromString(s string) Tier {
	for i, name := range tierNames {
		if strings.EqualFold(s, name) {
			return Tier(i)
		}
	}
	return TierIron
}

var divisionFromRoman = map[string]int{"I": 1, "II": 2, "III": 3, "IV": 4}

// DivisionFromString parses the roman numeral divisions of the league
// endpoints. Unknown strings map to division 4 (the worst).
func DivisionFromString(s string) int {
	if d, ok := divisionFromRoman[strings.ToUpper(s)]; ok {
		return d
	}
	return 4
}

// Rank is a point-in-time ranked standing. Division runs 1-4 with 1 the
// best; apex tiers (Master and above) always carry division 1.
type Rank struct {
	Tier         Tier `json:"tier"`
	Division     int  `json:"division"`
	LeaguePoints int  `json:"leaguePoints"`
	Wins         int  `json:"wins"`
	Losses       int  `json:"losses"`
}

// Per-tier stride for TotalPoints. Large enough that no in-division LP
// total (apex LP included) can outrank a higher tier.
const tierStride = 10000

// TotalPoints collapses tier, division and LP into one monotonic integer.
// Strictly increasing by tier, then by division quality (1 over 4), then
// by LP. All rank comparisons in the codebase go through this value.
func (r Rank) TotalPoints() int {
	return int(r.Tier)*tierStride + (4-r.Division)*100 + r.LeaguePoints
}

// FloorRank is the lowest defined rank, substituted when a criteria needs
// a score for a participant with no rank on record.
func FloorRank() Rank {
	return Rank{Tier: TierIron, Division: 4, LeaguePoints: 0}
}

func (r Rank) String() string {
	switch r.Tier {
	case TierMaster, TierGrandmaster, TierChallenger:
		return r.Tier.String()
	}
	romans := []string{"", "I", "II", "III", "IV"}
	if r.Division < 1 || r.Division > 4 {
		return r.Tier.String()
	}
	return r.Tier.String() + " " + romans[r.Division]
}
