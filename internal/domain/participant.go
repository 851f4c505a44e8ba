package domain

import "time"

// LinkedAccount is one game account of a tracked participant.
type LinkedAccount struct {
	AccountID string `json:"accountId"`
	Region    string `json:"region"`
}

// Participant is a tracked player on a server. Statistics are the union
// across all linked accounts.
type Participant struct {
	ID          string          `json:"id"`
	ServerID    string          `json:"serverId"`
	DisplayName string          `json:"displayName"`
	Accounts    []LinkedAccount `json:"accounts"`
	// ExternalID is the chat-platform user id, when linked, so report
	// formatting can mention the participant.
	ExternalID string    `json:"externalId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AccountIDs returns the ids of all linked accounts.
func (p Participant) AccountIDs() []string {
	ids := make([]string, len(p.Accounts))
	for i, a := range p.Accounts {
		ids[i] = a.AccountID
	}
	return ids
}

// RankSnapshot is a point-in-time rank capture for one participant. A nil
// queue rank means the participant had no rank for that queue when the
// snapshot was taken, which is distinct from a floor rank.
type RankSnapshot struct {
	Solo *Rank `json:"soloRank,omitempty"`
	Flex *Rank `json:"flexRank,omitempty"`
}

// RankFor returns the snapshot's rank for the given queue. Queues other
// than solo and flex never carry ranks.
func (s RankSnapshot) RankFor(queue QueueType) (Rank, bool) {
	var r *Rank
	switch queue {
	case QueueSolo:
		r = s.Solo
	case QueueFlex:
		r = s.Flex
	}
	if r == nil {
		return Rank{}, false
	}
	return *r, true
}

// RankSnapshotSet maps participant id to a rank snapshot. Used as the
// "current", "period-start" and "period-end" reference for rank criteria.
type RankSnapshotSet map[string]RankSnapshot

// RankFor is a lookup-with-default over the set: ok is false when the
// participant is absent or has no rank for the queue.
func (set RankSnapshotSet) RankFor(participantID string, queue QueueType) (Rank, bool) {
	snap, ok := set[participantID]
	if !ok {
		return Rank{}, false
	}
	return snap.RankFor(queue)
}

// EntryMetadata carries per-criteria detail alongside a leaderboard score.
// Only the fields the criteria populates are set.
type EntryMetadata struct {
	LeaguePoints  int `json:"leaguePoints,omitempty"`
	StartPoints   int `json:"startPoints,omitempty"`
	EndPoints     int `json:"endPoints,omitempty"`
	Wins          int `json:"wins,omitempty"`
	Losses        int `json:"losses,omitempty"`
	Games         int `json:"games,omitempty"`
	ChampionID    int `json:"championId,omitempty"`
	ChampionGames int `json:"championGames,omitempty"`
}

// LeaderboardEntry is one row of a scored competition. The order of the
// produced slice is the authoritative ranking; callers must not re-sort.
type LeaderboardEntry struct {
	ParticipantID string        `json:"participantId"`
	DisplayName   string        `json:"displayName"`
	Score         float64       `json:"score"`
	Rank          *Rank         `json:"rank,omitempty"`
	Metadata      EntryMetadata `json:"metadata"`
	ExternalID    string        `json:"externalId,omitempty"`
}
