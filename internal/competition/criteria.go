package competition

import (
	"fmt"

	"league-companion/internal/domain"
)

// QueueFilter selects which queues a criteria counts.
type QueueFilter string

const (
	QueueFilterSolo      QueueFilter = "solo"
	QueueFilterFlex      QueueFilter = "flex"
	QueueFilterArena     QueueFilter = "arena"
	QueueFilterRankedAny QueueFilter = "ranked_any"
	QueueFilterAll       QueueFilter = "all"
)

// Allows reports whether a match queue passes the filter.
func (f QueueFilter) Allows(q domain.QueueType) bool {
	switch f {
	case QueueFilterSolo:
		return q == domain.QueueSolo
	case QueueFilterFlex:
		return q == domain.QueueFlex
	case QueueFilterArena:
		return q == domain.QueueArena
	case QueueFilterRankedAny:
		return q == domain.QueueSolo || q == domain.QueueFlex
	case QueueFilterAll:
		return true
	}
	return false
}

// SnapshotQueue maps the filter to the queue whose rank snapshot a
// rank-based criteria reads. Only solo and flex carry ranks; everything
// else defaults to solo.
func (f QueueFilter) SnapshotQueue() domain.QueueType {
	if f == QueueFilterFlex {
		return domain.QueueFlex
	}
	return domain.QueueSolo
}

// IsValid reports whether the filter is one of the known values.
func (f QueueFilter) IsValid() bool {
	switch f {
	case QueueFilterSolo, QueueFilterFlex, QueueFilterArena, QueueFilterRankedAny, QueueFilterAll:
		return true
	}
	return false
}

// Criteria is the closed set of competition scoring rules. Only the
// types in this package implement it; Score dispatches exhaustively and
// fails loudly on anything it does not know.
type Criteria interface {
	fmt.Stringer
	isCriteria()
}

// MostGamesPlayed ranks participants by the number of matches played in
// the filtered queues.
type MostGamesPlayed struct {
	Queue QueueFilter
}

// HighestRank ranks participants by their current rank for the queue.
// Participants without a current rank score the floor rank.
type HighestRank struct {
	Queue QueueFilter
}

// MostRankClimb ranks participants by league-point gain between the
// period-start and period-end snapshots. Participants missing either
// endpoint are excluded entirely.
type MostRankClimb struct {
	Queue QueueFilter
}

// MostWinsPlayer ranks participants by won match-participations.
type MostWinsPlayer struct {
	Queue QueueFilter
}

// MostWinsChampion ranks participants by wins on one champion.
type MostWinsChampion struct {
	ChampionID int
	Queue      QueueFilter
}

// HighestWinRate ranks participants by win rate, excluding anyone with
// fewer than MinGames filtered games.
type HighestWinRate struct {
	MinGames int
	Queue    QueueFilter
}

func (MostGamesPlayed) isCriteria()  {}
func (HighestRank) isCriteria()      {}
func (MostRankClimb) isCriteria()    {}
func (MostWinsPlayer) isCriteria()   {}
func (MostWinsChampion) isCriteria() {}
func (HighestWinRate) isCriteria()   {}

func (c MostGamesPlayed) String() string { return fmt.Sprintf("most_games_played(%s)", c.Queue) }
func (c HighestRank) String() string     { return fmt.Sprintf("highest_rank(%s)", c.Queue) }
func (c MostRankClimb) String() string   { return fmt.Sprintf("most_rank_climb(%s)", c.Queue) }
func (c MostWinsPlayer) String() string  { return fmt.Sprintf("most_wins_player(%s)", c.Queue) }
func (c MostWinsChampion) String() string {
	return fmt.Sprintf("most_wins_champion(%d, %s)", c.ChampionID, c.Queue)
}
func (c HighestWinRate) String() string {
	return fmt.Sprintf("highest_win_rate(min %d, %s)", c.MinGames, c.Queue)
}
