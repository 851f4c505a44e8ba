package domain

import "time"

// QueueType classifies a match by its queue.
type QueueType string

const (
	QueueSolo  QueueType = "solo"
	QueueFlex  QueueType = "flex"
	QueueArena QueueType = "arena"
	QueueARAM  QueueType = "aram"
	QueueOther QueueType = "other"
)

// Riot queue ids for the queues the bot cares about.
const (
	QueueIDSolo  = 420
	QueueIDFlex  = 440
	QueueIDARAM  = 450
	QueueIDArena = 1700
)

// QueueFromID maps a Riot queue id to a QueueType. Anything not tracked
// (customs, quickplay, rotating modes) is QueueOther.
func QueueFromID(id int) QueueType {
	switch id {
	case QueueIDSolo:
		return QueueSolo
	case QueueIDFlex:
		return QueueFlex
	case QueueIDARAM:
		return QueueARAM
	case QueueIDArena:
		return QueueArena
	default:
		return QueueOther
	}
}

// MatchParticipant is one account's result within a match.
type MatchParticipant struct {
	AccountID   string `json:"accountId"`
	ChampionID  int    `json:"championId"`
	Win         bool   `json:"win"`
	Surrendered bool   `json:"surrendered"`
}

// RawMatch is one completed game as fetched from the match store.
// Immutable once fetched.
type RawMatch struct {
	MatchID      string             `json:"matchId"`
	QueueID      int                `json:"queueId"`
	Duration     int                `json:"duration"` // seconds
	StartedAt    time.Time          `json:"startedAt"`
	Participants []MatchParticipant `json:"participants"`
	AccountIDs   []string           `json:"accountIds"`
}

// Queue returns the queue classification of the match.
func (m RawMatch) Queue() QueueType {
	return QueueFromID(m.QueueID)
}

// HasAccount reports whether any of the given account ids took part in
// the match.
func (m RawMatch) HasAccount(accountIDs ...string) bool {
	for _, id := range accountIDs {
		for _, a := range m.AccountIDs {
			if a == id {
				return true
			}
		}
	}
	return false
}
