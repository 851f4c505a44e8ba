package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"league-companion/internal/domain"
)

// SnapshotRepository stores point-in-time rank captures. One row per
// participant, queue and capture time; snapshot sets are assembled from
// the latest row at or before a reference instant.
type SnapshotRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSnapshotRepository(db *sql.DB, logger zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{db: db, logger: logger}
}

// Insert stores the ranks of one participant captured at takenAt. Queues
// without a rank in the snapshot get no row, keeping "no rank" distinct
// from a floor rank.
func (r *SnapshotRepository) Insert(ctx context.Context, serverID, participantID string, snap domain.RankSnapshot, takenAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := func(queue domain.QueueType, rank *domain.Rank) error {
		if rank == nil {
			return nil
		}
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate snapshot id: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO rank_snapshots
				(id, server_id, participant_id, queue, tier, division, league_points, wins, losses, taken_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, serverID, participantID, string(queue),
			int(rank.Tier), rank.Division, rank.LeaguePoints, rank.Wins, rank.Losses,
			takenAt.UTC(), time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to insert rank snapshot: %w", err)
		}
		return nil
	}

	if err := insert(domain.QueueSolo, snap.Solo); err != nil {
		return err
	}
	if err := insert(domain.QueueFlex, snap.Flex); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	r.logger.Debug().
		Str("participant_id", participantID).
		Bool("solo", snap.Solo != nil).
		Bool("flex", snap.Flex != nil).
		Time("taken_at", takenAt).
		Msg("rank snapshot stored")
	return nil
}

// SetAt assembles the snapshot set for a server as of the given instant:
// for each participant and queue, the latest capture at or before it.
// Participants with no capture by then are simply absent from the map.
func (r *SnapshotRepository) SetAt(ctx context.Context, serverID string, at time.Time) (domain.RankSnapshotSet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.participant_id, s.queue, s.tier, s.division, s.league_points, s.wins, s.losses
		FROM rank_snapshots s
		JOIN (
			SELECT participant_id, queue, MAX(taken_at) AS taken_at
			FROM rank_snapshots
			WHERE server_id = ? AND taken_at <= ?
			GROUP BY participant_id, queue
		) latest
		  ON latest.participant_id = s.participant_id
		 AND latest.queue = s.queue
		 AND latest.taken_at = s.taken_at
		WHERE s.server_id = ?`,
		serverID, at.UTC(), serverID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rank snapshots: %w", err)
	}
	defer rows.Close()

	set := make(domain.RankSnapshotSet)
	for rows.Next() {
		var participantID, queue string
		var tier int
		var rank domain.Rank
		if err := rows.Scan(&participantID, &queue, &tier, &rank.Division, &rank.LeaguePoints, &rank.Wins, &rank.Losses); err != nil {
			return nil, fmt.Errorf("failed to scan rank snapshot: %w", err)
		}
		rank.Tier = domain.Tier(tier)

		snap := set[participantID]
		r := rank
		switch domain.QueueType(queue) {
		case domain.QueueSolo:
			snap.Solo = &r
		case domain.QueueFlex:
			snap.Flex = &r
		}
		set[participantID] = snap
	}
	return set, rows.Err()
}

// CurrentSet is the snapshot set as of now.
func (r *SnapshotRepository) CurrentSet(ctx context.Context, serverID string) (domain.RankSnapshotSet, error) {
	return r.SetAt(ctx, serverID, time.Now().UTC())
}
