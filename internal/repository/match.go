package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"league-companion/internal/constants"
	"league-companion/internal/domain"
)

type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(db *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{db: db, logger: logger}
}

// UpsertBatch stores matches and their per-account participations,
// one transaction per chunk of DBBatchSize so a large sync cannot hold
// a single write transaction open past DatabaseTimeout. Re-upserting an
// already stored match is a no-op per row.
func (r *MatchRepository) UpsertBatch(ctx context.Context, matches []domain.RawMatch) error {
	if len(matches) == 0 {
		return nil
	}

	for start := 0; start < len(matches); start += constants.DBBatchSize {
		end := min(start+constants.DBBatchSize, len(matches))
		if err := r.upsertChunk(ctx, matches[start:end]); err != nil {
			return err
		}
	}

	r.logger.Info().Int("matches", len(matches)).Msg("match batch stored")
	return nil
}

func (r *MatchRepository) upsertChunk(ctx context.Context, matches []domain.RawMatch) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, m := range matches {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO matches (match_id, queue_id, duration, started_at, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (match_id) DO UPDATE SET
				queue_id = excluded.queue_id,
				duration = excluded.duration,
				started_at = excluded.started_at,
				updated_at = excluded.updated_at`,
			m.MatchID, m.QueueID, m.Duration, m.StartedAt.UTC(), now, now)
		if err != nil {
			return fmt.Errorf("failed to upsert match %s: %w", m.MatchID, err)
		}

		for _, mp := range m.Participants {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO match_participants (match_id, account_id, champion_id, win, surrendered)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT (match_id, account_id) DO UPDATE SET
					champion_id = excluded.champion_id,
					win = excluded.win,
					surrendered = excluded.surrendered`,
				m.MatchID, mp.AccountID, mp.ChampionID, mp.Win, mp.Surrendered)
			if err != nil {
				return fmt.Errorf("failed to upsert participant %s/%s: %w", m.MatchID, mp.AccountID, err)
			}
		}
	}

	return tx.Commit()
}

// HasMatch reports whether a match is already stored, so a sync can skip
// refetching it.
func (r *MatchRepository) HasMatch(ctx context.Context, matchID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matches WHERE match_id = ?`, matchID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// QueryByDateRange returns every stored match in [start, end] involving
// any of the given accounts, with full participant rows. This is the
// match source of the pairing engine and the competition service.
func (r *MatchRepository) QueryByDateRange(ctx context.Context, start, end time.Time, accountIDs []string) ([]domain.RawMatch, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(accountIDs))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(accountIDs)+2)
	args = append(args, start.UTC(), end.UTC())
	for _, id := range accountIDs {
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT m.match_id, m.queue_id, m.duration, m.started_at
		FROM matches m
		JOIN match_participants mp ON mp.match_id = m.match_id
		WHERE m.started_at >= ? AND m.started_at <= ?
		  AND mp.account_id IN (%s)
		ORDER BY m.started_at`, placeholders)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []domain.RawMatch
	index := make(map[string]int)
	for rows.Next() {
		var m domain.RawMatch
		if err := rows.Scan(&m.MatchID, &m.QueueID, &m.Duration, &m.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		index[m.MatchID] = len(matches)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}

	if err := r.loadParticipants(ctx, matches, index); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *MatchRepository) loadParticipants(ctx context.Context, matches []domain.RawMatch, index map[string]int) error {
	ids := make([]any, len(matches))
	placeholders := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.MatchID
		placeholders[i] = "?"
	}

	query := fmt.Sprintf(`
		SELECT match_id, account_id, champion_id, win, surrendered
		FROM match_participants
		WHERE match_id IN (%s)
		ORDER BY match_id, account_id`, strings.Join(placeholders, ","))

	rows, err := r.db.QueryContext(ctx, query, ids...)
	if err != nil {
		return fmt.Errorf("failed to query match participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var matchID string
		var mp domain.MatchParticipant
		if err := rows.Scan(&matchID, &mp.AccountID, &mp.ChampionID, &mp.Win, &mp.Surrendered); err != nil {
			return fmt.Errorf("failed to scan match participant: %w", err)
		}
		i, ok := index[matchID]
		if !ok {
			continue
		}
		matches[i].Participants = append(matches[i].Participants, mp)
		matches[i].AccountIDs = append(matches[i].AccountIDs, mp.AccountID)
	}
	return rows.Err()
}
